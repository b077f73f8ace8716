package tiler

import (
	"errors"
	"fmt"
	"testing"

	"github.com/specialistvlad/tilegrid/internal/interval"
	"github.com/specialistvlad/tilegrid/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inspiralProfile() profile.Profile {
	return profile.Single("inspiral", 2048, 72, 1976)
}

func TestTile_SixThousandSecondSegment(t *testing.T) {
	seg := interval.MustNew(0, 6000)
	s, err := NewSegmenter(seg, inspiralProfile())
	require.NoError(t, err)

	assert.Equal(t, 4, s.NumJobs())
	assert.Equal(t, int64(144), s.DataLoss())
	assert.InDelta(t, 1317.333, s.Shift(), 0.001)

	plans, err := s.Plans(true)
	require.NoError(t, err)
	require.Len(t, plans, 4)

	assert.Equal(t, JobPlan{Index: 0, Data: interval.MustNew(0, 2048), Valid: interval.MustNew(72, 1976)}, plans[0])
	assert.Equal(t, interval.MustNew(1317, 3365), plans[1].Data)
	assert.Equal(t, interval.MustNew(2634, 4682), plans[2].Data)
	assert.Equal(t, interval.MustNew(3952, 6000), plans[3].Data)
	assert.Equal(t, interval.MustNew(4024, 5928), plans[3].Valid)
}

func TestTile_ShortSegmentYieldsNoJobs(t *testing.T) {
	n, plans, err := Tile(interval.MustNew(500, 1500), inspiralProfile(), true)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, plans)
}

func TestTile_ExactFitIsOneJobWithoutShift(t *testing.T) {
	s, err := NewSegmenter(interval.MustNew(100, 2148), inspiralProfile())
	require.NoError(t, err)
	assert.Equal(t, 1, s.NumJobs())
	assert.Zero(t, s.Shift())

	plans, err := s.Plans(false)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, interval.MustNew(100, 2148), plans[0].Data)
	assert.Equal(t, interval.MustNew(172, 2076), plans[0].Valid)
}

func TestTile_NegativeDataLossIsConfigurationError(t *testing.T) {
	bad := profile.Single("broken", 100, 0, 200)
	_, _, err := Tile(interval.MustNew(0, 1000), bad, true)

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "broken", cfgErr.Kind)
}

func TestTile_EmptyProfileIsConfigurationError(t *testing.T) {
	_, _, err := Tile(interval.MustNew(0, 1000), profile.Profile{Kind: "none"}, true)
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestValidWindow_DisjointSliceOutsideWindowIsConfigurationError(t *testing.T) {
	// Too few jobs for the segment: each slice is wider than a job's window.
	s := &Segmenter{
		kind:     "inspiral",
		segment:  interval.MustNew(0, 6000),
		entry:    inspiralProfile().Entries[0],
		dataLoss: 144,
		numJobs:  2,
		shiftNum: 3952,
		shiftDen: 1,
	}
	_, err := s.ValidWindow(0, false)
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)

	_, err = s.ValidWindow(0, true)
	require.NoError(t, err)
}

func TestDataWindow_BoundaryCheck(t *testing.T) {
	s := &Segmenter{
		segment:  interval.MustNew(0, 6000),
		entry:    inspiralProfile().Entries[0],
		numJobs:  4,
		shiftNum: 1000,
		shiftDen: 1,
	}
	_, err := s.DataWindow(0)
	require.NoError(t, err)

	_, err = s.DataWindow(3)
	var structErr *StructuralInvariantError
	require.ErrorAs(t, err, &structErr)
	assert.Equal(t, 3, structErr.Index)
}

func TestDataWindow_PaddingExtendsWithinSegment(t *testing.T) {
	p := inspiralProfile()
	p.Padding = &profile.Padding{Start: 64, End: 16}

	plans, err := func() ([]JobPlan, error) {
		_, plans, err := Tile(interval.MustNew(0, 6000), p, true)
		return plans, err
	}()
	require.NoError(t, err)
	require.Len(t, plans, 4)

	assert.Equal(t, interval.MustNew(0, 2064), plans[0].Data)
	assert.Equal(t, interval.MustNew(1253, 3381), plans[1].Data)
	assert.Equal(t, interval.MustNew(3888, 6000), plans[3].Data)
	// Valid windows are unaffected by padding.
	assert.Equal(t, interval.MustNew(72, 1976), plans[0].Valid)
}

func TestPickEntry_ClosestToOneThird(t *testing.T) {
	p := profile.Profile{Kind: "inspiral", Entries: []profile.Entry{
		{DataLength: 400, Valid: interval.MustNew(50, 350)},   // 300
		{DataLength: 1100, Valid: interval.MustNew(50, 1050)}, // 1000
		{DataLength: 2100, Valid: interval.MustNew(50, 2050)}, // 2000
	}}

	testCases := []struct {
		duration int64
		want     int
	}{
		{duration: 900, want: 0},   // target 300
		{duration: 3000, want: 1},  // target 1000
		{duration: 9000, want: 2},  // target 3000
		{duration: 1950, want: 0},  // target 650, equidistant from 300 and 1000: first wins
		{duration: 4500, want: 1},  // target 1500, tie between 1000 and 2000: first wins
		{duration: 4503, want: 2},  // just past the tie
		{duration: 100, want: 0},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%d", tc.duration), func(t *testing.T) {
			got, err := PickEntry(p, tc.duration)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTile_IsDeterministic(t *testing.T) {
	seg := interval.MustNew(1000000000, 1000012345)
	_, first, err := Tile(seg, inspiralProfile(), false)
	require.NoError(t, err)
	_, second, err := Tile(seg, inspiralProfile(), false)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// TestTile_CoverageProperties sweeps segment lengths and profiles and checks
// the tiling guarantees on every result.
func TestTile_CoverageProperties(t *testing.T) {
	profiles := []profile.Profile{
		inspiralProfile(),
		profile.Single("bank", 2016, 8, 2008),
		profile.Single("odd", 333, 17, 301),
		{Kind: "multi", Entries: []profile.Entry{
			{DataLength: 272, Valid: interval.MustNew(72, 248)},
			{DataLength: 448, Valid: interval.MustNew(72, 424)},
			{DataLength: 624, Valid: interval.MustNew(72, 600)},
		}},
	}

	for _, p := range profiles {
		for _, start := range []int64{0, 1000000007} {
			for duration := int64(0); duration <= 20000; duration += 97 {
				seg := interval.MustNew(start, start+duration)
				checkTiling(t, p, seg)
			}
		}
	}
}

func checkTiling(t *testing.T, p profile.Profile, seg interval.Interval) {
	t.Helper()
	s, err := NewSegmenter(seg, p)
	require.NoError(t, err)
	entry := s.Entry()

	if seg.Duration() < entry.DataLength {
		require.Zero(t, s.NumJobs(), "segment %s shorter than data length", seg)
		return
	}
	require.Positive(t, s.NumJobs())

	overlapping, err := s.Plans(true)
	require.NoError(t, err, "segment %s kind %s", seg, p.Kind)
	disjoint, err := s.Plans(false)
	require.NoError(t, err, "segment %s kind %s", seg, p.Kind)

	first := overlapping[0]
	last := overlapping[len(overlapping)-1]
	require.Equal(t, seg.Start, first.Data.Start)
	require.Equal(t, seg.End, last.Data.End)

	// Valid windows leave no gap between the first valid start and the last
	// valid end, and every window stays inside its data window.
	wantStart := seg.Start + entry.Valid.Start
	wantEnd := seg.End - (entry.DataLength - entry.Valid.End)
	reach := wantStart
	for _, plan := range overlapping {
		require.True(t, seg.Covers(plan.Data), "data %s outside segment %s", plan.Data, seg)
		require.True(t, plan.Data.Covers(plan.Valid))
		require.LessOrEqual(t, plan.Valid.Start, reach, "gap before %s in %s", plan.Valid, seg)
		reach = max(reach, plan.Valid.End)
	}
	require.Equal(t, wantEnd, reach)

	// Disjoint slices tile the same span exactly and never intersect.
	require.Equal(t, wantStart, disjoint[0].Valid.Start)
	require.Equal(t, wantEnd, disjoint[len(disjoint)-1].Valid.End)
	for i := range disjoint {
		require.True(t, overlapping[i].Valid.Covers(disjoint[i].Valid))
		require.Equal(t, overlapping[i].Data, disjoint[i].Data)
		if i > 0 {
			require.Equal(t, disjoint[i-1].Valid.End, disjoint[i].Valid.Start)
		}
		for j := i + 1; j < len(disjoint); j++ {
			require.False(t, disjoint[i].Valid.Overlaps(disjoint[j].Valid))
		}
	}
}

func TestFloorEps(t *testing.T) {
	assert.Equal(t, int64(1317), floorEps(3952, 3))
	assert.Equal(t, int64(2634), floorEps(3952*2, 3))
	assert.Equal(t, int64(3952), floorEps(3952*3, 3))
	// Within 1e-4 below an integer rounds up, as the float form does.
	assert.Equal(t, int64(1), floorEps(99999, 100000))
	assert.Equal(t, int64(0), floorEps(99989, 100000))
	assert.Equal(t, int64(-1), floorDiv(-1, 3))
	assert.Equal(t, int64(2), ceilDiv(5, 3))
}
