package workflow

import (
	"testing"

	"github.com/specialistvlad/tilegrid/internal/catalog"
	"github.com/specialistvlad/tilegrid/internal/graph"
	"github.com/specialistvlad/tilegrid/internal/inmemorytopology"
	"github.com/specialistvlad/tilegrid/internal/interval"
	"github.com/specialistvlad/tilegrid/internal/node"
	"github.com/specialistvlad/tilegrid/internal/profile"
	"github.com/specialistvlad/tilegrid/internal/registry"
	"github.com/specialistvlad/tilegrid/internal/testutil"
	"github.com/specialistvlad/tilegrid/internal/tiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inspiralProfile() profile.Profile {
	return profile.Single("inspiral", 2048, 72, 1976)
}

func mustCatalog(t *testing.T, artifacts ...catalog.Artifact) *catalog.Memory {
	t.Helper()
	c, err := catalog.NewMemory(artifacts...)
	require.NoError(t, err)
	return c
}

func keys(nodes []*node.JobNode) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Key()
	}
	return out
}

func artifactIDs(artifacts []catalog.Artifact) []string {
	out := make([]string, len(artifacts))
	for i, a := range artifacts {
		out[i] = a.ID
	}
	return out
}

func TestRun_TilesSegmentAndEmitsToSink(t *testing.T) {
	ctx, _ := testutil.Context(t)
	g := graph.New(inmemorytopology.New())
	d := &Driver{
		Name:         "inspiral",
		Kind:         "inspiral",
		Instrument:   "H1",
		Profile:      inspiralProfile(),
		AllowOverlap: true,
		Builder:      registry.SingleOutput,
		Sink:         g,
	}

	nodes, err := d.Run(ctx, interval.List{interval.MustNew(0, 6000)})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"inspiral.H1.seg[0].job[0]",
		"inspiral.H1.seg[0].job[1]",
		"inspiral.H1.seg[0].job[2]",
		"inspiral.H1.seg[0].job[3]",
	}, keys(nodes))
	assert.Equal(t, interval.MustNew(0, 2048), nodes[0].Plan.Data)
	assert.Equal(t, interval.MustNew(72, 1976), nodes[0].Plan.Valid)
	assert.Equal(t, int64(6000), nodes[3].Plan.Data.End)

	require.Len(t, nodes[1].Outputs, 1)
	assert.Equal(t, nodes[1].Plan.Valid, nodes[1].Outputs[0].Interval)
	assert.Equal(t, "H1", nodes[1].Outputs[0].Owner)
	assert.Len(t, g.Nodes(ctx), 4)
}

func TestRun_FanOutPerParent(t *testing.T) {
	ctx, _ := testutil.Context(t)
	frame := catalog.Artifact{ID: "frame", Interval: interval.MustNew(0, 4096)}
	parents := mustCatalog(t,
		catalog.Artifact{ID: "bank-a", Owner: "a", Interval: interval.MustNew(0, 2000)},
		catalog.Artifact{ID: "bank-b", Owner: "b", Interval: interval.MustNew(50, 3000)},
	)
	d := &Driver{
		Name:    "inspiral",
		Kind:    "inspiral",
		Profile: inspiralProfile(),
		Parents: parents,
		Data:    mustCatalog(t, frame),
	}

	nodes, err := d.Run(ctx, interval.List{interval.MustNew(0, 2048)})
	require.NoError(t, err)

	require.Len(t, nodes, 2)
	assert.Equal(t, []string{"inspiral.seg[0].job[0].parent[0]", "inspiral.seg[0].job[0].parent[1]"}, keys(nodes))
	for i, n := range nodes {
		require.NotNil(t, n.FanoutParent)
		assert.Equal(t, []string{"bank-a", "bank-b"}[i], n.FanoutParent.ID)
		assert.Equal(t, []string{n.FanoutParent.ID}, artifactIDs(n.Parents))
		assert.Equal(t, []string{"frame"}, artifactIDs(n.DataInputs))
		assert.Equal(t, nodes[0].Plan, n.Plan)
	}
}

func TestRun_SingleParentDoesNotFanOut(t *testing.T) {
	ctx, _ := testutil.Context(t)
	d := &Driver{
		Name:    "inspiral",
		Profile: inspiralProfile(),
		Parents: mustCatalog(t, catalog.Artifact{ID: "bank", Interval: interval.MustNew(50, 2000), Tags: []string{"bank"}}),
		Tags:    []string{"FULL_DATA"},
	}

	nodes, err := d.Run(ctx, interval.List{interval.MustNew(0, 2048)})
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "inspiral.seg[0].job[0]", nodes[0].Key())
	assert.Nil(t, nodes[0].FanoutParent)
	assert.Equal(t, []string{"bank"}, artifactIDs(nodes[0].Parents))
	assert.Equal(t, []string{"FULL_DATA"}, nodes[0].Tags)
}

func TestRun_NarrowParentsAndBankTags(t *testing.T) {
	ctx, _ := testutil.Context(t)
	parents := mustCatalog(t,
		catalog.Artifact{ID: "b0", Owner: "H1", Interval: interval.MustNew(0, 2000), Tags: []string{"BANK0"}},
		catalog.Artifact{ID: "b1", Owner: "H1", Interval: interval.MustNew(0, 2000), Tags: []string{"BANK1", "other"}},
		catalog.Artifact{ID: "late", Owner: "H1", Interval: interval.MustNew(1900, 4000), Tags: []string{"BANK0"}},
		catalog.Artifact{ID: "l1", Owner: "L1", Interval: interval.MustNew(0, 2000)},
	)
	d := &Driver{
		Name:          "inspiral",
		Instrument:    "H1",
		Profile:       inspiralProfile(),
		Parents:       parents,
		NarrowParents: true,
		Tags:          []string{"FULL_DATA"},
	}

	nodes, err := d.Run(ctx, interval.List{interval.MustNew(0, 2048)})
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "b0", nodes[0].FanoutParent.ID)
	assert.Equal(t, []string{"BANK0", "FULL_DATA"}, nodes[0].Tags)
	assert.Equal(t, []string{"BANK1", "FULL_DATA"}, nodes[1].Tags)
}

func TestRun_MissingParentAborts(t *testing.T) {
	ctx, _ := testutil.Context(t)
	g := graph.New(inmemorytopology.New())
	d := &Driver{
		Name:       "inspiral",
		Instrument: "H1",
		Profile:    inspiralProfile(),
		Parents:    mustCatalog(t, catalog.Artifact{ID: "bank", Owner: "H1", Interval: interval.MustNew(0, 2048)}),
		Sink:       g,
		Workers:    2,
	}

	_, err := d.Run(ctx, interval.List{interval.MustNew(0, 2048), interval.MustNew(10000, 12048)})
	require.Error(t, err)

	var noMatch *catalog.NoMatchingArtifactError
	require.ErrorAs(t, err, &noMatch)
	assert.Equal(t, ClassParent, noMatch.Class)
	assert.Equal(t, "H1", noMatch.Owner)
	assert.Equal(t, interval.MustNew(10072, 11976), noMatch.Interval)
	assert.Contains(t, err.Error(), "inspiral.H1.seg[1].job[0]")
}

func TestRun_MissingDataAborts(t *testing.T) {
	ctx, _ := testutil.Context(t)
	d := &Driver{
		Name:    "inspiral",
		Profile: inspiralProfile(),
		Data:    mustCatalog(t, catalog.Artifact{ID: "frame", Interval: interval.MustNew(5000, 6000)}),
	}

	_, err := d.Run(ctx, interval.List{interval.MustNew(0, 2048)})
	var noMatch *catalog.NoMatchingArtifactError
	require.ErrorAs(t, err, &noMatch)
	assert.Equal(t, ClassData, noMatch.Class)
	assert.Equal(t, interval.MustNew(0, 2048), noMatch.Interval)
}

func TestRun_ShortSegmentsYieldNothing(t *testing.T) {
	ctx, _ := testutil.Context(t)
	d := &Driver{Name: "inspiral", Profile: inspiralProfile()}

	nodes, err := d.Run(ctx, interval.List{interval.MustNew(0, 1000), interval.MustNew(2000, 4048)})
	require.NoError(t, err)
	assert.Equal(t, []string{"inspiral.seg[1].job[0]"}, keys(nodes))

	nodes, err = d.Run(ctx, interval.List{interval.MustNew(0, 1000)})
	require.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestRun_ExcludeTagsFiltersDependencies(t *testing.T) {
	ctx, _ := testutil.Context(t)
	data := mustCatalog(t,
		catalog.Artifact{ID: "frame", Interval: interval.MustNew(0, 4096)},
		catalog.Artifact{ID: "psd", Interval: interval.MustNew(0, 4096), Tags: []string{"PSD_FILE"}},
	)
	parents := mustCatalog(t,
		catalog.Artifact{ID: "bank", Interval: interval.MustNew(0, 6000)},
		catalog.Artifact{ID: "bank-psd", Interval: interval.MustNew(0, 6000), Tags: []string{"PSD_FILE"}},
	)
	d := &Driver{
		Name:        "inspiral",
		Profile:     inspiralProfile(),
		Parents:     parents,
		Data:        data,
		ExcludeTags: []string{"PSD_FILE"},
	}

	nodes, err := d.Run(ctx, interval.List{interval.MustNew(0, 6000)})
	require.NoError(t, err)

	withoutFilter := *d
	withoutFilter.ExcludeTags = nil
	unfiltered, err := withoutFilter.Run(ctx, interval.List{interval.MustNew(0, 6000)})
	require.NoError(t, err)

	plans := func(nodes []*node.JobNode) []tiler.JobPlan {
		var out []tiler.JobPlan
		for _, n := range nodes {
			if len(out) == 0 || out[len(out)-1] != n.Plan {
				out = append(out, n.Plan)
			}
		}
		return out
	}
	require.Equal(t, plans(unfiltered), plans(nodes), "filtering never changes the tiling")
	require.Len(t, nodes, 4)
	require.Len(t, unfiltered, 8)
	for _, n := range nodes {
		assert.Equal(t, []string{"frame"}, artifactIDs(n.DataInputs))
		assert.Equal(t, []string{"bank"}, artifactIDs(n.Parents))
	}
}

func TestRun_ExcludedParentNeitherFansOutNorLinks(t *testing.T) {
	ctx, _ := testutil.Context(t)
	parents := mustCatalog(t,
		catalog.Artifact{ID: "bank", Owner: "H1", Interval: interval.MustNew(0, 2048), Producer: "tmpltbank.H1.seg[0].job[0]"},
		catalog.Artifact{ID: "bank.psd", Owner: "H1", Interval: interval.MustNew(0, 2048), Tags: []string{"PSD_FILE"}, Producer: "tmpltbank.H1.seg[0].job[0].psd"},
	)
	for _, narrow := range []bool{false, true} {
		d := &Driver{
			Name:          "inspiral",
			Instrument:    "H1",
			Profile:       inspiralProfile(),
			Parents:       parents,
			NarrowParents: narrow,
			ExcludeTags:   []string{"PSD_FILE"},
		}

		nodes, err := d.Run(ctx, interval.List{interval.MustNew(0, 2048)})
		require.NoError(t, err)
		require.Len(t, nodes, 1, "narrow=%v", narrow)
		n := nodes[0]
		assert.Equal(t, "inspiral.H1.seg[0].job[0]", n.Key())
		assert.Nil(t, n.FanoutParent)
		assert.Equal(t, []string{"bank"}, artifactIDs(n.Parents))
		assert.Equal(t, []string{"bank"}, artifactIDs(n.Inputs()))
		assert.Equal(t, []string{"tmpltbank.H1.seg[0].job[0]"}, n.Producers())
	}
}

func TestRun_OnlyExcludedParentsIsNoMatch(t *testing.T) {
	ctx, _ := testutil.Context(t)
	d := &Driver{
		Name:    "inspiral",
		Profile: inspiralProfile(),
		Parents: mustCatalog(t,
			catalog.Artifact{ID: "bank.psd", Interval: interval.MustNew(0, 2048), Tags: []string{"PSD_FILE"}},
		),
		ExcludeTags: []string{"PSD_FILE"},
	}

	_, err := d.Run(ctx, interval.List{interval.MustNew(0, 2048)})
	var noMatch *catalog.NoMatchingArtifactError
	require.ErrorAs(t, err, &noMatch)
	assert.Equal(t, ClassParent, noMatch.Class)
}

func TestRun_ConfigurationErrorIsFatal(t *testing.T) {
	ctx, _ := testutil.Context(t)
	d := &Driver{
		Name: "broken",
		Profile: profile.Profile{Kind: "broken", Entries: []profile.Entry{
			{DataLength: 100, Valid: interval.MustNew(0, 200)},
		}},
	}

	_, err := d.Run(ctx, interval.List{interval.MustNew(0, 1000)})
	var cfgErr *tiler.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "broken", cfgErr.Kind)
}

func TestRun_ParallelSegmentsAreDeterministic(t *testing.T) {
	ctx, _ := testutil.Context(t)
	var segs interval.List
	for i := int64(0); i < 40; i++ {
		segs = append(segs, interval.MustNew(i*20000, i*20000+3000+i*311))
	}

	run := func() ([]string, int) {
		g := graph.New(inmemorytopology.New())
		d := &Driver{
			Name:       "inspiral",
			Instrument: "L1",
			Profile:    inspiralProfile(),
			Builder:    registry.SingleOutput,
			Sink:       g,
			Workers:    8,
		}
		nodes, err := d.Run(ctx, segs)
		require.NoError(t, err)
		return keys(nodes), len(g.Nodes(ctx))
	}

	first, inSink := run()
	second, _ := run()
	assert.Equal(t, first, second)
	assert.Equal(t, len(first), inSink)
	assert.NotEmpty(t, first)
}

func TestRun_DuplicateNodeInSinkFails(t *testing.T) {
	ctx, _ := testutil.Context(t)
	g := graph.New(inmemorytopology.New())
	d := &Driver{Name: "inspiral", Profile: inspiralProfile(), Sink: g}

	_, err := d.Run(ctx, interval.List{interval.MustNew(0, 2048)})
	require.NoError(t, err)
	_, err = d.Run(ctx, interval.List{interval.MustNew(0, 2048)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}
