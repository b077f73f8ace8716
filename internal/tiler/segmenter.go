package tiler

import (
	"fmt"

	"github.com/specialistvlad/tilegrid/internal/interval"
	"github.com/specialistvlad/tilegrid/internal/profile"
)

// epsilonInverse is 1/epsilon for the 1e-4 second boundary tolerance.
const epsilonInverse = 10000

// JobPlan is the time layout of one job inside a segment.
type JobPlan struct {
	Index int               `json:"index"`
	Data  interval.Interval `json:"data"`
	Valid interval.Interval `json:"valid"`
}

// Segmenter holds the tiling decision for one segment. It is immutable once
// built and safe to share.
type Segmenter struct {
	kind     string
	segment  interval.Interval
	entry    profile.Entry
	padding  *profile.Padding
	dataLoss int64
	numJobs  int

	// shift between consecutive jobs is shiftNum/shiftDen.
	shiftNum int64
	shiftDen int64
}

// NewSegmenter picks the profile entry for seg and computes the job count
// and shift. A segment shorter than the chosen data length yields zero jobs
// and no error.
func NewSegmenter(seg interval.Interval, p profile.Profile) (*Segmenter, error) {
	if err := seg.Validate(); err != nil {
		return nil, err
	}
	duration := seg.Duration()

	pick, err := PickEntry(p, duration)
	if err != nil {
		return nil, err
	}
	entry := p.Entries[pick]

	s := &Segmenter{
		kind:     p.Kind,
		segment:  seg,
		entry:    entry,
		padding:  p.Padding,
		dataLoss: entry.DataLoss(),
		shiftDen: 1,
	}

	if s.dataLoss < 0 {
		return nil, &ConfigurationError{Kind: p.Kind, Reason: fmt.Sprintf(
			"valid span %s is longer than the %d seconds of data read", entry.Valid, entry.DataLength)}
	}
	if entry.Valid.Start < 0 || entry.Valid.End > entry.DataLength {
		return nil, &ConfigurationError{Kind: p.Kind, Reason: fmt.Sprintf(
			"valid span %s lies outside the data span [0,%d]", entry.Valid, entry.DataLength)}
	}

	if duration < entry.DataLength {
		return s, nil
	}

	s.numJobs = int(ceilDiv(duration-s.dataLoss, entry.Valid.Duration()))
	if s.numJobs > 1 {
		s.shiftNum = duration - entry.DataLength
		s.shiftDen = int64(s.numJobs - 1)
	}
	return s, nil
}

// PickEntry returns the index of the profile entry used for a segment of the
// given duration. A single entry is always used; otherwise the entry whose
// valid span is closest to a third of the segment wins, first one on ties.
func PickEntry(p profile.Profile, duration int64) (int, error) {
	if len(p.Entries) == 0 {
		return 0, &ConfigurationError{Kind: p.Kind, Reason: "profile has no entries"}
	}
	for i, e := range p.Entries {
		if e.Valid.Duration() <= 0 {
			return 0, &ConfigurationError{Kind: p.Kind, Reason: fmt.Sprintf("entry %d (%s) has an empty valid span", i, e)}
		}
	}
	if len(p.Entries) == 1 {
		return 0, nil
	}

	// Compare |3*valid - duration|, i.e. the distance to duration/3 scaled
	// by three, so the heuristic stays in integers.
	pick := 0
	best := abs(3*p.Entries[0].Valid.Duration() - duration)
	for i, e := range p.Entries {
		if d := abs(3*e.Valid.Duration() - duration); d < best {
			pick, best = i, d
		}
	}
	return pick, nil
}

// NumJobs returns how many jobs tile the segment.
func (s *Segmenter) NumJobs() int {
	return s.numJobs
}

// Entry returns the chosen profile entry.
func (s *Segmenter) Entry() profile.Entry {
	return s.entry
}

// Segment returns the segment being tiled.
func (s *Segmenter) Segment() interval.Interval {
	return s.segment
}

// DataLoss returns data length minus valid duration for the chosen entry.
func (s *Segmenter) DataLoss() int64 {
	return s.dataLoss
}

// Shift returns the (possibly fractional) spacing between job starts.
func (s *Segmenter) Shift() float64 {
	return float64(s.shiftNum) / float64(s.shiftDen)
}

// offset is the start of job i relative to the segment start.
func (s *Segmenter) offset(i int) int64 {
	return floorEps(s.shiftNum*int64(i), s.shiftDen)
}

func (s *Segmenter) checkIndex(i int) error {
	if i < 0 || i >= s.numJobs {
		return fmt.Errorf("job index %d out of range [0,%d)", i, s.numJobs)
	}
	return nil
}

// ValidWindow returns the absolute span job i is authoritative for. With
// allowOverlap false the analysable span is cut into numJobs disjoint equal
// slices instead, each of which must fall inside the job's shifted window.
func (s *Segmenter) ValidWindow(i int, allowOverlap bool) (interval.Interval, error) {
	if err := s.checkIndex(i); err != nil {
		return interval.Interval{}, err
	}
	shifted := s.entry.Valid.Shift(s.segment.Start + s.offset(i))
	if allowOverlap {
		return shifted, nil
	}

	analysable := s.segment.Duration() - s.dataLoss
	n := int64(s.numJobs)
	base := s.segment.Start + s.entry.Valid.Start
	slice := interval.Interval{
		Start: base + floorDiv(int64(i)*analysable, n),
		End:   base + floorEps(int64(i+1)*analysable, n),
	}
	if slice.Start < shifted.Start || slice.End > shifted.End {
		return interval.Interval{}, &ConfigurationError{Kind: s.kind, Reason: fmt.Sprintf(
			"job %d would produce output over %s but is only valid over %s", i, slice, shifted)}
	}
	return slice, nil
}

// DataWindow returns the absolute span job i reads. The first job must start
// on the segment start and the last must end on the segment end; padding, if
// the kind has any, is applied after that check.
func (s *Segmenter) DataWindow(i int) (interval.Interval, error) {
	if err := s.checkIndex(i); err != nil {
		return interval.Interval{}, err
	}
	data := s.entry.DataSpan().Shift(s.segment.Start + s.offset(i))

	if i == 0 && data.Start != s.segment.Start {
		return interval.Interval{}, &StructuralInvariantError{Segment: s.segment, Index: i, Data: data,
			Reason: "first job does not read from the start of the segment"}
	}
	if i == s.numJobs-1 && data.End != s.segment.End {
		return interval.Interval{}, &StructuralInvariantError{Segment: s.segment, Index: i, Data: data,
			Reason: "last job does not read up to the end of the segment"}
	}

	if s.padding != nil {
		data = s.padding.Extend(data, s.segment)
	}
	return data, nil
}

// Plans returns every job plan of the segment in index order.
func (s *Segmenter) Plans(allowOverlap bool) ([]JobPlan, error) {
	plans := make([]JobPlan, 0, s.numJobs)
	for i := 0; i < s.numJobs; i++ {
		valid, err := s.ValidWindow(i, allowOverlap)
		if err != nil {
			return nil, err
		}
		data, err := s.DataWindow(i)
		if err != nil {
			return nil, err
		}
		plans = append(plans, JobPlan{Index: i, Data: data, Valid: valid})
	}
	return plans, nil
}

// Tile is the one-shot form of NewSegmenter followed by Plans.
func Tile(seg interval.Interval, p profile.Profile, allowOverlap bool) (int, []JobPlan, error) {
	s, err := NewSegmenter(seg, p)
	if err != nil {
		return 0, nil, err
	}
	plans, err := s.Plans(allowOverlap)
	if err != nil {
		return 0, nil, err
	}
	return s.NumJobs(), plans, nil
}
