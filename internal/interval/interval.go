package interval

import (
	"fmt"
	"sort"
)

// Interval is an immutable half-open time range [Start, End). Start <= End
// always holds for values built through New.
type Interval struct {
	Start int64 `json:"start" yaml:"start"`
	End   int64 `json:"end" yaml:"end"`
}

// New returns the interval [start, end), or an error if end precedes start.
func New(start, end int64) (Interval, error) {
	if end < start {
		return Interval{}, fmt.Errorf("interval end %d precedes start %d", end, start)
	}
	return Interval{Start: start, End: end}, nil
}

// MustNew is New for literals known to be well formed. It panics otherwise.
func MustNew(start, end int64) Interval {
	iv, err := New(start, end)
	if err != nil {
		panic(err)
	}
	return iv
}

// Duration returns End - Start.
func (iv Interval) Duration() int64 {
	return iv.End - iv.Start
}

// Overlaps reports whether the two ranges share a span of nonzero length.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start < other.End && other.Start < iv.End
}

// Intersection returns the shared span and whether it is non-empty.
func (iv Interval) Intersection(other Interval) (Interval, bool) {
	if !iv.Overlaps(other) {
		return Interval{}, false
	}
	return Interval{Start: max(iv.Start, other.Start), End: min(iv.End, other.End)}, true
}

// Shift returns a copy moved by delta.
func (iv Interval) Shift(delta int64) Interval {
	return Interval{Start: iv.Start + delta, End: iv.End + delta}
}

// Contains reports whether point lies inside the range. End is excluded.
func (iv Interval) Contains(point int64) bool {
	return iv.Start <= point && point < iv.End
}

// Covers reports whether other lies entirely inside iv.
func (iv Interval) Covers(other Interval) bool {
	return iv.Start <= other.Start && other.End <= iv.End
}

// Validate checks the Start <= End invariant for values decoded from files.
func (iv Interval) Validate() error {
	if iv.End < iv.Start {
		return fmt.Errorf("interval %s: end precedes start", iv)
	}
	return nil
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%d,%d]", iv.Start, iv.End)
}

// List is an ordered collection of intervals.
type List []Interval

// Sorted returns a copy ordered by start, then end.
func (l List) Sorted() List {
	out := make(List, len(l))
	copy(out, l)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].End < out[j].End
	})
	return out
}

// Disjoint reports whether no two intervals in the list overlap.
func (l List) Disjoint() bool {
	s := l.Sorted()
	for i := 1; i < len(s); i++ {
		if s[i-1].Overlaps(s[i]) {
			return false
		}
	}
	return true
}

// Coalesce merges overlapping and touching intervals into a sorted,
// disjoint list.
func (l List) Coalesce() List {
	s := l.Sorted()
	if len(s) == 0 {
		return s
	}
	out := List{s[0]}
	for _, iv := range s[1:] {
		last := &out[len(out)-1]
		if iv.Start <= last.End {
			last.End = max(last.End, iv.End)
			continue
		}
		out = append(out, iv)
	}
	return out
}

// Duration returns the summed duration of the list.
func (l List) Duration() int64 {
	var total int64
	for _, iv := range l {
		total += iv.Duration()
	}
	return total
}
