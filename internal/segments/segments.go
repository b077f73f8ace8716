// Package segments reads science segment lists: per instrument, the disjoint
// spans of usable data that the planner tiles.
//
// The file format is YAML keyed by instrument:
//
//	H1:
//	  - {start: 1000000000, end: 1000006000}
//	  - {start: 1000010000, end: 1000012000}
//	L1:
//	  - {start: 1000000000, end: 1000009000}
package segments

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/specialistvlad/tilegrid/internal/interval"
	"gopkg.in/yaml.v3"
)

// Set maps instrument names to their science segments, sorted by start.
type Set map[string]interval.List

// Instruments returns the instrument names in sorted order.
func (s Set) Instruments() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Validate checks every interval and that no instrument's segments overlap.
func (s Set) Validate() error {
	for _, ifo := range s.Instruments() {
		for _, iv := range s[ifo] {
			if err := iv.Validate(); err != nil {
				return fmt.Errorf("instrument %s: %w", ifo, err)
			}
		}
		if !s[ifo].Disjoint() {
			return fmt.Errorf("instrument %s: science segments overlap", ifo)
		}
	}
	return nil
}

// Extent returns the smallest interval covering every segment of the given
// instruments, or of all instruments when none are named. It reports false
// when there is no segment to cover.
func (s Set) Extent(instruments ...string) (interval.Interval, bool) {
	if len(instruments) == 0 {
		instruments = s.Instruments()
	}
	var out interval.Interval
	found := false
	for _, ifo := range instruments {
		for _, iv := range s[ifo] {
			if !found {
				out, found = iv, true
				continue
			}
			out.Start = min(out.Start, iv.Start)
			out.End = max(out.End, iv.End)
		}
	}
	return out, found
}

// Decode reads a segment file. Each instrument's list is sorted, and
// segments that touch end to start are merged into one continuous segment.
func Decode(r io.Reader) (Set, error) {
	var raw map[string][]interval.Interval
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return Set{}, nil
		}
		return nil, fmt.Errorf("decoding segments: %w", err)
	}

	set := make(Set, len(raw))
	for ifo, list := range raw {
		set[ifo] = interval.List(list).Sorted()
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	for ifo, list := range set {
		set[ifo] = list.Coalesce()
	}
	return set, nil
}

// Load reads a segment file from disk.
func Load(path string) (Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	set, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}
