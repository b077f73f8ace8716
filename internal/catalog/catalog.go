package catalog

import (
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/specialistvlad/tilegrid/internal/interval"
)

// Catalog answers overlap queries. An empty owner matches every partition.
type Catalog interface {
	Overlapping(iv interval.Interval, owner string) []Artifact
}

// Lister is implemented by catalogs that can enumerate their contents.
type Lister interface {
	All() []Artifact
}

// partition is a start-sorted artifact list plus the longest duration in it,
// which bounds how far back an overlap query must look.
type partition struct {
	items  []Artifact
	maxDur int64
}

// add inserts a after every item with the same start, so equal starts keep
// insertion order and query results stay deterministic.
func (p *partition) add(a Artifact) {
	i := sort.Search(len(p.items), func(i int) bool { return p.items[i].Interval.Start > a.Interval.Start })
	p.items = slices.Insert(p.items, i, a)
	p.maxDur = max(p.maxDur, a.Interval.Duration())
}

func (p *partition) overlapping(iv interval.Interval, out []Artifact) []Artifact {
	// Anything starting at or after iv.End, or before iv.Start-maxDur,
	// cannot overlap.
	hi := sort.Search(len(p.items), func(i int) bool { return p.items[i].Interval.Start >= iv.End })
	lo := sort.Search(hi, func(i int) bool { return p.items[i].Interval.Start > iv.Start-p.maxDur })
	for _, a := range p.items[lo:hi] {
		if a.Interval.Overlaps(iv) {
			out = append(out, a)
		}
	}
	return out
}

// Memory is an in-memory Catalog. Partitions stay sorted on every Add, so
// Add and queries may run concurrently.
type Memory struct {
	mu     sync.RWMutex
	all    partition
	owners map[string]*partition
	ids    map[string]struct{}
}

// NewMemory returns an empty catalog, optionally seeded with artifacts.
func NewMemory(artifacts ...Artifact) (*Memory, error) {
	m := &Memory{owners: make(map[string]*partition), ids: make(map[string]struct{})}
	for _, a := range artifacts {
		if err := m.Add(a); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Add inserts an artifact. IDs must be unique and intervals well formed.
func (m *Memory) Add(a Artifact) error {
	if a.ID == "" {
		return fmt.Errorf("artifact with interval %s has no id", a.Interval)
	}
	if err := a.Interval.Validate(); err != nil {
		return fmt.Errorf("artifact %q: %w", a.ID, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.ids[a.ID]; exists {
		return fmt.Errorf("duplicate artifact id %q", a.ID)
	}
	m.ids[a.ID] = struct{}{}
	m.all.add(a)
	p, ok := m.owners[a.Owner]
	if !ok {
		p = &partition{}
		m.owners[a.Owner] = p
	}
	p.add(a)
	return nil
}

// Len returns the number of artifacts.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.all.items)
}

// All returns every artifact ordered by start time.
func (m *Memory) All() []Artifact {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Artifact(nil), m.all.items...)
}

// Overlapping returns artifacts overlapping iv, restricted to owner when it
// is non-empty, ordered by start time.
func (m *Memory) Overlapping(iv interval.Interval, owner string) []Artifact {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if owner == "" {
		return m.all.overlapping(iv, nil)
	}
	p, ok := m.owners[owner]
	if !ok {
		return nil
	}
	return p.overlapping(iv, nil)
}
