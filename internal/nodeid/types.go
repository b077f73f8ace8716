// internal/nodeid/types.go
package nodeid

// PathSegment is a single `name` or `name[index]` component.
type PathSegment struct {
	Name  string
	Index int // -1 indicates no index is present.
}

// NewPathSegment creates a new path segment without an index.
func NewPathSegment(name string) PathSegment {
	return PathSegment{Name: name, Index: -1}
}

// NewPathSegmentWithIndex creates a new path segment that includes an index.
func NewPathSegmentWithIndex(name string, index int) PathSegment {
	return PathSegment{Name: name, Index: index}
}

// HasIndex returns true if the path segment has an explicit index.
func (ps PathSegment) HasIndex() bool {
	return ps.Index != -1
}

// Address is the structured form of a node identifier. Addresses are values;
// the builder methods return extended copies and never alias the receiver.
type Address struct {
	Path []PathSegment
}

// New returns an address made of plain (unindexed) names.
func New(names ...string) Address {
	a := Address{Path: make([]PathSegment, 0, len(names))}
	for _, n := range names {
		a.Path = append(a.Path, NewPathSegment(n))
	}
	return a
}

// Child returns a copy of a with a plain segment appended.
func (a Address) Child(name string) Address {
	return a.with(NewPathSegment(name))
}

// Indexed returns a copy of a with an indexed segment appended.
func (a Address) Indexed(name string, index int) Address {
	return a.with(NewPathSegmentWithIndex(name, index))
}

func (a Address) with(seg PathSegment) Address {
	path := make([]PathSegment, len(a.Path), len(a.Path)+1)
	copy(path, a.Path)
	return Address{Path: append(path, seg)}
}

// IsZero reports an empty address.
func (a Address) IsZero() bool {
	return len(a.Path) == 0
}
