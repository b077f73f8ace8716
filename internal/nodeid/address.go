// internal/nodeid/address.go
package nodeid

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// String serializes the Address into its canonical path string representation.
func (a Address) String() string {
	var sb strings.Builder
	for i, segment := range a.Path {
		if i > 0 {
			sb.WriteRune('.')
		}
		sb.WriteString(segment.Name)
		if segment.HasIndex() {
			fmt.Fprintf(&sb, "[%d]", segment.Index)
		}
	}
	return sb.String()
}

// Equal checks two addresses segment by segment.
func (a Address) Equal(other Address) bool {
	return slices.Equal(a.Path, other.Path)
}

// MarshalText implements encoding.TextMarshaler so addresses serialise as
// their canonical string.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Compare orders addresses segment by segment: by name, then by index, with
// a shorter prefix first. Indices compare numerically so job[2] sorts before
// job[10].
func Compare(a, b Address) int {
	for i := 0; i < len(a.Path) && i < len(b.Path); i++ {
		x, y := a.Path[i], b.Path[i]
		if c := strings.Compare(x.Name, y.Name); c != 0 {
			return c
		}
		if c := cmp.Compare(x.Index, y.Index); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a.Path), len(b.Path))
}
