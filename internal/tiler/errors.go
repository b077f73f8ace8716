package tiler

import (
	"fmt"

	"github.com/specialistvlad/tilegrid/internal/interval"
)

// ConfigurationError reports a profile that cannot tile any segment
// correctly. It is always fatal for the kind.
type ConfigurationError struct {
	Kind   string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Kind == "" {
		return "tiling configuration error: " + e.Reason
	}
	return fmt.Sprintf("tiling configuration error for job kind %q: %s", e.Kind, e.Reason)
}

// StructuralInvariantError reports a job plan that does not use data flush
// with its segment's boundary. It indicates a bug, never bad input.
type StructuralInvariantError struct {
	Segment interval.Interval
	Index   int
	Data    interval.Interval
	Reason  string
}

func (e *StructuralInvariantError) Error() string {
	return fmt.Sprintf("internal tiling inconsistency in segment %s, job %d (data %s): %s",
		e.Segment, e.Index, e.Data, e.Reason)
}
