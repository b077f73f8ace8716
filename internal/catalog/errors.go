package catalog

import (
	"fmt"

	"github.com/specialistvlad/tilegrid/internal/interval"
)

// NoMatchingArtifactError reports a required dependency with nothing in the
// catalog overlapping the requested window.
type NoMatchingArtifactError struct {
	// Class names the kind of dependency, e.g. "parent" or "data".
	Class    string
	Owner    string
	Interval interval.Interval
}

func (e *NoMatchingArtifactError) Error() string {
	owner := ""
	if e.Owner != "" {
		owner = " for " + e.Owner
	}
	return fmt.Sprintf("no %s artifacts%s overlapping %d to %d", e.Class, owner, e.Interval.Start, e.Interval.End)
}
