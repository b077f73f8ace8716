// Package matchedfilter provides the "matched_filter" job kind: jobs made of
// whole analysis segments, each writing one trigger file.
package matchedfilter

import (
	"github.com/specialistvlad/tilegrid/internal/profile"
	"github.com/specialistvlad/tilegrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind("matched_filter", &registry.Kind{
		Provider: profile.MatchedFilter,
		Builder:  registry.SingleOutput,
	})
}
