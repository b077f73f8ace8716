// Package static provides the "static" job kind, whose tiling profile is
// spelled out entry by entry in the configuration.
package static

import (
	"github.com/specialistvlad/tilegrid/internal/profile"
	"github.com/specialistvlad/tilegrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind("static", &registry.Kind{
		Provider: profile.Static,
		Builder:  registry.SingleOutput,
	})
}
