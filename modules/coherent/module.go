// Package coherent provides the "coherent" job kind: a multi-instrument
// analysis of one fixed window around a trigger time.
package coherent

import (
	"github.com/specialistvlad/tilegrid/internal/profile"
	"github.com/specialistvlad/tilegrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind("coherent", &registry.Kind{
		Windows: profile.CoherentWindows,
		Builder: registry.SingleOutput,
	})
}
