// Package templatebank provides the "template_bank" job kind. Besides the
// bank itself a job may write the PSD it estimated, tagged PSD_FILE.
package templatebank

import (
	"github.com/specialistvlad/tilegrid/internal/catalog"
	"github.com/specialistvlad/tilegrid/internal/node"
	"github.com/specialistvlad/tilegrid/internal/profile"
	"github.com/specialistvlad/tilegrid/internal/registry"
)

// PSDTag marks the optional PSD output.
const PSDTag = "PSD_FILE"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Outputs is the builder for template bank nodes.
func Outputs(n *node.JobNode, opts profile.Options) ([]catalog.Artifact, error) {
	writePSD, err := opts.BoolOr("write_psd", false)
	if err != nil {
		return nil, err
	}
	out := []catalog.Artifact{n.Output("")}
	if writePSD {
		out = append(out, n.Output(".psd", PSDTag))
	}
	return out, nil
}

// Register registers the kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind("template_bank", &registry.Kind{
		Provider: profile.TemplateBank,
		Builder:  registry.BuilderFunc(Outputs),
	})
}
