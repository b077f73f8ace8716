package registry

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/tilegrid/internal/catalog"
	"github.com/specialistvlad/tilegrid/internal/interval"
	"github.com/specialistvlad/tilegrid/internal/node"
	"github.com/specialistvlad/tilegrid/internal/profile"
)

// Module is the interface that all job kind modules implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Builder declares the artifacts a node will write.
type Builder interface {
	Outputs(n *node.JobNode, opts profile.Options) ([]catalog.Artifact, error)
}

// BuilderFunc adapts a function to the Builder interface.
type BuilderFunc func(n *node.JobNode, opts profile.Options) ([]catalog.Artifact, error)

// Outputs calls f(n, opts).
func (f BuilderFunc) Outputs(n *node.JobNode, opts profile.Options) ([]catalog.Artifact, error) {
	return f(n, opts)
}

// WindowFunc computes the fixed data and valid windows of a coherent job
// reading span.
type WindowFunc func(opts profile.Options, span interval.Interval) (data, valid interval.Interval, err error)

// Kind holds the compiled parts of one job kind. Provider is required for
// tiled stages and Windows for coherent ones; a kind may offer both.
type Kind struct {
	Provider profile.Provider
	Windows  WindowFunc
	Builder  Builder
}

// Registry holds all registered job kinds for a single application instance.
type Registry struct {
	kinds map[string]*Kind
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{kinds: make(map[string]*Kind)}
}

// RegisterKind registers a job kind. Registering a name twice, or a kind
// without a builder, is a programming error and panics.
func (r *Registry) RegisterKind(name string, k *Kind) {
	if _, exists := r.kinds[name]; exists {
		panic(fmt.Sprintf("job kind '%s' already registered", name))
	}
	if k == nil || k.Builder == nil {
		panic(fmt.Sprintf("job kind '%s' registered without a builder", name))
	}
	r.kinds[name] = k
}

// Kind looks up a registered kind.
func (r *Registry) Kind(name string) (*Kind, bool) {
	k, ok := r.kinds[name]
	return k, ok
}

// Names returns the registered kind names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.kinds))
	for name := range r.kinds {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// SingleOutput is the builder for kinds that write one artifact covering
// their valid window.
var SingleOutput Builder = BuilderFunc(func(n *node.JobNode, _ profile.Options) ([]catalog.Artifact, error) {
	return []catalog.Artifact{n.Output("")}, nil
})
