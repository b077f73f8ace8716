package workflow

import (
	"context"
	"fmt"
	"slices"

	"github.com/specialistvlad/tilegrid/internal/catalog"
	"github.com/specialistvlad/tilegrid/internal/config"
	"github.com/specialistvlad/tilegrid/internal/ctxlog"
	"github.com/specialistvlad/tilegrid/internal/graph"
	"github.com/specialistvlad/tilegrid/internal/node"
	"github.com/specialistvlad/tilegrid/internal/registry"
	"github.com/specialistvlad/tilegrid/internal/segments"
)

// StageResult is what one stage contributed to the plan.
type StageResult struct {
	Stage   string
	Nodes   []*node.JobNode
	Outputs *catalog.Memory
}

// Planner runs the configured stages in order.
type Planner struct {
	Registry *registry.Registry
	Model    *config.Model
	Segments segments.Set
	// Catalogs are the external catalogs stages may name.
	Catalogs map[string]catalog.Catalog
	Sink     graph.Sink
	Workers  int
}

// stageEnv bundles what a stage needs besides its configuration.
type stageEnv struct {
	stage      *config.Stage
	job        *config.Job
	kind       *registry.Kind
	parents    catalog.Catalog
	data       catalog.Catalog
	injections catalog.Catalog
}

// Plan runs every stage and returns their results in stage order. Each
// stage's outputs, minus its job's excluded tags, become a catalog named
// after the stage.
func (p *Planner) Plan(ctx context.Context) ([]StageResult, error) {
	logger := ctxlog.FromContext(ctx)

	known := make(map[string]catalog.Catalog, len(p.Catalogs)+len(p.Model.Stages))
	for name, c := range p.Catalogs {
		known[name] = c
	}

	results := make([]StageResult, 0, len(p.Model.Stages))
	for _, s := range p.Model.Stages {
		env, err := p.env(s, known)
		if err != nil {
			return nil, fmt.Errorf("stage %q: %w", s.Name, err)
		}

		stageCtx := ctxlog.With(ctx, "stage", s.Name, "mode", string(s.Mode))
		var nodes []*node.JobNode
		switch s.Mode {
		case config.ModeTiled:
			nodes, err = p.tiled(stageCtx, env)
		case config.ModeCoherent:
			nodes, err = p.coherent(stageCtx, env)
		case config.ModeSplit:
			nodes, err = p.split(stageCtx, env)
		default:
			err = fmt.Errorf("unknown mode %q", s.Mode)
		}
		if err != nil {
			return nil, fmt.Errorf("stage %q: %w", s.Name, err)
		}

		outputs, err := collectOutputs(nodes, env.job.ExcludeTags)
		if err != nil {
			return nil, fmt.Errorf("stage %q: %w", s.Name, err)
		}
		known[s.Name] = outputs
		results = append(results, StageResult{Stage: s.Name, Nodes: nodes, Outputs: outputs})
		logger.Info("Stage planned.", "stage", s.Name, "mode", string(s.Mode), "nodes", len(nodes), "outputs", outputs.Len())
	}
	return results, nil
}

func (p *Planner) env(s *config.Stage, known map[string]catalog.Catalog) (*stageEnv, error) {
	job, ok := p.Model.Jobs[s.Job]
	if !ok {
		return nil, fmt.Errorf("unknown job %q", s.Job)
	}
	kind, ok := p.Registry.Kind(job.Profile)
	if !ok {
		return nil, fmt.Errorf("job %q: unknown profile %q", job.Name, job.Profile)
	}
	env := &stageEnv{stage: s, job: job, kind: kind}

	var err error
	if env.parents, err = lookup(known, s.Parents); err != nil {
		return nil, err
	}
	if env.data, err = lookup(known, s.Data); err != nil {
		return nil, err
	}
	if env.injections, err = lookup(known, s.Injections); err != nil {
		return nil, err
	}
	return env, nil
}

func lookup(known map[string]catalog.Catalog, name string) (catalog.Catalog, error) {
	if name == "" {
		return nil, nil
	}
	c, ok := known[name]
	if !ok {
		return nil, fmt.Errorf("no stage or catalog named %q", name)
	}
	return c, nil
}

// collectOutputs gathers the declared outputs of nodes into a catalog.
func collectOutputs(nodes []*node.JobNode, exclude []string) (*catalog.Memory, error) {
	out, _ := catalog.NewMemory()
	for _, n := range nodes {
		for _, a := range catalog.WithoutTags(n.Outputs, exclude) {
			if err := out.Add(a); err != nil {
				return nil, fmt.Errorf("%s: %w", n.Key(), err)
			}
		}
	}
	return out, nil
}

// tiled runs one Driver per instrument.
func (p *Planner) tiled(ctx context.Context, env *stageEnv) ([]*node.JobNode, error) {
	logger := ctxlog.FromContext(ctx)
	if env.kind.Provider == nil {
		return nil, fmt.Errorf("profile %q cannot be tiled", env.job.Profile)
	}
	opts := env.job.ProfileOptions()
	prof, err := env.kind.Provider.Profile(opts)
	if err != nil {
		return nil, err
	}

	var nodes []*node.JobNode
	for _, ifo := range env.stage.Instruments {
		segs, ok := p.Segments[ifo]
		if !ok {
			logger.Warn("No science segments for instrument.", "ifo", ifo)
			continue
		}
		d := &Driver{
			Name:          env.stage.Name,
			Kind:          env.job.Name,
			Instrument:    ifo,
			Profile:       prof,
			AllowOverlap:  env.job.AllowOverlap,
			Parents:       env.parents,
			Data:          env.data,
			NarrowParents: true,
			ExcludeTags:   env.job.ExcludeTags,
			Tags:          env.job.Tags,
			Builder:       env.kind.Builder,
			Options:       opts,
			Sink:          p.Sink,
			Workers:       p.Workers,
		}
		ifoNodes, err := d.Run(ctx, segs)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, ifoNodes...)
	}
	return nodes, nil
}

// instruments returns the stage's instruments, or a single empty owner that
// matches everything when none are listed.
func instruments(s *config.Stage) []string {
	if len(s.Instruments) == 0 {
		return []string{""}
	}
	return slices.Clone(s.Instruments)
}
