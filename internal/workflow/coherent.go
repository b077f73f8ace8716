package workflow

import (
	"context"
	"fmt"
	"slices"

	"github.com/specialistvlad/tilegrid/internal/catalog"
	"github.com/specialistvlad/tilegrid/internal/ctxlog"
	"github.com/specialistvlad/tilegrid/internal/interval"
	"github.com/specialistvlad/tilegrid/internal/node"
	"github.com/specialistvlad/tilegrid/internal/nodeid"
	"github.com/specialistvlad/tilegrid/internal/tiler"
)

// coherent plans a single multi-instrument window over the workflow span,
// realised once per (injection, parent) pair.
func (p *Planner) coherent(ctx context.Context, env *stageEnv) ([]*node.JobNode, error) {
	logger := ctxlog.FromContext(ctx)
	if env.kind.Windows == nil {
		return nil, fmt.Errorf("profile %q has no coherent windows", env.job.Profile)
	}
	span, err := p.coherentSpan(env)
	if err != nil {
		return nil, err
	}
	opts := env.job.ProfileOptions()
	data, valid, err := env.kind.Windows(opts, span)
	if err != nil {
		return nil, err
	}
	plan := tiler.JobPlan{Index: 0, Data: data, Valid: valid}
	logger.Debug("Coherent windows.", "data", data.String(), "valid", valid.String())

	exclude := env.job.ExcludeTags
	var dataInputs []catalog.Artifact
	if env.data != nil {
		for _, ifo := range instruments(env.stage) {
			found, err := catalog.Resolve(env.data, ClassData, data, ifo, exclude, false)
			if err != nil {
				return nil, err
			}
			dataInputs = append(dataInputs, found...)
		}
	}

	var parents []catalog.Artifact
	if env.parents != nil {
		if parents, err = catalog.Resolve(env.parents, ClassParent, valid, "", exclude, false); err != nil {
			return nil, err
		}
	}

	injections := []*catalog.Artifact{nil}
	if env.injections != nil {
		found, err := catalog.FindAll(env.injections, ClassInjection, valid, "")
		if err != nil {
			return nil, err
		}
		injections = injections[:0]
		for _, inj := range found {
			injections = append(injections, &inj)
		}
	}

	base := nodeid.New(env.stage.Name).Indexed("job", 0)
	var nodes []*node.JobNode
	for m, inj := range injections {
		proto := node.JobNode{
			ID:         base,
			Kind:       env.job.Name,
			Plan:       plan,
			DataInputs: dataInputs,
			Injection:  inj,
			Tags:       slices.Clone(env.job.Tags),
		}
		if inj != nil {
			proto.ID = base.Indexed("inj", m)
		}
		if len(parents) == 1 {
			// A lone bank does not fan out, but coherent outputs still
			// carry its bank tag.
			proto.Tags = mergeTags(parents[0].TagsContaining(bankTag), proto.Tags)
		}
		for _, n := range fanOut(proto, parents) {
			if err := emit(ctx, n, env.kind.Builder, opts, p.Sink); err != nil {
				return nil, err
			}
			nodes = append(nodes, n)
		}
	}
	return nodes, nil
}

// coherentSpan is the workflow span, or without a workflow block the extent
// of the stage instruments' science segments.
func (p *Planner) coherentSpan(env *stageEnv) (interval.Interval, error) {
	if p.Model.Workflow != nil {
		return p.Model.Workflow.Span()
	}
	span, ok := p.Segments.Extent(env.stage.Instruments...)
	if !ok {
		return span, fmt.Errorf("no workflow block and no science segments to span")
	}
	return span, nil
}
