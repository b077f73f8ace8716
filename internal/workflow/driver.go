package workflow

import (
	"context"
	"fmt"
	"slices"

	"github.com/specialistvlad/tilegrid/internal/catalog"
	"github.com/specialistvlad/tilegrid/internal/ctxlog"
	"github.com/specialistvlad/tilegrid/internal/graph"
	"github.com/specialistvlad/tilegrid/internal/interval"
	"github.com/specialistvlad/tilegrid/internal/node"
	"github.com/specialistvlad/tilegrid/internal/nodeid"
	"github.com/specialistvlad/tilegrid/internal/profile"
	"github.com/specialistvlad/tilegrid/internal/registry"
	"github.com/specialistvlad/tilegrid/internal/tiler"
	"golang.org/x/sync/errgroup"
)

// Dependency classes named in NoMatchingArtifactError.
const (
	ClassParent    = "parent"
	ClassData      = "data"
	ClassInjection = "injection"
)

// bankTag is matched case-insensitively against fan-out parent tags.
const bankTag = "bank"

// Driver builds the nodes of one job kind on one instrument.
type Driver struct {
	// Name is the first segment of every node address, normally the stage.
	Name string
	// Kind is recorded on each node.
	Kind string
	// Instrument extends node addresses and restricts catalog lookups to
	// artifacts it owns. Empty means no restriction.
	Instrument string

	Profile      profile.Profile
	AllowOverlap bool

	// Parents and Data are optional; a nil catalog means the job has no
	// dependency of that class.
	Parents catalog.Catalog
	Data    catalog.Catalog
	// NarrowParents keeps only the parents sharing the interval of the
	// best-overlapping one, so a bank that merely clips the valid window
	// does not cause an extra fan-out.
	NarrowParents bool

	// ExcludeTags drops artifacts from the emitted dependency lists.
	ExcludeTags []string
	Tags        []string

	// Builder declares node outputs; nil leaves them empty.
	Builder registry.Builder
	Options profile.Options

	// Sink receives each node as it is built. It may be nil.
	Sink    graph.Sink
	Workers int
}

// Run tiles every segment and returns all nodes, grouped by segment in input
// order and by job index within a segment.
func (d *Driver) Run(ctx context.Context, segments interval.List) ([]*node.JobNode, error) {
	logger := ctxlog.FromContext(ctx)
	results := make([][]*node.JobNode, len(segments))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(d.Workers, 1))
	for i, seg := range segments {
		g.Go(func() error {
			nodes, err := d.runSegment(gctx, i, seg)
			if err != nil {
				return fmt.Errorf("%s: segment %s: %w", d.base(), seg, err)
			}
			results[i] = nodes
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	nodes := slices.Concat(results...)
	logger.Debug("Driver finished.", "name", d.Name, "ifo", d.Instrument, "segments", len(segments), "nodes", len(nodes))
	return nodes, nil
}

func (d *Driver) base() nodeid.Address {
	addr := nodeid.New(d.Name)
	if d.Instrument != "" {
		addr = addr.Child(d.Instrument)
	}
	return addr
}

func (d *Driver) runSegment(ctx context.Context, index int, seg interval.Interval) ([]*node.JobNode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger := ctxlog.FromContext(ctx).With("name", d.Name, "ifo", d.Instrument, "segment", seg.String())

	s, err := tiler.NewSegmenter(seg, d.Profile)
	if err != nil {
		return nil, err
	}
	if s.NumJobs() == 0 {
		logger.Debug("Segment is shorter than a job, no jobs planned.", "data_length", s.Entry().DataLength)
		return nil, nil
	}
	plans, err := s.Plans(d.AllowOverlap)
	if err != nil {
		return nil, err
	}
	logger.Debug("Tiled segment.", "num_jobs", s.NumJobs(), "shift", s.Shift(), "entry", s.Entry().String())

	segAddr := d.base().Indexed("seg", index)
	var out []*node.JobNode
	for _, plan := range plans {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		nodes, err := d.planNodes(ctx, segAddr.Indexed("job", plan.Index), plan)
		if err != nil {
			return nil, err
		}
		out = append(out, nodes...)
	}
	return out, nil
}

// planNodes resolves one plan's dependencies and emits its nodes.
func (d *Driver) planNodes(ctx context.Context, id nodeid.Address, plan tiler.JobPlan) ([]*node.JobNode, error) {
	var parents, data []catalog.Artifact
	var err error
	if d.Parents != nil {
		parents, err = catalog.Resolve(d.Parents, ClassParent, plan.Valid, d.Instrument, d.ExcludeTags, d.NarrowParents)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", id, err)
		}
	}
	if d.Data != nil {
		data, err = catalog.Resolve(d.Data, ClassData, plan.Data, d.Instrument, d.ExcludeTags, false)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", id, err)
		}
	}

	proto := node.JobNode{
		ID:         id,
		Kind:       d.Kind,
		Instrument: d.Instrument,
		Plan:       plan,
		DataInputs: data,
		Tags:       slices.Clone(d.Tags),
	}
	nodes := fanOut(proto, parents)
	for _, n := range nodes {
		if err := d.emit(ctx, n); err != nil {
			return nil, err
		}
	}
	return nodes, nil
}

// emit declares the node's outputs and hands it to the sink.
func (d *Driver) emit(ctx context.Context, n *node.JobNode) error {
	return emit(ctx, n, d.Builder, d.Options, d.Sink)
}

func emit(ctx context.Context, n *node.JobNode, b registry.Builder, opts profile.Options, sink graph.Sink) error {
	if b != nil {
		outputs, err := b.Outputs(n, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", n.Key(), err)
		}
		n.Outputs = outputs
	}
	if sink == nil {
		return nil
	}
	if err := sink.Add(ctx, n); err != nil {
		return fmt.Errorf("%s: %w", n.Key(), err)
	}
	return nil
}

// fanOut realises proto once per parent. With at most one parent the node
// keeps its address; otherwise each copy gets a parent[k] suffix and the
// parent's bank tags ahead of its own. Parents must already be filtered.
func fanOut(proto node.JobNode, parents []catalog.Artifact) []*node.JobNode {
	if len(parents) <= 1 {
		n := proto
		n.Parents = parents
		return []*node.JobNode{&n}
	}

	nodes := make([]*node.JobNode, 0, len(parents))
	for k, p := range parents {
		n := proto
		n.ID = proto.ID.Indexed("parent", k)
		n.Parents = []catalog.Artifact{p}
		n.FanoutParent = &p
		n.DataInputs = slices.Clone(proto.DataInputs)
		n.Tags = mergeTags(p.TagsContaining(bankTag), proto.Tags)
		nodes = append(nodes, &n)
	}
	return nodes
}

func mergeTags(first, rest []string) []string {
	out := make([]string, 0, len(first)+len(rest))
	for _, t := range slices.Concat(first, rest) {
		if !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}
