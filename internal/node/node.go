package node

import (
	"slices"

	"github.com/specialistvlad/tilegrid/internal/catalog"
	"github.com/specialistvlad/tilegrid/internal/nodeid"
	"github.com/specialistvlad/tilegrid/internal/tiler"
)

// JobNode is a single vertex in the planned workflow: one job of one kind,
// reading Plan.Data and responsible for Plan.Valid. Nodes are built once by
// the workflow driver and handed to a sink, which then owns them.
type JobNode struct {
	// ID is the unique, structured identifier for the node.
	// Example: inspiral.H1.seg[0].job[3].parent[1]
	ID nodeid.Address `json:"id"`
	// Kind is the configured job kind name.
	Kind string `json:"kind"`
	// Instrument is the detector the node analyses, empty for coherent jobs.
	Instrument string `json:"instrument,omitempty"`

	Plan tiler.JobPlan `json:"plan"`

	// Parents are the upstream artifacts resolved against the valid window.
	Parents []catalog.Artifact `json:"parents,omitempty"`
	// DataInputs are the raw-data artifacts resolved against the data window.
	DataInputs []catalog.Artifact `json:"data_inputs,omitempty"`
	// FanoutParent is set when the node is one of several realisations of the
	// same plan, one per matching parent. It is always also in Parents.
	FanoutParent *catalog.Artifact `json:"fanout_parent,omitempty"`
	// Injection is set for coherent jobs fanned out over injection sets.
	Injection *catalog.Artifact `json:"injection,omitempty"`

	Tags    []string           `json:"tags,omitempty"`
	Outputs []catalog.Artifact `json:"outputs,omitempty"`
}

// Key returns the canonical string form of the node's address.
func (n *JobNode) Key() string {
	return n.ID.String()
}

// Inputs returns every artifact the node reads, in a stable order: parents,
// the injection, then data. Only the filtered dependency lists count, so an
// artifact dropped by a tag filter never becomes an input.
func (n *JobNode) Inputs() []catalog.Artifact {
	out := make([]catalog.Artifact, 0, len(n.Parents)+len(n.DataInputs)+1)
	out = append(out, n.Parents...)
	if n.Injection != nil {
		out = append(out, *n.Injection)
	}
	return append(out, n.DataInputs...)
}

// Producers returns the distinct ids of the planned nodes that write this
// node's inputs, sorted. Inputs that already exist contribute nothing.
func (n *JobNode) Producers() []string {
	var out []string
	for _, a := range n.Inputs() {
		if a.Producer != "" && !slices.Contains(out, a.Producer) {
			out = append(out, a.Producer)
		}
	}
	slices.Sort(out)
	return out
}

// Output describes an artifact written by n over its valid window. The id is
// the node key plus suffix; extra tags are appended to the node's own.
func (n *JobNode) Output(suffix string, extraTags ...string) catalog.Artifact {
	tags := make([]string, 0, len(n.Tags)+len(extraTags))
	tags = append(tags, n.Tags...)
	tags = append(tags, extraTags...)
	return catalog.Artifact{
		ID:       n.Key() + suffix,
		Owner:    n.Instrument,
		Interval: n.Plan.Valid,
		Tags:     tags,
		Producer: n.Key(),
	}
}
