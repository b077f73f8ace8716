// Package planfile serialises a finished plan as JSON: one entry per node in
// dependency order, each listing the nodes it waits for.
package planfile

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/specialistvlad/tilegrid/internal/graph"
	"github.com/specialistvlad/tilegrid/internal/node"
)

// Plan is the document written to disk.
type Plan struct {
	Nodes []Entry `json:"nodes"`
}

// Entry is one node plus the ids of its direct dependencies.
type Entry struct {
	*node.JobNode
	DependsOn []string `json:"depends_on,omitempty"`
}

// Build orders the graph's nodes topologically. The graph must already be
// linked.
func Build(ctx context.Context, g graph.Graph) (*Plan, error) {
	order, err := g.TopologicalOrder(ctx)
	if err != nil {
		return nil, err
	}
	p := &Plan{Nodes: make([]Entry, 0, len(order))}
	for _, n := range order {
		deps, err := g.DependenciesOf(ctx, n.ID)
		if err != nil {
			return nil, err
		}
		e := Entry{JobNode: n}
		for _, d := range deps {
			e.DependsOn = append(e.DependsOn, d.Key())
		}
		p.Nodes = append(p.Nodes, e)
	}
	return p, nil
}

// Write encodes p as indented JSON.
func Write(w io.Writer, p *Plan) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

// WriteFile writes p to path, or to stdout when path is "-".
func WriteFile(path string, p *Plan) error {
	if path == "-" {
		return Write(os.Stdout, p)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, p); err != nil {
		f.Close()
		return fmt.Errorf("writing plan %s: %w", path, err)
	}
	return f.Close()
}

// Read decodes a plan written by Write.
func Read(r io.Reader) (*Plan, error) {
	var p Plan
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decoding plan: %w", err)
	}
	return &p, nil
}
