package graph

import (
	"context"

	"github.com/specialistvlad/tilegrid/internal/node"
	"github.com/specialistvlad/tilegrid/internal/nodeid"
)

// Sink accepts job nodes as they are produced. It is the only part of the
// graph the planning workers see.
type Sink interface {
	Add(ctx context.Context, n *node.JobNode) error
}

// Graph is the full view of a plan under construction.
type Graph interface {
	Sink

	// Node looks up a single node.
	Node(ctx context.Context, id nodeid.Address) (*node.JobNode, bool)
	// Nodes returns every node ordered by address.
	Nodes(ctx context.Context) []*node.JobNode
	// DependenciesOf returns the nodes id directly depends on.
	DependenciesOf(ctx context.Context, id nodeid.Address) ([]*node.JobNode, error)

	// Link adds an edge from each input's producer to its consumer. Every
	// producer must be a node of this graph.
	Link(ctx context.Context) error
	// Validate checks that the linked graph is acyclic.
	Validate(ctx context.Context) error
	// TopologicalOrder returns the nodes with every dependency before its
	// dependents, ties broken by address.
	TopologicalOrder(ctx context.Context) ([]*node.JobNode, error)
}
