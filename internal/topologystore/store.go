// Package topologystore defines the interface for storing and retrieving the
// structure of a planned workflow: job nodes and the dependency edges between
// them.
//
// The planner appends nodes from several interval workers at once, so every
// implementation must be safe for concurrent use. The store only holds
// structure; scheduling and execution belong to whatever consumes the plan.
package topologystore

import (
	"context"

	"github.com/specialistvlad/tilegrid/internal/node"
	"github.com/specialistvlad/tilegrid/internal/nodeid"
)

// Store is the interface for managing the topology of a planned DAG.
type Store interface {
	// AddNode registers a node. Adding the same node value twice is a no-op;
	// adding a different node under an address already in use is an error.
	//
	// Thread-safety: Must be safe to call concurrently with other AddNode calls.
	AddNode(ctx context.Context, n *node.JobNode) error

	// AddDependency records that 'to' depends on 'from'. Both nodes must
	// already be present.
	AddDependency(ctx context.Context, from, to nodeid.Address) error

	// GetNode retrieves a single node by its address.
	GetNode(ctx context.Context, id nodeid.Address) (*node.JobNode, bool)

	// AllNodes returns a snapshot of every node, ordered by nodeid.Compare.
	AllNodes(ctx context.Context) []*node.JobNode

	// DependenciesOf returns the addresses 'id' directly depends on, ordered
	// by nodeid.Compare. It errors if 'id' is not present.
	DependenciesOf(ctx context.Context, id nodeid.Address) ([]nodeid.Address, error)

	// Len returns the number of nodes.
	Len(ctx context.Context) int
}
