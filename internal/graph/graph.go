package graph

import (
	"context"
	"fmt"
	"slices"

	"github.com/specialistvlad/tilegrid/internal/ctxlog"
	"github.com/specialistvlad/tilegrid/internal/node"
	"github.com/specialistvlad/tilegrid/internal/nodeid"
	"github.com/specialistvlad/tilegrid/internal/topologystore"
)

// Manager implements Graph on top of a topology store.
type Manager struct {
	ts topologystore.Store
}

var _ Graph = (*Manager)(nil)

// New creates a new graph manager.
func New(ts topologystore.Store) *Manager {
	return &Manager{ts: ts}
}

// Add hands a node to the topology store.
func (m *Manager) Add(ctx context.Context, n *node.JobNode) error {
	return m.ts.AddNode(ctx, n)
}

func (m *Manager) Node(ctx context.Context, id nodeid.Address) (*node.JobNode, bool) {
	return m.ts.GetNode(ctx, id)
}

func (m *Manager) Nodes(ctx context.Context) []*node.JobNode {
	return m.ts.AllNodes(ctx)
}

func (m *Manager) DependenciesOf(ctx context.Context, id nodeid.Address) ([]*node.JobNode, error) {
	ids, err := m.ts.DependenciesOf(ctx, id)
	if err != nil {
		return nil, err
	}
	deps := make([]*node.JobNode, 0, len(ids))
	for _, depID := range ids {
		dep, ok := m.ts.GetNode(ctx, depID)
		if !ok {
			return nil, fmt.Errorf("dependency '%s' of '%s' not found in topology", depID, id)
		}
		deps = append(deps, dep)
	}
	return deps, nil
}

// Link resolves producer ids into edges.
func (m *Manager) Link(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	edges := 0
	for _, n := range m.ts.AllNodes(ctx) {
		for _, producer := range n.Producers() {
			from, err := nodeid.Parse(producer)
			if err != nil {
				return fmt.Errorf("node '%s' has an input with invalid producer %q: %w", n.Key(), producer, err)
			}
			if from.Equal(n.ID) {
				return fmt.Errorf("node '%s' consumes its own output", n.Key())
			}
			if err := m.ts.AddDependency(ctx, from, n.ID); err != nil {
				return fmt.Errorf("linking '%s': %w", n.Key(), err)
			}
			edges++
		}
	}
	logger.Debug("Linked plan dependencies.", "nodes", m.ts.Len(ctx), "edges", edges)
	return nil
}

// Validate checks for circular dependencies using DFS.
func (m *Manager) Validate(ctx context.Context) error {
	visiting := make(map[string]bool)
	visited := make(map[string]bool)

	var visit func(id nodeid.Address) error
	visit = func(id nodeid.Address) error {
		key := id.String()
		visiting[key] = true
		deps, err := m.ts.DependenciesOf(ctx, id)
		if err != nil {
			return err
		}
		for _, dep := range deps {
			depKey := dep.String()
			if visiting[depKey] {
				return fmt.Errorf("cycle detected involving '%s'", depKey)
			}
			if !visited[depKey] {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}
		delete(visiting, key)
		visited[key] = true
		return nil
	}

	for _, n := range m.ts.AllNodes(ctx) {
		if !visited[n.Key()] {
			if err := visit(n.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

// TopologicalOrder runs Kahn's algorithm, always releasing the smallest
// ready address first.
func (m *Manager) TopologicalOrder(ctx context.Context) ([]*node.JobNode, error) {
	nodes := m.ts.AllNodes(ctx)
	pending := make(map[string]int, len(nodes))
	dependents := make(map[string][]*node.JobNode, len(nodes))
	var ready []*node.JobNode

	for _, n := range nodes {
		deps, err := m.ts.DependenciesOf(ctx, n.ID)
		if err != nil {
			return nil, err
		}
		pending[n.Key()] = len(deps)
		for _, dep := range deps {
			dependents[dep.String()] = append(dependents[dep.String()], n)
		}
		if len(deps) == 0 {
			ready = append(ready, n)
		}
	}

	byID := func(a, b *node.JobNode) int { return nodeid.Compare(a.ID, b.ID) }
	order := make([]*node.JobNode, 0, len(nodes))
	for len(ready) > 0 {
		n := ready[0]
		ready = ready[1:]
		order = append(order, n)

		released := false
		for _, d := range dependents[n.Key()] {
			pending[d.Key()]--
			if pending[d.Key()] == 0 {
				ready = append(ready, d)
				released = true
			}
		}
		if released {
			slices.SortFunc(ready, byID)
		}
	}

	if len(order) != len(nodes) {
		return nil, fmt.Errorf("cycle detected: %d of %d nodes could not be ordered", len(nodes)-len(order), len(nodes))
	}
	return order, nil
}
