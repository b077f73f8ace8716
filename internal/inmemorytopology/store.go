package inmemorytopology

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/specialistvlad/tilegrid/internal/node"
	"github.com/specialistvlad/tilegrid/internal/nodeid"
	"github.com/specialistvlad/tilegrid/internal/topologystore"
)

// Store implements the topologystore.Store interface using maps and a mutex
// for thread-safe concurrent access.
type Store struct {
	mu    sync.RWMutex
	nodes map[string]*node.JobNode
	deps  map[string]map[string]nodeid.Address // Key: node ID, Value: set of dependencies
}

var _ topologystore.Store = (*Store)(nil)

// New creates a new, empty in-memory topology store.
func New() *Store {
	return &Store{
		nodes: make(map[string]*node.JobNode),
		deps:  make(map[string]map[string]nodeid.Address),
	}
}

// AddNode adds a new node to the store.
func (s *Store) AddNode(ctx context.Context, n *node.JobNode) error {
	if n == nil || n.ID.IsZero() {
		return fmt.Errorf("cannot add a node without an address")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := n.Key()
	if existing, exists := s.nodes[key]; exists {
		if existing == n {
			return nil
		}
		return fmt.Errorf("node '%s' already exists in topology", key)
	}
	s.nodes[key] = n
	return nil
}

// AddDependency creates a dependency link from one node to another.
func (s *Store) AddDependency(ctx context.Context, from, to nodeid.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fromKey := from.String()
	toKey := to.String()

	if _, exists := s.nodes[fromKey]; !exists {
		return fmt.Errorf("dependency source node '%s' not found in topology", fromKey)
	}
	if _, exists := s.nodes[toKey]; !exists {
		return fmt.Errorf("dependency target node '%s' not found in topology", toKey)
	}

	if s.deps[toKey] == nil {
		s.deps[toKey] = make(map[string]nodeid.Address)
	}
	s.deps[toKey][fromKey] = from
	return nil
}

// GetNode retrieves a single node by its address.
func (s *Store) GetNode(ctx context.Context, id nodeid.Address) (*node.JobNode, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[id.String()]
	return n, ok
}

// AllNodes returns a slice of all nodes in the topology.
func (s *Store) AllNodes(ctx context.Context) []*node.JobNode {
	s.mu.RLock()
	nodes := make([]*node.JobNode, 0, len(s.nodes))
	for _, n := range s.nodes {
		nodes = append(nodes, n)
	}
	s.mu.RUnlock()

	slices.SortFunc(nodes, func(a, b *node.JobNode) int {
		return nodeid.Compare(a.ID, b.ID)
	})
	return nodes
}

// DependenciesOf returns the addresses of all nodes that the given node depends on.
func (s *Store) DependenciesOf(ctx context.Context, id nodeid.Address) ([]nodeid.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := id.String()
	if _, exists := s.nodes[key]; !exists {
		return nil, fmt.Errorf("node '%s' not found in topology", key)
	}

	deps := make([]nodeid.Address, 0, len(s.deps[key]))
	for _, addr := range s.deps[key] {
		deps = append(deps, addr)
	}
	slices.SortFunc(deps, nodeid.Compare)
	return deps, nil
}

// Len returns the number of nodes.
func (s *Store) Len(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}
