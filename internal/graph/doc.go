// Package graph provides a facade over a topologystore.Store for the finished
// plan.
//
// Workers only append nodes. Once planning is done, Link turns artifact
// producer ids into dependency edges, Validate rejects cycles and
// TopologicalOrder yields a deterministic order for writing the plan.
//
//	┌─────────────────────────────┐
//	│        Graph Facade         │
//	│  Add · Link · Validate ·    │
//	│  TopologicalOrder           │
//	└──────────────┬──────────────┘
//	               ▼
//	      ┌─────────────────┐
//	      │ Topology Store  │
//	      │ (nodes + edges) │
//	      └─────────────────┘
//
// All methods are as thread-safe as the underlying store.
package graph
