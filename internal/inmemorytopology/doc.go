// Package inmemorytopology provides a thread-safe, in-memory implementation
// of the topologystore.Store interface. Plans are small enough to hold in
// memory for the lifetime of one planning run.
package inmemorytopology
