// Package node defines JobNode, the unit of work the planner emits.
package node
