// Package interval provides the half-open time range used throughout the
// planner. Times are integer seconds on the instrument clock.
//
// Two intervals overlap iff a.Start < b.End && b.Start < a.End, so ranges
// that merely touch at an endpoint do not overlap.
package interval
