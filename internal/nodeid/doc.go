// internal/nodeid/doc.go

/*
Package nodeid provides structured identifiers for planned jobs.

An identifier is a dot-separated path of segments, each optionally indexed,
e.g. `inspiral.H1.seg[2].job[7].bank[3]`. Builders produce addresses for
the planner; Parse accepts the canonical string form back, so plan files can
be read and cross-referenced.
*/
package nodeid
