// Package workflow turns science segments into job nodes.
//
// A Driver handles one job kind on one instrument: it tiles every segment,
// resolves each job's parents against its valid window and its raw data
// against its data window, fans out over equally good parents and hands the
// resulting nodes to a graph sink. Segments are independent, so a Driver
// works on several at once; the first error cancels the rest.
//
// A Planner runs the configured stages in order, feeding each stage's
// outputs to the stages after it as an in-memory catalog.
package workflow
