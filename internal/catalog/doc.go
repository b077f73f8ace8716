// Package catalog resolves a job's time windows against time-indexed
// artifacts: parent outputs, raw data units, injection sets.
//
// Catalogs are read-only once built. Artifacts are partitioned by owner
// (usually the instrument); a query with an owner never returns an artifact
// of another owner.
package catalog
