// Package tiler splits one contiguous science segment into analysis jobs.
//
// Given a segment and a kind's profile the Segmenter picks a job size,
// computes how many jobs are needed so their valid windows leave no gap, and
// spaces them evenly so the first job starts on the segment start and the
// last job ends on the segment end.
//
// Job offsets are floor(shift*i + 1e-4) where shift may be fractional. The
// arithmetic here is exact: shift is carried as a rational and the epsilon
// is folded into the integer division (see floorEps), so results do not
// depend on float rounding.
package tiler
