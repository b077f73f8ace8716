package tiler

// Integer helpers. Callers keep numerators well inside int64: a segment of
// 1e8 seconds tiled into 1e4 jobs needs ~1e16 after the epsilon scaling.

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// floorDiv is floor(a/b) for b > 0.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}

// ceilDiv is ceil(a/b) for b > 0.
func ceilDiv(a, b int64) int64 {
	return -floorDiv(-a, b)
}

// floorEps is floor(a/b + 1e-4) for b > 0, computed exactly as
// floor((a*10000 + b) / (b*10000)).
func floorEps(a, b int64) int64 {
	return floorDiv(a*epsilonInverse+b, b*epsilonInverse)
}
