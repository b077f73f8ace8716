package catalog

import "github.com/specialistvlad/tilegrid/internal/interval"

// FindAll returns every artifact overlapping iv, or a NoMatchingArtifactError
// naming class when there are none.
func FindAll(c Catalog, class string, iv interval.Interval, owner string) ([]Artifact, error) {
	return Resolve(c, class, iv, owner, nil, false)
}

// FindBest narrows FindAll to the artifacts sharing the interval of the
// single best-overlapping match. Split banks that all cover the same span
// are therefore returned together, while a neighbouring bank that only
// clips the window is not.
func FindBest(c Catalog, class string, iv interval.Interval, owner string) ([]Artifact, error) {
	return Resolve(c, class, iv, owner, nil, true)
}

// Resolve drops artifacts carrying any exclude tag before narrowing, so an
// excluded artifact can neither win the best overlap nor satisfy a required
// dependency. It fails when nothing survives.
func Resolve(c Catalog, class string, iv interval.Interval, owner string, exclude []string, narrow bool) ([]Artifact, error) {
	found := WithoutTags(c.Overlapping(iv, owner), exclude)
	if len(found) == 0 {
		return nil, &NoMatchingArtifactError{Class: class, Owner: owner, Interval: iv}
	}
	if narrow {
		found = Narrow(found, iv)
	}
	return found, nil
}

// Narrow keeps the artifacts whose interval equals that of the artifact
// overlapping iv the most. The first of equally good matches wins.
func Narrow(found []Artifact, iv interval.Interval) []Artifact {
	if len(found) == 0 {
		return nil
	}
	best, bestOverlap := 0, int64(-1)
	for i, a := range found {
		shared, _ := a.Interval.Intersection(iv)
		if d := shared.Duration(); d > bestOverlap {
			best, bestOverlap = i, d
		}
	}

	target := found[best].Interval
	out := make([]Artifact, 0, len(found))
	for _, a := range found {
		if a.Interval == target {
			out = append(out, a)
		}
	}
	return out
}
