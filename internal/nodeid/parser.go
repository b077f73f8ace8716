// internal/nodeid/parser.go
package nodeid

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// segmentRegex is used to parse a single segment of a path, e.g., `name` or `name[1]`.
var segmentRegex = regexp.MustCompile(`^([a-zA-Z0-9_-]+)(?:\[(\d+)\])?$`)

// isValidSegmentName checks for undesirable but technically valid names.
func isValidSegmentName(name string) bool {
	return name != "-"
}

// ValidName reports whether name can be used as a path segment name.
func ValidName(name string) bool {
	return segmentRegex.MatchString(name) && !strings.Contains(name, "[") && isValidSegmentName(name)
}

// Parse creates an Address from its canonical string representation.
func Parse(rawID string) (Address, error) {
	if rawID == "" {
		return Address{}, fmt.Errorf("identifier cannot be empty")
	}

	var addr Address
	for _, segmentStr := range strings.Split(rawID, ".") {
		if segmentStr == "" {
			return Address{}, fmt.Errorf("identifier path contains empty segment")
		}

		matches := segmentRegex.FindStringSubmatch(segmentStr)
		if matches == nil {
			return Address{}, fmt.Errorf("invalid path segment format: %q", segmentStr)
		}

		name := matches[1]
		if !isValidSegmentName(name) {
			return Address{}, fmt.Errorf("invalid segment name: %q", name)
		}

		segment := NewPathSegment(name)
		if matches[2] != "" {
			index, err := strconv.Atoi(matches[2])
			if err != nil {
				return Address{}, fmt.Errorf("invalid segment index in %q: %w", segmentStr, err)
			}
			segment.Index = index
		}
		addr.Path = append(addr.Path, segment)
	}

	return addr, nil
}
