package catalog

import (
	"slices"
	"strings"

	"github.com/specialistvlad/tilegrid/internal/interval"
)

// Artifact is an existing or planned time-indexed object a job can depend on.
type Artifact struct {
	ID       string            `yaml:"id" json:"id"`
	Owner    string            `yaml:"owner,omitempty" json:"owner,omitempty"`
	Interval interval.Interval `yaml:",inline" json:"interval"`
	Tags     []string          `yaml:"tags,omitempty" json:"tags,omitempty"`
	// Producer is the id of the planned node that writes this artifact, or
	// empty for artifacts that already exist.
	Producer string `yaml:"producer,omitempty" json:"producer,omitempty"`
}

// HasTag reports an exact tag match.
func (a Artifact) HasTag(tag string) bool {
	return slices.Contains(a.Tags, tag)
}

// TagsContaining returns the tags that contain sub, ignoring case.
func (a Artifact) TagsContaining(sub string) []string {
	sub = strings.ToLower(sub)
	var out []string
	for _, t := range a.Tags {
		if strings.Contains(strings.ToLower(t), sub) {
			out = append(out, t)
		}
	}
	return out
}

// WithoutTags drops every artifact carrying any of the given tags.
func WithoutTags(artifacts []Artifact, tags []string) []Artifact {
	if len(tags) == 0 {
		return artifacts
	}
	out := make([]Artifact, 0, len(artifacts))
	for _, a := range artifacts {
		if slices.ContainsFunc(tags, a.HasTag) {
			continue
		}
		out = append(out, a)
	}
	return out
}
