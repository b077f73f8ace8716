package config

import (
	"github.com/specialistvlad/tilegrid/internal/interval"
	"github.com/specialistvlad/tilegrid/internal/profile"
	"github.com/zclconf/go-cty/cty"
)

// Model is the unified representation of one planning workflow.
type Model struct {
	// Workflow is nil when no workflow block was given.
	Workflow *Workflow
	Jobs     map[string]*Job
	// Stages run in declaration order; a stage can only consume the outputs
	// of stages declared before it.
	Stages []*Stage
}

// NewModel returns an empty model ready to be populated.
func NewModel() *Model {
	return &Model{Jobs: make(map[string]*Job)}
}

// Workflow holds settings shared by all stages.
type Workflow struct {
	StartTime int64
	EndTime   int64
}

// Span is the analysis span covered by the whole workflow.
func (w *Workflow) Span() (interval.Interval, error) {
	return interval.New(w.StartTime, w.EndTime)
}

// Job is one configured job kind.
type Job struct {
	Name string
	// Profile names the registered kind implementing this job.
	Profile      string
	AllowOverlap bool
	// ExcludeTags drops matching artifacts from this job's dependency lists
	// and from the outputs it publishes to later stages.
	ExcludeTags []string
	Tags        []string
	Options     map[string]cty.Value
}

// ProfileOptions exposes the job's options to providers and builders.
func (j *Job) ProfileOptions() profile.Options {
	return profile.NewOptions(j.Name, j.Options)
}

// Mode selects how a stage turns its inputs into nodes.
type Mode string

const (
	// ModeTiled tiles each instrument's science segments.
	ModeTiled Mode = "tiled"
	// ModeCoherent builds one multi-instrument window over the workflow span.
	ModeCoherent Mode = "coherent"
	// ModeSplit builds one node per parent artifact.
	ModeSplit Mode = "split"
)

// Valid reports a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeTiled, ModeCoherent, ModeSplit:
		return true
	}
	return false
}

// Stage applies a job to a set of instruments.
type Stage struct {
	Name        string
	Job         string
	Instruments []string
	// Parents, Data and Injections each name an earlier stage or an
	// external catalog. Empty means the dependency class is not used.
	Parents    string
	Data       string
	Injections string
	Mode       Mode
}
