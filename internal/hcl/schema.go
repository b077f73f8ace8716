package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Workflows []*workflowBlock `hcl:"workflow,block"`
	Jobs      []*jobBlock      `hcl:"job,block"`
	Stages    []*stageBlock    `hcl:"stage,block"`
	Remain    hcl.Body         `hcl:",remain"`
}

// workflowBlock represents the single `workflow` block.
type workflowBlock struct {
	StartTime int64 `hcl:"start_time"`
	EndTime   int64 `hcl:"end_time"`
}

// jobBlock represents a `job "<name>"` block. Options stay an expression so
// that arbitrary nested values reach the kind's provider untouched.
type jobBlock struct {
	Name         string         `hcl:"name,label"`
	Profile      string         `hcl:"profile"`
	AllowOverlap *bool          `hcl:"allow_overlap,optional"`
	ExcludeTags  []string       `hcl:"exclude_tags,optional"`
	Tags         []string       `hcl:"tags,optional"`
	Options      hcl.Expression `hcl:"options,optional"`
}

// stageBlock represents a `stage "<name>"` block.
type stageBlock struct {
	Name        string   `hcl:"name,label"`
	Job         string   `hcl:"job"`
	Instruments []string `hcl:"instruments,optional"`
	Parents     string   `hcl:"parents,optional"`
	Data        string   `hcl:"data,optional"`
	Injections  string   `hcl:"injections,optional"`
	Mode        string   `hcl:"mode,optional"`
}
