package hcl

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/tilegrid/internal/config"
	"github.com/zclconf/go-cty/cty"
)

// translateJob converts the HCL-specific job schema into the agnostic model.
func (l *Loader) translateJob(j *jobBlock) (*config.Job, error) {
	opts, err := evalOptions(j.Options)
	if err != nil {
		return nil, fmt.Errorf("job %q: %w", j.Name, err)
	}
	allowOverlap := true
	if j.AllowOverlap != nil {
		allowOverlap = *j.AllowOverlap
	}
	return &config.Job{
		Name:         j.Name,
		Profile:      j.Profile,
		AllowOverlap: allowOverlap,
		ExcludeTags:  j.ExcludeTags,
		Tags:         j.Tags,
		Options:      opts,
	}, nil
}

// translateStage converts the HCL-specific stage schema into the agnostic model.
func (l *Loader) translateStage(s *stageBlock) *config.Stage {
	mode := config.Mode(strings.ToLower(s.Mode))
	if mode == "" {
		mode = config.ModeTiled
	}
	return &config.Stage{
		Name:        s.Name,
		Job:         s.Job,
		Instruments: s.Instruments,
		Parents:     s.Parents,
		Data:        s.Data,
		Injections:  s.Injections,
		Mode:        mode,
	}
}

// evalOptions statically evaluates an options expression into a flat map of
// values. A missing or null expression yields an empty map.
func evalOptions(expr hcl.Expression) (map[string]cty.Value, error) {
	out := make(map[string]cty.Value)
	if expr == nil {
		return out, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid options: %w", diags)
	}
	if val.IsNull() {
		return out, nil
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("options must be known at load time")
	}
	ty := val.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("options must be an object, got %s", ty.FriendlyName())
	}
	for it := val.ElementIterator(); it.Next(); {
		k, v := it.Element()
		out[k.AsString()] = v
	}
	return out, nil
}
