package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/tilegrid/internal/config"
	"github.com/specialistvlad/tilegrid/internal/ctxlog"
	"github.com/specialistvlad/tilegrid/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file under the given paths and merges their blocks
// into one model. Stages keep file order, then declaration order.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	hclFiles, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(hclFiles) == 0 {
		return nil, fmt.Errorf("no .hcl files found in %v", paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	model := config.NewModel()
	parser := hclparse.NewParser()

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, w := range root.Workflows {
			if model.Workflow != nil {
				return nil, fmt.Errorf("%s: only one workflow block is allowed", file)
			}
			model.Workflow = &config.Workflow{StartTime: w.StartTime, EndTime: w.EndTime}
		}
		for _, jb := range root.Jobs {
			if _, exists := model.Jobs[jb.Name]; exists {
				return nil, fmt.Errorf("%s: job %q is declared more than once", file, jb.Name)
			}
			job, err := l.translateJob(jb)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
			model.Jobs[job.Name] = job
		}
		for _, sb := range root.Stages {
			model.Stages = append(model.Stages, l.translateStage(sb))
		}
	}

	logger.Debug("HCL loading complete.", "jobs", len(model.Jobs), "stages", len(model.Stages), "workflow", model.Workflow != nil)
	return model, nil
}

// findAllHCLFiles walks all given paths and returns a sorted, de-duplicated
// list of all .hcl files found.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if !info.IsDir() {
			if filepath.Ext(path) != ".hcl" {
				return nil, fmt.Errorf("%s is not an .hcl file", path)
			}
			allFiles = append(allFiles, path)
			continue
		}

		found, err := fsutil.FindFiles(path, ".hcl")
		if err != nil {
			return nil, err
		}
		allFiles = append(allFiles, found...)
	}

	slices.Sort(allFiles)
	return slices.Compact(allFiles), nil
}
