package registry

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/specialistvlad/tilegrid/internal/config"
	"github.com/specialistvlad/tilegrid/internal/ctxlog"
	"go.uber.org/multierr"
)

// ValidateModel checks that every configured job names a registered kind,
// that each tiled job's provider accepts its options, and that every stage
// mode is supported by its job's kind. All problems are reported together.
func (r *Registry) ValidateModel(ctx context.Context, m *config.Model) error {
	logger := ctxlog.FromContext(ctx)
	var err error

	tiled := make(map[string]bool)
	for _, s := range m.Stages {
		if s.Mode == config.ModeTiled {
			tiled[s.Job] = true
		}
	}

	for _, name := range sortedJobs(m) {
		job := m.Jobs[name]
		kind, ok := r.Kind(job.Profile)
		if !ok {
			err = multierr.Append(err, fmt.Errorf("job %q: unknown profile %q (registered: %s)", name, job.Profile, strings.Join(r.Names(), ", ")))
			continue
		}
		if tiled[name] && kind.Provider != nil {
			if _, perr := kind.Provider.Profile(job.ProfileOptions()); perr != nil {
				err = multierr.Append(err, fmt.Errorf("job %q: %w", name, perr))
			}
		}
	}

	for _, s := range m.Stages {
		job, ok := m.Jobs[s.Job]
		if !ok {
			continue
		}
		kind, ok := r.Kind(job.Profile)
		if !ok {
			continue
		}
		switch s.Mode {
		case config.ModeTiled:
			if kind.Provider == nil {
				err = multierr.Append(err, fmt.Errorf("stage %q: profile %q cannot be tiled", s.Name, job.Profile))
			}
		case config.ModeCoherent:
			if kind.Windows == nil {
				err = multierr.Append(err, fmt.Errorf("stage %q: profile %q has no coherent windows", s.Name, job.Profile))
			}
		}
	}

	if err == nil {
		logger.Debug("Registry validation passed.", "jobs", len(m.Jobs), "stages", len(m.Stages))
	}
	return err
}

func sortedJobs(m *config.Model) []string {
	names := make([]string, 0, len(m.Jobs))
	for name := range m.Jobs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
