package config

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/tilegrid/internal/nodeid"
	"go.uber.org/multierr"
)

// Validate checks the model's internal references and reports every problem
// found, not just the first. catalogs names the external catalogs that
// stages may reference besides earlier stages.
func (m *Model) Validate(catalogs []string) error {
	var err error

	if m.Workflow != nil && m.Workflow.EndTime < m.Workflow.StartTime {
		err = multierr.Append(err, fmt.Errorf("workflow: end_time %d is before start_time %d", m.Workflow.EndTime, m.Workflow.StartTime))
	}

	known := make(map[string]bool, len(catalogs)+len(m.Stages))
	for _, c := range catalogs {
		known[c] = true
	}
	seen := make(map[string]bool, len(m.Stages))

	for _, s := range m.Stages {
		if seen[s.Name] {
			err = multierr.Append(err, fmt.Errorf("stage %q: declared more than once", s.Name))
		}
		seen[s.Name] = true

		if !nodeid.ValidName(s.Name) {
			err = multierr.Append(err, fmt.Errorf("stage %q: name must be letters, digits, '_' or '-'", s.Name))
		}
		if slices.Contains(catalogs, s.Name) {
			err = multierr.Append(err, fmt.Errorf("stage %q: name is already used by a catalog", s.Name))
		}
		for _, ifo := range s.Instruments {
			if !nodeid.ValidName(ifo) {
				err = multierr.Append(err, fmt.Errorf("stage %q: invalid instrument name %q", s.Name, ifo))
			}
		}

		if _, ok := m.Jobs[s.Job]; !ok {
			err = multierr.Append(err, fmt.Errorf("stage %q: unknown job %q", s.Name, s.Job))
		}
		if !s.Mode.Valid() {
			err = multierr.Append(err, fmt.Errorf("stage %q: unknown mode %q", s.Name, s.Mode))
		}
		if s.Mode == ModeTiled && len(s.Instruments) == 0 {
			err = multierr.Append(err, fmt.Errorf("stage %q: tiled stages need at least one instrument", s.Name))
		}
		if s.Mode == ModeSplit && s.Parents == "" {
			err = multierr.Append(err, fmt.Errorf("stage %q: split stages need parents", s.Name))
		}

		refs := []struct{ class, ref string }{
			{"parents", s.Parents},
			{"data", s.Data},
			{"injections", s.Injections},
		}
		for _, r := range refs {
			class, ref := r.class, r.ref
			if ref == "" || known[ref] {
				continue
			}
			if ref == s.Name {
				err = multierr.Append(err, fmt.Errorf("stage %q: %s refers to itself", s.Name, class))
				continue
			}
			err = multierr.Append(err, fmt.Errorf("stage %q: %s %q is neither an earlier stage nor a catalog", s.Name, class, ref))
		}
		known[s.Name] = true
	}
	return err
}
