package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func validModel() *Model {
	m := NewModel()
	m.Workflow = &Workflow{StartTime: 0, EndTime: 4096}
	m.Jobs["tmpltbank"] = &Job{Name: "tmpltbank", Profile: "template_bank"}
	m.Jobs["inspiral"] = &Job{Name: "inspiral", Profile: "matched_filter"}
	m.Stages = []*Stage{
		{Name: "tmpltbank", Job: "tmpltbank", Instruments: []string{"H1"}, Data: "datafind", Mode: ModeTiled},
		{Name: "inspiral", Job: "inspiral", Instruments: []string{"H1"}, Parents: "tmpltbank", Data: "datafind", Mode: ModeTiled},
	}
	return m
}

func TestValidate_Accepts(t *testing.T) {
	require.NoError(t, validModel().Validate([]string{"datafind"}))
}

func TestValidate_CollectsEveryProblem(t *testing.T) {
	m := validModel()
	m.Stages = append([]*Stage{
		{Name: "early", Job: "inspiral", Instruments: []string{"H1"}, Parents: "inspiral", Mode: ModeTiled},
	}, m.Stages...)
	m.Stages = append(m.Stages,
		&Stage{Name: "ghost", Job: "missing", Mode: "sideways"},
		&Stage{Name: "split", Job: "tmpltbank", Mode: ModeSplit},
	)

	err := m.Validate(nil)
	require.Error(t, err)
	errs := multierr.Errors(err)

	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	assert.Contains(t, msgs, `stage "early": parents "inspiral" is neither an earlier stage nor a catalog`)
	assert.Contains(t, msgs, `stage "tmpltbank": data "datafind" is neither an earlier stage nor a catalog`)
	assert.Contains(t, msgs, `stage "ghost": unknown job "missing"`)
	assert.Contains(t, msgs, `stage "ghost": unknown mode "sideways"`)
	assert.Contains(t, msgs, `stage "split": split stages need parents`)
}

func TestValidate_ReferenceErrorsInAttributeOrder(t *testing.T) {
	m := validModel()
	m.Stages = append(m.Stages, &Stage{
		Name: "coh", Job: "inspiral", Mode: ModeCoherent,
		Parents: "p", Data: "d", Injections: "i",
	})

	for range 20 {
		err := m.Validate([]string{"datafind"})
		errs := multierr.Errors(err)
		require.Len(t, errs, 3)
		assert.Contains(t, errs[0].Error(), `parents "p"`)
		assert.Contains(t, errs[1].Error(), `data "d"`)
		assert.Contains(t, errs[2].Error(), `injections "i"`)
	}
}

func TestValidate_CoherentWithoutWorkflowIsAllowed(t *testing.T) {
	m := validModel()
	m.Workflow = nil
	m.Stages = append(m.Stages, &Stage{Name: "coh", Job: "inspiral", Mode: ModeCoherent})

	assert.NoError(t, m.Validate([]string{"datafind"}))
}

func TestJob_ProfileOptionsCarryJobName(t *testing.T) {
	j := &Job{Name: "inspiral"}
	_, err := j.ProfileOptions().Int("segment_length")
	assert.ErrorContains(t, err, "inspiral")
}

func TestValidate_Names(t *testing.T) {
	m := validModel()
	m.Stages[0].Instruments = []string{"H1.x"}
	m.Stages = append(m.Stages, &Stage{Name: "datafind", Job: "inspiral", Instruments: []string{"H1"}, Mode: ModeTiled})

	err := m.Validate([]string{"datafind"})
	require.Error(t, err)
	assert.ErrorContains(t, err, `stage "tmpltbank": invalid instrument name "H1.x"`)
	assert.ErrorContains(t, err, `stage "datafind": name is already used by a catalog`)
}
