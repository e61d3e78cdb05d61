package fsmtest

import (
	"testing"

	"github.com/amp-labs/amp-fsm/fsm"
	"github.com/amp-labs/amp-fsm/optional"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Step is one event in a scenario and what should follow from it.
type Step[R any] struct {
	Event string

	// WantState is the expected current state afterwards. Empty skips the check.
	WantState string

	// WantResult is compared with the handler result when WantErr is nil.
	WantResult optional.Value[R]

	// WantErr, when set, must match the returned error with errors.Is.
	WantErr error
}

// Scenario is a named sequence of steps run against a fresh machine.
type Scenario[R any] struct {
	Name  string
	Build func(t *testing.T) *fsm.Machine[R]
	Steps []Step[R]
}

// RunScenario runs scenario as a subtest of t.
func RunScenario[R any](t *testing.T, scenario Scenario[R]) {
	t.Helper()

	t.Run(scenario.Name, func(t *testing.T) {
		t.Helper()

		require.NotNil(t, scenario.Build, "scenario %q has no Build function", scenario.Name)

		RunSteps(t, scenario.Build(t), scenario.Steps...)
	})
}

// RunSteps dispatches each step's event to m and checks the outcome.
func RunSteps[R any](t *testing.T, m *fsm.Machine[R], steps ...Step[R]) {
	t.Helper()

	for i, step := range steps {
		result, err := m.Handle(t.Context(), fsm.NewEvent(step.Event))

		if step.WantErr != nil {
			require.ErrorIs(t, err, step.WantErr, "step %d (%s)", i, step.Event)
		} else {
			require.NoError(t, err, "step %d (%s)", i, step.Event)
			assert.Equal(t, step.WantResult, result, "step %d (%s) result", i, step.Event)
		}

		if step.WantState != "" {
			assert.Equal(t, step.WantState, m.CurrentStateName(), "step %d (%s) state", i, step.Event)
		}
	}
}
