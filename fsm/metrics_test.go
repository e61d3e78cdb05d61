package fsm

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Each test uses its own machine name, so label children do not collide with
// other tests in the package.
func TestDispatchMetrics(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	m := newScenarioMachine(t, WithName("metrics-dispatch"))

	for _, name := range []string{"e1", "e1", "e1", "bogus"} {
		_, err := m.Handle(ctx, NewEvent(name))
		require.NoError(t, err)
	}

	assert.InDelta(t, 1, testutil.ToFloat64(
		eventsTotal.WithLabelValues("metrics-dispatch", "S0", "e1", string(OutcomeUnhandled))), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(
		eventsTotal.WithLabelValues("metrics-dispatch", "S2", "e1", string(OutcomeHandled))), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(
		eventsTotal.WithLabelValues("metrics-dispatch", "S2", otherEventLabel, string(OutcomeUnhandled))), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(
		transitionsTotal.WithLabelValues("metrics-dispatch", "S1", "S2")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(
		transitionsTotal.WithLabelValues("metrics-dispatch", "S2", "S2")), 0)
}

func TestErrorAndCancelMetrics(t *testing.T) {
	t.Parallel()

	state := NewState("A", Handlers[string]{
		"fail": func(context.Context, Event) (string, error) { return "", errBoom },
	})

	m, err := NewMachine([]State[string]{state}, nil, "A", WithName("metrics-errors"), WithLogger(nil))
	require.NoError(t, err)

	_, err = m.Handle(t.Context(), NewEvent("fail"))
	require.Error(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err = m.Handle(ctx, NewEvent("fail"))
	require.Error(t, err)

	assert.InDelta(t, 1, testutil.ToFloat64(
		eventsTotal.WithLabelValues("metrics-errors", "A", "fail", string(OutcomeError))), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(
		eventsTotal.WithLabelValues("metrics-errors", "A", "fail", string(OutcomeCanceled))), 0)
}

func TestAssignmentAndPersistenceMetrics(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	m := newScenarioMachine(t, WithName("metrics-assign"))
	sink := newMapSink()

	require.NoError(t, m.SetCurrentStateName(ctx, "S1"))
	require.Error(t, m.SetCurrentStateName(ctx, "nope"))
	require.NoError(t, SaveState(ctx, m, sink, "id"))
	require.NoError(t, ReloadState(ctx, m, sink, "id"))
	require.Error(t, ReloadState(ctx, m, sink, "missing"))

	assert.InDelta(t, 2, testutil.ToFloat64(
		stateAssignmentsTotal.WithLabelValues("metrics-assign", outcomeSuccess)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(
		stateAssignmentsTotal.WithLabelValues("metrics-assign", outcomeRejected)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(
		persistenceOperationsTotal.WithLabelValues("metrics-assign", operationSave, outcomeSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(
		persistenceOperationsTotal.WithLabelValues("metrics-assign", operationReload, outcomeSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(
		persistenceOperationsTotal.WithLabelValues("metrics-assign", operationReload, outcomeFailure)), 0)
}
