package fsm

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess  = "success"
	outcomeRejected = "rejected"
	outcomeFailure  = "error"

	// otherEventLabel replaces event names the machine never references, so
	// arbitrary caller input cannot grow label cardinality.
	otherEventLabel = "other"
)

// Metric definitions with appropriate labels.
var (
	// eventsTotal counts dispatches by machine, state, event and outcome.
	eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fsm_events_total",
		Help: "Total number of events dispatched by machine, state, event and outcome",
	}, []string{"machine", "state", "event", "outcome"})

	// transitionsTotal counts transitions taken from the table.
	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fsm_transitions_total",
		Help: "Total number of state transitions by machine, from_state and to_state",
	}, []string{"machine", "from_state", "to_state"})

	// handlerDuration tracks how long state handlers take.
	handlerDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fsm_handler_duration_seconds",
		Help:    "Duration of event handling by machine, state and event",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
	}, []string{"machine", "state", "event"})

	// stateAssignmentsTotal counts direct current-state writes, including reloads.
	stateAssignmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fsm_state_assignments_total",
		Help: "Total number of current state assignments by machine and outcome (success or rejected)",
	}, []string{"machine", "outcome"})

	// persistenceOperationsTotal counts save and reload calls.
	persistenceOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fsm_persistence_operations_total",
		Help: "Total number of state persistence operations by machine, operation and outcome",
	}, []string{"machine", "operation", "outcome"})
)

func outcomeLabel(err error) string {
	if err != nil {
		return outcomeFailure
	}

	return outcomeSuccess
}
