package fsm

import (
	"context"
	"maps"
	"slices"
	"time"

	"facette.io/natsort"
	amperrors "github.com/amp-labs/amp-fsm/errors"
	"github.com/amp-labs/amp-fsm/optional"
	"go.uber.org/atomic"
)

// Machine dispatches events to the current state and advances it through a
// transition table. Calls to Handle and SetCurrentStateName are serialized;
// CurrentStateName may be read from any goroutine at any time.
//
// A handler must not call Handle or SetCurrentStateName on its own machine.
// The dispatch slot is held while it runs, so such a call waits until its
// context is done.
type Machine[R any] struct {
	name        string
	states      map[string]State[R]
	names       []string
	transitions TransitionTable
	initial     string
	events      map[string]struct{}

	current *atomic.String
	slot    chan struct{}

	logger Logger
	hooks  []TransitionHook
}

// NewMachine validates the topology and returns a machine positioned at
// initialStateName. The transition table is copied. On failure the returned
// error matches ErrInvalidTopology and lists every problem found.
func NewMachine[R any](
	states []State[R], transitions TransitionTable, initialStateName string, opts ...Option,
) (*Machine[R], error) {
	var problems amperrors.Collection

	index := indexStates(states, &problems)
	names := sortedStateNames(index)

	if len(index) > 0 {
		if _, ok := index[initialStateName]; !ok {
			problems.Add(&UnknownStateError{Name: initialStateName, Role: RoleInitialState, Valid: names})
		}
	}

	for _, t := range transitions.Transitions() {
		if _, ok := index[t.From]; !ok {
			problems.Add(&UnknownStateError{Name: t.From, Role: RoleTransitionSource, Transition: &t, Valid: names})
		}

		if _, ok := index[t.To]; !ok {
			problems.Add(&UnknownStateError{Name: t.To, Role: RoleTransitionTarget, Transition: &t, Valid: names})
		}
	}

	if err := problems.WrapWith(ErrInvalidTopology); err != nil {
		return nil, err
	}

	o := newOptions(opts)

	return &Machine[R]{
		name:        o.name,
		states:      index,
		names:       names,
		transitions: transitions.Clone(),
		initial:     initialStateName,
		events:      knownEvents(index, transitions),
		current:     atomic.NewString(initialStateName),
		slot:        make(chan struct{}, 1),
		logger:      o.logger,
		hooks:       o.hooks,
	}, nil
}

func indexStates[R any](states []State[R], problems *amperrors.Collection) map[string]State[R] {
	if len(states) == 0 {
		problems.Add(ErrNoStates)

		return map[string]State[R]{}
	}

	index := make(map[string]State[R], len(states))

	for i, state := range states {
		if state == nil {
			problems.Addf("state at index %d: %w", i, ErrNilState)

			continue
		}

		name := state.Name()
		if name == "" {
			problems.Addf("state at index %d: %w", i, ErrStateNameRequired)

			continue
		}

		if _, dup := index[name]; dup {
			problems.Addf("%w: %q", ErrDuplicateStateName, name)

			continue
		}

		index[name] = state
	}

	return index
}

func sortedStateNames[R any](index map[string]State[R]) []string {
	names := slices.Collect(maps.Keys(index))
	natsort.Sort(names)

	return names
}

func knownEvents[R any](index map[string]State[R], transitions TransitionTable) map[string]struct{} {
	events := make(map[string]struct{})

	for _, row := range transitions {
		for event := range row {
			events[event] = struct{}{}
		}
	}

	for _, state := range index {
		if lister, ok := state.(EventLister); ok {
			for _, event := range lister.Events() {
				events[event] = struct{}{}
			}
		}
	}

	return events
}

// Name returns the label given with WithName.
func (m *Machine[R]) Name() string {
	return m.name
}

// InitialStateName returns the state the machine started in.
func (m *Machine[R]) InitialStateName() string {
	return m.initial
}

// CurrentStateName returns the current state without waiting for the dispatch slot.
func (m *Machine[R]) CurrentStateName() string {
	return m.current.Load()
}

// StateNames returns every state name in natural order.
func (m *Machine[R]) StateNames() []string {
	return slices.Clone(m.names)
}

// HasState reports whether name is one of the machine's states.
func (m *Machine[R]) HasState(name string) bool {
	_, ok := m.states[name]

	return ok
}

// Transitions lists the machine's transition table.
func (m *Machine[R]) Transitions() []Transition {
	return m.transitions.Transitions()
}

func (m *Machine[R]) acquire(ctx context.Context) error {
	select {
	case m.slot <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Machine[R]) release() {
	<-m.slot
}

// Handle delivers event to the current state. When a table entry exists for
// (current, event) the machine moves to its target after the handler returns
// without error; otherwise it stays where it is. A handler error is returned
// as a *HandlerError and the machine does not move. A context that is done
// before the handler would run yields ctx.Err() and nothing is dispatched.
func (m *Machine[R]) Handle(ctx context.Context, event Event) (optional.Value[R], error) {
	if err := m.acquire(ctx); err != nil {
		m.dispatched(ctx, m.current.Load(), event, OutcomeCanceled, 0, err)

		return optional.None[R](), err
	}
	defer m.release()

	from := m.current.Load()

	to, matched := m.transitions.Next(from, event.Name())
	if !matched {
		to = from
	}

	ctx, span := startHandleSpan(ctx, m.name, from, to, event)

	if err := ctx.Err(); err != nil {
		m.dispatched(ctx, from, event, OutcomeCanceled, 0, err)
		finishSpan(span, err)

		return optional.None[R](), err
	}

	start := time.Now()
	result, err := m.states[from].Handle(ctx, event)
	elapsed := time.Since(start)

	handlerDuration.WithLabelValues(m.name, from, m.eventLabel(event)).Observe(elapsed.Seconds())

	if err != nil {
		herr := &HandlerError{State: from, Event: event, Err: err}
		m.dispatched(ctx, from, event, OutcomeError, elapsed, herr)
		finishSpan(span, herr)

		return optional.None[R](), herr
	}

	outcome := OutcomeHandled
	if result.Empty() {
		outcome = OutcomeUnhandled
	}

	m.dispatched(ctx, from, event, outcome, elapsed, nil)

	if matched {
		m.current.Store(to)
		m.transitioned(ctx, Transition{From: from, Event: event.Name(), To: to}, event)
	}

	finishSpan(span, nil)

	return result, nil
}

// SetCurrentStateName moves the machine to name without dispatching. Unknown
// names are rejected with an *UnknownStateError and leave the machine as it
// was. Assigning the current state is allowed.
func (m *Machine[R]) SetCurrentStateName(ctx context.Context, name string) error {
	if err := m.acquire(ctx); err != nil {
		return err
	}
	defer m.release()

	from := m.current.Load()

	if _, ok := m.states[name]; !ok {
		err := &UnknownStateError{Name: name, Role: RoleAssignment, Valid: m.StateNames()}

		stateAssignmentsTotal.WithLabelValues(m.name, outcomeRejected).Inc()

		if m.logger != nil {
			m.logger.StateAssigned(ctx, m.name, from, name, err)
		}

		return err
	}

	m.current.Store(name)

	stateAssignmentsTotal.WithLabelValues(m.name, outcomeSuccess).Inc()

	if m.logger != nil {
		m.logger.StateAssigned(ctx, m.name, from, name, nil)
	}

	return nil
}

func (m *Machine[R]) eventLabel(event Event) string {
	if _, ok := m.events[event.Name()]; ok {
		return event.Name()
	}

	return otherEventLabel
}

func (m *Machine[R]) dispatched(
	ctx context.Context, state string, event Event, outcome Outcome, elapsed time.Duration, err error,
) {
	eventsTotal.WithLabelValues(m.name, state, m.eventLabel(event), string(outcome)).Inc()

	if m.logger != nil {
		m.logger.EventDispatched(ctx, m.name, state, event, outcome, elapsed, err)
	}
}

func (m *Machine[R]) transitioned(ctx context.Context, transition Transition, event Event) {
	transitionsTotal.WithLabelValues(m.name, transition.From, transition.To).Inc()

	if m.logger != nil {
		m.logger.TransitionExecuted(ctx, m.name, transition, event)
	}

	for _, hook := range m.hooks {
		hook(ctx, transition)
	}
}
