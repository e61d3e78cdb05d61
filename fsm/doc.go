// Package fsm is a small finite state machine runtime.
//
// A Machine owns a set of named states, a transition table keyed by state
// name and event name, and the name of its current state. Handle delivers an
// event to the current state, whose handler may produce a result of type R,
// and then moves to the state the table names for that (state, event) pair.
// Pairs missing from the table leave the machine where it is.
//
// Machines are built with NewMachine or a Builder, or from YAML with
// LoadConfig and NewBuilderFromConfig. Every construction path validates the
// whole topology and reports all problems at once.
//
// Only the current state name is persisted. SaveState and ReloadState move it
// through any Sink; the store package provides file, memory, Redis and S3
// sinks.
//
// Example:
//
//	s0 := fsm.NewState[string]("S0", nil)
//	s1 := fsm.NewState("S1", fsm.Handlers[string]{
//		"ping": func(ctx context.Context, e fsm.Event) (string, error) { return "pong", nil },
//	})
//
//	m, err := fsm.NewBuilder[string]().
//		AddStates(s0, s1).
//		AddTransition("S0", "ping", "S1").
//		WithInitialState("S0").
//		Build()
//	if err != nil {
//		return err
//	}
//
//	result, err := m.Handle(ctx, fsm.NewEvent("ping"))
package fsm
