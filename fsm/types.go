package fsm

import (
	"context"

	"github.com/amp-labs/amp-fsm/optional"
)

// Handler reacts to an event delivered to a state. R is the machine's result type.
type Handler[R any] func(ctx context.Context, event Event) (R, error)

// Handlers maps event names to the handler that consumes them.
type Handlers[R any] map[string]Handler[R]

// State is a named unit of behavior. Handle returns optional.None when the
// state has nothing registered for the event; that is a normal outcome, not
// an error. Implementations must not change their handler set after being
// passed to a Machine.
type State[R any] interface {
	Name() string
	Handle(ctx context.Context, event Event) (optional.Value[R], error)
}

// EventLister is implemented by states that can enumerate the event names they
// handle. Topology snapshots use it when present.
type EventLister interface {
	Events() []string
}

// Transition is one edge of the transition table.
type Transition struct {
	From  string `json:"from"  yaml:"from"`
	Event string `json:"event" yaml:"event"`
	To    string `json:"to"    yaml:"to"`
}

func (t Transition) String() string {
	return t.From + " --" + t.Event + "--> " + t.To
}

// TransitionHook observes every transition taken from the table, including
// explicit self-loops. Dispatches with no matching entry are not transitions.
type TransitionHook func(ctx context.Context, transition Transition)
