package fsm

import "slices"

// Builder assembles a Machine. Calls may come in any order; nothing is
// checked until Build.
type Builder[R any] struct {
	states      []State[R]
	transitions TransitionTable
	initial     string
	opts        []Option
}

// NewBuilder returns an empty builder.
func NewBuilder[R any]() *Builder[R] {
	return &Builder[R]{
		transitions: make(TransitionTable),
	}
}

// AddStates appends states.
func (b *Builder[R]) AddStates(states ...State[R]) *Builder[R] {
	b.states = append(b.states, states...)

	return b
}

// AddTransition records from --event--> to. A later call for the same
// (from, event) pair replaces the earlier target.
func (b *Builder[R]) AddTransition(from, event, to string) *Builder[R] {
	b.transitions.Set(from, event, to)

	return b
}

// AddTransitions records each edge as AddTransition would.
func (b *Builder[R]) AddTransitions(transitions ...Transition) *Builder[R] {
	for _, t := range transitions {
		b.transitions.Set(t.From, t.Event, t.To)
	}

	return b
}

// WithInitialState sets the state a built machine starts in.
func (b *Builder[R]) WithInitialState(name string) *Builder[R] {
	b.initial = name

	return b
}

// WithOptions appends machine options.
func (b *Builder[R]) WithOptions(opts ...Option) *Builder[R] {
	b.opts = append(b.opts, opts...)

	return b
}

// Build validates the accumulated topology and returns a new machine. Each
// call returns an independent machine; states are shared by reference.
func (b *Builder[R]) Build() (*Machine[R], error) {
	return NewMachine(slices.Clone(b.states), b.transitions, b.initial, slices.Clone(b.opts)...)
}
