package fsm

import (
	"context"
	"maps"
	"slices"

	"github.com/amp-labs/amp-fsm/optional"
)

// HandlerState is a State backed by a fixed map of event handlers.
type HandlerState[R any] struct {
	name     string
	handlers Handlers[R]
}

// NewState creates a state named name. The handlers map is copied, so later
// changes to the caller's map do not affect the state.
func NewState[R any](name string, handlers Handlers[R]) *HandlerState[R] {
	return &HandlerState[R]{
		name:     name,
		handlers: maps.Clone(handlers),
	}
}

func (s *HandlerState[R]) Name() string {
	return s.name
}

// Handles reports whether a handler is registered for eventName.
func (s *HandlerState[R]) Handles(eventName string) bool {
	_, ok := s.handlers[eventName]

	return ok
}

// Events returns the handled event names, sorted.
func (s *HandlerState[R]) Events() []string {
	return slices.Sorted(maps.Keys(s.handlers))
}

func (s *HandlerState[R]) Handle(ctx context.Context, event Event) (optional.Value[R], error) {
	handler, ok := s.handlers[event.Name()]
	if !ok || handler == nil {
		return optional.None[R](), nil
	}

	result, err := handler(ctx, event)
	if err != nil {
		return optional.None[R](), err
	}

	return optional.Some(result), nil
}
