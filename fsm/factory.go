package fsm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amp-labs/amp-fsm/logger"
)

// HandlerBuilder creates a handler for state from its configuration.
type HandlerBuilder[R any] func(state string, cfg HandlerConfig) (Handler[R], error)

// HandlerFactory creates handlers from configuration. Applications register
// their own builders alongside the built-in "reply" and "log" types. A "log"
// handler's result is the zero value of R.
type HandlerFactory[R any] struct {
	builders map[string]HandlerBuilder[R]
}

// NewHandlerFactory creates a factory with the built-in builders.
func NewHandlerFactory[R any]() *HandlerFactory[R] {
	factory := &HandlerFactory[R]{
		builders: make(map[string]HandlerBuilder[R]),
	}

	factory.Register("reply", replyHandlerBuilder[R])
	factory.Register("log", logHandlerBuilder[R])

	return factory
}

// Register adds or replaces the builder for handlerType.
func (f *HandlerFactory[R]) Register(handlerType string, builder HandlerBuilder[R]) {
	f.builders[handlerType] = builder
}

// Create builds the handler described by cfg.
func (f *HandlerFactory[R]) Create(state string, cfg HandlerConfig) (Handler[R], error) {
	builder, ok := f.builders[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownHandlerType, cfg.Type)
	}

	return builder(state, cfg)
}

// replyHandlerBuilder returns parameters.message, which must already be an R.
func replyHandlerBuilder[R any](_ string, cfg HandlerConfig) (Handler[R], error) {
	raw, ok := cfg.Parameters["message"]
	if !ok {
		return nil, ErrReplyMessageRequired
	}

	message, ok := raw.(R)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrReplyMessageType, raw)
	}

	return func(context.Context, Event) (R, error) {
		return message, nil
	}, nil
}

// logHandlerBuilder logs the event and returns the zero R. The optional
// "level" parameter accepts slog level names.
//
// A log handler still handles the event: Handle reports Some(zero R), which
// is Some("") for a Machine[string], and the dispatch counts as handled.
func logHandlerBuilder[R any](state string, cfg HandlerConfig) (Handler[R], error) {
	level := slog.LevelInfo

	if raw, ok := cfg.Parameters["level"]; ok {
		name, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("log handler level: expected string, got %T", raw) //nolint:err113
		}

		if err := level.UnmarshalText([]byte(name)); err != nil {
			return nil, fmt.Errorf("log handler level: %w", err)
		}
	}

	message, _ := cfg.Parameters["message"].(string)
	if message == "" {
		message = "Event received"
	}

	return func(ctx context.Context, event Event) (R, error) {
		var zero R

		logger.Get(ctx).Log(ctx, level, message,
			"state", state,
			"event", event.Name(),
			"event_id", event.ID().String())

		return zero, nil
	}, nil
}
