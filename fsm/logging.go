package fsm

import (
	"context"
	"log/slog"
	"time"

	"github.com/amp-labs/amp-fsm/logger"
)

// Outcome classifies a dispatch for logs and metrics.
type Outcome string

const (
	OutcomeHandled   Outcome = "handled"
	OutcomeUnhandled Outcome = "unhandled"
	OutcomeError     Outcome = "error"
	OutcomeCanceled  Outcome = "canceled"
)

// Logger provides logging hooks for machine activity.
type Logger interface {
	EventDispatched(ctx context.Context, machine, state string, event Event, outcome Outcome,
		duration time.Duration, err error)
	TransitionExecuted(ctx context.Context, machine string, transition Transition, event Event)
	StateAssigned(ctx context.Context, machine, from, to string, err error)
}

// DefaultLogger implements Logger using slog.
type DefaultLogger struct {
	base *slog.Logger
}

// NewDefaultLogger logs through logger.Get(ctx), so context values added with
// logger.With show up on every line.
func NewDefaultLogger() *DefaultLogger {
	return &DefaultLogger{}
}

// NewSlogLogger logs through l instead of the process default.
func NewSlogLogger(l *slog.Logger) *DefaultLogger {
	return &DefaultLogger{base: l}
}

func (l *DefaultLogger) get(ctx context.Context) *slog.Logger {
	if l.base != nil {
		return l.base
	}

	return logger.Get(ctx)
}

func withTrace(ctx context.Context, fields []any) []any {
	traceID, spanID := extractTraceContext(ctx)
	if traceID == "" {
		return fields
	}

	return append(fields, "trace_id", traceID, "span_id", spanID)
}

func (l *DefaultLogger) EventDispatched(
	ctx context.Context, machine, state string, event Event, outcome Outcome, duration time.Duration, err error,
) {
	fields := withTrace(ctx, []any{
		"machine", machine,
		"state", state,
		"event", event.Name(),
		"event_id", event.ID().String(),
		"outcome", string(outcome),
		"duration_ms", duration.Milliseconds(),
	})

	switch outcome {
	case OutcomeError, OutcomeCanceled:
		l.get(ctx).ErrorContext(ctx, "Event dispatch failed", append(fields, "error", err)...)
	case OutcomeUnhandled:
		l.get(ctx).DebugContext(ctx, "Event not handled by state", fields...)
	default:
		l.get(ctx).InfoContext(ctx, "Event handled", fields...)
	}
}

func (l *DefaultLogger) TransitionExecuted(ctx context.Context, machine string, transition Transition, event Event) {
	l.get(ctx).InfoContext(ctx, "Transition executed", withTrace(ctx, []any{
		"machine", machine,
		"from", transition.From,
		"to", transition.To,
		"event", transition.Event,
		"event_id", event.ID().String(),
	})...)
}

func (l *DefaultLogger) StateAssigned(ctx context.Context, machine, from, to string, err error) {
	fields := []any{
		"machine", machine,
		"from", from,
		"to", to,
	}

	if err != nil {
		l.get(ctx).WarnContext(ctx, "State assignment rejected", append(fields, "error", err)...)

		return
	}

	l.get(ctx).InfoContext(ctx, "State assigned", fields...)
}
