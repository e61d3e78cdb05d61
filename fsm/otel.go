package fsm

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/amp-labs/amp-fsm/fsm"

// startHandleSpan creates the span covering one dispatch.
// The caller is responsible for calling span.End().
//
//nolint:spancheck // Span lifecycle managed by caller
func startHandleSpan(ctx context.Context, machine, state, next string, event Event) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "fsm.handle", trace.WithAttributes(
		attribute.String("fsm.machine", machine),
		attribute.String("fsm.state", state),
		attribute.String("fsm.next_state", next),
		attribute.String("fsm.event", event.Name()),
		attribute.String("fsm.event_id", event.ID().String()),
	))
}

// startPersistenceSpan creates the span covering a save or reload.
// The caller is responsible for calling span.End().
//
//nolint:spancheck // Span lifecycle managed by caller
func startPersistenceSpan(ctx context.Context, operation, machine, id string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "fsm."+operation, trace.WithAttributes(
		attribute.String("fsm.machine", machine),
		attribute.String("fsm.sink_id", id),
	))
}

func finishSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	span.End()
}

// extractTraceContext returns the trace and span IDs carried by ctx, if any.
func extractTraceContext(ctx context.Context) (traceID, spanID string) {
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return "", ""
	}

	return spanCtx.TraceID().String(), spanCtx.SpanID().String()
}
