package fsm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTestTracer creates a test tracer with an in-memory exporter.
func setupTestTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := trace.NewTracerProvider(
		trace.WithSyncer(exporter),
	)

	oldProvider := otel.GetTracerProvider()

	otel.SetTracerProvider(tp)

	t.Cleanup(func() {
		otel.SetTracerProvider(oldProvider)
	})

	return exporter
}

func attributeValue(attrs []attribute.KeyValue, key string) string {
	for _, attr := range attrs {
		if string(attr.Key) == key {
			return attr.Value.AsString()
		}
	}

	return ""
}

// Note: Cannot use t.Parallel() because setupTestTracer modifies global OTEL tracer provider.
//
//nolint:paralleltest // Test modifies global OTEL tracer provider
func TestHandleSpan(t *testing.T) {
	exporter := setupTestTracer(t)

	ctx := context.Background()
	m := newScenarioMachine(t, WithName("traced"))

	event := NewEvent("e1")
	_, err := m.Handle(ctx, event)
	require.NoError(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	span := spans[0]
	assert.Equal(t, "fsm.handle", span.Name)
	assert.Equal(t, codes.Ok, span.Status.Code)
	assert.Equal(t, "traced", attributeValue(span.Attributes, "fsm.machine"))
	assert.Equal(t, "S0", attributeValue(span.Attributes, "fsm.state"))
	assert.Equal(t, "S1", attributeValue(span.Attributes, "fsm.next_state"))
	assert.Equal(t, "e1", attributeValue(span.Attributes, "fsm.event"))
	assert.Equal(t, event.ID().String(), attributeValue(span.Attributes, "fsm.event_id"))
}

//nolint:paralleltest // Test modifies global OTEL tracer provider
func TestHandleSpanRecordsHandlerError(t *testing.T) {
	exporter := setupTestTracer(t)

	state := NewState("A", Handlers[string]{
		"fail": func(context.Context, Event) (string, error) { return "", errBoom },
	})

	m, err := NewMachine([]State[string]{state}, nil, "A", WithLogger(nil))
	require.NoError(t, err)

	_, err = m.Handle(context.Background(), NewEvent("fail"))
	require.Error(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.NotEmpty(t, spans[0].Events, "error should be recorded as a span event")
}

//nolint:paralleltest // Test modifies global OTEL tracer provider
func TestPersistenceSpans(t *testing.T) {
	exporter := setupTestTracer(t)

	ctx := context.Background()
	m := newScenarioMachine(t)
	sink := newMapSink()

	require.NoError(t, SaveState(ctx, m, sink, "span-id"))
	require.NoError(t, ReloadState(ctx, m, sink, "span-id"))

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "fsm.save_state", spans[0].Name)
	assert.Equal(t, "fsm.reload_state", spans[1].Name)
	assert.Equal(t, "span-id", attributeValue(spans[1].Attributes, "fsm.sink_id"))
}
