package statehandler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTestTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)

	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
	})

	return exporter
}

func runSpan(t *testing.T, exporter *tracetest.InMemoryExporter) tracetest.SpanStub {
	t.Helper()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	require.Equal(t, "statehandler.run", spans[0].Name)

	return spans[0]
}

//nolint:paralleltest // Test modifies global OTEL tracer provider
func TestRun_StateChangeFromHandlerLandsOnRunSpan(t *testing.T) {
	exporter := setupTestTracer(t)

	m := NewMachine()
	m.AddState("idle", func(ctx context.Context, _ ...any) error {
		m.SetCurrentStateContext(ctx, "eating")

		return nil
	})
	m.SetCurrentState("idle")

	require.NoError(t, m.Run(t.Context()))

	current, _ := m.CurrentState()
	assert.Equal(t, "eating", current)

	span := runSpan(t, exporter)
	require.Len(t, span.Events, 1)
	assert.Equal(t, "state_changed", span.Events[0].Name)

	attrs := make(map[string]any)
	for _, attr := range span.Events[0].Attributes {
		attrs[string(attr.Key)] = attr.Value.AsInterface()
	}

	assert.Equal(t, "idle", attrs["from"])
	assert.Equal(t, "eating", attrs["to"])
}

//nolint:paralleltest // Test modifies global OTEL tracer provider
func TestRun_HandlerPanicMarksSpanFailed(t *testing.T) {
	exporter := setupTestTracer(t)

	m := NewMachine()
	m.AddState("idle", func(context.Context, ...any) error {
		panic("boom")
	})
	m.SetCurrentState("idle")

	assert.PanicsWithValue(t, "boom", func() {
		_ = m.Run(t.Context())
	})

	span := runSpan(t, exporter)
	assert.Equal(t, codes.Error, span.Status.Code)
	assert.Contains(t, span.Status.Description, ErrHandlerPanicked.Error())
	assert.Contains(t, span.Status.Description, "boom")
}

//nolint:paralleltest // Test modifies global OTEL tracer provider
func TestFire_RecordsStateChangeOnFireSpan(t *testing.T) {
	exporter := setupTestTracer(t)

	m := NewMachine()
	m.DefineTransition("rumble", "idle", "eating")
	m.SetCurrentState("idle")

	require.NoError(t, m.Fire(t.Context(), "rumble"))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "statehandler.fire", spans[0].Name)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)
	require.Len(t, spans[0].Events, 1)
	assert.Equal(t, "state_changed", spans[0].Events[0].Name)
}
