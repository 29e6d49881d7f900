package observe

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

var errHandler = errors.New("handler failed")

// setupTestTracer installs an in-memory exporter as the global tracer provider.
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

//nolint:paralleltest // Test modifies global OTEL tracer provider
func TestDispatchSpan(t *testing.T) {
	exporter := setupTestTracer(t)

	rec := NewRecorder(KindEventDispatch, "machine-1", nil)

	ctx, dispatch := rec.Begin(context.Background(), "process_event", "start", "capture")
	require.NotNil(t, dispatch)
	assert.True(t, dispatch.span.SpanContext().IsValid())
	assert.NotNil(t, ctx)

	dispatch.Done(errHandler)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	span := spans[0]
	assert.Equal(t, "eventdispatch.process_event", span.Name)
	assert.Equal(t, codes.Error, span.Status.Code)
	assert.Equal(t, errHandler.Error(), span.Status.Description)

	attrs := make(map[string]any)
	for _, attr := range span.Attributes {
		attrs[string(attr.Key)] = attr.Value.AsInterface()
	}

	assert.Equal(t, "eventdispatch", attrs[string(AttrKind)])
	assert.Equal(t, "machine-1", attrs[string(AttrMachine)])
	assert.Equal(t, "start", attrs[string(AttrState)])
	assert.Equal(t, "capture", attrs[string(AttrEvent)])
}

//nolint:paralleltest // Test modifies global OTEL tracer provider
func TestDispatchSpan_NoEventAttributeForStateHandler(t *testing.T) {
	exporter := setupTestTracer(t)

	rec := NewRecorder(KindStateHandler, "machine-2", nil)

	_, dispatch := rec.Begin(context.Background(), "run", "idle", "")
	dispatch.Done(nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "statehandler.run", spans[0].Name)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)

	for _, attr := range spans[0].Attributes {
		assert.NotEqual(t, AttrEvent, attr.Key)
	}
}

//nolint:paralleltest // Test modifies global OTEL tracer provider
func TestStateChanged_AddsSpanEvent(t *testing.T) {
	exporter := setupTestTracer(t)

	rec := NewRecorder(KindEventDispatch, "machine-3", nil)

	ctx, dispatch := rec.Begin(context.Background(), "process_event", "start", "capture")
	rec.StateChanged(ctx, "start", true, "capturing")
	dispatch.Done(nil)

	// Outside any span there is nothing to annotate.
	rec.StateChanged(context.Background(), "capturing", true, "start")

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	require.Len(t, spans[0].Events, 1)

	event := spans[0].Events[0]
	assert.Equal(t, "state_changed", event.Name)

	attrs := make(map[string]any)
	for _, attr := range event.Attributes {
		attrs[string(attr.Key)] = attr.Value.AsInterface()
	}

	assert.Equal(t, "start", attrs["from"])
	assert.Equal(t, "capturing", attrs["to"])
}

//nolint:paralleltest // Test reads global Prometheus metric state
func TestDispatchMetrics(t *testing.T) {
	rec := NewRecorder(KindStateHandler, "metrics-machine", nil)

	success := dispatchTotal.WithLabelValues(string(KindStateHandler), "metrics-state", outcomeSuccess)
	failure := dispatchTotal.WithLabelValues(string(KindStateHandler), "metrics-state", outcomeError)
	beforeSuccess := testutil.ToFloat64(success)
	beforeFailure := testutil.ToFloat64(failure)

	_, dispatch := rec.Begin(context.Background(), "run", "metrics-state", "")
	dispatch.Done(nil)

	_, dispatch = rec.Begin(context.Background(), "run", "metrics-state", "")
	dispatch.Done(errHandler)

	assert.InDelta(t, beforeSuccess+1, testutil.ToFloat64(success), 0)
	assert.InDelta(t, beforeFailure+1, testutil.ToFloat64(failure), 0)
}

//nolint:paralleltest // Test reads global Prometheus metric state
func TestStateChangedMetric(t *testing.T) {
	rec := NewRecorder(KindEventDispatch, "state-change-machine", nil)
	counter := stateChangesTotal.WithLabelValues(string(KindEventDispatch), MachineLabel("state-change-machine"))
	before := testutil.ToFloat64(counter)

	rec.StateChanged(context.Background(), "", false, "start")
	rec.StateChanged(context.Background(), "start", true, "capturing")

	assert.InDelta(t, before+2, testutil.ToFloat64(counter), 0)
}

func TestRecorderLogging(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	rec := NewRecorder(KindEventDispatch, "logged", log)

	rec.StateChanged(context.Background(), "", false, "start")
	_, dispatch := rec.Begin(context.Background(), "process_event", "start", "submit")
	dispatch.Done(errHandler)
	rec.Rejected(context.Background(), "set_state", errHandler)

	out := buf.String()
	assert.Contains(t, out, `msg="State changed"`)
	assert.Contains(t, out, "to=start")
	assert.Contains(t, out, `msg="Dispatch failed"`)
	assert.Contains(t, out, "event=submit")
	assert.Contains(t, out, `msg="Operation rejected"`)
	assert.Contains(t, out, "op=set_state")
}

func TestNilRecorder(t *testing.T) {
	t.Parallel()

	var rec *Recorder

	ctx, dispatch := rec.Begin(nil, "run", "idle", "") //nolint:staticcheck // nil context is tolerated
	assert.NotNil(t, ctx)
	assert.Nil(t, dispatch)

	assert.NotPanics(t, func() {
		dispatch.Done(errHandler)
		rec.StateChanged(context.Background(), "a", true, "b")
		rec.Rejected(context.Background(), "set_state", errHandler)
	})
}

func TestMachineLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "unknown", MachineLabel(""))
	assert.Len(t, MachineLabel("0b7c1a2e-6d7e-4c1f-9d55-3f0e2d1b9a11"), 8)
	assert.Equal(t, MachineLabel("same"), MachineLabel("same"))
	assert.NotEqual(t, MachineLabel("one"), MachineLabel("two"))
}
