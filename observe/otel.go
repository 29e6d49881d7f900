package observe

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "stateshaft"

// Span attribute keys.
const (
	AttrKind    = attribute.Key("stateshaft.kind")
	AttrMachine = attribute.Key("stateshaft.machine_id")
	AttrState   = attribute.Key("stateshaft.state")
	AttrEvent   = attribute.Key("stateshaft.event")
)

// startSpan starts "<kind>.<op>". The caller ends the span.
//
//nolint:spancheck // Span lifecycle managed by caller
func startSpan(ctx context.Context, kind Kind, machineID, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, string(kind)+"."+op)
	span.SetAttributes(
		AttrKind.String(string(kind)),
		AttrMachine.String(machineID),
	)
	span.SetAttributes(attrs...)

	return ctx, span
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "completed")
	}

	span.End()
}

// addStateChangeEvent annotates the span active in ctx, if any, with a
// state change. Changes made from inside a handler land on its dispatch span.
func addStateChangeEvent(ctx context.Context, from, to string) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.AddEvent("state_changed", trace.WithAttributes(
		attribute.String("from", from),
		attribute.String("to", to),
	))
}
