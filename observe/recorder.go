package observe

import (
	"context"
	"log/slog"
	"time"

	"github.com/amp-labs/stateshaft/logger"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Kind names a machine flavour in spans, metrics and logs.
type Kind string

const (
	KindStateHandler  Kind = "statehandler"
	KindEventDispatch Kind = "eventdispatch"
)

// Recorder emits spans, metrics and optional log records for one machine instance.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	kind   Kind
	id     string
	label  string
	logger *slog.Logger
}

// NewRecorder creates a recorder for the machine identified by id.
// A nil logger disables logging; spans and metrics are always recorded.
func NewRecorder(kind Kind, id string, log *slog.Logger) *Recorder {
	return &Recorder{
		kind:   kind,
		id:     id,
		label:  MachineLabel(id),
		logger: log,
	}
}

// Dispatch tracks a single handler invocation. Obtain one with Recorder.Begin
// and call Done exactly once.
type Dispatch struct {
	recorder *Recorder
	ctx      context.Context //nolint:containedctx
	span     trace.Span
	state    string
	event    string
	started  time.Time
}

// Begin starts a span named "<kind>.<op>" for a dispatch in state (and, for
// event machines, event). The returned context carries the span and should
// be handed to the handler.
func (r *Recorder) Begin(ctx context.Context, op, state, event string) (context.Context, *Dispatch) {
	if r == nil {
		if ctx == nil {
			ctx = context.Background()
		}

		return ctx, nil
	}

	attrs := []attribute.KeyValue{AttrState.String(state)}
	if event != "" {
		attrs = append(attrs, AttrEvent.String(event))
	}

	ctx, span := startSpan(ctx, r.kind, r.id, op, attrs...)

	return ctx, &Dispatch{
		recorder: r,
		ctx:      ctx,
		span:     span,
		state:    state,
		event:    event,
		started:  time.Now(),
	}
}

// Done ends the span, records metrics and logs the outcome.
func (d *Dispatch) Done(err error) {
	if d == nil {
		return
	}

	r := d.recorder
	elapsed := time.Since(d.started)
	result := outcome(err)

	endSpan(d.span, err)

	dispatchTotal.WithLabelValues(string(r.kind), sanitizeState(d.state), result).Inc()
	dispatchDuration.WithLabelValues(string(r.kind), result).Observe(elapsed.Seconds())

	if r.logger == nil {
		return
	}

	fields := []any{
		"kind", r.kind,
		"machine_id", r.id,
		"state", d.state,
		"duration_ms", elapsed.Milliseconds(),
		"outcome", result,
	}

	if d.event != "" {
		fields = append(fields, "event", d.event)
	}

	log := logger.From(r.logger, d.ctx)
	if err != nil {
		log.WarnContext(d.ctx, "Dispatch failed", append(fields, "error", err)...)
	} else {
		log.DebugContext(d.ctx, "Dispatch completed", fields...)
	}
}

// StateChanged records a change of the current state. hadPrevious is false
// when the machine had no current state before.
func (r *Recorder) StateChanged(ctx context.Context, from string, hadPrevious bool, to string) {
	if r == nil {
		return
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if !hadPrevious {
		from = ""
	}

	stateChangesTotal.WithLabelValues(string(r.kind), r.label).Inc()
	addStateChangeEvent(ctx, from, to)

	if r.logger == nil {
		return
	}

	logger.From(r.logger, ctx).DebugContext(ctx, "State changed",
		"kind", r.kind,
		"machine_id", r.id,
		"from", from,
		"to", to,
	)
}

// Rejected logs an operation refused before any handler ran, such as
// setting an unknown state.
func (r *Recorder) Rejected(ctx context.Context, op string, err error) {
	if r == nil || r.logger == nil {
		return
	}

	if ctx == nil {
		ctx = context.Background()
	}

	logger.From(r.logger, ctx).WarnContext(ctx, "Operation rejected",
		"kind", r.kind,
		"machine_id", r.id,
		"op", op,
		"error", err,
	)
}
