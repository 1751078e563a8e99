package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// OpMeta contains metadata about a connector operation for telemetry purposes.
type OpMeta struct {
	Name       string // Operation name, e.g. "issues.search" (required)
	Connector  string // Connector the operation belongs to, e.g. "jira" (optional)
	Target     string // Remote host or tenant the call addresses (optional)
	Idempotent bool   // Whether the operation tolerates duplicate delivery
}

// SpanName returns the deterministic span name for the logical operation.
// Format: op.exec.<connector>.<name> or op.exec.<name>
func (m OpMeta) SpanName() string {
	if m.Connector != "" {
		return "op.exec." + m.Connector + "." + m.Name
	}
	return "op.exec." + m.Name
}

// AttemptSpanName returns the span name for a single physical attempt.
// The attempt number is carried as an attribute, not in the name, to keep
// span-name cardinality flat.
func (m OpMeta) AttemptSpanName() string {
	if m.Connector != "" {
		return "op.attempt." + m.Connector + "." + m.Name
	}
	return "op.attempt." + m.Name
}

// OpID returns the fully qualified operation identifier.
func (m OpMeta) OpID() string {
	if m.Connector != "" {
		return m.Connector + "." + m.Name
	}
	return m.Name
}

// Validate checks that required metadata is present.
func (m OpMeta) Validate() error {
	if m.Name == "" {
		return ErrMissingOpName
	}
	return nil
}

// Tracer wraps OpenTelemetry tracing with operation-specific span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: StartSpan/StartAttempt derive from the given context; the attempt
//   span nests under the logical span when started from its context.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts the span covering a whole logical operation.
	StartSpan(ctx context.Context, meta OpMeta) (context.Context, trace.Span)

	// StartAttempt starts a child span covering one physical attempt.
	StartAttempt(ctx context.Context, meta OpMeta, attempt int) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer creates a Tracer wrapping the given OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with operation metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta OpMeta) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("op.id", meta.OpID()),
		attribute.String("op.name", meta.Name),
		attribute.Bool("op.idempotent", meta.Idempotent),
		attribute.Bool("op.error", false), // Updated in EndSpan if an error occurs
	}
	if meta.Connector != "" {
		attrs = append(attrs, attribute.String("op.connector", meta.Connector))
	}
	if meta.Target != "" {
		attrs = append(attrs, attribute.String("op.target", meta.Target))
	}

	ctx, span := t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)

	return ctx, span
}

// StartAttempt starts a child span for one physical attempt of the operation.
func (t *tracerImpl) StartAttempt(ctx context.Context, meta OpMeta, attempt int) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("op.id", meta.OpID()),
		attribute.Int("op.attempt", attempt),
		attribute.Bool("op.error", false),
	}

	ctx, span := t.tracer.Start(ctx, meta.AttemptSpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)

	return ctx, span
}

// EndSpan ends the span and records the error status if present.
func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("op.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// noopTracer is a tracer that does nothing.
type noopTracer struct {
	noop trace.Tracer
}

// NewNoopTracer creates a no-op tracer.
func NewNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta OpMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) StartAttempt(ctx context.Context, meta OpMeta, attempt int) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.AttemptSpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, err error) {
	span.End()
}
