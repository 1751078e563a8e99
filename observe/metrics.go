package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jonwraymond/connectops/fault"
)

// Metrics records execution metrics for connector operations.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordExecution records one logical operation with its total duration,
	// the number of physical attempts it took, and the final error.
	RecordExecution(ctx context.Context, meta OpMeta, duration time.Duration, attempts int, err error)

	// RecordReplayHit records a request served from the replay store.
	RecordReplayHit(ctx context.Context, meta OpMeta)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter        metric.Meter
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	attemptCount metric.Int64Counter
	retryCount   metric.Int64Counter
	replayHits   metric.Int64Counter
	durationHist metric.Float64Histogram
}

// NewMetrics creates a Metrics instance backed by the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	totalCount, err := meter.Int64Counter(
		"op.exec.total",
		metric.WithDescription("Total number of logical operation executions"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"op.exec.errors",
		metric.WithDescription("Total number of operations that ended in error"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	attemptCount, err := meter.Int64Counter(
		"op.exec.attempts",
		metric.WithDescription("Total number of physical attempts across all operations"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	retryCount, err := meter.Int64Counter(
		"op.exec.retries",
		metric.WithDescription("Total number of attempts beyond the first"),
		metric.WithUnit("{retry}"),
	)
	if err != nil {
		return nil, err
	}

	replayHits, err := meter.Int64Counter(
		"op.replay.hits",
		metric.WithDescription("Total number of requests served from the replay store"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"op.exec.duration_ms",
		metric.WithDescription("Logical operation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:        meter,
		totalCount:   totalCount,
		errorCount:   errorCount,
		attemptCount: attemptCount,
		retryCount:   retryCount,
		replayHits:   replayHits,
		durationHist: durationHist,
	}, nil
}

// RecordExecution records metrics for one logical operation.
func (m *metricsImpl) RecordExecution(ctx context.Context, meta OpMeta, duration time.Duration, attempts int, err error) {
	attrs := opAttributes(meta)
	opt := metric.WithAttributes(attrs...)

	m.totalCount.Add(ctx, 1, opt)

	// Zero attempts means the response was replayed without any network
	// call; the attempt counter stays untouched.
	if attempts > 0 {
		m.attemptCount.Add(ctx, int64(attempts), opt)
	}
	if attempts > 1 {
		m.retryCount.Add(ctx, int64(attempts-1), opt)
	}

	if err != nil {
		errAttrs := append(attrs, attribute.String("fault.kind", fault.KindOf(err).String()))
		m.errorCount.Add(ctx, 1, metric.WithAttributes(errAttrs...))
	}

	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

// RecordReplayHit records a request answered from the replay store.
func (m *metricsImpl) RecordReplayHit(ctx context.Context, meta OpMeta) {
	m.replayHits.Add(ctx, 1, metric.WithAttributes(opAttributes(meta)...))
}

// opAttributes builds the common metric attributes for an operation.
func opAttributes(meta OpMeta) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("op.id", meta.OpID()),
		attribute.String("op.name", meta.Name),
	}
	if meta.Connector != "" {
		attrs = append(attrs, attribute.String("op.connector", meta.Connector))
	}
	return attrs
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (m *noopMetrics) RecordExecution(ctx context.Context, meta OpMeta, duration time.Duration, attempts int, err error) {
}

func (m *noopMetrics) RecordReplayHit(ctx context.Context, meta OpMeta) {
}
