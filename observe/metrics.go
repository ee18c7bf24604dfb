package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric instrument names.
const (
	MetricCallTotal    = "ragteam.call.total"
	MetricCallErrors   = "ragteam.call.errors"
	MetricCallDuration = "ragteam.call.duration_ms"
	MetricCacheLookups = "ragteam.cache.lookups"
)

// Metrics records call and cache metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordCall records one call with its duration and error status.
	RecordCall(ctx context.Context, meta CallMeta, duration time.Duration, err error)

	// RecordCacheLookup counts one cache lookup for tool with its outcome
	// (hit, miss or corrupt).
	RecordCacheLookup(ctx context.Context, tool string, status string)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	durationHist metric.Float64Histogram
	cacheLookups metric.Int64Counter
}

// NewMetrics creates the ragteam instruments on meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	totalCount, err := meter.Int64Counter(
		MetricCallTotal,
		metric.WithDescription("Total number of observed calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		MetricCallErrors,
		metric.WithDescription("Total number of failed calls"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		MetricCallDuration,
		metric.WithDescription("Call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	cacheLookups, err := meter.Int64Counter(
		MetricCacheLookups,
		metric.WithDescription("Search cache lookups by outcome"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		totalCount:   totalCount,
		errorCount:   errorCount,
		durationHist: durationHist,
		cacheLookups: cacheLookups,
	}, nil
}

// RecordCall records metrics for a call.
func (m *metricsImpl) RecordCall(ctx context.Context, meta CallMeta, duration time.Duration, err error) {
	opt := metric.WithAttributes(
		attribute.String("call.kind", string(meta.Kind)),
		attribute.String("call.name", meta.Name),
	)

	m.totalCount.Add(ctx, 1, opt)
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Microseconds())/1000, opt)
}

// RecordCacheLookup counts a cache lookup.
func (m *metricsImpl) RecordCacheLookup(ctx context.Context, tool string, status string) {
	m.cacheLookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tool", tool),
		attribute.String("status", status),
	))
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (noopMetrics) RecordCall(context.Context, CallMeta, time.Duration, error) {}
func (noopMetrics) RecordCacheLookup(context.Context, string, string)          {}
