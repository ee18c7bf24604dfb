package observe

import (
	"context"
	"time"
)

// CallFunc is the unit of work wrapped by Middleware.
type CallFunc func(ctx context.Context) error

// Middleware wraps calls with observability (tracing, metrics, logging).
//
// Contract:
//   - Concurrency: all methods are safe for concurrent use.
//   - Context: the span started for a call is propagated to fn.
//   - Errors: errors from fn are recorded and returned unchanged.
//   - Nil: a nil *Middleware runs fn without any telemetry.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware with the given observability components.
// Nil components are replaced with no-ops.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	if tracer == nil {
		tracer = newNoopTracer()
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// NopMiddleware returns a Middleware that records nothing.
func NopMiddleware() *Middleware {
	return NewMiddleware(nil, nil, nil)
}

// MiddlewareFromObserver creates a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}
	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}
	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}

// Logger returns the logger used by the middleware.
func (m *Middleware) Logger() Logger {
	if m == nil {
		return noopLogger{}
	}
	return m.logger
}

// Observe runs fn inside a span, then records metrics and logs the outcome.
func (m *Middleware) Observe(ctx context.Context, meta CallMeta, fn CallFunc) error {
	if m == nil {
		return fn(ctx)
	}

	ctx, span := m.tracer.StartSpan(ctx, meta)
	start := time.Now()

	err := fn(ctx)

	duration := time.Since(start)
	m.tracer.EndSpan(span, err)
	m.metrics.RecordCall(ctx, meta, duration, err)

	log := m.logger.WithCall(meta)
	fields := []Field{
		{Key: "duration_ms", Value: float64(duration.Microseconds()) / 1000},
	}
	if err != nil {
		fields = append(fields, Field{Key: "error", Value: err.Error()})
		log.Error(ctx, "call failed", fields...)
	} else {
		log.Debug(ctx, "call completed", fields...)
	}

	return err
}

// CacheLookup records the outcome of a cache lookup for tool. A non-nil err
// explains a miss or corrupt status and is logged at debug level only.
func (m *Middleware) CacheLookup(ctx context.Context, tool string, status string, err error) {
	if m == nil {
		return
	}
	m.metrics.RecordCacheLookup(ctx, tool, status)

	fields := []Field{
		{Key: "tool", Value: tool},
		{Key: "status", Value: status},
	}
	if err != nil {
		fields = append(fields, Field{Key: "error", Value: err.Error()})
	}
	m.logger.Debug(ctx, "cache lookup", fields...)
}

// Call is the value-returning form of Middleware.Observe.
func Call[T any](ctx context.Context, m *Middleware, meta CallMeta, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := m.Observe(ctx, meta, func(ctx context.Context) error {
		var err error
		out, err = fn(ctx)
		return err
	})
	return out, err
}
