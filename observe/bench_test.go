package observe

import (
	"context"
	"io"
	"testing"
)

// BenchmarkLogger_Info measures logging throughput.
func BenchmarkLogger_Info(b *testing.B) {
	logger := NewLoggerWithWriter("info", io.Discard)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info(ctx, "benchmark message", Field{Key: "iteration", Value: i})
	}
}

// BenchmarkLogger_Filtered measures the cost of a suppressed debug line.
func BenchmarkLogger_Filtered(b *testing.B) {
	logger := NewLoggerWithWriter("warn", io.Discard)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Debug(ctx, "cache lookup", Field{Key: "status", Value: "hit"})
	}
}

// BenchmarkMiddleware_Observe measures the full wrap overhead.
func BenchmarkMiddleware_Observe(b *testing.B) {
	tel := newTestTelemetry()
	mw := NewMiddleware(tel.tracer, tel.metrics, NewLoggerWithWriter("info", io.Discard))
	meta := CallMeta{Kind: KindSearch, Name: "crossref"}
	ctx := context.Background()
	fn := func(context.Context) error { return nil }

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = mw.Observe(ctx, meta, fn)
	}
}

// BenchmarkNopMiddleware_Observe measures overhead with telemetry disabled.
func BenchmarkNopMiddleware_Observe(b *testing.B) {
	mw := NopMiddleware()
	meta := CallMeta{Kind: KindSearch, Name: "crossref"}
	ctx := context.Background()
	fn := func(context.Context) error { return nil }

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = mw.Observe(ctx, meta, fn)
	}
}
