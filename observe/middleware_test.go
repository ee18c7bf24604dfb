package observe

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

func TestMiddleware_SuccessPath(t *testing.T) {
	tel := newTestTelemetry()
	var buf bytes.Buffer
	mw := NewMiddleware(tel.tracer, tel.metrics, NewLoggerWithWriter("debug", &buf))

	meta := CallMeta{Kind: KindSearch, Name: "crossref"}
	var sawSpan bool
	err := mw.Observe(context.Background(), meta, func(ctx context.Context) error {
		sawSpan = trace.SpanContextFromContext(ctx).IsValid()
		return nil
	})
	if err != nil {
		t.Fatalf("Observe() error = %v", err)
	}
	if !sawSpan {
		t.Error("wrapped function did not receive the span context")
	}

	spans := tel.spans.Ended()
	if len(spans) != 1 || spans[0].Name() != "ragteam.search.crossref" {
		t.Fatalf("unexpected spans: %v", spans)
	}

	if got := sumValue(findMetric(collect(t, tel), MetricCallTotal)); got != 1 {
		t.Errorf("total = %d, want 1", got)
	}

	e := decodeLines(t, &buf)
	if len(e) != 1 || e[0]["msg"] != "call completed" {
		t.Errorf("unexpected log: %v", e)
	}
	if _, ok := e[0]["duration_ms"].(float64); !ok {
		t.Error("duration_ms missing")
	}
}

func TestMiddleware_ErrorPath(t *testing.T) {
	tel := newTestTelemetry()
	var buf bytes.Buffer
	mw := NewMiddleware(tel.tracer, tel.metrics, NewLoggerWithWriter("info", &buf))

	wantErr := errors.New("upstream 503")
	err := mw.Observe(context.Background(), CallMeta{Kind: KindSearch, Name: "openalex"}, func(context.Context) error {
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Observe() error = %v, want %v", err, wantErr)
	}

	if s := tel.spans.Ended()[0]; s.Status().Code != codes.Error {
		t.Errorf("span status = %v, want Error", s.Status().Code)
	}
	if got := sumValue(findMetric(collect(t, tel), MetricCallErrors)); got != 1 {
		t.Errorf("errors = %d, want 1", got)
	}

	e := decodeLines(t, &buf)
	if len(e) != 1 || e[0]["level"] != "error" || e[0]["error"] != "upstream 503" {
		t.Errorf("unexpected log: %v", e)
	}
}

func TestCall_ReturnsValue(t *testing.T) {
	tel := newTestTelemetry()
	mw := NewMiddleware(tel.tracer, tel.metrics, nil)

	got, err := Call(context.Background(), mw, CallMeta{Kind: KindAgent, Name: "Report Agent"}, func(context.Context) (string, error) {
		return "# Report", nil
	})
	if err != nil || got != "# Report" {
		t.Errorf("Call() = %q, %v", got, err)
	}
	if len(tel.spans.Ended()) != 1 {
		t.Error("expected one span")
	}
}

func TestMiddleware_Nil(t *testing.T) {
	var mw *Middleware
	got, err := Call(context.Background(), mw, CallMeta{Kind: KindStage, Name: "x"}, func(context.Context) (int, error) {
		return 7, nil
	})
	if err != nil || got != 7 {
		t.Errorf("Call() on nil middleware = %d, %v", got, err)
	}
	mw.CacheLookup(context.Background(), "web_search", "hit", nil)
	if mw.Logger() == nil {
		t.Error("nil middleware should still hand out a logger")
	}
}

func TestMiddleware_CacheLookup(t *testing.T) {
	tel := newTestTelemetry()
	var buf bytes.Buffer
	mw := NewMiddleware(tel.tracer, tel.metrics, NewLoggerWithWriter("debug", &buf))

	mw.CacheLookup(context.Background(), "crossref", "corrupt", errors.New("cache: entry is corrupt"))

	if got := sumValue(findMetric(collect(t, tel), MetricCacheLookups)); got != 1 {
		t.Errorf("lookups = %d, want 1", got)
	}
	e := decodeLines(t, &buf)
	if len(e) != 1 || e[0]["status"] != "corrupt" || e[0]["level"] != "debug" {
		t.Errorf("unexpected log: %v", e)
	}
}

func TestMiddlewareFromObserver(t *testing.T) {
	if _, err := MiddlewareFromObserver(nil); !errors.Is(err, ErrNilObserver) {
		t.Errorf("MiddlewareFromObserver(nil) error = %v", err)
	}

	obs, err := NewObserver(context.Background(), Config{ServiceName: "test"})
	if err != nil {
		t.Fatal(err)
	}
	mw, err := MiddlewareFromObserver(obs)
	if err != nil || mw == nil {
		t.Fatalf("MiddlewareFromObserver() = %v, %v", mw, err)
	}
	if err := mw.Observe(context.Background(), CallMeta{Kind: KindStage, Name: "research"}, func(context.Context) error { return nil }); err != nil {
		t.Error(err)
	}
}
