package observe

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, tel *testTelemetry) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := tel.reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}
	return rm
}

func TestMetrics_RecordCall(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantErrors int64
	}{
		{"success", nil, 0},
		{"failure", errors.New("boom"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tel := newTestTelemetry()
			meta := CallMeta{Kind: KindSearch, Name: "openalex"}
			tel.metrics.RecordCall(context.Background(), meta, 120*time.Millisecond, tt.err)

			rm := collect(t, tel)
			if got := sumValue(findMetric(rm, MetricCallTotal)); got != 1 {
				t.Errorf("%s = %d, want 1", MetricCallTotal, got)
			}
			if got := sumValue(findMetric(rm, MetricCallErrors)); got != tt.wantErrors {
				t.Errorf("%s = %d, want %d", MetricCallErrors, got, tt.wantErrors)
			}

			hist := findMetric(rm, MetricCallDuration)
			if hist == nil {
				t.Fatalf("%s not found", MetricCallDuration)
			}
			h, ok := hist.Data.(metricdata.Histogram[float64])
			if !ok || len(h.DataPoints) != 1 {
				t.Fatalf("unexpected histogram data %T", hist.Data)
			}
			if h.DataPoints[0].Sum != 120 {
				t.Errorf("duration sum = %v, want 120", h.DataPoints[0].Sum)
			}
		})
	}
}

func TestMetrics_CallAttributes(t *testing.T) {
	tel := newTestTelemetry()
	tel.metrics.RecordCall(context.Background(), CallMeta{Kind: KindStage, Name: "appraisal"}, time.Millisecond, nil)

	rm := collect(t, tel)
	sum := findMetric(rm, MetricCallTotal).Data.(metricdata.Sum[int64])
	attrs := sum.DataPoints[0].Attributes
	if v, ok := attrs.Value(attribute.Key("call.kind")); !ok || v.AsString() != "stage" {
		t.Errorf("call.kind = %v", v)
	}
	if v, ok := attrs.Value(attribute.Key("call.name")); !ok || v.AsString() != "appraisal" {
		t.Errorf("call.name = %v", v)
	}
}

func TestMetrics_CacheLookups(t *testing.T) {
	tel := newTestTelemetry()
	ctx := context.Background()
	tel.metrics.RecordCacheLookup(ctx, "crossref", "miss")
	tel.metrics.RecordCacheLookup(ctx, "crossref", "hit")
	tel.metrics.RecordCacheLookup(ctx, "crossref", "hit")

	rm := collect(t, tel)
	m := findMetric(rm, MetricCacheLookups)
	if got := sumValue(m); got != 3 {
		t.Fatalf("%s = %d, want 3", MetricCacheLookups, got)
	}

	hits := int64(0)
	for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
		if v, _ := dp.Attributes.Value("status"); v.AsString() == "hit" {
			hits = dp.Value
		}
	}
	if hits != 2 {
		t.Errorf("hit lookups = %d, want 2", hits)
	}
}

func TestMetrics_Concurrent(t *testing.T) {
	tel := newTestTelemetry()
	meta := CallMeta{Kind: KindSearch, Name: "web_search"}

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tel.metrics.RecordCall(context.Background(), meta, time.Millisecond, nil)
		}()
	}
	wg.Wait()

	if got := sumValue(findMetric(collect(t, tel), MetricCallTotal)); got != 25 {
		t.Errorf("total = %d, want 25", got)
	}
}

func TestNoopMetrics_NoPanic(t *testing.T) {
	var m Metrics = noopMetrics{}
	m.RecordCall(context.Background(), CallMeta{Kind: KindAgent, Name: "noop"}, time.Millisecond, nil)
	m.RecordCacheLookup(context.Background(), "noop", "miss")
}
