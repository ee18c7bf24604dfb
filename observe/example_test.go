package observe_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonwraymond/ragteam/observe"
)

func ExampleNewObserver() {
	cfg := observe.Config{
		ServiceName: "ragteam",
		Version:     "1.0.0",
		Tracing:     observe.TracingConfig{Enabled: true, Exporter: "none", SamplePct: 1},
		Metrics:     observe.MetricsConfig{Enabled: false},
		Logging:     observe.LoggingConfig{Enabled: false},
	}

	ctx := context.Background()
	obs, err := observe.NewObserver(ctx, cfg)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	defer func() {
		_ = obs.Shutdown(ctx)
	}()

	fmt.Println("Observer created successfully")
	// Output:
	// Observer created successfully
}

func ExampleConfig_Validate() {
	cfg := observe.Config{
		ServiceName: "ragteam",
		Tracing:     observe.TracingConfig{Enabled: true, Exporter: "stdout", SamplePct: 2},
	}

	err := cfg.Validate()
	fmt.Println(errors.Is(err, observe.ErrInvalidSamplePct))
	// Output:
	// true
}

func ExampleCall() {
	mw := observe.NopMiddleware()
	meta := observe.CallMeta{Kind: observe.KindStage, Name: "research"}

	out, err := observe.Call(context.Background(), mw, meta, func(ctx context.Context) (string, error) {
		return "findings", nil
	})
	fmt.Println(out, err)
	// Output:
	// findings <nil>
}

func ExampleCallMeta_SpanName() {
	meta := observe.CallMeta{Kind: observe.KindSearch, Name: "openalex"}
	fmt.Println(meta.SpanName())
	// Output:
	// ragteam.search.openalex
}
