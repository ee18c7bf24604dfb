package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jonwraymond/ragteam/agent"
	"github.com/jonwraymond/ragteam/cache"
	"github.com/jonwraymond/ragteam/config"
	"github.com/jonwraymond/ragteam/observe"
	"github.com/jonwraymond/ragteam/pipeline"
	"github.com/jonwraymond/ragteam/resilience"
	"github.com/jonwraymond/ragteam/search"
	"github.com/jonwraymond/ragteam/secret"
)

// loadConfig reads .env, then the configuration file at path.
func loadConfig(path string) (*config.Config, error) {
	if err := secret.LoadDotenv(secret.DefaultDotenvPath); err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if p := cfg.Secrets.DotenvPath; p != "" && p != secret.DefaultDotenvPath {
		if err := secret.LoadDotenv(p); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// openCache returns the configured cache backend.
func openCache(cfg *config.Config) cache.Cache {
	if cfg.Cache.Backend == config.BackendMemory {
		return cache.NewMemoryCache()
	}
	return cache.NewFileCache(cfg.Cache.Dir)
}

// app holds the components of one research run.
type app struct {
	obs      observe.Observer
	mw       *observe.Middleware
	searches *search.Set
	pipeline *pipeline.Runner
}

func newApp(ctx context.Context, cfg *config.Config, stdout io.Writer, verbose bool) (*app, error) {
	obs, err := observe.NewObserver(ctx, cfg.Observe())
	if err != nil {
		return nil, err
	}
	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		_ = obs.Shutdown(ctx)
		return nil, err
	}

	a := &app{obs: obs, mw: mw}
	if err := a.wire(cfg, stdout, verbose); err != nil {
		_ = obs.Shutdown(ctx)
		return nil, err
	}
	return a, nil
}

func (a *app) wire(cfg *config.Config, stdout io.Writer, verbose bool) error {
	store, err := cache.NewStore[search.Result](openCache(cfg), cache.NewDefaultKeyer())
	if err != nil {
		return err
	}

	opts := []search.Option{
		search.WithTimeout(cfg.Search.Timeout),
		search.WithMailto(cfg.Search.Mailto),
		search.WithPolicy(cache.Policy{Enabled: cfg.Cache.Enabled, CacheEmpty: cfg.Cache.CacheEmpty}),
		search.WithObserver(a.mw),
		search.WithMaxConcurrent(cfg.Search.MaxConcurrent),
		search.WithRateLimiter(resilience.NewRateLimiter(resilience.RateLimiterConfig{
			Rate:        cfg.Search.WebRate,
			Burst:       1,
			WaitOnLimit: true,
		})),
	}
	if cfg.Search.UserAgent != "" {
		opts = append(opts, search.WithUserAgent(cfg.Search.UserAgent))
	}
	a.searches = search.NewSet(store, search.Endpoints{
		Web:      cfg.Search.Endpoints.Web,
		OpenAlex: cfg.Search.Endpoints.OpenAlex,
		CrossRef: cfg.Search.Endpoints.CrossRef,
	}, opts...)

	runner, err := agent.NewOpenAIRunner(agent.OpenAIConfig{
		APIKey:           cfg.OpenAI.APIKey,
		BaseURL:          cfg.OpenAI.BaseURL,
		Model:            cfg.OpenAI.Model,
		MaxTurns:         cfg.OpenAI.MaxTurns,
		RequestTimeout:   cfg.OpenAI.RequestTimeout,
		MaxParallelTools: cfg.OpenAI.MaxParallelTools,
	}, a.mw)
	if err != nil {
		return err
	}

	tools := agent.SearchTools(a.searches.All()...)
	a.pipeline, err = pipeline.New(runner, pipeline.DefaultAgents(tools...),
		pipeline.WithConsole(pipeline.NewTerminalConsole(stdout, verbose, cfg.Output.WrapWidth)),
		pipeline.WithObserver(a.mw),
	)
	return err
}

func (a *app) Close(ctx context.Context) error {
	if err := a.obs.Shutdown(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("telemetry shutdown: %w", err)
	}
	return nil
}
