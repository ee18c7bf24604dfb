package main

import (
	"context"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/ragteam/config"
	"github.com/jonwraymond/ragteam/health"
	"github.com/jonwraymond/ragteam/search"
)

type checkOptions struct {
	json    bool
	offline bool
	timeout time.Duration
}

func newCheckCmd(configPath *string) *cobra.Command {
	var o checkOptions

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check the cache, credentials and search endpoints",
		Long: `check runs pre-flight checks and exits non-zero when any check is
unhealthy. Endpoints answering with a 4xx status are reported as degraded.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			return runCheck(cmd, cfg, o)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&o.json, "json", false, "print the report as JSON")
	f.BoolVar(&o.offline, "offline", false, "skip the upstream endpoint checks")
	f.DurationVar(&o.timeout, "timeout", health.DefaultTimeout, "time allowed for all checks")
	return cmd
}

func runCheck(cmd *cobra.Command, cfg *config.Config, o checkOptions) error {
	ctx := cmd.Context()
	agg, err := checks(cfg, o)
	if err != nil {
		return err
	}

	report := health.NewReport(agg, agg.CheckAll(ctx))
	out := cmd.OutOrStdout()
	if o.json {
		err = report.WriteJSON(out)
	} else {
		err = report.WriteText(out)
	}
	if err != nil {
		return err
	}
	if !report.Healthy() {
		return health.ErrCheckFailed
	}
	return nil
}

// checks registers one checker per dependency of a research run.
func checks(cfg *config.Config, o checkOptions) (*health.Aggregator, error) {
	agg := health.NewAggregator(health.AggregatorConfig{Timeout: o.timeout})

	if cfg.Cache.Backend == config.BackendMemory {
		agg.Register("cache", health.NewCheckerFunc("cache", func(context.Context) health.Result {
			return health.Healthy("in-memory cache")
		}))
	} else {
		agg.Register("cache", health.NewCacheDirChecker(cfg.Cache.Dir))
	}

	resolver, err := cfg.Resolver()
	if err != nil {
		return nil, err
	}
	apiKey := cfg.OpenAI.APIKey
	agg.Register("openai", health.NewCredentialsChecker("openai", func(ctx context.Context) (string, error) {
		return resolver.ResolveValue(ctx, apiKey)
	}))

	if o.offline {
		return agg, nil
	}
	client := &http.Client{Timeout: cfg.Search.Timeout}
	endpoints := []struct {
		name, endpoint, fallback, query string
	}{
		{"web_search", cfg.Search.Endpoints.Web, search.DefaultWebEndpoint, ""},
		{"openalex_search", cfg.Search.Endpoints.OpenAlex, search.DefaultOpenAlexEndpoint, "?per_page=1"},
		{"crossref_search", cfg.Search.Endpoints.CrossRef, search.DefaultCrossRefEndpoint, "?rows=0"},
	}
	for _, p := range endpoints {
		endpoint := p.endpoint
		if endpoint == "" {
			endpoint = p.fallback
		}
		agg.Register(p.name, health.NewEndpointChecker(p.name, endpoint+p.query, client))
	}
	return agg, nil
}
