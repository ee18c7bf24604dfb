package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jonwraymond/ragteam/cache"
	"github.com/jonwraymond/ragteam/observe"
	"github.com/jonwraymond/ragteam/resilience"
)

// Provider is a search tool that can be offered to a model.
//
// Contract:
//   - Invoke never returns an error; failures become a single error Result.
//   - Invoke never returns nil; an empty search yields an empty slice.
//   - Implementations are safe for concurrent use.
type Provider interface {
	// Name is the function name advertised to the model.
	Name() string
	// Description tells the model when to use the tool.
	Description() string
	// Parameters is the JSON schema of the tool arguments.
	Parameters() map[string]any
	// Invoke decodes raw JSON arguments and runs the search.
	Invoke(ctx context.Context, args json.RawMessage) []Result
}

// fetcher is the fetch-and-cache core shared by every provider.
type fetcher struct {
	tool  string
	label string
	opts  options

	cache *cache.Middleware[Result]
	exec  *resilience.Executor
}

func newFetcher(tool, label string, store *cache.Store[Result], o options, limiter *resilience.RateLimiter) *fetcher {
	execOpts := []resilience.ExecutorOption{resilience.WithTimeout(o.timeout)}
	if limiter != nil {
		execOpts = append(execOpts, resilience.WithRateLimiter(limiter))
	}
	if o.maxConcurrent > 0 {
		execOpts = append(execOpts, resilience.WithBulkhead(resilience.NewBulkhead(resilience.BulkheadConfig{
			MaxConcurrent: o.maxConcurrent,
		})))
	}

	mw := cache.NewMiddleware(store, o.policy)
	if o.obs != nil {
		obs := o.obs
		mw.OnLookup(func(ctx context.Context, tool string, status cache.Status, err error) {
			obs.CacheLookup(ctx, tool, status.String(), err)
		})
	}

	return &fetcher{
		tool:  tool,
		label: label,
		opts:  o,
		cache: mw,
		exec:  resilience.NewExecutor(execOpts...),
	}
}

// run serves params from the cache or calls fetch, converting any failure
// into a single error result.
func (f *fetcher) run(ctx context.Context, params any, fetch cache.FetchFunc[Result]) []Result {
	meta := observe.CallMeta{Kind: observe.KindSearch, Name: f.tool}
	results, err := f.cache.Execute(ctx, f.tool, params, func(ctx context.Context) ([]Result, error) {
		return observe.Call(ctx, f.opts.obs, meta, func(ctx context.Context) ([]Result, error) {
			return resilience.Do(ctx, f.exec, fetch)
		})
	})
	if err != nil {
		return []Result{ErrorResult(f.label, err)}
	}
	if results == nil {
		results = []Result{}
	}
	return results
}

// fail returns the single error result for err.
func (f *fetcher) fail(err error) []Result {
	return []Result{ErrorResult(f.label, err)}
}

// do sends req and returns the body of a 2xx response.
func (f *fetcher) do(req *http.Request, defaultUA string) ([]byte, error) {
	ua := f.opts.userAgent
	if ua == "" {
		ua = defaultUA
	}
	req.Header.Set("User-Agent", ua)

	resp, err := f.opts.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrUpstreamStatus, resp.Status)
	}
	return body, nil
}

// getJSON issues a GET to rawURL and decodes the JSON body into out.
func (f *fetcher) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	body, err := f.do(req, DefaultUserAgent)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

// decodeArgs unmarshals tool arguments into dst.
func decodeArgs(args json.RawMessage, dst any) error {
	if len(strings.TrimSpace(string(args))) == 0 {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	return nil
}

// clampResults applies the default and upper bound to a requested count.
func clampResults(n int) int {
	switch {
	case n <= 0:
		return DefaultMaxResults
	case n > MaxResultsLimit:
		return MaxResultsLimit
	default:
		return n
	}
}

const (
	// DefaultMaxResults is used when a caller asks for zero or fewer results.
	DefaultMaxResults = 5

	// MaxResultsLimit is the largest result count sent upstream.
	MaxResultsLimit = 50
)
