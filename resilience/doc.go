// Package resilience bounds the calls a research run makes to external search
// services.
//
// # Patterns
//
//   - Timeout: every upstream request gets a deadline; expiry surfaces as
//     ErrTimeout so callers can report it.
//
//   - Rate Limiter: a token bucket that spaces requests to services that
//     throttle aggressively (the web search endpoint allows about one request
//     per second).
//
//   - Bulkhead: caps how many requests one provider has in flight when a model
//     turn asks for several searches at once.
//
// Failed calls are not retried. A failed search is reported to the model as
// a result and the run moves on.
//
// # Usage
//
//	exec := resilience.NewExecutor(
//	    resilience.WithRateLimiter(resilience.NewRateLimiter(resilience.RateLimiterConfig{
//	        Rate: 1, Burst: 1, WaitOnLimit: true,
//	    })),
//	    resilience.WithBulkhead(resilience.NewBulkhead(resilience.BulkheadConfig{MaxConcurrent: 2})),
//	    resilience.WithTimeout(10*time.Second),
//	)
//
//	body, err := resilience.Do(ctx, exec, func(ctx context.Context) ([]byte, error) {
//	    return fetch(ctx, url)
//	})
package resilience
