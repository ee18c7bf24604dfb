package search

import (
	"net/http"
	"time"

	"github.com/jonwraymond/ragteam/cache"
	"github.com/jonwraymond/ragteam/observe"
	"github.com/jonwraymond/ragteam/resilience"
)

const (
	// DefaultTimeout bounds a single upstream request.
	DefaultTimeout = 10 * time.Second

	// DefaultUserAgent identifies API requests to OpenAlex and CrossRef.
	DefaultUserAgent = "ragteam/1.0"

	// maxBodyBytes caps how much of an upstream response is read.
	maxBodyBytes = 8 << 20
)

// Option configures a provider.
type Option func(*options)

type options struct {
	client        *http.Client
	endpoint      string
	timeout       time.Duration
	userAgent     string
	mailto        string
	policy        cache.Policy
	obs           *observe.Middleware
	limiter       *resilience.RateLimiter
	maxConcurrent int
}

func newOptions(endpoint string, opts []Option) options {
	o := options{
		client:   http.DefaultClient,
		endpoint: endpoint,
		timeout:  DefaultTimeout,
		policy:   cache.DefaultPolicy(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.timeout <= 0 {
		o.timeout = DefaultTimeout
	}
	return o
}

// WithHTTPClient sets the HTTP client used for upstream requests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c != nil {
			o.client = c
		}
	}
}

// WithEndpoint overrides the upstream base URL. Empty values are ignored.
func WithEndpoint(endpoint string) Option {
	return func(o *options) {
		if endpoint != "" {
			o.endpoint = endpoint
		}
	}
}

// WithTimeout bounds each upstream request.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.userAgent = ua
	}
}

// WithMailto sets the contact address sent to OpenAlex for its polite pool.
// Other providers ignore it.
func WithMailto(email string) Option {
	return func(o *options) {
		o.mailto = email
	}
}

// WithPolicy sets the cache policy.
func WithPolicy(p cache.Policy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithObserver attaches telemetry to upstream calls and cache lookups.
func WithObserver(m *observe.Middleware) Option {
	return func(o *options) {
		o.obs = m
	}
}

// WithRateLimiter replaces the limiter of the web provider. Other providers
// are not rate limited.
func WithRateLimiter(rl *resilience.RateLimiter) Option {
	return func(o *options) {
		o.limiter = rl
	}
}

// WithMaxConcurrent caps the number of in-flight upstream requests per
// provider. Zero means unlimited.
func WithMaxConcurrent(n int) Option {
	return func(o *options) {
		o.maxConcurrent = n
	}
}
