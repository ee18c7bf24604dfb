package health

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/jonwraymond/ragteam/cache"
)

// CacheDirChecker verifies that the search cache directory is writable.
type CacheDirChecker struct {
	dir string
}

// NewCacheDirChecker creates a checker for dir. The directory is created if
// it does not exist.
func NewCacheDirChecker(dir string) *CacheDirChecker {
	return &CacheDirChecker{dir: dir}
}

// Name returns "cache".
func (c *CacheDirChecker) Name() string { return "cache" }

// Check creates and removes a scratch file in the directory.
func (c *CacheDirChecker) Check(_ context.Context) Result {
	if c.dir == "" {
		return Unhealthy("no cache directory configured", os.ErrInvalid)
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return Unhealthy("cannot create cache directory", err).
			WithDetails(map[string]any{"dir": c.dir})
	}
	f, err := os.CreateTemp(c.dir, ".healthcheck-*")
	if err != nil {
		return Unhealthy("cache directory is not writable", err).
			WithDetails(map[string]any{"dir": c.dir})
	}
	name := f.Name()
	_ = f.Close()
	if err := os.Remove(name); err != nil {
		return Degraded("scratch file could not be removed").
			WithDetails(map[string]any{"dir": c.dir, "file": name})
	}

	entries := cache.NewFileCache(c.dir).Len()
	return Healthy(fmt.Sprintf("writable, %d entries", entries)).
		WithDetails(map[string]any{"dir": c.dir, "entries": entries})
}

// ResolveFunc returns a credential value.
type ResolveFunc func(ctx context.Context) (string, error)

// CredentialsChecker verifies that a credential resolves to a non-empty value.
type CredentialsChecker struct {
	name    string
	resolve ResolveFunc
}

// NewCredentialsChecker creates a checker named name around resolve.
func NewCredentialsChecker(name string, resolve ResolveFunc) *CredentialsChecker {
	return &CredentialsChecker{name: name, resolve: resolve}
}

// Name returns the checker name.
func (c *CredentialsChecker) Name() string { return c.name }

// Check resolves the credential. The value is reported masked.
func (c *CredentialsChecker) Check(ctx context.Context) Result {
	if c.resolve == nil {
		return Unhealthy("no credential source", os.ErrInvalid)
	}
	v, err := c.resolve(ctx)
	if err != nil {
		return Unhealthy("credential could not be resolved", err)
	}
	if strings.TrimSpace(v) == "" {
		return Unhealthy("credential is empty", errors.New("health: empty credential"))
	}
	return Healthy("credential resolved").WithDetails(map[string]any{"value": Mask(v)})
}

// Mask hides all but the last four characters of v.
func Mask(v string) string {
	const visible = 4
	if len(v) <= visible {
		return strings.Repeat("*", len(v))
	}
	return strings.Repeat("*", len(v)-visible) + v[len(v)-visible:]
}

// EndpointChecker checks an upstream HTTP endpoint with a GET request.
type EndpointChecker struct {
	name   string
	url    string
	client *http.Client
}

// NewEndpointChecker creates a checker for url. A nil client uses
// http.DefaultClient.
func NewEndpointChecker(name, url string, client *http.Client) *EndpointChecker {
	if client == nil {
		client = http.DefaultClient
	}
	return &EndpointChecker{name: name, url: url, client: client}
}

// Name returns the checker name.
func (c *EndpointChecker) Name() string { return c.name }

// Check issues the request. Transport failures and 5xx are Unhealthy, 4xx is
// Degraded.
func (c *EndpointChecker) Check(ctx context.Context) Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return Unhealthy("invalid endpoint", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return Unhealthy("endpoint unreachable", err).
			WithDetails(map[string]any{"url": c.url})
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	details := map[string]any{"url": c.url, "status_code": resp.StatusCode}
	switch {
	case resp.StatusCode >= 500:
		return Unhealthy(resp.Status, fmt.Errorf("health: %s returned %s", c.url, resp.Status)).
			WithDetails(details)
	case resp.StatusCode >= 400:
		return Degraded(resp.Status).WithDetails(details)
	default:
		return Healthy(resp.Status).WithDetails(details)
	}
}
