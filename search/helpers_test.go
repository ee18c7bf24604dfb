package search

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/jonwraymond/ragteam/cache"
	"github.com/jonwraymond/ragteam/resilience"
)

// upstream is a fake search API that counts requests.
type upstream struct {
	*httptest.Server
	hits atomic.Int32
}

func newUpstream(t *testing.T, h http.HandlerFunc) *upstream {
	t.Helper()
	u := &upstream{}
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.hits.Add(1)
		h(w, r)
	}))
	t.Cleanup(u.Close)
	return u
}

func newTestStore(t *testing.T) (*cache.Store[Result], *cache.MemoryCache) {
	t.Helper()
	mem := cache.NewMemoryCache()
	store, err := cache.NewStore[Result](mem, nil)
	if err != nil {
		t.Fatal(err)
	}
	return store, mem
}

func fastLimiter() *resilience.RateLimiter {
	return resilience.NewRateLimiter(resilience.RateLimiterConfig{Rate: 1000, Burst: 100, WaitOnLimit: true})
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func assertSingleError(t *testing.T, got []Result, label string) {
	t.Helper()
	if len(got) != 1 {
		t.Fatalf("got %d results, want 1 error result: %+v", len(got), got)
	}
	r := got[0]
	if r.Source != SourceError || r.Title != "Search Error" || r.URL != "" {
		t.Errorf("error result = %+v", r)
	}
	prefix := "Error performing " + label + " search: "
	if len(r.Snippet) <= len(prefix) || r.Snippet[:len(prefix)] != prefix {
		t.Errorf("Snippet = %q, want prefix %q", r.Snippet, prefix)
	}
}
