package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// mockFetcher tracks calls and returns configured results
type mockFetcher struct {
	calls  atomic.Int32
	result []item
	err    error
	delay  time.Duration
}

func (m *mockFetcher) fetch(_ context.Context) ([]item, error) {
	m.calls.Add(1)
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	return m.result, m.err
}

func newTestMiddleware(t *testing.T, policy Policy) (*Middleware[item], *MemoryCache) {
	t.Helper()
	mem := NewMemoryCache()
	store, err := NewStore[item](mem, nil)
	if err != nil {
		t.Fatal(err)
	}
	return NewMiddleware(store, policy), mem
}

func TestMiddleware_CacheHit(t *testing.T) {
	mw, _ := newTestMiddleware(t, DefaultPolicy())
	fetcher := &mockFetcher{result: []item{{Title: "ok"}}}
	ctx := context.Background()
	params := map[string]any{"query": "hello"}

	// First call - should execute
	got, err := mw.Execute(ctx, "web_search", params, fetcher.fetch)
	if err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	if fetcher.calls.Load() != 1 || len(got) != 1 {
		t.Fatalf("first call: calls=%d results=%d", fetcher.calls.Load(), len(got))
	}

	// Second call - should return cached, fetcher NOT called
	got, err = mw.Execute(ctx, "web_search", params, fetcher.fetch)
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	if fetcher.calls.Load() != 1 {
		t.Errorf("expected fetcher to NOT be called again, got %d calls", fetcher.calls.Load())
	}
	if len(got) != 1 || got[0].Title != "ok" {
		t.Errorf("unexpected cached result: %+v", got)
	}
}

func TestMiddleware_DistinctParams(t *testing.T) {
	mw, _ := newTestMiddleware(t, DefaultPolicy())
	fetcher := &mockFetcher{result: []item{{Title: "x"}}}
	ctx := context.Background()

	_, _ = mw.Execute(ctx, "crossref", map[string]any{"query": "q", "rows": 5}, fetcher.fetch)
	_, _ = mw.Execute(ctx, "crossref", map[string]any{"query": "q", "rows": 6}, fetcher.fetch)

	if fetcher.calls.Load() != 2 {
		t.Errorf("expected 2 fetches for different options, got %d", fetcher.calls.Load())
	}
}

func TestMiddleware_ErrorNotCached(t *testing.T) {
	mw, mem := newTestMiddleware(t, DefaultPolicy())
	fetcher := &mockFetcher{err: errors.New("upstream down")}
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := mw.Execute(ctx, "openalex", "q", fetcher.fetch); err == nil {
			t.Fatal("expected error")
		}
	}
	if fetcher.calls.Load() != 2 {
		t.Errorf("errors must not be cached: got %d calls", fetcher.calls.Load())
	}
	if mem.Len() != 0 {
		t.Errorf("cache has %d entries after errors", mem.Len())
	}
}

func TestMiddleware_EmptyResults(t *testing.T) {
	tests := []struct {
		name      string
		policy    Policy
		wantCalls int32
	}{
		{"cached by default", DefaultPolicy(), 1},
		{"refetched when not cached", Policy{Enabled: true}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw, _ := newTestMiddleware(t, tt.policy)
			fetcher := &mockFetcher{result: []item{}}
			ctx := context.Background()

			for i := 0; i < 2; i++ {
				got, err := mw.Execute(ctx, "crossref", "nothing", fetcher.fetch)
				if err != nil {
					t.Fatal(err)
				}
				if len(got) != 0 {
					t.Fatalf("expected empty result, got %+v", got)
				}
			}
			if fetcher.calls.Load() != tt.wantCalls {
				t.Errorf("calls = %d, want %d", fetcher.calls.Load(), tt.wantCalls)
			}
		})
	}
}

func TestMiddleware_CorruptEntryRefetched(t *testing.T) {
	mw, mem := newTestMiddleware(t, DefaultPolicy())
	ctx := context.Background()

	key, _ := mw.Store().Key("openalex", "q")
	_ = mem.Set(ctx, key, []byte("{broken"))

	fetcher := &mockFetcher{result: []item{{Title: "fresh"}}}
	got, err := mw.Execute(ctx, "openalex", "q", fetcher.fetch)
	if err != nil {
		t.Fatal(err)
	}
	if fetcher.calls.Load() != 1 || got[0].Title != "fresh" {
		t.Fatalf("corrupt entry not refetched: calls=%d got=%+v", fetcher.calls.Load(), got)
	}

	// The fresh value replaced the corrupt one.
	if e := mw.Store().Lookup(ctx, "openalex", "q"); !e.Hit() {
		t.Errorf("Lookup() after refetch = %v, want hit", e.Status)
	}
}

func TestMiddleware_Disabled(t *testing.T) {
	mw, mem := newTestMiddleware(t, NoCachePolicy())
	fetcher := &mockFetcher{result: []item{{Title: "x"}}}
	ctx := context.Background()

	_, _ = mw.Execute(ctx, "web_search", "q", fetcher.fetch)
	_, _ = mw.Execute(ctx, "web_search", "q", fetcher.fetch)

	if fetcher.calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", fetcher.calls.Load())
	}
	if mem.Len() != 0 {
		t.Errorf("disabled policy wrote %d entries", mem.Len())
	}
}

func TestMiddleware_InvalidToolStillFetches(t *testing.T) {
	mw, mem := newTestMiddleware(t, DefaultPolicy())
	fetcher := &mockFetcher{result: []item{{Title: "x"}}}

	got, err := mw.Execute(context.Background(), "not a tool", "q", fetcher.fetch)
	if err != nil || len(got) != 1 {
		t.Fatalf("Execute() = %+v, %v", got, err)
	}
	if mem.Len() != 0 {
		t.Error("entry stored under invalid tool id")
	}
}

func TestMiddleware_OnLookup(t *testing.T) {
	mw, _ := newTestMiddleware(t, DefaultPolicy())
	var statuses []Status
	mw.OnLookup(func(_ context.Context, tool string, status Status, _ error) {
		if tool != "web_search" {
			t.Errorf("hook tool = %q", tool)
		}
		statuses = append(statuses, status)
	})

	fetcher := &mockFetcher{result: []item{{Title: "x"}}}
	ctx := context.Background()
	_, _ = mw.Execute(ctx, "web_search", "q", fetcher.fetch)
	_, _ = mw.Execute(ctx, "web_search", "q", fetcher.fetch)

	if len(statuses) != 2 || statuses[0] != StatusMiss || statuses[1] != StatusHit {
		t.Errorf("statuses = %v, want [miss hit]", statuses)
	}
}

func TestMiddleware_SingleFlight(t *testing.T) {
	mw, _ := newTestMiddleware(t, DefaultPolicy())
	fetcher := &mockFetcher{result: []item{{Title: "x"}}, delay: 50 * time.Millisecond}
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := mw.Execute(ctx, "openalex", "same", fetcher.fetch)
			if err != nil || len(got) != 1 {
				t.Errorf("Execute() = %+v, %v", got, err)
			}
		}()
	}
	wg.Wait()

	if n := fetcher.calls.Load(); n != 1 {
		t.Errorf("concurrent callers triggered %d fetches, want 1", n)
	}
}

func TestMiddleware_CanceledCallerDoesNotCancelFlight(t *testing.T) {
	mw, _ := newTestMiddleware(t, DefaultPolicy())
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	fetch := func(ctx context.Context) ([]item, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		select {
		case <-release:
			return []item{{Title: "shared"}}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := mw.Execute(ctxA, "openalex", "same", fetch)
		errA <- err
	}()
	<-started

	type outcome struct {
		got []item
		err error
	}
	resB := make(chan outcome, 1)
	go func() {
		got, err := mw.Execute(context.Background(), "openalex", "same", fetch)
		resB <- outcome{got, err}
	}()

	cancelA()
	if err := <-errA; !errors.Is(err, context.Canceled) {
		t.Errorf("canceled caller error = %v, want context.Canceled", err)
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	b := <-resB
	if b.err != nil || len(b.got) != 1 || b.got[0].Title != "shared" {
		t.Errorf("live caller = %+v, %v; want the shared result", b.got, b.err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("fetches = %d, want 1", n)
	}
}
