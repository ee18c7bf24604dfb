package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestNewRateLimiter_Defaults(t *testing.T) {
	cfg := NewRateLimiter(RateLimiterConfig{}).Config()
	if cfg.Rate != 1 || cfg.Burst != 1 || cfg.MaxWait != 30*time.Second {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 10, Burst: 5})

	for i := 0; i < 5; i++ {
		if !rl.Allow() {
			t.Errorf("Allow() = false on attempt %d, want true", i)
		}
	}
	if rl.Allow() {
		t.Error("Allow() = true after burst exhausted, want false")
	}
}

func TestRateLimiter_Refill(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 1000, Burst: 5})
	for i := 0; i < 5; i++ {
		rl.Allow()
	}

	time.Sleep(10 * time.Millisecond)

	if !rl.Allow() {
		t.Error("Allow() = false after refill, want true")
	}
	if rl.Tokens() > 5 {
		t.Errorf("Tokens() = %f exceeds burst", rl.Tokens())
	}
}

func TestRateLimiter_WaitSpacesCalls(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 20, Burst: 1, WaitOnLimit: true})
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := rl.Execute(ctx, func(context.Context) error { return nil }); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
	}
	// First call is free, the next two wait ~50ms each.
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Errorf("three calls took %v, expected them to be spaced", elapsed)
	}
}

func TestRateLimiter_WaitMaxWait(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 0.1, Burst: 1, MaxWait: 10 * time.Millisecond})
	rl.Allow()

	if err := rl.Wait(context.Background()); !errors.Is(err, ErrRateLimitExceeded) {
		t.Errorf("Wait() error = %v, want ErrRateLimitExceeded", err)
	}
}

func TestRateLimiter_WaitCanceled(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 1, Burst: 1})
	rl.Allow()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := rl.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestRateLimiter_ExecuteRejects(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 1, Burst: 1})
	ctx := context.Background()
	op := func(context.Context) error { return nil }

	if err := rl.Execute(ctx, op); err != nil {
		t.Fatalf("first Execute() error = %v", err)
	}
	if err := rl.Execute(ctx, op); !errors.Is(err, ErrRateLimitExceeded) {
		t.Errorf("second Execute() error = %v, want ErrRateLimitExceeded", err)
	}
}

func TestRateLimiter_Concurrent(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 1, Burst: 10})

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.Allow() {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed < 10 || allowed > 11 {
		t.Errorf("allowed = %d, want the burst of 10", allowed)
	}
}
