package cache

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// FetchFunc produces a fresh value on a cache miss.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// LookupHook observes every lookup made by a Middleware. It is called with
// the raw entry status before any fetch happens.
type LookupHook func(ctx context.Context, tool string, status Status, err error)

// Middleware wraps a fetch with read-through caching.
type Middleware[T any] struct {
	store  *Store[T]
	policy Policy
	hook   LookupHook
	group  singleflight.Group
}

// NewMiddleware creates a read-through middleware over store.
func NewMiddleware[T any](store *Store[T], policy Policy) *Middleware[T] {
	return &Middleware[T]{
		store:  store,
		policy: policy,
	}
}

// OnLookup registers a hook that observes lookup outcomes.
func (m *Middleware[T]) OnLookup(hook LookupHook) *Middleware[T] {
	m.hook = hook
	return m
}

// Store returns the underlying store.
func (m *Middleware[T]) Store() *Store[T] {
	return m.store
}

// Execute runs fetch with caching.
// On cache hit, returns the cached value verbatim without calling fetch.
// On miss or corrupt entry, calls fetch and writes the result back.
// Errors are NOT cached and write-back failures are ignored.
// Concurrent calls for the same key share a single fetch, which is not
// canceled when one of the callers gives up. fetch must bound itself.
func (m *Middleware[T]) Execute(ctx context.Context, tool string, params any, fetch FetchFunc[T]) ([]T, error) {
	if m.store == nil || !m.policy.ShouldCache() {
		return fetch(ctx)
	}

	entry := m.store.Lookup(ctx, tool, params)
	if m.hook != nil {
		m.hook(ctx, tool, entry.Status, entry.Err)
	}
	if entry.Hit() {
		return entry.Value, nil
	}
	if entry.Key == "" {
		// Key derivation failed - execute without caching
		return fetch(ctx)
	}

	// The flight outlives any single caller: it runs detached from
	// cancellation and each caller stops waiting when its own ctx is done.
	flightCtx := context.WithoutCancel(ctx)
	ch := m.group.DoChan(entry.Key, func() (any, error) {
		// Another flight may have filled the entry since the lookup above.
		if again := m.store.Lookup(flightCtx, tool, params); again.Hit() {
			return again.Value, nil
		}
		value, err := fetch(flightCtx)
		if err != nil {
			return value, err
		}
		if m.policy.ShouldStore(len(value)) {
			_ = m.store.Put(flightCtx, tool, params, value)
		}
		return value, nil
	})

	select {
	case res := <-ch:
		value, _ := res.Val.([]T)
		return value, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
