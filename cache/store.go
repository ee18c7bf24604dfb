package cache

import (
	"context"
	"encoding/json"
	"fmt"
)

// Entry is the typed result of Store.Lookup.
type Entry[T any] struct {
	Key    string
	Status Status
	Value  []T
	Err    error
}

// Hit reports whether the entry holds a usable value.
func (e Entry[T]) Hit() bool {
	return e.Status == StatusHit
}

// Store maps (tool, params) pairs to ordered lists of T persisted in a Cache.
//
// Values are JSON encoded as-is: nothing is normalized on write, so a Put
// followed by a Lookup with the same pair returns an equal list.
type Store[T any] struct {
	cache Cache
	keyer Keyer
}

// NewStore creates a typed store. A nil keyer selects DefaultKeyer.
func NewStore[T any](c Cache, keyer Keyer) (*Store[T], error) {
	if c == nil {
		return nil, ErrNilCache
	}
	if keyer == nil {
		keyer = NewDefaultKeyer()
	}
	return &Store[T]{cache: c, keyer: keyer}, nil
}

// Key returns the key the store uses for (tool, params).
func (s *Store[T]) Key(tool string, params any) (string, error) {
	return s.keyer.Key(tool, params)
}

// Lookup finds the entry for (tool, params). Backend read failures stay
// misses and undecodable entries are reported as corrupt; neither is returned
// as an error value.
func (s *Store[T]) Lookup(ctx context.Context, tool string, params any) Entry[T] {
	key, err := s.keyer.Key(tool, params)
	if err != nil {
		return Entry[T]{Status: StatusMiss, Err: err}
	}

	res := s.cache.Get(ctx, key)
	if res.Status != StatusHit {
		return Entry[T]{Key: key, Status: res.Status, Err: res.Err}
	}

	var value []T
	if err := json.Unmarshal(res.Value, &value); err != nil {
		return Entry[T]{Key: key, Status: StatusCorrupt, Err: fmt.Errorf("%w: %v", ErrCorruptEntry, err)}
	}
	if value == nil {
		// A stored "null" is not something Put ever writes.
		return Entry[T]{Key: key, Status: StatusCorrupt, Err: fmt.Errorf("%w: null entry", ErrCorruptEntry)}
	}
	return Entry[T]{Key: key, Status: StatusHit, Value: value}
}

// Put persists value for (tool, params). Callers treat the returned error as
// diagnostic only: caching is best effort.
func (s *Store[T]) Put(ctx context.Context, tool string, params any, value []T) error {
	key, err := s.keyer.Key(tool, params)
	if err != nil {
		return err
	}
	if value == nil {
		value = []T{}
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode entry: %w", err)
	}
	return s.cache.Set(ctx, key, data)
}

// Clear removes every entry in the underlying cache.
func (s *Store[T]) Clear(ctx context.Context) (int, error) {
	return s.cache.Clear(ctx)
}
