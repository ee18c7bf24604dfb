package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryCache is an in-memory cache implementation with the same contract as
// FileCache. It backs ephemeral runs and isolated tests.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryCache creates a new, empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string][]byte),
	}
}

// Get retrieves a value from the cache.
func (c *MemoryCache) Get(_ context.Context, key string) Lookup {
	c.mu.RLock()
	value, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return Lookup{Status: StatusMiss}
	}
	if !json.Valid(value) {
		return Lookup{Status: StatusCorrupt, Err: fmt.Errorf("%w: %s", ErrCorruptEntry, key)}
	}

	// Hand out a copy so callers cannot mutate the stored entry.
	out := make([]byte, len(value))
	copy(out, value)
	return Lookup{Status: StatusHit, Value: out}
}

// Set stores a copy of value under key.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	c.mu.Lock()
	c.entries[key] = stored
	c.mu.Unlock()

	return nil
}

// Delete removes a value from the cache. Idempotent - no error on miss.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// Clear removes every entry and returns how many were removed.
func (c *MemoryCache) Clear(_ context.Context) (int, error) {
	c.mu.Lock()
	n := len(c.entries)
	c.entries = make(map[string][]byte)
	c.mu.Unlock()
	return n, nil
}

// Len returns the number of stored entries.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Ensure MemoryCache implements Cache
var _ Cache = (*MemoryCache)(nil)
