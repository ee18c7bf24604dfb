package cache

import (
	"context"
	"errors"
	"strings"
)

// MaxKeyLength is the maximum allowed length for a cache key. Keys double as
// file names, so the limit stays below common file system limits.
const MaxKeyLength = 200

// Sentinel errors for cache operations.
var (
	ErrNilCache     = errors.New("cache: cache is nil")
	ErrInvalidKey   = errors.New("cache: key is invalid")
	ErrKeyTooLong   = errors.New("cache: key exceeds max length")
	ErrInvalidTool  = errors.New("cache: tool id is invalid")
	ErrCorruptEntry = errors.New("cache: entry is corrupt")
)

// Status classifies the outcome of a lookup.
type Status int

const (
	// StatusMiss means no usable entry exists for the key.
	StatusMiss Status = iota
	// StatusHit means a well-formed entry was found.
	StatusHit
	// StatusCorrupt means an entry exists but cannot be decoded.
	StatusCorrupt
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case StatusHit:
		return "hit"
	case StatusCorrupt:
		return "corrupt"
	default:
		return "miss"
	}
}

// Lookup is the result of a Cache.Get call.
//
// Err is set when the backend failed to read an existing entry (Status is
// StatusMiss) or when the stored bytes are malformed (Status is StatusCorrupt).
// A plain absent key has Status StatusMiss and a nil Err.
type Lookup struct {
	Status Status
	Value  []byte
	Err    error
}

// Hit reports whether the lookup produced a usable value.
func (l Lookup) Hit() bool {
	return l.Status == StatusHit
}

// Cache is the byte-level storage interface for cached search results.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: methods should honor cancellation/deadlines where applicable.
// - Errors: Get never returns an error value; failures are folded into Lookup.
// - Writes: Set replaces any existing value atomically (last writer wins).
type Cache interface {
	// Get retrieves a cached value.
	Get(ctx context.Context, key string) Lookup

	// Set stores a value under key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes a cached value. Idempotent - no error on miss.
	Delete(ctx context.Context, key string) error

	// Clear removes every entry and returns how many were removed. A failure
	// to remove one entry does not stop the others from being removed.
	Clear(ctx context.Context) (int, error)
}

// ValidateKey checks if a key is valid for caching.
func ValidateKey(key string) error {
	if key == "" || strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	// Keys become file names: no separators, control characters or dot-dirs.
	if strings.ContainsAny(key, "\n\r\x00/\\") || key == "." || key == ".." {
		return ErrInvalidKey
	}
	return nil
}
