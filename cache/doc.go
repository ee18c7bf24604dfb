// Package cache provides the read-through cache that sits under the search
// providers.
//
// It provides a byte-level Cache interface with file and memory backends,
// SHA-256 based key derivation, a typed Store over ordered result lists and a
// Middleware that collapses lookup, fetch and write-back into one call.
// Lookups distinguish hits, misses and corrupt entries; callers above the
// Middleware only ever see a value or a fresh fetch.
package cache
