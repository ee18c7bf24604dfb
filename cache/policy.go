package cache

// Policy configures caching behavior.
//
// Entries never expire: search results are assumed immutable for the
// lifetime of a cache directory, and only Clear removes them.
type Policy struct {
	// Enabled turns the read-through cache on. When false every call goes
	// straight to the fetcher and nothing is written.
	Enabled bool

	// CacheEmpty stores empty result lists. When true an empty list is a
	// normal entry and is replayed as empty on the next lookup; when false
	// empty lists are never written, so the next lookup misses and fetches
	// again.
	CacheEmpty bool
}

// DefaultPolicy returns the default caching policy.
// Enabled: true, CacheEmpty: true
func DefaultPolicy() Policy {
	return Policy{
		Enabled:    true,
		CacheEmpty: true,
	}
}

// NoCachePolicy returns a policy that disables caching entirely.
func NoCachePolicy() Policy {
	return Policy{}
}

// ShouldCache returns true if caching is enabled by this policy.
func (p Policy) ShouldCache() bool {
	return p.Enabled
}

// ShouldStore reports whether a successful fetch of n items is written back.
func (p Policy) ShouldStore(n int) bool {
	if !p.Enabled {
		return false
	}
	return n > 0 || p.CacheEmpty
}
