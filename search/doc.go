// Package search implements the three search tools offered to the research
// agent: a general web search and two scholarly metadata APIs.
//
// Every provider is a read-through fetcher over a cache.Store: parameters are
// normalized, the store is consulted, and only on a miss is the upstream
// called, its payload mapped to []Result and written back. Providers never
// return an error. A failed call yields a single Result with Source "Error"
// so the calling agent always receives a well-formed list.
package search
