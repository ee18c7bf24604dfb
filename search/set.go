package search

import (
	"github.com/jonwraymond/ragteam/cache"
)

// Endpoints overrides upstream base URLs. Empty fields keep the defaults.
type Endpoints struct {
	Web      string
	OpenAlex string
	CrossRef string
}

// Set holds one provider of each kind sharing a cache store.
type Set struct {
	Web      *Web
	OpenAlex *OpenAlex
	CrossRef *CrossRef
}

// NewSet creates the three providers over store. opts apply to every
// provider; endpoints are applied per provider after opts.
func NewSet(store *cache.Store[Result], endpoints Endpoints, opts ...Option) *Set {
	with := func(endpoint string) []Option {
		out := make([]Option, 0, len(opts)+1)
		out = append(out, opts...)
		return append(out, WithEndpoint(endpoint))
	}
	return &Set{
		Web:      NewWeb(store, with(endpoints.Web)...),
		OpenAlex: NewOpenAlex(store, with(endpoints.OpenAlex)...),
		CrossRef: NewCrossRef(store, with(endpoints.CrossRef)...),
	}
}

// All returns the providers in a stable order.
func (s *Set) All() []Provider {
	return []Provider{s.Web, s.OpenAlex, s.CrossRef}
}

// Lookup returns the provider advertised under name.
func (s *Set) Lookup(name string) (Provider, bool) {
	for _, p := range s.All() {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}
