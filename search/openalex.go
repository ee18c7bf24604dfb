package search

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/jonwraymond/ragteam/cache"
)

const (
	// DefaultOpenAlexEndpoint is the OpenAlex works API.
	DefaultOpenAlexEndpoint = "https://api.openalex.org/works"

	// CacheToolOpenAlex is the cache namespace of OpenAlex searches.
	CacheToolOpenAlex = "openalex"

	noAbstract         = "No abstract available"
	unreadableAbstract = "Abstract available but could not be processed"
)

// OpenAlexParams are the arguments of an OpenAlex search. They form the
// cache key.
type OpenAlexParams struct {
	Query       string `json:"query"`
	ExactPhrase bool   `json:"exact_phrase"`
	FilterField string `json:"filter_field"`
	MaxResults  int    `json:"max_results"`
}

func (p OpenAlexParams) normalize() OpenAlexParams {
	p.Query = strings.TrimSpace(p.Query)
	p.FilterField = strings.TrimSpace(p.FilterField)
	p.MaxResults = clampResults(p.MaxResults)
	return p
}

// values builds the query string for p.
func (p OpenAlexParams) values(mailto string) url.Values {
	q := p.Query
	if p.ExactPhrase {
		q = `"` + q + `"`
	}
	v := url.Values{}
	if p.FilterField != "" {
		v.Set("filter", p.FilterField+".search:"+q)
	} else {
		v.Set("search", q)
	}
	v.Set("per_page", strconv.Itoa(p.MaxResults))
	if m := strings.TrimSpace(mailto); m != "" {
		v.Set("mailto", m)
	}
	return v
}

// OpenAlex searches scholarly works through the OpenAlex API.
type OpenAlex struct {
	f *fetcher
}

var _ Provider = (*OpenAlex)(nil)

// NewOpenAlex creates an OpenAlex provider. A nil store disables caching.
func NewOpenAlex(store *cache.Store[Result], opts ...Option) *OpenAlex {
	o := newOptions(DefaultOpenAlexEndpoint, opts)
	return &OpenAlex{f: newFetcher(CacheToolOpenAlex, "OpenAlex", store, o, nil)}
}

// Name implements Provider.
func (a *OpenAlex) Name() string { return "openalex_search" }

// Description implements Provider.
func (a *OpenAlex) Description() string {
	return "Search academic literature using the OpenAlex API. " +
		"Returns works matching the query with title, URL, authors and abstract."
}

// Parameters implements Provider.
func (a *OpenAlex) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "Search term or query",
			},
			"exact_phrase": map[string]any{
				"type":        "boolean",
				"description": "Whether to search for the exact phrase (wrap in quotes)",
			},
			"filter_field": map[string]any{
				"type":        []string{"string", "null"},
				"description": "Specific field to search (title, abstract, etc.)",
			},
			"max_results": map[string]any{
				"type":        "integer",
				"description": "Maximum number of results to return",
			},
		},
		"required":             []string{"query", "exact_phrase", "filter_field", "max_results"},
		"additionalProperties": false,
	}
}

// Invoke implements Provider.
func (a *OpenAlex) Invoke(ctx context.Context, args json.RawMessage) []Result {
	var p OpenAlexParams
	if err := decodeArgs(args, &p); err != nil {
		return a.f.fail(err)
	}
	return a.Search(ctx, p)
}

// Search runs an OpenAlex works search.
func (a *OpenAlex) Search(ctx context.Context, p OpenAlexParams) []Result {
	p = p.normalize()
	if p.Query == "" {
		return a.f.fail(ErrEmptyQuery)
	}
	return a.f.run(ctx, p, func(ctx context.Context) ([]Result, error) {
		var page openAlexPage
		if err := a.f.getJSON(ctx, a.f.opts.endpoint+"?"+p.values(a.f.opts.mailto).Encode(), &page); err != nil {
			return nil, err
		}
		results := make([]Result, 0, len(page.Results))
		for _, w := range page.Results {
			results = append(results, w.result())
		}
		return results, nil
	})
}

type openAlexPage struct {
	Results []openAlexWork `json:"results"`
}

type openAlexWork struct {
	Title           *string         `json:"title"`
	DOI             *string         `json:"doi"`
	PublicationDate *string         `json:"publication_date"`
	Abstract        json.RawMessage `json:"abstract_inverted_index"`
	Authorships     []struct {
		Author *struct {
			DisplayName *string `json:"display_name"`
		} `json:"author"`
	} `json:"authorships"`
	PrimaryLocation *struct {
		LandingPageURL *string `json:"landing_page_url"`
		Source         *struct {
			DisplayName          *string `json:"display_name"`
			HostOrganizationName *string `json:"host_organization_name"`
		} `json:"source"`
	} `json:"primary_location"`
}

func (w openAlexWork) result() Result {
	var names []string
	for _, a := range w.Authorships {
		if a.Author != nil && a.Author.DisplayName != nil && *a.Author.DisplayName != "" {
			names = append(names, *a.Author.DisplayName)
		}
	}

	r := Result{
		Title:           str(w.Title),
		Snippet:         w.abstract(),
		Source:          SourceOpenAlex,
		Authors:         FormatAuthors(names),
		PublicationDate: str(w.PublicationDate),
	}

	switch {
	case str(w.DOI) != "":
		r.URL = DOIURL(*w.DOI)
	case w.PrimaryLocation != nil:
		r.URL = str(w.PrimaryLocation.LandingPageURL)
	}
	if w.PrimaryLocation != nil && w.PrimaryLocation.Source != nil {
		r.Journal = str(w.PrimaryLocation.Source.DisplayName)
		r.Publisher = str(w.PrimaryLocation.Source.HostOrganizationName)
	}
	return r
}

func (w openAlexWork) abstract() string {
	raw := bytes.TrimSpace(w.Abstract)
	if len(raw) == 0 || raw[0] != '{' {
		return noAbstract
	}
	var index map[string][]int
	if err := json.Unmarshal(raw, &index); err != nil {
		return unreadableAbstract
	}
	text, err := ReconstructAbstract(index)
	if err != nil {
		return unreadableAbstract
	}
	return text
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
