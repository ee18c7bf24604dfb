package search

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/jonwraymond/ragteam/cache"
	"github.com/jonwraymond/ragteam/format"
)

const (
	// DefaultCrossRefEndpoint is the CrossRef works API.
	DefaultCrossRefEndpoint = "https://api.crossref.org/works"

	// CacheToolCrossRef is the cache namespace of CrossRef searches.
	CacheToolCrossRef = "crossref"
)

// CrossRefParams are the arguments of a CrossRef search. They form the
// cache key.
type CrossRefParams struct {
	Query      string `json:"query"`
	FilterType string `json:"filter_type"`
	Rows       int    `json:"rows"`
}

func (p CrossRefParams) normalize() CrossRefParams {
	p.Query = strings.TrimSpace(p.Query)
	p.FilterType = strings.TrimSpace(p.FilterType)
	p.Rows = clampResults(p.Rows)
	return p
}

func (p CrossRefParams) values() url.Values {
	v := url.Values{
		"query": {p.Query},
		"rows":  {strconv.Itoa(p.Rows)},
		"sort":  {"relevance"},
		"order": {"desc"},
	}
	if p.FilterType != "" {
		v.Set("filter", "type:"+p.FilterType)
	}
	return v
}

// CrossRef searches publication metadata through the CrossRef API.
type CrossRef struct {
	f *fetcher
}

var _ Provider = (*CrossRef)(nil)

// NewCrossRef creates a CrossRef provider. A nil store disables caching.
func NewCrossRef(store *cache.Store[Result], opts ...Option) *CrossRef {
	o := newOptions(DefaultCrossRefEndpoint, opts)
	return &CrossRef{f: newFetcher(CacheToolCrossRef, "CrossRef", store, o, nil)}
}

// Name implements Provider.
func (c *CrossRef) Name() string { return "crossref_search" }

// Description implements Provider.
func (c *CrossRef) Description() string {
	return "Search for academic publications using the CrossRef API. " +
		"Returns publications with title, DOI, authors and publication details."
}

// Parameters implements Provider.
func (c *CrossRef) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "Search term or phrase",
			},
			"filter_type": map[string]any{
				"type":        []string{"string", "null"},
				"description": "Filter by type (journal-article, book, proceedings-article, etc.)",
			},
			"rows": map[string]any{
				"type":        "integer",
				"description": "Maximum number of results to return",
			},
		},
		"required":             []string{"query", "filter_type", "rows"},
		"additionalProperties": false,
	}
}

// Invoke implements Provider.
func (c *CrossRef) Invoke(ctx context.Context, args json.RawMessage) []Result {
	var p CrossRefParams
	if err := decodeArgs(args, &p); err != nil {
		return c.f.fail(err)
	}
	return c.Search(ctx, p)
}

// Search runs a CrossRef works query.
func (c *CrossRef) Search(ctx context.Context, p CrossRefParams) []Result {
	p = p.normalize()
	if p.Query == "" {
		return c.f.fail(ErrEmptyQuery)
	}
	return c.f.run(ctx, p, func(ctx context.Context) ([]Result, error) {
		var page crossRefPage
		if err := c.f.getJSON(ctx, c.f.opts.endpoint+"?"+p.values().Encode(), &page); err != nil {
			return nil, err
		}
		results := make([]Result, 0, len(page.Message.Items))
		for _, item := range page.Message.Items {
			results = append(results, item.result())
		}
		return results, nil
	})
}

type crossRefPage struct {
	Message struct {
		Items []crossRefItem `json:"items"`
	} `json:"message"`
}

type crossRefDate struct {
	DateParts [][]any `json:"date-parts"`
}

func (d *crossRefDate) parts() []any {
	if d == nil || len(d.DateParts) == 0 {
		return nil
	}
	return d.DateParts[0]
}

type crossRefItem struct {
	Title           []string         `json:"title"`
	ContainerTitle  []string         `json:"container-title"`
	Publisher       *string          `json:"publisher"`
	DOI             *string          `json:"DOI"`
	Abstract        *string          `json:"abstract"`
	Author          []map[string]any `json:"author"`
	PublishedPrint  *crossRefDate    `json:"published-print"`
	PublishedOnline *crossRefDate    `json:"published-online"`
}

func (it crossRefItem) result() Result {
	var names []string
	for _, a := range it.Author {
		var parts []string
		if v, ok := a["given"]; ok {
			parts = append(parts, format.SafeString(v))
		}
		if v, ok := a["family"]; ok {
			parts = append(parts, format.SafeString(v))
		}
		if len(parts) > 0 {
			names = append(names, strings.Join(parts, " "))
		}
	}

	date := it.PublishedPrint.parts()
	if len(date) == 0 {
		date = it.PublishedOnline.parts()
	}
	dateStrs := make([]string, len(date))
	for i, part := range date {
		dateStrs[i] = format.SafeString(part)
	}

	r := Result{
		Source:          SourceCrossRef,
		Authors:         FormatAuthors(names),
		PublicationDate: strings.Join(dateStrs, "-"),
		Publisher:       str(it.Publisher),
		Snippet:         StripMarkup(str(it.Abstract)),
	}
	if len(it.ContainerTitle) > 0 {
		r.Journal = it.ContainerTitle[0]
	}
	if len(it.Title) > 0 {
		r.Title = it.Title[0]
	}
	if it.DOI != nil {
		r.URL = DOIURL(*it.DOI)
	}

	if r.Snippet == "" {
		switch {
		case r.Journal != "":
			r.Snippet = "Published in " + r.Journal
		case r.Publisher != "":
			r.Snippet = "Published by " + r.Publisher
		}
	}
	return r
}
