package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/jonwraymond/ragteam/cache"
	"github.com/jonwraymond/ragteam/resilience"
)

const (
	// DefaultWebEndpoint is the DuckDuckGo lite HTML endpoint.
	DefaultWebEndpoint = "https://lite.duckduckgo.com/lite/"

	// CacheToolWeb is the cache namespace of web searches.
	CacheToolWeb = "web_search"

	// noResultsText marks a lite page that found nothing.
	noResultsText = "no results"

	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// webLimiter is shared by every Web provider in the process: DuckDuckGo
// throttles by client, not by caller.
var webLimiter = resilience.NewRateLimiter(resilience.RateLimiterConfig{
	Rate:        1,
	Burst:       1,
	WaitOnLimit: true,
})

// WebParams are the arguments of a web search. They form the cache key.
type WebParams struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

func (p WebParams) normalize() WebParams {
	p.Query = strings.TrimSpace(p.Query)
	p.MaxResults = clampResults(p.MaxResults)
	return p
}

// Web searches the general web through DuckDuckGo.
type Web struct {
	f *fetcher
}

var _ Provider = (*Web)(nil)

// NewWeb creates a web search provider. A nil store disables caching.
func NewWeb(store *cache.Store[Result], opts ...Option) *Web {
	o := newOptions(DefaultWebEndpoint, opts)
	limiter := o.limiter
	if limiter == nil {
		limiter = webLimiter
	}
	return &Web{f: newFetcher(CacheToolWeb, "web", store, o, limiter)}
}

// Name implements Provider.
func (w *Web) Name() string { return "web_search" }

// Description implements Provider.
func (w *Web) Description() string {
	return "Search the web for the given query using DuckDuckGo and return a list of results. " +
		"Each result has a title, url and snippet."
}

// Parameters implements Provider.
func (w *Web) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "Search term or phrase",
			},
			"max_results": map[string]any{
				"type":        "integer",
				"description": "Maximum number of results to return",
			},
		},
		"required":             []string{"query", "max_results"},
		"additionalProperties": false,
	}
}

// Invoke implements Provider.
func (w *Web) Invoke(ctx context.Context, args json.RawMessage) []Result {
	var p WebParams
	if err := decodeArgs(args, &p); err != nil {
		return w.f.fail(err)
	}
	return w.Search(ctx, p)
}

// Search runs a web search.
func (w *Web) Search(ctx context.Context, p WebParams) []Result {
	p = p.normalize()
	if p.Query == "" {
		return w.f.fail(ErrEmptyQuery)
	}
	return w.f.run(ctx, p, func(ctx context.Context) ([]Result, error) {
		form := url.Values{"q": {p.Query}}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.f.opts.endpoint, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Accept", "text/html")

		body, err := w.f.do(req, browserUserAgent)
		if err != nil {
			return nil, err
		}
		return parseWebResults(string(body), p.MaxResults)
	})
}

// parseWebResults extracts results from a DuckDuckGo lite page. Result links
// and snippets are paired by position. A page without result links is an
// empty result only when it says so; anything else, such as a bot challenge
// served with a 2xx status, is ErrDecode.
func parseWebResults(page string, limit int) ([]Result, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil, err
	}

	type link struct{ href, title string }
	var (
		links     []link
		snippets  []string
		noResults bool
	)

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "a" && hasClass(n, "result-link"):
				links = append(links, link{attr(n, "href"), textOf(n)})
			case n.Data == "td" && hasClass(n, "result-snippet"):
				snippets = append(snippets, textOf(n))
			case hasClass(n, "no-results"):
				noResults = true
			}
		}
		if n.Type == html.TextNode && strings.Contains(strings.ToLower(n.Data), noResultsText) {
			noResults = true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if len(links) == 0 {
		if noResults {
			return []Result{}, nil
		}
		return nil, fmt.Errorf("%w: page has no result links", ErrDecode)
	}

	results := make([]Result, 0, min(len(links), limit))
	for i, l := range links {
		if len(results) == limit {
			break
		}
		href := decodeRedirect(l.href)
		if href == "" || l.title == "" {
			continue
		}
		var snippet string
		if i < len(snippets) {
			snippet = snippets[i]
		}
		results = append(results, Result{
			Title:   l.title,
			URL:     href,
			Snippet: snippet,
			Source:  SourceDuckDuckGo,
		})
	}
	return results, nil
}

// decodeRedirect unwraps DuckDuckGo's //duckduckgo.com/l/?uddg=<target> links.
func decodeRedirect(href string) string {
	href = strings.TrimSpace(href)
	if !strings.Contains(href, "duckduckgo.com/l/") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return u.Query().Get("uddg")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// textOf returns the whitespace-collapsed text content of n.
func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
