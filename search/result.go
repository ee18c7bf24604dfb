package search

// Result sources.
const (
	SourceDuckDuckGo = "DuckDuckGo"
	SourceOpenAlex   = "OpenAlex"
	SourceCrossRef   = "CrossRef"
	SourceError      = "Error"
)

// Result is one search hit in the shape shared by every provider.
//
// All fields are plain strings and always serialized; a value the upstream
// did not supply is "".
type Result struct {
	Title           string `json:"title"`
	URL             string `json:"url"`
	Snippet         string `json:"snippet"`
	Source          string `json:"source"`
	Authors         string `json:"authors"`
	PublicationDate string `json:"publication_date"`
	Journal         string `json:"journal"`
	Publisher       string `json:"publisher"`
}

// IsError reports whether r is a synthetic error result.
func (r Result) IsError() bool {
	return r.Source == SourceError
}

// ErrorResult builds the single result returned when a search fails. label
// names the search in the message, e.g. "web" or "OpenAlex".
func ErrorResult(label string, err error) Result {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return Result{
		Title:   "Search Error",
		Snippet: "Error performing " + label + " search: " + msg,
		Source:  SourceError,
	}
}
