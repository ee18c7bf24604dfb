package search

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// MaxListedAuthors is how many author names FormatAuthors spells out.
const MaxListedAuthors = 3

// FormatAuthors joins the first MaxListedAuthors names with ", " and notes
// how many were left out.
//
//	FormatAuthors([]string{"A", "B", "C", "D", "E"}) == "A, B, C and 2 more"
func FormatAuthors(names []string) string {
	if len(names) <= MaxListedAuthors {
		return strings.Join(names, ", ")
	}
	return strings.Join(names[:MaxListedAuthors], ", ") +
		" and " + strconv.Itoa(len(names)-MaxListedAuthors) + " more"
}

// MaxAbstractWords bounds the positions accepted by ReconstructAbstract.
const MaxAbstractWords = 1 << 16

// ReconstructAbstract rebuilds plain text from an inverted index mapping
// each word to the positions it occupies. Positions nobody claims become
// empty strings, so gaps show up as repeated spaces. A negative position or
// one at or beyond MaxAbstractWords is an ErrInvalidAbstract.
func ReconstructAbstract(index map[string][]int) (string, error) {
	size := 0
	for word, positions := range index {
		for _, p := range positions {
			if p < 0 || p >= MaxAbstractWords {
				return "", fmt.Errorf("%w: position %d of %q", ErrInvalidAbstract, p, word)
			}
			size = max(size, p+1)
		}
	}

	words := make([]string, size)
	for word, positions := range index {
		for _, p := range positions {
			words[p] = word
		}
	}
	return strings.Join(words, " "), nil
}

// DOIURL returns the resolver URL for doi. Values that are already URLs are
// returned as they are.
func DOIURL(doi string) string {
	doi = strings.TrimSpace(doi)
	switch {
	case doi == "":
		return ""
	case strings.HasPrefix(doi, "http://"), strings.HasPrefix(doi, "https://"):
		return doi
	default:
		return "https://doi.org/" + strings.TrimPrefix(doi, "doi:")
	}
}

// StripMarkup returns the text content of an HTML or JATS fragment with
// whitespace collapsed. Plain text passes through unchanged apart from
// whitespace.
func StripMarkup(s string) string {
	if !strings.Contains(s, "<") {
		return strings.Join(strings.Fields(s), " ")
	}
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			b.Write(z.Text())
			b.WriteByte(' ')
		}
	}
}
