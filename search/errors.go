package search

import "errors"

var (
	// ErrInvalidArguments is returned when tool arguments cannot be decoded.
	ErrInvalidArguments = errors.New("search: invalid arguments")

	// ErrEmptyQuery is returned when a search is attempted without a query.
	ErrEmptyQuery = errors.New("search: query is empty")

	// ErrUpstreamStatus is returned when an upstream answers with a non-2xx status.
	ErrUpstreamStatus = errors.New("search: unexpected upstream status")

	// ErrDecode is returned when an upstream payload cannot be parsed.
	ErrDecode = errors.New("search: failed to decode upstream response")

	// ErrInvalidAbstract is returned for an inverted index with out of range
	// positions.
	ErrInvalidAbstract = errors.New("search: invalid abstract index")
)
