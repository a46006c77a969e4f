// Package fetcher retrieves remote gallery pages so they can be run through
// the extractor without saving them to disk first.
package fetcher

import (
	"context"
	"errors"
	"time"
)

// Fetcher abstracts page fetching.
type Fetcher interface {
	// Fetch retrieves page content from a URL.
	Fetch(ctx context.Context, url string) (Page, error)
}

// Page is a fetched document.
type Page struct {
	URL         string
	HTML        string
	StatusCode  int
	ContentType string
	FetchedAt   time.Time
}

// ErrNotHTML is returned when the response is not an HTML document.
var ErrNotHTML = errors.New("response is not HTML")
