package docrag

import "context"

// Fetcher retrieves the rendered HTML of a page.
type Fetcher interface {
	// Fetch loads the URL and returns its HTML once the page has settled.
	// The context bounds the wait; a page that never settles returns an
	// error rather than blocking.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}
