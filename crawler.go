package docrag

import "context"

// Crawler collects documents from a documentation site.
type Crawler interface {
	// Crawl traverses the site from the seed URLs and returns one document
	// per successfully processed page in collection order. Pages that fail
	// are skipped. Returns ENODOCUMENTS when nothing was collected.
	Crawl(ctx context.Context, seeds []string) ([]*Document, error)
}
