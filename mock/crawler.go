package mock

import (
	"context"

	"github.com/fwojciec/docrag"
)

var _ docrag.Crawler = (*Crawler)(nil)

// Crawler is a mock implementation of docrag.Crawler.
type Crawler struct {
	CrawlFn func(ctx context.Context, seeds []string) ([]*docrag.Document, error)
}

func (c *Crawler) Crawl(ctx context.Context, seeds []string) ([]*docrag.Document, error) {
	return c.CrawlFn(ctx, seeds)
}
