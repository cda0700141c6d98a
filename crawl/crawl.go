// Package crawl traverses a documentation site breadth-first, turning each
// allowed page into a document.
package crawl

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/fwojciec/docrag"
	"github.com/google/uuid"
)

var _ docrag.Crawler = (*Crawler)(nil)

// Default crawl bounds.
const (
	DefaultMaxPages     = 1000
	DefaultFetchTimeout = 30 * time.Second
)

// Crawler collects documents starting from seed URLs.
//
// A Crawler holds no per-run state; each call to Crawl owns its own
// frontier.
type Crawler struct {
	Fetcher   docrag.Fetcher
	Extractor docrag.Extractor
	Links     docrag.LinkExtractor
	Filter    *docrag.URLFilter

	// Sitemaps, when set, adds each seed site's sitemap URLs as seeds.
	Sitemaps docrag.SitemapService

	// RateLimiter, when set, spaces fetches to the same host.
	RateLimiter docrag.DomainLimiter

	Logger   *slog.Logger
	Progress ProgressFunc

	// MaxDepth bounds the traversal: pages at depth MaxDepth or deeper are
	// never processed, so zero crawls nothing.
	MaxDepth int

	MaxPages     int
	FetchTimeout time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Depth     int
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// Crawl traverses from seeds and returns the collected documents in
// collection order. A URL is skipped if it was already visited or its depth
// reaches MaxDepth. Links are followed only within the scheme and host of
// the page containing them and only if the filter allows them. Page
// failures are logged and skipped, but the links of a page that was fetched
// and failed extraction are still followed. Returns ENODOCUMENTS if no page
// produced a document, or the context error if ctx is canceled.
func (c *Crawler) Crawl(ctx context.Context, seeds []string) ([]*docrag.Document, error) {
	logger := c.logger()
	maxDepth := c.MaxDepth
	maxPages := valueOr(c.MaxPages, DefaultMaxPages)

	frontier := NewFrontier()
	for _, seed := range c.expandSeeds(ctx, seeds) {
		if !c.Filter.Allowed(seed) {
			logger.Info("seed not allowed", "url", seed)
			continue
		}
		frontier.Push(seed, 0)
	}

	var docs []*docrag.Document
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, ok := frontier.Pop()
		if !ok {
			break
		}
		if rec.Depth >= maxDepth {
			continue
		}
		if len(docs) >= maxPages {
			logger.Warn("page limit reached", "max_pages", maxPages, "queued", frontier.Len())
			break
		}

		c.report(ProgressEvent{Type: ProgressStarted, Completed: len(docs), Total: frontier.Visited() + frontier.Len(), URL: rec.URL, Depth: rec.Depth})

		doc, links, err := c.processPage(ctx, rec)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			logger.Warn("page skipped", "url", rec.URL, "depth", rec.Depth, "err", err)
			c.follow(frontier, rec, links, maxDepth)
			c.report(ProgressEvent{Type: ProgressFailed, Completed: len(docs), Total: frontier.Visited() + frontier.Len(), URL: rec.URL, Depth: rec.Depth, Error: err})
			continue
		}

		doc.Position = len(docs)
		docs = append(docs, doc)
		c.follow(frontier, rec, links, maxDepth)

		c.report(ProgressEvent{Type: ProgressCompleted, Completed: len(docs), Total: frontier.Visited() + frontier.Len(), URL: rec.URL, Depth: rec.Depth})
	}

	c.report(ProgressEvent{Type: ProgressFinished, Completed: len(docs), Total: frontier.Visited()})

	if len(docs) == 0 {
		return nil, docrag.Errorf(docrag.ENODOCUMENTS, "no documents were collected from %d seed URLs", len(seeds))
	}
	return docs, nil
}

// follow queues the links of a processed page that share its origin and
// pass the filter, unless they would land at maxDepth.
func (c *Crawler) follow(frontier *Frontier, rec docrag.VisitRecord, links []string, maxDepth int) {
	if rec.Depth+1 >= maxDepth {
		return
	}
	for _, link := range links {
		if !sameOrigin(rec.URL, link) || !c.Filter.Allowed(link) {
			continue
		}
		frontier.Push(link, rec.Depth+1)
	}
}

// processPage fetches one page, collects its links from the full page and
// extracts its content. Failures are EPAGE unless the context ended. Links
// are returned even when extraction fails, so hub pages without a body
// still lead somewhere.
func (c *Crawler) processPage(ctx context.Context, rec docrag.VisitRecord) (*docrag.Document, []string, error) {
	u, err := url.Parse(rec.URL)
	if err != nil {
		return nil, nil, docrag.Errorf(docrag.EPAGE, "invalid URL %s: %w", rec.URL, err)
	}

	if c.RateLimiter != nil {
		if err := c.RateLimiter.Wait(ctx, u.Host); err != nil {
			return nil, nil, err
		}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, valueOr(c.FetchTimeout, DefaultFetchTimeout))
	defer cancel()

	html, err := c.Fetcher.Fetch(fetchCtx, rec.URL)
	if err != nil {
		return nil, nil, docrag.Errorf(docrag.EPAGE, "fetch %s: %w", rec.URL, err)
	}

	links, err := c.Links.ExtractLinks(html, rec.URL)
	if err != nil {
		c.logger().Warn("link extraction failed", "url", rec.URL, "err", err)
		links = nil
	}

	result, err := c.Extractor.Extract(html)
	if err != nil {
		return nil, links, docrag.Errorf(docrag.EPAGE, "extract %s: %w", rec.URL, err)
	}

	doc := &docrag.Document{
		ID:          uuid.New().String(),
		SourceURL:   rec.URL,
		Title:       result.Title,
		Content:     result.Text,
		ContentHash: ComputeHash(result.Text),
		Depth:       rec.Depth,
		FetchedAt:   c.now(),
	}
	if err := doc.Validate(); err != nil {
		return nil, links, docrag.Errorf(docrag.EPAGE, "%s: %w", rec.URL, err)
	}
	return doc, links, nil
}

// expandSeeds appends sitemap URLs of each seed's site. Sitemap failures
// only cost the extra seeds.
func (c *Crawler) expandSeeds(ctx context.Context, seeds []string) []string {
	if c.Sitemaps == nil {
		return seeds
	}

	out := append([]string(nil), seeds...)
	for _, seed := range seeds {
		urls, err := c.Sitemaps.DiscoverURLs(ctx, seed, c.Filter)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				c.logger().Warn("sitemap discovery failed", "url", seed, "err", err)
			}
			continue
		}
		out = append(out, urls...)
	}
	return out
}

func (c *Crawler) report(event ProgressEvent) {
	if c.Progress != nil {
		c.Progress(event)
	}
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.DiscardHandler)
}

func (c *Crawler) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// sameOrigin reports whether link has the scheme and host of page.
func sameOrigin(page, link string) bool {
	p, err := url.Parse(page)
	if err != nil {
		return false
	}
	l, err := url.Parse(link)
	if err != nil {
		return false
	}
	return p.Scheme == l.Scheme && p.Host == l.Host
}

func valueOr[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
