package crawl_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/docrag"
	"github.com/fwojciec/docrag/crawl"
	"github.com/fwojciec/docrag/glob"
	"github.com/fwojciec/docrag/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// site is an in-memory documentation site. Each page's HTML is its URL so
// the mocks can look pages up by content.
type site struct {
	mu      sync.Mutex
	links   map[string][]string
	broken  map[string]bool
	fetched []string
}

func (s *site) crawler(t *testing.T, accept, deny []string) *crawl.Crawler {
	t.Helper()

	filter, err := glob.NewURLFilter(accept, deny)
	require.NoError(t, err)

	return &crawl.Crawler{
		Fetcher: &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				s.mu.Lock()
				defer s.mu.Unlock()
				s.fetched = append(s.fetched, url)
				if s.broken[url] {
					return "", errors.New("navigation failed")
				}
				return url, nil
			},
		},
		Links: &mock.LinkExtractor{
			ExtractLinksFn: func(html string, _ string) ([]string, error) {
				return s.links[html], nil
			},
		},
		Extractor: &mock.Extractor{
			ExtractFn: func(html string) (*docrag.ExtractResult, error) {
				return &docrag.ExtractResult{Title: "Title of " + html, Text: "Content of " + html}, nil
			},
		},
		Filter:   filter,
		MaxDepth: 3,
	}
}

func sourceURLs(docs []*docrag.Document) []string {
	urls := make([]string, len(docs))
	for i, d := range docs {
		urls[i] = d.SourceURL
	}
	return urls
}

func TestCrawler_Crawl(t *testing.T) {
	t.Parallel()

	t.Run("skips denied links and never fetches them", func(t *testing.T) {
		t.Parallel()

		const (
			a = "https://site.com/docs/index"
			b = "https://site.com/docs/page1"
			c = "https://site.com/docs/deprecated/page2"
		)
		s := &site{links: map[string][]string{a: {b, c}}}
		crawler := s.crawler(t, []string{"https://site.com/docs/*"}, []string{"*/deprecated/*"})

		docs, err := crawler.Crawl(context.Background(), []string{a})

		require.NoError(t, err)
		assert.Equal(t, []string{a, b}, sourceURLs(docs))
		assert.Equal(t, []string{a, b}, s.fetched)
	})

	t.Run("builds documents with provenance", func(t *testing.T) {
		t.Parallel()

		s := &site{}
		crawler := s.crawler(t, []string{"https://site.com/*"}, nil)
		fetchedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		crawler.Now = func() time.Time { return fetchedAt }

		docs, err := crawler.Crawl(context.Background(), []string{"https://site.com/a"})

		require.NoError(t, err)
		require.Len(t, docs, 1)
		doc := docs[0]
		assert.NotEmpty(t, doc.ID)
		assert.Equal(t, "https://site.com/a", doc.SourceURL)
		assert.Equal(t, "Title of https://site.com/a", doc.Title)
		assert.Equal(t, "Content of https://site.com/a", doc.Content)
		assert.Equal(t, crawl.ComputeHash("Content of https://site.com/a"), doc.ContentHash)
		assert.Equal(t, 0, doc.Depth)
		assert.Equal(t, 0, doc.Position)
		assert.Equal(t, fetchedAt, doc.FetchedAt)
	})

	t.Run("visits each URL once even with cycles", func(t *testing.T) {
		t.Parallel()

		s := &site{links: map[string][]string{
			"https://site.com/a": {"https://site.com/b", "https://site.com/a#top"},
			"https://site.com/b": {"https://site.com/a", "https://site.com/c"},
			"https://site.com/c": {"https://site.com/b"},
		}}
		crawler := s.crawler(t, []string{"https://site.com/*"}, nil)

		docs, err := crawler.Crawl(context.Background(), []string{"https://site.com/a", "https://site.com/a"})

		require.NoError(t, err)
		assert.Equal(t, []string{"https://site.com/a", "https://site.com/b", "https://site.com/c"}, s.fetched)
		assert.Len(t, docs, 3)
	})

	t.Run("never processes a page at max depth", func(t *testing.T) {
		t.Parallel()

		s := &site{links: map[string][]string{
			"https://site.com/0": {"https://site.com/1"},
			"https://site.com/1": {"https://site.com/2"},
			"https://site.com/2": {"https://site.com/3"},
		}}
		crawler := s.crawler(t, []string{"https://site.com/*"}, nil)
		crawler.MaxDepth = 2

		docs, err := crawler.Crawl(context.Background(), []string{"https://site.com/0"})

		require.NoError(t, err)
		assert.Equal(t, []string{"https://site.com/0", "https://site.com/1"}, sourceURLs(docs))
		assert.Equal(t, 1, docs[1].Depth)
	})

	t.Run("crawls nothing when max depth is zero", func(t *testing.T) {
		t.Parallel()

		s := &site{links: map[string][]string{"https://site.com/a": {"https://site.com/b"}}}
		crawler := s.crawler(t, []string{"https://site.com/*"}, nil)
		crawler.MaxDepth = 0

		_, err := crawler.Crawl(context.Background(), []string{"https://site.com/a"})

		require.Error(t, err)
		assert.Equal(t, docrag.ENODOCUMENTS, docrag.ErrorCode(err))
		assert.Empty(t, s.fetched)
	})

	t.Run("traverses breadth first", func(t *testing.T) {
		t.Parallel()

		s := &site{links: map[string][]string{
			"https://site.com/":  {"https://site.com/a", "https://site.com/b"},
			"https://site.com/a": {"https://site.com/a1"},
			"https://site.com/b": {"https://site.com/b1"},
		}}
		crawler := s.crawler(t, []string{"https://site.com/*"}, nil)

		_, err := crawler.Crawl(context.Background(), []string{"https://site.com/"})

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://site.com/",
			"https://site.com/a",
			"https://site.com/b",
			"https://site.com/a1",
			"https://site.com/b1",
		}, s.fetched)
	})

	t.Run("does not follow links to another origin", func(t *testing.T) {
		t.Parallel()

		s := &site{links: map[string][]string{
			"https://site.com/a": {"https://other.com/a", "http://site.com/b", "https://site.com/c"},
		}}
		crawler := s.crawler(t, []string{"*"}, nil)

		docs, err := crawler.Crawl(context.Background(), []string{"https://site.com/a"})

		require.NoError(t, err)
		assert.Equal(t, []string{"https://site.com/a", "https://site.com/c"}, sourceURLs(docs))
	})

	t.Run("skips seeds the filter rejects", func(t *testing.T) {
		t.Parallel()

		s := &site{}
		crawler := s.crawler(t, []string{"https://site.com/docs/*"}, nil)

		docs, err := crawler.Crawl(context.Background(), []string{"https://site.com/blog", "https://site.com/docs/x"})

		require.NoError(t, err)
		assert.Equal(t, []string{"https://site.com/docs/x"}, sourceURLs(docs))
	})

	t.Run("continues past failing pages and reports them", func(t *testing.T) {
		t.Parallel()

		s := &site{
			links:  map[string][]string{"https://site.com/a": {"https://site.com/b", "https://site.com/c"}},
			broken: map[string]bool{"https://site.com/b": true},
		}
		crawler := s.crawler(t, []string{"https://site.com/*"}, nil)
		var failed []string
		crawler.Progress = func(e crawl.ProgressEvent) {
			if e.Type == crawl.ProgressFailed {
				failed = append(failed, e.URL)
				assert.Equal(t, docrag.EPAGE, docrag.ErrorCode(e.Error))
			}
		}

		docs, err := crawler.Crawl(context.Background(), []string{"https://site.com/a"})

		require.NoError(t, err)
		assert.Equal(t, []string{"https://site.com/a", "https://site.com/c"}, sourceURLs(docs))
		assert.Equal(t, []int{0, 1}, []int{docs[0].Position, docs[1].Position})
		assert.Equal(t, []string{"https://site.com/b"}, failed)
	})

	t.Run("skips pages whose extraction fails", func(t *testing.T) {
		t.Parallel()

		s := &site{links: map[string][]string{"https://site.com/a": {"https://site.com/b"}}}
		crawler := s.crawler(t, []string{"https://site.com/*"}, nil)
		crawler.Extractor = &mock.Extractor{
			ExtractFn: func(html string) (*docrag.ExtractResult, error) {
				if html == "https://site.com/a" {
					return nil, docrag.Errorf(docrag.EINVALID, "no content")
				}
				return &docrag.ExtractResult{Text: "ok"}, nil
			},
		}

		var failed []string
		crawler.Progress = func(e crawl.ProgressEvent) {
			if e.Type == crawl.ProgressFailed {
				failed = append(failed, e.URL)
			}
		}

		docs, err := crawler.Crawl(context.Background(), []string{"https://site.com/a"})

		require.NoError(t, err)
		assert.Equal(t, []string{"https://site.com/b"}, sourceURLs(docs))
		assert.Equal(t, 1, docs[0].Depth)
		assert.Equal(t, 0, docs[0].Position)
		assert.Equal(t, []string{"https://site.com/a"}, failed)
	})

	t.Run("follows links from a navigation-only seed", func(t *testing.T) {
		t.Parallel()

		const (
			hub = "https://site.com/docs/"
			api = "https://site.com/docs/api"
		)
		s := &site{links: map[string][]string{
			hub: {"https://site.com/docs/intro", api, "https://other.com/docs/x"},
			api: {"https://site.com/docs/api/v1"},
		}}
		crawler := s.crawler(t, []string{"https://site.com/docs/*"}, nil)
		crawler.MaxDepth = 2
		crawler.Extractor = &mock.Extractor{
			ExtractFn: func(html string) (*docrag.ExtractResult, error) {
				if html == hub {
					return &docrag.ExtractResult{Title: "Docs"}, nil
				}
				return &docrag.ExtractResult{Title: html, Text: "Content of " + html}, nil
			},
		}

		docs, err := crawler.Crawl(context.Background(), []string{hub})

		require.NoError(t, err)
		assert.Equal(t, []string{"https://site.com/docs/intro", api}, sourceURLs(docs))
		assert.Equal(t, []string{hub, "https://site.com/docs/intro", api}, s.fetched)
	})

	t.Run("fails with no documents when nothing was collected", func(t *testing.T) {
		t.Parallel()

		s := &site{broken: map[string]bool{"https://site.com/a": true}}
		crawler := s.crawler(t, []string{"https://site.com/*"}, nil)

		_, err := crawler.Crawl(context.Background(), []string{"https://site.com/a", "https://elsewhere.com/"})

		require.Error(t, err)
		assert.Equal(t, docrag.ENODOCUMENTS, docrag.ErrorCode(err))
	})

	t.Run("stops at the page limit", func(t *testing.T) {
		t.Parallel()

		s := &site{links: map[string][]string{
			"https://site.com/a": {"https://site.com/b", "https://site.com/c"},
		}}
		crawler := s.crawler(t, []string{"https://site.com/*"}, nil)
		crawler.MaxPages = 2

		docs, err := crawler.Crawl(context.Background(), []string{"https://site.com/a"})

		require.NoError(t, err)
		assert.Len(t, docs, 2)
	})

	t.Run("waits on the rate limiter per host", func(t *testing.T) {
		t.Parallel()

		s := &site{links: map[string][]string{"https://site.com/a": {"https://site.com/b"}}}
		crawler := s.crawler(t, []string{"https://site.com/*"}, nil)
		var hosts []string
		crawler.RateLimiter = &mock.DomainLimiter{
			WaitFn: func(_ context.Context, host string) error {
				hosts = append(hosts, host)
				return nil
			},
		}

		_, err := crawler.Crawl(context.Background(), []string{"https://site.com/a"})

		require.NoError(t, err)
		assert.Equal(t, []string{"site.com", "site.com"}, hosts)
	})

	t.Run("bounds every fetch with a deadline", func(t *testing.T) {
		t.Parallel()

		s := &site{}
		crawler := s.crawler(t, []string{"https://site.com/*"}, nil)
		crawler.FetchTimeout = 5 * time.Second
		crawler.Fetcher = &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				deadline, ok := ctx.Deadline()
				assert.True(t, ok)
				assert.WithinDuration(t, time.Now().Add(5*time.Second), deadline, time.Second)
				return url, nil
			},
		}

		_, err := crawler.Crawl(context.Background(), []string{"https://site.com/a"})

		require.NoError(t, err)
	})

	t.Run("adds sitemap URLs as seeds", func(t *testing.T) {
		t.Parallel()

		s := &site{}
		crawler := s.crawler(t, []string{"https://site.com/*"}, nil)
		crawler.Sitemaps = &mock.SitemapService{
			DiscoverURLsFn: func(_ context.Context, baseURL string, filter *docrag.URLFilter) ([]string, error) {
				assert.Equal(t, "https://site.com/", baseURL)
				return []string{"https://site.com/from-sitemap"}, nil
			},
		}

		docs, err := crawler.Crawl(context.Background(), []string{"https://site.com/"})

		require.NoError(t, err)
		assert.Equal(t, []string{"https://site.com/", "https://site.com/from-sitemap"}, sourceURLs(docs))
	})

	t.Run("returns the context error when canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		s := &site{links: map[string][]string{"https://site.com/a": {"https://site.com/b"}}}
		crawler := s.crawler(t, []string{"https://site.com/*"}, nil)
		crawler.Fetcher = &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				cancel()
				return url, nil
			},
		}

		docs, err := crawler.Crawl(ctx, []string{"https://site.com/a"})

		require.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, docs)
	})
}
