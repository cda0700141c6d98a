// Package rod renders pages in a headless Chrome browser via go-rod.
package rod

import (
	"context"
	"time"

	"github.com/fwojciec/docrag"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Fetcher implements docrag.Fetcher at compile time.
var _ docrag.Fetcher = (*Fetcher)(nil)

// DefaultSettleTimeout bounds the wait for a page's DOM to stop changing
// after the load event.
const DefaultSettleTimeout = 3 * time.Second

// Fetcher retrieves rendered HTML using one reused browser, recycled every
// few pages by its BrowserManager. Fetcher is safe for concurrent use.
type Fetcher struct {
	manager       *BrowserManager
	settleTimeout time.Duration
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithSettleTimeout sets how long Fetch waits for client-side rendering to
// settle. Pages still changing after the timeout are returned as they are.
func WithSettleTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.settleTimeout = d
	}
}

// NewFetcher launches a headless browser. Close must be called when the
// Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts []FetcherOption, managerOpts ...ManagerOption) (*Fetcher, error) {
	manager, err := NewBrowserManager(managerOpts...)
	if err != nil {
		return nil, err
	}

	f := &Fetcher{manager: manager, settleTimeout: DefaultSettleTimeout}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Fetch navigates to the URL, waits for the load event and a bounded
// settle period, and returns the rendered HTML. The context bounds every
// browser operation.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	browser, err := f.manager.Browser()
	if err != nil {
		return "", err
	}
	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()
	defer f.manager.PageRendered()

	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}

	// Client-side rendering may keep mutating the DOM; take what is there
	// once the settle timeout passes.
	if f.settleTimeout > 0 {
		_ = page.Timeout(f.settleTimeout).WaitDOMStable(300*time.Millisecond, 0)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	return page.HTML()
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	return f.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}
