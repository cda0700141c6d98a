package rod

import (
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/fwojciec/docrag"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultRecycleAfter is the default number of pages one Chrome process
// renders before it is replaced.
const DefaultRecycleAfter = 75

// BrowserManager owns the Chrome process that renders documentation pages
// for a crawl. Chrome's memory keeps growing across pages even when every
// tab is closed, so the process is swapped for a fresh one once it has
// rendered recycleAfter pages.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	closed   bool

	bin          string
	recycleAfter int64
	rendered     atomic.Int64
	logger       *slog.Logger
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithRecycleAfter sets how many pages a browser renders before it is
// replaced. Values below one keep the default.
func WithRecycleAfter(n int) ManagerOption {
	return func(bm *BrowserManager) {
		if n > 0 {
			bm.recycleAfter = int64(n)
		}
	}
}

// WithBrowserBin uses the Chrome binary at path instead of looking one up
// or downloading it. An empty path keeps the lookup.
func WithBrowserBin(path string) ManagerOption {
	return func(bm *BrowserManager) {
		bm.bin = path
	}
}

// WithLogger reports browser restarts to logger.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(bm *BrowserManager) {
		bm.logger = logger
	}
}

// NewBrowserManager launches a headless browser. Returns ECONFIG if the
// configured binary does not exist or no browser can be started.
// Close must be called when the BrowserManager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{
		recycleAfter: DefaultRecycleAfter,
		logger:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(bm)
	}

	if bm.bin != "" {
		if _, err := os.Stat(bm.bin); err != nil {
			return nil, docrag.Errorf(docrag.ECONFIG, "browser binary %s: %w", bm.bin, err)
		}
	}
	if err := bm.launch(); err != nil {
		return nil, docrag.Errorf(docrag.ECONFIG, "cannot start Chrome or Chromium: %w", err)
	}
	return bm, nil
}

// Browser returns the browser to open the next page in, replacing it first
// if it has rendered its share of pages. Callers report each page with
// PageRendered. Returns EINTERNAL once the manager is closed.
func (bm *BrowserManager) Browser() (*rod.Browser, error) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil, docrag.Errorf(docrag.EINTERNAL, "browser is closed")
	}
	if n := bm.rendered.Load(); n >= bm.recycleAfter {
		bm.recycle(n)
	}
	return bm.browser, nil
}

// PageRendered records one page rendered by the current browser.
func (bm *BrowserManager) PageRendered() {
	bm.rendered.Add(1)
}

// Close stops the browser. Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil
	}
	bm.closed = true
	return bm.shutdown()
}

// launch starts a browser with flags that keep background tabs from being
// throttled. Must be called with mu held or before bm is shared.
func (bm *BrowserManager) launch() error {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)
	if bm.bin != "" {
		l = l.Bin(bm.bin)
	}

	u, err := l.Launch()
	if err != nil {
		return err
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return err
	}

	bm.browser = browser
	bm.launcher = l
	return nil
}

// shutdown closes the browser and kills its process. Must be called with
// mu held.
func (bm *BrowserManager) shutdown() error {
	var err error
	if bm.browser != nil {
		err = bm.browser.Close()
		bm.browser = nil
	}
	if bm.launcher != nil {
		bm.launcher.Kill()
		bm.launcher = nil
	}
	return err
}

// recycle replaces a browser that rendered n pages. If the new one fails
// to launch the old one stays in service and the next page retries. Must be
// called with mu held.
func (bm *BrowserManager) recycle(n int64) {
	oldBrowser, oldLauncher := bm.browser, bm.launcher
	if err := bm.launch(); err != nil {
		bm.browser, bm.launcher = oldBrowser, oldLauncher
		bm.logger.Warn("browser restart failed", "pages", n, "err", err)
		return
	}

	if oldBrowser != nil {
		_ = oldBrowser.Close()
	}
	if oldLauncher != nil {
		oldLauncher.Kill()
	}
	bm.rendered.Store(0)
	bm.logger.Info("browser restarted", "pages", n)
}

// LauncherPID returns the process ID of the browser launcher, or 0 once
// closed.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.launcher == nil {
		return 0
	}
	return bm.launcher.PID()
}
