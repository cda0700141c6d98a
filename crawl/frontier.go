package crawl

import (
	"net/url"
	"sync"

	"github.com/fwojciec/docrag"
)

// Frontier is a FIFO crawl queue with exact deduplication. A URL is
// admitted at most once per run, so its recorded depth is the depth at
// which it was first discovered; with breadth-first order that is also the
// minimum.
type Frontier struct {
	mu      sync.Mutex
	queue   []string
	records map[string]*docrag.VisitRecord
}

// NewFrontier creates an empty frontier.
func NewFrontier() *Frontier {
	return &Frontier{records: make(map[string]*docrag.VisitRecord)}
}

// Push queues a URL at depth. Returns false if the URL was already seen.
func (f *Frontier) Push(rawURL string, depth int) bool {
	key := normalizeURL(rawURL)

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.records[key]; ok {
		return false
	}
	f.records[key] = &docrag.VisitRecord{URL: key, Depth: depth}
	f.queue = append(f.queue, key)
	return true
}

// Pop returns the oldest queued URL and marks it visited.
// Returns false if the frontier is empty.
func (f *Frontier) Pop() (docrag.VisitRecord, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return docrag.VisitRecord{}, false
	}
	key := f.queue[0]
	f.queue[0] = ""
	f.queue = f.queue[1:]

	rec := f.records[key]
	rec.Visited = true
	return *rec, true
}

// Len returns the number of queued URLs.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Seen returns true if the URL has been queued or visited.
func (f *Frontier) Seen(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.records[normalizeURL(rawURL)]
	return ok
}

// Visited returns the number of URLs popped so far.
func (f *Frontier) Visited() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records) - len(f.queue)
}

// normalizeURL strips the fragment so anchors on one page dedupe together.
func normalizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}
