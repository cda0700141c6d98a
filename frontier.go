package docrag

import "context"

// VisitRecord tracks one URL within a single crawl run.
type VisitRecord struct {
	URL string

	// Depth is the link distance from the nearest seed at which the URL
	// was first discovered.
	Depth int

	Visited bool
}

// DomainLimiter enforces a politeness delay between requests to the same
// host.
type DomainLimiter interface {
	// Wait blocks until a request to the host is allowed.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, host string) error
}
