package driven

import (
	"context"

	"github.com/patternscout/patternscout-cli/internal/core/domain"
)

// LogFunc appends one line to the run's execution log.
type LogFunc func(format string, args ...any)

// Crawler streams raw code-search matches for a discovery request.
type Crawler interface {
	// Crawl paginates the search API per organization and emits
	// matches as they arrive. The sequence is lazy, finite and
	// non-restartable: both channels are closed when the crawl ends.
	// Per-organization transient failures are downgraded to values
	// on the error channel and never terminate the stream early;
	// only context cancellation does. Page-fetch and backoff events
	// are reported through logf.
	Crawl(ctx context.Context, req domain.DiscoveryRequest, logf LogFunc) (<-chan domain.SearchMatch, <-chan error)
}
