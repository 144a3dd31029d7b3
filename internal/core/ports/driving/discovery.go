package driving

import (
	"context"

	"github.com/patternscout/patternscout-cli/internal/core/domain"
)

// Discovery runs the full discover-rank-clone pipeline for a request.
type Discovery interface {
	// Discover validates the request, consults the cache, and either
	// returns the persisted results or executes the pipeline. The
	// report is always produced under partial failure, with every
	// entry annotated with its actual clone status.
	Discover(ctx context.Context, req domain.DiscoveryRequest) (*domain.Report, error)
}
