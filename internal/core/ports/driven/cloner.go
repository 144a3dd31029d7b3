package driven

import (
	"context"

	"github.com/patternscout/patternscout-cli/internal/core/domain"
)

// Cloner materialises one repository on disk.
type Cloner interface {
	// Clone performs a shallow, blob-deferred clone of the candidate
	// into dest. It must honour ctx cancellation: a timed-out or
	// cancelled clone returns an error instead of hanging.
	Clone(ctx context.Context, candidate domain.RepoCandidate, dest string) error
}
