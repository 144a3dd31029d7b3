package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or out-of-range request
	// parameters. Always surfaced before any network call.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoCandidates indicates the crawl produced zero usable
	// repositories across all organizations.
	ErrNoCandidates = errors.New("no candidates found")

	// ErrCacheCorrupt indicates a freshness marker exists but the
	// manifest is missing or unreadable. Treated as a cache miss.
	ErrCacheCorrupt = errors.New("cache corrupt")
)
