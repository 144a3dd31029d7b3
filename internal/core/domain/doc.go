// Package domain defines the core business entities for PatternScout.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SearchMatch: A single code-search file hit with repository metadata
//   - RepoCandidate: A deduplicated repository eligible for ranking
//   - CloneResult: The outcome of one clone attempt
//   - CacheMarker: The freshness record gating a pipeline run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
