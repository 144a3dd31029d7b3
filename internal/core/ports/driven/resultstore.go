package driven

import (
	"github.com/patternscout/patternscout-cli/internal/core/domain"
)

// ResultStore persists the artifacts of one query key: the ranked
// manifest, the append-only execution log, the freshness marker and
// the clone tree. Downstream collaborators read these read-only; the
// core never re-reads its own manifest except to serve cache hits.
type ResultStore interface {
	// Dir returns the root directory for this query key.
	Dir() string

	// ClonePath derives the deterministic, collision-free clone
	// destination for a repository full name.
	ClonePath(fullName string) string

	// AppendLog appends one timestamped line to the execution log.
	// Logging must never fail the pipeline; errors are swallowed.
	AppendLog(format string, args ...any)

	// WriteManifest persists the ranked manifest, replacing any
	// previous one.
	WriteManifest(entries []domain.ManifestEntry) error

	// LoadManifest reads the persisted manifest back. A missing or
	// unparseable manifest returns domain.ErrCacheCorrupt.
	LoadManifest() ([]domain.ManifestEntry, error)

	// ManifestBytes returns the manifest exactly as persisted, for
	// byte-identical cache hits.
	ManifestBytes() ([]byte, error)

	// ReadMarker loads the freshness marker. ok is false when no
	// marker exists or it cannot be parsed.
	ReadMarker() (marker domain.CacheMarker, ok bool)

	// WriteMarker records a fresh marker. Called only after a fully
	// successful run.
	WriteMarker(marker domain.CacheMarker) error
}
