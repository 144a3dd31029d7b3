// Package store persists per-query-key run artifacts: the ranked
// manifest, the append-only execution log, the freshness marker and
// the clone tree.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/patternscout/patternscout-cli/internal/core/domain"
	"github.com/patternscout/patternscout-cli/internal/core/ports/driven"
)

const (
	manifestFile = "manifest.json"
	logFile      = "run.log"
	markerFile   = "marker.toml"
	clonesDir    = "clones"
)

// Ensure the implementations satisfy the driven ports.
var (
	_ driven.ResultStore  = (*Store)(nil)
	_ driven.StoreFactory = (*Factory)(nil)
)

// Factory opens stores under a common results root, one directory per
// query key. Disjoint keys get disjoint directories, so concurrent
// runs for different queries never interfere.
type Factory struct {
	root string
}

// NewFactory creates a store factory rooted at dir. If dir is empty,
// results live under ~/.patternscout/results.
func NewFactory(dir string) (*Factory, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".patternscout", "results")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Factory{root: dir}, nil
}

// Open implements driven.StoreFactory.
func (f *Factory) Open(queryKey string) (driven.ResultStore, error) {
	dir := filepath.Join(f.root, queryKey)
	if err := os.MkdirAll(filepath.Join(dir, clonesDir), 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// Store is the filesystem-backed result store for one query key.
type Store struct {
	dir string

	// logMu serialises log appends from clone workers.
	logMu sync.Mutex
}

// Dir implements driven.ResultStore.
func (s *Store) Dir() string {
	return s.dir
}

// ClonePath implements driven.ResultStore. Path separators in the
// full name are flattened so "a/b" and "a__b" style names cannot
// collide with directory structure.
func (s *Store) ClonePath(fullName string) string {
	safe := strings.ReplaceAll(fullName, "/", "__")
	return filepath.Join(s.dir, clonesDir, safe)
}

// AppendLog implements driven.ResultStore. The log is append-only;
// its modification time doubles as a human-visible freshness signal.
// Logging failures never interrupt the pipeline.
func (s *Store) AppendLog(format string, args ...any) {
	s.logMu.Lock()
	defer s.logMu.Unlock()

	f, err := os.OpenFile(filepath.Join(s.dir, logFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()

	fmt.Fprintf(f, "%s %s\n", time.Now().Format(time.RFC3339), fmt.Sprintf(format, args...))
}

// WriteManifest implements driven.ResultStore. The manifest is
// written via a temp file and rename so readers never observe a
// half-written file.
func (s *Store) WriteManifest(entries []domain.ManifestEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	tmp := filepath.Join(s.dir, manifestFile+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, filepath.Join(s.dir, manifestFile))
}

// LoadManifest implements driven.ResultStore.
func (s *Store) LoadManifest() ([]domain.ManifestEntry, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, manifestFile))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheCorrupt, err)
	}

	var entries []domain.ManifestEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheCorrupt, err)
	}
	return entries, nil
}

// ManifestBytes implements driven.ResultStore.
func (s *Store) ManifestBytes() ([]byte, error) {
	return os.ReadFile(filepath.Join(s.dir, manifestFile))
}

// markerDoc is the on-disk shape of the cache marker. TTL is a
// human-editable duration string.
type markerDoc struct {
	QueryKey  string    `toml:"query_key"`
	CreatedAt time.Time `toml:"created_at"`
	TTL       string    `toml:"ttl"`
}

// ReadMarker implements driven.ResultStore.
func (s *Store) ReadMarker() (domain.CacheMarker, bool) {
	data, err := os.ReadFile(filepath.Join(s.dir, markerFile))
	if err != nil {
		return domain.CacheMarker{}, false
	}

	var doc markerDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return domain.CacheMarker{}, false
	}

	ttl, err := time.ParseDuration(doc.TTL)
	if err != nil {
		ttl = domain.DefaultCacheTTL
	}

	return domain.CacheMarker{
		QueryKey:  doc.QueryKey,
		CreatedAt: doc.CreatedAt,
		TTL:       ttl,
	}, true
}

// WriteMarker implements driven.ResultStore.
func (s *Store) WriteMarker(marker domain.CacheMarker) error {
	doc := markerDoc{
		QueryKey:  marker.QueryKey,
		CreatedAt: marker.CreatedAt,
		TTL:       marker.TTL.String(),
	}
	data, err := toml.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, markerFile), data, 0o644)
}
