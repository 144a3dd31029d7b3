// Package file loads PatternScout settings from a TOML file in the
// user's config directory. Everything has a sensible default; the
// file is optional.
package file

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/patternscout/patternscout-cli/internal/core/domain"
)

// Settings is the on-disk configuration shape. Zero values fall back
// to defaults at load time.
type Settings struct {
	// ResultsDir overrides where manifests, logs and clones land.
	ResultsDir string `toml:"results_dir"`

	// CacheTTL is the freshness window, e.g. "168h".
	CacheTTL string `toml:"cache_ttl"`

	// CloneWorkers is the clone pool size.
	CloneWorkers int `toml:"clone_workers"`

	// CloneTimeout bounds each clone, e.g. "4m".
	CloneTimeout string `toml:"clone_timeout"`

	// PageDelay is the pause between search pages, e.g. "2s".
	PageDelay string `toml:"page_delay"`

	// Weights tunes the ranking formula.
	Weights domain.RankWeights `toml:"weights"`
}

// Load reads settings from configDir/config.toml. An empty configDir
// defaults to ~/.patternscout. A missing file yields pure defaults; a
// malformed file is an error so typos never silently change ranking.
func Load(configDir string) (*Settings, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".patternscout")
	}

	s := &Settings{}
	data, err := os.ReadFile(filepath.Join(configDir, "config.toml"))
	if err != nil {
		if os.IsNotExist(err) {
			s.applyDefaults()
			return s, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, s); err != nil {
		return nil, err
	}
	s.applyDefaults()
	return s, nil
}

// applyDefaults fills unset fields.
func (s *Settings) applyDefaults() {
	if s.CacheTTL == "" {
		s.CacheTTL = domain.DefaultCacheTTL.String()
	}
	if s.CloneWorkers <= 0 {
		s.CloneWorkers = 8
	}
	if s.CloneTimeout == "" {
		s.CloneTimeout = "4m"
	}
	if s.PageDelay == "" {
		s.PageDelay = "2s"
	}
	s.Weights = s.Weights.Normalized()
}

// CacheTTLDuration parses CacheTTL, falling back to the default.
func (s *Settings) CacheTTLDuration() time.Duration {
	d, err := time.ParseDuration(s.CacheTTL)
	if err != nil || d <= 0 {
		return domain.DefaultCacheTTL
	}
	return d
}

// CloneTimeoutDuration parses CloneTimeout, falling back to 4m.
func (s *Settings) CloneTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(s.CloneTimeout)
	if err != nil || d <= 0 {
		return 4 * time.Minute
	}
	return d
}

// PageDelayDuration parses PageDelay, falling back to 2s.
func (s *Settings) PageDelayDuration() time.Duration {
	d, err := time.ParseDuration(s.PageDelay)
	if err != nil || d < 0 {
		return 2 * time.Second
	}
	return d
}
