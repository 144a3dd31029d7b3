package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patternscout/patternscout-cli/internal/core/domain"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	s, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultRankWeights(), s.Weights)
	assert.Equal(t, 8, s.CloneWorkers)
	assert.Equal(t, domain.DefaultCacheTTL, s.CacheTTLDuration())
	assert.Equal(t, 4*time.Minute, s.CloneTimeoutDuration())
	assert.Equal(t, 2*time.Second, s.PageDelayDuration())
}

func TestLoadParsesFile(t *testing.T) {
	dir := t.TempDir()
	content := `
results_dir = "/data/patternscout"
cache_ttl = "24h"
clone_workers = 4
clone_timeout = "90s"
page_delay = "500ms"

[weights]
stars = 0.5
matches = 0.2
recency = 0.2
language_bonus = 0.1
saturation_c = 100.0
recency_half_life_days = 14.0
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644))

	s, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "/data/patternscout", s.ResultsDir)
	assert.Equal(t, 24*time.Hour, s.CacheTTLDuration())
	assert.Equal(t, 4, s.CloneWorkers)
	assert.Equal(t, 90*time.Second, s.CloneTimeoutDuration())
	assert.Equal(t, 500*time.Millisecond, s.PageDelayDuration())
	assert.Equal(t, 0.5, s.Weights.Stars)
	assert.Equal(t, 100.0, s.Weights.SaturationC)
}

func TestLoadPartialWeightsKeepsDivisors(t *testing.T) {
	// A file that tunes one weight must not zero out the divisors the
	// scoring formula depends on.
	dir := t.TempDir()
	content := "[weights]\nstars = 0.9\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644))

	s, err := Load(dir)
	require.NoError(t, err)

	def := domain.DefaultRankWeights()
	assert.Equal(t, 0.9, s.Weights.Stars)
	assert.Equal(t, def.SaturationC, s.Weights.SaturationC)
	assert.Equal(t, def.RecencyHalfLife, s.Weights.RecencyHalfLife)
}

func TestLoadMalformedFileFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("clone_workers = {"), 0o644))

	_, err := Load(dir)
	assert.Error(t, err, "typos must not silently change ranking")
}

func TestDurationFallbacks(t *testing.T) {
	s := &Settings{CacheTTL: "bogus", CloneTimeout: "-3s", PageDelay: "nope"}

	assert.Equal(t, domain.DefaultCacheTTL, s.CacheTTLDuration())
	assert.Equal(t, 4*time.Minute, s.CloneTimeoutDuration())
	assert.Equal(t, 2*time.Second, s.PageDelayDuration())
}
