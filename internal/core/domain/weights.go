package domain

import "time"

// RankWeights configures the composite scoring formula:
//
//	score = Stars·s/(s+SaturationC)
//	      + Matches·m/(m+SaturationC)
//	      + Recency·1/(1+daysSincePush/RecencyHalfLife)
//	      + LanguageBonus (only when a language filter matches)
//
// The x/(x+C) form gives diminishing returns so a single mega-star
// repository cannot dominate, and the recency term decays smoothly
// instead of zeroing out dormant-but-relevant repositories.
type RankWeights struct {
	Stars           float64 `toml:"stars"`
	Matches         float64 `toml:"matches"`
	Recency         float64 `toml:"recency"`
	LanguageBonus   float64 `toml:"language_bonus"`
	SaturationC     float64 `toml:"saturation_c"`
	RecencyHalfLife float64 `toml:"recency_half_life_days"`
}

// DefaultRankWeights are a reasonable, configurable default rather
// than a published contract.
func DefaultRankWeights() RankWeights {
	return RankWeights{
		Stars:           0.35,
		Matches:         0.30,
		Recency:         0.25,
		LanguageBonus:   0.10,
		SaturationC:     50,
		RecencyHalfLife: 30,
	}
}

// Normalized fills unset fields with their defaults. A fully zero
// struct means "not configured" and takes the defaults wholesale; a
// partially configured struct keeps its term weights as given (zero
// turns a term off) but never a zero divisor, which would make
// x/(x+C) collapse to 0/0 for a zero-valued signal.
func (w RankWeights) Normalized() RankWeights {
	def := DefaultRankWeights()
	if w == (RankWeights{}) {
		return def
	}
	if w.SaturationC <= 0 {
		w.SaturationC = def.SaturationC
	}
	if w.RecencyHalfLife <= 0 {
		w.RecencyHalfLife = def.RecencyHalfLife
	}
	return w
}

// CacheMarker is the immutable freshness record for one query key.
// It is read once before a run and written once after a successful
// run; a run that fails never refreshes it.
type CacheMarker struct {
	QueryKey  string        `toml:"query_key"`
	CreatedAt time.Time     `toml:"created_at"`
	TTL       time.Duration `toml:"ttl"`
}

// DefaultCacheTTL is the validity window before a fresh run is forced.
const DefaultCacheTTL = 7 * 24 * time.Hour

// Fresh reports whether the marker is still within its TTL at now.
func (m CacheMarker) Fresh(now time.Time) bool {
	if m.CreatedAt.IsZero() {
		return false
	}
	ttl := m.TTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return now.Sub(m.CreatedAt) < ttl
}
