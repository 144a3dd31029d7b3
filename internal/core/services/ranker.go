package services

import (
	"sort"
	"strings"
	"time"

	"github.com/patternscout/patternscout-cli/internal/core/domain"
)

// Ranker scores candidates and produces the ordered, length-capped
// ranked list. Scoring is deterministic: identical inputs always
// yield identical output order, including tie-breaks.
type Ranker struct {
	weights domain.RankWeights

	// now is injectable so recency scoring is stable under test.
	now func() time.Time
}

// NewRanker creates a ranker with the given weights. Unset fields
// fall back to the defaults so a partial configuration can never
// produce NaN scores and break the total order.
func NewRanker(weights domain.RankWeights) *Ranker {
	return &Ranker{weights: weights.Normalized(), now: time.Now}
}

// Rank scores every candidate and returns the top-k list, sorted by
// composite score descending. K is assumed validated upstream and is
// clamped here only to the number of available candidates. Ties break
// by higher match count, then lexicographically by full name, giving
// a total order.
func (r *Ranker) Rank(candidates []domain.RepoCandidate, k int, language string) []domain.RepoCandidate {
	ranked := make([]domain.RepoCandidate, len(candidates))
	copy(ranked, candidates)

	now := r.now()
	for i := range ranked {
		ranked[i].CompositeScore = r.score(ranked[i], language, now)
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.CompositeScore != b.CompositeScore {
			return a.CompositeScore > b.CompositeScore
		}
		if a.MatchCount != b.MatchCount {
			return a.MatchCount > b.MatchCount
		}
		return a.FullName < b.FullName
	})

	if k > len(ranked) {
		k = len(ranked)
	}
	return ranked[:k]
}

// score computes the composite ranking value for one candidate.
func (r *Ranker) score(c domain.RepoCandidate, language string, now time.Time) float64 {
	w := r.weights

	stars := float64(c.Stars)
	matches := float64(c.MatchCount)

	score := w.Stars * (stars / (stars + w.SaturationC))
	score += w.Matches * (matches / (matches + w.SaturationC))

	if !c.LastPushAt.IsZero() {
		days := now.Sub(c.LastPushAt).Hours() / 24
		if days < 0 {
			days = 0
		}
		score += w.Recency * (1 / (1 + days/w.RecencyHalfLife))
	}

	if language != "" && strings.EqualFold(language, c.Language) {
		score += w.LanguageBonus
	}

	return score
}
