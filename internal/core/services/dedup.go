package services

import (
	"sort"

	"github.com/patternscout/patternscout-cli/internal/core/domain"
)

// Deduplicate collapses raw search matches into one candidate per
// repository. MatchCount is the number of DISTINCT file paths seen for
// that repository; overlapping pages may repeat (repo, path) pairs and
// those repeats are dropped here. All repository metadata is taken
// from the first match seen for the repository.
//
// Pure single pass, O(matches), no side effects.
func Deduplicate(matches []domain.SearchMatch) []domain.RepoCandidate {
	type group struct {
		first domain.SearchMatch
		paths map[string]struct{}
	}

	groups := make(map[string]*group)
	order := make([]string, 0)

	for _, m := range matches {
		if m.RepoFullName == "" {
			continue
		}
		g, ok := groups[m.RepoFullName]
		if !ok {
			g = &group{first: m, paths: make(map[string]struct{})}
			groups[m.RepoFullName] = g
			order = append(order, m.RepoFullName)
		}
		g.paths[m.FilePath] = struct{}{}
	}

	candidates := make([]domain.RepoCandidate, 0, len(order))
	for _, name := range order {
		g := groups[name]
		candidates = append(candidates, domain.RepoCandidate{
			FullName:   name,
			HTMLURL:    g.first.RepoHTMLURL,
			Stars:      g.first.Stars,
			LastPushAt: g.first.LastPushAt,
			Language:   g.first.Language,
			MatchCount: len(g.paths),
		})
	}

	// First-seen order is crawl order, which depends on API paging.
	// Normalise so downstream stages receive a stable input.
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].FullName < candidates[j].FullName
	})

	return candidates
}
