package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

const (
	// MinTopK is the smallest supported result cap.
	MinTopK = 3

	// MaxTopK is the largest supported result cap.
	MaxTopK = 50

	// MaxSearchResults is the hard ceiling on accumulated raw matches.
	// The code-search API never returns more than this anyway.
	MaxSearchResults = 1000
)

// DiscoveryRequest carries the validated parameters for one pipeline
// run. The CLI layer owns flag parsing; the core only ever sees this.
type DiscoveryRequest struct {
	// Pattern is the design-pattern name or search term. Required.
	Pattern string

	// Orgs are the organizations to crawl. At least one is required.
	Orgs []string

	// TopK caps the ranked list. Must be within [MinTopK, MaxTopK].
	TopK int

	// Language optionally restricts the search and grants the
	// ranking bonus to matching candidates.
	Language string

	// MaxResults caps accumulated raw matches across all orgs.
	// Zero means MaxSearchResults; larger values are clamped down.
	MaxResults int

	// ForceRefresh bypasses the TTL cache check.
	ForceRefresh bool

	// SkipClone synthesizes clone results from the local disk state
	// instead of touching the network.
	SkipClone bool
}

// Validate checks the request before any network call is made.
// Violations are fatal and reported as ErrInvalidInput; this is
// distinct from the clamping applied to in-range-but-extreme values.
func (r DiscoveryRequest) Validate() error {
	if strings.TrimSpace(r.Pattern) == "" {
		return fmt.Errorf("%w: pattern must not be empty", ErrInvalidInput)
	}
	if len(r.Orgs) == 0 {
		return fmt.Errorf("%w: at least one organization is required", ErrInvalidInput)
	}
	for _, org := range r.Orgs {
		if strings.TrimSpace(org) == "" {
			return fmt.Errorf("%w: organization name must not be empty", ErrInvalidInput)
		}
	}
	if r.TopK < MinTopK || r.TopK > MaxTopK {
		return fmt.Errorf("%w: top-k %d outside supported range [%d,%d]",
			ErrInvalidInput, r.TopK, MinTopK, MaxTopK)
	}
	return nil
}

// EffectiveMaxResults returns the raw-match cap after clamping.
func (r DiscoveryRequest) EffectiveMaxResults() int {
	if r.MaxResults <= 0 || r.MaxResults > MaxSearchResults {
		return MaxSearchResults
	}
	return r.MaxResults
}

// QueryKey derives a stable identifier for the request. Identical
// (pattern, orgs, language, top-k) tuples always produce the same key
// regardless of org ordering, so cache lookups and clone directories
// for different queries never collide.
func (r DiscoveryRequest) QueryKey() string {
	orgs := make([]string, len(r.Orgs))
	for i, org := range r.Orgs {
		orgs[i] = strings.ToLower(strings.TrimSpace(org))
	}
	sort.Strings(orgs)

	h := sha256.New()
	fmt.Fprintf(h, "pattern=%s\norgs=%s\nlanguage=%s\nk=%d\n",
		strings.TrimSpace(r.Pattern),
		strings.Join(orgs, ","),
		strings.ToLower(r.Language),
		r.TopK,
	)
	return hex.EncodeToString(h.Sum(nil))[:16]
}
