package domain

import "time"

// RepoCandidate is one unique repository produced by deduplication.
// The Deduplicator creates it without a score; the Ranker completes
// it by setting CompositeScore. It is immutable afterward.
type RepoCandidate struct {
	// FullName is the "owner/name" identifier.
	FullName string `json:"full_name"`

	// HTMLURL is the repository web URL.
	HTMLURL string `json:"html_url"`

	// Stars is the stargazer count at search time.
	Stars int `json:"stars"`

	// LastPushAt is the most recent push timestamp.
	LastPushAt time.Time `json:"last_push_at"`

	// Language is the primary language, if reported.
	Language string `json:"language"`

	// MatchCount is the number of DISTINCT file paths that matched,
	// never the raw hit count.
	MatchCount int `json:"match_count"`

	// CompositeScore is the deterministic ranking value.
	CompositeScore float64 `json:"composite_score"`
}

// CloneStatus describes the outcome of a clone attempt.
type CloneStatus string

// Clone statuses.
const (
	CloneSuccess CloneStatus = "success"
	CloneFailed  CloneStatus = "failed"
	CloneSkipped CloneStatus = "skipped"
)

// CloneResult records the outcome of one clone task. The set of
// results is always 1:1 with the ranked list; failures are recorded
// rather than dropped.
type CloneResult struct {
	// Repo is the candidate's full name.
	Repo string `json:"repo"`

	// LocalPath is the deterministic on-disk location.
	LocalPath string `json:"local_path"`

	// Status is success, failed or skipped.
	Status CloneStatus `json:"status"`

	// Error holds the failure message, empty on success.
	Error string `json:"error,omitempty"`

	// Duration is the wall-clock time of the attempt.
	Duration time.Duration `json:"duration"`
}
