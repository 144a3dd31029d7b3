package domain

import "time"

// SearchMatch is a single file hit from the code-search API.
// Many matches may exist per repository; the Deduplicator collapses
// them into one RepoCandidate each. Matches are never mutated after
// creation at the API boundary.
type SearchMatch struct {
	// RepoFullName is the "owner/name" identifier of the repository.
	RepoFullName string

	// FilePath is the repository-relative path of the matched file.
	FilePath string

	// HTMLURL is the web URL of the matched file.
	HTMLURL string

	// Repository metadata carried alongside the hit so downstream
	// stages never need a second API call. Missing fields fail closed
	// to zero values at ingestion.

	// RepoHTMLURL is the web URL of the repository.
	RepoHTMLURL string

	// Stars is the repository's stargazer count at search time.
	Stars int

	// LastPushAt is the repository's most recent push timestamp.
	LastPushAt time.Time

	// Language is the repository's primary language, if reported.
	Language string
}
