package domain

// ManifestEntry is one row of the ranked manifest: a scored candidate
// annotated with the outcome of its clone. The manifest is the
// authoritative contract for downstream collaborators.
type ManifestEntry struct {
	RepoCandidate

	// CloneStatus is the actual outcome, recorded even for failures.
	CloneStatus CloneStatus `json:"clone_status"`

	// LocalPath is the deterministic clone location, set even when
	// the clone failed so a later skip-clone resume can find it.
	LocalPath string `json:"local_path"`
}

// Report is the result of one Discover invocation.
type Report struct {
	// QueryKey identifies the cache slot used.
	QueryKey string

	// FromCache is true when the run was served without network.
	FromCache bool

	// Entries are the manifest rows in ranked order.
	Entries []ManifestEntry

	// Warnings are recoverable problems encountered during the run,
	// such as abandoned organizations or failed clones.
	Warnings []string

	// ResultsDir is where the manifest, log and clone tree live.
	ResultsDir string
}
