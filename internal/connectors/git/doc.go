// Package git shells out to the git binary for shallow,
// blob-deferred clones. Cancellation comes for free from
// exec.CommandContext: when the per-task context expires the process
// is killed and the partial clone is removed.
package git
