package services

import (
	"context"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/patternscout/patternscout-cli/internal/core/domain"
	"github.com/patternscout/patternscout-cli/internal/core/ports/driven"
	"github.com/patternscout/patternscout-cli/internal/logger"
)

const (
	// DefaultCloneWorkers is the fixed worker-pool size.
	DefaultCloneWorkers = 8

	// DefaultCloneTimeout bounds each individual clone. A stalled
	// clone is forced to failed rather than allowed to starve the pool.
	DefaultCloneTimeout = 4 * time.Minute
)

// CloneOrchestrator drains the ranked list through a bounded worker
// pool. Failures are isolated per repository: one failing clone never
// blocks or aborts its siblings, and the result set is always 1:1
// with the input list.
type CloneOrchestrator struct {
	cloner  driven.Cloner
	store   driven.ResultStore
	workers int64
	timeout time.Duration
}

// NewCloneOrchestrator creates an orchestrator with the default pool
// size and per-clone timeout.
func NewCloneOrchestrator(cloner driven.Cloner, store driven.ResultStore) *CloneOrchestrator {
	return &CloneOrchestrator{
		cloner:  cloner,
		store:   store,
		workers: DefaultCloneWorkers,
		timeout: DefaultCloneTimeout,
	}
}

// WithWorkers overrides the pool size. Values below one are ignored.
func (o *CloneOrchestrator) WithWorkers(n int) *CloneOrchestrator {
	if n >= 1 {
		o.workers = int64(n)
	}
	return o
}

// WithTimeout overrides the per-clone timeout.
func (o *CloneOrchestrator) WithTimeout(d time.Duration) *CloneOrchestrator {
	if d > 0 {
		o.timeout = d
	}
	return o
}

// CloneAll clones every ranked candidate with at most `workers`
// clones in flight. Results are returned in ranked order. On context
// cancellation no new tasks are dequeued; tasks never started are
// recorded as skipped so the result set stays complete.
func (o *CloneOrchestrator) CloneAll(ctx context.Context, ranked []domain.RepoCandidate) []domain.CloneResult {
	results := make([]domain.CloneResult, len(ranked))

	sem := semaphore.NewWeighted(o.workers)
	var wg sync.WaitGroup

	for i, candidate := range ranked {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Cancelled while waiting for a slot: everything not yet
			// started is recorded, not dropped.
			results[i] = domain.CloneResult{
				Repo:      candidate.FullName,
				LocalPath: o.store.ClonePath(candidate.FullName),
				Status:    domain.CloneSkipped,
				Error:     ctx.Err().Error(),
			}
			continue
		}

		wg.Add(1)
		go func(idx int, c domain.RepoCandidate) {
			defer wg.Done()
			defer sem.Release(1)
			results[idx] = o.cloneOne(ctx, c)
		}(i, candidate)
	}

	wg.Wait()
	return results
}

// cloneOne performs a single bounded clone task.
func (o *CloneOrchestrator) cloneOne(ctx context.Context, c domain.RepoCandidate) domain.CloneResult {
	dest := o.store.ClonePath(c.FullName)
	result := domain.CloneResult{Repo: c.FullName, LocalPath: dest}

	cloneCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	o.store.AppendLog("clone start repo=%s dest=%s", c.FullName, dest)
	start := time.Now()
	err := o.cloner.Clone(cloneCtx, c, dest)
	result.Duration = time.Since(start)

	if err != nil {
		result.Status = domain.CloneFailed
		result.Error = err.Error()
		logger.Warn("clone failed for %s: %v", c.FullName, err)
		o.store.AppendLog("clone failed repo=%s duration=%s err=%v", c.FullName, result.Duration, err)
		return result
	}

	result.Status = domain.CloneSuccess
	o.store.AppendLog("clone ok repo=%s duration=%s", c.FullName, result.Duration)
	return result
}

// SkipCloneAll synthesizes results without any network access: a
// candidate whose deterministic local path already exists on disk is
// reported as success, everything else as skipped. No re-validation
// against the current ranking is performed.
func (o *CloneOrchestrator) SkipCloneAll(ranked []domain.RepoCandidate) []domain.CloneResult {
	results := make([]domain.CloneResult, len(ranked))
	for i, c := range ranked {
		dest := o.store.ClonePath(c.FullName)
		status := domain.CloneSkipped
		if info, err := os.Stat(dest); err == nil && info.IsDir() {
			status = domain.CloneSuccess
		}
		results[i] = domain.CloneResult{
			Repo:      c.FullName,
			LocalPath: dest,
			Status:    status,
		}
		o.store.AppendLog("clone skip-mode repo=%s status=%s", c.FullName, status)
	}
	return results
}
