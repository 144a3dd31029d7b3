package services

import (
	"context"
	"fmt"
	"time"

	"github.com/patternscout/patternscout-cli/internal/core/domain"
	"github.com/patternscout/patternscout-cli/internal/core/ports/driven"
	"github.com/patternscout/patternscout-cli/internal/core/ports/driving"
	"github.com/patternscout/patternscout-cli/internal/logger"
)

// Ensure Pipeline implements the driving port.
var _ driving.Discovery = (*Pipeline)(nil)

// PipelineOptions tunes a Pipeline. Zero values select defaults.
type PipelineOptions struct {
	// Weights configures the ranking formula.
	Weights domain.RankWeights

	// CacheTTL is the freshness window for prior results.
	CacheTTL time.Duration

	// CloneWorkers is the worker-pool size.
	CloneWorkers int

	// CloneTimeout bounds each individual clone.
	CloneTimeout time.Duration
}

// Pipeline coordinates the discovery stages: cache gate, crawl,
// deduplication, ranking, cloning and persistence.
type Pipeline struct {
	crawler driven.Crawler
	cloner  driven.Cloner
	stores  driven.StoreFactory
	ranker  *Ranker
	opts    PipelineOptions

	// now is injectable for cache-freshness tests.
	now func() time.Time
}

// NewPipeline wires the pipeline from its collaborators.
func NewPipeline(crawler driven.Crawler, cloner driven.Cloner, stores driven.StoreFactory, opts PipelineOptions) *Pipeline {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = domain.DefaultCacheTTL
	}
	return &Pipeline{
		crawler: crawler,
		cloner:  cloner,
		stores:  stores,
		ranker:  NewRanker(opts.Weights),
		opts:    opts,
		now:     time.Now,
	}
}

// Discover runs the full pipeline for one request. Input validation
// failures are fatal and surface before any network call. A fresh
// cache marker short-circuits the whole run with zero network calls.
// Transient crawl failures and per-repository clone failures are
// recorded as warnings; the manifest is always produced when the run
// executes, even under partial failure.
func (p *Pipeline) Discover(ctx context.Context, req domain.DiscoveryRequest) (*domain.Report, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	key := req.QueryKey()
	store, err := p.stores.Open(key)
	if err != nil {
		return nil, fmt.Errorf("open result store: %w", err)
	}

	if report, ok := p.cached(store, req, key); ok {
		return report, nil
	}

	store.AppendLog("run start pattern=%q orgs=%v k=%d language=%q", req.Pattern, req.Orgs, req.TopK, req.Language)

	matches, warnings, err := p.collect(ctx, req, store)
	if err != nil {
		return nil, err
	}

	candidates := Deduplicate(matches)
	if len(candidates) == 0 {
		store.AppendLog("run aborted: no candidates across %d orgs", len(req.Orgs))
		return nil, fmt.Errorf("%w: pattern %q in orgs %v", domain.ErrNoCandidates, req.Pattern, req.Orgs)
	}

	ranked := p.ranker.Rank(candidates, req.TopK, req.Language)
	store.AppendLog("ranked %d of %d candidates", len(ranked), len(candidates))

	orch := NewCloneOrchestrator(p.cloner, store).
		WithWorkers(p.opts.CloneWorkers).
		WithTimeout(p.opts.CloneTimeout)

	var clones []domain.CloneResult
	if req.SkipClone {
		clones = orch.SkipCloneAll(ranked)
	} else {
		clones = orch.CloneAll(ctx, ranked)
	}

	entries := make([]domain.ManifestEntry, len(ranked))
	for i := range ranked {
		entries[i] = domain.ManifestEntry{
			RepoCandidate: ranked[i],
			CloneStatus:   clones[i].Status,
			LocalPath:     clones[i].LocalPath,
		}
		if clones[i].Status == domain.CloneFailed {
			warnings = append(warnings, fmt.Sprintf("clone %s: %s", clones[i].Repo, clones[i].Error))
		}
	}

	if err := store.WriteManifest(entries); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}
	store.AppendLog("manifest written entries=%d warnings=%d", len(entries), len(warnings))

	// A cancelled run must not leave a marker suggesting freshness;
	// whatever reached disk stays valid for a skip-clone resume.
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	marker := domain.CacheMarker{QueryKey: key, CreatedAt: p.now(), TTL: p.opts.CacheTTL}
	if err := store.WriteMarker(marker); err != nil {
		return nil, fmt.Errorf("write cache marker: %w", err)
	}

	return &domain.Report{
		QueryKey:   key,
		Entries:    entries,
		Warnings:   warnings,
		ResultsDir: store.Dir(),
	}, nil
}

// cached serves a prior run when the marker is fresh, the manifest is
// readable and no forced refresh was requested. An unreadable
// manifest under a fresh marker is cache corruption and forces a full
// re-run rather than a crash.
func (p *Pipeline) cached(store driven.ResultStore, req domain.DiscoveryRequest, key string) (*domain.Report, bool) {
	if req.ForceRefresh {
		return nil, false
	}

	marker, ok := store.ReadMarker()
	if !ok || marker.QueryKey != key || !marker.Fresh(p.now()) {
		return nil, false
	}

	entries, err := store.LoadManifest()
	if err != nil {
		logger.Warn("cache marker fresh but manifest unreadable, re-running: %v", err)
		store.AppendLog("cache corrupt, forcing re-run: %v", err)
		return nil, false
	}

	logger.Info("cache hit for query key %s (age %s)", key, p.now().Sub(marker.CreatedAt).Round(time.Second))
	return &domain.Report{
		QueryKey:   key,
		FromCache:  true,
		Entries:    entries,
		ResultsDir: store.Dir(),
	}, true
}

// collect drains the crawler's lazy stream into memory. Values on the
// error channel are per-organization warnings, never fatal; only
// context cancellation terminates the run.
func (p *Pipeline) collect(ctx context.Context, req domain.DiscoveryRequest, store driven.ResultStore) ([]domain.SearchMatch, []string, error) {
	matchCh, errCh := p.crawler.Crawl(ctx, req, store.AppendLog)

	var matches []domain.SearchMatch
	var warnings []string

	for matchCh != nil || errCh != nil {
		select {
		case m, ok := <-matchCh:
			if !ok {
				matchCh = nil
				continue
			}
			matches = append(matches, m)

		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			warnings = append(warnings, err.Error())
			store.AppendLog("crawl warning: %v", err)

		case <-ctx.Done():
			return nil, warnings, ctx.Err()
		}
	}

	store.AppendLog("crawl complete matches=%d warnings=%d", len(matches), len(warnings))
	return matches, warnings, nil
}
