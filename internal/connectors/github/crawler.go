package github

import (
	"context"
	"fmt"
	"time"

	"github.com/patternscout/patternscout-cli/internal/core/domain"
	"github.com/patternscout/patternscout-cli/internal/core/ports/driven"
	"github.com/patternscout/patternscout-cli/internal/logger"
)

const (
	// PageSize is the fixed per-page result count.
	PageSize = 100

	// DefaultPageDelay is the fixed pause between successive pages of
	// one organization, on top of the rate limiter's pacing.
	DefaultPageDelay = 2 * time.Second
)

// searchAPI is the slice of Client the crawler needs. Tests
// substitute a scripted fake.
type searchAPI interface {
	SearchCode(ctx context.Context, query string, page, perPage int) ([]domain.SearchMatch, int, error)
}

// Ensure Crawler implements the driven port.
var _ driven.Crawler = (*Crawler)(nil)

// Crawler paginates the code-search API per organization. Pages
// within one organization are strictly sequential; a rate-limited
// page is retried with exponential backoff, and an organization whose
// retries are exhausted is abandoned with a warning while the crawl
// continues elsewhere.
type Crawler struct {
	api       searchAPI
	policy    domain.RetryPolicy
	pageDelay time.Duration
}

// NewCrawler creates a crawler over the given client.
func NewCrawler(api searchAPI, policy domain.RetryPolicy) *Crawler {
	return &Crawler{
		api:       api,
		policy:    policy,
		pageDelay: DefaultPageDelay,
	}
}

// WithPageDelay overrides the inter-page delay. Tests use zero.
func (c *Crawler) WithPageDelay(d time.Duration) *Crawler {
	c.pageDelay = d
	return c
}

// Crawl implements driven.Crawler. The returned stream is lazy,
// finite and non-restartable; restarting means re-issuing the crawl
// from page one.
func (c *Crawler) Crawl(ctx context.Context, req domain.DiscoveryRequest, logf driven.LogFunc) (<-chan domain.SearchMatch, <-chan error) {
	matchCh := make(chan domain.SearchMatch)
	errCh := make(chan error, len(req.Orgs))

	go func() {
		defer close(matchCh)
		defer close(errCh)

		remaining := req.EffectiveMaxResults()
		for _, org := range req.Orgs {
			if ctx.Err() != nil {
				return
			}
			if remaining <= 0 {
				return
			}

			emitted, err := c.crawlOrg(ctx, org, req, remaining, matchCh, logf)
			remaining -= emitted
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.Warn("abandoning org %s: %v", org, err)
				errCh <- fmt.Errorf("org %s abandoned: %w", org, err)
			}
		}
	}()

	return matchCh, errCh
}

// crawlOrg pages through one organization until the cap is reached, a
// page comes back empty, or the API signals no further pages. It
// returns the number of matches emitted.
func (c *Crawler) crawlOrg(
	ctx context.Context,
	org string,
	req domain.DiscoveryRequest,
	budget int,
	matchCh chan<- domain.SearchMatch,
	logf driven.LogFunc,
) (int, error) {
	query := buildQuery(req.Pattern, org, req.Language)
	emitted := 0

	for page := 1; page != 0; {
		matches, next, err := c.fetchPage(ctx, query, page, logf)
		if err != nil {
			return emitted, err
		}
		logf("page fetched org=%s page=%d hits=%d", org, page, len(matches))

		if len(matches) == 0 {
			return emitted, nil
		}

		for _, m := range matches {
			select {
			case matchCh <- m:
			case <-ctx.Done():
				return emitted, ctx.Err()
			}
			emitted++
			if emitted >= budget {
				return emitted, nil
			}
		}

		page = next
		if page != 0 && c.pageDelay > 0 {
			select {
			case <-time.After(c.pageDelay):
			case <-ctx.Done():
				return emitted, ctx.Err()
			}
		}
	}

	return emitted, nil
}

// fetchPage fetches one page, retrying transient failures per the
// injected policy. Backoff events go to the execution log.
func (c *Crawler) fetchPage(ctx context.Context, query string, page int, logf driven.LogFunc) ([]domain.SearchMatch, int, error) {
	var lastErr error

	for attempt := 1; attempt <= c.policy.MaxAttempts; attempt++ {
		matches, next, err := c.api.SearchCode(ctx, query, page, PageSize)
		if err == nil {
			return matches, next, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}
		if !IsTransient(err) {
			return nil, 0, err
		}
		if attempt == c.policy.MaxAttempts {
			break
		}

		delay := c.policy.Delay(attempt)
		logf("backoff query=%q page=%d attempt=%d delay=%s err=%v", query, page, attempt, delay, err)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, 0, ctx.Err()
		}
	}

	return nil, 0, fmt.Errorf("page %d: giving up after %d attempts: %w", page, c.policy.MaxAttempts, lastErr)
}

// buildQuery assembles the code-search query for one organization.
func buildQuery(pattern, org, language string) string {
	q := fmt.Sprintf("%q org:%s", pattern, org)
	if language != "" {
		q += " language:" + language
	}
	return q
}
