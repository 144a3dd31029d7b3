package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/patternscout/patternscout-cli/internal/core/domain"
	"github.com/patternscout/patternscout-cli/internal/logger"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// repoMeta is the repository metadata attached to every match.
type repoMeta struct {
	htmlURL    string
	stars      int
	lastPushAt time.Time
	language   string
}

// Client wraps the go-github client for code search. An empty token
// yields an unauthenticated client: lower throughput, same behaviour.
type Client struct {
	gh          *gh.Client
	rateLimiter *RateLimiter

	// meta caches per-repository metadata so repositories appearing
	// in many matches are enriched with a single extra API call.
	metaMu sync.Mutex
	meta   map[string]repoMeta
}

// NewClient creates a GitHub API client. The token is optional.
func NewClient(ctx context.Context, token string) *Client {
	var hc *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		hc = oauth2.NewClient(ctx, ts)
	} else {
		hc = &http.Client{}
	}
	hc.Timeout = DefaultTimeout

	return &Client{
		gh:          gh.NewClient(hc),
		rateLimiter: NewRateLimiter(),
		meta:        make(map[string]repoMeta),
	}
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// SearchCode fetches one page of code-search results and converts
// them into domain records. It returns the next page number, zero
// when the API signals no further pages.
func (c *Client) SearchCode(ctx context.Context, query string, page, perPage int) ([]domain.SearchMatch, int, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, 0, fmt.Errorf("rate limit wait: %w", err)
	}

	opts := &gh.SearchOptions{
		ListOptions: gh.ListOptions{Page: page, PerPage: perPage},
	}
	result, resp, err := c.gh.Search.Code(ctx, query, opts)
	if resp != nil && resp.Response != nil {
		c.rateLimiter.UpdateFromResponse(resp.Response)
	}
	if err != nil {
		return nil, 0, c.wrapError(err, "search code")
	}

	matches := make([]domain.SearchMatch, 0, len(result.CodeResults))
	for _, cr := range result.CodeResults {
		m, ok := c.toMatch(ctx, cr)
		if !ok {
			continue
		}
		matches = append(matches, m)
	}

	next := 0
	if resp != nil {
		next = resp.NextPage
	}
	return matches, next, nil
}

// toMatch converts a loosely-typed API result into a strict domain
// record. Unknown or missing fields fail closed to zero values; a
// result without a repository name is dropped entirely.
func (c *Client) toMatch(ctx context.Context, cr *gh.CodeResult) (domain.SearchMatch, bool) {
	repo := cr.GetRepository()
	fullName := repo.GetFullName()
	if fullName == "" {
		return domain.SearchMatch{}, false
	}

	meta := c.repoMeta(ctx, fullName, repo)

	return domain.SearchMatch{
		RepoFullName: fullName,
		FilePath:     cr.GetPath(),
		HTMLURL:      cr.GetHTMLURL(),
		RepoHTMLURL:  meta.htmlURL,
		Stars:        meta.stars,
		LastPushAt:   meta.lastPushAt,
		Language:     meta.language,
	}, true
}

// repoMeta returns metadata for a repository, enriching the sparse
// repository object embedded in code-search results with one cached
// Repositories.Get call. Enrichment failures fail closed to whatever
// the embedded object carried.
func (c *Client) repoMeta(ctx context.Context, fullName string, embedded *gh.Repository) repoMeta {
	c.metaMu.Lock()
	if m, ok := c.meta[fullName]; ok {
		c.metaMu.Unlock()
		return m
	}
	c.metaMu.Unlock()

	m := repoMeta{
		htmlURL:    embedded.GetHTMLURL(),
		stars:      embedded.GetStargazersCount(),
		lastPushAt: embedded.GetPushedAt().Time,
		language:   embedded.GetLanguage(),
	}

	// Code-search results embed a minimal repository object; fetch
	// the full one when the ranking signals are absent.
	if m.stars == 0 && m.lastPushAt.IsZero() {
		owner, name, ok := strings.Cut(fullName, "/")
		if ok {
			if err := c.rateLimiter.Wait(ctx); err == nil {
				full, resp, err := c.gh.Repositories.Get(ctx, owner, name)
				if resp != nil && resp.Response != nil {
					c.rateLimiter.UpdateFromResponse(resp.Response)
				}
				if err == nil {
					m.htmlURL = full.GetHTMLURL()
					m.stars = full.GetStargazersCount()
					m.lastPushAt = full.GetPushedAt().Time
					m.language = full.GetLanguage()
				} else {
					logger.Debug("repo metadata fetch failed for %s: %v", fullName, err)
				}
			}
		}
	}

	c.metaMu.Lock()
	c.meta[fullName] = m
	c.metaMu.Unlock()
	return m
}

// wrapError converts go-github errors to our error types.
func (c *Client) wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &RateLimitError{
			ResetAt:   c.rateLimiter.ResetTime(),
			Remaining: c.rateLimiter.Remaining(),
		}
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		resetAt := time.Now().Add(abuseErr.GetRetryAfter())
		return &RateLimitError{ResetAt: resetAt}
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return &APIError{
			StatusCode: ghErr.Response.StatusCode,
			Message:    ghErr.Message,
		}
	}

	return fmt.Errorf("%s: %w", operation, err)
}
