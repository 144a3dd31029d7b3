package github

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patternscout/patternscout-cli/internal/core/domain"
)

// page is one scripted response from the fake search API.
type page struct {
	matches []domain.SearchMatch
	next    int
	err     error
}

// fakeSearchAPI replays scripted pages keyed by (query, page).
type fakeSearchAPI struct {
	pages map[string][]page // query -> attempt sequence per page
	calls []string
	// seen tracks per (query,page) attempt counts so scripted errors
	// can be consumed once and then succeed.
	seen map[string]int
}

func newFakeSearchAPI() *fakeSearchAPI {
	return &fakeSearchAPI{
		pages: make(map[string][]page),
		seen:  make(map[string]int),
	}
}

func (f *fakeSearchAPI) script(query string, pageNum int, responses ...page) {
	key := fmt.Sprintf("%s|%d", query, pageNum)
	f.pages[key] = responses
}

func (f *fakeSearchAPI) SearchCode(_ context.Context, query string, pageNum, _ int) ([]domain.SearchMatch, int, error) {
	key := fmt.Sprintf("%s|%d", query, pageNum)
	f.calls = append(f.calls, key)

	responses, ok := f.pages[key]
	if !ok {
		return nil, 0, fmt.Errorf("unexpected request %s", key)
	}

	idx := f.seen[key]
	if idx >= len(responses) {
		idx = len(responses) - 1
	}
	f.seen[key]++

	p := responses[idx]
	return p.matches, p.next, p.err
}

func hits(repo string, paths ...string) []domain.SearchMatch {
	out := make([]domain.SearchMatch, 0, len(paths))
	for _, p := range paths {
		out = append(out, domain.SearchMatch{RepoFullName: repo, FilePath: p})
	}
	return out
}

// fastPolicy retries immediately so tests run in microseconds.
func fastPolicy() domain.RetryPolicy {
	return domain.RetryPolicy{MaxAttempts: 3, BaseDelay: time.Microsecond, Multiplier: 2}
}

func collect(t *testing.T, c *Crawler, req domain.DiscoveryRequest) ([]domain.SearchMatch, []error) {
	t.Helper()
	matchCh, errCh := c.Crawl(context.Background(), req, func(string, ...any) {})

	var matches []domain.SearchMatch
	var warns []error
	for matchCh != nil || errCh != nil {
		select {
		case m, ok := <-matchCh:
			if !ok {
				matchCh = nil
				continue
			}
			matches = append(matches, m)
		case e, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			warns = append(warns, e)
		}
	}
	return matches, warns
}

func TestCrawlPaginatesUntilLastPage(t *testing.T) {
	api := newFakeSearchAPI()
	query := buildQuery("NetworkPolicy", "openshift", "")
	api.script(query, 1, page{matches: hits("openshift/a", "1.go", "2.go"), next: 2})
	api.script(query, 2, page{matches: hits("openshift/b", "3.go"), next: 0})

	crawler := NewCrawler(api, fastPolicy()).WithPageDelay(0)
	matches, warns := collect(t, crawler, domain.DiscoveryRequest{
		Pattern: "NetworkPolicy",
		Orgs:    []string{"openshift"},
		TopK:    5,
	})

	assert.Empty(t, warns)
	require.Len(t, matches, 3)
	assert.Equal(t, []string{query + "|1", query + "|2"}, api.calls)
}

func TestCrawlStopsOnEmptyPage(t *testing.T) {
	api := newFakeSearchAPI()
	query := buildQuery("Factory", "org", "")
	api.script(query, 1, page{matches: nil, next: 2})

	crawler := NewCrawler(api, fastPolicy()).WithPageDelay(0)
	matches, warns := collect(t, crawler, domain.DiscoveryRequest{
		Pattern: "Factory",
		Orgs:    []string{"org"},
		TopK:    5,
	})

	assert.Empty(t, matches)
	assert.Empty(t, warns)
	assert.Len(t, api.calls, 1, "an empty page ends the org crawl")
}

func TestCrawlHonoursMaxResults(t *testing.T) {
	api := newFakeSearchAPI()
	query := buildQuery("Observer", "org", "")
	api.script(query, 1, page{matches: hits("org/a", "1.go", "2.go", "3.go"), next: 2})

	crawler := NewCrawler(api, fastPolicy()).WithPageDelay(0)
	matches, _ := collect(t, crawler, domain.DiscoveryRequest{
		Pattern:    "Observer",
		Orgs:       []string{"org"},
		TopK:       5,
		MaxResults: 2,
	})

	assert.Len(t, matches, 2)
	assert.Len(t, api.calls, 1, "no second page once the cap is hit")
}

func TestCrawlRetriesRateLimitThenSucceeds(t *testing.T) {
	api := newFakeSearchAPI()
	query := buildQuery("Singleton", "org", "")
	api.script(query, 1,
		page{err: &RateLimitError{ResetAt: time.Now()}},
		page{matches: hits("org/a", "1.go"), next: 0},
	)

	crawler := NewCrawler(api, fastPolicy()).WithPageDelay(0)
	matches, warns := collect(t, crawler, domain.DiscoveryRequest{
		Pattern: "Singleton",
		Orgs:    []string{"org"},
		TopK:    5,
	})

	assert.Empty(t, warns)
	assert.Len(t, matches, 1)
	assert.Len(t, api.calls, 2)
}

func TestCrawlAbandonsOrgAfterExhaustedRetries(t *testing.T) {
	// Exhausted retries abandon the org with a warning; the crawl
	// continues with other organizations.
	api := newFakeSearchAPI()
	limited := buildQuery("Adapter", "limited", "")
	healthy := buildQuery("Adapter", "healthy", "")
	api.script(limited, 1, page{err: &RateLimitError{ResetAt: time.Now()}})
	api.script(healthy, 1, page{matches: hits("healthy/a", "1.go"), next: 0})

	crawler := NewCrawler(api, fastPolicy()).WithPageDelay(0)
	matches, warns := collect(t, crawler, domain.DiscoveryRequest{
		Pattern: "Adapter",
		Orgs:    []string{"limited", "healthy"},
		TopK:    5,
	})

	require.Len(t, warns, 1)
	assert.Contains(t, warns[0].Error(), "limited")
	require.Len(t, matches, 1)
	assert.Equal(t, "healthy/a", matches[0].RepoFullName)
}

func TestCrawlNonTransientErrorSkipsRetries(t *testing.T) {
	api := newFakeSearchAPI()
	query := buildQuery("Builder", "org", "")
	api.script(query, 1, page{err: &APIError{StatusCode: 422, Message: "validation failed"}})

	crawler := NewCrawler(api, fastPolicy()).WithPageDelay(0)
	_, warns := collect(t, crawler, domain.DiscoveryRequest{
		Pattern: "Builder",
		Orgs:    []string{"org"},
		TopK:    5,
	})

	require.Len(t, warns, 1)
	assert.Len(t, api.calls, 1, "a 422 is not retried")
}

func TestCrawlCancellation(t *testing.T) {
	api := newFakeSearchAPI()
	query := buildQuery("Proxy", "org", "")
	api.script(query, 1, page{matches: hits("org/a", "1.go"), next: 2})
	api.script(query, 2, page{matches: hits("org/a", "2.go"), next: 0})

	ctx, cancel := context.WithCancel(context.Background())
	crawler := NewCrawler(api, fastPolicy()).WithPageDelay(time.Hour)

	matchCh, errCh := crawler.Crawl(ctx, domain.DiscoveryRequest{
		Pattern: "Proxy",
		Orgs:    []string{"org"},
		TopK:    5,
	}, func(string, ...any) {})

	<-matchCh // first match arrives
	cancel()  // then the run is cancelled during the page delay

	deadline := time.After(time.Second)
	for matchCh != nil || errCh != nil {
		select {
		case _, ok := <-matchCh:
			if !ok {
				matchCh = nil
			}
		case _, ok := <-errCh:
			if !ok {
				errCh = nil
			}
		case <-deadline:
			t.Fatal("crawl did not terminate after cancellation")
		}
	}
}

func TestBuildQuery(t *testing.T) {
	assert.Equal(t, `"NetworkPolicy" org:openshift`, buildQuery("NetworkPolicy", "openshift", ""))

	q := buildQuery("NetworkPolicy", "openshift", "go")
	assert.True(t, strings.HasSuffix(q, " language:go"))
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(&RateLimitError{}))
	assert.True(t, IsTransient(&APIError{StatusCode: 429}))
	assert.True(t, IsTransient(&APIError{StatusCode: 403}))
	assert.True(t, IsTransient(&APIError{StatusCode: 502}))
	assert.False(t, IsTransient(&APIError{StatusCode: 404}))
	assert.False(t, IsTransient(&APIError{StatusCode: 422}))
	assert.False(t, IsTransient(errors.New("plain")))
	assert.False(t, IsTransient(nil))
}
