package service

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePage struct {
	content string
	links   []string
	err     error
}

type fakeFetcher struct {
	pages   map[string]fakePage
	fetched []string
}

func (f *fakeFetcher) FetchPage(_ context.Context, pageURL string) (string, []string, error) {
	f.fetched = append(f.fetched, pageURL)
	page, ok := f.pages[pageURL]
	if !ok {
		return "", nil, errors.New("not found")
	}
	return page.content, page.links, page.err
}

func TestCrawlSiteFollowsSameSiteLinks(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]fakePage{
		"https://example.com": {
			content: "home",
			links: []string{
				"/about",
				"https://docs.example.com/guide",
				"https://evil.com/phish",
				"https://example.com.evil.com/phish",
				"mailto:hi@example.com",
				"#section",
			},
		},
		"https://example.com/about":          {content: "about"},
		"https://docs.example.com/guide":     {content: "guide"},
		"https://evil.com/phish":             {content: "never"},
		"https://example.com.evil.com/phish": {content: "never"},
	}}

	pages, err := crawlSite(context.Background(), "https://example.com", fetcher, 2, 50, zap.NewNop())
	require.NoError(t, err)

	urls := make([]string, 0, len(pages))
	for _, p := range pages {
		urls = append(urls, p.URL)
	}
	assert.Equal(t, []string{
		"https://example.com",
		"https://example.com/about",
		"https://docs.example.com/guide",
	}, urls)
	assert.NotContains(t, fetcher.fetched, "https://evil.com/phish")
	assert.NotContains(t, fetcher.fetched, "https://example.com.evil.com/phish")
}

func TestCrawlSiteRespectsMaxPages(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]fakePage{
		"https://example.com": {
			content: "home",
			links:   []string{"/a", "/b", "/c", "/d"},
		},
		"https://example.com/a": {content: "a"},
		"https://example.com/b": {content: "b"},
		"https://example.com/c": {content: "c"},
		"https://example.com/d": {content: "d"},
	}}

	pages, err := crawlSite(context.Background(), "https://example.com", fetcher, 2, 3, zap.NewNop())
	require.NoError(t, err)
	assert.Len(t, pages, 3)
	assert.Len(t, fetcher.fetched, 3)
}

func TestCrawlSiteRespectsMaxDepth(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]fakePage{
		"https://example.com":    {content: "home", links: []string{"/l1"}},
		"https://example.com/l1": {content: "one", links: []string{"/l2"}},
		"https://example.com/l2": {content: "two", links: []string{"/l3"}},
		"https://example.com/l3": {content: "three"},
	}}

	pages, err := crawlSite(context.Background(), "https://example.com", fetcher, 1, 50, zap.NewNop())
	require.NoError(t, err)
	assert.Len(t, pages, 2)
	assert.NotContains(t, fetcher.fetched, "https://example.com/l2")
}

func TestCrawlSiteDeduplicatesByFragment(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]fakePage{
		"https://example.com": {
			content: "home",
			links:   []string{"/page", "/page#intro", "/page#details"},
		},
		"https://example.com/page": {content: "page"},
	}}

	pages, err := crawlSite(context.Background(), "https://example.com", fetcher, 2, 50, zap.NewNop())
	require.NoError(t, err)
	assert.Len(t, pages, 2)
	assert.Len(t, fetcher.fetched, 2)
}

func TestCrawlSiteSkipsFailedPages(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]fakePage{
		"https://example.com": {
			content: "home",
			links:   []string{"/broken", "/ok"},
		},
		"https://example.com/broken": {err: errors.New("HTTP 500")},
		"https://example.com/ok":     {content: "ok"},
	}}

	pages, err := crawlSite(context.Background(), "https://example.com", fetcher, 2, 50, zap.NewNop())
	require.NoError(t, err)
	assert.Len(t, pages, 2)
}

func TestCrawlSiteStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &fakeFetcher{pages: map[string]fakePage{
		"https://example.com": {content: "home"},
	}}

	_, err := crawlSite(ctx, "https://example.com", fetcher, 2, 50, zap.NewNop())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, fetcher.fetched)
}

func TestSameSite(t *testing.T) {
	tests := []struct {
		name      string
		seed      string
		candidate string
		want      bool
	}{
		{"identical host", "https://example.com", "https://example.com/page", true},
		{"subdomain", "https://example.com", "https://docs.example.com", true},
		{"sibling subdomain", "https://www.example.com", "https://api.example.com", true},
		{"different domain", "https://example.com", "https://other.com", false},
		{"suffix spoof", "https://example.com", "https://example.com.evil.com", false},
		{"ip literal exact", "https://93.184.216.34", "https://93.184.216.34/page", true},
		{"ip literal other", "https://93.184.216.34", "https://93.184.216.35", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seed := mustParse(t, tt.seed)
			cand := mustParse(t, tt.candidate)
			assert.Equal(t, tt.want, sameSite(seed, cand))
		})
	}
}

func mustParse(t *testing.T, rawURL string) *url.URL {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	return u
}

func TestResolveLink(t *testing.T) {
	tests := []struct {
		name string
		href string
		want string
		ok   bool
	}{
		{"relative", "/about", "https://example.com/about", true},
		{"absolute", "https://example.com/x", "https://example.com/x", true},
		{"fragment only", "#top", "", false},
		{"mailto", "mailto:hi@example.com", "", false},
		{"javascript", "javascript:void(0)", "", false},
		{"empty", "  ", "", false},
		{"fragment stripped", "/page#intro", "https://example.com/page", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved, ok := resolveLink("https://example.com/", tt.href)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, resolved.String())
			}
		})
	}
}
