package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"
)

// crawledPage is one fetched page: the final URL and its raw content.
type crawledPage struct {
	URL     string
	Content string
}

// pageFetcher retrieves a single page and reports the outgoing links it
// found, in document order. The static and rendering crawlers differ only
// in how they implement this.
type pageFetcher interface {
	FetchPage(ctx context.Context, pageURL string) (content string, links []string, err error)
}

// crawlSite walks a site breadth-first from seedURL. It never fetches more
// than maxPages pages and never follows a path longer than maxDepth hops
// from the seed. Per-page fetch failures are logged and skipped; only a
// broken seed URL or context cancellation aborts the whole crawl.
func crawlSite(ctx context.Context, seedURL string, fetcher pageFetcher, maxDepth, maxPages int, logger *zap.Logger) ([]crawledPage, error) {
	seed, err := url.Parse(seedURL)
	if err != nil {
		return nil, fmt.Errorf("parse seed url: %w", err)
	}

	type queueEntry struct {
		url   string
		depth int
	}

	visited := make(map[string]bool)
	queue := []queueEntry{{url: seedURL, depth: 0}}
	var results []crawledPage

	for len(queue) > 0 && len(results) < maxPages {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		entry := queue[0]
		queue = queue[1:]

		key := normalizeURL(entry.url)
		if visited[key] || entry.depth > maxDepth {
			continue
		}
		visited[key] = true

		content, links, err := fetcher.FetchPage(ctx, entry.url)
		if err != nil {
			logger.Warn("Failed to crawl page",
				zap.String("url", entry.url),
				zap.Int("depth", entry.depth),
				zap.Error(err),
			)
			continue
		}

		results = append(results, crawledPage{URL: entry.url, Content: content})

		if entry.depth >= maxDepth || len(results) >= maxPages {
			continue
		}

		for _, link := range links {
			resolved, ok := resolveLink(entry.url, link)
			if !ok || !sameSite(seed, resolved) {
				continue
			}
			abs := resolved.String()
			if !visited[normalizeURL(abs)] {
				queue = append(queue, queueEntry{url: abs, depth: entry.depth + 1})
			}
		}
	}

	return results, nil
}

// resolveLink resolves href against the page it appeared on and drops
// fragment-only and non-navigable links.
func resolveLink(pageURL, href string) (*url.URL, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return nil, false
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, false
	}
	resolved, err := base.Parse(href)
	if err != nil {
		return nil, false
	}
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return nil, false
	}
	resolved.Fragment = ""

	return resolved, true
}

// sameSite reports whether candidate belongs to the seed's site. Hosts are
// compared by registrable domain (eTLD+1), so docs.example.com counts as
// example.com while example.com.evil.com does not. Hosts with no
// registrable domain (IP literals) must match exactly.
func sameSite(seed *url.URL, candidate *url.URL) bool {
	seedHost := strings.ToLower(seed.Hostname())
	candHost := strings.ToLower(candidate.Hostname())
	if seedHost == candHost {
		return true
	}

	seedDomain, err := publicsuffix.EffectiveTLDPlusOne(seedHost)
	if err != nil {
		return false
	}
	candDomain, err := publicsuffix.EffectiveTLDPlusOne(candHost)
	if err != nil {
		return false
	}

	return seedDomain == candDomain
}

// normalizeURL is the visited-set key: fragments never identify distinct
// pages.
func normalizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.Fragment = ""
	return u.String()
}
