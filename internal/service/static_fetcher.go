package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"sitechat/pkg/urlguard"

	"github.com/PuerkitoBio/goquery"
)

const maxPageBytes = 10 << 20 // 10 MB

// staticFetcher is the first crawl pass: plain HTTP GET through the
// guarded client, link discovery from the response markup.
type staticFetcher struct {
	client    *http.Client
	userAgent string
}

func newStaticFetcher(client *http.Client, userAgent string) *staticFetcher {
	return &staticFetcher{
		client:    client,
		userAgent: userAgent,
	}
}

func (f *staticFetcher) FetchPage(ctx context.Context, pageURL string) (string, []string, error) {
	// The guarded transport re-checks the dial target, but validating here
	// rejects bad targets before a request is even built.
	if err := urlguard.Validate(ctx, pageURL); err != nil {
		return "", nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", nil, fmt.Errorf("read body: %w", err)
	}

	content := string(body)
	return content, extractHrefs(content), nil
}

// extractHrefs returns raw anchor hrefs in document order. Resolution and
// same-site filtering happen in the traversal engine.
func extractHrefs(content string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil
	}

	var hrefs []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok {
			hrefs = append(hrefs, href)
		}
	})
	return hrefs
}
