package service

import (
	"context"
	"fmt"
	"time"

	"sitechat/pkg/urlguard"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// crawlRendered is the fallback crawl pass for JS-rendered sites. It runs
// the same BFS as the static pass but fetches each page through a headless
// browser. The browser process is scoped to this one call and torn down on
// every exit path.
func crawlRendered(ctx context.Context, seedURL string, maxDepth, maxPages int, navTimeout, settle time.Duration, logger *zap.Logger) ([]crawledPage, error) {
	l := launcher.New().Headless(true)
	wsURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(wsURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	defer func() {
		_ = browser.Close()
		l.Cleanup()
	}()

	fetcher := &browserFetcher{
		browser:    browser,
		navTimeout: navTimeout,
		settle:     settle,
		logger:     logger,
	}

	return crawlSite(ctx, seedURL, fetcher, maxDepth, maxPages, logger)
}

type browserFetcher struct {
	browser    *rod.Browser
	navTimeout time.Duration
	settle     time.Duration
	logger     *zap.Logger
}

func (f *browserFetcher) FetchPage(ctx context.Context, pageURL string) (string, []string, error) {
	if err := urlguard.Validate(ctx, pageURL); err != nil {
		return "", nil, err
	}

	page, err := f.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", nil, fmt.Errorf("open tab: %w", err)
	}
	defer page.Close()

	navCtx, cancel := context.WithTimeout(ctx, f.navTimeout)
	defer cancel()
	p := page.Context(navCtx)

	// Wait only for DOMContentLoaded, not network idle: trackers and
	// long-polling connections would otherwise hang the crawl.
	wait := p.WaitEvent(&proto.PageDomContentEventFired{})
	if err := p.Navigate(pageURL); err != nil {
		return "", nil, fmt.Errorf("navigate %s: %w", pageURL, err)
	}
	wait()

	// Short fixed settle for client-side rendering.
	select {
	case <-time.After(f.settle):
	case <-ctx.Done():
		return "", nil, ctx.Err()
	}

	res, err := p.Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return "", nil, fmt.Errorf("capture dom: %w", err)
	}
	content := res.Value.Str()

	links, err := f.collectLinks(p)
	if err != nil {
		f.logger.Warn("Failed to collect rendered links",
			zap.String("url", pageURL),
			zap.Error(err),
		)
		// Losing this page's outgoing links only narrows the crawl; the
		// captured content still gets indexed.
		return content, nil, nil
	}

	return content, links, nil
}

// collectLinks evaluates anchors in the rendered page, pre-filtered to
// same-origin non-fragment targets. The traversal engine applies the
// site containment rules again on top.
func (f *browserFetcher) collectLinks(p *rod.Page) ([]string, error) {
	res, err := p.Eval(`() => Array.from(document.querySelectorAll('a[href]'))
		.map(a => a.href)
		.filter(href => href && href.startsWith(window.location.origin) && !href.includes('#'))`)
	if err != nil {
		return nil, err
	}

	var links []string
	for _, v := range res.Value.Arr() {
		if href := v.Str(); href != "" {
			links = append(links, href)
		}
	}
	return links, nil
}
