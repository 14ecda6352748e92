package service

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// noiseSelector lists elements and classes that carry navigation or ad
// boilerplate rather than page content.
const noiseSelector = "script, style, noscript, nav, footer, header, aside, .nav, .menu, .advertisement, .ads"

// extractText turns raw page content into clean retrievable text. HTML goes
// through readability first; when that fails or finds nothing, a
// DOM-stripping fallback takes the de-noised body text. The function never
// fails: unextractable input yields an empty string and the caller skips
// the page.
func extractText(pageURL, content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "<") {
		// Not HTML-shaped, keep as-is.
		return trimmed
	}

	if parsed, err := url.Parse(pageURL); err == nil {
		article, err := readability.FromReader(strings.NewReader(content), parsed)
		if err == nil {
			if text := collapseWhitespace(article.TextContent); text != "" {
				return text
			}
		}
	}

	return stripBodyText(content)
}

// stripBodyText is the fallback tier: parse, drop known noise elements,
// keep whatever text the body still holds.
func stripBodyText(content string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return ""
	}

	doc.Find(noiseSelector).Remove()

	text := doc.Find("body").Text()
	if strings.TrimSpace(text) == "" {
		text = doc.Text()
	}
	return collapseWhitespace(text)
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
