package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"sitechat/pkg/urlguard"

	"github.com/stretchr/testify/assert"
)

func TestStaticFetcherRefusesLoopbackTarget(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html><body>internal</body></html>"))
	}))
	defer srv.Close()

	fetcher := newStaticFetcher(srv.Client(), "test-agent")
	_, _, err := fetcher.FetchPage(context.Background(), srv.URL)
	assert.ErrorIs(t, err, urlguard.ErrBlocked)
}

func TestExtractHrefs(t *testing.T) {
	content := `<html><body>
		<a href="/first">One</a>
		<p><a href="https://example.com/second">Two</a></p>
		<a>no href</a>
		<a href="#frag">Three</a>
	</body></html>`

	hrefs := extractHrefs(content)
	assert.Equal(t, []string{"/first", "https://example.com/second", "#frag"}, hrefs)
}

func TestExtractHrefsInvalidMarkup(t *testing.T) {
	assert.Empty(t, extractHrefs("not markup at all"))
}
