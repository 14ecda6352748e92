package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestExtractPagesDropsEmptyAndCarriesText(t *testing.T) {
	s := &IngestionService{logger: zap.NewNop()}

	pages := []crawledPage{
		{URL: "https://example.com", Content: "<html><body><p>Opening hours are 9 to 5.</p></body></html>"},
		{URL: "https://example.com/empty", Content: "<html><body></body></html>"},
		{URL: "https://example.com/plain", Content: "plain text page"},
	}

	extracted := s.extractPages(pages)

	assert.Len(t, extracted, 2)
	assert.Equal(t, "https://example.com", extracted[0].URL)
	assert.Contains(t, extracted[0].Text, "Opening hours are 9 to 5.")
	assert.Equal(t, "https://example.com/plain", extracted[1].URL)
	assert.Equal(t, "plain text page", extracted[1].Text)
}

func TestExtractPagesSanitizes(t *testing.T) {
	s := &IngestionService{logger: zap.NewNop()}

	extracted := s.extractPages([]crawledPage{
		{URL: "https://example.com", Content: "broken \xff bytes"},
	})

	assert.Len(t, extracted, 1)
	assert.Equal(t, "broken  bytes", extracted[0].Text)
}
