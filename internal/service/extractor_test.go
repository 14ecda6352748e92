package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTextPlainPassthrough(t *testing.T) {
	got := extractText("https://example.com/readme", "  just plain text  ")
	assert.Equal(t, "just plain text", got)
}

func TestExtractTextStripsNoise(t *testing.T) {
	content := `<html><head><title>t</title><style>body{color:red}</style></head><body>
		<nav>Home About Contact</nav>
		<script>alert("hi")</script>
		<div class="ads">Buy now</div>
		<p>Our office opens at 9am every weekday.</p>
		<footer>Copyright 2024</footer>
	</body></html>`

	got := extractText("https://example.com", content)
	assert.Contains(t, got, "Our office opens at 9am")
	assert.NotContains(t, got, "alert")
	assert.NotContains(t, got, "color:red")
}

func TestExtractTextCollapsesWhitespace(t *testing.T) {
	content := "<html><body><p>line   one</p>\n\n<p>line\ttwo</p></body></html>"
	got := extractText("https://example.com", content)
	assert.Contains(t, got, "line one")
	assert.Contains(t, got, "line two")
	assert.NotContains(t, got, "  ")
}

func TestExtractTextEmptyPage(t *testing.T) {
	assert.Equal(t, "", extractText("https://example.com", "<html><body></body></html>"))
	assert.Equal(t, "", extractText("https://example.com", ""))
}

func TestCollapseWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", collapseWhitespace(" a\n b\t\tc "))
	assert.Equal(t, "", collapseWhitespace("   \n\t "))
}
