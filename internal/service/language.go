package service

import (
	"regexp"
	"strings"
	"unicode"
)

// Transliterated Amharic words commonly typed in Latin script. Matching is
// word-anchored so common English text does not trip it.
var amharicTransliterations = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bselam\b`),
	regexp.MustCompile(`(?i)\btena\s*yistilign\b`),
	regexp.MustCompile(`(?i)\bmerhaba?\b`),
	regexp.MustCompile(`(?i)\bamesegn\w*\b`),
	regexp.MustCompile(`(?i)\bendet\s+ne(h|sh|achu)\b`),
	regexp.MustCompile(`(?i)\bdehna\b`),
	regexp.MustCompile(`(?i)\bikirta\b`),
	regexp.MustCompile(`(?i)\bbetam\b`),
	regexp.MustCompile(`(?i)\bishi\b`),
}

// detectLanguage classifies a message as Amharic ("am") or English ("en").
// Any Ethiopic-script rune is authoritative; otherwise a small set of
// transliterated greetings is checked.
func detectLanguage(text string) string {
	for _, r := range text {
		if unicode.Is(unicode.Ethiopic, r) {
			return "am"
		}
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "en"
	}
	for _, re := range amharicTransliterations {
		if re.MatchString(trimmed) {
			return "am"
		}
	}
	return "en"
}
