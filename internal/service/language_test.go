package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"ethiopic script", "ሰላም እንዴት ነህ", "am"},
		{"single ethiopic rune", "price is ብር 100", "am"},
		{"transliterated greeting", "Selam, how are you?", "am"},
		{"transliterated thanks", "amesegnalehu for the help", "am"},
		{"transliterated ok", "ishi, that works", "am"},
		{"english", "What are your opening hours?", "en"},
		{"english containing selamander-like word", "the salamander hid", "en"},
		{"finish not ishi", "please finish the report", "en"},
		{"empty", "", "en"},
		{"whitespace", "   ", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detectLanguage(tt.text))
		})
	}
}
