package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"sitechat/internal/models"
	"sitechat/pkg/config"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeGenerator struct {
	answer       string
	err          error
	called       bool
	systemPrompt string
	userPrompt   string
}

func (g *fakeGenerator) Complete(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	g.called = true
	g.systemPrompt = systemPrompt
	g.userPrompt = userPrompt
	return g.answer, g.err
}

func newTestChatService(gen *fakeGenerator) *ChatService {
	return &ChatService{
		generator: gen,
		config:    &config.RAGConfig{TopK: 5, FallbackChars: 500},
		logger:    zap.NewNop(),
	}
}

func englishProject() *models.Project {
	return &models.Project{Language: models.LanguageEnglish}
}

func TestSynthesizeNoPassages(t *testing.T) {
	gen := &fakeGenerator{answer: "should not be used"}
	s := newTestChatService(gen)

	answer := s.synthesize(context.Background(), englishProject(), "anything?", nil)

	assert.Equal(t, noInformationAnswer, answer)
	assert.False(t, gen.called, "generator must not run without context passages")
}

func TestSynthesizeBuildsPromptFromPassages(t *testing.T) {
	gen := &fakeGenerator{answer: "We open at 9am."}
	s := newTestChatService(gen)

	passages := []Passage{
		{Content: "Opening hours: 9am to 5pm."},
		{Content: "Closed on public holidays."},
	}
	answer := s.synthesize(context.Background(), englishProject(), "When do you open?", passages)

	assert.Equal(t, "We open at 9am.", answer)
	assert.Contains(t, gen.userPrompt, "Opening hours: 9am to 5pm.")
	assert.Contains(t, gen.userPrompt, "\n---\n")
	assert.Contains(t, gen.userPrompt, "When do you open?")
	assert.NotContains(t, gen.systemPrompt, "Amharic")
}

func TestSynthesizeGenerationFailureFallsBack(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("upstream down")}
	s := newTestChatService(gen)
	s.config.FallbackChars = 20

	long := strings.Repeat("a", 50)
	answer := s.synthesize(context.Background(), englishProject(), "q", []Passage{{Content: long}})

	assert.Equal(t, strings.Repeat("a", 20)+"...", answer)
}

func TestSynthesizeFallbackShortPassageUntruncated(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("upstream down")}
	s := newTestChatService(gen)

	answer := s.synthesize(context.Background(), englishProject(), "q", []Passage{{Content: "short answer"}})

	assert.Equal(t, "short answer", answer)
}

func TestSynthesizeAmharicQuestion(t *testing.T) {
	gen := &fakeGenerator{answer: "ok"}
	s := newTestChatService(gen)

	s.synthesize(context.Background(), englishProject(), "ሰላም፣ ስንት ሰዓት ትከፍታላችሁ?", []Passage{{Content: "hours"}})

	assert.Contains(t, gen.systemPrompt, "Amharic")
}

func TestSynthesizeProjectLanguageForcesAmharic(t *testing.T) {
	gen := &fakeGenerator{answer: "ok"}
	s := newTestChatService(gen)

	project := &models.Project{Language: models.LanguageAmharic}
	s.synthesize(context.Background(), project, "what are your hours?", []Passage{{Content: "hours"}})

	assert.Contains(t, gen.systemPrompt, "Amharic")
}

func TestFallbackAnswerRuneSafe(t *testing.T) {
	amharic := strings.Repeat("ሰ", 30)
	got := fallbackAnswer(amharic, 10)
	assert.Equal(t, strings.Repeat("ሰ", 10)+"...", got)
}
