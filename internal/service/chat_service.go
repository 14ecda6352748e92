package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sitechat/internal/dto"
	"sitechat/internal/models"
	"sitechat/internal/repository"
	"sitechat/pkg/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrInvalidAPIKey = errors.New("invalid api key")

const noInformationAnswer = "I couldn't find any relevant information to answer your question."

const systemPromptEnglish = "You are a helpful customer support assistant. Answer the user's question using only the provided website content. " +
	"If the content does not contain the answer, say you don't have that information. Be concise and friendly."

const systemPromptAmharic = "You are a helpful customer support assistant. Answer the user's question in Amharic using only the provided website content. " +
	"If the content does not contain the answer, say in Amharic that you don't have that information. Be concise and friendly."

// ChatService answers widget questions over a project's indexed content.
// It is deliberately lenient: retrieval and logging failures degrade the
// answer instead of failing the request, so the widget never shows an
// opaque error to an end user.
type ChatService struct {
	projectRepo *repository.ProjectRepository
	chatLogRepo *repository.ChatLogRepository
	embedder    Embedder
	generator   Generator
	searcher    PassageSearcher
	config      *config.RAGConfig
	logger      *zap.Logger
}

func NewChatService(
	projectRepo *repository.ProjectRepository,
	chatLogRepo *repository.ChatLogRepository,
	embedder Embedder,
	generator Generator,
	searcher PassageSearcher,
	cfg *config.RAGConfig,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		projectRepo: projectRepo,
		chatLogRepo: chatLogRepo,
		embedder:    embedder,
		generator:   generator,
		searcher:    searcher,
		config:      cfg,
		logger:      logger,
	}
}

// Chat resolves the project by API key, retrieves the most relevant
// passages and synthesizes an answer.
func (s *ChatService) Chat(ctx context.Context, apiKey, question string) (*dto.ChatResponse, error) {
	project, err := s.projectRepo.GetByAPIKey(ctx, apiKey)
	if err != nil {
		return nil, ErrInvalidAPIKey
	}

	passages := s.retrieve(ctx, project, question)
	answer := s.synthesize(ctx, project, question, passages)

	s.appendLog(ctx, project.ID, question, answer)

	sources := make([]dto.ChatSource, 0, len(passages))
	for _, p := range passages {
		sources = append(sources, dto.ChatSource{Content: p.Content, Score: p.Score})
	}

	return &dto.ChatResponse{Answer: answer, Sources: sources}, nil
}

// retrieve embeds the question and searches the project's slice of the
// index. Any failure along the way yields zero passages, which the
// synthesis step turns into the no-information answer.
func (s *ChatService) retrieve(ctx context.Context, project *models.Project, question string) []Passage {
	vector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		s.logger.Warn("Question embedding failed, degrading to no passages",
			zap.String("project_id", project.ID.String()),
			zap.Error(err),
		)
		return nil
	}

	passages, err := s.searcher.Search(ctx, vector, project.ID.String(), s.config.TopK)
	if err != nil {
		s.logger.Warn("Passage search failed, degrading to no passages",
			zap.String("project_id", project.ID.String()),
			zap.Error(err),
		)
		return nil
	}

	return passages
}

func (s *ChatService) synthesize(ctx context.Context, project *models.Project, question string, passages []Passage) string {
	if len(passages) == 0 {
		return noInformationAnswer
	}

	systemPrompt := systemPromptEnglish
	if project.Language == models.LanguageAmharic || detectLanguage(question) == models.LanguageAmharic {
		systemPrompt = systemPromptAmharic
	}

	contents := make([]string, 0, len(passages))
	for _, p := range passages {
		contents = append(contents, p.Content)
	}
	userPrompt := fmt.Sprintf("Website content:\n%s\n\nQuestion: %s",
		strings.Join(contents, "\n---\n"), question)

	answer, err := s.generator.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		s.logger.Warn("Answer generation failed, falling back to top passage",
			zap.String("project_id", project.ID.String()),
			zap.Error(err),
		)
		return fallbackAnswer(passages[0].Content, s.config.FallbackChars)
	}

	return answer
}

// fallbackAnswer is served when the LLM is unavailable but retrieval
// worked: the raw top passage, capped.
func fallbackAnswer(content string, max int) string {
	truncated := truncateRunes(content, max)
	if truncated != content {
		truncated += "..."
	}
	return truncated
}

func (s *ChatService) appendLog(ctx context.Context, projectID uuid.UUID, question, answer string) {
	log := &models.ChatLog{
		ID:        uuid.New(),
		ProjectID: projectID,
		Question:  question,
		Answer:    answer,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.chatLogRepo.Create(ctx, log); err != nil {
		s.logger.Warn("Chat log write failed",
			zap.String("project_id", projectID.String()),
			zap.Error(err),
		)
	}
}

// History returns recent exchanges for a project owned by the caller.
func (s *ChatService) History(ctx context.Context, userID, projectID uuid.UUID, limit, offset int) ([]*models.ChatLog, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, ErrProjectNotFound
	}
	if project.UserID != userID {
		return nil, ErrProjectNotFound
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.chatLogRepo.ListByProjectID(ctx, projectID, limit, offset)
}
