package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sitechat/pkg/config"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// ErrUpstreamUnavailable marks embedding/generation provider failures:
// missing credential, network error, quota. A failed embedding aborts that
// document's indexing; a failed generation is masked by the chat fallback.
var ErrUpstreamUnavailable = errors.New("upstream provider unavailable")

// Embedder turns text into a fixed-dimension dense vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Generator produces a completion for a system/user prompt pair.
type Generator interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// LLMService wraps the OpenAI client for both embeddings and chat
// completions.
type LLMService struct {
	client *openai.Client
	config *config.OpenAIConfig
	logger *zap.Logger
}

func NewLLMService(cfg *config.OpenAIConfig, logger *zap.Logger) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY is not set", ErrUpstreamUnavailable)
	}

	return &LLMService{
		client: openai.NewClient(cfg.APIKey),
		config: cfg,
		logger: logger,
	}, nil
}

// Embed returns the embedding vector for text. It never substitutes a zero
// vector on failure: a silently corrupted embedding would poison retrieval.
func (s *LLMService) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(s.config.EmbeddingModel),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create embeddings: %v", ErrUpstreamUnavailable, err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: empty embedding response", ErrUpstreamUnavailable)
	}

	return resp.Data[0].Embedding, nil
}

func (s *LLMService) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.config.ChatModel,
		MaxTokens:   s.config.MaxTokens,
		Temperature: 0.3,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: chat completion: %v", ErrUpstreamUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion response", ErrUpstreamUnavailable)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
