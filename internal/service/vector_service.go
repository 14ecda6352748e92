package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sitechat/pkg/config"

	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
)

// Passage is retrieved context for one chat request: the stored payload
// content plus its similarity score.
type Passage struct {
	Content    string
	DocumentID string
	Score      float32
}

// PassageSearcher is the retrieval half of the vector index, as the chat
// path sees it.
type PassageSearcher interface {
	Search(ctx context.Context, vector []float32, projectID string, limit int) ([]Passage, error)
}

// DocumentIndexer is the write half, as the ingestion path sees it.
type DocumentIndexer interface {
	EnsureCollection(ctx context.Context) error
	Upsert(ctx context.Context, documentID, projectID string, vector []float32, content string) error
}

// VectorService stores and searches document embeddings in Qdrant. The
// collection is shared across all projects; isolation is enforced purely
// through the project_id payload filter.
type VectorService struct {
	client          *qdrant.Client
	collection      string
	vectorSize      uint64
	payloadMaxChars int
	logger          *zap.Logger
}

func NewVectorService(cfg *config.QdrantConfig, payloadMaxChars int, logger *zap.Logger) (*VectorService, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: cfg.Host,
		Port: cfg.Port,
	})
	if err != nil {
		return nil, fmt.Errorf("create qdrant client: %w", err)
	}

	return &VectorService{
		client:          client,
		collection:      cfg.Collection,
		vectorSize:      cfg.VectorSize,
		payloadMaxChars: payloadMaxChars,
		logger:          logger,
	}, nil
}

// EnsureCollection creates the shared collection if it does not exist yet.
// An already-existing collection is success, not an error.
func (s *VectorService) EnsureCollection(ctx context.Context) error {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("check collection: %w", err)
	}
	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     s.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		// Concurrent creation races to the same end state.
		if strings.Contains(err.Error(), "already exists") {
			return nil
		}
		return fmt.Errorf("create collection: %w", err)
	}

	s.logger.Info("Vector collection created",
		zap.String("collection", s.collection),
		zap.Uint64("vector_size", s.vectorSize),
	)
	return nil
}

// Upsert writes one point keyed by document id; re-upserting the same id
// replaces it. The payload content is capped so index storage stays
// bounded.
func (s *VectorService) Upsert(ctx context.Context, documentID, projectID string, vector []float32, content string) error {
	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(documentID),
		Vectors: qdrant.NewVectors(vector...),
		Payload: qdrant.NewValueMap(map[string]any{
			"project_id":  projectID,
			"document_id": documentID,
			"content":     truncateRunes(content, s.payloadMaxChars),
			"created_at":  time.Now().UTC().Format(time.RFC3339),
		}),
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Wait:           qdrant.PtrOf(true),
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("upsert point: %w", err)
	}
	return nil
}

// Search returns the top-scoring passages for the given project. The
// project filter is a mandatory must-match predicate: a higher-similarity
// hit from another project is never returned.
func (s *VectorService) Search(ctx context.Context, vector []float32, projectID string, limit int) ([]Passage, error) {
	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(vector...),
		Filter: &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("project_id", projectID),
			},
		},
		Limit:       qdrant.PtrOf(uint64(limit)),
		WithPayload: qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("query points: %w", err)
	}

	passages := make([]Passage, 0, len(points))
	for _, pt := range points {
		content := pt.GetPayload()["content"].GetStringValue()
		if content == "" {
			continue
		}
		passages = append(passages, Passage{
			Content:    content,
			DocumentID: pt.GetPayload()["document_id"].GetStringValue(),
			Score:      pt.GetScore(),
		})
	}

	return passages, nil
}

// truncateRunes cuts s to at most max runes, keeping multi-byte text
// intact.
func truncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
