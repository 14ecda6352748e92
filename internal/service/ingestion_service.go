package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sitechat/internal/dto"
	"sitechat/internal/models"
	"sitechat/internal/repository"
	"sitechat/pkg/config"
	"sitechat/pkg/urlguard"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidURL      = errors.New("invalid website url")
	ErrProjectNotFound = errors.New("project not found")
)

// IngestionService crawls a project's website and indexes each page:
// fetch, extract, embed, upsert. A page failing any of those steps is
// skipped, never fatal for the whole crawl.
type IngestionService struct {
	projectRepo *repository.ProjectRepository
	docRepo     *repository.DocumentRepository
	embedder    Embedder
	indexer     DocumentIndexer
	config      *config.CrawlerConfig
	logger      *zap.Logger
}

func NewIngestionService(
	projectRepo *repository.ProjectRepository,
	docRepo *repository.DocumentRepository,
	embedder Embedder,
	indexer DocumentIndexer,
	cfg *config.CrawlerConfig,
	logger *zap.Logger,
) *IngestionService {
	return &IngestionService{
		projectRepo: projectRepo,
		docRepo:     docRepo,
		embedder:    embedder,
		indexer:     indexer,
		config:      cfg,
		logger:      logger,
	}
}

// Crawl ingests the website into the project's index. The static crawl
// runs first; if it yields nothing with text content, the headless
// rendered crawl is tried before giving up.
func (s *IngestionService) Crawl(ctx context.Context, userID, projectID uuid.UUID, websiteURL string) (*dto.CrawlResponse, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, ErrProjectNotFound
	}
	if project.UserID != userID {
		return nil, ErrProjectNotFound
	}

	if websiteURL == "" {
		websiteURL = project.WebsiteURL
	}
	if err := urlguard.Validate(ctx, websiteURL); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidURL, err)
	}

	if err := s.indexer.EnsureCollection(ctx); err != nil {
		return nil, err
	}

	pages, err := s.crawl(ctx, websiteURL)
	if err != nil {
		return nil, err
	}

	indexed := 0
	for _, page := range pages {
		if s.indexPage(ctx, project, page) {
			indexed++
		}
	}

	s.logger.Info("Website crawl finished",
		zap.String("project_id", projectID.String()),
		zap.String("website_url", websiteURL),
		zap.Int("pages_extracted", len(pages)),
		zap.Int("pages_indexed", indexed),
	)

	return &dto.CrawlResponse{
		Message:   "Website crawl completed successfully",
		PageCount: indexed,
	}, nil
}

// extractedPage carries the clean text forward so extraction runs exactly
// once per crawled page.
type extractedPage struct {
	URL  string
	Text string
}

func (s *IngestionService) crawl(ctx context.Context, websiteURL string) ([]extractedPage, error) {
	fetcher := newStaticFetcher(urlguard.Client(s.config.RequestTimeout), s.config.UserAgent)
	pages, err := crawlSite(ctx, websiteURL, fetcher, s.config.MaxDepth, s.config.MaxPages, s.logger)
	if err != nil {
		return nil, err
	}
	if extracted := s.extractPages(pages); len(extracted) > 0 {
		return extracted, nil
	}

	s.logger.Info("Static crawl produced no content, retrying with rendering",
		zap.String("website_url", websiteURL),
	)

	rendered, err := crawlRendered(ctx, websiteURL, s.config.MaxDepth, s.config.MaxPages,
		s.config.RenderTimeout, s.config.RenderSettle, s.logger)
	if err != nil {
		return nil, err
	}
	return s.extractPages(rendered), nil
}

// extractPages runs extraction over the crawl results, dropping pages with
// no extractable text.
func (s *IngestionService) extractPages(pages []crawledPage) []extractedPage {
	var extracted []extractedPage
	for _, p := range pages {
		text := sanitizeUTF8(extractText(p.URL, p.Content))
		if text == "" {
			s.logger.Debug("Skipping page without extractable text", zap.String("url", p.URL))
			continue
		}
		extracted = append(extracted, extractedPage{URL: p.URL, Text: text})
	}
	return extracted
}

// indexPage persists one page and upserts its embedding. Returns whether
// the page made it into the index.
func (s *IngestionService) indexPage(ctx context.Context, project *models.Project, page extractedPage) bool {
	text := page.Text

	doc := &models.Document{
		ID:        uuid.New(),
		ProjectID: project.ID,
		Type:      models.DocumentTypeWebsite,
		SourceURL: page.URL,
		Source:    text,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		s.logger.Warn("Document insert failed, skipping page",
			zap.String("url", page.URL),
			zap.Error(err),
		)
		return false
	}

	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		s.logger.Warn("Page embedding failed, skipping page",
			zap.String("url", page.URL),
			zap.Error(err),
		)
		return false
	}

	if err := s.indexer.Upsert(ctx, doc.ID.String(), project.ID.String(), vector, text); err != nil {
		s.logger.Warn("Vector upsert failed, skipping page",
			zap.String("url", page.URL),
			zap.Error(err),
		)
		return false
	}

	return true
}
