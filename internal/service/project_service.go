package service

import (
	"context"
	"time"

	"sitechat/internal/dto"
	"sitechat/internal/models"
	"sitechat/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProjectService struct {
	projectRepo *repository.ProjectRepository
	logger      *zap.Logger
}

func NewProjectService(projectRepo *repository.ProjectRepository, logger *zap.Logger) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		logger:      logger,
	}
}

// Create registers a project and mints its widget API key. The key is a
// random UUID, shown to the owner on every project read.
func (s *ProjectService) Create(ctx context.Context, userID uuid.UUID, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	language := req.Language
	if language == "" {
		language = models.LanguageEnglish
	}

	now := time.Now()
	project := &models.Project{
		ID:         uuid.New(),
		UserID:     userID,
		Name:       req.Name,
		Language:   language,
		WebsiteURL: req.WebsiteURL,
		APIKey:     uuid.NewString(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("Project created",
		zap.String("project_id", project.ID.String()),
		zap.String("user_id", userID.String()),
	)

	return toProjectResponse(project), nil
}

func (s *ProjectService) Get(ctx context.Context, userID, projectID uuid.UUID) (*dto.ProjectResponse, error) {
	project, err := s.owned(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	return toProjectResponse(project), nil
}

func (s *ProjectService) List(ctx context.Context, userID uuid.UUID) ([]*dto.ProjectResponse, error) {
	projects, err := s.projectRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		responses = append(responses, toProjectResponse(p))
	}
	return responses, nil
}

func (s *ProjectService) Delete(ctx context.Context, userID, projectID uuid.UUID) error {
	if _, err := s.owned(ctx, userID, projectID); err != nil {
		return err
	}
	return s.projectRepo.Delete(ctx, projectID)
}

// WidgetConfig resolves a project by API key for the public widget. A
// missing key looks the same as a wrong key.
func (s *ProjectService) WidgetConfig(ctx context.Context, apiKey string) (*dto.WidgetConfigResponse, error) {
	project, err := s.projectRepo.GetByAPIKey(ctx, apiKey)
	if err != nil {
		return nil, ErrInvalidAPIKey
	}
	return &dto.WidgetConfigResponse{
		ProjectID: project.ID.String(),
		Name:      project.Name,
		Language:  project.Language,
	}, nil
}

// owned fetches the project and hides it from anyone but its owner.
func (s *ProjectService) owned(ctx context.Context, userID, projectID uuid.UUID) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, ErrProjectNotFound
	}
	if project.UserID != userID {
		return nil, ErrProjectNotFound
	}
	return project, nil
}

func toProjectResponse(p *models.Project) *dto.ProjectResponse {
	return &dto.ProjectResponse{
		ID:         p.ID.String(),
		Name:       p.Name,
		Language:   p.Language,
		WebsiteURL: p.WebsiteURL,
		APIKey:     p.APIKey,
		CreatedAt:  p.CreatedAt.Format(time.RFC3339),
	}
}
