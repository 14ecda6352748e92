package repository

import (
	"context"

	"sitechat/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var projectColumns = []string{"id", "user_id", "name", "language", "website_url", "api_key", "created_at", "updated_at"}

type ProjectRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewProjectRepository(db *pgxpool.Pool, logger *zap.Logger) *ProjectRepository {
	return &ProjectRepository{
		db:     db,
		logger: logger,
	}
}

func (r *ProjectRepository) Create(ctx context.Context, p *models.Project) error {
	query := squirrel.Insert("projects").
		Columns(projectColumns...).
		Values(p.ID, p.UserID, p.Name, p.Language, p.WebsiteURL, p.APIKey, p.CreatedAt, p.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

func (r *ProjectRepository) GetByAPIKey(ctx context.Context, apiKey string) (*models.Project, error) {
	return r.getOne(ctx, squirrel.Eq{"api_key": apiKey})
}

func (r *ProjectRepository) getOne(ctx context.Context, pred squirrel.Eq) (*models.Project, error) {
	query := squirrel.Select(projectColumns...).
		From("projects").
		Where(pred).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var p models.Project
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&p.ID, &p.UserID, &p.Name, &p.Language, &p.WebsiteURL, &p.APIKey, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *ProjectRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Project, error) {
	query := squirrel.Select(projectColumns...).
		From("projects").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.Name, &p.Language, &p.WebsiteURL, &p.APIKey, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		projects = append(projects, &p)
	}

	return projects, rows.Err()
}

func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := squirrel.Delete("projects").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}
