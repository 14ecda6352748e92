package repository

import (
	"context"

	"sitechat/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ChatLogRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewChatLogRepository(db *pgxpool.Pool, logger *zap.Logger) *ChatLogRepository {
	return &ChatLogRepository{
		db:     db,
		logger: logger,
	}
}

func (r *ChatLogRepository) Create(ctx context.Context, log *models.ChatLog) error {
	query := squirrel.Insert("chat_logs").
		Columns("id", "project_id", "question", "answer", "created_at").
		Values(log.ID, log.ProjectID, log.Question, log.Answer, log.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *ChatLogRepository) ListByProjectID(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]*models.ChatLog, error) {
	query := squirrel.Select("id", "project_id", "question", "answer", "created_at").
		From("chat_logs").
		Where(squirrel.Eq{"project_id": projectID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
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

	var logs []*models.ChatLog
	for rows.Next() {
		var l models.ChatLog
		if err := rows.Scan(&l.ID, &l.ProjectID, &l.Question, &l.Answer, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, &l)
	}

	return logs, rows.Err()
}
