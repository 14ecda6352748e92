package models

import (
	"time"

	"github.com/google/uuid"
)

// ChatLog is an append-only record of one question/answer exchange.
type ChatLog struct {
	ID        uuid.UUID `db:"id"`
	ProjectID uuid.UUID `db:"project_id"`
	Question  string    `db:"question"`
	Answer    string    `db:"answer"`
	CreatedAt time.Time `db:"created_at"`
}
