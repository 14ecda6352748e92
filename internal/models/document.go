package models

import (
	"time"

	"github.com/google/uuid"
)

type DocumentType string

const (
	DocumentTypeWebsite DocumentType = "website"
)

// Document is one successfully crawled page. Source holds the extracted
// text, immutable after creation.
type Document struct {
	ID        uuid.UUID    `db:"id"`
	ProjectID uuid.UUID    `db:"project_id"`
	Type      DocumentType `db:"type"`
	SourceURL string       `db:"source_url"`
	Source    string       `db:"source"`
	CreatedAt time.Time    `db:"created_at"`
}
