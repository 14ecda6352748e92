package models

import (
	"time"

	"github.com/google/uuid"
)

// Language codes a project can be configured with. "am" forces Amharic
// answers regardless of the question language.
const (
	LanguageEnglish = "en"
	LanguageAmharic = "am"
)

// Project is the tenant unit: one crawled website, one API key, one
// isolated slice of the vector index.
type Project struct {
	ID         uuid.UUID `db:"id"`
	UserID     uuid.UUID `db:"user_id"`
	Name       string    `db:"name"`
	Language   string    `db:"language"`
	WebsiteURL string    `db:"website_url"`
	APIKey     string    `db:"api_key"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}
