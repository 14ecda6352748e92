package dto

type CreateProjectRequest struct {
	Name       string `json:"name" validate:"required"`
	Language   string `json:"language" validate:"omitempty,oneof=en am"`
	WebsiteURL string `json:"website_url" validate:"required,url"`
}

type ProjectResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Language   string `json:"language"`
	WebsiteURL string `json:"website_url"`
	APIKey     string `json:"api_key"`
	CreatedAt  string `json:"created_at"`
}

// WidgetConfigResponse is the public configuration the embeddable widget
// fetches with its API key. It never exposes the key's owning user.
type WidgetConfigResponse struct {
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
	Language  string `json:"language"`
}
