package dto

type CrawlRequest struct {
	ProjectID  string `json:"project_id" validate:"required,uuid"`
	WebsiteURL string `json:"website_url" validate:"required,url"`
}

type CrawlResponse struct {
	Message   string `json:"message"`
	PageCount int    `json:"page_count"`
}
