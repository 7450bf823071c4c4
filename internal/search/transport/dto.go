package transport

import "time"

type SearchRequest struct {
	Query string `form:"q" validate:"required,min=2,max=100"`
	Limit int    `form:"limit" validate:"omitempty,min=1,max=50"`
}

type SearchResultItem struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`     // "lead", "deal", "task"
	Title        string    `json:"title"`    // lead name, deal or task title
	Subtitle     string    `json:"subtitle"` // company, or the linked lead's name
	Status       string    `json:"status"`
	Link         string    `json:"link"`
	Score        float64   `json:"score"`
	MatchedField string    `json:"matchedField"`
	CreatedAt    time.Time `json:"createdAt"`
}

type SearchResponse struct {
	Items []SearchResultItem `json:"items"`
	Total int                `json:"total"`
}
