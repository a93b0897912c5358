package api

import (
	"github.com/starford/sitesearch/internal/models"
	"github.com/starford/sitesearch/internal/widget"
)

// SearchEntry is a single rendered match (aliased from the widget layer).
type SearchEntry = widget.Entry

// SearchResponse is the render result of one query: the counter value and
// the matching entries in corpus order.
type SearchResponse struct {
	Count   int           `json:"count" example:"2" validate:"required"`
	Results []SearchEntry `json:"results" validate:"required"`
}

// PostListResponse wraps the full published corpus.
type PostListResponse struct {
	Posts []models.Post `json:"posts" validate:"required"`
	Total int           `json:"total" example:"42" validate:"required"`
}
