package loader

import (
	"context"
	"slices"

	"github.com/starford/sitesearch/internal/models"
)

// Static is a loader over a fixed post list.
type Static []models.Post

// Load returns a copy of the posts.
func (s Static) Load(context.Context) ([]models.Post, error) {
	return slices.Clone([]models.Post(s)), nil
}
