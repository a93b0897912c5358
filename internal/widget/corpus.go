package widget

import (
	"context"
	"slices"
	"sync/atomic"

	"github.com/starford/sitesearch/internal/models"
)

// Loader fetches the posts a widget searches.
type Loader interface {
	Load(ctx context.Context) ([]models.Post, error)
}

// LoaderFunc adapts a plain function to Loader.
type LoaderFunc func(ctx context.Context) ([]models.Post, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context) ([]models.Post, error) {
	return f(ctx)
}

// Corpus is the widget's post list: an atomically replaceable cell that
// starts empty and accepts at most one replacement. Readers never observe a
// partially written value.
type Corpus struct {
	posts    atomic.Pointer[[]models.Post]
	replaced atomic.Bool
}

// Posts returns the current posts in load order. The result must not be
// modified.
func (c *Corpus) Posts() []models.Post {
	if p := c.posts.Load(); p != nil {
		return *p
	}
	return nil
}

// Len returns the number of loaded posts.
func (c *Corpus) Len() int {
	return len(c.Posts())
}

// Replace stores a copy of posts. Only the first call has an effect; it
// reports whether posts were stored.
func (c *Corpus) Replace(posts []models.Post) bool {
	if !c.replaced.CompareAndSwap(false, true) {
		return false
	}
	cp := slices.Clone(posts)
	c.posts.Store(&cp)
	return true
}
