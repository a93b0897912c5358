// Package catalog holds the serialized post corpus served as /search.json.
package catalog

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/starford/sitesearch/internal/apperr"
	"github.com/starford/sitesearch/internal/index"
	"github.com/starford/sitesearch/internal/models"
	"github.com/starford/sitesearch/internal/parser"
	"github.com/starford/sitesearch/internal/widget"
)

// Source is the subset of the index the catalog reads from.
type Source interface {
	Posts(includeDrafts bool) ([]index.PostRow, error)
}

// Catalog coordinates the post index and the published corpus snapshot.
// Readers always see a complete snapshot; Rebuild swaps it under a lock.
type Catalog struct {
	includeDrafts bool

	mu      sync.RWMutex
	posts   []models.Post
	payload []byte
}

// New creates an empty catalog. Drafts are published only when includeDrafts
// is set.
func New(includeDrafts bool) *Catalog {
	return &Catalog{includeDrafts: includeDrafts, posts: []models.Post{}, payload: []byte("[]")}
}

// Rebuild reloads posts from src and replaces the snapshot. It returns the
// number of published posts.
func (c *Catalog) Rebuild(src Source) (int, error) {
	rows, err := src.Posts(c.includeDrafts)
	if err != nil {
		return 0, fmt.Errorf("catalog: load posts: %w", err)
	}

	posts := make([]models.Post, 0, len(rows))
	for _, r := range rows {
		title := r.Title
		if title == "" {
			title = parser.TitleFromPath(r.Path)
		}
		posts = append(posts, models.Post{Title: title, URL: r.URL})
	}

	payload, err := json.Marshal(posts)
	if err != nil {
		return 0, fmt.Errorf("catalog: encode: %w", err)
	}

	c.mu.Lock()
	c.posts = posts
	c.payload = payload
	c.mu.Unlock()
	return len(posts), nil
}

// Posts returns a copy of the current corpus in server order.
func (c *Catalog) Posts() []models.Post {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Post, len(c.posts))
	copy(out, c.posts)
	return out
}

// JSON returns the serialized corpus. The slice must not be modified.
func (c *Catalog) JSON() []byte {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.payload
}

// Lookup returns the published post whose URL is exactly url.
func (c *Catalog) Lookup(url string) (models.Post, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.posts {
		if p.URL == url {
			return p, nil
		}
	}
	return models.Post{}, fmt.Errorf("catalog: post %q: %w", url, apperr.ErrNotFound)
}

// Len returns the number of published posts.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.posts)
}

// Search runs the widget's render pass over the current corpus, resolving
// relative URLs against base.
func (c *Catalog) Search(query, base string) widget.RenderResult {
	return widget.Render(c.Posts(), query, base)
}
