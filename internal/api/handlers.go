package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starford/sitesearch/internal/apperr"
	"github.com/starford/sitesearch/internal/catalog"
)

// Handler holds API route handlers.
type Handler struct {
	cat     *catalog.Catalog
	baseURL string
}

// NewHandler creates a new Handler. baseURL, when set, is the location
// relative post URLs are resolved against; otherwise it is derived from
// each request.
func NewHandler(cat *catalog.Catalog, baseURL string) *Handler {
	return &Handler{cat: cat, baseURL: baseURL}
}

// Corpus handles GET /search.json.
//
//	@Summary		Precomputed post corpus consumed by the search widget
//	@Tags			corpus
//	@Produce		json
//	@Success		200		{array}		models.Post
//	@Router			/search.json [get]
func (h *Handler) Corpus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(h.cat.JSON()); err != nil {
		slog.Debug("corpus write failed", slog.String("error", err.Error()))
	}
}

// Search handles GET /api/search.
//
//	@Summary		Run the widget's substring match on the server
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	false	"Query (case-insensitive substring)"
//	@Success		200		{object}	SearchResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	res := h.cat.Search(r.URL.Query().Get("q"), h.base(r))
	writeJSON(w, http.StatusOK, SearchResponse{Count: res.Count, Results: res.Entries})
}

// ListPosts handles GET /api/posts.
//
//	@Summary		List published posts in corpus order
//	@Tags			posts
//	@Produce		json
//	@Success		200		{object}	PostListResponse
//	@Security		BearerAuth
//	@Router			/posts [get]
func (h *Handler) ListPosts(w http.ResponseWriter, _ *http.Request) {
	posts := h.cat.Posts()
	writeJSON(w, http.StatusOK, PostListResponse{Posts: posts, Total: len(posts)})
}

// GetPost handles GET /api/post.
//
//	@Summary		Look up one published post by its corpus URL
//	@Tags			posts
//	@Produce		json
//	@Param			url		query		string	true	"Post URL exactly as it appears in the corpus"
//	@Success		200		{object}	models.Post
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/post [get]
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	u := r.URL.Query().Get("url")
	if u == "" {
		writeError(w, fmt.Errorf("%w: url is required", apperr.ErrInvalidPath))
		return
	}
	post, err := h.cat.Lookup(u)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// base returns the configured base URL or the request's own origin.
func (h *Handler) base(r *http.Request) string {
	if h.baseURL != "" {
		return h.baseURL
	}
	return requestOrigin(r) + "/"
}

// requestOrigin reconstructs scheme://host for r, honouring
// X-Forwarded-Proto from a reverse proxy.
func requestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(p, ",")[0]))
	}
	return scheme + "://" + r.Host
}
