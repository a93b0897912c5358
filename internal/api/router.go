package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/sitesearch/internal/catalog"
)

// RouterConfig controls the optional parts of the router.
type RouterConfig struct {
	// AuthEnabled controls whether Bearer token auth is enforced on /api.
	AuthEnabled bool
	Token       string
	// BaseURL resolves relative post URLs in /api/search. Empty means the
	// request origin.
	BaseURL string
	// AssetsDir, if set, is served at /static.
	AssetsDir string
	Title     string
	// LiveReload makes the page reload on corpus.updated. EventSource cannot
	// send an Authorization header, so it is ignored when auth is enabled.
	LiveReload bool
	Debug      bool
	// Events, if non-nil, is mounted at GET /api/events.
	Events http.Handler
}

// NewRouter creates a chi router with the public corpus routes and the
// authenticated /api group.
func NewRouter(cat *catalog.Catalog, cfg RouterConfig) chi.Router {
	h := NewHandler(cat, cfg.BaseURL)

	title := cfg.Title
	if title == "" {
		title = "Search"
	}
	liveReload := cfg.LiveReload && cfg.Events != nil && !cfg.AuthEnabled

	r := chi.NewRouter()

	// Public surface consumed by the browser widget.
	r.Get("/search.json", h.Corpus)
	r.Get("/", pageHandler(title, cfg.Debug, liveReload))
	if cfg.AssetsDir != "" {
		fs := http.StripPrefix(StaticPrefix, http.FileServer(http.Dir(cfg.AssetsDir)))
		r.Handle(StaticPrefix+"/*", fs)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.AuthEnabled, cfg.Token))

		r.Get("/search", h.Search)
		r.Get("/posts", h.ListPosts)
		r.Get("/post", h.GetPost)

		// SSE endpoint (protected by same auth middleware).
		if cfg.Events != nil {
			r.Get("/events", cfg.Events.ServeHTTP)
		}
	})

	return r
}
