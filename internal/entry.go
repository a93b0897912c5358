// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/sitesearch/internal/api"
	"github.com/starford/sitesearch/internal/catalog"
	"github.com/starford/sitesearch/internal/dom/memdom"
	"github.com/starford/sitesearch/internal/index"
	"github.com/starford/sitesearch/internal/loader"
	"github.com/starford/sitesearch/internal/mcpserver"
	"github.com/starford/sitesearch/internal/sse"
	"github.com/starford/sitesearch/internal/storage"
	"github.com/starford/sitesearch/internal/widget"
)

// corpus bundles the content store, its index, and the published catalog.
type corpus struct {
	store storage.Provider
	db    *index.DB
	cat   *catalog.Catalog
}

// openCorpus opens the store and index, runs the initial sync, and builds
// the catalog. The caller owns c.db.
func openCorpus(cfg *Config, logger *slog.Logger) (*corpus, error) {
	store, err := storage.NewFS(cfg.Content.Path, cfg.Content.Filter())
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init index: %w", err)
	}

	stats, err := index.Sync(db, store, logger)
	if err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	} else {
		logger.Info("initial sync done",
			slog.Int("indexed", stats.Indexed),
			slog.Int("removed", stats.Removed),
			slog.Int("failed", stats.Failed))
	}

	cat := catalog.New(cfg.Content.IncludeDrafts)
	n, err := cat.Rebuild(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("catalog built", slog.Int("posts", n))

	return &corpus{store: store, db: db, cat: cat}, nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := newApplication(opts)

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := newLogger(os.Stdout, cfg.App.LogLevel)
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("content_path", cfg.Content.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("base_url", cfg.Site.BaseURL),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure content directory exists.
	if err := os.MkdirAll(cfg.Content.Path, 0o755); err != nil {
		return fmt.Errorf("create content dir: %w", err)
	}

	c, err := openCorpus(cfg, logger)
	if err != nil {
		return err
	}
	defer c.db.Close()

	// SSE broker.
	broker := sse.NewBroker(cfg.Site.ReloadThrottle)
	defer broker.Close()

	siteRouter := api.NewRouter(c.cat, api.RouterConfig{
		AuthEnabled: cfg.Auth.AuthEnabled(),
		Token:       cfg.Auth.Token,
		BaseURL:     cfg.Site.BaseURL,
		AssetsDir:   cfg.Site.AssetsDir,
		Title:       cfg.Site.Title,
		LiveReload:  cfg.Site.LiveReload,
		Debug:       cfg.Site.Debug,
		Events:      broker,
	})

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := c.db.Count(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/", siteRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start file watcher; every index change republishes the corpus.
	g.Go(func() error {
		return index.Watch(gCtx, c.db, c.store, logger, func(kind, path string) {
			if _, err := c.cat.Rebuild(c.db); err != nil {
				logger.Warn("catalog rebuild failed", slog.String("error", err.Error()))
				return
			}
			broker.PublishPostEvent(kind, path)
		})
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		// Closing the broker ends open SSE streams so Shutdown does not wait on them.
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		// Returning an error cancels gCtx, which stops the watcher.
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

var errShutdown = errors.New("shutdown")

// Build syncs the index and writes the corpus JSON to out ("-" for the
// configured output writer). This is the static-site step that produces
// /search.json.
func Build(ctx context.Context, out string, opts ...Option) error {
	app := newApplication(opts)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	logger := newLogger(os.Stderr, cfg.App.LogLevel)

	c, err := openCorpus(cfg, logger)
	if err != nil {
		return err
	}
	defer c.db.Close()

	if err := ctx.Err(); err != nil {
		return err
	}

	payload := c.cat.JSON()
	if out == "" || out == "-" {
		_, err := app.out.Write(append(append([]byte{}, payload...), '\n'))
		return err
	}
	if err := storage.WriteFileAtomic(out, payload); err != nil {
		return fmt.Errorf("write corpus: %w", err)
	}
	logger.Info("corpus written", slog.String("path", out), slog.Int("posts", c.cat.Len()))
	return nil
}

// ServeMCP syncs the index and serves the MCP tools on stdin/stdout while
// the watcher keeps the catalog current. Logs go to stderr because stdout
// carries the protocol.
func ServeMCP(ctx context.Context, opts ...Option) error {
	app := newApplication(opts)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	logger := newLogger(os.Stderr, cfg.App.LogLevel)
	slog.SetDefault(logger)

	c, err := openCorpus(cfg, logger)
	if err != nil {
		return err
	}
	defer c.db.Close()

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		err := index.Watch(watchCtx, c.db, c.store, logger, func(string, string) {
			if _, err := c.cat.Rebuild(c.db); err != nil {
				logger.Warn("catalog rebuild failed", slog.String("error", err.Error()))
			}
		})
		if err != nil {
			logger.Warn("watcher stopped", slog.String("error", err.Error()))
		}
	}()

	return mcpserver.New(c.cat, cfg.Site.BaseURL).ServeStdio()
}

// QueryParams configures one headless widget run.
type QueryParams struct {
	// PageURL is the page the widget pretends to be on; the corpus is
	// fetched from /search.json relative to it.
	PageURL string
	Query   string
	// Wait types only after the corpus load settles. Without it the query
	// races the load exactly as in a browser.
	Wait    bool
	Timeout time.Duration
	Debug   bool
}

// Query runs the search widget against an in-memory page, types the query,
// and prints the counter followed by one "title<TAB>url" line per result.
func Query(ctx context.Context, params QueryParams, opts ...Option) error {
	app := newApplication(opts)

	level := slog.LevelWarn
	if params.Debug {
		level = slog.LevelDebug
	}
	logger := newLogger(os.Stderr, level)

	timeout := params.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ld, err := loader.NewHTTP(params.PageURL)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}

	doc := memdom.NewSearchPage(params.PageURL)
	w := widget.New(ctx, doc, ld, widget.WithLogger(logger))

	if params.Wait {
		select {
		case <-w.Loaded():
		case <-ctx.Done():
			return fmt.Errorf("query: corpus load: %w", ctx.Err())
		}
	}

	input := doc.Element(widget.InputID)
	input.Focus()
	input.Type(params.Query)
	input.Blur()

	fmt.Fprintf(app.out, "%s results\n", doc.Element("counter").Text())
	for _, l := range doc.Element(widget.ResultsID).Links() {
		fmt.Fprintf(app.out, "%s\t%s\n", l.Text, l.Href)
	}
	return nil
}
