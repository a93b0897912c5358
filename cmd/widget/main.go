//go:build js && wasm

// Command widget is the WebAssembly build of the search box. The page loads
// it with wasm_exec.js; it binds to the page's search elements and keeps
// running for the lifetime of the page.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/starford/sitesearch/internal/dom/jsdom"
	"github.com/starford/sitesearch/internal/loader"
	"github.com/starford/sitesearch/internal/widget"
)

func main() {
	doc := jsdom.New()

	level := slog.LevelWarn
	if doc.Dataset("searchDebug") == "true" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	var ld widget.Loader
	if h, err := loader.NewHTTP(doc.Location()); err != nil {
		logger.Debug("widget: corpus loader unavailable", slog.String("error", err.Error()))
	} else {
		ld = h
	}

	widget.New(context.Background(), doc, ld, widget.WithLogger(logger))

	select {}
}
