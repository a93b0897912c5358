// Package widget implements the search box: it loads the post corpus once,
// listens to the search input and renders matching titles with a match
// counter.
//
// The widget talks to the page only through the Document and Element
// interfaces, so it runs unchanged against a browser DOM (see dom/jsdom) or an
// in-memory one (see dom/memdom).
package widget

import (
	"context"
	"io"
	"log/slog"
)

// Widget binds a corpus of posts to a search input.
//
// It has two independent states: whether the corpus has loaded and whether
// the input has focus. Typing before the load settles searches the empty
// corpus and finds nothing; the next keystroke after the load sees the posts.
type Widget struct {
	doc      Document
	loader   Loader
	logger   *slog.Logger
	location string

	corpus Corpus
	loaded chan struct{}
}

// New creates a widget, starts the corpus load and binds the page. Both
// steps are independent: binding does not wait for the load. A page without
// the search input gets no listeners, and a nil loader leaves the corpus
// empty. New never fails.
//
// Events must be dispatched from a single goroutine; the load completes on
// its own goroutine and publishes the corpus with one atomic store.
func New(ctx context.Context, doc Document, loader Loader, opts ...Option) *Widget {
	w := &Widget{
		doc:    doc,
		loader: loader,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		loaded: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	go w.load(ctx)
	w.bind()

	return w
}

// Loaded returns a channel that is closed once the corpus load has settled,
// successfully or not.
func (w *Widget) Loaded() <-chan struct{} {
	return w.loaded
}

// Corpus returns the widget's post cell.
func (w *Widget) Corpus() *Corpus {
	return &w.corpus
}

// load fetches the corpus once. Failures leave the corpus empty for the
// lifetime of the widget.
func (w *Widget) load(ctx context.Context) {
	defer close(w.loaded)

	if w.loader == nil {
		w.logger.Debug("widget: no loader, corpus stays empty")
		return
	}
	posts, err := w.loader.Load(ctx)
	if err != nil {
		w.logger.Debug("widget: corpus load failed", slog.String("error", err.Error()))
		return
	}
	w.corpus.Replace(posts)
	w.logger.Debug("widget: corpus loaded", slog.Int("posts", len(posts)))
}

func (w *Widget) bind() {
	if w.doc == nil {
		w.logger.Debug("widget: no document, binding skipped")
		return
	}
	input := w.doc.ElementByID(InputID)
	if input == nil {
		w.logger.Debug("widget: search input missing, binding skipped", slog.String("id", InputID))
		return
	}

	input.AddEventListener(EventFocusIn, func() { w.setActive(true) })
	input.AddEventListener(EventFocusOut, func() { w.setActive(false) })
	input.AddEventListener(EventInput, func() { w.renderPass(input.Value()) })
}

// setActive toggles the active state of the results count indicator.
func (w *Widget) setActive(active bool) {
	box := w.doc.FirstByClass(CountClass)
	if box == nil {
		w.logger.Debug("widget: count indicator missing", slog.String("class", CountClass))
		return
	}
	if active {
		box.AddClass(ActiveClass)
	} else {
		box.RemoveClass(ActiveClass)
	}
}

// renderPass recomputes the results for query from the whole corpus and
// replaces the list and counter. When a required element is missing the pass
// does nothing, so list and counter never disagree.
func (w *Widget) renderPass(query string) {
	results := w.doc.ElementByID(ResultsID)
	counter := w.counter()
	if results == nil || counter == nil {
		w.logger.Debug("widget: render skipped, page elements missing",
			slog.Bool("results_container", results != nil),
			slog.Bool("counter", counter != nil))
		return
	}

	res := Render(w.corpus.Posts(), query, w.baseLocation())
	results.SetHTML(res.HTML())
	counter.SetText(res.CounterText())
}

func (w *Widget) counter() Element {
	box := w.doc.FirstByClass(CountClass)
	if box == nil {
		return nil
	}
	return box.QuerySelector(CounterSelector)
}

func (w *Widget) baseLocation() string {
	if w.location != "" {
		return w.location
	}
	return w.doc.Location()
}
