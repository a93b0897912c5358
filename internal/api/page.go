package api

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/starford/sitesearch/internal/widget"
)

// StaticPrefix is where widget.wasm and wasm_exec.js are served from.
const StaticPrefix = "/static"

var pageTmpl = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="en" data-search-debug="{{.Debug}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
.show-results-count { visibility: hidden; }
.show-results-count.active { visibility: visible; }
</style>
</head>
<body>
<main>
<h1>{{.Title}}</h1>
<input id="{{.InputID}}" type="search" placeholder="Search posts" autocomplete="off">
<div class="{{.CountClass}}"><span id="counter">0</span> results</div>
<ul id="{{.ResultsID}}"></ul>
</main>
<script src="{{.Static}}/wasm_exec.js"></script>
<script>
const go = new Go();
WebAssembly.instantiateStreaming(fetch({{.Static}} + "/widget.wasm"), go.importObject)
  .then((r) => go.run(r.instance));
{{- if .LiveReload}}
new EventSource("/api/events").addEventListener("corpus.updated", () => location.reload());
{{- end}}
</script>
</body>
</html>
`))

type pageData struct {
	Title      string
	Debug      bool
	LiveReload bool
	Static     string
	InputID    string
	CountClass string
	ResultsID  string
}

// pageHandler renders the search page. The markup carries the element
// contract the widget binds to.
func pageHandler(title string, debug, liveReload bool) http.HandlerFunc {
	data := pageData{
		Title:      title,
		Debug:      debug,
		LiveReload: liveReload,
		Static:     StaticPrefix,
		InputID:    widget.InputID,
		CountClass: widget.CountClass,
		ResultsID:  widget.ResultsID,
	}
	return func(w http.ResponseWriter, _ *http.Request) {
		var buf bytes.Buffer
		if err := pageTmpl.Execute(&buf, data); err != nil {
			slog.Error("render page failed", slog.String("error", err.Error()))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(buf.Bytes())
	}
}
