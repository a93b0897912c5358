package widget_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/sitesearch/internal/dom/memdom"
	"github.com/starford/sitesearch/internal/models"
	"github.com/starford/sitesearch/internal/parser"
	"github.com/starford/sitesearch/internal/widget"
)

const origin = "https://example.com"

var corpus = []models.Post{
	{Title: "Hello World", URL: "/a"},
	{Title: "Another Post", URL: "/b"},
}

func staticLoader(posts []models.Post) widget.Loader {
	return widget.LoaderFunc(func(context.Context) ([]models.Post, error) {
		return posts, nil
	})
}

// loadedWidget builds a search page and a widget whose corpus has settled.
func loadedWidget(t *testing.T, loader widget.Loader) (*memdom.Document, *widget.Widget) {
	t.Helper()
	doc := memdom.NewSearchPage(origin + "/")
	w := widget.New(context.Background(), doc, loader)
	waitLoaded(t, w)
	return doc, w
}

func waitLoaded(t *testing.T, w *widget.Widget) {
	t.Helper()
	select {
	case <-w.Loaded():
	case <-time.After(2 * time.Second):
		t.Fatal("corpus load did not settle")
	}
}

func typeQuery(doc *memdom.Document, q string) {
	doc.Element(widget.InputID).Type(q)
}

func counterText(t *testing.T, doc *memdom.Document) string {
	t.Helper()
	counter := doc.Element("counter")
	require.NotNil(t, counter)
	return counter.Text()
}

func rendered(doc *memdom.Document) []memdom.Link {
	return doc.Element(widget.ResultsID).Links()
}

func TestScenarios(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []memdom.Link
	}{
		{"hello", "hello", []memdom.Link{{Text: "Hello World", Href: origin + "/a"}}},
		{"post", "post", []memdom.Link{{Text: "Another Post", Href: origin + "/b"}}},
		{"no match", "xyz", nil},
		{"shared letter", "o", []memdom.Link{
			{Text: "Hello World", Href: origin + "/a"},
			{Text: "Another Post", Href: origin + "/b"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, _ := loadedWidget(t, staticLoader(corpus))
			typeQuery(doc, tt.query)

			assert.Equal(t, tt.want, rendered(doc))
			assert.Equal(t, itoa(len(tt.want)), counterText(t, doc))
		})
	}
}

func TestCaseInsensitiveQuery(t *testing.T) {
	doc, _ := loadedWidget(t, staticLoader([]models.Post{{Title: "hello world", URL: "/hw"}}))
	typeQuery(doc, "O")

	assert.Equal(t, []memdom.Link{{Text: "hello world", Href: origin + "/hw"}}, rendered(doc))
	assert.Equal(t, "1", counterText(t, doc))
}

func TestEmptyQueryClears(t *testing.T) {
	doc, _ := loadedWidget(t, staticLoader(corpus))

	typeQuery(doc, "o")
	require.Equal(t, "2", counterText(t, doc))

	typeQuery(doc, "")
	assert.Equal(t, "", doc.Element(widget.ResultsID).HTML())
	assert.Equal(t, "0", counterText(t, doc))
}

func TestRenderPassIdempotent(t *testing.T) {
	doc, _ := loadedWidget(t, staticLoader(corpus))

	typeQuery(doc, "hello")
	firstHTML := doc.Element(widget.ResultsID).HTML()
	firstCount := counterText(t, doc)

	typeQuery(doc, "hello")
	assert.Equal(t, firstHTML, doc.Element(widget.ResultsID).HTML())
	assert.Equal(t, firstCount, counterText(t, doc))
}

func TestCounterMatchesEntries(t *testing.T) {
	posts := []models.Post{
		{Title: "alpha", URL: "/1"}, {Title: "beta", URL: "/2"}, {Title: "gamma", URL: "/3"},
		{Title: "delta", URL: "/4"}, {Title: "alphabet", URL: "/5"},
	}
	doc, _ := loadedWidget(t, staticLoader(posts))

	for _, q := range []string{"a", "al", "alpha", "ph", "zzz", "A", "et"} {
		typeQuery(doc, q)
		results := doc.Element(widget.ResultsID)
		assert.Equal(t, itoa(results.Items()), counterText(t, doc), "query %q", q)
		assert.Len(t, results.Links(), results.Items(), "query %q", q)
	}
}

func TestOrderPreserved(t *testing.T) {
	posts := []models.Post{
		{Title: "Zeta notes", URL: "/z"},
		{Title: "Alpha notes", URL: "/a"},
		{Title: "Mid notes", URL: "/m"},
	}
	doc, _ := loadedWidget(t, staticLoader(posts))
	typeQuery(doc, "notes")

	var titles []string
	for _, l := range rendered(doc) {
		titles = append(titles, l.Text)
	}
	assert.Equal(t, []string{"Zeta notes", "Alpha notes", "Mid notes"}, titles)
}

func TestTypingBeforeLoadFindsNothing(t *testing.T) {
	release := make(chan struct{})
	loader := widget.LoaderFunc(func(ctx context.Context) ([]models.Post, error) {
		<-release
		return corpus, nil
	})

	doc := memdom.NewSearchPage(origin + "/")
	w := widget.New(context.Background(), doc, loader)

	typeQuery(doc, "anything")
	assert.Empty(t, rendered(doc))
	assert.Equal(t, "0", counterText(t, doc))

	typeQuery(doc, "hello")
	assert.Empty(t, rendered(doc), "corpus is still empty while the load is pending")

	close(release)
	waitLoaded(t, w)

	typeQuery(doc, "hello")
	assert.Len(t, rendered(doc), 1)
	assert.Equal(t, "1", counterText(t, doc))
}

func TestLoadFailureLeavesCorpusEmpty(t *testing.T) {
	loader := widget.LoaderFunc(func(context.Context) ([]models.Post, error) {
		return nil, errors.New("network down")
	})
	doc, w := loadedWidget(t, loader)

	typeQuery(doc, "hello")
	assert.Empty(t, rendered(doc))
	assert.Equal(t, "0", counterText(t, doc))
	assert.Equal(t, 0, w.Corpus().Len())
}

func TestNilLoader(t *testing.T) {
	doc, w := loadedWidget(t, nil)
	typeQuery(doc, "hello")
	assert.Equal(t, "0", counterText(t, doc))
	assert.Equal(t, 0, w.Corpus().Len())
}

func TestLoadHappensOnce(t *testing.T) {
	calls := 0
	loader := widget.LoaderFunc(func(context.Context) ([]models.Post, error) {
		calls++
		return corpus, nil
	})
	doc, _ := loadedWidget(t, loader)
	for _, q := range []string{"a", "b", "c"} {
		typeQuery(doc, q)
	}
	assert.Equal(t, 1, calls)
}

func TestFocusTogglesActive(t *testing.T) {
	doc, _ := loadedWidget(t, staticLoader(corpus))
	input := doc.Element(widget.InputID)
	box := doc.FirstByClass(widget.CountClass).(*memdom.Element)

	assert.False(t, box.HasClass(widget.ActiveClass))
	input.Focus()
	assert.True(t, box.HasClass(widget.ActiveClass))
	input.Blur()
	assert.False(t, box.HasClass(widget.ActiveClass))
}

func TestMissingInputIsNoop(t *testing.T) {
	doc := memdom.New(origin + "/")
	doc.Body().Append(memdom.NewElement("ul", widget.ResultsID))

	var w *widget.Widget
	require.NotPanics(t, func() {
		w = widget.New(context.Background(), doc, staticLoader(corpus))
	})
	waitLoaded(t, w)
	assert.Equal(t, 2, w.Corpus().Len(), "corpus loads even without a search box")
}

func TestNilDocument(t *testing.T) {
	require.NotPanics(t, func() {
		w := widget.New(context.Background(), nil, staticLoader(corpus))
		waitLoaded(t, w)
	})
}

func TestMissingElementsSkipRenderPass(t *testing.T) {
	t.Run("results container", func(t *testing.T) {
		doc, _ := loadedWidget(t, staticLoader(corpus))
		doc.Element(widget.ResultsID).Remove()

		require.NotPanics(t, func() { typeQuery(doc, "hello") })
		assert.Equal(t, "", counterText(t, doc), "counter untouched when the list cannot be rendered")
	})

	t.Run("counter", func(t *testing.T) {
		doc, _ := loadedWidget(t, staticLoader(corpus))
		doc.Element("counter").Remove()

		require.NotPanics(t, func() { typeQuery(doc, "hello") })
		assert.Equal(t, "", doc.Element(widget.ResultsID).HTML())
	})

	t.Run("count indicator", func(t *testing.T) {
		doc, _ := loadedWidget(t, staticLoader(corpus))
		box := doc.FirstByClass(widget.CountClass).(*memdom.Element)
		box.Remove()

		input := doc.Element(widget.InputID)
		require.NotPanics(t, func() {
			input.Focus()
			typeQuery(doc, "hello")
			input.Blur()
		})
		assert.Equal(t, "", doc.Element(widget.ResultsID).HTML())
	})
}

func TestWithLocation(t *testing.T) {
	doc := memdom.NewSearchPage("https://ignored.example/")
	w := widget.New(context.Background(), doc, staticLoader(corpus), widget.WithLocation("https://site.example/blog/"))
	waitLoaded(t, w)

	typeQuery(doc, "hello")
	assert.Equal(t, []memdom.Link{{Text: "Hello World", Href: "https://site.example/blog/a"}}, rendered(doc))
}

func TestLocationReadPerPass(t *testing.T) {
	doc, _ := loadedWidget(t, staticLoader(corpus))
	doc.SetLocation("https://moved.example/")

	typeQuery(doc, "post")
	assert.Equal(t, []memdom.Link{{Text: "Another Post", Href: "https://moved.example/b"}}, rendered(doc))
}

func TestPathsNeedingEscapesKeepTheirLinks(t *testing.T) {
	posts := []models.Post{
		{Title: "My Post", URL: parser.PostURL("posts/my post.md", &parser.Result{})},
		{Title: "My Café", URL: "/posts/café/"},
	}
	doc, _ := loadedWidget(t, staticLoader(posts))

	typeQuery(doc, "my")

	assert.Equal(t, "2", counterText(t, doc))
	assert.Equal(t, []memdom.Link{
		{Text: "My Post", Href: origin + "/posts/my%20post/"},
		{Text: "My Café", Href: origin + "/posts/caf%C3%A9/"},
	}, rendered(doc))
	assert.Equal(t, 2, doc.Element(widget.ResultsID).Items())
}

func itoa(n int) string {
	return widget.RenderResult{Count: n}.CounterText()
}
