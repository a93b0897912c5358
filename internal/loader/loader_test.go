package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/sitesearch/internal/models"
	"github.com/starford/sitesearch/internal/widget"
)

var (
	_ widget.Loader = (*HTTP)(nil)
	_ widget.Loader = Static(nil)
)

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != DefaultPath {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewHTTP_ResolvesAgainstOrigin(t *testing.T) {
	h, err := NewHTTP("https://example.com/blog/page.html?x=1")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/search.json", h.URL())

	h, err = NewHTTP("https://example.com/blog/", WithPath("index.json"))
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/blog/index.json", h.URL())
}

func TestNewHTTP_BadURL(t *testing.T) {
	_, err := NewHTTP("://nope")
	assert.Error(t, err)
}

func TestLoad_Success(t *testing.T) {
	srv := serve(t, http.StatusOK, `[
		{"title": "Hello World", "url": "/a", "date": "2024-01-01"},
		{"title": "Another Post", "url": "/b", "tags": ["x"]}
	]`)

	h, err := NewHTTP(srv.URL+"/", WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	posts, err := h.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Post{
		{Title: "Hello World", URL: "/a"},
		{Title: "Another Post", URL: "/b"},
	}, posts)
}

func TestLoad_TrailingWhitespace(t *testing.T) {
	srv := serve(t, http.StatusOK, "[{\"title\":\"Hello\",\"url\":\"/a\"}]\n\n")
	h, err := NewHTTP(srv.URL)
	require.NoError(t, err)

	posts, err := h.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Post{{Title: "Hello", URL: "/a"}}, posts)
}

func TestLoad_EmptyArray(t *testing.T) {
	srv := serve(t, http.StatusOK, `[]`)
	h, err := NewHTTP(srv.URL)
	require.NoError(t, err)

	posts, err := h.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestLoad_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `[]`},
		{"not found", http.StatusNotFound, `{"error":"not found"}`},
		{"malformed", http.StatusOK, `[{"title": `},
		{"object", http.StatusOK, `{"title": "x"}`},
		{"null", http.StatusOK, `null`},
		{"trailing markup", http.StatusOK, `[{"title":"Hello","url":"/a"}] <html>oops`},
		{"second value", http.StatusOK, `[{"title":"Hello","url":"/a"}][]`},
		{"null element", http.StatusOK, `[{"title":"Hello","url":"/a"}, null]`},
		{"number element", http.StatusOK, `[1]`},
		{"string element", http.StatusOK, `["Hello"]`},
		{"wrong field type", http.StatusOK, `[{"title": 42, "url": "/a"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serve(t, tt.status, tt.body)
			h, err := NewHTTP(srv.URL)
			require.NoError(t, err)

			posts, err := h.Load(context.Background())
			assert.Error(t, err)
			assert.Nil(t, posts)
		})
	}
}

func TestLoad_StatusSentinel(t *testing.T) {
	srv := serve(t, http.StatusBadGateway, ``)
	h, err := NewHTTP(srv.URL)
	require.NoError(t, err)

	_, err = h.Load(context.Background())
	assert.ErrorIs(t, err, ErrStatus)
}

func TestLoad_NetworkError(t *testing.T) {
	srv := serve(t, http.StatusOK, `[]`)
	url := srv.URL
	srv.Close()

	h, err := NewHTTP(url)
	require.NoError(t, err)
	_, err = h.Load(context.Background())
	assert.Error(t, err)
}

func TestStatic(t *testing.T) {
	s := Static{{Title: "a", URL: "/a"}}
	posts, err := s.Load(context.Background())
	require.NoError(t, err)
	posts[0].Title = "changed"
	assert.Equal(t, "a", s[0].Title)
}
