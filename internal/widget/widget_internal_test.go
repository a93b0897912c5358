package widget

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/sitesearch/internal/models"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		title, query string
		want         bool
	}{
		{"Hello World", "hello", true},
		{"hello world", "O", true},
		{"Hello World", "LO WO", true},
		{"Hello World", "world!", false},
		{"Another Post", "post", true},
		{"Another Post", "xyz", false},
		{"", "a", false},
		{"Ünïcode Title", "ünï", true},
	}
	for _, tt := range tests {
		t.Run(tt.title+"/"+tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(tt.title, tt.query))
			want := strings.Contains(strings.ToLower(tt.title), strings.ToLower(tt.query))
			assert.Equal(t, want, Match(tt.title, tt.query))
		})
	}
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		location, ref, want string
	}{
		{"https://example.com/", "/a", "https://example.com/a"},
		{"https://example.com", "/a", "https://example.com/a"},
		{"https://example.com/?q=x#top", "/a", "https://example.com/a"},
		{"https://example.com/blog/", "/posts/x/", "https://example.com/blog/posts/x/"},
		{"https://example.com/blog/search.html", "posts/x/", "https://example.com/blog/posts/x/"},
		{"https://example.com/", "https://other.org/p", "https://other.org/p"},
		{"", "/a", "/a"},
		{"http://localhost:8080/", "/a?x=1#frag", "http://localhost:8080/a?x=1#frag"},
		{"https://example.com/", "/posts/my post/", "https://example.com/posts/my%20post/"},
		{"https://example.com/blog/", "posts/café/", "https://example.com/blog/posts/caf%C3%A9/"},
		{"https://example.com/my docs/index.html", "a/", "https://example.com/my%20docs/a/"},
		{"https://example.com/", "/a%2Fb/", "https://example.com/a%2Fb/"},
		{"", "/posts/my post/", "/posts/my%20post/"},
	}
	for _, tt := range tests {
		t.Run(tt.location+"+"+tt.ref, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveURL(tt.location, tt.ref))
		})
	}
}

func TestRender_OrderAndConsistency(t *testing.T) {
	posts := []models.Post{
		{Title: "Go generics", URL: "/1"},
		{Title: "Rust", URL: "/2"},
		{Title: "GO modules", URL: "/3"},
		{Title: "Going places", URL: "/4"},
	}
	res := Render(posts, "go", "https://example.com/")

	require.Equal(t, len(res.Entries), res.Count)
	assert.Equal(t, []Entry{
		{Title: "Go generics", URL: "https://example.com/1"},
		{Title: "GO modules", URL: "https://example.com/3"},
		{Title: "Going places", URL: "https://example.com/4"},
	}, res.Entries)
	assert.Equal(t, "3", res.CounterText())
}

func TestRender_EmptyQuery(t *testing.T) {
	res := Render([]models.Post{{Title: "Anything", URL: "/a"}}, "", "https://example.com/")
	assert.Equal(t, 0, res.Count)
	assert.Empty(t, res.Entries)
	assert.Equal(t, "", res.HTML())
}

func TestRender_Idempotent(t *testing.T) {
	posts := []models.Post{{Title: "Hello World", URL: "/a"}, {Title: "Another Post", URL: "/b"}}
	first := Render(posts, "o", "https://example.com/")
	second := Render(posts, "o", "https://example.com/")
	assert.Equal(t, first, second)
	assert.Equal(t, first.HTML(), second.HTML())
}

func TestRenderResult_HTML(t *testing.T) {
	res := RenderResult{Count: 1, Entries: []Entry{{Title: "Hello World", URL: "https://example.com/a"}}}
	assert.Equal(t, `<li><a href="https://example.com/a">Hello World</a></li>`, res.HTML())
}

func TestRenderResult_HTMLEscapesTitle(t *testing.T) {
	res := RenderResult{Count: 1, Entries: []Entry{{Title: `<script>alert(1)</script>`, URL: "/x"}}}
	out := res.HTML()
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestRenderResult_HTMLDropsScriptURLs(t *testing.T) {
	res := RenderResult{Count: 1, Entries: []Entry{{Title: "Bad", URL: "javascript:alert(1)"}}}
	out := res.HTML()
	assert.NotContains(t, out, "javascript:")
	assert.Equal(t, 1, strings.Count(out, "<li>"))
}

func TestCorpus_ReplaceAtMostOnce(t *testing.T) {
	var c Corpus
	assert.Empty(t, c.Posts())
	assert.Equal(t, 0, c.Len())

	first := []models.Post{{Title: "a", URL: "/a"}}
	require.True(t, c.Replace(first))
	assert.False(t, c.Replace([]models.Post{{Title: "b", URL: "/b"}}))
	assert.Equal(t, first, c.Posts())

	first[0].Title = "mutated"
	assert.Equal(t, "a", c.Posts()[0].Title, "corpus keeps its own copy")
}

func TestCorpus_ConcurrentReaders(t *testing.T) {
	var c Corpus
	posts := make([]models.Post, 100)
	for i := range posts {
		posts[i] = models.Post{Title: "p", URL: "/p"}
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				n := c.Len()
				if n != 0 && n != len(posts) {
					t.Errorf("torn read: %d posts", n)
					return
				}
			}
		}()
	}
	c.Replace(posts)
	wg.Wait()
}
