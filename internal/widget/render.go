package widget

import (
	"html"
	"net/url"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/starford/sitesearch/internal/models"
)

// fragmentPolicy limits rendered result markup to list items and links with
// http(s) or relative targets.
var fragmentPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("li")
	p.AllowAttrs("href").OnElements("a")
	p.RequireParseableURLs(true)
	p.AllowRelativeURLs(true)
	p.AllowURLSchemes("http", "https")
	return p
}()

// Entry is one rendered search hit.
type Entry struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// RenderResult is the output of one render pass. Count always equals
// len(Entries).
type RenderResult struct {
	Count   int     `json:"count"`
	Entries []Entry `json:"results"`
}

// Render filters posts by query and resolves the URL of every hit against
// location. Hits keep corpus order. An empty query yields no entries.
func Render(posts []models.Post, query, location string) RenderResult {
	res := RenderResult{Entries: []Entry{}}
	if query == "" {
		return res
	}
	for _, p := range posts {
		if !Match(p.Title, query) {
			continue
		}
		res.Entries = append(res.Entries, Entry{
			Title: p.Title,
			URL:   ResolveURL(location, p.URL),
		})
	}
	res.Count = len(res.Entries)
	return res
}

// CounterText returns the count as shown in the counter element.
func (r RenderResult) CounterText() string {
	return strconv.Itoa(r.Count)
}

// HTML renders the entries as a sequence of <li><a href="...">title</a></li>
// items. Titles and URLs are escaped, and links with disallowed schemes lose
// their anchor but keep their list item.
func (r RenderResult) HTML() string {
	if len(r.Entries) == 0 {
		return ""
	}
	var b strings.Builder
	for _, e := range r.Entries {
		b.WriteString(`<li><a href="`)
		b.WriteString(html.EscapeString(e.URL))
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(e.Title))
		b.WriteString(`</a></li>`)
	}
	return fragmentPolicy.Sanitize(b.String())
}

// ResolveURL resolves a post URL against the page location. Absolute URLs
// are returned unchanged. Relative ones are appended to the location's
// origin and directory, so a site served under /blog/ links to /blog/<ref>.
// The path is percent-encoded, so "/my post/" becomes "/my%20post/". When
// location is empty or unparseable only the encoding is applied.
func ResolveURL(location, ref string) string {
	r, err := url.Parse(ref)
	if err == nil && r.IsAbs() {
		return ref
	}
	if err != nil {
		// Not a valid reference (e.g. a stray '%'): treat it as a literal path.
		r = &url.URL{Path: ref}
	}
	if location == "" {
		return r.String()
	}
	base, err := url.Parse(location)
	if err != nil {
		return r.String()
	}

	dir := base.EscapedPath()
	if i := strings.LastIndex(dir, "/"); i >= 0 {
		dir = dir[:i]
	} else {
		dir = ""
	}
	rawPath := dir + "/" + strings.TrimPrefix(r.EscapedPath(), "/")
	path, err := url.PathUnescape(rawPath)
	if err != nil {
		path, rawPath = rawPath, ""
	}
	return (&url.URL{
		Scheme:   base.Scheme,
		User:     base.User,
		Host:     base.Host,
		Path:     path,
		RawPath:  rawPath,
		RawQuery: r.RawQuery,
		Fragment: r.Fragment,
	}).String()
}
