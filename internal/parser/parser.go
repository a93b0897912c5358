// Package parser extracts front matter, title and URL from post files.
package parser

import (
	"bytes"
	"path"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Result holds the output of parsing a post file.
type Result struct {
	Frontmatter map[string]any
	Body        string
	Title       string
	URL         string
	Slug        string
	Date        time.Time
	Draft       bool
}

type fenceFormat struct {
	delim     string
	unmarshal func([]byte, any) error
}

var fences = []fenceFormat{
	{delim: "---", unmarshal: yaml.Unmarshal},
	{delim: "+++", unmarshal: toml.Unmarshal},
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Parse extracts front matter and derives the post attributes from raw
// file bytes.
func Parse(data []byte) (*Result, error) {
	fm, body := splitFrontmatter(data)

	res := &Result{
		Frontmatter: fm,
		Body:        body,
		Title:       deriveTitle(fm, body),
		URL:         firstString(fm, "url", "permalink"),
		Slug:        firstString(fm, "slug"),
		Date:        deriveDate(fm),
	}
	if d, ok := fm["draft"].(bool); ok {
		res.Draft = d
	}
	return res, nil
}

// splitFrontmatter separates front matter from the body. YAML sits between
// "---" lines, TOML between "+++" lines. Without a recognised block, or when
// the block does not decode, the entire content is body.
func splitFrontmatter(data []byte) (map[string]any, string) {
	trimmed := bytes.TrimLeft(data, "\n\r")

	for _, f := range fences {
		if !bytes.HasPrefix(trimmed, []byte(f.delim)) {
			continue
		}

		rest := trimmed[len(f.delim):]
		idx := bytes.Index(rest, []byte("\n"+f.delim))
		if idx < 0 {
			return nil, string(data)
		}

		block := rest[:idx]
		afterDelim := rest[idx+1+len(f.delim):]
		body := strings.TrimLeft(string(afterDelim), "\n\r")

		var fm map[string]any
		if err := f.unmarshal(block, &fm); err != nil {
			return nil, string(data)
		}
		return fm, body
	}
	return nil, string(data)
}

// deriveTitle returns the front matter "title" if present, otherwise the
// first H1 heading, otherwise empty string.
func deriveTitle(fm map[string]any, body string) string {
	if t := firstString(fm, "title"); t != "" {
		return t
	}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}

func firstString(fm map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := fm[k].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

// deriveDate reads "date" (or "published") from front matter. YAML leaves
// timestamps as strings when decoding into a map; TOML yields time values.
func deriveDate(fm map[string]any) time.Time {
	for _, k := range []string{"date", "published"} {
		switch v := fm[k].(type) {
		case time.Time:
			return v.UTC()
		case toml.LocalDate:
			return v.AsTime(time.UTC)
		case toml.LocalDateTime:
			return v.AsTime(time.UTC)
		case string:
			for _, layout := range dateLayouts {
				if t, err := time.Parse(layout, strings.TrimSpace(v)); err == nil {
					return t.UTC()
				}
			}
		}
	}
	return time.Time{}
}

// PostURL returns the site-relative URL of the post stored at rel. An
// explicit url or permalink wins; a slug replaces the file name; otherwise
// the path without extension is used, with index files mapping to their
// directory. Derived URLs end with a slash.
func PostURL(rel string, res *Result) string {
	if res != nil && res.URL != "" {
		return res.URL
	}
	rel = strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(rel, `\`, "/")), "/")
	dir, file := path.Split(rel)
	name := strings.TrimSuffix(file, path.Ext(file))

	if res != nil && res.Slug != "" {
		name = res.Slug
	}
	if name == "index" || name == "_index" {
		name = ""
	}

	u := "/" + path.Join(dir, name)
	if !strings.HasSuffix(u, "/") {
		u += "/"
	}
	return u
}

// TitleFromPath turns a file name into a readable fallback title:
// "posts/hello-world.md" becomes "hello world".
func TitleFromPath(rel string) string {
	file := path.Base(strings.ReplaceAll(rel, `\`, "/"))
	name := strings.TrimSuffix(file, path.Ext(file))
	if name == "index" || name == "_index" {
		if dir := path.Base(path.Dir(rel)); dir != "." && dir != "/" {
			name = dir
		}
	}
	return strings.TrimSpace(strings.NewReplacer("-", " ", "_", " ").Replace(name))
}
