// Package loader fetches the search corpus for the widget.
package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/starford/sitesearch/internal/models"
)

// DefaultPath is where the corpus is served, relative to the page origin.
const DefaultPath = "/search.json"

const maxBodyBytes = 16 << 20 // 16 MB

// ErrStatus is returned when the server answers with a non-2xx status.
var ErrStatus = errors.New("loader: unexpected status")

// HTTP loads the corpus with a single GET request.
type HTTP struct {
	client *http.Client
	path   string
	url    string
}

// Option configures an HTTP loader.
type Option func(*HTTP)

// WithHTTPClient sets the client used for the request.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTP) {
		if c != nil {
			h.client = c
		}
	}
}

// WithPath overrides the corpus path.
func WithPath(path string) Option {
	return func(h *HTTP) {
		h.path = path
	}
}

// NewHTTP returns a loader for the corpus of the page at pageURL.
func NewHTTP(pageURL string, opts ...Option) (*HTTP, error) {
	h := &HTTP{
		client: http.DefaultClient,
		path:   DefaultPath,
	}
	for _, opt := range opts {
		opt(h)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("loader: parse page url: %w", err)
	}
	ref, err := url.Parse(h.path)
	if err != nil {
		return nil, fmt.Errorf("loader: parse corpus path: %w", err)
	}
	h.url = base.ResolveReference(ref).String()
	return h, nil
}

// URL returns the resolved corpus URL.
func (h *HTTP) URL() string {
	return h.url
}

// Load fetches and decodes the corpus. Fields other than title and url are
// ignored.
func (h *HTTP) Load(ctx context.Context) ([]models.Post, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return nil, fmt.Errorf("loader: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("loader: fetch %s: %w", h.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("%w: %s from %s", ErrStatus, resp.Status, h.url)
	}

	posts, err := decodeCorpus(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("loader: decode %s: %w", h.url, err)
	}
	return posts, nil
}

// decodeCorpus accepts exactly one JSON array of objects. Trailing data after
// the array and elements that are not objects make the whole body malformed.
func decodeCorpus(r io.Reader) ([]models.Post, error) {
	dec := json.NewDecoder(r)

	var raw []json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errors.New("corpus is not an array")
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after corpus array")
	}

	posts := make([]models.Post, 0, len(raw))
	for i, elem := range raw {
		if b := bytes.TrimSpace(elem); len(b) == 0 || b[0] != '{' {
			return nil, fmt.Errorf("corpus element %d is not an object", i)
		}
		var p models.Post
		if err := json.Unmarshal(elem, &p); err != nil {
			return nil, fmt.Errorf("corpus element %d: %w", i, err)
		}
		posts = append(posts, p)
	}
	return posts, nil
}
