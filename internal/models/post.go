// Package models defines the domain types for sitesearch.
package models

import "time"

// Post is one searchable entry of the corpus: a display title and a link
// target, usually a site-relative path.
type Post struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// PostMetadata is a lightweight representation of a content file returned by
// storage list operations.
type PostMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
