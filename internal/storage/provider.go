// Package storage defines the read access to the content directory that the
// search corpus is built from.
package storage

import "github.com/starford/sitesearch/internal/models"

// Provider is the interface for content file operations. Paths are relative
// to the content root and use forward slashes.
type Provider interface {
	// Root returns the absolute content directory.
	Root() string
	// List returns metadata for every content file that passes the filter.
	List() ([]models.PostMetadata, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Matches reports whether path passes the include/exclude filter.
	Matches(path string) bool
}
