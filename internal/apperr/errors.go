// Package apperr holds sentinel errors shared across packages.
package apperr

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrInvalidPath = errors.New("invalid path")
	ErrBadPattern  = errors.New("bad glob pattern")
)
