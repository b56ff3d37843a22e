// Package apperr defines the error kinds surfaced by vault operations.
package apperr

import "errors"

var (
	// ErrNotFound indicates a note or directory that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrOutsideRoot indicates a caller path that resolves outside the notes root.
	ErrOutsideRoot = errors.New("path is not within the notes directory")
	// ErrUnsupportedExtension indicates a picture upload with a disallowed suffix.
	ErrUnsupportedExtension = errors.New("unsupported picture extension")
)
