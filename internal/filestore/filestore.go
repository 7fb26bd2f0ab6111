// Package filestore defines the interface for storing user-uploaded files.
//
// Handlers depend on this interface rather than a concrete backend, so the
// storage location (local disk in development, object storage in production)
// can change without touching the API layer.
package filestore

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrEmptyName is returned when Save is called without a file name.
	ErrEmptyName = errors.New("file name is required")

	// ErrTooLarge is returned when the uploaded content exceeds the
	// backend's size limit.
	ErrTooLarge = errors.New("file exceeds the size limit")
)

// FileStore persists uploaded files and returns a URL they can be served from.
type FileStore interface {
	// Save writes the content under the given name, overwriting any
	// previous file with the same name, and returns the public URL.
	Save(ctx context.Context, name string, content io.Reader) (string, error)
}
