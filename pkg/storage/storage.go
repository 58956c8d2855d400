// Package storage abstracts the flat objects the tracker persists: the task
// store, the credential store, the generated reports and the activity log.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested path does not exist in storage.
var ErrNotFound = errors.New("not found")

// Storage provides an abstraction over key-value style file storage.
type Storage interface {
	Read(ctx context.Context, path string) ([]byte, error)
	// Write replaces the object at path as a whole.
	Write(ctx context.Context, path string, data []byte) error
	// Append adds data to the end of the object at path, creating it if needed.
	Append(ctx context.Context, path string, data []byte) error
	Delete(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
}
