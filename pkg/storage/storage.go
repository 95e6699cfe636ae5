// Package storage archives ingested statement files by content hash.
package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned for hashes that were never archived.
var ErrNotFound = errors.New("file not found")

// FileInfo contains metadata about an archived statement
type FileInfo struct {
	ID        uuid.UUID `json:"id"`
	Hash      string    `json:"hash"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	Format    string    `json:"format"`
	Path      string    `json:"path"` // Internal storage path
	CreatedAt time.Time `json:"created_at"`
}

// Archive is the caller-side guard against importing the same bytes twice.
type Archive interface {
	// Has reports whether content with this hash is archived
	Has(ctx context.Context, hash string) (bool, error)

	// Put stores data under its content hash. Storing the same bytes again
	// returns the existing metadata.
	Put(ctx context.Context, filename string, data []byte) (*FileInfo, error)

	// Open returns a reader for archived content
	Open(ctx context.Context, hash string) (io.ReadCloser, *FileInfo, error)

	// List returns every archived file, oldest first
	List(ctx context.Context) ([]*FileInfo, error)

	io.Closer
}

// Open picks the backend from location: gs://bucket/prefix for Google Cloud
// Storage, anything else is a local directory.
func Open(ctx context.Context, location string) (Archive, error) {
	if strings.HasPrefix(location, "gs://") {
		return NewGCSArchive(ctx, location)
	}
	return NewLocalArchive(location)
}
