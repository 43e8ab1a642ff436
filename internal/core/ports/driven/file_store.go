package driven

import (
	"context"
	"io"
)

// FileStore holds uploaded file bytes (local disk or cloud bucket).
// Paths are opaque keys produced at upload time.
type FileStore interface {
	// Write stores the content under path and returns the number of bytes written
	Write(ctx context.Context, path string, r io.Reader) (int64, error)

	// Read returns the full content stored under path.
	// Returns domain.ErrNotFound if nothing is stored there.
	Read(ctx context.Context, path string) ([]byte, error)

	// Delete removes the content stored under path.
	// Deleting a missing path is not an error.
	Delete(ctx context.Context, path string) error
}
