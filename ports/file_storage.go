package ports

import (
	"context"
	"io"
)

// FileStorage is the working directory the services persist uploads and results to
type FileStorage interface {
	// Store writes r under filename and returns the stored path. An existing
	// file with the same name is replaced.
	Store(ctx context.Context, r io.Reader, filename string) (string, error)
	// Create opens filename for writing and returns the writer with its path.
	Create(ctx context.Context, filename string) (io.WriteCloser, string, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
}
