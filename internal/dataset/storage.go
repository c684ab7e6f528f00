// Package dataset persists uploads and processed tables in the local
// working directory shared by both services.
//
// The directory is not partitioned per request: files are stored under the
// name the client sent, so two uploads with the same name overwrite each
// other and concurrent requests for one name race.
package dataset

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// StorageConfig holds configuration for file storage
type StorageConfig struct {
	BasePath  string // Working directory
	ChunkSize int    // Copy buffer size
}

// DefaultStorageConfig returns the defaults used by both services
func DefaultStorageConfig() *StorageConfig {
	return &StorageConfig{
		BasePath:  "uploads",
		ChunkSize: 1024 * 1024, // 1MB
	}
}

// LocalFileStorage implements ports.FileStorage on the local filesystem
type LocalFileStorage struct {
	config *StorageConfig
}

// NewLocalFileStorage creates a new local file storage instance
func NewLocalFileStorage(config *StorageConfig) *LocalFileStorage {
	if config == nil {
		config = DefaultStorageConfig()
	}
	if config.ChunkSize <= 0 {
		config.ChunkSize = DefaultStorageConfig().ChunkSize
	}
	return &LocalFileStorage{config: config}
}

// NewLocalFileStorageWithPath creates a new local file storage rooted at basePath
func NewLocalFileStorageWithPath(basePath string) *LocalFileStorage {
	config := DefaultStorageConfig()
	config.BasePath = basePath
	return NewLocalFileStorage(config)
}

// EnsureDir creates the working directory if it does not exist
func (s *LocalFileStorage) EnsureDir() error {
	if err := os.MkdirAll(s.config.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}
	return nil
}

func (s *LocalFileStorage) pathFor(filename string) (string, error) {
	name := filepath.Base(filepath.Clean(filename))
	if name == "." || name == ".." || name == string(filepath.Separator) || strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("invalid filename %q", filename)
	}
	return filepath.Join(s.config.BasePath, name), nil
}

// Store saves r under filename in the working directory, replacing any
// existing file of that name.
func (s *LocalFileStorage) Store(ctx context.Context, r io.Reader, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dest, filePath, err := s.Create(ctx, filename)
	if err != nil {
		return "", err
	}

	buf := make([]byte, s.config.ChunkSize)
	if _, err := io.CopyBuffer(dest, r, buf); err != nil {
		dest.Close()
		os.Remove(filePath)
		return "", fmt.Errorf("failed to copy file contents: %w", err)
	}
	if err := dest.Close(); err != nil {
		os.Remove(filePath)
		return "", fmt.Errorf("failed to close destination file: %w", err)
	}

	return filePath, nil
}

// Create opens filename in the working directory for writing
func (s *LocalFileStorage) Create(ctx context.Context, filename string) (io.WriteCloser, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	if err := s.EnsureDir(); err != nil {
		return nil, "", err
	}

	filePath, err := s.pathFor(filename)
	if err != nil {
		return nil, "", err
	}

	f, err := os.Create(filePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create destination file: %w", err)
	}
	return f, filePath, nil
}

// Open returns a reader for a stored file
func (s *LocalFileStorage) Open(ctx context.Context, filePath string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// Delete removes a file from storage. Missing files are not an error.
func (s *LocalFileStorage) Delete(ctx context.Context, filePath string) error {
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
