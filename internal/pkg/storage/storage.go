package storage

import (
	"context"
	"errors"
	"io"
)

var (
	ErrInvalidPath  = errors.New("invalid file path")
	ErrFileNotFound = errors.New("file not found")
)

// FileStorage keeps uploaded documents, receipts and rendered payslips.
type FileStorage interface {
	// Upload writes file under path and returns the stored key.
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)
	Download(ctx context.Context, path string) (io.ReadCloser, error)
	// Delete is a no-op for missing files.
	Delete(ctx context.Context, path string) error
	// GetURL returns the public URL for a stored key.
	GetURL(path string) string
}
