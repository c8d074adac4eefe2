package storage

import (
	"context"
	"io"
)

// ImageStorage defines contract for report image storage providers.
type ImageStorage interface {
	// UploadImage uploads image from reader and returns a URL the client can fetch.
	// folder is optional logical folder in storage (e.g. "reports").
	UploadImage(ctx context.Context, r io.Reader, folder, fileName string) (string, error)
	// DeleteImage deletes image from storage using its URL.
	DeleteImage(ctx context.Context, fileURL string) error
}
