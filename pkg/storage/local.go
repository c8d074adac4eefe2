package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxImageSize is the upload cap for report images.
const MaxImageSize = 5 * 1024 * 1024

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// AllowedImageExtension reports whether the file extension is an accepted image type.
func AllowedImageExtension(fileName string) bool {
	return allowedImageExtensions[strings.ToLower(filepath.Ext(fileName))]
}

type localStorage struct {
	dir       string
	publicURL string
}

// NewLocalStorage creates a disk-backed ImageStorage writing into dir.
// Stored files are addressable under publicURL (e.g. "/uploads").
func NewLocalStorage(dir, publicURL string) (ImageStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	return &localStorage{dir: dir, publicURL: strings.TrimSuffix(publicURL, "/")}, nil
}

func (s *localStorage) UploadImage(ctx context.Context, r io.Reader, folder, fileName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if !allowedImageExtensions[ext] {
		return "", fmt.Errorf("only image files are allowed")
	}

	uniqueName := uuid.NewString() + ext
	target := filepath.Join(s.dir, uniqueName)

	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, io.LimitReader(r, MaxImageSize+1)); err != nil {
		os.Remove(target)
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}

	info, err := f.Stat()
	if err == nil && info.Size() > MaxImageSize {
		os.Remove(target)
		return "", fmt.Errorf("image exceeds the %d byte limit", MaxImageSize)
	}

	return s.publicURL + "/" + uniqueName, nil
}

func (s *localStorage) DeleteImage(ctx context.Context, fileURL string) error {
	name := filepath.Base(fileURL)
	if name == "." || name == "/" || name == "" {
		return fmt.Errorf("could not extract file name from URL: %s", fileURL)
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete upload file: %w", err)
	}
	return nil
}
