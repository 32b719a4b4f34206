package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/upravdom/resident-portal/internal/domain/providers"
)

// LocalPhotoStore stores meter photos on the local filesystem
type LocalPhotoStore struct {
	dir string
}

// NewLocalPhotoStore creates a photo store rooted at dir
func NewLocalPhotoStore(dir string) (*LocalPhotoStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalPhotoStore{dir: dir}, nil
}

var _ providers.PhotoStore = (*LocalPhotoStore)(nil)

// Save writes a blob under the given name
func (s *LocalPhotoStore) Save(_ context.Context, name string, data []byte) error {
	path := filepath.Join(s.dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write photo %s: %w", name, err)
	}
	return nil
}
