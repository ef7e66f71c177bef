package storage

import (
	"context"
	"os"
	"path/filepath"
)

// Store persists attachment blobs under opaque keys. The core only keeps
// metadata; delivery of blobs to an S3-like backend is this interface's
// concern.
type Store interface {
	Put(ctx context.Context, key string, content []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// DiskStore is a filesystem-backed Store used for development and tests.
type DiskStore struct {
	root string
}

// NewDiskStore creates a Store rooted at the given directory
func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &DiskStore{root: root}, nil
}

func (s *DiskStore) path(key string) string {
	return filepath.Join(s.root, filepath.Base(key))
}

// Put writes a blob under the key, overwriting any previous content
func (s *DiskStore) Put(_ context.Context, key string, content []byte) error {
	return os.WriteFile(s.path(key), content, 0o644)
}

// Get reads the blob stored under the key
func (s *DiskStore) Get(_ context.Context, key string) ([]byte, error) {
	return os.ReadFile(s.path(key))
}

// Delete removes the blob stored under the key. Missing blobs are not an
// error: metadata cleanup must stay idempotent.
func (s *DiskStore) Delete(_ context.Context, key string) error {
	err := os.Remove(s.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
