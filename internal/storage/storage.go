// Package storage provides file storage backends for recipe images and
// the generation of collision-resistant storage paths.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Storage is the contract for durable byte storage addressed by path.
type Storage interface {
	Save(ctx context.Context, key string, r io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
}

// LocalStorage stores files on the local filesystem under a media root.
type LocalStorage struct {
	root string
}

// NewLocalStorage creates a LocalStorage rooted at the given directory.
func NewLocalStorage(root string) *LocalStorage {
	return &LocalStorage{root: root}
}

// resolve joins key onto the media root and rejects keys that would
// escape it.
func (s *LocalStorage) resolve(key string) (string, error) {
	path := filepath.Join(s.root, filepath.FromSlash(key))
	root := filepath.Clean(s.root)
	if path != root && !strings.HasPrefix(path, root+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage key %q escapes media root", key)
	}
	return path, nil
}

// Save writes the reader's contents at key, creating parent directories
// as needed.
func (s *LocalStorage) Save(_ context.Context, key string, r io.Reader, _ string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// Delete removes the file at key. Deleting a missing file is not an error.
func (s *LocalStorage) Delete(_ context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
