package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage keeps objects on the local filesystem under a root
// directory. It is the fallback when no object store is configured; keys
// map to relative paths and public URLs are served from /static/uploads.
type LocalStorage struct {
	root string
}

func NewLocalStorage(root string) (*LocalStorage, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage root: %w", err)
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}

	return &LocalStorage{root: abs}, nil
}

func (s *LocalStorage) Put(_ context.Context, key string, _ string, body io.Reader, _ int64) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create object directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create object file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		return fmt.Errorf("failed to write object: %w", err)
	}

	return nil
}

func (s *LocalStorage) Delete(_ context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete object: %w", err)
	}

	return nil
}

func (s *LocalStorage) PublicURL(key string) string {
	return "/static/uploads/" + strings.TrimPrefix(key, "/")
}

func (s *LocalStorage) resolve(key string) (string, error) {
	cleaned := filepath.Clean("/" + key)
	path := filepath.Join(s.root, cleaned)
	if !strings.HasPrefix(path, s.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("object key escapes storage root: %q", key)
	}

	return path, nil
}
