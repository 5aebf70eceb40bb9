package kv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps one file per key inside a directory.
type FileStore struct {
	Root string // e.g. ~/.config/notetabs
}

// NewFileStore creates a FileStore rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create storage directory: %w", err)
	}
	return &FileStore{Root: dir}, nil
}

// Path returns the file backing key.
func (s *FileStore) Path(key string) string {
	return filepath.Join(s.Root, sanitizeKey(key)+".json")
}

// Get reads the value stored under key.
func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("could not read %s: %w", key, err)
	}
	return data, nil
}

// Set writes value under key. The write goes to a temp file that is renamed
// into place, so readers never see a half-written value.
func (s *FileStore) Set(_ context.Context, key string, value []byte) error {
	path := s.Path(key)
	tmp, err := os.CreateTemp(s.Root, "."+sanitizeKey(key)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("could not create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("could not write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not write %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("could not replace %s: %w", key, err)
	}
	return nil
}

// Close is a no-op.
func (s *FileStore) Close() error { return nil }

// sanitizeKey keeps keys usable as file names.
func sanitizeKey(key string) string {
	var clean strings.Builder
	for _, r := range key {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			clean.WriteRune(r)
		} else {
			clean.WriteRune('_')
		}
	}
	return clean.String()
}
