// Package file stores each key as one file inside a data directory.
package file

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MrSnakeDoc/shelf/internal/store"
	"github.com/MrSnakeDoc/shelf/internal/utils"
)

const fileExt = ".json"

// Store persists values as files named after their hex-encoded key.
// Writes go through a temp file and a rename so a crash never leaves a torn value.
type Store struct {
	dir string
}

// New creates the data directory if needed and returns a file store rooted there.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("file store: empty data directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %q: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the data directory.
func (s *Store) Dir() string { return s.dir }

// Get reads the file holding key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return data, nil
}

// Set atomically replaces the file holding key.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	target := s.path(key)

	// Create temp file in the same directory as the target file
	tmpFile, err := os.CreateTemp(s.dir, filepath.Base(target)+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %q: %w", s.dir, err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		utils.Close(tmpFile)
		if _, err := os.Stat(tmpPath); err == nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(value); err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}

	// Ensure data is written to disk
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync %q: %w", key, err)
	}

	// Close the file before renaming (required on Windows)
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, target); err != nil {
		return fmt.Errorf("failed to rename temp file to %q: %w", target, err)
	}

	if err := os.Chmod(target, 0o644); err != nil {
		return fmt.Errorf("failed to set permissions on %q: %w", target, err)
	}
	return nil
}

// Delete removes the file holding key.
func (s *Store) Delete(_ context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

// Ping checks that the data directory is still there.
func (s *Store) Ping(context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("data directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data directory %q is not a directory", s.dir)
	}
	return nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

// path maps a key to its file. Keys may contain ':' and '/', so they are hex-encoded.
func (s *Store) path(key string) string {
	return filepath.Join(s.dir, hex.EncodeToString([]byte(key))+fileExt)
}
