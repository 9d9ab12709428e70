// Package file stores blobs as files below a root directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"

	"github.com/dtroode/cipherbank/internal/model"
)

const (
	dirPerm  os.FileMode = 0o700
	filePerm os.FileMode = 0o600
)

// ErrInvalidPath is returned for paths that would leave the root directory.
var ErrInvalidPath = errors.New("invalid blob path")

var _ model.BlobStorage = (*Storage)(nil)

// Storage keeps each blob in its own file. Writes replace the file
// atomically, so readers see either the old or the new content.
type Storage struct {
	root string
}

// NewStorage creates a Storage rooted at root, creating the directory if needed.
func NewStorage(root string) (*Storage, error) {
	if err := os.MkdirAll(root, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &Storage{root: root}, nil
}

func (s *Storage) resolve(path string) (string, error) {
	if !filepath.IsLocal(path) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	return filepath.Join(s.root, path), nil
}

// Put writes data to a temporary file next to the destination, syncs it and
// renames it over the destination.
func (s *Storage) Put(_ context.Context, path string, data []byte) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(full), dirPerm); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := renameio.WriteFile(full, data, filePerm); err != nil {
		return fmt.Errorf("failed to write blob: %w", err)
	}
	return nil
}

func (s *Storage) Get(_ context.Context, path string) ([]byte, error) {
	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read blob: %w", err)
	}
	return data, nil
}

func (s *Storage) Exists(_ context.Context, path string) (bool, error) {
	full, err := s.resolve(path)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat blob: %w", err)
	}
	return true, nil
}

func (s *Storage) Delete(_ context.Context, path string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}

	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}
