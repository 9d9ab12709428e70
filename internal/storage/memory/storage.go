// Package memory keeps blobs in process memory.
package memory

import (
	"context"
	"sync"

	"github.com/dtroode/cipherbank/internal/model"
)

var _ model.BlobStorage = (*Storage)(nil)

// Storage is a mutex-guarded map of blobs.
type Storage struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewStorage() *Storage {
	return &Storage{blobs: make(map[string][]byte)}
}

func (s *Storage) Put(_ context.Context, path string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blobs[path] = append([]byte(nil), data...)
	return nil
}

func (s *Storage) Get(_ context.Context, path string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[path]
	if !ok {
		return nil, model.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (s *Storage) Exists(_ context.Context, path string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.blobs[path]
	return ok, nil
}

func (s *Storage) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.blobs, path)
	return nil
}
