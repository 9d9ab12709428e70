// Package store persists tables as single encrypted blobs.
//
// Every write is a read-merge-write: the current table is read, the update is
// merged into it, and the whole table is re-encrypted to the administrator
// public key. Writes to the same path are serialized.
package store

import (
	"sync"

	"github.com/dtroode/cipherbank/internal/crypto"
	"github.com/dtroode/cipherbank/internal/logger"
	"github.com/dtroode/cipherbank/internal/model"
)

// Envelope encrypts tables to a public key and decrypts them with a
// passphrase-protected private key.
type Envelope interface {
	EncryptTo(publicKey, plaintext []byte) ([]byte, error)
	DecryptWith(privateKey []byte, passphrase string, blob []byte) ([]byte, error)
}

// Store binds blob storage, the envelope and the administrator keys.
type Store struct {
	blobs    model.BlobStorage
	envelope Envelope
	keys     crypto.Keyring
	logger   *logger.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a Store.
func New(blobs model.BlobStorage, envelope Envelope, keys crypto.Keyring, logger *logger.Logger) *Store {
	return &Store{
		blobs:    blobs,
		envelope: envelope,
		keys:     keys,
		logger:   logger,
		locks:    make(map[string]*sync.Mutex),
	}
}

// lock acquires the mutex for path and returns its release function.
func (s *Store) lock(path string) func() {
	s.mu.Lock()
	l, ok := s.locks[path]
	if !ok {
		l = &sync.Mutex{}
		s.locks[path] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}
