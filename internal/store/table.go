package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dtroode/cipherbank/internal/model"
)

// ReadState tells how a tolerant read ended.
type ReadState int

const (
	// ReadStateOK means the table was decrypted and parsed.
	ReadStateOK ReadState = iota
	// ReadStateAbsent means nothing is stored at the path yet.
	ReadStateAbsent
	// ReadStateCorrupt means a blob exists but could not be decrypted or parsed.
	ReadStateCorrupt
)

func (s ReadState) String() string {
	switch s {
	case ReadStateOK:
		return "ok"
	case ReadStateAbsent:
		return "absent"
	case ReadStateCorrupt:
		return "corrupt"
	default:
		return "unknown"
	}
}

// Table is a typed view of one encrypted table.
type Table[V any] struct {
	store *Store
	path  string
}

// NewTable returns the table stored at path.
func NewTable[V any](s *Store, path string) *Table[V] {
	return &Table[V]{store: s, path: path}
}

// Path returns the storage path of the table.
func (t *Table[V]) Path() string {
	return t.path
}

// Read returns the table contents. A missing table, or one that cannot be
// decrypted or parsed, reads as empty. Only backend failures are returned.
func (t *Table[V]) Read(ctx context.Context) (map[string]V, error) {
	entries, _, err := t.Inspect(ctx)
	return entries, err
}

// Inspect is Read that also reports whether the table was absent or corrupt.
func (t *Table[V]) Inspect(ctx context.Context) (map[string]V, ReadState, error) {
	blob, err := t.store.blobs.Get(ctx, t.path)
	if errors.Is(err, model.ErrNotFound) {
		return make(map[string]V), ReadStateAbsent, nil
	}
	if err != nil {
		return nil, ReadStateAbsent, fmt.Errorf("failed to read table %s: %w", t.path, err)
	}

	entries, err := t.decode(blob)
	if err != nil {
		t.store.logger.Warn("Store: table unreadable, treating as empty",
			"path", t.path,
			"error", err.Error())
		return make(map[string]V), ReadStateCorrupt, nil
	}

	return entries, ReadStateOK, nil
}

// Load is a strict read: a missing table returns model.ErrNotFound and a
// decryption failure returns the crypto error.
func (t *Table[V]) Load(ctx context.Context) (map[string]V, error) {
	blob, err := t.store.blobs.Get(ctx, t.path)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read table %s: %w", t.path, err)
	}

	return t.decode(blob)
}

// Write merges updates into the table. Later values win per key.
func (t *Table[V]) Write(ctx context.Context, updates map[string]V) error {
	return t.Update(ctx, func(map[string]V) (map[string]V, error) {
		return updates, nil
	})
}

// Update computes updates from the current contents and merges them in. The
// read, fn and the write run under the table lock. An error from fn aborts
// the write and is returned unchanged.
func (t *Table[V]) Update(ctx context.Context, fn func(current map[string]V) (map[string]V, error)) error {
	return t.Modify(ctx, func(current map[string]V) error {
		updates, err := fn(current)
		if err != nil {
			return err
		}
		for k, v := range updates {
			current[k] = v
		}
		return nil
	})
}

// Delete removes keys from the table.
func (t *Table[V]) Delete(ctx context.Context, keys ...string) error {
	return t.Modify(ctx, func(current map[string]V) error {
		for _, k := range keys {
			delete(current, k)
		}
		return nil
	})
}

// Modify lets fn edit the current contents in place, then writes the result.
// The read, fn and the write run under the table lock.
func (t *Table[V]) Modify(ctx context.Context, fn func(current map[string]V) error) error {
	unlock := t.store.lock(t.path)
	defer unlock()

	current, state, err := t.Inspect(ctx)
	if err != nil {
		return err
	}

	if err := fn(current); err != nil {
		return err
	}

	if err := t.persist(ctx, current); err != nil {
		return err
	}

	t.store.logger.Debug("Store: table written",
		"path", t.path,
		"previous_state", state.String(),
		"entries", len(current))

	return nil
}

func (t *Table[V]) decode(blob []byte) (map[string]V, error) {
	plaintext, err := t.store.envelope.DecryptWith(t.store.keys.PrivateKey, t.store.keys.Passphrase, blob)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt table %s: %w", t.path, err)
	}

	entries := make(map[string]V)
	if err := json.Unmarshal(plaintext, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse table %s: %w", t.path, err)
	}
	if entries == nil {
		entries = make(map[string]V)
	}

	return entries, nil
}

// persist encrypts the table and replaces the stored blob. Nothing is written
// when encryption fails.
func (t *Table[V]) persist(ctx context.Context, entries map[string]V) error {
	plaintext, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal table %s: %w", t.path, err)
	}

	blob, err := t.store.envelope.EncryptTo(t.store.keys.PublicKey, plaintext)
	if err != nil {
		return fmt.Errorf("%w %s: %w", model.ErrEncryptFailed, t.path, err)
	}

	if err := t.store.blobs.Put(ctx, t.path, blob); err != nil {
		return fmt.Errorf("failed to write table %s: %w", t.path, err)
	}

	return nil
}
