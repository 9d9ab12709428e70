package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dtroode/cipherbank/internal/model"
)

var _ model.BlobStorage = (*BlobRepository)(nil)

// BlobRepository keeps one row per table path.
type BlobRepository struct {
	db *Connection
}

func NewBlobRepository(db *Connection) *BlobRepository {
	return &BlobRepository{
		db: db,
	}
}

// Put replaces the blob at path in a single statement.
func (r *BlobRepository) Put(ctx context.Context, path string, data []byte) error {
	query := `INSERT INTO encrypted_tables (path, blob, updated_at)
			  VALUES ($1, $2, now())
			  ON CONFLICT (path) DO UPDATE SET blob = EXCLUDED.blob, updated_at = now()`

	if _, err := r.db.ExecContext(ctx, query, path, data); err != nil {
		return fmt.Errorf("failed to put blob: %w", err)
	}
	return nil
}

func (r *BlobRepository) Get(ctx context.Context, path string) ([]byte, error) {
	query := `SELECT blob FROM encrypted_tables WHERE path = $1`

	var data []byte
	err := r.db.QueryRowContext(ctx, query, path).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get blob: %w", err)
	}

	return data, nil
}

func (r *BlobRepository) Exists(ctx context.Context, path string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM encrypted_tables WHERE path = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, path).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check blob: %w", err)
	}
	return exists, nil
}

func (r *BlobRepository) Delete(ctx context.Context, path string) error {
	query := `DELETE FROM encrypted_tables WHERE path = $1`

	if _, err := r.db.ExecContext(ctx, query, path); err != nil {
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}
