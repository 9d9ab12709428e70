package database

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(migrations, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	body, err := fs.ReadFile(migrations, "migrations/00001_create_encrypted_tables.sql")
	require.NoError(t, err)
	assert.Contains(t, string(body), "-- +goose Up")
	assert.Contains(t, string(body), "encrypted_tables")
}

func TestMigrate(t *testing.T) {
	t.Cleanup(func() { gooseUp = goose.UpContext })

	t.Run("applies migrations directory", func(t *testing.T) {
		var gotDir string
		gooseUp = func(_ context.Context, _ *sql.DB, dir string, _ ...goose.OptionsFunc) error {
			gotDir = dir
			return nil
		}

		require.NoError(t, Migrate(context.Background(), nil))
		assert.Equal(t, "migrations", gotDir)
	})

	t.Run("wraps errors", func(t *testing.T) {
		gooseUp = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
			return errors.New("boom")
		}

		err := Migrate(context.Background(), nil)
		assert.ErrorContains(t, err, "failed to apply migrations")
	})
}
