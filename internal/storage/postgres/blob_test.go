package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/cipherbank/internal/model"
)

func newMockRepository(t *testing.T) (*BlobRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewBlobRepository(&Connection{DB: db}), mock
}

func TestBlobRepository_Put(t *testing.T) {
	tests := []struct {
		name    string
		execErr error
		wantErr bool
	}{
		{name: "upsert"},
		{name: "database error", execErr: errors.New("connection refused"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			exp := mock.ExpectExec(`INSERT INTO encrypted_tables .* ON CONFLICT \(path\) DO UPDATE`).
				WithArgs("user/users.json", []byte("cipher"))
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, 1))
			}

			err := repo.Put(context.Background(), "user/users.json", []byte("cipher"))
			if tt.wantErr {
				assert.ErrorContains(t, err, "failed to put blob")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestBlobRepository_Get(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(sqlmock.Sqlmock)
		want    []byte
		wantErr error
	}{
		{
			name: "found",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT blob FROM encrypted_tables WHERE path = \$1`).
					WithArgs("account/accounts.json").
					WillReturnRows(sqlmock.NewRows([]string{"blob"}).AddRow([]byte("cipher")))
			},
			want: []byte("cipher"),
		},
		{
			name: "absent",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT blob FROM encrypted_tables`).
					WithArgs("account/accounts.json").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: model.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			tt.setup(mock)

			got, err := repo.Get(context.Background(), "account/accounts.json")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("database error", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(`SELECT blob FROM encrypted_tables`).WillReturnError(errors.New("timeout"))

		_, err := repo.Get(context.Background(), "account/accounts.json")
		assert.ErrorContains(t, err, "failed to get blob")
		assert.NotErrorIs(t, err, model.ErrNotFound)
	})
}

func TestBlobRepository_ExistsDelete(t *testing.T) {
	repo, mock := newMockRepository(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT EXISTS`).WithArgs("user/users.json").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(`DELETE FROM encrypted_tables WHERE path = \$1`).WithArgs("user/users.json").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT EXISTS`).WithArgs("user/users.json").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := repo.Exists(ctx, "user/users.json")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.Delete(ctx, "user/users.json"))

	exists, err = repo.Exists(ctx, "user/users.json")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestConnection_Ping(t *testing.T) {
	var empty Connection
	assert.Error(t, empty.Ping(context.Background()))
	assert.NoError(t, empty.Close())
}
