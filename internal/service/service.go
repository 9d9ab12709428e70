// Package service implements registration, two-step login and the ledger.
package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/dtroode/cipherbank/internal/apierrors"
	"github.com/dtroode/cipherbank/internal/model"
)

// Table is an encrypted table keyed by string.
type Table[V any] interface {
	Read(ctx context.Context) (map[string]V, error)
	Write(ctx context.Context, updates map[string]V) error
	Update(ctx context.Context, fn func(current map[string]V) (map[string]V, error)) error
	Modify(ctx context.Context, fn func(current map[string]V) error) error
}

// CredentialTable maps credential hashes to account IDs.
type CredentialTable = Table[string]

// AccountTable maps account IDs to account records.
type AccountTable = Table[model.Account]

type SessionManager interface {
	Create(accountID uuid.UUID) (string, error)
	Validate(sessionID string) (model.Session, bool)
	MarkVerified(sessionID string) bool
	Destroy(sessionID string) bool
}

type Challenger interface {
	Issue(username string, userPublicKey []byte) ([]byte, error)
	Verify(username, response string) error
	Reset(username string)
}

type Hasher interface {
	Hash(username, password string) string
}

// storageError wraps table failures that are not already caller-facing.
func storageError(err error) error {
	if _, ok := apierrors.As(err); ok {
		return err
	}
	return apierrors.NewErrStorage(err)
}

// lookupAccount returns the account stored under id.
func lookupAccount(ctx context.Context, accounts AccountTable, id uuid.UUID) (model.Account, error) {
	current, err := accounts.Read(ctx)
	if err != nil {
		return model.Account{}, storageError(err)
	}

	acc, ok := current[id.String()]
	if !ok {
		return model.Account{}, apierrors.NewErrAccountNotFound()
	}

	return acc, nil
}
