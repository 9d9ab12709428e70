package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dtroode/cipherbank/internal/apierrors"
	"github.com/dtroode/cipherbank/internal/challenge"
	"github.com/dtroode/cipherbank/internal/crypto"
	"github.com/dtroode/cipherbank/internal/logger"
	"github.com/dtroode/cipherbank/internal/model"
	"github.com/dtroode/cipherbank/internal/validation"
)

type Auth struct {
	credentials CredentialTable
	accounts    AccountTable
	sessions    SessionManager
	challenges  Challenger
	hasher      Hasher
	logger      *logger.Logger
}

func NewAuth(
	credentials CredentialTable,
	accounts AccountTable,
	sessions SessionManager,
	challenges Challenger,
	hasher Hasher,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		credentials: credentials,
		accounts:    accounts,
		sessions:    sessions,
		challenges:  challenges,
		hasher:      hasher,
		logger:      logger,
	}
}

// Register creates an account with a zero balance and returns its ID.
func (a *Auth) Register(ctx context.Context, username, password string, publicKey []byte) (uuid.UUID, error) {
	a.logger.Debug("Auth service: registering account",
		"username", username)

	if !validation.IsValidUsername(username) {
		return uuid.Nil, apierrors.NewErrInvalidUsername()
	}
	if !validation.IsValidPassword(password) {
		return uuid.Nil, apierrors.NewErrInvalidPassword()
	}
	if err := crypto.ValidatePublicKey(publicKey); err != nil {
		a.logger.Info("Auth service: rejected public key",
			"username", username,
			"error", err.Error())
		return uuid.Nil, apierrors.NewErrInvalidPublicKey(err)
	}

	hash := a.hasher.Hash(username, password)
	accountID := uuid.New()

	// The accounts lock is held across the credential write so two
	// registrations of one name cannot both pass the uniqueness scan.
	err := a.accounts.Update(ctx, func(current map[string]model.Account) (map[string]model.Account, error) {
		for _, acc := range current {
			if acc.Name == username {
				return nil, apierrors.NewErrDuplicateUsername(username)
			}
		}

		if err := a.credentials.Write(ctx, map[string]string{hash: accountID.String()}); err != nil {
			return nil, err
		}

		return map[string]model.Account{
			accountID.String(): {
				Name:      username,
				Balance:   decimal.Zero,
				PublicKey: string(publicKey),
			},
		}, nil
	})
	if err != nil {
		if errors.Is(err, model.ErrUsernameTaken) {
			a.logger.Info("Auth service: username already exists",
				"username", username)
			return uuid.Nil, err
		}
		a.logger.Error("Auth service: failed to register account",
			"username", username,
			"error", err.Error())
		return uuid.Nil, storageError(err)
	}

	a.logger.Info("Auth service: account registered",
		"username", username,
		"account_id", accountID)

	return accountID, nil
}

// Login checks the password and opens a session that still has to pass the
// challenge step.
func (a *Auth) Login(ctx context.Context, username, password string) (string, error) {
	a.logger.Debug("Auth service: login attempt",
		"username", username)

	credentials, err := a.credentials.Read(ctx)
	if err != nil {
		a.logger.Error("Auth service: failed to read credentials",
			"error", err.Error())
		return "", storageError(err)
	}

	rawID, ok := credentials[a.hasher.Hash(username, password)]
	if !ok {
		a.logger.Info("Auth service: invalid credentials",
			"username", username)
		return "", apierrors.NewErrInvalidCredentials()
	}

	accountID, err := uuid.Parse(rawID)
	if err != nil {
		a.logger.Error("Auth service: malformed account id in credentials",
			"username", username,
			"error", err.Error())
		return "", apierrors.NewErrInvalidCredentials()
	}

	acc, err := lookupAccount(ctx, a.accounts, accountID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			a.logger.Warn("Auth service: credential points to missing account",
				"username", username,
				"account_id", accountID)
			return "", apierrors.NewErrInvalidCredentials()
		}
		return "", err
	}
	if acc.Name != username {
		return "", apierrors.NewErrInvalidCredentials()
	}

	sessionID, err := a.sessions.Create(accountID)
	if err != nil {
		a.logger.Error("Auth service: failed to create session",
			"account_id", accountID,
			"error", err.Error())
		return "", err
	}

	a.logger.Info("Auth service: password accepted, challenge pending",
		"account_id", accountID)

	return sessionID, nil
}

// Logout ends the session.
func (a *Auth) Logout(_ context.Context, sessionID string) error {
	if !a.sessions.Destroy(sessionID) {
		return apierrors.NewErrSessionInvalid()
	}

	a.logger.Debug("Auth service: session closed")

	return nil
}

// ValidateSession checks the session and refreshes its activity time.
func (a *Auth) ValidateSession(_ context.Context, sessionID string) (model.Session, error) {
	s, ok := a.sessions.Validate(sessionID)
	if !ok {
		return model.Session{}, apierrors.NewErrSessionInvalid()
	}

	return s, nil
}

// IssueChallenge returns a fresh challenge encrypted to the session owner's
// public key. It needs a live session, verified or not.
func (a *Auth) IssueChallenge(ctx context.Context, sessionID string) ([]byte, error) {
	s, err := a.ValidateSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	acc, err := lookupAccount(ctx, a.accounts, s.AccountID)
	if err != nil {
		return nil, err
	}

	blob, err := a.challenges.Issue(acc.Name, []byte(acc.PublicKey))
	if err != nil {
		a.logger.Error("Auth service: failed to issue challenge",
			"account_id", s.AccountID,
			"error", err.Error())
		return nil, apierrors.NewErrCrypto("failed to issue challenge", err)
	}

	return blob, nil
}

// VerifyChallenge checks the decrypted challenge and, on success, marks the
// session as verified.
func (a *Auth) VerifyChallenge(ctx context.Context, sessionID, response string) error {
	s, err := a.ValidateSession(ctx, sessionID)
	if err != nil {
		return err
	}

	acc, err := lookupAccount(ctx, a.accounts, s.AccountID)
	if err != nil {
		return err
	}

	if err := a.challenges.Verify(acc.Name, response); err != nil {
		a.logger.Info("Auth service: challenge rejected",
			"account_id", s.AccountID,
			"error", err.Error())
		if errors.Is(err, challenge.ErrNoPendingChallenge) {
			return apierrors.NewErrNoPendingChallenge(err)
		}
		return apierrors.NewErrChallengeFailed(err)
	}

	if !a.sessions.MarkVerified(sessionID) {
		return apierrors.NewErrSessionInvalid()
	}

	a.logger.Info("Auth service: challenge completed",
		"account_id", s.AccountID)

	return nil
}
