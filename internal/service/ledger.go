package service

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dtroode/cipherbank/internal/apierrors"
	"github.com/dtroode/cipherbank/internal/logger"
	"github.com/dtroode/cipherbank/internal/model"
	"github.com/dtroode/cipherbank/internal/validation"
)

// Ledger moves money between accounts. Every operation needs a session that
// has completed the challenge step.
type Ledger struct {
	credentials CredentialTable
	accounts    AccountTable
	sessions    SessionManager
	adminName   string
	logger      *logger.Logger
}

func NewLedger(
	credentials CredentialTable,
	accounts AccountTable,
	sessions SessionManager,
	adminName string,
	logger *logger.Logger,
) *Ledger {
	return &Ledger{
		credentials: credentials,
		accounts:    accounts,
		sessions:    sessions,
		adminName:   adminName,
		logger:      logger,
	}
}

func (l *Ledger) authorize(sessionID string) (model.Session, error) {
	s, ok := l.sessions.Validate(sessionID)
	if !ok {
		return model.Session{}, apierrors.NewErrSessionInvalid()
	}
	if !s.Verified {
		return model.Session{}, apierrors.NewErrChallengeRequired()
	}

	return s, nil
}

func (l *Ledger) authorizeAdmin(ctx context.Context, sessionID string) (model.Session, error) {
	s, err := l.authorize(sessionID)
	if err != nil {
		return model.Session{}, err
	}

	acc, err := lookupAccount(ctx, l.accounts, s.AccountID)
	if err != nil {
		return model.Session{}, err
	}
	if acc.Name != l.adminName {
		l.logger.Warn("Ledger service: admin operation refused",
			"account_id", s.AccountID)
		return model.Session{}, apierrors.NewErrForbidden()
	}

	return s, nil
}

// GetBalance returns the balance of the session owner.
func (l *Ledger) GetBalance(ctx context.Context, sessionID string) (decimal.Decimal, error) {
	summary, err := l.GetAccount(ctx, sessionID)
	if err != nil {
		return decimal.Decimal{}, err
	}

	return summary.Balance, nil
}

// GetAccount returns the session owner's account.
func (l *Ledger) GetAccount(ctx context.Context, sessionID string) (model.AccountSummary, error) {
	s, err := l.authorize(sessionID)
	if err != nil {
		return model.AccountSummary{}, err
	}

	acc, err := lookupAccount(ctx, l.accounts, s.AccountID)
	if err != nil {
		return model.AccountSummary{}, err
	}

	return model.AccountSummary{ID: s.AccountID, Name: acc.Name, Balance: acc.Balance}, nil
}

// Credit adds amount to the session owner's balance and returns the new
// balance.
func (l *Ledger) Credit(ctx context.Context, sessionID string, amount decimal.Decimal) (decimal.Decimal, error) {
	s, err := l.authorize(sessionID)
	if err != nil {
		return decimal.Decimal{}, err
	}

	if err := validation.ValidateAmount(amount); err != nil {
		return decimal.Decimal{}, apierrors.NewErrInvalidAmount(err)
	}

	key := s.AccountID.String()
	var balance decimal.Decimal
	err = l.accounts.Update(ctx, func(current map[string]model.Account) (map[string]model.Account, error) {
		acc, ok := current[key]
		if !ok {
			return nil, apierrors.NewErrAccountNotFound()
		}
		acc.Balance = acc.Balance.Add(amount)
		balance = acc.Balance
		return map[string]model.Account{key: acc}, nil
	})
	if err != nil {
		l.logger.Error("Ledger service: credit failed",
			"account_id", s.AccountID,
			"error", err.Error())
		return decimal.Decimal{}, storageError(err)
	}

	l.logger.Info("Ledger service: account credited",
		"account_id", s.AccountID)

	return balance, nil
}

// Transfer moves amount from the session owner to the account named
// recipient. Both balances are written in one table update. It returns the
// sender's new balance.
func (l *Ledger) Transfer(ctx context.Context, amount decimal.Decimal, senderSessionID, recipient string) (decimal.Decimal, error) {
	s, err := l.authorize(senderSessionID)
	if err != nil {
		return decimal.Decimal{}, err
	}

	if err := validation.ValidateTransferAmount(amount); err != nil {
		return decimal.Decimal{}, apierrors.NewErrInvalidAmount(err)
	}

	senderKey := s.AccountID.String()
	var balance decimal.Decimal
	err = l.accounts.Update(ctx, func(current map[string]model.Account) (map[string]model.Account, error) {
		sender, ok := current[senderKey]
		if !ok {
			return nil, apierrors.NewErrAccountNotFound()
		}

		recipientKey := ""
		for id, acc := range current {
			if acc.Name == recipient {
				recipientKey = id
				break
			}
		}
		if recipientKey == "" {
			return nil, apierrors.NewErrRecipientNotFound()
		}
		if recipientKey == senderKey {
			return nil, apierrors.NewErrSelfTransfer()
		}
		if sender.Balance.LessThan(amount) {
			return nil, apierrors.NewErrInsufficientFunds()
		}

		receiver := current[recipientKey]
		sender.Balance = sender.Balance.Sub(amount)
		receiver.Balance = receiver.Balance.Add(amount)
		balance = sender.Balance

		return map[string]model.Account{
			senderKey:    sender,
			recipientKey: receiver,
		}, nil
	})
	if err != nil {
		l.logger.Info("Ledger service: transfer refused",
			"account_id", s.AccountID,
			"error", err.Error())
		return decimal.Decimal{}, storageError(err)
	}

	l.logger.Info("Ledger service: transfer completed",
		"account_id", s.AccountID)

	return balance, nil
}

// ListAccounts returns every account sorted by name. Administrator only.
func (l *Ledger) ListAccounts(ctx context.Context, sessionID string) ([]model.AccountSummary, error) {
	if _, err := l.authorizeAdmin(ctx, sessionID); err != nil {
		return nil, err
	}

	current, err := l.accounts.Read(ctx)
	if err != nil {
		return nil, storageError(err)
	}

	summaries := make([]model.AccountSummary, 0, len(current))
	for key, acc := range current {
		id, err := uuid.Parse(key)
		if err != nil {
			l.logger.Warn("Ledger service: skipping malformed account id",
				"account_id", key)
			continue
		}
		summaries = append(summaries, model.AccountSummary{ID: id, Name: acc.Name, Balance: acc.Balance})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Name < summaries[j].Name
	})

	return summaries, nil
}

// SetBalance overwrites the balance of an account. Administrator only.
func (l *Ledger) SetBalance(ctx context.Context, sessionID string, accountID uuid.UUID, balance decimal.Decimal) error {
	s, err := l.authorizeAdmin(ctx, sessionID)
	if err != nil {
		return err
	}

	if err := validation.ValidateBalance(balance); err != nil {
		return apierrors.NewErrInvalidAmount(err)
	}

	key := accountID.String()
	err = l.accounts.Update(ctx, func(current map[string]model.Account) (map[string]model.Account, error) {
		acc, ok := current[key]
		if !ok {
			return nil, apierrors.NewErrAccountNotFound()
		}
		acc.Balance = balance
		return map[string]model.Account{key: acc}, nil
	})
	if err != nil {
		return storageError(err)
	}

	l.logger.Info("Ledger service: balance set by administrator",
		"admin_account_id", s.AccountID,
		"account_id", accountID)

	return nil
}

// RemoveAccount deletes an account and every credential that points to it.
// Administrator only; the administrator cannot remove their own account.
func (l *Ledger) RemoveAccount(ctx context.Context, sessionID string, accountID uuid.UUID) error {
	s, err := l.authorizeAdmin(ctx, sessionID)
	if err != nil {
		return err
	}
	if accountID == s.AccountID {
		return apierrors.NewErrInvalidArgument("cannot remove own account")
	}

	key := accountID.String()
	err = l.accounts.Modify(ctx, func(current map[string]model.Account) error {
		if _, ok := current[key]; !ok {
			return apierrors.NewErrAccountNotFound()
		}

		err := l.credentials.Modify(ctx, func(credentials map[string]string) error {
			for hash, id := range credentials {
				if id == key {
					delete(credentials, hash)
				}
			}
			return nil
		})
		if err != nil {
			return err
		}

		delete(current, key)
		return nil
	})
	if err != nil {
		return storageError(err)
	}

	l.logger.Info("Ledger service: account removed by administrator",
		"admin_account_id", s.AccountID,
		"account_id", accountID)

	return nil
}
