package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dtroode/cipherbank/internal/api/grpc/bankapi"
	"github.com/dtroode/cipherbank/internal/apierrors"
	"github.com/dtroode/cipherbank/internal/logger"
	"github.com/dtroode/cipherbank/internal/model"
	"github.com/dtroode/cipherbank/internal/validation"
)

// AuthService defines registration and the two login steps.
type AuthService interface {
	Register(ctx context.Context, username, password string, publicKey []byte) (uuid.UUID, error)
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context, sessionID string) error
	IssueChallenge(ctx context.Context, sessionID string) ([]byte, error)
	VerifyChallenge(ctx context.Context, sessionID, response string) error
}

// LedgerService defines account and money operations.
type LedgerService interface {
	GetBalance(ctx context.Context, sessionID string) (decimal.Decimal, error)
	GetAccount(ctx context.Context, sessionID string) (model.AccountSummary, error)
	Credit(ctx context.Context, sessionID string, amount decimal.Decimal) (decimal.Decimal, error)
	Transfer(ctx context.Context, amount decimal.Decimal, senderSessionID, recipient string) (decimal.Decimal, error)
	ListAccounts(ctx context.Context, sessionID string) ([]model.AccountSummary, error)
	SetBalance(ctx context.Context, sessionID string, accountID uuid.UUID, balance decimal.Decimal) error
	RemoveAccount(ctx context.Context, sessionID string, accountID uuid.UUID) error
}

// Bank handles the cipherbank.Bank gRPC service.
type Bank struct {
	bankapi.UnimplementedBankServer
	authService    AuthService
	ledgerService  LedgerService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewBank creates a new Bank handler.
func NewBank(authService AuthService, ledgerService LedgerService, contextManager model.ContextManager, logger *logger.Logger) *Bank {
	return &Bank{
		authService:    authService,
		ledgerService:  ledgerService,
		contextManager: contextManager,
		logger:         logger,
	}
}

func (h *Bank) sessionID(ctx context.Context) (string, error) {
	sessionID, ok := h.contextManager.GetSessionIDFromContext(ctx)
	if !ok {
		return "", handleError(apierrors.NewErrMissingSession())
	}
	return sessionID, nil
}

func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func toAccount(s model.AccountSummary) bankapi.Account {
	return bankapi.Account{
		AccountID: s.ID.String(),
		Name:      s.Name,
		Balance:   formatAmount(s.Balance),
	}
}

// Register creates an account.
func (h *Bank) Register(ctx context.Context, req *bankapi.RegisterRequest) (*bankapi.RegisterResponse, error) {
	h.logger.Debug("Bank handler: processing registration request",
		"username", req.Username)

	accountID, err := h.authService.Register(ctx, req.Username, req.Password, []byte(req.PublicKey))
	if err != nil {
		h.logger.Info("Bank handler: registration failed",
			"username", req.Username,
			"error", err.Error())
		return nil, handleError(err)
	}

	return &bankapi.RegisterResponse{AccountID: accountID.String()}, nil
}

// Login checks the password and returns a session that still needs the
// challenge step.
func (h *Bank) Login(ctx context.Context, req *bankapi.LoginRequest) (*bankapi.LoginResponse, error) {
	h.logger.Debug("Bank handler: processing login request",
		"username", req.Username)

	sessionID, err := h.authService.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, handleError(err)
	}

	return &bankapi.LoginResponse{SessionID: sessionID}, nil
}

// Logout ends the caller's session.
func (h *Bank) Logout(ctx context.Context, _ *bankapi.Empty) (*bankapi.Empty, error) {
	sessionID, err := h.sessionID(ctx)
	if err != nil {
		return nil, err
	}

	if err := h.authService.Logout(ctx, sessionID); err != nil {
		return nil, handleError(err)
	}

	return &bankapi.Empty{}, nil
}

// IssueChallenge returns a challenge encrypted to the caller's public key.
func (h *Bank) IssueChallenge(ctx context.Context, _ *bankapi.Empty) (*bankapi.ChallengeResponse, error) {
	sessionID, err := h.sessionID(ctx)
	if err != nil {
		return nil, err
	}

	blob, err := h.authService.IssueChallenge(ctx, sessionID)
	if err != nil {
		return nil, handleError(err)
	}

	return &bankapi.ChallengeResponse{Challenge: string(blob)}, nil
}

// VerifyChallenge checks the decrypted challenge and completes login.
func (h *Bank) VerifyChallenge(ctx context.Context, req *bankapi.VerifyChallengeRequest) (*bankapi.Empty, error) {
	sessionID, err := h.sessionID(ctx)
	if err != nil {
		return nil, err
	}

	if err := h.authService.VerifyChallenge(ctx, sessionID, req.Response); err != nil {
		return nil, handleError(err)
	}

	return &bankapi.Empty{}, nil
}

// GetBalance returns the caller's balance.
func (h *Bank) GetBalance(ctx context.Context, _ *bankapi.Empty) (*bankapi.BalanceResponse, error) {
	sessionID, err := h.sessionID(ctx)
	if err != nil {
		return nil, err
	}

	balance, err := h.ledgerService.GetBalance(ctx, sessionID)
	if err != nil {
		return nil, handleError(err)
	}

	return &bankapi.BalanceResponse{Balance: formatAmount(balance)}, nil
}

// GetAccount returns the caller's account id, name and balance.
func (h *Bank) GetAccount(ctx context.Context, _ *bankapi.Empty) (*bankapi.Account, error) {
	sessionID, err := h.sessionID(ctx)
	if err != nil {
		return nil, err
	}

	summary, err := h.ledgerService.GetAccount(ctx, sessionID)
	if err != nil {
		return nil, handleError(err)
	}

	acc := toAccount(summary)
	return &acc, nil
}

// Credit adds an amount to the caller's account.
func (h *Bank) Credit(ctx context.Context, req *bankapi.CreditRequest) (*bankapi.BalanceResponse, error) {
	sessionID, err := h.sessionID(ctx)
	if err != nil {
		return nil, err
	}

	amount, err := validation.ParseAmount(req.Amount)
	if err != nil {
		return nil, handleError(apierrors.NewErrInvalidAmount(err))
	}

	balance, err := h.ledgerService.Credit(ctx, sessionID, amount)
	if err != nil {
		return nil, handleError(err)
	}

	return &bankapi.BalanceResponse{Balance: formatAmount(balance)}, nil
}

// Transfer moves an amount from the caller to the named recipient.
func (h *Bank) Transfer(ctx context.Context, req *bankapi.TransferRequest) (*bankapi.BalanceResponse, error) {
	sessionID, err := h.sessionID(ctx)
	if err != nil {
		return nil, err
	}

	amount, err := validation.ParseAmount(req.Amount)
	if err != nil {
		return nil, handleError(apierrors.NewErrInvalidAmount(err))
	}

	balance, err := h.ledgerService.Transfer(ctx, amount, sessionID, req.Recipient)
	if err != nil {
		return nil, handleError(err)
	}

	return &bankapi.BalanceResponse{Balance: formatAmount(balance)}, nil
}

// ListAccounts returns every account. Administrator only.
func (h *Bank) ListAccounts(ctx context.Context, _ *bankapi.Empty) (*bankapi.ListAccountsResponse, error) {
	sessionID, err := h.sessionID(ctx)
	if err != nil {
		return nil, err
	}

	summaries, err := h.ledgerService.ListAccounts(ctx, sessionID)
	if err != nil {
		return nil, handleError(err)
	}

	resp := &bankapi.ListAccountsResponse{Accounts: make([]bankapi.Account, 0, len(summaries))}
	for _, s := range summaries {
		resp.Accounts = append(resp.Accounts, toAccount(s))
	}

	return resp, nil
}

// SetBalance overwrites an account balance. Administrator only.
func (h *Bank) SetBalance(ctx context.Context, req *bankapi.SetBalanceRequest) (*bankapi.Empty, error) {
	sessionID, err := h.sessionID(ctx)
	if err != nil {
		return nil, err
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		return nil, handleError(apierrors.NewErrInvalidArgument("invalid account id"))
	}

	balance, err := decimal.NewFromString(req.Balance)
	if err != nil {
		return nil, handleError(apierrors.NewErrInvalidAmount(err))
	}

	if err := h.ledgerService.SetBalance(ctx, sessionID, accountID, balance); err != nil {
		return nil, handleError(err)
	}

	return &bankapi.Empty{}, nil
}

// RemoveAccount deletes an account and its credentials. Administrator only.
func (h *Bank) RemoveAccount(ctx context.Context, req *bankapi.RemoveAccountRequest) (*bankapi.Empty, error) {
	sessionID, err := h.sessionID(ctx)
	if err != nil {
		return nil, err
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		return nil, handleError(apierrors.NewErrInvalidArgument("invalid account id"))
	}

	if err := h.ledgerService.RemoveAccount(ctx, sessionID, accountID); err != nil {
		return nil, handleError(err)
	}

	return &bankapi.Empty{}, nil
}
