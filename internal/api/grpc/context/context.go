package context

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc/metadata"

	"github.com/dtroode/cipherbank/internal/model"
)

// Metadata keys used to carry the authenticated session through the context.
const (
	sessionIDKey string = "x-session-id"
	accountIDKey string = "x-account-id"
)

// Manager stores the authenticated session in incoming gRPC metadata.
type Manager struct{}

// NewManager creates a new gRPC context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetSessionToContext records the session ID and account ID of an
// authenticated call. Values sent by the client under the same keys are
// replaced.
func (m *Manager) SetSessionToContext(ctx context.Context, session model.Session) context.Context {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		md = metadata.MD{}
	} else {
		md = md.Copy()
	}
	md.Set(sessionIDKey, session.ID)
	md.Set(accountIDKey, session.AccountID.String())

	return metadata.NewIncomingContext(ctx, md)
}

// GetSessionIDFromContext returns the session ID set by SetSessionToContext.
func (m *Manager) GetSessionIDFromContext(ctx context.Context) (string, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", false
	}

	ids := md.Get(sessionIDKey)
	if len(ids) == 0 || ids[0] == "" {
		return "", false
	}

	return ids[0], true
}

// GetAccountIDFromContext returns the account ID set by SetSessionToContext.
func (m *Manager) GetAccountIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return uuid.Nil, false
	}

	ids := md.Get(accountIDKey)
	if len(ids) == 0 {
		return uuid.Nil, false
	}

	accountID, err := uuid.Parse(ids[0])
	if err != nil {
		return uuid.Nil, false
	}

	return accountID, true
}
