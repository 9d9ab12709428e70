package middleware

import (
	"context"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dtroode/cipherbank/internal/apierrors"
	"github.com/dtroode/cipherbank/internal/logger"
	"github.com/dtroode/cipherbank/internal/model"
)

// SessionValidator checks session tokens.
type SessionValidator interface {
	ValidateSession(ctx context.Context, sessionID string) (model.Session, error)
}

// Authenticate validates bearer session tokens and injects the session into
// the context.
type Authenticate struct {
	sessions       SessionValidator
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(sessions SessionValidator, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{sessions: sessions, contextManager: contextManager, logger: logger}
}

// AuthFunc parses the authorization header, validates the session and
// returns a context carrying it.
func (m *Authenticate) AuthFunc(ctx context.Context) (context.Context, error) {
	var sessionID string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if authHeaders := md.Get("authorization"); len(authHeaders) > 0 {
			sessionID = strings.TrimPrefix(authHeaders[0], "Bearer ")
		}
	}

	session, authErr := m.authenticateSession(ctx, sessionID)
	if authErr != nil {
		return nil, status.Error(codes.Unauthenticated, authErr.Message)
	}

	return m.contextManager.SetSessionToContext(ctx, session), nil
}

func (m *Authenticate) authenticateSession(ctx context.Context, sessionID string) (model.Session, *apierrors.APIError) {
	if sessionID == "" {
		return model.Session{}, apierrors.NewErrMissingSession()
	}

	session, err := m.sessions.ValidateSession(ctx, sessionID)
	if err != nil {
		m.logger.Debug("Authenticate middleware: session rejected",
			"error", err.Error())
		return model.Session{}, apierrors.NewErrSessionInvalid()
	}

	return session, nil
}
