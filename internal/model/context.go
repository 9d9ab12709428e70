package model

import (
	"context"

	"github.com/google/uuid"
)

type ContextManager interface {
	SetSessionToContext(ctx context.Context, session Session) context.Context
	GetSessionIDFromContext(ctx context.Context) (string, bool)
	GetAccountIDFromContext(ctx context.Context) (uuid.UUID, bool)
}
