package model

import (
	"time"

	"github.com/google/uuid"
)

// Session is an authenticated login. Verified is set once the holder has
// answered a challenge.
type Session struct {
	ID           string
	AccountID    uuid.UUID
	CreatedAt    time.Time
	LastActivity time.Time
	Verified     bool
}
