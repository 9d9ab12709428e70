package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account is a ledger record stored in the accounts table under its ID.
type Account struct {
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	PublicKey string          `json:"public_key"`
}

// AccountSummary is an account as shown to its owner or the administrator.
type AccountSummary struct {
	ID      uuid.UUID
	Name    string
	Balance decimal.Decimal
}
