package model

import "errors"

var (
	// ErrNotFound is returned when a stored entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEncryptFailed is returned when a table cannot be encrypted before
	// writing. The previously stored blob is left untouched.
	ErrEncryptFailed = errors.New("failed to encrypt table")

	ErrSessionInvalid     = errors.New("session invalid")
	ErrChallengeRequired  = errors.New("challenge not completed")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrSelfTransfer       = errors.New("cannot transfer to self")
	ErrRecipientNotFound  = errors.New("recipient not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
