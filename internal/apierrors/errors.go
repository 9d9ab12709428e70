// Package apierrors defines errors reported to API callers.
package apierrors

import (
	"errors"

	"google.golang.org/grpc/codes"

	"github.com/dtroode/cipherbank/internal/model"
)

// Kind classifies an APIError.
type Kind string

const (
	KindValidation        Kind = "validation"
	KindAuthentication    Kind = "authentication"
	KindDuplicateUsername Kind = "duplicate_username"
	KindCrypto            Kind = "crypto"
	KindStorage           Kind = "storage"
	KindForbidden         Kind = "forbidden"
	KindNotFound          Kind = "not_found"
)

// APIError is an error with a fixed caller-facing message. Err keeps the
// underlying cause for logs and errors.Is checks; it is never sent to callers.
type APIError struct {
	Kind     Kind
	GRPCCode codes.Code
	Message  string
	Err      error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// As returns the APIError in err's chain, if any.
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// KindOf returns the kind of the APIError in err's chain or an empty Kind.
func KindOf(err error) Kind {
	if apiErr, ok := As(err); ok {
		return apiErr.Kind
	}
	return ""
}

func newError(kind Kind, code codes.Code, message string, err error) *APIError {
	return &APIError{Kind: kind, GRPCCode: code, Message: message, Err: err}
}

func NewErrInvalidUsername() *APIError {
	return newError(KindValidation, codes.InvalidArgument,
		"username must be 3-20 letters, digits or underscores", nil)
}

func NewErrInvalidPassword() *APIError {
	return newError(KindValidation, codes.InvalidArgument,
		"password must be at least 8 characters with lower and upper case letters, a digit and a special character", nil)
}

func NewErrInvalidAmount(err error) *APIError {
	return newError(KindValidation, codes.InvalidArgument, "invalid amount", err)
}

func NewErrInvalidArgument(message string) *APIError {
	return newError(KindValidation, codes.InvalidArgument, message, nil)
}

func NewErrSelfTransfer() *APIError {
	return newError(KindValidation, codes.InvalidArgument, "cannot transfer to self", model.ErrSelfTransfer)
}

func NewErrRecipientNotFound() *APIError {
	return newError(KindValidation, codes.NotFound, "recipient not found", model.ErrRecipientNotFound)
}

func NewErrInsufficientFunds() *APIError {
	return newError(KindValidation, codes.FailedPrecondition, "insufficient funds", model.ErrInsufficientFunds)
}

func NewErrDuplicateUsername(username string) *APIError {
	return newError(KindDuplicateUsername, codes.AlreadyExists,
		"username already exists: "+username, model.ErrUsernameTaken)
}

func NewErrInvalidCredentials() *APIError {
	return newError(KindAuthentication, codes.Unauthenticated, "invalid username or password", model.ErrInvalidCredentials)
}

func NewErrSessionInvalid() *APIError {
	return newError(KindAuthentication, codes.Unauthenticated, "session invalid or expired", model.ErrSessionInvalid)
}

func NewErrMissingSession() *APIError {
	return newError(KindAuthentication, codes.Unauthenticated, "missing session token", model.ErrSessionInvalid)
}

func NewErrChallengeRequired() *APIError {
	return newError(KindAuthentication, codes.PermissionDenied, "challenge not completed", model.ErrChallengeRequired)
}

func NewErrChallengeFailed(err error) *APIError {
	return newError(KindAuthentication, codes.Unauthenticated, "challenge response rejected", err)
}

func NewErrNoPendingChallenge(err error) *APIError {
	return newError(KindAuthentication, codes.FailedPrecondition, "no pending challenge", err)
}

func NewErrAccountNotFound() *APIError {
	return newError(KindNotFound, codes.NotFound, "account not found", model.ErrNotFound)
}

func NewErrForbidden() *APIError {
	return newError(KindForbidden, codes.PermissionDenied, "operation requires administrator", nil)
}

func NewErrInvalidPublicKey(err error) *APIError {
	return newError(KindCrypto, codes.InvalidArgument, "public key is not usable", err)
}

func NewErrCrypto(message string, err error) *APIError {
	return newError(KindCrypto, codes.Internal, message, err)
}

func NewErrStorage(err error) *APIError {
	return newError(KindStorage, codes.Unavailable, "storage failure", err)
}
