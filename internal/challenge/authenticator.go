// Package challenge implements the second login step: the server signs a
// random phrase, encrypts it to the user's public key, and expects the
// decrypted phrase back.
package challenge

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dtroode/cipherbank/internal/crypto"
	"github.com/dtroode/cipherbank/internal/logger"
)

var (
	// ErrNoPendingChallenge is returned when a response arrives for a user
	// that has no outstanding challenge.
	ErrNoPendingChallenge = errors.New("no pending challenge")
	// ErrChallengeMismatch is returned when the response does not match.
	ErrChallengeMismatch = errors.New("challenge response mismatch")
)

// Envelope signs with the administrator key and encrypts to user keys.
type Envelope interface {
	EncryptTo(publicKey, plaintext []byte) ([]byte, error)
	SignWith(privateKey []byte, passphrase string, message []byte) ([]byte, error)
}

// Authenticator keeps at most one pending challenge per user.
type Authenticator struct {
	envelope  Envelope
	keys      crypto.Keyring
	wordCount int
	words     []string
	logger    *logger.Logger

	mu      sync.Mutex
	pending map[string]string
}

// NewAuthenticator creates an Authenticator. A non-positive wordCount falls
// back to DefaultWordCount.
func NewAuthenticator(envelope Envelope, keys crypto.Keyring, wordCount int, logger *logger.Logger) *Authenticator {
	if wordCount <= 0 {
		wordCount = DefaultWordCount
	}

	return &Authenticator{
		envelope:  envelope,
		keys:      keys,
		wordCount: wordCount,
		words:     DefaultWords,
		logger:    logger,
		pending:   make(map[string]string),
	}
}

// Issue creates a new challenge for username, replacing any pending one.
// The returned blob is the administrator-signed phrase encrypted to
// userPublicKey. Nothing is recorded if signing or encryption fails.
func (a *Authenticator) Issue(username string, userPublicKey []byte) ([]byte, error) {
	phrase, err := Generate(a.words, a.wordCount, nil)
	if err != nil {
		return nil, err
	}

	signed, err := a.envelope.SignWith(a.keys.PrivateKey, a.keys.Passphrase, []byte(phrase))
	if err != nil {
		a.logger.Error("Challenge: failed to sign challenge",
			"username", username,
			"error", err.Error())
		return nil, fmt.Errorf("failed to sign challenge: %w", err)
	}

	blob, err := a.envelope.EncryptTo(userPublicKey, signed)
	if err != nil {
		a.logger.Warn("Challenge: failed to encrypt challenge",
			"username", username,
			"error", err.Error())
		return nil, fmt.Errorf("failed to encrypt challenge: %w", err)
	}

	a.mu.Lock()
	a.pending[username] = phrase
	a.mu.Unlock()

	a.logger.Debug("Challenge: issued", "username", username)

	return blob, nil
}

// Verify checks the decrypted phrase sent back by the user. Surrounding
// whitespace is ignored. A pending challenge is consumed only on success.
func (a *Authenticator) Verify(username, response string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	expected, ok := a.pending[username]
	if !ok {
		return ErrNoPendingChallenge
	}

	got := strings.TrimSpace(response)
	if subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
		a.logger.Info("Challenge: response mismatch", "username", username)
		return ErrChallengeMismatch
	}

	delete(a.pending, username)

	return nil
}

// HasPending reports whether username has an outstanding challenge.
func (a *Authenticator) HasPending(username string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	_, ok := a.pending[username]
	return ok
}

// Reset drops the pending challenge of username, if any.
func (a *Authenticator) Reset(username string) {
	a.mu.Lock()
	delete(a.pending, username)
	a.mu.Unlock()
}
