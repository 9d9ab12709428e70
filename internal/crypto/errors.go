package crypto

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidKey is returned when a key blob cannot be parsed.
	ErrInvalidKey = errors.New("invalid key")

	// ErrNotPublicKey is returned when a private key or another armored block
	// is supplied where a public key is expected.
	ErrNotPublicKey = fmt.Errorf("%w: not a public key", ErrInvalidKey)

	// ErrNotPrivateKey is returned when a private key is expected but another
	// armored block is supplied.
	ErrNotPrivateKey = fmt.Errorf("%w: not a private key", ErrInvalidKey)

	// ErrDecryptionFailed is returned when decryption fails. A bad passphrase,
	// a corrupt blob and a key mismatch all surface as this error.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrBadPassphrase is returned when the private key cannot be unlocked.
	ErrBadPassphrase = fmt.Errorf("%w: bad passphrase", ErrDecryptionFailed)

	// ErrInvalidPayload is returned when an armored message is malformed.
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrSigningFailed is returned when a message cannot be signed.
	ErrSigningFailed = errors.New("signing failed")

	// ErrSignatureVerificationFailed is returned when signature verification fails.
	ErrSignatureVerificationFailed = errors.New("signature verification failed")

	// ErrInvalidKeySize is returned when the AES key size is invalid.
	ErrInvalidKeySize = errors.New("invalid key size")

	// ErrInvalidNonceSize is returned when the nonce size is invalid.
	ErrInvalidNonceSize = errors.New("invalid nonce size")
)

// IsKeyError reports whether err is caused by an unusable key.
func IsKeyError(err error) bool {
	return errors.Is(err, ErrInvalidKey)
}

// IsDecryptionError reports whether err is caused by a failed decryption.
func IsDecryptionError(err error) bool {
	return errors.Is(err, ErrDecryptionFailed) || errors.Is(err, ErrInvalidPayload)
}
