package crypto

import (
	"crypto/sha512"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"
)

// KDFParams holds argon2id cost parameters.
type KDFParams struct {
	Time    uint32
	MemKiB  uint32
	Threads uint8
}

// DefaultKDF returns the argon2id parameters used for new private keys.
func DefaultKDF() KDFParams {
	return KDFParams{Time: 1, MemKiB: 64 * 1024, Threads: 4}
}

// TestKDF is a low-cost parameter set for tests.
var TestKDF = KDFParams{Time: 1, MemKiB: 64, Threads: 1}

func (p KDFParams) validate() error {
	if p.Time == 0 || p.MemKiB == 0 || p.Threads == 0 {
		return fmt.Errorf("invalid kdf params: time=%d mem=%d threads=%d", p.Time, p.MemKiB, p.Threads)
	}
	return nil
}

// PassphraseKey derives a 256-bit key from a passphrase with argon2id.
func PassphraseKey(passphrase, salt []byte, params KDFParams) []byte {
	return argon2.IDKey(passphrase, salt, params.Time, params.MemKiB, params.Threads, AESKeySize)
}

// DeriveKey derives a key using HKDF-SHA-512.
func DeriveKey(secret, salt, info []byte, length int) ([]byte, error) {
	if len(salt) == 0 {
		salt = make([]byte, sha512.Size)
	}

	reader := hkdf.New(sha512.New, secret, salt, info)
	key := make([]byte, length)

	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}

	return key, nil
}

// wipe zeroes b.
func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
