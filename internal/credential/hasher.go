// Package credential derives the lookup key of the credential index.
package credential

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/argon2"

	"github.com/dtroode/cipherbank/internal/crypto"
)

const hashSize = 32

// Hasher derives a deterministic, per-user salted argon2id digest of a
// username and password pair.
type Hasher struct {
	pepper []byte
	params crypto.KDFParams
}

// NewHasher creates a Hasher. The pepper is mixed into every salt.
func NewHasher(pepper string, params crypto.KDFParams) *Hasher {
	return &Hasher{pepper: []byte(pepper), params: params}
}

// Hash returns the hex-encoded credential digest.
func (h *Hasher) Hash(username, password string) string {
	digest := argon2.IDKey([]byte(password), h.salt(username), h.params.Time, h.params.MemKiB, h.params.Threads, hashSize)
	return hex.EncodeToString(digest)
}

func (h *Hasher) salt(username string) []byte {
	s := sha256.New()
	s.Write(h.pepper)
	s.Write([]byte{0})
	s.Write([]byte(username))
	return s.Sum(nil)
}
