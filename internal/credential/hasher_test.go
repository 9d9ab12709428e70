package credential

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dtroode/cipherbank/internal/crypto"
)

func TestHasher_Hash(t *testing.T) {
	h := NewHasher("pepper", crypto.TestKDF)

	first := h.Hash("alice", "Passw0rd!")
	assert.Len(t, first, 2*hashSize)
	assert.Equal(t, first, h.Hash("alice", "Passw0rd!"))

	assert.NotEqual(t, first, h.Hash("alice", "Passw0rd?"))
	assert.NotEqual(t, first, h.Hash("alic", "ePassw0rd!"))
	assert.NotEqual(t, first, NewHasher("other", crypto.TestKDF).Hash("alice", "Passw0rd!"))
}
