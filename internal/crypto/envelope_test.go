package crypto

import (
	"encoding/pem"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testKeys struct {
	public, private []byte
}

var (
	keysOnce sync.Once
	alice    testKeys
	bob      testKeys
)

func fixtures(t *testing.T) (testKeys, testKeys) {
	t.Helper()
	keysOnce.Do(func() {
		var err error
		alice.public, alice.private, err = GenerateKeyPair("alice-pass", TestKDF)
		if err != nil {
			panic(err)
		}
		bob.public, bob.private, err = GenerateKeyPair("bob-pass", TestKDF)
		if err != nil {
			panic(err)
		}
	})
	return alice, bob
}

func tamper(t *testing.T, blob []byte, offset int) []byte {
	t.Helper()
	block, _ := pem.Decode(blob)
	require.NotNil(t, block)
	block.Bytes[offset] ^= 0xff
	return pem.EncodeToMemory(block)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestGenerateKeyPair(t *testing.T) {
	a, _ := fixtures(t)

	assert.NoError(t, ValidatePublicKey(a.public))
	assert.ErrorIs(t, ValidatePublicKey(a.private), ErrNotPublicKey)
	assert.True(t, IsKeyError(ValidatePublicKey([]byte("not a key"))))

	block, _ := pem.Decode(a.private)
	require.NotNil(t, block)
	assert.Equal(t, privateKeyBlock, block.Type)
	assert.Equal(t, "1", block.Headers[kdfTimeHeader])
	assert.Equal(t, "64", block.Headers[kdfMemoryHeader])
	assert.NotEmpty(t, block.Headers[kdfSaltHeader])

	_, _, err := GenerateKeyPair("x", KDFParams{})
	assert.Error(t, err)
}

func TestGenerateKeyPair_RandFailure(t *testing.T) {
	restore := SetRandReaderForTesting(failingReader{})
	defer restore()

	_, _, err := GenerateKeyPair("pass", TestKDF)
	assert.Error(t, err)
}

func TestEncryptTo(t *testing.T) {
	a, _ := fixtures(t)

	tests := []struct {
		name    string
		key     []byte
		wantErr error
	}{
		{name: "public key", key: a.public},
		{name: "private key", key: a.private, wantErr: ErrNotPublicKey},
		{name: "garbage", key: []byte("-----BEGIN NOTHING-----"), wantErr: ErrInvalidKey},
		{name: "truncated", key: pem.EncodeToMemory(&pem.Block{Type: publicKeyBlock, Bytes: []byte{1, 2, 3}}), wantErr: ErrInvalidKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob, err := EncryptTo(tt.key, []byte("payload"))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, blob)
				return
			}
			require.NoError(t, err)
			assert.NotContains(t, string(blob), "payload")
		})
	}
}

func TestDecryptWith(t *testing.T) {
	a, b := fixtures(t)

	blob, err := EncryptTo(a.public, []byte(`{"hello":"world"}`))
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		plaintext, err := DecryptWith(a.private, "alice-pass", blob)
		require.NoError(t, err)
		assert.Equal(t, `{"hello":"world"}`, string(plaintext))
	})

	t.Run("wrong passphrase", func(t *testing.T) {
		_, err := DecryptWith(a.private, "nope", blob)
		assert.ErrorIs(t, err, ErrBadPassphrase)
		assert.True(t, IsDecryptionError(err))
	})

	t.Run("key mismatch", func(t *testing.T) {
		_, err := DecryptWith(b.private, "bob-pass", blob)
		assert.ErrorIs(t, err, ErrDecryptionFailed)
	})

	t.Run("tampered ciphertext", func(t *testing.T) {
		_, err := DecryptWith(a.private, "alice-pass", tamper(t, blob, KEMCiphertextSize+AESNonceSize+1))
		assert.ErrorIs(t, err, ErrDecryptionFailed)
	})

	t.Run("not a message", func(t *testing.T) {
		_, err := DecryptWith(a.private, "alice-pass", []byte("plain text"))
		assert.ErrorIs(t, err, ErrInvalidPayload)
		assert.True(t, IsDecryptionError(err))
	})

	t.Run("public key instead of private", func(t *testing.T) {
		_, err := DecryptWith(a.public, "alice-pass", blob)
		assert.ErrorIs(t, err, ErrNotPrivateKey)
	})
}

func TestSignWithAndVerify(t *testing.T) {
	a, b := fixtures(t)

	signed, err := SignWith(a.private, "alice-pass", []byte("anchor banana crystal dynamo"))
	require.NoError(t, err)

	message, err := Verify(a.public, signed)
	require.NoError(t, err)
	assert.Equal(t, "anchor banana crystal dynamo", string(message))

	_, err = Verify(b.public, signed)
	assert.ErrorIs(t, err, ErrSignatureVerificationFailed)

	_, err = Verify(a.public, tamper(t, signed, 0))
	assert.ErrorIs(t, err, ErrSignatureVerificationFailed)

	_, err = SignWith(a.private, "wrong", []byte("x"))
	assert.ErrorIs(t, err, ErrBadPassphrase)
}

func TestSignThenEncrypt(t *testing.T) {
	a, b := fixtures(t)
	env := NewEnvelope()

	signed, err := env.SignWith(a.private, "alice-pass", []byte("grove harbor island jungle"))
	require.NoError(t, err)
	blob, err := env.EncryptTo(b.public, signed)
	require.NoError(t, err)

	opened, err := env.DecryptWith(b.private, "bob-pass", blob)
	require.NoError(t, err)
	message, err := env.Verify(a.public, opened)
	require.NoError(t, err)
	assert.Equal(t, "grove harbor island jungle", string(message))
}

func TestEncryptJSON(t *testing.T) {
	a, _ := fixtures(t)

	in := map[string]string{"hash": "account"}
	blob, err := EncryptJSON(a.public, in)
	require.NoError(t, err)

	var out map[string]string
	require.NoError(t, DecryptJSON(a.private, "alice-pass", blob, &out))
	assert.Equal(t, in, out)

	notJSON, err := EncryptTo(a.public, []byte("{"))
	require.NoError(t, err)
	assert.ErrorIs(t, DecryptJSON(a.private, "alice-pass", notJSON, &out), ErrInvalidPayload)
}

func TestLoadKeyring(t *testing.T) {
	a, _ := fixtures(t)
	dir := t.TempDir()

	pubPath := filepath.Join(dir, "admin_public.asc")
	privPath := filepath.Join(dir, "admin_private.asc")
	require.NoError(t, os.WriteFile(pubPath, a.public, 0o600))
	require.NoError(t, os.WriteFile(privPath, a.private, 0o600))

	kr, err := LoadKeyring(pubPath, privPath, "alice-pass")
	require.NoError(t, err)
	assert.Equal(t, a.public, kr.PublicKey)
	assert.Equal(t, "alice-pass", kr.Passphrase)

	_, err = LoadKeyring(privPath, privPath, "alice-pass")
	assert.ErrorIs(t, err, ErrNotPublicKey)

	_, err = LoadKeyring(filepath.Join(dir, "missing"), privPath, "alice-pass")
	assert.Error(t, err)
}
