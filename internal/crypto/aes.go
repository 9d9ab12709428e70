package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
	"io"
)

// sealAESGCM encrypts plaintext with a fresh random nonce.
// Returns: nonce (12 bytes) || ciphertext || tag (16 bytes)
func sealAESGCM(key, plaintext, aad []byte) ([]byte, error) {
	if len(key) != AESKeySize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidKeySize, len(key), AESKeySize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, AESNonceSize, AESNonceSize+len(plaintext)+AESTagSize)
	if _, err := io.ReadFull(randReader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return gcm.Seal(nonce, nonce, plaintext, aad), nil
}

// openAESGCM reverses sealAESGCM.
func openAESGCM(key, sealed, aad []byte) ([]byte, error) {
	if len(key) != AESKeySize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidKeySize, len(key), AESKeySize)
	}

	if len(sealed) < AESNonceSize+AESTagSize {
		return nil, fmt.Errorf("%w: ciphertext too short", ErrInvalidPayload)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	plaintext, err := gcm.Open(nil, sealed[:AESNonceSize], sealed[AESNonceSize:], aad)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	return plaintext, nil
}
