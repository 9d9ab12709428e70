package crypto

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"

	"github.com/cloudflare/circl/kem/mlkem/mlkem768"
	"github.com/cloudflare/circl/sign/mldsa/mldsa65"
)

// Envelope encrypts to public keys and decrypts and signs with
// passphrase-protected private keys. It holds no key material.
type Envelope struct{}

// NewEnvelope creates a new Envelope.
func NewEnvelope() *Envelope {
	return &Envelope{}
}

// EncryptTo encrypts plaintext to an armored public key.
func (*Envelope) EncryptTo(publicKey, plaintext []byte) ([]byte, error) {
	return EncryptTo(publicKey, plaintext)
}

// DecryptWith decrypts an armored message with an armored private key.
func (*Envelope) DecryptWith(privateKey []byte, passphrase string, blob []byte) ([]byte, error) {
	return DecryptWith(privateKey, passphrase, blob)
}

// SignWith produces an inline-signed message.
func (*Envelope) SignWith(privateKey []byte, passphrase string, message []byte) ([]byte, error) {
	return SignWith(privateKey, passphrase, message)
}

// Verify checks an inline-signed message and returns its content.
func (*Envelope) Verify(publicKey, signed []byte) ([]byte, error) {
	return Verify(publicKey, signed)
}

// EncryptTo encrypts plaintext to an armored public key.
//
// The encryption process:
//  1. ML-KEM-768 encapsulation to the recipient key
//  2. HKDF-SHA-512 key derivation over the shared secret, salted with
//     SHA-256 of the KEM ciphertext
//  3. AES-256-GCM encryption of the plaintext
//
// The result is an armored block holding ct_kem || nonce || ciphertext.
func EncryptTo(publicKey, plaintext []byte) ([]byte, error) {
	pub, err := parsePublicKey(publicKey)
	if err != nil {
		return nil, err
	}

	seed := make([]byte, mlkem768.EncapsulationSeedSize)
	if _, err := io.ReadFull(randReader, seed); err != nil {
		return nil, fmt.Errorf("failed to generate encapsulation seed: %w", err)
	}
	defer wipe(seed)

	ctKem := make([]byte, KEMCiphertextSize)
	sharedSecret := make([]byte, KEMSharedKeySize)
	defer wipe(sharedSecret)
	pub.kem.EncapsulateTo(ctKem, sharedSecret, seed)

	aesKey, err := messageKey(sharedSecret, ctKem)
	if err != nil {
		return nil, err
	}
	defer wipe(aesKey)

	sealed, err := sealAESGCM(aesKey, plaintext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt: %w", err)
	}

	body := make([]byte, 0, len(ctKem)+len(sealed))
	body = append(body, ctKem...)
	body = append(body, sealed...)

	return pem.EncodeToMemory(&pem.Block{Type: messageBlock, Bytes: body}), nil
}

// DecryptWith decrypts an armored message. The private key is unlocked for
// the duration of the call only.
func DecryptWith(privateKey []byte, passphrase string, blob []byte) ([]byte, error) {
	block, _ := pem.Decode(blob)
	if block == nil || block.Type != messageBlock {
		return nil, fmt.Errorf("%w: not an encrypted message", ErrInvalidPayload)
	}
	if len(block.Bytes) < KEMCiphertextSize+AESNonceSize+AESTagSize {
		return nil, fmt.Errorf("%w: message too short", ErrInvalidPayload)
	}

	key, err := unlockPrivateKey(privateKey, passphrase)
	if err != nil {
		return nil, err
	}
	defer key.wipe()

	ctKem := block.Bytes[:KEMCiphertextSize]
	sharedSecret := make([]byte, KEMSharedKeySize)
	defer wipe(sharedSecret)
	key.kem.DecapsulateTo(sharedSecret, ctKem)

	aesKey, err := messageKey(sharedSecret, ctKem)
	if err != nil {
		return nil, err
	}
	defer wipe(aesKey)

	return openAESGCM(aesKey, block.Bytes[KEMCiphertextSize:], nil)
}

// SignWith produces an armored message carrying message as its body and an
// ML-DSA-65 signature in its header.
func SignWith(privateKey []byte, passphrase string, message []byte) ([]byte, error) {
	key, err := unlockPrivateKey(privateKey, passphrase)
	if err != nil {
		return nil, err
	}
	defer key.wipe()

	sig := make([]byte, mldsa65.SignatureSize)
	if err := mldsa65.SignTo(key.dsa, message, []byte(SignatureContext), false, sig); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSigningFailed, err)
	}

	return pem.EncodeToMemory(&pem.Block{
		Type:    signedMessageBlock,
		Headers: map[string]string{signatureHeader: base64.StdEncoding.EncodeToString(sig)},
		Bytes:   message,
	}), nil
}

// Verify checks the signature of an armored signed message against an
// armored public key and returns the signed content.
func Verify(publicKey, signed []byte) ([]byte, error) {
	pub, err := parsePublicKey(publicKey)
	if err != nil {
		return nil, err
	}

	block, _ := pem.Decode(signed)
	if block == nil || block.Type != signedMessageBlock {
		return nil, fmt.Errorf("%w: not a signed message", ErrInvalidPayload)
	}

	sig, err := base64.StdEncoding.DecodeString(block.Headers[signatureHeader])
	if err != nil || len(sig) != mldsa65.SignatureSize {
		return nil, fmt.Errorf("%w: bad signature header", ErrInvalidPayload)
	}

	if !mldsa65.Verify(pub.dsa, block.Bytes, []byte(SignatureContext), sig) {
		return nil, ErrSignatureVerificationFailed
	}

	return block.Bytes, nil
}

// EncryptJSON serializes v to JSON and encrypts it to publicKey.
func EncryptJSON(publicKey []byte, v any) ([]byte, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	defer wipe(plaintext)

	return EncryptTo(publicKey, plaintext)
}

// DecryptJSON decrypts blob and unmarshals the JSON content into v.
func DecryptJSON(privateKey []byte, passphrase string, blob []byte, v any) error {
	plaintext, err := DecryptWith(privateKey, passphrase, blob)
	if err != nil {
		return err
	}
	defer wipe(plaintext)

	if err := json.Unmarshal(plaintext, v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	return nil
}

// messageKey derives the AES-256 key for a message.
func messageKey(sharedSecret, ctKem []byte) ([]byte, error) {
	salt := sha256.Sum256(ctKem)
	return DeriveKey(sharedSecret, salt[:], []byte(MessageContext), AESKeySize)
}
