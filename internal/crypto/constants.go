package crypto

const (
	// MessageContext is the HKDF info string for messages encrypted to a public key.
	MessageContext = "cipherbank:message:v1"
	// SignatureContext is the ML-DSA context string for signed messages.
	SignatureContext = "cipherbank:signature:v1"
	// PrivateKeyContext is the AES-GCM additional data for sealed private keys.
	PrivateKeyContext = "cipherbank:private-key:v1"

	// KEMSeedSize is the size of the ML-KEM-768 key seed in bytes.
	KEMSeedSize = 64
	// DSASeedSize is the size of the ML-DSA-65 key seed in bytes.
	DSASeedSize = 32
	// KEMPublicKeySize is the size of an ML-KEM-768 public key in bytes.
	KEMPublicKeySize = 1184
	// KEMCiphertextSize is the size of an ML-KEM-768 ciphertext in bytes.
	KEMCiphertextSize = 1088
	// KEMSharedKeySize is the size of the ML-KEM-768 shared secret in bytes.
	KEMSharedKeySize = 32
	// DSAPublicKeySize is the size of an ML-DSA-65 public key in bytes.
	DSAPublicKeySize = 1952
	// DSASignatureSize is the size of an ML-DSA-65 signature in bytes.
	DSASignatureSize = 3309

	// AESKeySize is the size of an AES-256 key in bytes.
	AESKeySize = 32
	// AESNonceSize is the size of an AES-GCM nonce in bytes.
	AESNonceSize = 12
	// AESTagSize is the size of an AES-GCM authentication tag in bytes.
	AESTagSize = 16
	// SaltSize is the size of the passphrase KDF salt in bytes.
	SaltSize = 16

	publicKeyBlock     = "CIPHERBANK PUBLIC KEY"
	privateKeyBlock    = "CIPHERBANK PRIVATE KEY"
	messageBlock       = "CIPHERBANK MESSAGE"
	signedMessageBlock = "CIPHERBANK SIGNED MESSAGE"

	signatureHeader  = "Signature"
	kdfSaltHeader    = "KDF-Salt"
	kdfTimeHeader    = "KDF-Time"
	kdfMemoryHeader  = "KDF-Memory"
	kdfThreadsHeader = "KDF-Threads"
)
