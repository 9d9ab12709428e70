package crypto

import (
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/cloudflare/circl/kem/mlkem/mlkem768"
	"github.com/cloudflare/circl/sign/mldsa/mldsa65"
)

// Keyring holds an armored key pair and the passphrase that unlocks its
// private half.
type Keyring struct {
	PublicKey  []byte
	PrivateKey []byte
	Passphrase string
}

// LoadKeyring reads an armored key pair from disk and checks that the public
// key parses.
func LoadKeyring(publicKeyPath, privateKeyPath, passphrase string) (Keyring, error) {
	public, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return Keyring{}, fmt.Errorf("failed to read public key: %w", err)
	}

	private, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return Keyring{}, fmt.Errorf("failed to read private key: %w", err)
	}

	if err := ValidatePublicKey(public); err != nil {
		return Keyring{}, err
	}

	return Keyring{PublicKey: public, PrivateKey: private, Passphrase: passphrase}, nil
}

type publicKey struct {
	kem *mlkem768.PublicKey
	dsa *mldsa65.PublicKey
}

// privateKey is an unlocked private key. Callers must call wipe when done.
type privateKey struct {
	seeds  []byte
	kem    *mlkem768.PrivateKey
	dsa    *mldsa65.PrivateKey
	public publicKey
}

func (k *privateKey) wipe() {
	wipe(k.seeds)
	k.kem = nil
	k.dsa = nil
}

func (k publicKey) bytes() []byte {
	buf := make([]byte, KEMPublicKeySize, KEMPublicKeySize+DSAPublicKeySize)
	k.kem.Pack(buf)
	return append(buf, k.dsa.Bytes()...)
}

// GenerateKeyPair creates a new ML-KEM-768/ML-DSA-65 key pair. The private
// key is sealed with a key derived from passphrase.
func GenerateKeyPair(passphrase string, params KDFParams) (public, private []byte, err error) {
	if err := params.validate(); err != nil {
		return nil, nil, err
	}

	seeds := make([]byte, KEMSeedSize+DSASeedSize)
	defer wipe(seeds)
	if _, err := io.ReadFull(randReader, seeds); err != nil {
		return nil, nil, fmt.Errorf("failed to generate key seed: %w", err)
	}

	key := keyFromSeeds(seeds)
	defer key.wipe()

	pubBytes := key.public.bytes()

	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(randReader, salt); err != nil {
		return nil, nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	sealKey := PassphraseKey([]byte(passphrase), salt, params)
	defer wipe(sealKey)

	sealed, err := sealAESGCM(sealKey, seeds, []byte(PrivateKeyContext))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to seal private key: %w", err)
	}

	public = pem.EncodeToMemory(&pem.Block{Type: publicKeyBlock, Bytes: pubBytes})
	private = pem.EncodeToMemory(&pem.Block{
		Type: privateKeyBlock,
		Headers: map[string]string{
			kdfSaltHeader:    base64.StdEncoding.EncodeToString(salt),
			kdfTimeHeader:    strconv.FormatUint(uint64(params.Time), 10),
			kdfMemoryHeader:  strconv.FormatUint(uint64(params.MemKiB), 10),
			kdfThreadsHeader: strconv.FormatUint(uint64(params.Threads), 10),
		},
		Bytes: sealed,
	})

	return public, private, nil
}

// ValidatePublicKey reports whether blob is an armored public key.
func ValidatePublicKey(blob []byte) error {
	_, err := parsePublicKey(blob)
	return err
}

func keyFromSeeds(seeds []byte) *privateKey {
	var dsaSeed [DSASeedSize]byte
	copy(dsaSeed[:], seeds[KEMSeedSize:])
	defer wipe(dsaSeed[:])

	kemPub, kemPriv := mlkem768.NewKeyFromSeed(seeds[:KEMSeedSize])
	dsaPub, dsaPriv := mldsa65.NewKeyFromSeed(&dsaSeed)

	owned := make([]byte, len(seeds))
	copy(owned, seeds)

	return &privateKey{
		seeds:  owned,
		kem:    kemPriv,
		dsa:    dsaPriv,
		public: publicKey{kem: kemPub, dsa: dsaPub},
	}
}

func parsePublicKey(blob []byte) (*publicKey, error) {
	block, _ := pem.Decode(blob)
	if block == nil {
		return nil, fmt.Errorf("%w: no armored block", ErrInvalidKey)
	}
	if block.Type != publicKeyBlock {
		return nil, fmt.Errorf("%w: got %q", ErrNotPublicKey, block.Type)
	}
	if len(block.Bytes) != KEMPublicKeySize+DSAPublicKeySize {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidKey, len(block.Bytes))
	}

	var kemPub mlkem768.PublicKey
	if err := kemPub.Unpack(block.Bytes[:KEMPublicKeySize]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}

	var dsaPub mldsa65.PublicKey
	if err := dsaPub.UnmarshalBinary(block.Bytes[KEMPublicKeySize:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}

	return &publicKey{kem: &kemPub, dsa: &dsaPub}, nil
}

// unlockPrivateKey opens a sealed private key. The returned key must be
// wiped by the caller.
func unlockPrivateKey(blob []byte, passphrase string) (*privateKey, error) {
	block, _ := pem.Decode(blob)
	if block == nil {
		return nil, fmt.Errorf("%w: no armored block", ErrInvalidKey)
	}
	if block.Type != privateKeyBlock {
		return nil, fmt.Errorf("%w: got %q", ErrNotPrivateKey, block.Type)
	}

	params, salt, err := parseKDFHeaders(block.Headers)
	if err != nil {
		return nil, err
	}

	sealKey := PassphraseKey([]byte(passphrase), salt, params)
	defer wipe(sealKey)

	seeds, err := openAESGCM(sealKey, block.Bytes, []byte(PrivateKeyContext))
	if err != nil {
		return nil, ErrBadPassphrase
	}
	defer wipe(seeds)

	if len(seeds) != KEMSeedSize+DSASeedSize {
		return nil, fmt.Errorf("%w: unexpected seed length %d", ErrInvalidKey, len(seeds))
	}

	return keyFromSeeds(seeds), nil
}

func parseKDFHeaders(headers map[string]string) (KDFParams, []byte, error) {
	salt, err := base64.StdEncoding.DecodeString(headers[kdfSaltHeader])
	if err != nil || len(salt) == 0 {
		return KDFParams{}, nil, fmt.Errorf("%w: bad %s header", ErrInvalidKey, kdfSaltHeader)
	}

	t, err := strconv.ParseUint(headers[kdfTimeHeader], 10, 32)
	if err != nil {
		return KDFParams{}, nil, fmt.Errorf("%w: bad %s header", ErrInvalidKey, kdfTimeHeader)
	}
	m, err := strconv.ParseUint(headers[kdfMemoryHeader], 10, 32)
	if err != nil {
		return KDFParams{}, nil, fmt.Errorf("%w: bad %s header", ErrInvalidKey, kdfMemoryHeader)
	}
	p, err := strconv.ParseUint(headers[kdfThreadsHeader], 10, 8)
	if err != nil {
		return KDFParams{}, nil, fmt.Errorf("%w: bad %s header", ErrInvalidKey, kdfThreadsHeader)
	}

	params := KDFParams{Time: uint32(t), MemKiB: uint32(m), Threads: uint8(p)}
	if err := params.validate(); err != nil {
		return KDFParams{}, nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}

	return params, salt, nil
}
