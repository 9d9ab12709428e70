package testutil

import (
	"sync"

	"github.com/dtroode/cipherbank/internal/crypto"
)

// AdminPassphrase unlocks the keyring returned by AdminKeyring.
const AdminPassphrase = "correct horse battery staple"

var (
	keyringOnce sync.Once
	keyring     crypto.Keyring
)

// AdminKeyring returns a key pair generated once per test binary with
// low-cost KDF parameters.
func AdminKeyring() crypto.Keyring {
	keyringOnce.Do(func() {
		public, private, err := crypto.GenerateKeyPair(AdminPassphrase, crypto.TestKDF)
		if err != nil {
			panic(err)
		}
		keyring = crypto.Keyring{PublicKey: public, PrivateKey: private, Passphrase: AdminPassphrase}
	})
	return keyring
}

// UserKeys generates a fresh user key pair.
func UserKeys(passphrase string) (public, private []byte) {
	public, private, err := crypto.GenerateKeyPair(passphrase, crypto.TestKDF)
	if err != nil {
		panic(err)
	}
	return public, private
}
