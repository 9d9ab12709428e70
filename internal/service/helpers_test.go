package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/cipherbank/internal/challenge"
	"github.com/dtroode/cipherbank/internal/credential"
	"github.com/dtroode/cipherbank/internal/crypto"
	"github.com/dtroode/cipherbank/internal/model"
	"github.com/dtroode/cipherbank/internal/session"
	"github.com/dtroode/cipherbank/internal/storage/memory"
	"github.com/dtroode/cipherbank/internal/store"
	"github.com/dtroode/cipherbank/internal/testutil"
)

const (
	testPassword      = "Sup3r$ecret"
	testKeyPassphrase = "client key passphrase"
	testAdminName     = "admin"
	credentialsPath   = "user/users.json"
	accountsPath      = "account/accounts.json"
)

type user struct {
	id      uuid.UUID
	name    string
	public  []byte
	private []byte
}

type testEnv struct {
	credentials *store.Table[string]
	accounts    *store.Table[model.Account]
	sessions    *session.Manager
	challenges  *challenge.Authenticator
	auth        *Auth
	ledger      *Ledger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := testutil.MakeNoopLogger()
	keys := testutil.AdminKeyring()
	envelope := crypto.NewEnvelope()

	s := store.New(memory.NewStorage(), envelope, keys, log)
	e := &testEnv{
		credentials: store.NewTable[string](s, credentialsPath),
		accounts:    store.NewTable[model.Account](s, accountsPath),
		sessions:    session.NewManager(0, 0, log),
		challenges:  challenge.NewAuthenticator(envelope, keys, challenge.DefaultWordCount, log),
	}
	hasher := credential.NewHasher("pepper", crypto.TestKDF)
	e.auth = NewAuth(e.credentials, e.accounts, e.sessions, e.challenges, hasher, log)
	e.ledger = NewLedger(e.credentials, e.accounts, e.sessions, testAdminName, log)

	return e
}

func (e *testEnv) register(t *testing.T, name string) user {
	t.Helper()

	public, private := testutil.UserKeys(testKeyPassphrase)
	id, err := e.auth.Register(context.Background(), name, testPassword, public)
	require.NoError(t, err)

	return user{id: id, name: name, public: public, private: private}
}

// signIn runs both login steps and returns a verified session.
func (e *testEnv) signIn(t *testing.T, u user) string {
	t.Helper()
	ctx := context.Background()

	sessionID, err := e.auth.Login(ctx, u.name, testPassword)
	require.NoError(t, err)

	blob, err := e.auth.IssueChallenge(ctx, sessionID)
	require.NoError(t, err)

	require.NoError(t, e.auth.VerifyChallenge(ctx, sessionID, solveChallenge(t, blob, u.private)))

	return sessionID
}

func solveChallenge(t *testing.T, blob, private []byte) string {
	t.Helper()

	signed, err := crypto.DecryptWith(private, testKeyPassphrase, blob)
	require.NoError(t, err)
	phrase, err := crypto.Verify(testutil.AdminKeyring().PublicKey, signed)
	require.NoError(t, err)

	return string(phrase)
}
