package router

import (
	"context"
	"net"
	"testing"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/dtroode/cipherbank/internal/api/grpc/bankapi"
	grpcctx "github.com/dtroode/cipherbank/internal/api/grpc/context"
	"github.com/dtroode/cipherbank/internal/api/grpc/handler"
	"github.com/dtroode/cipherbank/internal/challenge"
	"github.com/dtroode/cipherbank/internal/credential"
	"github.com/dtroode/cipherbank/internal/crypto"
	"github.com/dtroode/cipherbank/internal/model"
	"github.com/dtroode/cipherbank/internal/service"
	"github.com/dtroode/cipherbank/internal/session"
	"github.com/dtroode/cipherbank/internal/storage/memory"
	"github.com/dtroode/cipherbank/internal/store"
	"github.com/dtroode/cipherbank/internal/testutil"
)

const (
	password      = "Sup3r$ecret"
	keyPassphrase = "client key passphrase"
)

func newServices() (*service.Auth, *service.Ledger) {
	log := testutil.MakeNoopLogger()
	keys := testutil.AdminKeyring()
	envelope := crypto.NewEnvelope()

	s := store.New(memory.NewStorage(), envelope, keys, log)
	credentials := store.NewTable[string](s, "user/users.json")
	accounts := store.NewTable[model.Account](s, "account/accounts.json")
	sessions := session.NewManager(0, 0, log)
	challenges := challenge.NewAuthenticator(envelope, keys, 0, log)

	authService := service.NewAuth(credentials, accounts, sessions, challenges, credential.NewHasher("pepper", crypto.TestKDF), log)
	ledgerService := service.NewLedger(credentials, accounts, sessions, "admin", log)

	return authService, ledgerService
}

func dial(t *testing.T, authService AuthService, ledgerService handler.LedgerService) *bankapi.BankClient {
	t.Helper()

	r := New(authService, ledgerService, grpcctx.NewManager(), testutil.MakeNoopLogger())
	s := r.Register()

	lis := bufconn.Listen(1 << 20)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return bankapi.NewBankClient(conn)
}

func withSession(ctx context.Context, sessionID string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+sessionID)
}

type client struct {
	name    string
	private []byte
}

func registerClient(t *testing.T, c *bankapi.BankClient, name string) client {
	t.Helper()

	public, private := testutil.UserKeys(keyPassphrase)
	resp, err := c.Register(context.Background(), &bankapi.RegisterRequest{
		Username:  name,
		Password:  password,
		PublicKey: string(public),
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccountID)

	return client{name: name, private: private}
}

// signIn performs both login steps over the wire and returns a context
// carrying the verified session.
func signIn(t *testing.T, c *bankapi.BankClient, u client) context.Context {
	t.Helper()

	login, err := c.Login(context.Background(), &bankapi.LoginRequest{Username: u.name, Password: password})
	require.NoError(t, err)
	ctx := withSession(context.Background(), login.SessionID)

	ch, err := c.IssueChallenge(ctx)
	require.NoError(t, err)

	signed, err := crypto.DecryptWith(u.private, keyPassphrase, []byte(ch.Challenge))
	require.NoError(t, err)
	phrase, err := crypto.Verify(testutil.AdminKeyring().PublicKey, signed)
	require.NoError(t, err)

	require.NoError(t, c.VerifyChallenge(ctx, &bankapi.VerifyChallengeRequest{Response: string(phrase)}))

	return ctx
}

func code(err error) codes.Code {
	return status.Code(err)
}

func TestRouter_EndToEnd(t *testing.T) {
	authService, ledgerService := newServices()
	c := dial(t, authService, ledgerService)

	alice := registerClient(t, c, "alice")
	registerClient(t, c, "bob")

	_, err := c.Register(context.Background(), &bankapi.RegisterRequest{Username: "alice", Password: password, PublicKey: "x"})
	assert.Equal(t, codes.InvalidArgument, code(err), "key is checked before uniqueness")

	_, err = c.GetBalance(context.Background())
	assert.Equal(t, codes.Unauthenticated, code(err))

	_, err = c.Login(context.Background(), &bankapi.LoginRequest{Username: "alice", Password: "Wr0ng!pass"})
	assert.Equal(t, codes.Unauthenticated, code(err))

	login, err := c.Login(context.Background(), &bankapi.LoginRequest{Username: "alice", Password: password})
	require.NoError(t, err)
	_, err = c.GetBalance(withSession(context.Background(), login.SessionID))
	assert.Equal(t, codes.PermissionDenied, code(err), "challenge step is required")

	ctx := signIn(t, c, alice)

	bal, err := c.Credit(ctx, &bankapi.CreditRequest{Amount: "1,234.50"})
	require.NoError(t, err)
	assert.Equal(t, "1234.50", bal.Balance)

	_, err = c.Credit(ctx, &bankapi.CreditRequest{Amount: "0.001"})
	assert.Equal(t, codes.InvalidArgument, code(err))

	bal, err = c.Transfer(ctx, &bankapi.TransferRequest{Recipient: "bob", Amount: "234.50"})
	require.NoError(t, err)
	assert.Equal(t, "1000.00", bal.Balance)

	_, err = c.Transfer(ctx, &bankapi.TransferRequest{Recipient: "bob", Amount: "5000"})
	assert.Equal(t, codes.FailedPrecondition, code(err))

	_, err = c.Transfer(ctx, &bankapi.TransferRequest{Recipient: "alice", Amount: "1"})
	assert.Equal(t, codes.InvalidArgument, code(err))

	acc, err := c.GetAccount(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", acc.Name)
	assert.Equal(t, "1000.00", acc.Balance)

	_, err = c.ListAccounts(ctx)
	assert.Equal(t, codes.PermissionDenied, code(err))

	require.NoError(t, c.Logout(ctx))
	_, err = c.GetBalance(ctx)
	assert.Equal(t, codes.Unauthenticated, code(err))
}

func TestRouter_Admin(t *testing.T) {
	authService, ledgerService := newServices()
	c := dial(t, authService, ledgerService)

	admin := registerClient(t, c, "admin")
	registerClient(t, c, "carol")
	ctx := signIn(t, c, admin)

	list, err := c.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, list.Accounts, 2)
	assert.Equal(t, "admin", list.Accounts[0].Name)
	carol := list.Accounts[1]
	assert.Equal(t, "carol", carol.Name)
	assert.Equal(t, "0.00", carol.Balance)

	require.NoError(t, c.SetBalance(ctx, &bankapi.SetBalanceRequest{AccountID: carol.AccountID, Balance: "42.10"}))
	list, err = c.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, "42.10", list.Accounts[1].Balance)

	err = c.SetBalance(ctx, &bankapi.SetBalanceRequest{AccountID: "nope", Balance: "1"})
	assert.Equal(t, codes.InvalidArgument, code(err))

	require.NoError(t, c.RemoveAccount(ctx, &bankapi.RemoveAccountRequest{AccountID: carol.AccountID}))
	err = c.RemoveAccount(ctx, &bankapi.RemoveAccountRequest{AccountID: carol.AccountID})
	assert.Equal(t, codes.NotFound, code(err))
}

type panickingLedger struct {
	handler.LedgerService
}

func (panickingLedger) GetBalance(context.Context, string) (decimal.Decimal, error) {
	panic("ledger exploded")
}

func TestRouter_RecoversPanics(t *testing.T) {
	authService, _ := newServices()
	c := dial(t, authService, panickingLedger{})
	registerClient(t, c, "alice")

	login, err := c.Login(context.Background(), &bankapi.LoginRequest{Username: "alice", Password: password})
	require.NoError(t, err)

	_, err = c.GetBalance(withSession(context.Background(), login.SessionID))
	assert.Equal(t, codes.Internal, code(err))
	assert.Equal(t, "internal server error", status.Convert(err).Message())
}

func TestAuthSkip(t *testing.T) {
	for method, wantAuth := range map[string]bool{
		bankapi.Bank_Register_FullMethodName:       false,
		bankapi.Bank_Login_FullMethodName:          false,
		bankapi.Bank_Logout_FullMethodName:         true,
		bankapi.Bank_IssueChallenge_FullMethodName: true,
		bankapi.Bank_Transfer_FullMethodName:       true,
	} {
		meta := interceptors.NewServerCallMeta(method, nil, nil)
		assert.Equal(t, wantAuth, authSkip(context.Background(), meta), method)
	}
}
