// Package bankctl implements the operator and client command line tool:
// key generation, challenge solving and the two-step login.
package bankctl

import (
	"context"
	"crypto/tls"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/renameio/v2"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/dtroode/cipherbank/internal/api/grpc/bankapi"
	"github.com/dtroode/cipherbank/internal/crypto"
)

const usage = `usage: bankctl <command> [flags]

commands:
  keygen   generate a key pair
  solve    decrypt and verify a challenge
  login    log in and complete the challenge, printing the session id
`

// ErrUsage is returned for unknown commands and bad flags.
var ErrUsage = errors.New("usage error")

// App runs bankctl commands.
type App struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// dial is replaced in tests.
	dial func(addr string, useTLS bool) (grpc.ClientConnInterface, func() error, error)
}

// NewApp creates an App bound to the given streams.
func NewApp(stdin io.Reader, stdout, stderr io.Writer) *App {
	return &App{stdin: stdin, stdout: stdout, stderr: stderr, dial: dial}
}

// Run executes the command named by args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.stderr, usage)
		return ErrUsage
	}

	switch args[0] {
	case "keygen":
		return a.keygen(args[1:])
	case "solve":
		return a.solve(args[1:])
	case "login":
		return a.login(ctx, args[1:])
	default:
		fmt.Fprint(a.stderr, usage)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
}

func (a *App) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

func (a *App) keygen(args []string) error {
	fs := a.flagSet("keygen")
	publicPath := fs.String("public", "public.asc", "public key output file")
	privatePath := fs.String("private", "private.asc", "private key output file")
	force := fs.Bool("force", false, "overwrite existing files")
	kdf := crypto.DefaultKDF()
	kdfTime := fs.Uint("kdf-time", uint(kdf.Time), "argon2id passes")
	kdfMem := fs.Uint("kdf-mem", uint(kdf.MemKiB), "argon2id memory in KiB")
	kdfPar := fs.Uint("kdf-par", uint(kdf.Threads), "argon2id parallelism")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	if !*force {
		for _, p := range []string{*publicPath, *privatePath} {
			if _, err := os.Stat(p); err == nil {
				return fmt.Errorf("%s already exists, use -force to overwrite", p)
			}
		}
	}

	passphrase, err := getNewSecret(a.stderr, "Key passphrase")
	if err != nil {
		return err
	}
	if passphrase == "" {
		return errors.New("passphrase must not be empty")
	}

	params := crypto.KDFParams{Time: uint32(*kdfTime), MemKiB: uint32(*kdfMem), Threads: uint8(*kdfPar)}
	public, private, err := crypto.GenerateKeyPair(passphrase, params)
	if err != nil {
		return fmt.Errorf("failed to generate key pair: %w", err)
	}

	if err := renameio.WriteFile(*privatePath, private, 0o600); err != nil {
		return fmt.Errorf("failed to write private key: %w", err)
	}
	if err := renameio.WriteFile(*publicPath, public, 0o644); err != nil {
		return fmt.Errorf("failed to write public key: %w", err)
	}

	fmt.Fprintf(a.stdout, "wrote %s and %s\n", *publicPath, *privatePath)
	return nil
}

// solveChallenge decrypts blob with the user's key and checks the
// administrator signature on the phrase.
func solveChallenge(blob, private []byte, passphrase string, adminPublic []byte) (string, error) {
	signed, err := crypto.DecryptWith(private, passphrase, blob)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt challenge: %w", err)
	}

	phrase, err := crypto.Verify(adminPublic, signed)
	if err != nil {
		return "", fmt.Errorf("challenge is not signed by the bank: %w", err)
	}

	return string(phrase), nil
}

func (a *App) solve(args []string) error {
	fs := a.flagSet("solve")
	privatePath := fs.String("private", "private.asc", "your private key")
	adminPath := fs.String("admin-public", "admin_public.asc", "the bank's public key")
	in := fs.String("in", "-", "challenge file, - for stdin")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	private, err := readInput(*privatePath, nil)
	if err != nil {
		return err
	}
	adminPublic, err := readInput(*adminPath, nil)
	if err != nil {
		return err
	}
	blob, err := readInput(*in, a.stdin)
	if err != nil {
		return err
	}

	passphrase, err := getSecret(a.stderr, "Key passphrase")
	if err != nil {
		return err
	}

	phrase, err := solveChallenge(blob, private, passphrase, adminPublic)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.stdout, phrase)
	return nil
}

func (a *App) login(ctx context.Context, args []string) error {
	fs := a.flagSet("login")
	addr := fs.String("addr", "localhost:50051", "server address")
	useTLS := fs.Bool("tls", false, "connect with TLS")
	username := fs.String("user", "", "username")
	privatePath := fs.String("private", "private.asc", "your private key")
	adminPath := fs.String("admin-public", "admin_public.asc", "the bank's public key")
	timeout := fs.Duration("timeout", 30*time.Second, "overall timeout")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if *username == "" {
		return fmt.Errorf("%w: -user is required", ErrUsage)
	}

	private, err := readInput(*privatePath, nil)
	if err != nil {
		return err
	}
	adminPublic, err := readInput(*adminPath, nil)
	if err != nil {
		return err
	}

	password, err := getSecret(a.stderr, "Password")
	if err != nil {
		return err
	}
	passphrase, err := getSecret(a.stderr, "Key passphrase")
	if err != nil {
		return err
	}

	conn, closeConn, err := a.dial(*addr, *useTLS)
	if err != nil {
		return err
	}
	defer closeConn()

	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	client := bankapi.NewBankClient(conn)
	resp, err := client.Login(ctx, &bankapi.LoginRequest{Username: *username, Password: password})
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	authCtx := metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+resp.SessionID)

	ch, err := client.IssueChallenge(authCtx)
	if err != nil {
		return fmt.Errorf("failed to get challenge: %w", err)
	}

	phrase, err := solveChallenge([]byte(ch.Challenge), private, passphrase, adminPublic)
	if err != nil {
		return err
	}

	if err := client.VerifyChallenge(authCtx, &bankapi.VerifyChallengeRequest{Response: phrase}); err != nil {
		return fmt.Errorf("challenge rejected: %w", err)
	}

	fmt.Fprintln(a.stdout, resp.SessionID)
	return nil
}

func dial(addr string, useTLS bool) (grpc.ClientConnInterface, func() error, error) {
	creds := insecure.NewCredentials()
	if useTLS {
		creds = credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS13})
	}

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(creds))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	return conn, conn.Close, nil
}
