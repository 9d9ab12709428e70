package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"google.golang.org/grpc/reflection"

	grpcctx "github.com/dtroode/cipherbank/internal/api/grpc/context"
	"github.com/dtroode/cipherbank/internal/api/grpc/router"
	grpcServer "github.com/dtroode/cipherbank/internal/api/grpc/server"
	"github.com/dtroode/cipherbank/internal/challenge"
	"github.com/dtroode/cipherbank/internal/config"
	"github.com/dtroode/cipherbank/internal/credential"
	"github.com/dtroode/cipherbank/internal/crypto"
	"github.com/dtroode/cipherbank/internal/logger"
	"github.com/dtroode/cipherbank/internal/model"
	"github.com/dtroode/cipherbank/internal/server"
	"github.com/dtroode/cipherbank/internal/service"
	"github.com/dtroode/cipherbank/internal/session"
	"github.com/dtroode/cipherbank/internal/storage/file"
	"github.com/dtroode/cipherbank/internal/storage/memory"
	"github.com/dtroode/cipherbank/internal/storage/minio"
	"github.com/dtroode/cipherbank/internal/storage/postgres"
	"github.com/dtroode/cipherbank/internal/store"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid config", "error", err)
	}

	keys, err := crypto.LoadKeyring(cfg.Keys.AdminPublic, cfg.Keys.AdminPrivate, cfg.Bank.Passphrase)
	if err != nil {
		logger.Fatal("failed to load administrator keys", "error", err)
	}

	envelope := crypto.NewEnvelope()
	if _, err := envelope.SignWith(keys.PrivateKey, keys.Passphrase, []byte("startup")); err != nil {
		logger.Fatal("administrator private key cannot be unlocked", "error", err)
	}

	blobs, closeBlobs, err := openBlobStorage(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize storage", "backend", cfg.Storage.Backend, "error", err)
	}
	defer closeBlobs()

	tableStore := store.New(blobs, envelope, keys, logger)
	credentials := store.NewTable[string](tableStore, cfg.Tables.Credentials)
	accounts := store.NewTable[model.Account](tableStore, cfg.Tables.Accounts)
	checkTables(ctx, logger, credentials, accounts)

	sessions := session.NewManager(cfg.Session.FixedTimeout, cfg.Session.RollingTimeout, logger)
	challenges := challenge.NewAuthenticator(envelope, keys, cfg.Challenge.Words, logger)
	hasher := credential.NewHasher(cfg.KDF.Pepper, cfg.KDF.Params())

	authService := service.NewAuth(credentials, accounts, sessions, challenges, hasher, logger)
	ledgerService := service.NewLedger(credentials, accounts, sessions, cfg.AdminName, logger)
	ctxMgr := grpcctx.NewManager()

	grpcServer := registerGRPCServer(logger, authService, ledgerService, ctxMgr, fmt.Sprintf(":%s", cfg.GRPC.Port))
	sl := server.NewSecurityLayer(cfg.GRPC.EnableHTTPS, cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		sessions.Run(ctx, cfg.Session.SweepInterval)
	}()
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address(), "storage", cfg.Storage.Backend)
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(grpcServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := grpcServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", grpcServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}

// openBlobStorage connects the configured backend. The returned function
// releases it.
func openBlobStorage(ctx context.Context, cfg *config.Config) (model.BlobStorage, func(), error) {
	noop := func() {}

	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return memory.NewStorage(), noop, nil
	case config.BackendMinio:
		client, err := minio.NewClient(ctx, minio.Options{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			Bucket:    cfg.Minio.Bucket,
			UseSSL:    cfg.Minio.UseSSL,
		})
		if err != nil {
			return nil, nil, err
		}
		return client, noop, nil
	case config.BackendPostgres:
		db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewBlobRepository(db), func() { _ = db.Close() }, nil
	default:
		s, err := file.NewStorage(cfg.Storage.Root)
		if err != nil {
			return nil, nil, err
		}
		return s, noop, nil
	}
}

// checkTables reports at startup whether each table is present and readable.
func checkTables(ctx context.Context, logger *logger.Logger, credentials *store.Table[string], accounts *store.Table[model.Account]) {
	_, state, err := credentials.Inspect(ctx)
	logTableState(logger, credentials.Path(), state, err)

	_, state, err = accounts.Inspect(ctx)
	logTableState(logger, accounts.Path(), state, err)
}

func logTableState(logger *logger.Logger, path string, state store.ReadState, err error) {
	switch {
	case err != nil:
		logger.Error("table check failed", "path", path, "error", err)
	case state == store.ReadStateCorrupt:
		logger.Warn("table is unreadable and will be replaced on the next write", "path", path)
	default:
		logger.Info("table checked", "path", path, "state", state.String())
	}
}

func registerGRPCServer(
	logger *logger.Logger,
	authService *service.Auth,
	ledgerService *service.Ledger,
	ctxMgr model.ContextManager,
	addr string,
) *grpcServer.GRPCServer {
	r := router.New(authService, ledgerService, ctxMgr, logger)
	s := r.Register()

	reflection.Register(s)

	return grpcServer.NewGRPCServer(s, addr)
}
