package router

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/cipherbank/internal/api/grpc/bankapi"
	"github.com/dtroode/cipherbank/internal/api/grpc/handler"
	"github.com/dtroode/cipherbank/internal/api/grpc/middleware"
	"github.com/dtroode/cipherbank/internal/logger"
	"github.com/dtroode/cipherbank/internal/model"
)

// AuthService is what the router needs from the auth service: the handler
// operations plus session validation for the auth interceptor.
type AuthService interface {
	handler.AuthService
	middleware.SessionValidator
}

// Router builds the gRPC server for the Bank service.
type Router struct {
	authService    AuthService
	ledgerService  handler.LedgerService
	logger         *logger.Logger
	contextManager model.ContextManager
}

// New creates new gRPC Router instance.
func New(
	authService AuthService,
	ledgerService handler.LedgerService,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		ledgerService:  ledgerService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// publicMethods are served without a session.
var publicMethods = map[string]bool{
	bankapi.Bank_Register_FullMethodName: true,
	bankapi.Bank_Login_FullMethodName:    true,
}

func authSkip(_ context.Context, c interceptors.CallMeta) bool {
	return !publicMethods[c.FullMethod()]
}

func (r *Router) recoverPanic(p any) error {
	r.logger.Error("gRPC handler panic recovered", "panic", p)
	return status.Error(codes.Internal, "internal server error")
}

// Register registers the Bank service and its interceptors: panic recovery,
// request logging and session authentication.
func (r *Router) Register(opts ...grpc.ServerOption) *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.authService, r.contextManager, r.logger)

	opts = append(opts,
		grpc.ChainUnaryInterceptor(
			recovery.UnaryServerInterceptor(recovery.WithRecoveryHandler(r.recoverPanic)),
			logging.HandleGRPC,
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(authSkip),
			),
		),
	)

	s := grpc.NewServer(opts...)
	r.registerBankRoutes(s)

	return s
}

func (r *Router) registerBankRoutes(server *grpc.Server) {
	bankHandler := handler.NewBank(r.authService, r.ledgerService, r.contextManager, r.logger)
	bankapi.RegisterBankServer(server, bankHandler)
}
