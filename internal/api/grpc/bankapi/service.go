package bankapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "cipherbank.Bank"

const (
	Bank_Register_FullMethodName        = "/cipherbank.Bank/Register"
	Bank_Login_FullMethodName           = "/cipherbank.Bank/Login"
	Bank_Logout_FullMethodName          = "/cipherbank.Bank/Logout"
	Bank_IssueChallenge_FullMethodName  = "/cipherbank.Bank/IssueChallenge"
	Bank_VerifyChallenge_FullMethodName = "/cipherbank.Bank/VerifyChallenge"
	Bank_GetBalance_FullMethodName      = "/cipherbank.Bank/GetBalance"
	Bank_GetAccount_FullMethodName      = "/cipherbank.Bank/GetAccount"
	Bank_Credit_FullMethodName          = "/cipherbank.Bank/Credit"
	Bank_Transfer_FullMethodName        = "/cipherbank.Bank/Transfer"
	Bank_ListAccounts_FullMethodName    = "/cipherbank.Bank/ListAccounts"
	Bank_SetBalance_FullMethodName      = "/cipherbank.Bank/SetBalance"
	Bank_RemoveAccount_FullMethodName   = "/cipherbank.Bank/RemoveAccount"
)

// BankServer is the server API for the Bank service.
type BankServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	Logout(context.Context, *Empty) (*Empty, error)
	IssueChallenge(context.Context, *Empty) (*ChallengeResponse, error)
	VerifyChallenge(context.Context, *VerifyChallengeRequest) (*Empty, error)
	GetBalance(context.Context, *Empty) (*BalanceResponse, error)
	GetAccount(context.Context, *Empty) (*Account, error)
	Credit(context.Context, *CreditRequest) (*BalanceResponse, error)
	Transfer(context.Context, *TransferRequest) (*BalanceResponse, error)
	ListAccounts(context.Context, *Empty) (*ListAccountsResponse, error)
	SetBalance(context.Context, *SetBalanceRequest) (*Empty, error)
	RemoveAccount(context.Context, *RemoveAccountRequest) (*Empty, error)
}

// UnimplementedBankServer can be embedded to have forward compatible
// implementations.
type UnimplementedBankServer struct{}

func (UnimplementedBankServer) Register(context.Context, *RegisterRequest) (*RegisterResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Register not implemented")
}
func (UnimplementedBankServer) Login(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}
func (UnimplementedBankServer) Logout(context.Context, *Empty) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method Logout not implemented")
}
func (UnimplementedBankServer) IssueChallenge(context.Context, *Empty) (*ChallengeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method IssueChallenge not implemented")
}
func (UnimplementedBankServer) VerifyChallenge(context.Context, *VerifyChallengeRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method VerifyChallenge not implemented")
}
func (UnimplementedBankServer) GetBalance(context.Context, *Empty) (*BalanceResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetBalance not implemented")
}
func (UnimplementedBankServer) GetAccount(context.Context, *Empty) (*Account, error) {
	return nil, status.Error(codes.Unimplemented, "method GetAccount not implemented")
}
func (UnimplementedBankServer) Credit(context.Context, *CreditRequest) (*BalanceResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Credit not implemented")
}
func (UnimplementedBankServer) Transfer(context.Context, *TransferRequest) (*BalanceResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Transfer not implemented")
}
func (UnimplementedBankServer) ListAccounts(context.Context, *Empty) (*ListAccountsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListAccounts not implemented")
}
func (UnimplementedBankServer) SetBalance(context.Context, *SetBalanceRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method SetBalance not implemented")
}
func (UnimplementedBankServer) RemoveAccount(context.Context, *RemoveAccountRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method RemoveAccount not implemented")
}

// RegisterBankServer registers srv on s.
func RegisterBankServer(s grpc.ServiceRegistrar, srv BankServer) {
	s.RegisterService(&Bank_ServiceDesc, srv)
}

// unary builds the method handler for one Bank method.
func unary[Req, Resp any](fullMethod string, call func(BankServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(BankServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(BankServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Bank_ServiceDesc is the grpc.ServiceDesc for the Bank service.
var Bank_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BankServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unary(Bank_Register_FullMethodName, BankServer.Register)},
		{MethodName: "Login", Handler: unary(Bank_Login_FullMethodName, BankServer.Login)},
		{MethodName: "Logout", Handler: unary(Bank_Logout_FullMethodName, BankServer.Logout)},
		{MethodName: "IssueChallenge", Handler: unary(Bank_IssueChallenge_FullMethodName, BankServer.IssueChallenge)},
		{MethodName: "VerifyChallenge", Handler: unary(Bank_VerifyChallenge_FullMethodName, BankServer.VerifyChallenge)},
		{MethodName: "GetBalance", Handler: unary(Bank_GetBalance_FullMethodName, BankServer.GetBalance)},
		{MethodName: "GetAccount", Handler: unary(Bank_GetAccount_FullMethodName, BankServer.GetAccount)},
		{MethodName: "Credit", Handler: unary(Bank_Credit_FullMethodName, BankServer.Credit)},
		{MethodName: "Transfer", Handler: unary(Bank_Transfer_FullMethodName, BankServer.Transfer)},
		{MethodName: "ListAccounts", Handler: unary(Bank_ListAccounts_FullMethodName, BankServer.ListAccounts)},
		{MethodName: "SetBalance", Handler: unary(Bank_SetBalance_FullMethodName, BankServer.SetBalance)},
		{MethodName: "RemoveAccount", Handler: unary(Bank_RemoveAccount_FullMethodName, BankServer.RemoveAccount)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "cipherbank/bank",
}
