package bankapi

import (
	"context"

	"google.golang.org/grpc"
)

// BankClient calls the Bank service using the JSON codec.
type BankClient struct {
	cc grpc.ClientConnInterface
}

func NewBankClient(cc grpc.ClientConnInterface) *BankClient {
	return &BankClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BankClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c.cc, Bank_Register_FullMethodName, in, opts)
}

func (c *BankClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, Bank_Login_FullMethodName, in, opts)
}

func (c *BankClient) Logout(ctx context.Context, opts ...grpc.CallOption) error {
	_, err := invoke[Empty](ctx, c.cc, Bank_Logout_FullMethodName, &Empty{}, opts)
	return err
}

func (c *BankClient) IssueChallenge(ctx context.Context, opts ...grpc.CallOption) (*ChallengeResponse, error) {
	return invoke[ChallengeResponse](ctx, c.cc, Bank_IssueChallenge_FullMethodName, &Empty{}, opts)
}

func (c *BankClient) VerifyChallenge(ctx context.Context, in *VerifyChallengeRequest, opts ...grpc.CallOption) error {
	_, err := invoke[Empty](ctx, c.cc, Bank_VerifyChallenge_FullMethodName, in, opts)
	return err
}

func (c *BankClient) GetBalance(ctx context.Context, opts ...grpc.CallOption) (*BalanceResponse, error) {
	return invoke[BalanceResponse](ctx, c.cc, Bank_GetBalance_FullMethodName, &Empty{}, opts)
}

func (c *BankClient) GetAccount(ctx context.Context, opts ...grpc.CallOption) (*Account, error) {
	return invoke[Account](ctx, c.cc, Bank_GetAccount_FullMethodName, &Empty{}, opts)
}

func (c *BankClient) Credit(ctx context.Context, in *CreditRequest, opts ...grpc.CallOption) (*BalanceResponse, error) {
	return invoke[BalanceResponse](ctx, c.cc, Bank_Credit_FullMethodName, in, opts)
}

func (c *BankClient) Transfer(ctx context.Context, in *TransferRequest, opts ...grpc.CallOption) (*BalanceResponse, error) {
	return invoke[BalanceResponse](ctx, c.cc, Bank_Transfer_FullMethodName, in, opts)
}

func (c *BankClient) ListAccounts(ctx context.Context, opts ...grpc.CallOption) (*ListAccountsResponse, error) {
	return invoke[ListAccountsResponse](ctx, c.cc, Bank_ListAccounts_FullMethodName, &Empty{}, opts)
}

func (c *BankClient) SetBalance(ctx context.Context, in *SetBalanceRequest, opts ...grpc.CallOption) error {
	_, err := invoke[Empty](ctx, c.cc, Bank_SetBalance_FullMethodName, in, opts)
	return err
}

func (c *BankClient) RemoveAccount(ctx context.Context, in *RemoveAccountRequest, opts ...grpc.CallOption) error {
	_, err := invoke[Empty](ctx, c.cc, Bank_RemoveAccount_FullMethodName, in, opts)
	return err
}
