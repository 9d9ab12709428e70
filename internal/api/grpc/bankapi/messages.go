package bankapi

// Amounts and balances travel as decimal strings, e.g. "1,234.50".

type Empty struct{}

type RegisterRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	PublicKey string `json:"public_key"`
}

type RegisterResponse struct {
	AccountID string `json:"account_id"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	SessionID string `json:"session_id"`
}

// ChallengeResponse carries the armored challenge encrypted to the caller.
type ChallengeResponse struct {
	Challenge string `json:"challenge"`
}

type VerifyChallengeRequest struct {
	Response string `json:"response"`
}

type BalanceResponse struct {
	Balance string `json:"balance"`
}

type Account struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
	Balance   string `json:"balance"`
}

type CreditRequest struct {
	Amount string `json:"amount"`
}

type TransferRequest struct {
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
}

type ListAccountsResponse struct {
	Accounts []Account `json:"accounts"`
}

type SetBalanceRequest struct {
	AccountID string `json:"account_id"`
	Balance   string `json:"balance"`
}

type RemoveAccountRequest struct {
	AccountID string `json:"account_id"`
}
