package model

import "time"

// AccountType distinguishes ledger accounts from addresses with no ledger entry yet
type AccountType string

const (
	AccountTypeExisting      AccountType = "existing"
	AccountTypeUninitialized AccountType = "uninitialized"
)

// AccountState is the account view the wallet displays and builds transactions from.
// It is replaced as a whole on every fetch, never edited in place.
type AccountState struct {
	Address  string      `json:"address"`
	Balance  string      `json:"balance"`         // native asset, 2 decimals
	Sequence int64       `json:"sequence,string"` // last consumed sequence number
	Type     AccountType `json:"accountType"`
}

// UninitializedAccount is the zero-balance state shown for addresses the ledger does not know.
func UninitializedAccount(address string) AccountState {
	return AccountState{
		Address:  address,
		Balance:  "0.00",
		Sequence: 0,
		Type:     AccountTypeUninitialized,
	}
}

// BalanceResponse represents response for GET /wallet/balance
type BalanceResponse struct {
	AccountState
	Network   string    `json:"network"`
	Stale     bool      `json:"stale"` // last fetch failed, values are a fallback
	Error     string    `json:"error,omitempty"`
	FetchedAt time.Time `json:"fetchedAt"`
}
