package model

import (
	"fmt"
	"time"
)

// Payment is one payment-like operation touching the wallet address
type Payment struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Amount    string    `json:"amount"`
	AssetType string    `json:"assetType"` // "native" for the network asset
	From      string    `json:"from"`
	To        string    `json:"to"`
	Hash      string    `json:"hash"`
	CreatedAt time.Time `json:"createdAt"`
}

// PaymentsRequest represents request parameters for GET /wallet/payments
type PaymentsRequest struct {
	Limit int `form:"limit"`
}

// Validate validates PaymentsRequest parameters.
func (r *PaymentsRequest) Validate() error {
	if r.Limit < 1 || r.Limit > 200 {
		return fmt.Errorf("limit must be between 1 and 200")
	}
	return nil
}

// AccountStats summarizes the most recent payments
type AccountStats struct {
	TotalSent     string `json:"totalSent"`
	TotalReceived string `json:"totalReceived"`
	Count         int    `json:"count"`
}

// PaymentsResponse represents response for GET /wallet/payments
type PaymentsResponse struct {
	Address  string       `json:"address"`
	Network  string       `json:"network"`
	Stats    AccountStats `json:"stats"`
	Payments []Payment    `json:"payments"`
}
