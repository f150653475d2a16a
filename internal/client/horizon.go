package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/AlexZinkM/stellar-pay/internal/model"

	"github.com/stellar/go/clients/horizonclient"
)

// ErrAccountNotFound means the ledger has no entry for the address (never funded)
var ErrAccountNotFound = errors.New("account not found")

// HorizonClient is a client for the Horizon REST API of one network
type HorizonClient struct {
	horizon *horizonclient.Client
	baseURL string
	client  *http.Client
}

// NewHorizonClient creates a new Horizon client for the given base URL.
func NewHorizonClient(horizonURL string) *HorizonClient {
	httpClient := &http.Client{
		Timeout: 15 * time.Second,
	}
	return &HorizonClient{
		horizon: &horizonclient.Client{
			HorizonURL: horizonURL,
			HTTP:       httpClient,
		},
		baseURL: strings.TrimRight(horizonURL, "/"),
		client:  httpClient,
	}
}

// Account is the part of a Horizon account record the wallet uses
type Account struct {
	Address       string
	NativeBalance string
	Sequence      int64
}

// GetAccount loads the account record. Returns ErrAccountNotFound on 404.
func (c *HorizonClient) GetAccount(address string) (*Account, error) {
	acc, err := c.horizon.AccountDetail(horizonclient.AccountRequest{AccountID: address})
	if err != nil {
		if isNotFoundError(err) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	seq, err := acc.GetSequenceNumber()
	if err != nil {
		return nil, fmt.Errorf("failed to parse sequence number: %w", err)
	}

	// Accounts always hold the native asset; a missing entry reads as zero
	balance, err := acc.GetNativeBalance()
	if err != nil {
		balance = "0"
	}

	return &Account{
		Address:       address,
		NativeBalance: balance,
		Sequence:      seq,
	}, nil
}

// SubmitTransaction posts a signed envelope to POST /transactions and waits for the ledger result.
func (c *HorizonClient) SubmitTransaction(ctx context.Context, envelopeXDR string) (*TxResult, error) {
	// horizonclient has no context parameter; honor cancellation before the call
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tx, err := c.horizon.SubmitTransactionXDR(envelopeXDR)
	if err != nil {
		hErr := horizonclient.GetError(err)
		if hErr == nil {
			return nil, fmt.Errorf("failed to submit transaction: %w", err)
		}

		rejection := &TxRejection{Detail: hErr.Problem.Title}
		if codes, cerr := hErr.ResultCodes(); cerr == nil && codes != nil {
			rejection.TxCode = codes.TransactionCode
			rejection.OpCodes = codes.OperationCodes
		}
		return nil, rejection
	}

	status := "success"
	if !tx.Successful {
		status = "failed"
	}

	return &TxResult{
		Hash:   tx.Hash,
		Status: status,
		Ledger: tx.Ledger,
	}, nil
}

// paymentRecord is one record of /accounts/{id}/payments
type paymentRecord struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	Amount          string    `json:"amount"`
	AssetType       string    `json:"asset_type"`
	From            string    `json:"from"`
	To              string    `json:"to"`
	Account         string    `json:"account"`
	Funder          string    `json:"funder"`
	StartingBalance string    `json:"starting_balance"`
	TransactionHash string    `json:"transaction_hash"`
	CreatedAt       time.Time `json:"created_at"`
}

type paymentsPage struct {
	Embedded struct {
		Records []paymentRecord `json:"records"`
	} `json:"_embedded"`
}

// GetPayments lists the latest payment operations for address, newest first.
// An unknown account has no payments and yields an empty list.
func (c *HorizonClient) GetPayments(ctx context.Context, address string, limit int) ([]model.Payment, error) {
	endpoint := fmt.Sprintf("%s/accounts/%s/payments?limit=%s&order=desc",
		c.baseURL, url.PathEscape(address), strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return []model.Payment{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get payments: status %d", resp.StatusCode)
	}

	var page paymentsPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode payments: %w", err)
	}

	payments := make([]model.Payment, 0, len(page.Embedded.Records))
	for _, r := range page.Embedded.Records {
		p := model.Payment{
			ID:        r.ID,
			Type:      r.Type,
			Amount:    r.Amount,
			AssetType: r.AssetType,
			From:      r.From,
			To:        r.To,
			Hash:      r.TransactionHash,
			CreatedAt: r.CreatedAt,
		}
		// Account creation funds the new account with a starting balance
		if r.Type == "create_account" {
			p.Amount = r.StartingBalance
			p.From = r.Funder
			p.To = r.Account
			p.AssetType = "native"
		}
		if p.Amount == "" {
			p.Amount = "0"
		}
		if p.ID == "" {
			p.ID = r.TransactionHash
		}
		payments = append(payments, p)
	}

	return payments, nil
}

// isNotFoundError checks if Horizon answered 404 for the resource
func isNotFoundError(err error) bool {
	if horizonclient.IsNotFoundError(err) {
		return true
	}
	if hErr := horizonclient.GetError(err); hErr != nil {
		return hErr.Problem.Status == http.StatusNotFound
	}
	return false
}
