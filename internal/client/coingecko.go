package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	coingeckoAPI = "https://api.coingecko.com/api/v3"
)

// CoinGeckoClient client for CoinGecko API
type CoinGeckoClient struct {
	baseURL string
	client  *http.Client
}

// NewCoinGeckoClient creates a new CoinGecko client. Empty baseURL uses the public API.
func NewCoinGeckoClient(baseURL string) *CoinGeckoClient {
	if baseURL == "" {
		baseURL = coingeckoAPI
	}
	return &CoinGeckoClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// PriceResponse response from CoinGecko API
type PriceResponse struct {
	Stellar *struct {
		USD          float64 `json:"usd"`
		USD24hChange float64 `json:"usd_24h_change"`
	} `json:"stellar"`
}

// Price is the native asset quote in USD
type Price struct {
	USD       string
	Change24h string // percent, 2 decimals
}

// GetStellarPrice gets the native asset USD price and its 24h change
func (c *CoinGeckoClient) GetStellarPrice(ctx context.Context) (*Price, error) {
	url := fmt.Sprintf("%s/simple/price?ids=stellar&vs_currencies=usd&include_24hr_change=true", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get price: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get price: status %d", resp.StatusCode)
	}

	var priceResp PriceResponse
	if err := json.NewDecoder(resp.Body).Decode(&priceResp); err != nil {
		return nil, fmt.Errorf("failed to decode price: %w", err)
	}
	if priceResp.Stellar == nil {
		return nil, fmt.Errorf("price missing from response")
	}

	// Float only at the API boundary; display strings come from decimal
	return &Price{
		USD:       decimal.NewFromFloat(priceResp.Stellar.USD).StringFixed(4),
		Change24h: decimal.NewFromFloat(priceResp.Stellar.USD24hChange).StringFixed(2),
	}, nil
}
