// Package signer talks to an external signer bridge, a local process that relays
// requests to a browser extension wallet and never exposes keys.
package signer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// BridgeError is an error reported by the bridge or the wallet behind it
type BridgeError struct {
	Status  int
	Message string
}

func (e *BridgeError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return e.Message
}

// HTTPSigner implements the signing capability over the bridge's HTTP JSON API:
//
//	GET  /status     -> {"authorized": bool}
//	POST /authorize  -> {"address": "G..."}
//	GET  /address    -> {"address": "G..."}
//	POST /sign       {"xdr", "networkPassphrase"} -> {"signedTxXdr": "..."}
//
// Any response may carry {"error": "..."} instead.
type HTTPSigner struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSigner creates a signer for the bridge at baseURL.
// The client has no timeout: a signing prompt waits for the user until ctx is done.
func NewHTTPSigner(baseURL string) *HTTPSigner {
	return &HTTPSigner{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
	}
}

type statusResponse struct {
	Authorized bool   `json:"authorized"`
	Error      string `json:"error,omitempty"`
}

type addressResponse struct {
	Address string `json:"address"`
	Error   string `json:"error,omitempty"`
}

type signRequest struct {
	XDR               string `json:"xdr"`
	NetworkPassphrase string `json:"networkPassphrase"`
}

type signResponse struct {
	SignedTxXDR string `json:"signedTxXdr"`
	Error       string `json:"error,omitempty"`
}

// IsAuthorized reports whether this app is already allowed to use the wallet
func (s *HTTPSigner) IsAuthorized(ctx context.Context) (bool, error) {
	var out statusResponse
	if err := s.do(ctx, http.MethodGet, "/status", nil, &out); err != nil {
		return false, err
	}
	if out.Error != "" {
		return false, &BridgeError{Message: out.Error}
	}
	return out.Authorized, nil
}

// RequestAuthorization prompts the user to allow access and returns the address
func (s *HTTPSigner) RequestAuthorization(ctx context.Context) (string, error) {
	var out addressResponse
	if err := s.do(ctx, http.MethodPost, "/authorize", nil, &out); err != nil {
		return "", err
	}
	return addressOrError(out)
}

// ActiveAddress returns the address currently selected in the wallet
func (s *HTTPSigner) ActiveAddress(ctx context.Context) (string, error) {
	var out addressResponse
	if err := s.do(ctx, http.MethodGet, "/address", nil, &out); err != nil {
		return "", err
	}
	return addressOrError(out)
}

// SignTransaction asks the wallet to sign envelopeXDR for the network identified by passphrase
func (s *HTTPSigner) SignTransaction(ctx context.Context, envelopeXDR, passphrase string) (string, error) {
	var out signResponse
	req := signRequest{XDR: envelopeXDR, NetworkPassphrase: passphrase}
	if err := s.do(ctx, http.MethodPost, "/sign", req, &out); err != nil {
		return "", err
	}
	if out.Error != "" {
		return "", &BridgeError{Message: out.Error}
	}
	if out.SignedTxXDR == "" {
		return "", errors.New("bridge returned no signed transaction")
	}
	return out.SignedTxXDR, nil
}

func addressOrError(out addressResponse) (string, error) {
	if out.Error != "" {
		return "", &BridgeError{Message: out.Error}
	}
	if out.Address == "" {
		return "", errors.New("bridge returned no address")
	}
	return out.Address, nil
}

func (s *HTTPSigner) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("signer unavailable: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read signer response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		msg := http.StatusText(resp.StatusCode)
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return &BridgeError{Status: resp.StatusCode, Message: msg}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode signer response: %w", err)
	}
	return nil
}
