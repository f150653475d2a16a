package stellar

import (
	"context"
	"strings"
	"time"

	"github.com/AlexZinkM/stellar-pay/internal/network"
)

// Signer is the external signing capability (browser extension bridge, hardware wallet).
// The wallet never holds keys; it only sends envelopes and receives signed ones.
type Signer interface {
	IsAuthorized(ctx context.Context) (bool, error)
	// RequestAuthorization prompts the user and returns the authorized address
	RequestAuthorization(ctx context.Context) (string, error)
	ActiveAddress(ctx context.Context) (string, error)
	// SignTransaction signs a base64 envelope for the network identified by passphrase
	SignTransaction(ctx context.Context, envelopeXDR, passphrase string) (string, error)
}

// SignedEnvelope is an envelope carrying the signer's signature
type SignedEnvelope struct {
	XDR        string
	Source     string
	Sequence   int64
	ValidUntil time.Time
}

// Sign asks the signer to sign env for profile's network.
// Only the envelope and passphrase leave the process. There is no internal timeout;
// a prompt the user never answers blocks until ctx is done.
// Every failure is a *SignerRejection and is never retried.
func Sign(ctx context.Context, signer Signer, env *UnsignedEnvelope, profile network.Profile) (*SignedEnvelope, error) {
	if signer == nil {
		return nil, &SignerRejection{Reason: "no signer available"}
	}

	signed, err := signer.SignTransaction(ctx, env.XDR, profile.Passphrase)
	if err != nil {
		return nil, &SignerRejection{Reason: err.Error(), Err: err}
	}

	signed = strings.TrimSpace(signed)
	if signed == "" {
		return nil, &SignerRejection{Reason: "signer returned an empty transaction"}
	}

	return &SignedEnvelope{
		XDR:        signed,
		Source:     env.Source,
		Sequence:   env.Sequence,
		ValidUntil: env.ValidUntil,
	}, nil
}
