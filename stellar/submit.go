package stellar

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/AlexZinkM/stellar-pay/internal/client"
	"github.com/AlexZinkM/stellar-pay/internal/metrics"
	"github.com/AlexZinkM/stellar-pay/internal/model"
	"github.com/AlexZinkM/stellar-pay/internal/network"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/txnbuild"
	"go.uber.org/zap"
)

// Transport sends a signed envelope to a submission endpoint
type Transport interface {
	SubmitTransaction(ctx context.Context, envelopeXDR string) (*client.TxResult, error)
}

// TransportFactory creates the transport for a profile
type TransportFactory func(profile network.Profile) Transport

// DefaultTransport picks JSON-RPC or Horizon by the profile's transport kind
func DefaultTransport(profile network.Profile) Transport {
	if profile.Transport == network.TransportHorizon {
		return client.NewHorizonClient(profile.RPCURL)
	}
	return client.NewRPCClient(profile.RPCURL)
}

// Gateway submits signed envelopes and classifies the outcome
type Gateway struct {
	factory TransportFactory
	log     *zap.Logger

	mu         sync.Mutex
	transports map[string]Transport
}

// NewGateway creates a Gateway. A nil factory uses DefaultTransport.
func NewGateway(factory TransportFactory, log *zap.Logger) *Gateway {
	if factory == nil {
		factory = DefaultTransport
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{
		factory:    factory,
		log:        log,
		transports: make(map[string]Transport),
	}
}

func (g *Gateway) transport(profile network.Profile) Transport {
	key := string(profile.Transport) + " " + profile.RPCURL

	g.mu.Lock()
	defer g.mu.Unlock()

	t, ok := g.transports[key]
	if !ok {
		t = g.factory(profile)
		g.transports[key] = t
	}
	return t
}

// Submit verifies signed against profile and sends it to the profile's endpoint.
// A passphrase mismatch or missing signature fails here and never reaches the network.
func (g *Gateway) Submit(ctx context.Context, signed *SignedEnvelope, profile network.Profile) (*model.SubmissionResult, error) {
	hash, err := verifySigned(signed.XDR, profile.Passphrase)
	if err != nil {
		return nil, &SubmissionError{Kind: SubmissionPrecondition, Detail: err.Error(), Err: err}
	}

	start := time.Now()
	res, err := g.transport(profile).SubmitTransaction(ctx, signed.XDR)
	metrics.ObserveSubmission(profile.Mode.String(), string(profile.Transport), time.Since(start))
	if err != nil {
		subErr := classify(err)
		g.log.Warn("submission failed",
			zap.String("hash", hash),
			zap.String("network", profile.Name),
			zap.String("kind", string(subErr.Kind)),
			zap.Strings("codes", subErr.Codes),
		)
		return nil, subErr
	}

	if res.Status == "failed" {
		return nil, &SubmissionError{Kind: SubmissionRejected, Detail: "transaction failed in ledger"}
	}

	if res.Hash == "" {
		res.Hash = hash
	}

	g.log.Info("transaction submitted",
		zap.String("hash", res.Hash),
		zap.String("status", res.Status),
		zap.String("network", profile.Name),
	)

	return &model.SubmissionResult{
		Hash:    res.Hash,
		Status:  res.Status,
		Ledger:  res.Ledger,
		Network: profile.Name,
	}, nil
}

// verifySigned decodes the envelope under passphrase and requires a valid signature by the source account.
// Returns the transaction hash as hex.
func verifySigned(envelopeXDR, passphrase string) (string, error) {
	generic, err := txnbuild.TransactionFromXDR(envelopeXDR)
	if err != nil {
		return "", fmt.Errorf("failed to decode signed transaction: %w", err)
	}
	tx, ok := generic.Transaction()
	if !ok {
		return "", errors.New("fee bump transactions are not supported")
	}

	hash, err := tx.Hash(passphrase)
	if err != nil {
		return "", fmt.Errorf("failed to hash transaction: %w", err)
	}

	source, err := keypair.ParseAddress(tx.SourceAccount().AccountID)
	if err != nil {
		return "", fmt.Errorf("invalid source account: %w", err)
	}

	sigs := tx.Signatures()
	if len(sigs) == 0 {
		return "", errors.New("transaction is not signed")
	}
	for _, sig := range sigs {
		if source.Verify(hash[:], sig.Signature) == nil {
			return hex.EncodeToString(hash[:]), nil
		}
	}
	return "", errors.New("no valid source signature for this network passphrase")
}

// classify maps a transport error to a SubmissionError
func classify(err error) *SubmissionError {
	var rejection *client.TxRejection
	if !errors.As(err, &rejection) {
		return &SubmissionError{Kind: SubmissionUnreachable, Detail: err.Error(), Err: err}
	}

	kind := SubmissionRejected
	switch {
	case rejection.HasCode("tx_bad_seq"):
		kind = SequenceConflict
	case rejection.HasCode("tx_insufficient_balance"), rejection.HasCode("op_underfunded"):
		kind = InsufficientBalance
	case rejection.HasCode("tx_malformed"), rejection.HasCode("op_malformed"), rejection.HasCode("tx_bad_auth"):
		kind = MalformedEnvelope
	case rejection.HasCode("tx_too_late"):
		kind = EnvelopeExpired
	}

	codes := make([]string, 0, 1+len(rejection.OpCodes))
	if rejection.TxCode != "" {
		codes = append(codes, rejection.TxCode)
	}
	codes = append(codes, rejection.OpCodes...)

	return &SubmissionError{Kind: kind, Codes: codes, Detail: rejection.Detail, Err: rejection}
}
