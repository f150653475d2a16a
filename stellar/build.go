package stellar

import (
	"fmt"
	"time"

	"github.com/AlexZinkM/stellar-pay/internal/common"
	"github.com/AlexZinkM/stellar-pay/internal/model"
	"github.com/AlexZinkM/stellar-pay/internal/network"

	"github.com/stellar/go/txnbuild"
)

// DefaultTxTimeout is how long a built transaction stays valid
const DefaultTxTimeout = 30 * time.Second

// UnsignedEnvelope is a built payment transaction waiting for a signature.
// Owned by one payment attempt and never cached.
type UnsignedEnvelope struct {
	XDR        string // base64 TransactionEnvelope
	Hash       string // hex, under the profile passphrase
	Source     string
	Sequence   int64 // sequence number the transaction consumes
	ValidUntil time.Time
	Network    string
}

// Builder turns fresh account state and an intent into an unsigned payment transaction
type Builder struct {
	timeout time.Duration
	now     func() time.Time
}

// NewBuilder creates a Builder. Non-positive timeout uses DefaultTxTimeout.
func NewBuilder(timeout time.Duration) *Builder {
	if timeout <= 0 {
		timeout = DefaultTxTimeout
	}
	return &Builder{
		timeout: timeout,
		now:     time.Now,
	}
}

// WithClock replaces the time source used for the validity window
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Build creates a transaction with exactly one native payment.
// state must be freshly fetched; the builder does not check freshness.
func (b *Builder) Build(state model.AccountState, intent model.PaymentIntent, profile network.Profile) (*UnsignedEnvelope, error) {
	if state.Type != model.AccountTypeExisting {
		return nil, ErrSourceNotFound
	}

	stroops, err := common.AmountToStroops(intent.Amount)
	if err != nil {
		return nil, &ValidationError{Kind: InvalidAmount, Reason: err.Error()}
	}

	source := txnbuild.NewSimpleAccount(state.Address, state.Sequence)
	validUntil := b.now().Add(b.timeout).Unix()

	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        &source,
		IncrementSequenceNum: true,
		Operations: []txnbuild.Operation{
			&txnbuild.Payment{
				Destination: intent.Destination,
				Amount:      common.StroopsToAmount(stroops),
				Asset:       txnbuild.NativeAsset{},
			},
		},
		BaseFee: profile.BaseFee,
		Preconditions: txnbuild.Preconditions{
			TimeBounds: txnbuild.NewTimebounds(0, validUntil),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction: %w", err)
	}

	envelope, err := tx.Base64()
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction: %w", err)
	}

	hash, err := tx.HashHex(profile.Passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to hash transaction: %w", err)
	}

	return &UnsignedEnvelope{
		XDR:        envelope,
		Hash:       hash,
		Source:     state.Address,
		Sequence:   tx.SequenceNumber(),
		ValidUntil: time.Unix(validUntil, 0).UTC(),
		Network:    profile.Name,
	}, nil
}
