package stellar

import (
	"context"
	"errors"
	"sync"

	"github.com/AlexZinkM/stellar-pay/internal/client"
	"github.com/AlexZinkM/stellar-pay/internal/common"
	"github.com/AlexZinkM/stellar-pay/internal/metrics"
	"github.com/AlexZinkM/stellar-pay/internal/model"
	"github.com/AlexZinkM/stellar-pay/internal/network"

	"go.uber.org/zap"
)

// AccountFetcher reads the current account state for an address on a network.
//
// An address the ledger does not know yields the uninitialized state and a nil error.
// Any other failure yields the same uninitialized state together with a *FetchError,
// so callers can tell "confirmed empty" from "unknown".
type AccountFetcher interface {
	Fetch(ctx context.Context, address string, profile network.Profile) (*model.AccountState, error)
}

// AccountReader is the account lookup of one account-state provider
type AccountReader interface {
	GetAccount(address string) (*client.Account, error)
}

// HorizonFetcher fetches account state from the profile's Horizon endpoint.
// One client is kept per endpoint URL.
type HorizonFetcher struct {
	log       *zap.Logger
	newReader func(horizonURL string) AccountReader

	mu      sync.Mutex
	readers map[string]AccountReader
}

// NewHorizonFetcher creates a fetcher backed by the Horizon SDK client
func NewHorizonFetcher(log *zap.Logger) *HorizonFetcher {
	return NewFetcher(log, func(horizonURL string) AccountReader {
		return client.NewHorizonClient(horizonURL)
	})
}

// NewFetcher creates a fetcher with a custom reader constructor
func NewFetcher(log *zap.Logger, newReader func(horizonURL string) AccountReader) *HorizonFetcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &HorizonFetcher{
		log:       log,
		newReader: newReader,
		readers:   make(map[string]AccountReader),
	}
}

func (f *HorizonFetcher) reader(horizonURL string) AccountReader {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.readers[horizonURL]
	if !ok {
		r = f.newReader(horizonURL)
		f.readers[horizonURL] = r
	}
	return r
}

// Fetch implements AccountFetcher
func (f *HorizonFetcher) Fetch(ctx context.Context, address string, profile network.Profile) (*model.AccountState, error) {
	fallback := model.UninitializedAccount(address)

	// The Horizon SDK takes no context; honor cancellation before the call
	if err := ctx.Err(); err != nil {
		metrics.ObserveFetch(profile.Mode.String(), "error")
		return &fallback, &FetchError{Address: address, Network: profile.Name, Err: err}
	}

	acc, err := f.reader(profile.HorizonURL).GetAccount(address)
	if errors.Is(err, client.ErrAccountNotFound) {
		metrics.ObserveFetch(profile.Mode.String(), "not_found")
		f.log.Debug("account not found", zap.String("address", address), zap.String("network", profile.Name))
		return &fallback, nil
	}
	if err != nil {
		metrics.ObserveFetch(profile.Mode.String(), "error")
		f.log.Warn("account fetch failed",
			zap.String("address", address),
			zap.String("network", profile.Name),
			zap.Error(err),
		)
		return &fallback, &FetchError{Address: address, Network: profile.Name, Err: err}
	}

	metrics.ObserveFetch(profile.Mode.String(), "ok")
	return &model.AccountState{
		Address:  address,
		Balance:  common.FormatBalance(acc.NativeBalance),
		Sequence: acc.Sequence,
		Type:     model.AccountTypeExisting,
	}, nil
}
