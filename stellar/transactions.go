package stellar

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/AlexZinkM/stellar-pay/internal/client"
	"github.com/AlexZinkM/stellar-pay/internal/common"
	"github.com/AlexZinkM/stellar-pay/internal/model"
	"github.com/AlexZinkM/stellar-pay/internal/network"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

const (
	DefaultHistoryLimit = 10
	DefaultStatsLimit   = 200

	historyCacheTTL = 15 * time.Second
)

// PaymentLister lists recent payments of an address, newest first
type PaymentLister interface {
	GetPayments(ctx context.Context, address string, limit int) ([]model.Payment, error)
}

// History serves payment history and account stats with a short-lived cache
type History struct {
	historyLimit int
	statsLimit   int
	newLister    func(horizonURL string) PaymentLister
	cache        *gocache.Cache

	mu      sync.Mutex
	listers map[string]PaymentLister
}

// NewHistory creates a History reading from Horizon. Non-positive limits use the defaults.
func NewHistory(historyLimit, statsLimit int) *History {
	return NewHistoryWithLister(historyLimit, statsLimit, func(horizonURL string) PaymentLister {
		return client.NewHorizonClient(horizonURL)
	})
}

// NewHistoryWithLister creates a History with a custom lister constructor
func NewHistoryWithLister(historyLimit, statsLimit int, newLister func(horizonURL string) PaymentLister) *History {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	if statsLimit <= 0 {
		statsLimit = DefaultStatsLimit
	}
	return &History{
		historyLimit: historyLimit,
		statsLimit:   statsLimit,
		newLister:    newLister,
		cache:        gocache.New(historyCacheTTL, time.Minute),
		listers:      make(map[string]PaymentLister),
	}
}

// HistoryLimit is the default page size
func (h *History) HistoryLimit() int {
	return h.historyLimit
}

func (h *History) lister(horizonURL string) PaymentLister {
	h.mu.Lock()
	defer h.mu.Unlock()

	l, ok := h.listers[horizonURL]
	if !ok {
		l = h.newLister(horizonURL)
		h.listers[horizonURL] = l
	}
	return l
}

// Payments returns the latest limit payments of address with stats over the wider stats window
func (h *History) Payments(ctx context.Context, address string, profile network.Profile, limit int) (*model.PaymentsResponse, error) {
	if limit <= 0 {
		limit = h.historyLimit
	}

	payments, err := h.list(ctx, address, profile, limit)
	if err != nil {
		return nil, err
	}

	window := payments
	if h.statsLimit > limit {
		window, err = h.list(ctx, address, profile, h.statsLimit)
		if err != nil {
			return nil, err
		}
	}

	stats, err := ComputeStats(address, window)
	if err != nil {
		return nil, err
	}

	return &model.PaymentsResponse{
		Address:  address,
		Network:  profile.Name,
		Stats:    stats,
		Payments: payments,
	}, nil
}

// Invalidate drops cached pages, e.g. after a payment
func (h *History) Invalidate() {
	h.cache.Flush()
}

func (h *History) list(ctx context.Context, address string, profile network.Profile, limit int) ([]model.Payment, error) {
	key := fmt.Sprintf("%s|%s|%d", profile.HorizonURL, address, limit)
	if v, ok := h.cache.Get(key); ok {
		return v.([]model.Payment), nil
	}

	payments, err := h.lister(profile.HorizonURL).GetPayments(ctx, address, limit)
	if err != nil {
		return nil, err
	}
	h.cache.SetDefault(key, payments)
	return payments, nil
}

// ComputeStats totals native payments sent from and received by address.
// Count covers every listed record.
func ComputeStats(address string, payments []model.Payment) (model.AccountStats, error) {
	sent, received := decimal.Zero, decimal.Zero
	for _, p := range payments {
		if p.AssetType != "" && p.AssetType != "native" {
			continue
		}
		amount, err := decimal.NewFromString(p.Amount)
		if err != nil {
			return model.AccountStats{}, fmt.Errorf("invalid amount in payment %s: %w", p.ID, err)
		}
		if p.From == address {
			sent = sent.Add(amount)
		} else {
			received = received.Add(amount)
		}
	}

	return model.AccountStats{
		TotalSent:     sent.StringFixed(common.BalanceDecimals),
		TotalReceived: received.StringFixed(common.BalanceDecimals),
		Count:         len(payments),
	}, nil
}
