package stellar

import (
	"context"
	"errors"
	"time"

	"github.com/AlexZinkM/stellar-pay/internal/client"
	"github.com/AlexZinkM/stellar-pay/internal/metrics"
	"github.com/AlexZinkM/stellar-pay/internal/model"

	gocache "github.com/patrickmn/go-cache"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	priceCacheKey = "price:stellar:usd"
	priceSchedule = "@every 60s"
)

// ErrPriceUnavailable means no quote has been fetched yet and the feed is failing
var ErrPriceUnavailable = errors.New("price unavailable")

// PriceSource returns the current native asset quote
type PriceSource interface {
	GetStellarPrice(ctx context.Context) (*client.Price, error)
}

// PriceFeed caches the native asset USD quote and refreshes it on a cron schedule
type PriceFeed struct {
	source PriceSource
	cache  *gocache.Cache
	cron   *cron.Cron
	log    *zap.Logger
}

// NewPriceFeed creates a PriceFeed over source
func NewPriceFeed(source PriceSource, log *zap.Logger) *PriceFeed {
	if log == nil {
		log = zap.NewNop()
	}
	return &PriceFeed{
		source: source,
		cache:  gocache.New(gocache.NoExpiration, 10*time.Minute),
		cron:   cron.New(),
		log:    log,
	}
}

// Start loads a first quote and schedules refreshes
func (p *PriceFeed) Start() error {
	if _, err := p.cron.AddFunc(priceSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		p.Refresh(ctx)
	}); err != nil {
		return err
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		p.Refresh(ctx)
	}()

	p.cron.Start()
	p.log.Info("price feed started", zap.String("schedule", priceSchedule))
	return nil
}

// Stop stops scheduled refreshes and waits for a running one
func (p *PriceFeed) Stop() {
	<-p.cron.Stop().Done()
	p.log.Info("price feed stopped")
}

// Refresh fetches a quote and caches it. A failed fetch keeps the last good quote;
// quotes never expire, the schedule replaces them.
func (p *PriceFeed) Refresh(ctx context.Context) {
	price, err := p.source.GetStellarPrice(ctx)
	if err != nil {
		metrics.ObservePriceRefresh("error")
		p.log.Warn("price refresh failed", zap.Error(err))
		return
	}
	metrics.ObservePriceRefresh("ok")
	p.cache.Set(priceCacheKey, price, gocache.NoExpiration)
}

// Price returns the cached quote, fetching synchronously on a cold cache
func (p *PriceFeed) Price(ctx context.Context) (*model.PriceResponse, error) {
	if v, ok := p.cache.Get(priceCacheKey); ok {
		price := v.(*client.Price)
		return &model.PriceResponse{USD: price.USD, Change24h: price.Change24h}, nil
	}

	p.Refresh(ctx)
	if v, ok := p.cache.Get(priceCacheKey); ok {
		price := v.(*client.Price)
		return &model.PriceResponse{USD: price.USD, Change24h: price.Change24h}, nil
	}
	return nil, ErrPriceUnavailable
}
