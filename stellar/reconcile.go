package stellar

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/AlexZinkM/stellar-pay/internal/metrics"
	"github.com/AlexZinkM/stellar-pay/internal/model"
	"github.com/AlexZinkM/stellar-pay/internal/network"

	"go.uber.org/zap"
)

// DefaultReconcileInterval is the polling period while an address is active
const DefaultReconcileInterval = 10 * time.Second

// Refresh triggers
const (
	TriggerConnect    = "connect"
	TriggerInterval   = "interval"
	TriggerSubmission = "submission"
	TriggerSwitch     = "network_switch"
	TriggerManual     = "manual"
)

// Snapshot is the displayed account state for one address on one network.
// Snapshots are immutable; every refresh stores a new one.
type Snapshot struct {
	Address    string
	Profile    network.Profile
	State      model.AccountState
	FetchError error // last fetch failed; State is the previous good state or the zero state
	FetchedAt  time.Time
}

// Stale reports whether the last fetch failed
func (s *Snapshot) Stale() bool {
	return s.FetchError != nil
}

type target struct {
	address string
	profile network.Profile
}

// Reconciler keeps the account snapshot in step with the ledger by polling.
// Overlapping refreshes race and the last write wins.
type Reconciler struct {
	fetcher  AccountFetcher
	interval time.Duration
	log      *zap.Logger
	now      func() time.Time

	target   atomic.Pointer[target]
	snapshot atomic.Pointer[Snapshot]

	// mu guards the polling goroutine lifecycle only
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewReconciler creates a Reconciler. Non-positive interval uses DefaultReconcileInterval.
func NewReconciler(fetcher AccountFetcher, interval time.Duration, log *zap.Logger) *Reconciler {
	if interval <= 0 {
		interval = DefaultReconcileInterval
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconciler{
		fetcher:  fetcher,
		interval: interval,
		log:      log,
		now:      time.Now,
	}
}

// Start makes address on profile the active target and starts interval polling.
// A previous target and its polling loop are replaced.
func (r *Reconciler) Start(address string, profile network.Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopLocked()
	r.target.Store(&target{address: address, profile: profile})
	r.snapshot.Store(nil)

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.done = make(chan struct{})
	go r.loop(ctx, r.done)

	r.log.Info("reconciliation started",
		zap.String("address", address),
		zap.String("network", profile.Name),
		zap.Duration("interval", r.interval),
	)
}

// Stop ends polling and clears the active target and snapshot
func (r *Reconciler) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopLocked() {
		r.log.Info("reconciliation stopped")
	}
	r.target.Store(nil)
	r.snapshot.Store(nil)
}

func (r *Reconciler) stopLocked() bool {
	if r.cancel == nil {
		return false
	}
	r.cancel()
	<-r.done
	r.cancel = nil
	r.done = nil
	return true
}

func (r *Reconciler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.Refresh(ctx, TriggerInterval); err != nil {
				r.log.Debug("interval refresh failed", zap.Error(err))
			}
		}
	}
}

// SwitchProfile moves the active address to profile and refreshes once under it.
// Does nothing when no address is active.
func (r *Reconciler) SwitchProfile(ctx context.Context, profile network.Profile) (*Snapshot, error) {
	cur := r.target.Load()
	if cur == nil {
		return nil, ErrNotConnected
	}
	r.target.Store(&target{address: cur.address, profile: profile})
	// The old network's snapshot must not be shown under the new one
	r.snapshot.Store(nil)
	return r.Refresh(ctx, TriggerSwitch)
}

// Refresh performs one fetch for the active target and stores the result.
// A result is dropped if the target changed while the fetch was in flight.
func (r *Reconciler) Refresh(ctx context.Context, trigger string) (*Snapshot, error) {
	t := r.target.Load()
	if t == nil {
		return nil, ErrNotConnected
	}
	metrics.ObserveReconcile(trigger)

	state, err := r.fetcher.Fetch(ctx, t.address, t.profile)
	if state == nil {
		fallback := model.UninitializedAccount(t.address)
		state = &fallback
	}

	if cur := r.target.Load(); cur == nil || *cur != *t {
		r.log.Debug("dropping account state for inactive target",
			zap.String("address", t.address),
			zap.String("network", t.profile.Name),
			zap.String("trigger", trigger),
		)
		return r.Snapshot(), err
	}

	snap := &Snapshot{
		Address:    t.address,
		Profile:    t.profile,
		State:      *state,
		FetchError: err,
		FetchedAt:  r.now(),
	}
	// Account state is only replaced by a successful fetch
	if err != nil {
		if prev := r.snapshot.Load(); prev != nil && prev.Address == t.address && prev.Profile == t.profile {
			snap.State = prev.State
		}
	}
	r.snapshot.Store(snap)
	return snap, err
}

// Snapshot returns the latest stored snapshot, or nil before the first refresh
func (r *Reconciler) Snapshot() *Snapshot {
	return r.snapshot.Load()
}

// Active returns the address and profile being reconciled
func (r *Reconciler) Active() (string, network.Profile, bool) {
	t := r.target.Load()
	if t == nil {
		return "", network.Profile{}, false
	}
	return t.address, t.profile, true
}
