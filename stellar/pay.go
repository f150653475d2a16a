package stellar

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/AlexZinkM/stellar-pay/internal/metrics"
	"github.com/AlexZinkM/stellar-pay/internal/model"
	"github.com/AlexZinkM/stellar-pay/internal/network"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options configures a Wallet. Zero values pick defaults; Signer is required for payments.
type Options struct {
	Resolver          *network.Resolver
	Mode              network.Mode
	Signer            Signer
	Fetcher           AccountFetcher
	Transports        TransportFactory
	Health            func(profile network.Profile) HealthChecker
	Notifier          Notifier
	Logger            *zap.Logger
	TxTimeout         time.Duration
	ReconcileInterval time.Duration
	PayTimeout        time.Duration // whole-attempt limit, 0 = none
	Cooldown          time.Duration // minimum gap between successful payments, 0 = none
}

// Wallet runs the payment workflow for the single connected address
type Wallet struct {
	resolver   *network.Resolver
	signer     Signer
	fetcher    AccountFetcher
	builder    *Builder
	gateway    *Gateway
	reconciler *Reconciler
	notifier   Notifier
	health     func(profile network.Profile) HealthChecker
	log        *zap.Logger
	payTimeout time.Duration
	cooldown   time.Duration
	now        func() time.Time

	profile atomic.Pointer[network.Profile]

	// busy holds the generation of the attempt in flight, 0 when idle
	busy    atomic.Uint64
	attempt atomic.Uint64

	mu      sync.Mutex
	lastPay time.Time
}

// NewWallet creates a Wallet from opts
func NewWallet(opts Options) *Wallet {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = NewHorizonFetcher(log)
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = NewLogNotifier(log)
	}
	health := opts.Health
	if health == nil {
		health = defaultHealthChecker
	}

	w := &Wallet{
		resolver:   opts.Resolver,
		signer:     opts.Signer,
		fetcher:    fetcher,
		builder:    NewBuilder(opts.TxTimeout),
		gateway:    NewGateway(opts.Transports, log),
		reconciler: NewReconciler(fetcher, opts.ReconcileInterval, log),
		notifier:   notifier,
		health:     health,
		log:        log,
		payTimeout: opts.PayTimeout,
		cooldown:   opts.Cooldown,
		now:        time.Now,
	}
	profile := w.resolver.Resolve(opts.Mode)
	w.profile.Store(&profile)
	return w
}

// Network returns the active network profile
func (w *Wallet) Network() network.Profile {
	return *w.profile.Load()
}

// Reconciler exposes the wallet's reconciliation loop
func (w *Wallet) Reconciler() *Reconciler {
	return w.reconciler
}

// Address returns the connected address
func (w *Wallet) Address() (string, error) {
	address, _, ok := w.reconciler.Active()
	if !ok {
		return "", ErrNotConnected
	}
	return address, nil
}

// Connect asks the signer for its address, authorizing first when needed,
// then starts reconciliation and loads the account once.
func (w *Wallet) Connect(ctx context.Context) (*model.ConnectResponse, error) {
	if w.signer == nil {
		return nil, &SignerRejection{Reason: "no signer available"}
	}

	authorized, err := w.signer.IsAuthorized(ctx)
	if err != nil {
		return nil, &SignerRejection{Reason: err.Error(), Err: err}
	}

	var address string
	if authorized {
		address, err = w.signer.ActiveAddress(ctx)
	} else {
		address, err = w.signer.RequestAuthorization(ctx)
	}
	if err != nil {
		return nil, &SignerRejection{Reason: err.Error(), Err: err}
	}
	if !isValidAddress(address) {
		return nil, &SignerRejection{Reason: fmt.Sprintf("signer returned invalid address %q", address)}
	}

	profile := w.Network()
	w.reconciler.Start(address, profile)
	if _, err := w.reconciler.Refresh(ctx, TriggerConnect); err != nil {
		w.log.Warn("initial account fetch failed", zap.String("address", address), zap.Error(err))
	}

	w.log.Info("wallet connected", zap.String("address", address), zap.String("network", profile.Name))
	return &model.ConnectResponse{Address: address, Network: profile.Name}, nil
}

// Disconnect stops reconciliation and forgets the address
func (w *Wallet) Disconnect() {
	w.reconciler.Stop()
	w.log.Info("wallet disconnected")
}

// SwitchNetwork replaces the active profile. A connected address is
// re-fetched once under the new profile; an attempt in flight aborts before its next step.
func (w *Wallet) SwitchNetwork(ctx context.Context, mode network.Mode) (network.Profile, error) {
	next := w.resolver.Resolve(mode)
	prev := w.profile.Swap(&next)
	if *prev == next {
		return next, nil
	}

	w.log.Info("network switched", zap.String("from", prev.Name), zap.String("to", next.Name))

	if _, _, ok := w.reconciler.Active(); !ok {
		return next, nil
	}
	if _, err := w.reconciler.SwitchProfile(ctx, next); err != nil {
		w.log.Warn("account fetch after network switch failed", zap.Error(err))
	}
	return next, nil
}

// Account returns the latest reconciled snapshot, refreshing when none exists yet
func (w *Wallet) Account(ctx context.Context) (*Snapshot, error) {
	if _, _, ok := w.reconciler.Active(); !ok {
		return nil, ErrNotConnected
	}
	if snap := w.reconciler.Snapshot(); snap != nil {
		return snap, nil
	}
	snap, err := w.reconciler.Refresh(ctx, TriggerManual)
	if snap == nil {
		return nil, err
	}
	return snap, nil
}

// Busy reports whether a payment attempt is in flight
func (w *Wallet) Busy() bool {
	return w.busy.Load() != 0
}

// Reset clears the busy flag, e.g. after the user abandoned a signer prompt.
// The abandoned attempt can no longer clear a newer attempt's flag.
func (w *Wallet) Reset() {
	if gen := w.busy.Swap(0); gen != 0 {
		w.log.Warn("payment busy flag reset", zap.Uint64("attempt_generation", gen))
	}
}

// Pay runs one payment attempt: validate, fetch, build, sign, submit, reconcile.
// Only one attempt runs at a time; a concurrent call fails with ErrBusy and is not queued.
// Every finished attempt produces exactly one notification.
func (w *Wallet) Pay(ctx context.Context, intent model.PaymentIntent) (*model.SubmissionResult, error) {
	gen := w.attempt.Add(1)
	if !w.busy.CompareAndSwap(0, gen) {
		return nil, ErrBusy
	}
	defer w.busy.CompareAndSwap(gen, 0)

	attemptID := uuid.NewString()
	log := w.log.With(zap.String("attempt", attemptID))
	profile := w.Network()

	res, err := w.pay(ctx, intent, profile, log)
	if err != nil {
		metrics.ObservePayment(profile.Mode.String(), ErrorCode(err))
		log.Warn("payment failed", zap.String("code", ErrorCode(err)), zap.Error(err))
		w.notifier.Notify(Notification{
			AttemptID: attemptID,
			Message:   err.Error(),
			Code:      ErrorCode(err),
			Network:   profile.Name,
		})
		return nil, err
	}

	metrics.ObservePayment(profile.Mode.String(), "success")
	w.notifier.Notify(Notification{
		AttemptID: attemptID,
		Success:   true,
		Message:   fmt.Sprintf("sent %s to %s", intent.Amount, intent.Destination),
		Hash:      res.Hash,
		Network:   res.Network,
	})
	return res, nil
}

func (w *Wallet) pay(ctx context.Context, intent model.PaymentIntent, profile network.Profile, log *zap.Logger) (*model.SubmissionResult, error) {
	if err := Validate(intent.Destination, intent.Amount); err != nil {
		return nil, err
	}

	address, _, ok := w.reconciler.Active()
	if !ok {
		return nil, ErrNotConnected
	}

	if err := w.checkCooldown(); err != nil {
		return nil, err
	}

	if w.payTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.payTimeout)
		defer cancel()
	}

	// Fresh state for every attempt; a cached sequence would be rejected
	state, err := w.fetcher.Fetch(ctx, address, profile)
	if err != nil {
		return nil, err
	}

	env, err := w.builder.Build(*state, intent, profile)
	if err != nil {
		return nil, err
	}
	log.Debug("transaction built",
		zap.String("hash", env.Hash),
		zap.Int64("sequence", env.Sequence),
		zap.Time("valid_until", env.ValidUntil),
	)

	if w.Network() != profile {
		return nil, ErrNetworkSwitched
	}

	signed, err := Sign(ctx, w.signer, env, profile)
	if err != nil {
		return nil, err
	}

	if w.Network() != profile {
		return nil, ErrNetworkSwitched
	}

	res, err := w.gateway.Submit(ctx, signed, profile)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	w.lastPay = w.now()
	w.mu.Unlock()

	if _, err := w.reconciler.Refresh(context.WithoutCancel(ctx), TriggerSubmission); err != nil {
		log.Warn("account refresh after payment failed", zap.Error(err))
	}

	return res, nil
}

func (w *Wallet) checkCooldown() error {
	if w.cooldown <= 0 {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.lastPay.IsZero() {
		return nil
	}
	if elapsed := w.now().Sub(w.lastPay); elapsed < w.cooldown {
		remaining := w.cooldown - elapsed
		return fmt.Errorf("%w, please wait %v", ErrCooldown, remaining.Round(time.Second))
	}
	return nil
}
