package stellar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AlexZinkM/stellar-pay/internal/model"
	"github.com/AlexZinkM/stellar-pay/internal/network"

	"github.com/stellar/go/keypair"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type walletFixture struct {
	wallet  *Wallet
	ledger  *fakeLedger
	signer  *fakeSigner
	notes   *notifications
	profile network.Profile
}

func newWalletFixture(t *testing.T, opts Options) *walletFixture {
	t.Helper()
	profile := network.Resolve(opts.Mode)
	f := &walletFixture{
		ledger:  newFakeLedger(profile.Passphrase),
		signer:  newFakeSigner(),
		notes:   &notifications{},
		profile: profile,
	}
	opts.Signer = f.signer
	opts.Fetcher = f.ledger
	opts.Transports = func(network.Profile) Transport { return f.ledger }
	opts.Notifier = f.notes
	if opts.ReconcileInterval == 0 {
		opts.ReconcileInterval = time.Hour
	}
	f.wallet = NewWallet(opts)
	t.Cleanup(f.wallet.Disconnect)
	return f
}

func (f *walletFixture) connect(t *testing.T, balance string, sequence int64) {
	t.Helper()
	f.ledger.fund(f.signer.address(), balance, sequence)
	resp, err := f.wallet.Connect(context.Background())
	require.NoError(t, err)
	require.Equal(t, f.signer.address(), resp.Address)
}

func TestPayEndToEnd(t *testing.T) {
	f := newWalletFixture(t, Options{})
	f.connect(t, "10", 100)

	snap, err := f.wallet.Account(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "10.00", snap.State.Balance)
	assert.EqualValues(t, 100, snap.State.Sequence)

	destination := keypair.MustRandom().Address()
	res, err := f.wallet.Pay(context.Background(), model.PaymentIntent{Destination: destination, Amount: "1.5"})
	require.NoError(t, err)
	assert.Len(t, res.Hash, 64)
	assert.Equal(t, "success", res.Status)
	assert.Equal(t, "Testnet", res.Network)

	// Submission triggers one refresh; fee is deducted too
	snap, err = f.wallet.Account(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "8.50", snap.State.Balance)
	assert.EqualValues(t, 101, snap.State.Sequence)

	notes := f.notes.list()
	require.Len(t, notes, 1)
	assert.True(t, notes[0].Success)
	assert.Equal(t, res.Hash, notes[0].Hash)
	assert.False(t, f.wallet.Busy())
}

func TestPayValidationMakesNoCalls(t *testing.T) {
	f := newWalletFixture(t, Options{})
	f.connect(t, "10", 100)
	fetchesBefore := len(f.ledger.fetchCalls())

	_, err := f.wallet.Pay(context.Background(), model.PaymentIntent{Destination: "GABC", Amount: "1"})
	assert.True(t, IsValidationError(err))

	_, err = f.wallet.Pay(context.Background(), model.PaymentIntent{Destination: keypair.MustRandom().Address(), Amount: "0"})
	assert.True(t, IsValidationError(err))

	assert.Len(t, f.ledger.fetchCalls(), fetchesBefore)
	assert.Zero(t, f.signer.signCalls())
	assert.Zero(t, f.ledger.submitCount())

	notes := f.notes.list()
	require.Len(t, notes, 2)
	assert.Equal(t, "invalid_destination", notes[0].Code)
	assert.Equal(t, "invalid_amount", notes[1].Code)
}

func TestPayNotConnected(t *testing.T) {
	f := newWalletFixture(t, Options{})
	_, err := f.wallet.Pay(context.Background(), model.PaymentIntent{Destination: keypair.MustRandom().Address(), Amount: "1"})
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestPayUnfundedSource(t *testing.T) {
	f := newWalletFixture(t, Options{})
	_, err := f.wallet.Connect(context.Background())
	require.NoError(t, err)

	_, err = f.wallet.Pay(context.Background(), model.PaymentIntent{Destination: keypair.MustRandom().Address(), Amount: "1"})
	assert.ErrorIs(t, err, ErrSourceNotFound)
	assert.Zero(t, f.signer.signCalls())
}

func TestPayFetchFailure(t *testing.T) {
	f := newWalletFixture(t, Options{})
	f.connect(t, "10", 100)
	f.ledger.mu.Lock()
	f.ledger.fetchErr = errors.New("provider down")
	f.ledger.mu.Unlock()

	_, err := f.wallet.Pay(context.Background(), model.PaymentIntent{Destination: keypair.MustRandom().Address(), Amount: "1"})
	assert.True(t, IsFetchError(err))
	assert.Zero(t, f.signer.signCalls())
}

func TestPaySignerRejection(t *testing.T) {
	f := newWalletFixture(t, Options{})
	f.connect(t, "10", 100)
	f.signer.err = errors.New("User declined access")

	_, err := f.wallet.Pay(context.Background(), model.PaymentIntent{Destination: keypair.MustRandom().Address(), Amount: "1"})
	assert.True(t, IsSignerRejection(err))
	assert.Zero(t, f.ledger.submitCount())
	assert.Equal(t, 1, f.signer.signCalls())

	notes := f.notes.list()
	require.Len(t, notes, 1)
	assert.False(t, notes[0].Success)
	assert.Equal(t, "signer_rejected", notes[0].Code)
	assert.False(t, f.wallet.Busy())
}

func TestPayInsufficientBalance(t *testing.T) {
	f := newWalletFixture(t, Options{})
	f.connect(t, "1", 100)

	_, err := f.wallet.Pay(context.Background(), model.PaymentIntent{Destination: keypair.MustRandom().Address(), Amount: "5"})
	assert.Equal(t, InsufficientBalance, SubmissionErrorKind(err))
}

func TestPayWrongNetworkSigner(t *testing.T) {
	f := newWalletFixture(t, Options{})
	f.connect(t, "10", 100)
	f.signer.signPassphrase = network.Resolve(network.Mainnet).Passphrase

	_, err := f.wallet.Pay(context.Background(), model.PaymentIntent{Destination: keypair.MustRandom().Address(), Amount: "1"})
	assert.Equal(t, SubmissionPrecondition, SubmissionErrorKind(err))
	assert.Zero(t, f.ledger.submitCount())
}

func TestPayBusy(t *testing.T) {
	f := newWalletFixture(t, Options{})
	f.connect(t, "10", 100)

	inSign := make(chan struct{})
	release := make(chan struct{})
	f.signer.onSign = func() {
		close(inSign)
		<-release
	}

	destination := keypair.MustRandom().Address()
	done := make(chan error, 1)
	go func() {
		_, err := f.wallet.Pay(context.Background(), model.PaymentIntent{Destination: destination, Amount: "1"})
		done <- err
	}()
	<-inSign

	assert.True(t, f.wallet.Busy())
	_, err := f.wallet.Pay(context.Background(), model.PaymentIntent{Destination: destination, Amount: "1"})
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, f.wallet.Busy())
	assert.Equal(t, 1, f.ledger.submitCount())
	// The rejected attempt is not a finished attempt
	assert.Len(t, f.notes.list(), 1)
}

func TestPayReset(t *testing.T) {
	f := newWalletFixture(t, Options{})
	f.connect(t, "10", 100)

	inSign := make(chan struct{})
	release := make(chan struct{})
	f.signer.mu.Lock()
	f.signer.onSign = func() {
		close(inSign)
		<-release
	}
	f.signer.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		f.wallet.Pay(context.Background(), model.PaymentIntent{Destination: keypair.MustRandom().Address(), Amount: "1"})
	}()
	<-inSign

	// User abandoned the prompt
	f.wallet.Reset()
	assert.False(t, f.wallet.Busy())

	f.signer.mu.Lock()
	f.signer.onSign = nil
	f.signer.mu.Unlock()

	// A new attempt may start while the abandoned one is still blocked
	_, err := f.wallet.Pay(context.Background(), model.PaymentIntent{Destination: keypair.MustRandom().Address(), Amount: "1"})
	require.NoError(t, err)

	close(release)
	<-done
	assert.False(t, f.wallet.Busy())
}

func TestPayNetworkSwitchedWhileSigning(t *testing.T) {
	f := newWalletFixture(t, Options{})
	f.connect(t, "10", 100)

	f.signer.onSign = func() {
		_, err := f.wallet.SwitchNetwork(context.Background(), network.Mainnet)
		assert.NoError(t, err)
	}

	_, err := f.wallet.Pay(context.Background(), model.PaymentIntent{Destination: keypair.MustRandom().Address(), Amount: "1"})
	assert.ErrorIs(t, err, ErrNetworkSwitched)
	assert.Zero(t, f.ledger.submitCount())
}

func TestSwitchNetworkRefetchesOnce(t *testing.T) {
	f := newWalletFixture(t, Options{})
	f.connect(t, "10", 100)

	before, err := f.wallet.Account(context.Background())
	require.NoError(t, err)
	fetches := len(f.ledger.fetchCalls())

	mainnet, err := f.wallet.SwitchNetwork(context.Background(), network.Mainnet)
	require.NoError(t, err)
	assert.True(t, mainnet.IsMainnet())

	calls := f.ledger.fetchCalls()[fetches:]
	require.Len(t, calls, 1)
	assert.Equal(t, mainnet.HorizonURL, calls[0].horizonURL)
	assert.Equal(t, f.signer.address(), calls[0].address)

	after, err := f.wallet.Account(context.Background())
	require.NoError(t, err)
	assert.Equal(t, mainnet, after.Profile)
	// The testnet snapshot is untouched
	assert.Equal(t, f.profile, before.Profile)
	assert.Equal(t, "10.00", before.State.Balance)

	// Same mode again does nothing
	_, err = f.wallet.SwitchNetwork(context.Background(), network.Mainnet)
	require.NoError(t, err)
	assert.Len(t, f.ledger.fetchCalls(), fetches+1)
}

func TestSwitchNetworkDisconnected(t *testing.T) {
	f := newWalletFixture(t, Options{})
	p, err := f.wallet.SwitchNetwork(context.Background(), network.Mainnet)
	require.NoError(t, err)
	assert.Equal(t, network.Resolve(network.Mainnet), p)
	assert.Equal(t, p, f.wallet.Network())
	assert.Empty(t, f.ledger.fetchCalls())
}

func TestPayCooldown(t *testing.T) {
	f := newWalletFixture(t, Options{Cooldown: time.Minute})
	f.connect(t, "10", 100)

	now := fixedNow
	f.wallet.now = func() time.Time { return now }

	intent := model.PaymentIntent{Destination: keypair.MustRandom().Address(), Amount: "1"}
	_, err := f.wallet.Pay(context.Background(), intent)
	require.NoError(t, err)

	now = now.Add(30 * time.Second)
	_, err = f.wallet.Pay(context.Background(), intent)
	assert.ErrorIs(t, err, ErrCooldown)
	assert.Contains(t, err.Error(), "30s")

	now = now.Add(31 * time.Second)
	_, err = f.wallet.Pay(context.Background(), intent)
	assert.NoError(t, err)
}

func TestConnectRequestsAuthorization(t *testing.T) {
	f := newWalletFixture(t, Options{})
	f.signer.authorized = false

	resp, err := f.wallet.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, f.signer.address(), resp.Address)
	assert.True(t, f.signer.authorized)
}

func TestConnectRejected(t *testing.T) {
	f := newWalletFixture(t, Options{})
	f.signer.authorized = false
	f.signer.err = errors.New("locked")

	_, err := f.wallet.Connect(context.Background())
	assert.True(t, IsSignerRejection(err))
	_, err = f.wallet.Address()
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestDisconnect(t *testing.T) {
	f := newWalletFixture(t, Options{})
	f.connect(t, "10", 100)

	f.wallet.Disconnect()
	_, err := f.wallet.Account(context.Background())
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestNetworkStatus(t *testing.T) {
	f := newWalletFixture(t, Options{Health: func(network.Profile) HealthChecker {
		return healthFunc(func(ctx context.Context) (bool, error) { return false, errors.New("down") })
	}})

	status := f.wallet.NetworkStatus(context.Background())
	assert.Equal(t, "Testnet", status.Name)
	assert.Equal(t, "rpc", status.Transport)
	require.NotNil(t, status.Healthy)
	assert.False(t, *status.Healthy)
	assert.Empty(t, status.Warning)

	_, err := f.wallet.SwitchNetwork(context.Background(), network.Mainnet)
	require.NoError(t, err)
	status = f.wallet.NetworkStatus(context.Background())
	assert.True(t, status.Mainnet)
	assert.Nil(t, status.Healthy)
	assert.NotEmpty(t, status.Warning)
}

type healthFunc func(ctx context.Context) (bool, error)

func (f healthFunc) Healthy(ctx context.Context) (bool, error) {
	return f(ctx)
}
