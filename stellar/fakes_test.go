package stellar

import (
	"context"
	"errors"
	"sync"

	"github.com/AlexZinkM/stellar-pay/internal/client"
	"github.com/AlexZinkM/stellar-pay/internal/common"
	"github.com/AlexZinkM/stellar-pay/internal/model"
	"github.com/AlexZinkM/stellar-pay/internal/network"

	"github.com/shopspring/decimal"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/txnbuild"
)

type ledgerAccount struct {
	balance  decimal.Decimal
	sequence int64
}

type fetchCall struct {
	address    string
	horizonURL string
}

// fakeLedger is an in-memory network: it serves account state and applies submitted payments
type fakeLedger struct {
	mu         sync.Mutex
	passphrase string
	accounts   map[string]*ledgerAccount
	fetches    []fetchCall
	submits    int
	fetchErr   error
	submitErr  error
}

func newFakeLedger(passphrase string) *fakeLedger {
	return &fakeLedger{
		passphrase: passphrase,
		accounts:   make(map[string]*ledgerAccount),
	}
}

func (l *fakeLedger) fund(address, balance string, sequence int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.accounts[address] = &ledgerAccount{balance: decimal.RequireFromString(balance), sequence: sequence}
}

// bumpSequence simulates another transaction consuming the account's next sequence number
func (l *fakeLedger) bumpSequence(address string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.accounts[address].sequence++
}

func (l *fakeLedger) fetchCalls() []fetchCall {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]fetchCall(nil), l.fetches...)
}

func (l *fakeLedger) submitCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.submits
}

func (l *fakeLedger) Fetch(ctx context.Context, address string, profile network.Profile) (*model.AccountState, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.fetches = append(l.fetches, fetchCall{address: address, horizonURL: profile.HorizonURL})
	fallback := model.UninitializedAccount(address)
	if l.fetchErr != nil {
		return &fallback, &FetchError{Address: address, Network: profile.Name, Err: l.fetchErr}
	}
	acc, ok := l.accounts[address]
	if !ok {
		return &fallback, nil
	}
	return &model.AccountState{
		Address:  address,
		Balance:  common.FormatBalance(acc.balance.String()),
		Sequence: acc.sequence,
		Type:     model.AccountTypeExisting,
	}, nil
}

func (l *fakeLedger) SubmitTransaction(ctx context.Context, envelopeXDR string) (*client.TxResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.submits++
	if l.submitErr != nil {
		return nil, l.submitErr
	}

	generic, err := txnbuild.TransactionFromXDR(envelopeXDR)
	if err != nil {
		return nil, &client.TxRejection{TxCode: "tx_malformed"}
	}
	tx, ok := generic.Transaction()
	if !ok {
		return nil, &client.TxRejection{TxCode: "tx_malformed"}
	}

	src, ok := l.accounts[tx.SourceAccount().AccountID]
	if !ok {
		return nil, &client.TxRejection{TxCode: "tx_no_source_account"}
	}
	if tx.SequenceNumber() != src.sequence+1 {
		return nil, &client.TxRejection{TxCode: "tx_bad_seq"}
	}

	fee := decimal.New(tx.BaseFee()*int64(len(tx.Operations())), -common.StroopDecimals)
	payment := tx.Operations()[0].(*txnbuild.Payment)
	amount := decimal.RequireFromString(payment.Amount)
	if src.balance.LessThan(amount.Add(fee)) {
		return nil, &client.TxRejection{TxCode: "tx_failed", OpCodes: []string{"op_underfunded"}}
	}

	src.balance = src.balance.Sub(amount).Sub(fee)
	src.sequence = tx.SequenceNumber()
	if dst, ok := l.accounts[payment.Destination]; ok {
		dst.balance = dst.balance.Add(amount)
	}

	hash, err := tx.HashHex(l.passphrase)
	if err != nil {
		return nil, err
	}
	return &client.TxResult{Hash: hash, Status: "success", Ledger: 1}, nil
}

// fakeSigner signs with a real keypair. signPassphrase overrides the requested network.
type fakeSigner struct {
	mu             sync.Mutex
	kp             *keypair.Full
	authorized     bool
	err            error
	signPassphrase string
	calls          int
	passphrases    []string
	onSign         func()
}

func newFakeSigner() *fakeSigner {
	return &fakeSigner{kp: keypair.MustRandom(), authorized: true}
}

func (s *fakeSigner) address() string {
	return s.kp.Address()
}

func (s *fakeSigner) signCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *fakeSigner) IsAuthorized(ctx context.Context) (bool, error) {
	return s.authorized, nil
}

func (s *fakeSigner) RequestAuthorization(ctx context.Context) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.authorized = true
	return s.kp.Address(), nil
}

func (s *fakeSigner) ActiveAddress(ctx context.Context) (string, error) {
	if !s.authorized {
		return "", errors.New("not authorized")
	}
	return s.kp.Address(), nil
}

func (s *fakeSigner) SignTransaction(ctx context.Context, envelopeXDR, passphrase string) (string, error) {
	s.mu.Lock()
	s.calls++
	s.passphrases = append(s.passphrases, passphrase)
	onSign, err := s.onSign, s.err
	if s.signPassphrase != "" {
		passphrase = s.signPassphrase
	}
	s.mu.Unlock()

	if onSign != nil {
		onSign()
	}
	if err != nil {
		return "", err
	}

	generic, err := txnbuild.TransactionFromXDR(envelopeXDR)
	if err != nil {
		return "", err
	}
	tx, ok := generic.Transaction()
	if !ok {
		return "", errors.New("not a transaction")
	}
	tx, err = tx.Sign(passphrase, s.kp)
	if err != nil {
		return "", err
	}
	return tx.Base64()
}

// transportFunc adapts a function to Transport
type transportFunc func(ctx context.Context, envelopeXDR string) (*client.TxResult, error)

func (f transportFunc) SubmitTransaction(ctx context.Context, envelopeXDR string) (*client.TxResult, error) {
	return f(ctx, envelopeXDR)
}

// notifications records every notification
type notifications struct {
	mu  sync.Mutex
	all []Notification
}

func (n *notifications) Notify(note Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.all = append(n.all, note)
}

func (n *notifications) list() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.all...)
}
