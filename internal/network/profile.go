// Package network maps the mainnet/testnet mode flag to an immutable bundle
// of endpoints and protocol constants.
package network

import (
	stellarnet "github.com/stellar/go/network"
	"github.com/stellar/go/txnbuild"
)

// Mode selects which ledger network the wallet talks to.
type Mode int

const (
	Testnet Mode = iota
	Mainnet
)

// ModeFromFlag converts the user-facing boolean toggle into a Mode.
func ModeFromFlag(mainnet bool) Mode {
	if mainnet {
		return Mainnet
	}
	return Testnet
}

func (m Mode) String() string {
	if m == Mainnet {
		return "mainnet"
	}
	return "testnet"
}

// Transport is the kind of endpoint signed envelopes are submitted to.
type Transport string

const (
	TransportRPC     Transport = "rpc"     // JSON-RPC sendTransaction
	TransportHorizon Transport = "horizon" // POST /transactions
)

const (
	testnetRPCURL     = "https://soroban-testnet.stellar.org"
	testnetHorizonURL = "https://horizon-testnet.stellar.org"
	mainnetHorizonURL = "https://horizon.stellar.org"
)

// Profile is the endpoint and protocol bundle for one network.
// Values are never mutated; a mode switch replaces the whole Profile.
type Profile struct {
	Mode       Mode      `json:"-"`
	Name       string    `json:"name"`
	RPCURL     string    `json:"rpcUrl"`
	HorizonURL string    `json:"horizonUrl"`
	Passphrase string    `json:"passphrase"`
	BaseFee    int64     `json:"baseFee"` // stroops per operation
	Transport  Transport `json:"transport"`
}

// IsMainnet reports whether the profile moves real funds.
func (p Profile) IsMainnet() bool {
	return p.Mode == Mainnet
}

// Resolve returns the built-in profile for mode.
func Resolve(mode Mode) Profile {
	if mode == Mainnet {
		// Public network serves both reads and submission from Horizon
		return Profile{
			Mode:       Mainnet,
			Name:       "Mainnet",
			RPCURL:     mainnetHorizonURL,
			HorizonURL: mainnetHorizonURL,
			Passphrase: stellarnet.PublicNetworkPassphrase,
			BaseFee:    txnbuild.MinBaseFee,
			Transport:  TransportHorizon,
		}
	}
	return Profile{
		Mode:       Testnet,
		Name:       "Testnet",
		RPCURL:     testnetRPCURL,
		HorizonURL: testnetHorizonURL,
		Passphrase: stellarnet.TestNetworkPassphrase,
		BaseFee:    txnbuild.MinBaseFee,
		Transport:  TransportRPC,
	}
}

// Overrides replaces built-in endpoints. Empty fields keep the default.
type Overrides struct {
	TestnetRPCURL     string
	TestnetHorizonURL string
	MainnetRPCURL     string
	MainnetHorizonURL string
}

// Resolver resolves profiles with configured endpoint overrides applied.
type Resolver struct {
	overrides Overrides
}

// NewResolver creates a Resolver. The zero Overrides yields the built-in profiles.
func NewResolver(o Overrides) *Resolver {
	return &Resolver{overrides: o}
}

// Resolve returns the profile for mode. Total: every mode yields a profile.
func (r *Resolver) Resolve(mode Mode) Profile {
	p := Resolve(mode)
	if r == nil {
		return p
	}

	rpcURL, horizonURL := r.overrides.TestnetRPCURL, r.overrides.TestnetHorizonURL
	if mode == Mainnet {
		rpcURL, horizonURL = r.overrides.MainnetRPCURL, r.overrides.MainnetHorizonURL
	}
	if horizonURL != "" {
		// Horizon transport submits to the Horizon endpoint, keep them in step
		if p.Transport == TransportHorizon && p.RPCURL == p.HorizonURL {
			p.RPCURL = horizonURL
		}
		p.HorizonURL = horizonURL
	}
	if rpcURL != "" {
		p.RPCURL = rpcURL
		if mode == Mainnet {
			// A dedicated mainnet RPC endpoint means submission goes over JSON-RPC
			p.Transport = TransportRPC
		}
	}
	return p
}
