package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config contains all configuration parameters for the application.
// Endpoint overrides left empty fall back to the built-in network profiles.
type Config struct {
	Port      string `envconfig:"PORT" default:"8080"`
	LogEnv    string `envconfig:"LOG_ENV" default:"development"`
	Mainnet   bool   `envconfig:"MAINNET" default:"false"`
	SignerURL string `envconfig:"SIGNER_URL" default:"http://127.0.0.1:7475"`

	TestnetRPCURL     string `envconfig:"TESTNET_RPC_URL"`
	TestnetHorizonURL string `envconfig:"TESTNET_HORIZON_URL"`
	MainnetRPCURL     string `envconfig:"MAINNET_RPC_URL"`
	MainnetHorizonURL string `envconfig:"MAINNET_HORIZON_URL"`

	ReconcileInterval time.Duration `envconfig:"RECONCILE_INTERVAL" default:"10s"`
	TxTimeout         time.Duration `envconfig:"TX_TIMEOUT" default:"30s"`
	PayTimeout        time.Duration `envconfig:"PAY_TIMEOUT" default:"0s"`
	PayCooldown       int           `envconfig:"PAY_COOLDOWN_SECONDS" default:"0"`

	HistoryLimit int    `envconfig:"HISTORY_LIMIT" default:"10"`
	StatsLimit   int    `envconfig:"STATS_LIMIT" default:"200"`
	PriceAPIURL  string `envconfig:"PRICE_API_URL" default:"https://api.coingecko.com/api/v3"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
func Init() error {
	c := &Config{}
	if err := envconfig.Process("", c); err != nil {
		return fmt.Errorf("failed to process config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c
	return nil
}

// Set replaces the global configuration (tests and embedding callers).
func Set(c *Config) {
	cfg = c
}

// Validate checks values envconfig cannot express as tags.
func (c *Config) Validate() error {
	if c.ReconcileInterval <= 0 {
		return fmt.Errorf("RECONCILE_INTERVAL must be positive")
	}
	if c.TxTimeout <= 0 {
		return fmt.Errorf("TX_TIMEOUT must be positive")
	}
	if c.PayTimeout < 0 {
		return fmt.Errorf("PAY_TIMEOUT must not be negative")
	}
	if c.PayCooldown < 0 {
		return fmt.Errorf("PAY_COOLDOWN_SECONDS must not be negative")
	}
	if c.HistoryLimit < 1 || c.HistoryLimit > 200 {
		return fmt.Errorf("HISTORY_LIMIT must be between 1 and 200")
	}
	if c.StatsLimit < 1 || c.StatsLimit > 200 {
		return fmt.Errorf("STATS_LIMIT must be between 1 and 200")
	}
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// GetPort returns port from configuration
func GetPort() string {
	return Get().Port
}

// GetPayCooldown returns cooldown between successful payments
func GetPayCooldown() time.Duration {
	return time.Duration(Get().PayCooldown) * time.Second
}

// GetSignerURL returns the signer bridge base URL
func GetSignerURL() string {
	return Get().SignerURL
}

// GetHistoryLimit returns how many payments the history endpoint lists
func GetHistoryLimit() int {
	return Get().HistoryLimit
}

// GetStatsLimit returns how many payments account stats are computed over
func GetStatsLimit() int {
	return Get().StatsLimit
}
