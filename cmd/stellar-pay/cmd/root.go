package cmd

import (
	"fmt"
	"os"

	"github.com/AlexZinkM/stellar-pay/internal/config"
	"github.com/AlexZinkM/stellar-pay/internal/logger"
	"github.com/AlexZinkM/stellar-pay/internal/metrics"
	"github.com/AlexZinkM/stellar-pay/internal/network"
	"github.com/AlexZinkM/stellar-pay/internal/signer"
	"github.com/AlexZinkM/stellar-pay/stellar"

	"github.com/spf13/cobra"
)

var mainnetFlag bool

var rootCmd = &cobra.Command{
	Use:   "stellar-pay",
	Short: "Stellar payment wallet backed by an external signer",
	Long: `stellar-pay builds native Stellar payments from live account state,
hands them to an external signer for approval and submits the signed envelope.
Run "serve" for the HTTP API or use the one-shot commands.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(); err != nil {
			return err
		}
		if cmd.Flags().Changed("mainnet") {
			config.Get().Mainnet = mainnetFlag
		}
		if err := logger.Init(config.Get().LogEnv); err != nil {
			return fmt.Errorf("failed to init logger: %w", err)
		}
		metrics.Init()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&mainnetFlag, "mainnet", false, "use the public network (overrides MAINNET)")
}

// newWallet wires a Wallet from the loaded configuration
func newWallet() *stellar.Wallet {
	cfg := config.Get()
	resolver := network.NewResolver(network.Overrides{
		TestnetRPCURL:     cfg.TestnetRPCURL,
		TestnetHorizonURL: cfg.TestnetHorizonURL,
		MainnetRPCURL:     cfg.MainnetRPCURL,
		MainnetHorizonURL: cfg.MainnetHorizonURL,
	})

	return stellar.NewWallet(stellar.Options{
		Resolver:          resolver,
		Mode:              network.ModeFromFlag(cfg.Mainnet),
		Signer:            signer.NewHTTPSigner(config.GetSignerURL()),
		Logger:            logger.Log,
		TxTimeout:         cfg.TxTimeout,
		ReconcileInterval: cfg.ReconcileInterval,
		PayTimeout:        cfg.PayTimeout,
		Cooldown:          config.GetPayCooldown(),
	})
}
