package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlexZinkM/stellar-pay/internal/api"
	"github.com/AlexZinkM/stellar-pay/internal/client"
	"github.com/AlexZinkM/stellar-pay/internal/config"
	"github.com/AlexZinkM/stellar-pay/internal/handler"
	"github.com/AlexZinkM/stellar-pay/internal/logger"
	"github.com/AlexZinkM/stellar-pay/stellar"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()

		wallet := newWallet()
		defer wallet.Disconnect()

		history := stellar.NewHistory(config.GetHistoryLimit(), config.GetStatsLimit())
		price := stellar.NewPriceFeed(client.NewCoinGeckoClient(cfg.PriceAPIURL), logger.Log)
		if err := price.Start(); err != nil {
			return err
		}
		defer price.Stop()

		h, err := handler.NewStellarHandler(wallet, history, price)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              ":" + config.GetPort(),
			Handler:           api.SetupRouter(h, logger.Log),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("Starting HTTP Server",
				zap.String("addr", srv.Addr),
				zap.String("network", wallet.Network().Name),
			)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case err := <-errCh:
			return err
		case <-quit:
		}
		logger.Info("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("HTTP Server forced to shutdown", zap.Error(err))
		}
		logger.Info("Server exited properly")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
