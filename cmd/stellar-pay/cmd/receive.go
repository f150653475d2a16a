package cmd

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var receiveCmd = &cobra.Command{
	Use:   "receive",
	Short: "Print the receive address and optionally save its QR code",
	RunE: func(cmd *cobra.Command, args []string) error {
		qrPath, _ := cmd.Flags().GetString("qr")

		ctx := cmd.Context()
		wallet := newWallet()
		defer wallet.Disconnect()

		if _, err := wallet.Connect(ctx); err != nil {
			return err
		}
		card, err := wallet.Receive(ctx)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", card.Address, card.Network)
		if qrPath == "" {
			return nil
		}
		png, err := base64.StdEncoding.DecodeString(card.QR)
		if err != nil {
			return fmt.Errorf("failed to decode QR code: %w", err)
		}
		if err := os.WriteFile(qrPath, png, 0o644); err != nil {
			return fmt.Errorf("failed to write QR code: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "QR code saved to %s\n", qrPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(receiveCmd)
	receiveCmd.Flags().String("qr", "", "write the address QR code (PNG) to this file")
}
