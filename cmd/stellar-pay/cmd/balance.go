package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the connected account balance",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		wallet := newWallet()
		defer wallet.Disconnect()

		conn, err := wallet.Connect(ctx)
		if err != nil {
			return err
		}
		snap, err := wallet.Account(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Network:  %s\n", conn.Network)
		fmt.Fprintf(out, "Address:  %s\n", snap.State.Address)
		fmt.Fprintf(out, "Balance:  %s XLM\n", snap.State.Balance)
		fmt.Fprintf(out, "Sequence: %d\n", snap.State.Sequence)
		fmt.Fprintf(out, "Account:  %s\n", snap.State.Type)
		if snap.Stale() {
			fmt.Fprintf(out, "Warning:  balance may be stale: %v\n", snap.FetchError)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}
