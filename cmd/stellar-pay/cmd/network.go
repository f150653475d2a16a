package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Show the active network and endpoint health",
	RunE: func(cmd *cobra.Command, args []string) error {
		status := newWallet().NetworkStatus(cmd.Context())

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Network:   %s\n", status.Name)
		fmt.Fprintf(out, "Horizon:   %s\n", status.HorizonURL)
		fmt.Fprintf(out, "Submit:    %s (%s)\n", status.RPCURL, status.Transport)
		if status.Healthy != nil {
			fmt.Fprintf(out, "Healthy:   %t\n", *status.Healthy)
		}
		if status.Warning != "" {
			fmt.Fprintf(out, "Warning:   %s\n", status.Warning)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(networkCmd)
}
