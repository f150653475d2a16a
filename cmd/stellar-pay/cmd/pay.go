package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlexZinkM/stellar-pay/internal/model"
	"github.com/AlexZinkM/stellar-pay/stellar"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var errNotConfirmed = errors.New("payment not confirmed")

var payCmd = &cobra.Command{
	Use:   "pay <destination> <amount>",
	Short: "Send a native payment",
	Long: `Builds a native payment from the current account state, asks the external
signer to approve it and submits the signed envelope. Mainnet payments require
confirmation on a terminal, or --yes.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		intent := model.PaymentIntent{Destination: args[0], Amount: args[1]}

		// Fail fast before prompting the signer
		if err := stellar.Validate(intent.Destination, intent.Amount); err != nil {
			return err
		}

		ctx := cmd.Context()
		wallet := newWallet()
		defer wallet.Disconnect()

		conn, err := wallet.Connect(ctx)
		if err != nil {
			return err
		}

		if wallet.Network().IsMainnet() && !yes {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return errors.New("stdin is not a terminal: pass --yes to send on mainnet")
			}
			prompt := fmt.Sprintf("Send %s XLM from %s to %s on MAINNET?", intent.Amount, conn.Address, intent.Destination)
			ok, err := confirm(os.Stdin, cmd.ErrOrStderr(), prompt)
			if err != nil {
				return err
			}
			if !ok {
				return errNotConfirmed
			}
		}

		res, err := wallet.Pay(ctx, intent)
		if err != nil {
			return fmt.Errorf("%s: %w", stellar.ErrorCode(err), err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Status:  %s\n", res.Status)
		fmt.Fprintf(out, "Hash:    %s\n", res.Hash)
		fmt.Fprintf(out, "Network: %s\n", res.Network)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(payCmd)
	payCmd.Flags().BoolP("yes", "y", false, "skip the mainnet confirmation prompt")
}

// confirm asks a yes/no question; anything but y or yes is a no
func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
