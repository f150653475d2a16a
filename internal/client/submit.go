package client

import (
	"fmt"
	"strings"
)

// TxResult is what a submission endpoint returns for an accepted envelope
type TxResult struct {
	Hash   string
	Status string // "success", "failed", "pending" or "duplicate"
	Ledger int32
}

// TxRejection is a structured refusal from the network.
// Codes use Horizon's naming ("tx_bad_seq", "op_underfunded") for both transports.
type TxRejection struct {
	TxCode  string
	OpCodes []string
	Detail  string
}

func (e *TxRejection) Error() string {
	parts := make([]string, 0, 3)
	if e.TxCode != "" {
		parts = append(parts, e.TxCode)
	}
	if len(e.OpCodes) > 0 {
		parts = append(parts, strings.Join(e.OpCodes, ","))
	}
	if e.Detail != "" {
		parts = append(parts, e.Detail)
	}
	if len(parts) == 0 {
		return "transaction rejected"
	}
	return fmt.Sprintf("transaction rejected: %s", strings.Join(parts, ": "))
}

// HasCode reports whether code appears as the transaction or any operation result.
func (e *TxRejection) HasCode(code string) bool {
	if e.TxCode == code {
		return true
	}
	for _, c := range e.OpCodes {
		if c == code {
			return true
		}
	}
	return false
}
