package client

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"github.com/stellar/go/xdr"
)

// sendTransaction statuses
const (
	rpcStatusPending       = "PENDING"
	rpcStatusDuplicate     = "DUPLICATE"
	rpcStatusTryAgainLater = "TRY_AGAIN_LATER"
	rpcStatusError         = "ERROR"
)

// RPCClient is a client for the Stellar JSON-RPC endpoint
type RPCClient struct {
	rpc    jsonrpc.RPCClient
	rpcURL string
}

// NewRPCClient creates a new JSON-RPC client for the given endpoint.
func NewRPCClient(rpcURL string) *RPCClient {
	return &RPCClient{
		rpc:    jsonrpc.NewClient(rpcURL),
		rpcURL: rpcURL,
	}
}

type sendTransactionResult struct {
	Status         string `json:"status"`
	Hash           string `json:"hash"`
	LatestLedger   int32  `json:"latestLedger"`
	ErrorResultXDR string `json:"errorResultXdr"`
}

// call performs one request with by-name params and decodes the result into out
func (c *RPCClient) call(ctx context.Context, out interface{}, method string, params ...interface{}) error {
	resp, err := c.rpc.Call(ctx, method, params...)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", method, err)
	}
	if resp.Error != nil {
		return fmt.Errorf("%s failed: %w", method, resp.Error)
	}
	if err := resp.GetObject(out); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", method, err)
	}
	return nil
}

// SubmitTransaction sends a signed envelope with sendTransaction.
// The endpoint only queues the envelope, so an accepted result is "pending".
func (c *RPCClient) SubmitTransaction(ctx context.Context, envelopeXDR string) (*TxResult, error) {
	var out sendTransactionResult
	params := map[string]string{"transaction": envelopeXDR}
	if err := c.call(ctx, &out, "sendTransaction", params); err != nil {
		return nil, err
	}

	switch out.Status {
	case rpcStatusPending:
		return &TxResult{Hash: out.Hash, Status: "pending", Ledger: out.LatestLedger}, nil
	case rpcStatusDuplicate:
		return &TxResult{Hash: out.Hash, Status: "duplicate", Ledger: out.LatestLedger}, nil
	case rpcStatusTryAgainLater:
		return nil, &TxRejection{TxCode: "try_again_later", Detail: "endpoint is not accepting transactions"}
	case rpcStatusError:
		return nil, decodeErrorResult(out.ErrorResultXDR)
	default:
		return nil, fmt.Errorf("unexpected sendTransaction status %q", out.Status)
	}
}

type healthResult struct {
	Status string `json:"status"`
}

// Healthy reports whether the endpoint answers getHealth with "healthy".
func (c *RPCClient) Healthy(ctx context.Context) (bool, error) {
	var out healthResult
	if err := c.call(ctx, &out, "getHealth"); err != nil {
		return false, err
	}
	return out.Status == "healthy", nil
}

// decodeErrorResult turns the base64 TransactionResult of a refused envelope into a rejection
func decodeErrorResult(resultXDR string) *TxRejection {
	if resultXDR == "" {
		return &TxRejection{Detail: "no result returned"}
	}

	var result xdr.TransactionResult
	if err := xdr.SafeUnmarshalBase64(resultXDR, &result); err != nil {
		return &TxRejection{Detail: fmt.Sprintf("undecodable result: %v", err)}
	}

	rejection := &TxRejection{TxCode: txResultCode(result.Result.Code)}
	if result.Result.Results != nil {
		for _, op := range *result.Result.Results {
			if code := opResultCode(op); code != "" {
				rejection.OpCodes = append(rejection.OpCodes, code)
			}
		}
	}
	return rejection
}

func txResultCode(code xdr.TransactionResultCode) string {
	switch code {
	case xdr.TransactionResultCodeTxSuccess:
		return "tx_success"
	case xdr.TransactionResultCodeTxFailed:
		return "tx_failed"
	case xdr.TransactionResultCodeTxTooEarly:
		return "tx_too_early"
	case xdr.TransactionResultCodeTxTooLate:
		return "tx_too_late"
	case xdr.TransactionResultCodeTxMissingOperation:
		return "tx_missing_operation"
	case xdr.TransactionResultCodeTxBadSeq:
		return "tx_bad_seq"
	case xdr.TransactionResultCodeTxBadAuth:
		return "tx_bad_auth"
	case xdr.TransactionResultCodeTxInsufficientBalance:
		return "tx_insufficient_balance"
	case xdr.TransactionResultCodeTxNoAccount:
		return "tx_no_source_account"
	case xdr.TransactionResultCodeTxInsufficientFee:
		return "tx_insufficient_fee"
	case xdr.TransactionResultCodeTxMalformed:
		return "tx_malformed"
	default:
		return fmt.Sprintf("tx_code_%d", int32(code))
	}
}

func opResultCode(op xdr.OperationResult) string {
	switch op.Code {
	case xdr.OperationResultCodeOpInner:
	case xdr.OperationResultCodeOpBadAuth:
		return "op_bad_auth"
	case xdr.OperationResultCodeOpNoAccount:
		return "op_no_source_account"
	default:
		return fmt.Sprintf("op_code_%d", int32(op.Code))
	}
	if op.Tr == nil || op.Tr.PaymentResult == nil {
		return ""
	}
	switch op.Tr.PaymentResult.Code {
	case xdr.PaymentResultCodePaymentSuccess:
		return "op_success"
	case xdr.PaymentResultCodePaymentMalformed:
		return "op_malformed"
	case xdr.PaymentResultCodePaymentUnderfunded:
		return "op_underfunded"
	case xdr.PaymentResultCodePaymentNoDestination:
		return "op_no_destination"
	case xdr.PaymentResultCodePaymentLineFull:
		return "op_line_full"
	default:
		return fmt.Sprintf("op_code_%d", int32(op.Tr.PaymentResult.Code))
	}
}
