package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stellar/go/xdr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcRequest struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

// newRPCServer answers every call with result, echoing the request id
func newRPCServer(t *testing.T, check func(req rpcRequest), result interface{}) *RPCClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if check != nil {
			check(req)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  result,
		})
	}))
	t.Cleanup(srv.Close)
	return NewRPCClient(srv.URL)
}

func marshalResult(t *testing.T, res xdr.TransactionResult) string {
	t.Helper()
	s, err := xdr.MarshalBase64(res)
	require.NoError(t, err)
	return s
}

func TestRPCSubmitPending(t *testing.T) {
	c := newRPCServer(t, func(req rpcRequest) {
		assert.Equal(t, "sendTransaction", req.Method)
		var params map[string]string
		require.NoError(t, json.Unmarshal(req.Params, &params))
		assert.Equal(t, "AAAA", params["transaction"])
	}, map[string]interface{}{
		"status":       "PENDING",
		"hash":         testHash,
		"latestLedger": 77,
	})

	res, err := c.SubmitTransaction(context.Background(), "AAAA")
	require.NoError(t, err)
	assert.Equal(t, testHash, res.Hash)
	assert.Equal(t, "pending", res.Status)
	assert.EqualValues(t, 77, res.Ledger)
}

func TestRPCSubmitErrors(t *testing.T) {
	ops := []xdr.OperationResult{{
		Code: xdr.OperationResultCodeOpInner,
		Tr: &xdr.OperationResultTr{
			Type:          xdr.OperationTypePayment,
			PaymentResult: &xdr.PaymentResult{Code: xdr.PaymentResultCodePaymentUnderfunded},
		},
	}}

	tests := []struct {
		name   string
		result map[string]interface{}
		code   string
	}{
		{
			name: "bad sequence",
			result: map[string]interface{}{
				"status": "ERROR",
				"hash":   testHash,
				"errorResultXdr": marshalResult(t, xdr.TransactionResult{
					FeeCharged: 100,
					Result:     xdr.TransactionResultResult{Code: xdr.TransactionResultCodeTxBadSeq},
				}),
			},
			code: "tx_bad_seq",
		},
		{
			name: "underfunded",
			result: map[string]interface{}{
				"status": "ERROR",
				"hash":   testHash,
				"errorResultXdr": marshalResult(t, xdr.TransactionResult{
					FeeCharged: 100,
					Result:     xdr.TransactionResultResult{Code: xdr.TransactionResultCodeTxFailed, Results: &ops},
				}),
			},
			code: "op_underfunded",
		},
		{
			name:   "try again later",
			result: map[string]interface{}{"status": "TRY_AGAIN_LATER", "hash": testHash},
			code:   "try_again_later",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newRPCServer(t, nil, tt.result)

			_, err := c.SubmitTransaction(context.Background(), "AAAA")
			var rejection *TxRejection
			require.True(t, errors.As(err, &rejection), "got %v", err)
			assert.True(t, rejection.HasCode(tt.code), "codes %s %v", rejection.TxCode, rejection.OpCodes)
		})
	}
}

func TestRPCSubmitUndecodableResult(t *testing.T) {
	c := newRPCServer(t, nil, map[string]interface{}{"status": "ERROR", "errorResultXdr": "not-base64!"})

	_, err := c.SubmitTransaction(context.Background(), "AAAA")
	var rejection *TxRejection
	require.True(t, errors.As(err, &rejection))
	assert.Empty(t, rejection.TxCode)
	assert.Contains(t, rejection.Detail, "undecodable")
}

func TestRPCHealthy(t *testing.T) {
	c := newRPCServer(t, func(req rpcRequest) {
		assert.Equal(t, "getHealth", req.Method)
	}, map[string]interface{}{"status": "healthy"})

	ok, err := c.Healthy(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRPCUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c := NewRPCClient(srv.URL)
	srv.Close()

	_, err := c.SubmitTransaction(context.Background(), "AAAA")
	require.Error(t, err)
	var rejection *TxRejection
	assert.False(t, errors.As(err, &rejection))
}
