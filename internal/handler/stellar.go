package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/AlexZinkM/stellar-pay/internal/model"
	"github.com/AlexZinkM/stellar-pay/internal/network"
	"github.com/AlexZinkM/stellar-pay/stellar"
)

// maxBodyBytes bounds JSON request bodies
const maxBodyBytes = 4 << 10

// StellarHandler serves the wallet API
type StellarHandler struct {
	wallet  *stellar.Wallet
	history *stellar.History
	price   *stellar.PriceFeed
}

// NewStellarHandler creates a new StellarHandler
func NewStellarHandler(wallet *stellar.Wallet, history *stellar.History, price *stellar.PriceFeed) (*StellarHandler, error) {
	if wallet == nil {
		return nil, errors.New("wallet not set")
	}
	return &StellarHandler{
		wallet:  wallet,
		history: history,
		price:   price,
	}, nil
}

// Connect handles POST /wallet/connect
// @Summary      Connect signer
// @Description  Asks the external signer for its address (prompting for access if needed) and starts balance reconciliation
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.ConnectResponse
// @Failure      502  {object}  model.ErrorResponse
// @Router       /wallet/connect [post]
func (h *StellarHandler) Connect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	resp, err := h.wallet.Connect(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Disconnect handles POST /wallet/disconnect
// @Summary      Disconnect signer
// @Description  Stops balance reconciliation and forgets the connected address
// @Tags         wallet
// @Success      204
// @Router       /wallet/disconnect [post]
func (h *StellarHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	h.wallet.Disconnect()
	w.WriteHeader(http.StatusNoContent)
}

// GetBalance handles GET /wallet/balance
// @Summary      Get account balance
// @Description  Returns the last reconciled native balance and sequence number. stale=true means the last fetch failed.
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.BalanceResponse
// @Failure      409  {object}  model.ErrorResponse
// @Router       /wallet/balance [get]
func (h *StellarHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	snap, err := h.wallet.Account(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	resp := model.BalanceResponse{
		AccountState: snap.State,
		Network:      snap.Profile.Name,
		Stale:        snap.Stale(),
		FetchedAt:    snap.FetchedAt,
	}
	if snap.FetchError != nil {
		resp.Error = snap.FetchError.Error()
	}

	writeJSON(w, http.StatusOK, resp)
}

// Pay handles POST /wallet/pay
// @Summary      Send payment
// @Description  Builds a native payment from fresh account state, has the external signer sign it and submits it
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.PayRequest  true  "Payment data"
// @Success      200      {object}  model.PayResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      409      {object}  model.ErrorResponse
// @Failure      413      {object}  model.ErrorResponse
// @Failure      422      {object}  model.ErrorResponse
// @Failure      502      {object}  model.ErrorResponse
// @Router       /wallet/pay [post]
func (h *StellarHandler) Pay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.PayRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := h.wallet.Pay(r.Context(), model.PaymentIntent{
		Destination: req.Destination,
		Amount:      req.Amount,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	if h.history != nil {
		h.history.Invalidate()
	}

	writeJSON(w, http.StatusOK, model.PayResponse{
		SubmissionResult: *res,
		Amount:           req.Amount,
		Destination:      req.Destination,
	})
}

// Reset handles POST /wallet/reset
// @Summary      Reset busy flag
// @Description  Clears the in-flight payment flag after an abandoned signer prompt
// @Tags         wallet
// @Success      204
// @Router       /wallet/reset [post]
func (h *StellarHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	h.wallet.Reset()
	w.WriteHeader(http.StatusNoContent)
}

// Receive handles GET /wallet/receive
// @Summary      Receive card
// @Description  Returns the connected address and a QR code (PNG, base64)
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.ReceiveResponse
// @Failure      409  {object}  model.ErrorResponse
// @Router       /wallet/receive [get]
func (h *StellarHandler) Receive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	resp, err := h.wallet.Receive(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Payments handles GET /wallet/payments
// @Summary      Payment history
// @Description  Lists the latest payments of the connected address with sent/received totals
// @Tags         wallet
// @Produce      json
// @Param        limit  query     int  false  "Number of payments (1-200)"
// @Success      200    {object}  model.PaymentsResponse
// @Failure      400    {object}  model.ErrorResponse
// @Failure      409    {object}  model.ErrorResponse
// @Router       /wallet/payments [get]
func (h *StellarHandler) Payments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}
	if h.history == nil {
		http.Error(w, "Payment history not configured", http.StatusNotImplemented)
		return
	}

	req := model.PaymentsRequest{Limit: h.history.HistoryLimit()}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "invalid limit", Code: "bad_request"})
			return
		}
		req.Limit = limit
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error(), Code: "bad_request"})
		return
	}

	address, err := h.wallet.Address()
	if err != nil {
		writeError(w, err)
		return
	}

	resp, err := h.history.Payments(r.Context(), address, h.wallet.Network(), req.Limit)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, model.ErrorResponse{Error: err.Error(), Code: "history_unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Network handles GET and POST /network
// @Summary      Network profile
// @Description  GET returns the active network with endpoint health. POST switches between testnet and mainnet.
// @Tags         network
// @Accept       json
// @Produce      json
// @Param        request  body      model.NetworkRequest  false  "Target network (POST only)"
// @Success      200      {object}  model.NetworkResponse
// @Router       /network [get]
// @Router       /network [post]
func (h *StellarHandler) Network(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPost:
		var req model.NetworkRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if _, err := h.wallet.SwitchNetwork(r.Context(), network.ModeFromFlag(req.Mainnet)); err != nil {
			writeError(w, err)
			return
		}
	default:
		http.Error(w, "Method not allowed. Should be GET or POST", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, h.wallet.NetworkStatus(r.Context()))
}

// Price handles GET /price
// @Summary      Native asset price
// @Description  Returns the USD price and 24h change, refreshed every minute
// @Tags         price
// @Produce      json
// @Success      200  {object}  model.PriceResponse
// @Failure      503  {object}  model.ErrorResponse
// @Router       /price [get]
func (h *StellarHandler) Price(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}
	if h.price == nil {
		http.Error(w, "Price feed not configured", http.StatusNotImplemented)
		return
	}

	resp, err := h.price.Price(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, model.ErrorResponse{Error: err.Error(), Code: "price_unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// decodeBody decodes a bounded JSON body into v, writing the error response on failure
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, model.ErrorResponse{Error: "request body too large", Code: "body_too_large"})
		return false
	}
	writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error(), Code: "bad_request"})
	return false
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps workflow errors to a status and a stable code
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), model.ErrorResponse{
		Error: err.Error(),
		Code:  stellar.ErrorCode(err),
	})
}

func statusFor(err error) int {
	switch {
	case stellar.IsValidationError(err):
		return http.StatusBadRequest
	case errors.Is(err, stellar.ErrBusy),
		errors.Is(err, stellar.ErrNotConnected),
		errors.Is(err, stellar.ErrNetworkSwitched):
		return http.StatusConflict
	case errors.Is(err, stellar.ErrCooldown):
		return http.StatusTooManyRequests
	case errors.Is(err, stellar.ErrSourceNotFound):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case stellar.IsSignerRejection(err),
		stellar.IsFetchError(err):
		return http.StatusBadGateway
	case stellar.IsSubmissionError(err):
		switch stellar.SubmissionErrorKind(err) {
		case stellar.SubmissionUnreachable:
			return http.StatusBadGateway
		case stellar.SubmissionPrecondition:
			return http.StatusBadRequest
		default:
			return http.StatusUnprocessableEntity
		}
	default:
		return http.StatusInternalServerError
	}
}
