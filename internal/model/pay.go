package model

// PayRequest represents request for POST /wallet/pay
type PayRequest struct {
	Destination string `json:"destination" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
}

// PaymentIntent is one user request to pay; consumed by a single submission attempt
type PaymentIntent struct {
	Destination string
	Amount      string
}

// SubmissionResult is the terminal outcome of an accepted submission
type SubmissionResult struct {
	Hash    string `json:"hash"`
	Status  string `json:"status"`
	Ledger  int32  `json:"ledger,omitempty"`
	Network string `json:"network"`
}

// PayResponse represents response for POST /wallet/pay
type PayResponse struct {
	SubmissionResult
	Amount      string `json:"amount"`
	Destination string `json:"destination"`
}
