package model

// ReceiveResponse represents response for GET /wallet/receive
type ReceiveResponse struct {
	Address string `json:"address"`
	Network string `json:"network"`
	QR      string `json:"qr"` // PNG, base64
}
