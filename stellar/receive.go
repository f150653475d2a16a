package stellar

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/AlexZinkM/stellar-pay/internal/model"

	"github.com/skip2/go-qrcode"
)

// Receive returns the connected address with a scannable QR code
func (w *Wallet) Receive(ctx context.Context) (*model.ReceiveResponse, error) {
	address, err := w.Address()
	if err != nil {
		return nil, err
	}

	qr, err := generateQRCode(address)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}

	return &model.ReceiveResponse{
		Address: address,
		Network: w.Network().Name,
		QR:      qr,
	}, nil
}

// generateQRCode generates QR code of address in base64
func generateQRCode(address string) (string, error) {
	qr, err := qrcode.New(address, qrcode.High)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}

	// Get PNG image
	png, err := qr.PNG(256)
	if err != nil {
		return "", fmt.Errorf("failed to generate PNG: %w", err)
	}

	return base64.StdEncoding.EncodeToString(png), nil
}
