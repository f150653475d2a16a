package stellar

import (
	"strings"

	"github.com/AlexZinkM/stellar-pay/internal/common"

	"github.com/stellar/go/strkey"
)

const addressLength = 56

// Validate checks a payment intent before anything touches the network or the signer.
// It never looks at account state; an amount above the balance is left to the network.
func Validate(destination, amount string) error {
	if err := validateDestination(destination); err != nil {
		return err
	}
	return validateAmount(amount)
}

func validateDestination(destination string) error {
	if len(destination) != addressLength || !strings.HasPrefix(destination, "G") {
		return &ValidationError{Kind: InvalidDestination, Reason: "must be a 56-character address starting with G"}
	}
	if !strkey.IsValidEd25519PublicKey(destination) {
		return &ValidationError{Kind: InvalidDestination, Reason: "checksum mismatch"}
	}
	return nil
}

func validateAmount(amount string) error {
	d, err := common.ParseAmount(amount)
	if err != nil {
		return &ValidationError{Kind: InvalidAmount, Reason: err.Error()}
	}
	if !d.IsPositive() {
		return &ValidationError{Kind: InvalidAmount, Reason: "must be greater than zero"}
	}
	return nil
}

// isValidAddress reports whether s is a well-formed account address
func isValidAddress(s string) bool {
	return validateDestination(s) == nil
}
