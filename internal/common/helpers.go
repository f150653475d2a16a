package common

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	StroopDecimals  = 7 // native asset has 7 decimals (stroops)
	BalanceDecimals = 2 // displayed balance precision

	maxAmountLength = 64
	// Exponent bounds keep rescaling cheap; anything outside cannot be a valid amount anyway
	maxAmountExponent = 19
	minAmountExponent = -(StroopDecimals + 20)
)

// MaxStroops is the largest amount an operation can carry (int64 stroops).
var MaxStroops = decimal.NewFromInt(math.MaxInt64)

// StroopsToAmount converts stroops to a 7-decimal amount string without float precision loss
// Example: StroopsToAmount(15000000) = "1.5000000"
func StroopsToAmount(stroops int64) string {
	return decimal.New(stroops, -StroopDecimals).StringFixed(StroopDecimals)
}

// AmountToStroops converts an amount string to stroops.
// More than 7 fractional digits is an error rather than silent truncation.
func AmountToStroops(amount string) (int64, error) {
	d, err := ParseAmount(amount)
	if err != nil {
		return 0, err
	}
	return d.Shift(StroopDecimals).IntPart(), nil
}

// ParseAmount parses a decimal amount that the ledger can represent:
// finite, at most 7 fractional digits and within int64 stroops.
// Sign is not checked here.
func ParseAmount(amount string) (decimal.Decimal, error) {
	s := strings.TrimSpace(amount)
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("empty amount")
	}
	if len(s) > maxAmountLength {
		return decimal.Decimal{}, fmt.Errorf("amount longer than %d characters", maxAmountLength)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("not a decimal number: %q", amount)
	}

	// Checked before Truncate, Shift or Cmp, which rescale to the exponent
	if d.Exponent() > maxAmountExponent {
		return decimal.Decimal{}, fmt.Errorf("amount exceeds maximum")
	}
	if d.Exponent() < minAmountExponent {
		return decimal.Decimal{}, fmt.Errorf("more than %d decimal places", StroopDecimals)
	}

	if !d.Equal(d.Truncate(StroopDecimals)) {
		return decimal.Decimal{}, fmt.Errorf("more than %d decimal places", StroopDecimals)
	}

	if d.Abs().Shift(StroopDecimals).GreaterThan(MaxStroops) {
		return decimal.Decimal{}, fmt.Errorf("amount exceeds maximum")
	}

	return d, nil
}

// FormatBalance renders a ledger balance string with fixed display precision.
// Unparseable or negative input renders as zero.
func FormatBalance(balance string) string {
	d, err := decimal.NewFromString(strings.TrimSpace(balance))
	if err != nil || d.IsNegative() {
		return decimal.Zero.StringFixed(BalanceDecimals)
	}
	return d.StringFixed(BalanceDecimals)
}
