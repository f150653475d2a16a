package stellar

import (
	"errors"
	"strings"
	"testing"

	"github.com/stellar/go/keypair"
	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	valid := keypair.MustRandom().Address()
	// Flip the last character to break the checksum while keeping the shape
	last := valid[len(valid)-1]
	badChecksum := valid[:len(valid)-1] + string(map[bool]byte{true: 'A', false: 'B'}[last != 'A'])

	tests := []struct {
		name        string
		destination string
		amount      string
		kind        ValidationKind
	}{
		{name: "valid", destination: valid, amount: "1.5"},
		{name: "one stroop", destination: valid, amount: "0.0000001"},
		{name: "empty destination", destination: "", amount: "1", kind: InvalidDestination},
		{name: "short destination", destination: valid[:55], amount: "1", kind: InvalidDestination},
		{name: "long destination", destination: valid + "A", amount: "1", kind: InvalidDestination},
		{name: "wrong prefix", destination: "S" + valid[1:], amount: "1", kind: InvalidDestination},
		{name: "bad checksum", destination: badChecksum, amount: "1", kind: InvalidDestination},
		{name: "lowercase", destination: strings.ToLower(valid), amount: "1", kind: InvalidDestination},
		{name: "zero", destination: valid, amount: "0", kind: InvalidAmount},
		{name: "zero decimal", destination: valid, amount: "0.0000000", kind: InvalidAmount},
		{name: "negative", destination: valid, amount: "-1", kind: InvalidAmount},
		{name: "not a number", destination: valid, amount: "abc", kind: InvalidAmount},
		{name: "empty amount", destination: valid, amount: "", kind: InvalidAmount},
		{name: "infinity", destination: valid, amount: "Inf", kind: InvalidAmount},
		{name: "nan", destination: valid, amount: "NaN", kind: InvalidAmount},
		{name: "too precise", destination: valid, amount: "0.00000001", kind: InvalidAmount},
		{name: "too large", destination: valid, amount: "922337203686.4775808", kind: InvalidAmount},
		{name: "small exponent", destination: valid, amount: "1e3"},
		{name: "huge exponent", destination: valid, amount: "1e999999999", kind: InvalidAmount},
		{name: "tiny exponent", destination: valid, amount: "1e-999999999", kind: InvalidAmount},
		{name: "overlong", destination: valid, amount: "1" + strings.Repeat("0", 70), kind: InvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.destination, tt.amount)
			if tt.kind == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			if assert.True(t, errors.As(err, &vErr), "got %v", err) {
				assert.Equal(t, tt.kind, vErr.Kind)
			}
		})
	}
}

func TestValidateDestinationFirst(t *testing.T) {
	err := Validate("bad", "bad")
	var vErr *ValidationError
	assert.True(t, errors.As(err, &vErr))
	assert.Equal(t, InvalidDestination, vErr.Kind)
}
