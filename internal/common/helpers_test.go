package common

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStroopsToAmount(t *testing.T) {
	tests := []struct {
		stroops int64
		want    string
	}{
		{0, "0.0000000"},
		{1, "0.0000001"},
		{100, "0.0000100"},
		{15000000, "1.5000000"},
		{100000000, "10.0000000"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StroopsToAmount(tt.stroops))
	}
}

func TestAmountToStroops(t *testing.T) {
	tests := []struct {
		amount  string
		want    int64
		wantErr bool
	}{
		{"1.5", 15000000, false},
		{"0.0000001", 1, false},
		{" 10 ", 100000000, false},
		{"922337203685.4775807", 9223372036854775807, false},
		{"922337203685.4775808", 0, true},
		{"0.00000001", 0, true},
		{"", 0, true},
		{"abc", 0, true},
		{"1.2.3", 0, true},
		{"1e3", 10000000000, false},
		{"1e999999999", 0, true},
		{"1e-999999999", 0, true},
		{"1" + strings.Repeat("0", 70), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			got, err := AmountToStroops(tt.amount)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatBalance(t *testing.T) {
	assert.Equal(t, "10.00", FormatBalance("10.0000000"))
	assert.Equal(t, "8.50", FormatBalance("8.4999900"))
	assert.Equal(t, "0.00", FormatBalance(""))
	assert.Equal(t, "0.00", FormatBalance("garbage"))
	assert.Equal(t, "0.00", FormatBalance("-1"))
	assert.Equal(t, "1234.57", FormatBalance("1234.5678"))
}

func TestParseAmountExtremeExponent(t *testing.T) {
	for _, amount := range []string{"1e999999999", "1e-999999999", "0e999999999", "-1E999999999"} {
		done := make(chan error, 1)
		go func() {
			_, err := ParseAmount(amount)
			done <- err
		}()

		select {
		case err := <-done:
			assert.Error(t, err, amount)
		case <-time.After(time.Second):
			t.Fatalf("ParseAmount(%q) did not return", amount)
		}
	}
}
