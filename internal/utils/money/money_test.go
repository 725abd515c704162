package money_test

import (
	"testing"

	"github.com/floatops/float_ledger_app/internal/utils/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMinorUnits_Rounding(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"19.99", 1999},
		{"0.01", 1},
		{"0.005", 1},    // half rounds up
		{"0.004", 0},    // below half rounds down
		{"123.456", 12346},
		{"1000", 100000},
		{"0", 0},
	}
	for _, tc := range cases {
		d, err := decimal.NewFromString(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, money.ToMinorUnits(d), "input %s", tc.in)
	}
}

func TestRoundTrip_TwoDecimalAmounts(t *testing.T) {
	// Every representable two-decimal amount must survive the round trip.
	for minor := int64(-250); minor <= 250; minor++ {
		d := money.ToDecimal(minor)
		assert.Equal(t, minor, money.ToMinorUnits(d))
	}

	d, err := decimal.NewFromString("19.99")
	require.NoError(t, err)
	assert.True(t, money.ToDecimal(money.ToMinorUnits(d)).Equal(d))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "300.00", money.Format(30000))
	assert.Equal(t, "-300.00", money.Format(-30000))
	assert.Equal(t, "0.00", money.Format(0))
	assert.Equal(t, "0.05", money.Format(5))
	assert.Equal(t, "-0.05", money.Format(-5))
}
