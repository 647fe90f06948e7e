package quote

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawswap/pkg/tax"
)

func TestToRawUnits(t *testing.T) {
	raw, err := ToRawUnits(decimal.RequireFromString("1.5"), 18)
	require.NoError(t, err)
	assert.Equal(t, "1500000000000000000", raw.String())

	// sub-unit dust is truncated
	raw, err = ToRawUnits(decimal.RequireFromString("0.1234567891"), 9)
	require.NoError(t, err)
	assert.Equal(t, "123456789", raw.String())

	_, err = ToRawUnits(decimal.RequireFromString("-1"), 18)
	assert.Error(t, err)
}

func TestFromRawUnits(t *testing.T) {
	amount := FromRawUnits(big.NewInt(1500000000), 9)
	assert.True(t, amount.Equal(decimal.RequireFromString("1.5")))
}

func TestAdjustedAmountExact(t *testing.T) {
	// 100 tokens at a 13% total tax leaves exactly 87
	adjusted := AdjustedAmount(decimal.NewFromInt(100), tax.Rate(1300))
	assert.True(t, adjusted.Equal(decimal.NewFromInt(87)), "got %s", adjusted)

	// 2.5% of 1 token
	adjusted = AdjustedAmount(decimal.NewFromInt(1), tax.Rate(250))
	assert.True(t, adjusted.Equal(decimal.RequireFromString("0.975")), "got %s", adjusted)
}

func TestAdjustedAmountZeroTax(t *testing.T) {
	amount := decimal.RequireFromString("123.456")
	assert.True(t, AdjustedAmount(amount, 0).Equal(amount))
}

func TestMinimumReceived(t *testing.T) {
	// 0.8% slippage on 10000 units
	assert.Equal(t, "9920", MinimumReceived(big.NewInt(10000), 80).String())

	// flooring: 0.8% of 1001 is 8.008, the bound keeps the floor
	assert.Equal(t, "992", MinimumReceived(big.NewInt(1001), 80).String())

	assert.Equal(t, "10000", MinimumReceived(big.NewInt(10000), 0).String())
}

func TestMaximumSold(t *testing.T) {
	assert.Equal(t, "10080", MaximumSold(big.NewInt(10000), 80).String())

	// rounds up so the bound never undershoots
	assert.Equal(t, "1010", MaximumSold(big.NewInt(1001), 80).String())

	assert.Equal(t, "10000", MaximumSold(big.NewInt(10000), 0).String())
}
