package quote

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"pawswap/pkg/tax"
)

// ToRawUnits converts a human token amount into the token's smallest unit,
// truncating anything below one unit. Returns an error for negative amounts.
func ToRawUnits(amount decimal.Decimal, decimals uint8) (*big.Int, error) {
	if amount.IsNegative() {
		return nil, fmt.Errorf("negative amount %s", amount)
	}
	return amount.Shift(int32(decimals)).Truncate(0).BigInt(), nil
}

// FromRawUnits converts a smallest-unit integer back into a human amount.
func FromRawUnits(raw *big.Int, decimals uint8) decimal.Decimal {
	return decimal.NewFromBigInt(raw, -int32(decimals))
}

// AdjustedAmount applies the total transfer tax to a nominal amount:
// amount * (10000 - bips) / 10000. The multiplication is exact decimal
// arithmetic, so a zero tax returns the input unchanged and 100 at 13% is
// exactly 87. The chain-side router deducts taxes from the transferred
// amount, so the re-quoted adjusted amount is what the receiver actually
// gets.
func AdjustedAmount(nominal decimal.Decimal, totalTax tax.Rate) decimal.Decimal {
	if totalTax.IsZero() {
		return nominal
	}
	return nominal.Mul(decimal.New(tax.BipsBase-int64(totalTax), -4))
}

// MinimumReceived widens the output bound by slippage (in bips, already
// including the total tax): out * (10000 - bips) / 10000, floored.
func MinimumReceived(amountOut *big.Int, slippageBips int64) *big.Int {
	n := new(big.Int).Mul(amountOut, big.NewInt(tax.BipsBase-slippageBips))
	return n.Div(n, big.NewInt(tax.BipsBase))
}

// MaximumSold widens the input bound for exact-output trades:
// in * (10000 + bips) / 10000, rounded up.
func MaximumSold(amountIn *big.Int, slippageBips int64) *big.Int {
	n := new(big.Int).Mul(amountIn, big.NewInt(tax.BipsBase+slippageBips))
	n.Add(n, big.NewInt(tax.BipsBase-1))
	return n.Div(n, big.NewInt(tax.BipsBase))
}
