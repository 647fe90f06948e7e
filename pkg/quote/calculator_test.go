package quote

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawswap/pkg/tax"
)

var testPath = []common.Address{
	common.HexToAddress("0xae13d989daC2f0dEbFf460aC112a837C89BAa7cd"),
	common.HexToAddress("0x5aBD80b8108f90c8525a183547D6ecc004112C22"),
}

// linearQuoter prices every trade at a constant rate, which makes the
// tax-adjustment proportional and easy to assert on.
type linearQuoter struct {
	rateNum, rateDen int64
	err              error
	calls            int
}

func (q *linearQuoter) QuoteExactIn(ctx context.Context, amountIn *big.Int, path []common.Address) (*Quote, error) {
	q.calls++
	if q.err != nil {
		return nil, q.err
	}
	out := new(big.Int).Mul(amountIn, big.NewInt(q.rateNum))
	out.Div(out, big.NewInt(q.rateDen))
	return &Quote{AmountIn: amountIn, AmountOut: out, Path: path}, nil
}

func (q *linearQuoter) QuoteExactOut(ctx context.Context, amountOut *big.Int, path []common.Address) (*Quote, error) {
	q.calls++
	if q.err != nil {
		return nil, q.err
	}
	in := new(big.Int).Mul(amountOut, big.NewInt(q.rateDen))
	in.Div(in, big.NewInt(q.rateNum))
	return &Quote{AmountIn: in, AmountOut: amountOut, Path: path}, nil
}

func TestDeriveTaxAdjusted(t *testing.T) {
	quoter := &linearQuoter{rateNum: 2, rateDen: 1}
	calc := NewCalculator(quoter)

	// 100 tokens, 13% total tax, 0.8% slippage
	res, err := calc.Derive(context.Background(), TradeRequest{
		Path:         testPath,
		ExactIn:      true,
		TypedAmount:  decimal.NewFromInt(100),
		Decimals:     9,
		TotalTax:     tax.Rate(1300),
		SlippageBips: 80,
	})
	require.NoError(t, err)

	// nominal quote is for the typed 100
	assert.Equal(t, "100000000000", res.Nominal.AmountIn.String())
	assert.Equal(t, "200000000000", res.Nominal.AmountOut.String())

	// adjusted quote is re-derived for the post-tax 87
	assert.Equal(t, "87000000000", res.Adjusted.AmountIn.String())
	assert.Equal(t, "174000000000", res.Adjusted.AmountOut.String())

	// bound widened by slippage + tax on the nominal output:
	// 200000000000 * (10000-1380)/10000
	assert.Equal(t, "172400000000", res.MinReceived.String())
	assert.Nil(t, res.MaxSold)

	assert.Equal(t, 2, quoter.calls)
}

func TestDeriveZeroTaxReusesNominal(t *testing.T) {
	quoter := &linearQuoter{rateNum: 1, rateDen: 1}
	calc := NewCalculator(quoter)

	res, err := calc.Derive(context.Background(), TradeRequest{
		Path:         testPath,
		ExactIn:      true,
		TypedAmount:  decimal.NewFromInt(5),
		Decimals:     18,
		SlippageBips: 80,
	})
	require.NoError(t, err)
	assert.Same(t, res.Nominal, res.Adjusted)
	assert.Equal(t, 1, quoter.calls)
}

func TestDeriveExactOut(t *testing.T) {
	quoter := &linearQuoter{rateNum: 1, rateDen: 1}
	calc := NewCalculator(quoter)

	res, err := calc.Derive(context.Background(), TradeRequest{
		Path:         testPath,
		ExactIn:      false,
		TypedAmount:  decimal.NewFromInt(10000),
		Decimals:     0,
		TotalTax:     tax.Rate(200),
		SlippageBips: 80,
	})
	require.NoError(t, err)
	assert.Nil(t, res.MinReceived)
	// 10000 * (10000+280)/10000, ceiled
	assert.Equal(t, "10280", res.MaxSold.String())
}

func TestDeriveErrors(t *testing.T) {
	calc := NewCalculator(&linearQuoter{rateNum: 1, rateDen: 1})

	_, err := calc.Derive(context.Background(), TradeRequest{
		Path:        testPath[:1],
		ExactIn:     true,
		TypedAmount: decimal.NewFromInt(1),
	})
	assert.Error(t, err)

	// typed amount below one smallest unit
	_, err = calc.Derive(context.Background(), TradeRequest{
		Path:        testPath,
		ExactIn:     true,
		TypedAmount: decimal.RequireFromString("0.0000000001"),
		Decimals:    9,
	})
	assert.ErrorIs(t, err, ErrAmountTooSmall)

	failing := &linearQuoter{err: ErrInsufficientLiquidity}
	calc = NewCalculator(failing)
	_, err = calc.Derive(context.Background(), TradeRequest{
		Path:        testPath,
		ExactIn:     true,
		TypedAmount: decimal.NewFromInt(1),
		Decimals:    18,
	})
	assert.ErrorIs(t, err, ErrInsufficientLiquidity)
}
