package quote

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"pawswap/pkg/tax"
)

// ErrInsufficientLiquidity is returned when no route can absorb the
// requested amount.
var ErrInsufficientLiquidity = errors.New("insufficient liquidity for this trade")

// ErrAmountTooSmall is returned when the typed amount rounds to zero in the
// token's smallest unit.
var ErrAmountTooSmall = errors.New("amount too small to quote")

// Quote is one immutable route evaluation. Two exist per pending swap: the
// nominal quote for the typed amount and the tax-adjusted quote for the
// post-tax transfer amount.
type Quote struct {
	AmountIn  *big.Int
	AmountOut *big.Int
	Path      []common.Address
}

// ExecutionPrice returns output per input in human units.
func (q *Quote) ExecutionPrice(inDecimals, outDecimals uint8) decimal.Decimal {
	in := FromRawUnits(q.AmountIn, inDecimals)
	if in.IsZero() {
		return decimal.Zero
	}
	return FromRawUnits(q.AmountOut, outDecimals).DivRound(in, 18)
}

// Quoter evaluates a route for a fixed input or output amount. Implemented
// by the on-chain router binding.
type Quoter interface {
	QuoteExactIn(ctx context.Context, amountIn *big.Int, path []common.Address) (*Quote, error)
	QuoteExactOut(ctx context.Context, amountOut *big.Int, path []common.Address) (*Quote, error)
}

// TradeRequest carries everything the calculator needs to derive both
// quotes for a pending swap.
type TradeRequest struct {
	Path         []common.Address
	ExactIn      bool
	TypedAmount  decimal.Decimal // human units of the independent token
	Decimals     uint8           // decimals of the independent token
	TotalTax     tax.Rate        // effective total including the custom slot
	SlippageBips int64           // user slippage tolerance, tax excluded
}

// Result holds the derived quotes and the slippage-adjusted bounds. The
// bound is widened by the total tax so on-chain checks do not fail once the
// router has deducted taxes from the transfer.
type Result struct {
	Nominal     *Quote
	Adjusted    *Quote
	MinReceived *big.Int // exact-in trades
	MaxSold     *big.Int // exact-out trades
}

// Calculator derives tax-adjusted quotes through a route collaborator.
type Calculator struct {
	quoter Quoter
}

func NewCalculator(quoter Quoter) *Calculator {
	return &Calculator{quoter: quoter}
}

// Derive computes the nominal quote for the typed amount and the
// tax-adjusted quote for the post-tax amount. With a zero total tax the
// adjusted quote is the nominal quote.
func (c *Calculator) Derive(ctx context.Context, req TradeRequest) (*Result, error) {
	if len(req.Path) < 2 {
		return nil, fmt.Errorf("route needs at least two hops, got %d", len(req.Path))
	}

	nominal, err := c.quoteFor(ctx, req, req.TypedAmount)
	if err != nil {
		return nil, err
	}

	adjusted := nominal
	if !req.TotalTax.IsZero() {
		adjusted, err = c.quoteFor(ctx, req, AdjustedAmount(req.TypedAmount, req.TotalTax))
		if err != nil {
			return nil, err
		}
	}

	// Slippage bound on the nominal route, widened by the total tax.
	bound := req.SlippageBips + int64(req.TotalTax)
	res := &Result{Nominal: nominal, Adjusted: adjusted}
	if req.ExactIn {
		res.MinReceived = MinimumReceived(nominal.AmountOut, bound)
	} else {
		res.MaxSold = MaximumSold(nominal.AmountIn, bound)
	}
	return res, nil
}

func (c *Calculator) quoteFor(ctx context.Context, req TradeRequest, amount decimal.Decimal) (*Quote, error) {
	raw, err := ToRawUnits(amount, req.Decimals)
	if err != nil {
		return nil, err
	}
	if raw.Sign() == 0 {
		return nil, ErrAmountTooSmall
	}
	if req.ExactIn {
		return c.quoter.QuoteExactIn(ctx, raw, req.Path)
	}
	return c.quoter.QuoteExactOut(ctx, raw, req.Path)
}
