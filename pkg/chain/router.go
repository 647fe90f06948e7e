package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"pawswap/pkg/quote"
)

const routerABI = `[
	{"constant":true,"inputs":[{"name":"amountIn","type":"uint256"},{"name":"path","type":"address[]"}],"name":"getAmountsOut","outputs":[{"name":"amounts","type":"uint256[]"}],"type":"function"},
	{"constant":true,"inputs":[{"name":"amountOut","type":"uint256"},{"name":"path","type":"address[]"}],"name":"getAmountsIn","outputs":[{"name":"amounts","type":"uint256[]"}],"type":"function"}
]`

// Router binds the AMM router's quoting functions. Implements quote.Quoter.
type Router struct {
	client  *Client
	address common.Address
	abi     abi.ABI
}

func NewRouter(client *Client, address common.Address) (*Router, error) {
	parsed, err := abi.JSON(strings.NewReader(routerABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse router ABI: %w", err)
	}
	return &Router{client: client, address: address, abi: parsed}, nil
}

// QuoteExactIn evaluates the route for a fixed input amount.
func (r *Router) QuoteExactIn(ctx context.Context, amountIn *big.Int, path []common.Address) (*quote.Quote, error) {
	amounts, err := r.amounts(ctx, "getAmountsOut", amountIn, path)
	if err != nil {
		return nil, err
	}
	return &quote.Quote{
		AmountIn:  amounts[0],
		AmountOut: amounts[len(amounts)-1],
		Path:      path,
	}, nil
}

// QuoteExactOut evaluates the route for a fixed output amount.
func (r *Router) QuoteExactOut(ctx context.Context, amountOut *big.Int, path []common.Address) (*quote.Quote, error) {
	amounts, err := r.amounts(ctx, "getAmountsIn", amountOut, path)
	if err != nil {
		return nil, err
	}
	return &quote.Quote{
		AmountIn:  amounts[0],
		AmountOut: amounts[len(amounts)-1],
		Path:      path,
	}, nil
}

func (r *Router) amounts(ctx context.Context, method string, amount *big.Int, path []common.Address) ([]*big.Int, error) {
	out, err := r.client.Call(ctx, r.address, r.abi, method, amount, path)
	if err != nil {
		// Pair contracts revert with INSUFFICIENT_LIQUIDITY /
		// INSUFFICIENT_INPUT_AMOUNT when the route cannot absorb the amount.
		if strings.Contains(strings.ToUpper(err.Error()), "INSUFFICIENT") {
			return nil, quote.ErrInsufficientLiquidity
		}
		return nil, err
	}
	amounts, ok := out[0].([]*big.Int)
	if !ok || len(amounts) < 2 {
		return nil, quote.ErrInsufficientLiquidity
	}
	return amounts, nil
}
