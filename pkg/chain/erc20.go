package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const erc20ABI = `[
	{"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"type":"function"},
	{"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"balance","type":"uint256"}],"type":"function"}
]`

// ERC20 provides the token metadata and balance reads the CLI needs for
// display and balance checks.
type ERC20 struct {
	client *Client
	abi    abi.ABI
}

func NewERC20(client *Client) (*ERC20, error) {
	parsed, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ERC20 ABI: %w", err)
	}
	return &ERC20{client: client, abi: parsed}, nil
}

func (e *ERC20) Symbol(ctx context.Context, token common.Address) (string, error) {
	out, err := e.client.Call(ctx, token, e.abi, "symbol")
	if err != nil {
		return "", err
	}
	v, ok := out[0].(string)
	if !ok {
		return "", fmt.Errorf("symbol returned %T, want string", out[0])
	}
	return v, nil
}

func (e *ERC20) Decimals(ctx context.Context, token common.Address) (uint8, error) {
	out, err := e.client.Call(ctx, token, e.abi, "decimals")
	if err != nil {
		return 0, err
	}
	v, ok := out[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("decimals returned %T, want uint8", out[0])
	}
	return v, nil
}

func (e *ERC20) BalanceOf(ctx context.Context, token, owner common.Address) (*big.Int, error) {
	out, err := e.client.Call(ctx, token, e.abi, "balanceOf", owner)
	if err != nil {
		return nil, err
	}
	v, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("balanceOf returned %T, want *big.Int", out[0])
	}
	return v, nil
}
