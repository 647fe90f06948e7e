package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"golang.org/x/time/rate"
)

// DefaultRequestsPerSecond matches what public BSC endpoints tolerate.
const DefaultRequestsPerSecond = 20

// Client wraps an ethclient connection with a per-endpoint rate limiter so a
// burst of tax-structure reads cannot trip RPC throttling.
type Client struct {
	eth     *ethclient.Client
	limiter *rate.Limiter
	chainID *big.Int
}

// Dial connects to the RPC endpoint.
func Dial(ctx context.Context, rpcURL string, chainID int64, requestsPerSecond int) (*Client, error) {
	if rpcURL == "" {
		return nil, fmt.Errorf("RPC URL is required")
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = DefaultRequestsPerSecond
	}
	eth, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC endpoint: %w", err)
	}
	return &Client{
		eth:     eth,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		chainID: big.NewInt(chainID),
	}, nil
}

// ChainID returns the configured chain id used for transaction signing.
func (c *Client) ChainID() *big.Int {
	return new(big.Int).Set(c.chainID)
}

// Call performs a read-only contract call and unpacks the outputs.
func (c *Client) Call(ctx context.Context, to common.Address, parsed abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method, err)
	}
	result, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s on %s: %w", method, to.Hex(), err)
	}
	out, err := parsed.Unpack(method, result)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s: %w", method, err)
	}
	return out, nil
}

// PendingNonceAt returns the next nonce for an account.
func (c *Client) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	return c.eth.PendingNonceAt(ctx, account)
}

// SuggestGasPrice returns the network's current gas price.
func (c *Client) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.eth.SuggestGasPrice(ctx)
}

// EstimateGas estimates gas for a call.
func (c *Client) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	return c.eth.EstimateGas(ctx, msg)
}

// SendTransaction broadcasts a signed transaction.
func (c *Client) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	return c.eth.SendTransaction(ctx, tx)
}

// TransactionReceipt fetches the receipt for a transaction hash.
func (c *Client) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.eth.TransactionReceipt(ctx, hash)
}

// TransactionByHash fetches a transaction and its pending flag.
func (c *Client) TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, false, err
	}
	return c.eth.TransactionByHash(ctx, hash)
}

// BalanceAt returns the native balance of an account.
func (c *Client) BalanceAt(ctx context.Context, account common.Address) (*big.Int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.eth.BalanceAt(ctx, account, nil)
}

// Close closes the underlying connection.
func (c *Client) Close() {
	if c.eth != nil {
		c.eth.Close()
	}
}
