package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

const pawswapABI = `[
	{"constant":true,"inputs":[{"name":"","type":"address"}],"name":"tokenTaxContracts","outputs":[{"name":"","type":"address"}],"type":"function"},
	{"constant":false,"inputs":[{"name":"tokenAddress","type":"address"},{"name":"customTaxAmount","type":"uint256"},{"name":"customTaxWallet","type":"address"},{"name":"minTokensToReceive","type":"uint256"}],"name":"buyOnPawSwap","outputs":[],"payable":true,"stateMutability":"payable","type":"function"},
	{"constant":false,"inputs":[{"name":"tokenAddress","type":"address"},{"name":"tokenAmount","type":"uint256"},{"name":"customTaxAmount","type":"uint256"},{"name":"customTaxWallet","type":"address"},{"name":"minEthToReceive","type":"uint256"}],"name":"sellOnPawSwap","outputs":[],"type":"function"}
]`

// Pawswap binds the PawSwap contract: the tax-structure registry plus the
// taxed buy/sell entry points. Implements tax.RegistryReader.
type Pawswap struct {
	client  *Client
	address common.Address
	abi     abi.ABI
}

func NewPawswap(client *Client, address common.Address) (*Pawswap, error) {
	parsed, err := abi.JSON(strings.NewReader(pawswapABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse pawswap ABI: %w", err)
	}
	return &Pawswap{client: client, address: address, abi: parsed}, nil
}

// TaxStructureFor resolves the tax structure contract for a token. The zero
// address means no structure is registered.
func (p *Pawswap) TaxStructureFor(ctx context.Context, token common.Address) (common.Address, error) {
	out, err := p.client.Call(ctx, p.address, p.abi, "tokenTaxContracts", token)
	if err != nil {
		return common.Address{}, err
	}
	addr, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("tokenTaxContracts returned %T, want address", out[0])
	}
	return addr, nil
}

// SwapParams carries everything the PawSwap entry points need at submission
// time: the token, the custom tax in basis points, the charity recipient, and
// the slippage-and-tax adjusted bound.
type SwapParams struct {
	Token         common.Address
	Amount        *big.Int // native value for buys, token amount for sells
	CustomTaxBips *big.Int
	CharityWallet common.Address
	MinReceived   *big.Int
}

// ExecuteBuy swaps native coin for the token, with the native amount carried
// as transaction value.
func (p *Pawswap) ExecuteBuy(ctx context.Context, key *ecdsa.PrivateKey, params SwapParams) (string, error) {
	data, err := p.abi.Pack("buyOnPawSwap", params.Token, params.CustomTaxBips, params.CharityWallet, params.MinReceived)
	if err != nil {
		return "", fmt.Errorf("failed to pack buyOnPawSwap: %w", err)
	}
	return p.submit(ctx, key, data, params.Amount)
}

// ExecuteSell swaps the token back to native coin. The token allowance for
// the PawSwap contract must already be in place.
func (p *Pawswap) ExecuteSell(ctx context.Context, key *ecdsa.PrivateKey, params SwapParams) (string, error) {
	data, err := p.abi.Pack("sellOnPawSwap", params.Token, params.Amount, params.CustomTaxBips, params.CharityWallet, params.MinReceived)
	if err != nil {
		return "", fmt.Errorf("failed to pack sellOnPawSwap: %w", err)
	}
	return p.submit(ctx, key, data, big.NewInt(0))
}

func (p *Pawswap) submit(ctx context.Context, key *ecdsa.PrivateKey, data []byte, value *big.Int) (string, error) {
	publicKey, ok := key.Public().(*ecdsa.PublicKey)
	if !ok {
		return "", fmt.Errorf("failed to get public key")
	}
	from := crypto.PubkeyToAddress(*publicKey)

	nonce, err := p.client.PendingNonceAt(ctx, from)
	if err != nil {
		return "", fmt.Errorf("failed to get nonce: %w", err)
	}

	gasPrice, err := p.client.SuggestGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get gas price: %w", err)
	}

	gasLimit := uint64(500000) // taxed swaps fan out to several recipients
	msg := ethereum.CallMsg{From: from, To: &p.address, Value: value, Data: data}
	if estimated, err := p.client.EstimateGas(ctx, msg); err == nil {
		gasLimit = estimated * 120 / 100 // 20% buffer
	}

	tx := types.NewTransaction(nonce, p.address, value, gasLimit, gasPrice, data)
	signedTx, err := types.SignTx(tx, types.NewEIP155Signer(p.client.ChainID()), key)
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := p.client.SendTransaction(ctx, signedTx); err != nil {
		return "", fmt.Errorf("failed to send transaction: %w", err)
	}
	return signedTx.Hash().Hex(), nil
}
