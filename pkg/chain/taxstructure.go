package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"pawswap/pkg/tax"
)

// Tax structure contract view functions: four generic slots, the token tax,
// liquidity and burn taxes, the custom slot label, and the shared decimal
// scale. 21 fields per token.
const taxStructureABI = `[
	{"constant":true,"inputs":[],"name":"tax1Name","outputs":[{"name":"","type":"string"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"tax1BuyAmount","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"tax1SellAmount","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"tax2Name","outputs":[{"name":"","type":"string"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"tax2BuyAmount","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"tax2SellAmount","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"tax3Name","outputs":[{"name":"","type":"string"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"tax3BuyAmount","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"tax3SellAmount","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"tax4Name","outputs":[{"name":"","type":"string"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"tax4BuyAmount","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"tax4SellAmount","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"tokenTaxName","outputs":[{"name":"","type":"string"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"tokenTaxBuyAmount","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"tokenTaxSellAmount","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"liquidityTaxBuyAmount","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"liquidityTaxSellAmount","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"burnTaxBuyAmount","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"burnTaxSellAmount","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"customTaxName","outputs":[{"name":"","type":"string"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"feeDecimal","outputs":[{"name":"","type":"uint256"}],"type":"function"}
]`

// TaxStructureReader reads the fixed tax schema from a tax structure
// contract. Implements tax.StructureReader.
type TaxStructureReader struct {
	client *Client
	abi    abi.ABI
}

func NewTaxStructureReader(client *Client) (*TaxStructureReader, error) {
	parsed, err := abi.JSON(strings.NewReader(taxStructureABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse tax structure ABI: %w", err)
	}
	return &TaxStructureReader{client: client, abi: parsed}, nil
}

// ReadTaxStructure fetches all 21 fields. Any single failed read fails the
// whole fetch so the caller never sees a partially populated structure.
func (r *TaxStructureReader) ReadTaxStructure(ctx context.Context, structure common.Address) (*tax.RawStructure, error) {
	raw := &tax.RawStructure{}

	strFields := []struct {
		method string
		dst    *string
	}{
		{"tax1Name", &raw.Tax1Name},
		{"tax2Name", &raw.Tax2Name},
		{"tax3Name", &raw.Tax3Name},
		{"tax4Name", &raw.Tax4Name},
		{"tokenTaxName", &raw.TokenTaxName},
		{"customTaxName", &raw.CustomTaxName},
	}
	for _, f := range strFields {
		v, err := r.callString(ctx, structure, f.method)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}

	uintFields := []struct {
		method string
		dst    **big.Int
	}{
		{"tax1BuyAmount", &raw.Tax1Buy},
		{"tax1SellAmount", &raw.Tax1Sell},
		{"tax2BuyAmount", &raw.Tax2Buy},
		{"tax2SellAmount", &raw.Tax2Sell},
		{"tax3BuyAmount", &raw.Tax3Buy},
		{"tax3SellAmount", &raw.Tax3Sell},
		{"tax4BuyAmount", &raw.Tax4Buy},
		{"tax4SellAmount", &raw.Tax4Sell},
		{"tokenTaxBuyAmount", &raw.TokenTaxBuy},
		{"tokenTaxSellAmount", &raw.TokenTaxSell},
		{"liquidityTaxBuyAmount", &raw.LiquidityBuy},
		{"liquidityTaxSellAmount", &raw.LiquiditySell},
		{"burnTaxBuyAmount", &raw.BurnBuy},
		{"burnTaxSellAmount", &raw.BurnSell},
	}
	for _, f := range uintFields {
		v, err := r.callUint(ctx, structure, f.method)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}

	feeDecimal, err := r.callUint(ctx, structure, "feeDecimal")
	if err != nil {
		return nil, err
	}
	if !feeDecimal.IsUint64() || feeDecimal.Uint64() > 18 {
		return nil, fmt.Errorf("unreasonable feeDecimal %s from %s", feeDecimal, structure.Hex())
	}
	raw.FeeDecimal = uint8(feeDecimal.Uint64())

	return raw, nil
}

func (r *TaxStructureReader) callString(ctx context.Context, to common.Address, method string) (string, error) {
	out, err := r.client.Call(ctx, to, r.abi, method)
	if err != nil {
		return "", err
	}
	v, ok := out[0].(string)
	if !ok {
		return "", fmt.Errorf("%s returned %T, want string", method, out[0])
	}
	return v, nil
}

func (r *TaxStructureReader) callUint(ctx context.Context, to common.Address, method string) (*big.Int, error) {
	out, err := r.client.Call(ctx, to, r.abi, method)
	if err != nil {
		return nil, err
	}
	v, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%s returned %T, want *big.Int", method, out[0])
	}
	return v, nil
}
