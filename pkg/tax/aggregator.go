package tax

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// ErrNoTaxStructure is returned when the registry has no tax structure
// mapped for a token.
var ErrNoTaxStructure = errors.New("no tax structure registered for token")

// DefaultFetchTimeout bounds a single tax structure read.
const DefaultFetchTimeout = 5 * time.Second

// RegistryReader resolves a token to its dedicated tax structure contract.
type RegistryReader interface {
	TaxStructureFor(ctx context.Context, token common.Address) (common.Address, error)
}

// StructureReader reads the fixed 21-field schema from a tax structure
// contract.
type StructureReader interface {
	ReadTaxStructure(ctx context.Context, structure common.Address) (*RawStructure, error)
}

// RawStructure is the unscaled contract view of a token's taxes: four
// free-form slots, the token tax, liquidity and burn taxes, the custom slot
// label, and the shared decimal scale.
type RawStructure struct {
	Tax1Name string
	Tax1Buy  *big.Int
	Tax1Sell *big.Int
	Tax2Name string
	Tax2Buy  *big.Int
	Tax2Sell *big.Int
	Tax3Name string
	Tax3Buy  *big.Int
	Tax3Sell *big.Int
	Tax4Name string
	Tax4Buy  *big.Int
	Tax4Sell *big.Int

	TokenTaxName string
	TokenTaxBuy  *big.Int
	TokenTaxSell *big.Int

	LiquidityBuy  *big.Int
	LiquiditySell *big.Int

	BurnBuy  *big.Int
	BurnSell *big.Int

	CustomTaxName string
	FeeDecimal    uint8
}

// Aggregator fetches and normalizes per-token tax structures.
type Aggregator struct {
	registry      RegistryReader
	structures    StructureReader
	wrappedNative common.Address
	timeout       time.Duration
	log           *zap.SugaredLogger
}

// NewAggregator wires an aggregator to its registry and structure readers.
// wrappedNative is the sentinel address treated as the native coin.
func NewAggregator(registry RegistryReader, structures StructureReader, wrappedNative common.Address, timeout time.Duration, log *zap.SugaredLogger) *Aggregator {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Aggregator{
		registry:      registry,
		structures:    structures,
		wrappedNative: wrappedNative,
		timeout:       timeout,
		log:           log,
	}
}

// IsNative reports whether the address stands for the native coin, which
// carries no tax structure.
func (a *Aggregator) IsNative(token common.Address) bool {
	return token == (common.Address{}) || token == a.wrappedNative
}

// FetchTaxSet resolves and reads the tax structure for a token. Selecting the
// native coin is a no-op, not an error: both return values are nil. Any read
// failure returns an error and no set, so callers never observe a partially
// populated structure.
func (a *Aggregator) FetchTaxSet(ctx context.Context, token common.Address) (*Set, error) {
	if a.IsNative(token) {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	structure, err := a.registry.TaxStructureFor(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("tax structure lookup for %s: %w", token.Hex(), err)
	}
	if structure == (common.Address{}) {
		return nil, fmt.Errorf("%w: %s", ErrNoTaxStructure, token.Hex())
	}

	raw, err := a.structures.ReadTaxStructure(ctx, structure)
	if err != nil {
		return nil, fmt.Errorf("read tax structure %s: %w", structure.Hex(), err)
	}

	set, err := Normalize(token, raw)
	if err != nil {
		return nil, err
	}

	a.log.Debugw("fetched tax set",
		"token", token.Hex(),
		"structure", structure.Hex(),
		"buyTotal", set.Total(SideBuy).String(),
		"sellTotal", set.Total(SideSell).String(),
	)
	return set, nil
}

// Normalize scales a raw structure into a Set. The custom slot is always
// present and zeroed; it picks up the live user percentage at merge time,
// never from the contract read.
func Normalize(token common.Address, raw *RawStructure) (*Set, error) {
	type slot struct {
		kind Kind
		name string
		buy  *big.Int
		sell *big.Int
	}
	zero := big.NewInt(0)
	slots := []slot{
		{KindGeneric, raw.Tax1Name, raw.Tax1Buy, raw.Tax1Sell},
		{KindGeneric, raw.Tax2Name, raw.Tax2Buy, raw.Tax2Sell},
		{KindGeneric, raw.Tax3Name, raw.Tax3Buy, raw.Tax3Sell},
		{KindGeneric, raw.Tax4Name, raw.Tax4Buy, raw.Tax4Sell},
		{KindToken, raw.TokenTaxName, raw.TokenTaxBuy, raw.TokenTaxSell},
		{KindLiquidity, "Liquidity Tax", raw.LiquidityBuy, raw.LiquiditySell},
		{KindBurn, "Burn Tax", raw.BurnBuy, raw.BurnSell},
		{KindCustom, raw.CustomTaxName, zero, zero},
	}

	set := &Set{
		Token:      token,
		FeeDecimal: raw.FeeDecimal,
		Components: make([]Component, 0, len(slots)),
	}
	for _, s := range slots {
		buy, err := RateFromContract(s.buy, raw.FeeDecimal)
		if err != nil {
			return nil, fmt.Errorf("%s tax buy amount: %w", s.kind, err)
		}
		sell, err := RateFromContract(s.sell, raw.FeeDecimal)
		if err != nil {
			return nil, fmt.Errorf("%s tax sell amount: %w", s.kind, err)
		}
		set.Components = append(set.Components, Component{
			Kind: s.kind,
			Name: s.name,
			Buy:  buy,
			Sell: sell,
		})
	}
	return set, nil
}
