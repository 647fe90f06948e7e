package tax

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// BipsBase is the denominator for basis-point arithmetic (100% == 10000 bips).
const BipsBase int64 = 10000

// MaxCustomRate is the highest custom/charity tax a user may set (50%).
const MaxCustomRate Rate = 5000

// Rate is a tax or slippage percentage in integer basis points.
// Every rate in the system stays inside [0, 10000]; arithmetic on raw
// contract integers and typed percent strings happens in decimal and is
// rounded once, on construction.
type Rate int64

// RateFromContract scales a raw on-chain integer into basis points using the
// shared feeDecimal reported by the tax structure contract. A raw value of 25
// with feeDecimal 1 means 2.5%, i.e. 250 bips.
func RateFromContract(raw *big.Int, feeDecimal uint8) (Rate, error) {
	if raw == nil {
		return 0, fmt.Errorf("nil tax amount")
	}
	if raw.Sign() < 0 {
		return 0, fmt.Errorf("negative tax amount %s", raw)
	}
	// raw / 10^feeDecimal percent == raw * 10^(2-feeDecimal) bips
	bips := decimal.NewFromBigInt(raw, 2-int32(feeDecimal)).Round(0)
	if !bips.BigInt().IsInt64() {
		return 0, fmt.Errorf("tax amount %s out of range", raw)
	}
	r := Rate(bips.IntPart())
	if int64(r) > BipsBase {
		return 0, fmt.Errorf("tax amount %s exceeds 100%%", raw)
	}
	return r, nil
}

// ParsePercent converts a human percentage such as "2.5%" or "12" into a
// Rate. An empty or bare "%" input is treated as unset (zero). Values are
// rounded to the nearest basis point.
func ParsePercent(s string) (Rate, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid percentage %q: %w", s, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("negative percentage %q", s)
	}
	bips := d.Shift(2).Round(0)
	if !bips.BigInt().IsInt64() {
		return 0, fmt.Errorf("percentage %q out of range", s)
	}
	return Rate(bips.IntPart()), nil
}

// Percent returns the rate as a decimal percentage (250 bips -> 2.5).
func (r Rate) Percent() decimal.Decimal {
	return decimal.New(int64(r), -2)
}

// String formats the rate the way the tax table displays it: "2.5%", "3%".
func (r Rate) String() string {
	whole := int64(r) / 100
	frac := int64(r) % 100
	switch {
	case frac == 0:
		return fmt.Sprintf("%d%%", whole)
	case frac%10 == 0:
		return fmt.Sprintf("%d.%d%%", whole, frac/10)
	default:
		return fmt.Sprintf("%d.%02d%%", whole, frac)
	}
}

// IsZero reports whether the rate is unset or exactly zero.
func (r Rate) IsZero() bool {
	return r == 0
}

// ClampCustomRate bounds a user-entered custom tax to [0, 50%]. The second
// return value reports whether the input was reduced, so callers can surface
// a notice.
func ClampCustomRate(r Rate) (Rate, bool) {
	if r < 0 {
		return 0, true
	}
	if r > MaxCustomRate {
		return MaxCustomRate, true
	}
	return r, false
}

// ParseCustomPercent parses a user-typed custom tax percentage and clamps it
// to the allowed range.
func ParseCustomPercent(s string) (rate Rate, clamped bool, err error) {
	r, err := ParsePercent(s)
	if err != nil {
		return 0, false, err
	}
	rate, clamped = ClampCustomRate(r)
	return rate, clamped, nil
}
