package tax

import (
	"github.com/ethereum/go-ethereum/common"
)

// Kind identifies the role of a tax component within a token's structure.
type Kind int

const (
	KindGeneric   Kind = iota // one of the four free-form tax slots
	KindToken                 // the token's own named tax
	KindLiquidity             // liquidity-pool bound, never user adjustable
	KindBurn                  // burned on transfer
	KindCustom                // user-adjustable charity/donation slot
)

func (k Kind) String() string {
	switch k {
	case KindGeneric:
		return "generic"
	case KindToken:
		return "token"
	case KindLiquidity:
		return "liquidity"
	case KindBurn:
		return "burn"
	case KindCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Side selects which of a component's two rates applies to a trade.
type Side int

const (
	SideBuy  Side = iota // input currency is the native coin
	SideSell             // input currency is a token
)

func (s Side) String() string {
	if s == SideBuy {
		return "buy"
	}
	return "sell"
}

// SideForTrade applies the buy/sell selection rule: a trade is a buy when the
// input currency is the chain's native coin (represented by the zero address)
// or its configured wrapped equivalent.
func SideForTrade(input, wrappedNative common.Address) Side {
	if input == (common.Address{}) || input == wrappedNative {
		return SideBuy
	}
	return SideSell
}

// Component is one named tax line read from a token's tax structure.
type Component struct {
	Kind Kind
	Name string
	Buy  Rate
	Sell Rate
}

// Amount returns the component's rate for the given trade side.
func (c Component) Amount(side Side) Rate {
	if side == SideBuy {
		return c.Buy
	}
	return c.Sell
}

// Set is the ordered tax structure for one token. It holds only itemized
// components; the aggregate is always computed, never stored, so it cannot
// drift or be duplicated.
type Set struct {
	Token      common.Address
	FeeDecimal uint8
	Components []Component
}

// Total sums every component's rate for the given side, including the custom
// slot (which is zero as fetched and only gains a value at merge time).
func (s *Set) Total(side Side) Rate {
	if s == nil {
		return 0
	}
	var total Rate
	for _, c := range s.Components {
		total += c.Amount(side)
	}
	return total
}

// Custom returns the index of the custom slot, or -1 if the structure has
// none.
func (s *Set) Custom() int {
	if s == nil {
		return -1
	}
	for i, c := range s.Components {
		if c.Kind == KindCustom {
			return i
		}
	}
	return -1
}

// CustomName returns the contract-provided label for the custom slot.
func (s *Set) CustomName() string {
	if i := s.Custom(); i >= 0 {
		return s.Components[i].Name
	}
	return ""
}
