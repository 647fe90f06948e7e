package session

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"pawswap/pkg/quote"
	"pawswap/pkg/tax"
)

// State is the lifecycle position of a pending swap.
type State string

const (
	StateIdle        State = "idle"
	StateAmountTyped State = "amount_typed"
	StateQuoting     State = "quoting"
	StateQuoted      State = "quoted"
	StateApproving   State = "approving"
	StateConfirming  State = "confirming"
	StateSubmitted   State = "submitted"
	StateSucceeded   State = "succeeded"
	StateFailed      State = "failed"
)

// Field names the two sides of the pending swap.
type Field string

const (
	FieldInput  Field = "input"
	FieldOutput Field = "output"
)

var transitions = map[State][]State{
	StateIdle:        {StateAmountTyped},
	StateAmountTyped: {StateAmountTyped, StateQuoting},
	StateQuoting:     {StateQuoted, StateAmountTyped, StateFailed},
	StateQuoted:      {StateAmountTyped, StateQuoting, StateApproving, StateConfirming},
	StateApproving:   {StateConfirming, StateFailed},
	StateConfirming:  {StateSubmitted, StateFailed},
	StateSubmitted:   {StateSucceeded, StateFailed},
}

func canTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Session owns the swap-screen state: selected tokens, typed amount, the
// fetched tax set, the custom tax input, and the derived quotes. Tax sets are
// replaced wholesale on token change and a generation counter discards stale
// fetch results, so only the latest selection ever lands.
type Session struct {
	mu            sync.RWMutex
	state         State
	wrappedNative common.Address

	input  common.Address // zero address = native coin
	output common.Address

	typedAmount string
	exactIn     bool

	taxSet     *tax.Set
	generation uint64

	customTax     tax.Rate
	charityWallet common.Address

	result *quote.Result

	txHash     string
	failReason string
}

func New(wrappedNative common.Address) *Session {
	return &Session{state: StateIdle, wrappedNative: wrappedNative}
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SelectToken replaces one side of the pair and invalidates the tax set and
// quotes. Selecting the token already on the other side swaps the pair, the
// same way the swap screen flips the fields. The returned generation must be
// passed back to ApplyTaxSet so a stale fetch for a previous selection is
// discarded.
func (s *Session) SelectToken(field Field, token common.Address) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if field == FieldInput {
		if token == s.output {
			s.output = s.input
		}
		s.input = token
	} else {
		if token == s.input {
			s.input = s.output
		}
		s.output = token
	}

	s.taxSet = nil
	s.result = nil
	s.generation++
	if s.state != StateIdle && s.state != StateAmountTyped {
		s.state = StateAmountTyped
	}
	return s.generation
}

// SwitchTokens flips input and output. The tax set stays valid (it is keyed
// to the taxed token, and the buy/sell side flips with the input), but quotes
// are recomputed.
func (s *Session) SwitchTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input, s.output = s.output, s.input
	s.result = nil
	if s.state != StateIdle && s.state != StateAmountTyped {
		s.state = StateAmountTyped
	}
}

// Tokens returns the current input and output selection.
func (s *Session) Tokens() (input, output common.Address) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.input, s.output
}

// Generation returns the current selection generation.
func (s *Session) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// ApplyTaxSet installs a fetched tax set if it belongs to the current
// selection. A stale result (the selection changed since the fetch started)
// is dropped and false is returned.
func (s *Session) ApplyTaxSet(generation uint64, set *tax.Set) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation {
		return false
	}
	s.taxSet = set
	return true
}

// TaxSet returns the installed tax set, or nil when unavailable.
func (s *Session) TaxSet() *tax.Set {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.taxSet
}

// TypeAmount records the user-typed amount on the independent side and
// invalidates previous quotes.
func (s *Session) TypeAmount(amount string, exactIn bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !canTransition(s.state, StateAmountTyped) && s.state != StateIdle {
		return fmt.Errorf("cannot type amount in state %s", s.state)
	}
	s.typedAmount = amount
	s.exactIn = exactIn
	s.result = nil
	s.state = StateAmountTyped
	return nil
}

// TypedAmount returns the pending amount and whether it is the input side.
func (s *Session) TypedAmount() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.typedAmount, s.exactIn
}

// SetCustomTax stores the user's charity percentage and recipient, clamping
// to the allowed range. Returns true when the value was reduced.
func (s *Session) SetCustomTax(r tax.Rate, wallet common.Address) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	clampedRate, clamped := tax.ClampCustomRate(r)
	s.customTax = clampedRate
	s.charityWallet = wallet
	s.result = nil
	return clamped
}

// CustomTax returns the stored charity percentage and recipient.
func (s *Session) CustomTax() (tax.Rate, common.Address) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.customTax, s.charityWallet
}

// Side applies the buy/sell selection rule to the current input currency.
func (s *Session) Side() tax.Side {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return tax.SideForTrade(s.input, s.wrappedNative)
}

// TaxBearing reports whether either side of the pair is a non-native token,
// i.e. whether a tax set is required before confirming.
func (s *Session) TaxBearing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isTaxBearing()
}

func (s *Session) isTaxBearing() bool {
	native := common.Address{}
	return (s.input != native && s.input != s.wrappedNative) ||
		(s.output != native && s.output != s.wrappedNative)
}

// DisplayTaxes merges the live custom tax into the fetched set for the
// active side.
func (s *Session) DisplayTaxes() ([]tax.DisplayRow, tax.Rate) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	side := tax.SideForTrade(s.input, s.wrappedNative)
	return tax.MergeCustomTax(s.taxSet, s.customTax, side)
}

// BeginQuoting marks the start of quote derivation.
func (s *Session) BeginQuoting() error {
	return s.transition(StateQuoting)
}

// ApplyQuotes installs the derived quotes.
func (s *Session) ApplyQuotes(result *quote.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !canTransition(s.state, StateQuoted) {
		return fmt.Errorf("cannot apply quotes in state %s", s.state)
	}
	s.result = result
	s.state = StateQuoted
	return nil
}

// Result returns the derived quotes, or nil before quoting completes.
func (s *Session) Result() *quote.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

// BeginApproving marks the start of a token allowance transaction.
func (s *Session) BeginApproving() error {
	return s.transition(StateApproving)
}

// BeginConfirming gates submission: a tax-bearing swap may not be confirmed
// until the tax set and the tax-adjusted quote are both present.
func (s *Session) BeginConfirming() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !canTransition(s.state, StateConfirming) {
		return fmt.Errorf("cannot confirm in state %s", s.state)
	}
	if s.isTaxBearing() {
		if s.taxSet == nil {
			return fmt.Errorf("tax information unavailable for this pair")
		}
		if s.result == nil || s.result.Adjusted == nil {
			return fmt.Errorf("tax-adjusted quote unavailable")
		}
	}
	s.state = StateConfirming
	return nil
}

// Submit records the broadcast transaction.
func (s *Session) Submit(txHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !canTransition(s.state, StateSubmitted) {
		return fmt.Errorf("cannot submit in state %s", s.state)
	}
	s.txHash = txHash
	s.state = StateSubmitted
	return nil
}

// TxHash returns the submitted transaction hash.
func (s *Session) TxHash() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.txHash
}

// Complete marks the swap as succeeded on-chain.
func (s *Session) Complete() error {
	return s.transition(StateSucceeded)
}

// Fail records a terminal failure with its reason.
func (s *Session) Fail(reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !canTransition(s.state, StateFailed) {
		return fmt.Errorf("cannot fail in state %s", s.state)
	}
	s.failReason = reason
	s.state = StateFailed
	return nil
}

// FailReason returns the recorded failure reason.
func (s *Session) FailReason() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.failReason
}

// Reset clears the session back to idle. The generation bump suppresses any
// still-in-flight tax fetch, which covers navigating away mid-fetch.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateIdle
	s.input = common.Address{}
	s.output = common.Address{}
	s.typedAmount = ""
	s.exactIn = false
	s.taxSet = nil
	s.customTax = 0
	s.charityWallet = common.Address{}
	s.result = nil
	s.txHash = ""
	s.failReason = ""
	s.generation++
}

func (s *Session) transition(to State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !canTransition(s.state, to) {
		return fmt.Errorf("invalid transition %s -> %s", s.state, to)
	}
	s.state = to
	return nil
}
