package session

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawswap/pkg/quote"
	"pawswap/pkg/tax"
)

var (
	wrapped = common.HexToAddress("0xae13d989daC2f0dEbFf460aC112a837C89BAa7cd")
	pawth   = common.HexToAddress("0x5aBD80b8108f90c8525a183547D6ecc004112C22")
	busd    = common.HexToAddress("0xe9e7CEA3DedcA5984780Bafc599bD69ADd087D56")
)

func taxSetFor(token common.Address) *tax.Set {
	return &tax.Set{
		Token: token,
		Components: []tax.Component{
			{Kind: tax.KindToken, Name: "Token Tax", Buy: 200, Sell: 200},
			{Kind: tax.KindCustom, Name: "Charity Tax"},
		},
	}
}

func quotedResult() *quote.Result {
	q := &quote.Quote{AmountIn: big.NewInt(100), AmountOut: big.NewInt(200)}
	return &quote.Result{Nominal: q, Adjusted: q, MinReceived: big.NewInt(195)}
}

// drives a session from idle to quoted
func quotedSession(t *testing.T) *Session {
	t.Helper()
	s := New(wrapped)
	s.SelectToken(FieldInput, common.Address{})
	gen := s.SelectToken(FieldOutput, pawth)
	require.True(t, s.ApplyTaxSet(gen, taxSetFor(pawth)))
	require.NoError(t, s.TypeAmount("0.5", true))
	require.NoError(t, s.BeginQuoting())
	require.NoError(t, s.ApplyQuotes(quotedResult()))
	return s
}

func TestSessionHappyPath(t *testing.T) {
	s := quotedSession(t)
	assert.Equal(t, StateQuoted, s.State())

	require.NoError(t, s.BeginConfirming())
	require.NoError(t, s.Submit("0xabc"))
	assert.Equal(t, "0xabc", s.TxHash())
	require.NoError(t, s.Complete())
	assert.Equal(t, StateSucceeded, s.State())
}

func TestSessionApprovalPath(t *testing.T) {
	s := quotedSession(t)
	require.NoError(t, s.BeginApproving())
	require.NoError(t, s.BeginConfirming())
	require.NoError(t, s.Submit("0xabc"))
	require.NoError(t, s.Fail("reverted"))
	assert.Equal(t, StateFailed, s.State())
	assert.Equal(t, "reverted", s.FailReason())
}

func TestSessionInvalidTransitions(t *testing.T) {
	s := New(wrapped)
	assert.Error(t, s.BeginQuoting(), "cannot quote with no amount")
	assert.Error(t, s.Submit("0xabc"))
	assert.Error(t, s.Complete())

	s = quotedSession(t)
	require.NoError(t, s.BeginConfirming())
	assert.Error(t, s.TypeAmount("1", true), "amount locked once confirming")
}

func TestSessionStaleTaxSetDiscarded(t *testing.T) {
	s := New(wrapped)
	s.SelectToken(FieldInput, common.Address{})
	gen1 := s.SelectToken(FieldOutput, pawth)

	// user picks a different token before the first fetch lands
	gen2 := s.SelectToken(FieldOutput, busd)

	assert.False(t, s.ApplyTaxSet(gen1, taxSetFor(pawth)), "stale fetch must be dropped")
	assert.Nil(t, s.TaxSet())

	assert.True(t, s.ApplyTaxSet(gen2, taxSetFor(busd)))
	require.NotNil(t, s.TaxSet())
	assert.Equal(t, busd, s.TaxSet().Token)
}

func TestSessionResetSuppressesPendingFetch(t *testing.T) {
	s := New(wrapped)
	gen := s.SelectToken(FieldOutput, pawth)
	s.Reset()

	assert.False(t, s.ApplyTaxSet(gen, taxSetFor(pawth)))
	assert.Equal(t, StateIdle, s.State())
}

func TestSessionSelectTokenInvalidatesTaxesAndQuotes(t *testing.T) {
	s := quotedSession(t)
	s.SelectToken(FieldOutput, busd)

	assert.Nil(t, s.TaxSet())
	assert.Nil(t, s.Result())
	assert.Equal(t, StateAmountTyped, s.State())
}

func TestSessionSelectDuplicateSwapsPair(t *testing.T) {
	s := New(wrapped)
	s.SelectToken(FieldInput, common.Address{})
	s.SelectToken(FieldOutput, pawth)

	// selecting the output token as input flips the pair
	s.SelectToken(FieldInput, pawth)
	input, output := s.Tokens()
	assert.Equal(t, pawth, input)
	assert.Equal(t, common.Address{}, output)
}

func TestSessionSwitchTokensKeepsTaxSet(t *testing.T) {
	s := quotedSession(t)
	require.NotNil(t, s.TaxSet())
	assert.Equal(t, tax.SideBuy, s.Side())

	s.SwitchTokens()

	assert.NotNil(t, s.TaxSet(), "tax set stays valid across a flip")
	assert.Nil(t, s.Result(), "quotes are recomputed")
	assert.Equal(t, tax.SideSell, s.Side())
}

func TestSessionConfirmGuards(t *testing.T) {
	// tax-bearing pair without a tax set cannot confirm
	s := New(wrapped)
	s.SelectToken(FieldInput, common.Address{})
	s.SelectToken(FieldOutput, pawth)
	require.NoError(t, s.TypeAmount("1", true))
	require.NoError(t, s.BeginQuoting())
	require.NoError(t, s.ApplyQuotes(quotedResult()))
	assert.Error(t, s.BeginConfirming())

	// adjusted quote missing
	s = New(wrapped)
	gen := s.SelectToken(FieldOutput, pawth)
	require.True(t, s.ApplyTaxSet(gen, taxSetFor(pawth)))
	require.NoError(t, s.TypeAmount("1", true))
	require.NoError(t, s.BeginQuoting())
	require.NoError(t, s.ApplyQuotes(&quote.Result{Nominal: &quote.Quote{}}))
	assert.Error(t, s.BeginConfirming())
}

func TestSessionSetCustomTaxClamps(t *testing.T) {
	s := New(wrapped)
	charity := common.HexToAddress("0x9e84fe006aa1c290f4cbcd78be32131cbf52cb23")

	clamped := s.SetCustomTax(tax.Rate(6000), charity)
	assert.True(t, clamped)
	rate, wallet := s.CustomTax()
	assert.Equal(t, tax.MaxCustomRate, rate)
	assert.Equal(t, charity, wallet)

	clamped = s.SetCustomTax(tax.Rate(200), charity)
	assert.False(t, clamped)
}

func TestSessionDisplayTaxes(t *testing.T) {
	s := New(wrapped)
	s.SelectToken(FieldInput, common.Address{})
	gen := s.SelectToken(FieldOutput, pawth)
	require.True(t, s.ApplyTaxSet(gen, taxSetFor(pawth)))
	s.SetCustomTax(tax.Rate(1000), common.Address{})

	rows, total := s.DisplayTaxes()
	assert.Equal(t, tax.Rate(1200), total)
	require.NotEmpty(t, rows)
	assert.True(t, rows[len(rows)-1].IsTotal)
}
