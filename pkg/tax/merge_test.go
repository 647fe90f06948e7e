package tax

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSet() *Set {
	return &Set{
		Token:      common.HexToAddress("0x5aBD80b8108f90c8525a183547D6ecc004112C22"),
		FeeDecimal: 1,
		Components: []Component{
			{Kind: KindGeneric, Name: "Marketing Tax", Buy: 100, Sell: 100},
			{Kind: KindGeneric, Name: "", Buy: 0, Sell: 0},
			{Kind: KindGeneric, Name: "", Buy: 0, Sell: 0},
			{Kind: KindGeneric, Name: "", Buy: 0, Sell: 0},
			{Kind: KindToken, Name: "Pawth Tax", Buy: 200, Sell: 200},
			{Kind: KindLiquidity, Name: "Liquidity Tax", Buy: 0, Sell: 100},
			{Kind: KindBurn, Name: "Burn Tax", Buy: 0, Sell: 0},
			{Kind: KindCustom, Name: "Charity Tax", Buy: 0, Sell: 0},
		},
	}
}

func TestMergeCustomTaxAddsToTotal(t *testing.T) {
	set := testSet()

	// base buy total is 3%; a 10% charity tax makes it 13%
	rows, total := MergeCustomTax(set, Rate(1000), SideBuy)
	assert.Equal(t, Rate(1300), total)

	require.NotEmpty(t, rows)
	last := rows[len(rows)-1]
	assert.True(t, last.IsTotal)
	assert.Equal(t, TotalRowName, last.Name)
	assert.Equal(t, Rate(1300), last.Amount)

	var custom *DisplayRow
	for i := range rows {
		if rows[i].Kind == KindCustom {
			custom = &rows[i]
		}
	}
	require.NotNil(t, custom)
	assert.Equal(t, "Charity Tax", custom.Name)
	assert.Equal(t, Rate(1000), custom.Amount)
}

func TestMergeCustomTaxSumInvariant(t *testing.T) {
	set := testSet()
	for _, custom := range []Rate{0, 1, 250, 1000, MaxCustomRate} {
		_, total := MergeCustomTax(set, custom, SideSell)
		assert.Equal(t, set.Total(SideSell)+custom, total)
	}
}

func TestMergeCustomTaxIdempotent(t *testing.T) {
	set := testSet()
	rows1, total1 := MergeCustomTax(set, Rate(500), SideBuy)
	rows2, total2 := MergeCustomTax(set, Rate(500), SideBuy)
	assert.Equal(t, rows1, rows2)
	assert.Equal(t, total1, total2)

	// the set itself is never mutated
	assert.Equal(t, Rate(0), set.Components[set.Custom()].Buy)
}

func TestMergeCustomTaxSuppressesZeroRows(t *testing.T) {
	set := testSet()

	rows, _ := MergeCustomTax(set, 0, SideBuy)
	for _, row := range rows {
		if !row.IsTotal {
			assert.False(t, row.Amount.IsZero(), "zero row %q displayed", row.Name)
		}
	}
	// buy side shows marketing and token taxes plus the total
	assert.Len(t, rows, 3)

	// sell side additionally shows the liquidity tax
	rows, _ = MergeCustomTax(set, 0, SideSell)
	assert.Len(t, rows, 4)
}

func TestMergeCustomTaxSideSelection(t *testing.T) {
	set := testSet()
	_, buyTotal := MergeCustomTax(set, 0, SideBuy)
	_, sellTotal := MergeCustomTax(set, 0, SideSell)
	assert.Equal(t, Rate(300), buyTotal)
	assert.Equal(t, Rate(400), sellTotal)
}

func TestMergeCustomTaxNoSet(t *testing.T) {
	rows, total := MergeCustomTax(nil, Rate(1000), SideBuy)
	assert.Nil(t, rows)
	assert.True(t, total.IsZero())

	rows, total = MergeCustomTax(&Set{}, Rate(1000), SideBuy)
	assert.Nil(t, rows)
	assert.True(t, total.IsZero())
}

func TestMergeCustomTaxAllZeroHidesTotal(t *testing.T) {
	set := &Set{Components: []Component{
		{Kind: KindToken, Name: "Token Tax"},
		{Kind: KindCustom, Name: "Charity Tax"},
	}}
	rows, total := MergeCustomTax(set, 0, SideBuy)
	assert.Empty(t, rows)
	assert.True(t, total.IsZero())
}

func TestSideForTrade(t *testing.T) {
	wrapped := common.HexToAddress("0xae13d989daC2f0dEbFf460aC112a837C89BAa7cd")
	token := common.HexToAddress("0x5aBD80b8108f90c8525a183547D6ecc004112C22")

	assert.Equal(t, SideBuy, SideForTrade(common.Address{}, wrapped))
	assert.Equal(t, SideBuy, SideForTrade(wrapped, wrapped))
	assert.Equal(t, SideSell, SideForTrade(token, wrapped))
}
