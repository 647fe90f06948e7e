package tax

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateFromContract(t *testing.T) {
	// raw 25 with feeDecimal 1 means 2.5%
	r, err := RateFromContract(big.NewInt(25), 1)
	require.NoError(t, err)
	assert.Equal(t, Rate(250), r)
	assert.Equal(t, "2.5%", r.String())

	// feeDecimal 0: raw values are whole percents
	r, err = RateFromContract(big.NewInt(3), 0)
	require.NoError(t, err)
	assert.Equal(t, Rate(300), r)
	assert.Equal(t, "3%", r.String())

	// feeDecimal 2: raw values already are basis points
	r, err = RateFromContract(big.NewInt(1234), 2)
	require.NoError(t, err)
	assert.Equal(t, Rate(1234), r)
	assert.Equal(t, "12.34%", r.String())

	r, err = RateFromContract(big.NewInt(0), 1)
	require.NoError(t, err)
	assert.True(t, r.IsZero())

	_, err = RateFromContract(nil, 1)
	assert.Error(t, err)
	_, err = RateFromContract(big.NewInt(-5), 1)
	assert.Error(t, err)
	_, err = RateFromContract(big.NewInt(1001), 1) // 100.1%
	assert.Error(t, err)
}

func TestParsePercent(t *testing.T) {
	r, err := ParsePercent("2.5%")
	require.NoError(t, err)
	assert.Equal(t, Rate(250), r)

	r, err = ParsePercent("12")
	require.NoError(t, err)
	assert.Equal(t, Rate(1200), r)

	r, err = ParsePercent(" 0.01% ")
	require.NoError(t, err)
	assert.Equal(t, Rate(1), r)

	r, err = ParsePercent("")
	require.NoError(t, err)
	assert.True(t, r.IsZero())

	_, err = ParsePercent("-3")
	assert.Error(t, err)
	_, err = ParsePercent("abc")
	assert.Error(t, err)
}

func TestRateString(t *testing.T) {
	assert.Equal(t, "0%", Rate(0).String())
	assert.Equal(t, "1%", Rate(100).String())
	assert.Equal(t, "2.5%", Rate(250).String())
	assert.Equal(t, "0.25%", Rate(25).String())
	assert.Equal(t, "13%", Rate(1300).String())
	assert.Equal(t, "100%", Rate(10000).String())
}

func TestClampCustomRate(t *testing.T) {
	r, clamped := ClampCustomRate(Rate(1000))
	assert.Equal(t, Rate(1000), r)
	assert.False(t, clamped)

	// boundary stays untouched
	r, clamped = ClampCustomRate(MaxCustomRate)
	assert.Equal(t, MaxCustomRate, r)
	assert.False(t, clamped)

	// 60% comes back as the 50% maximum with a notice
	r, clamped = ClampCustomRate(Rate(6000))
	assert.Equal(t, MaxCustomRate, r)
	assert.True(t, clamped)

	r, clamped = ClampCustomRate(Rate(-1))
	assert.Equal(t, Rate(0), r)
	assert.True(t, clamped)
}

func TestParseCustomPercent(t *testing.T) {
	r, clamped, err := ParseCustomPercent("2")
	require.NoError(t, err)
	assert.Equal(t, Rate(200), r)
	assert.False(t, clamped)

	r, clamped, err = ParseCustomPercent("60")
	require.NoError(t, err)
	assert.Equal(t, MaxCustomRate, r)
	assert.True(t, clamped)

	_, _, err = ParseCustomPercent("ten")
	assert.Error(t, err)
}
