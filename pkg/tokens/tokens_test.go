package tokens

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSymbol(t *testing.T) {
	tok, err := Resolve("pawth")
	require.NoError(t, err)
	assert.Equal(t, "PAWTH", tok.Symbol)
	assert.Equal(t, uint8(9), tok.Decimals)
	assert.False(t, tok.Native)

	tok, err = Resolve("BNB")
	require.NoError(t, err)
	assert.True(t, tok.Native)
}

func TestResolveAddress(t *testing.T) {
	tok, err := Resolve("0x5aBD80b8108f90c8525a183547D6ecc004112C22")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x5aBD80b8108f90c8525a183547D6ecc004112C22"), tok.Address)
	assert.False(t, tok.Native)
	// metadata comes from the chain later
	assert.Zero(t, tok.Decimals)
}

func TestResolveUnknown(t *testing.T) {
	_, err := Resolve("DOGE")
	assert.Error(t, err)
	_, err = Resolve("0x123") // not a valid address
	assert.Error(t, err)
}
