package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawswap/pkg/types"
)

func TestParseSwapCommand(t *testing.T) {
	req, err := ParseSwapCommand("swap 100 PAWTH to BNB")
	require.NoError(t, err)
	assert.Equal(t, "100", req.Amount)
	assert.Equal(t, "PAWTH", req.SourceToken)
	assert.Equal(t, "BNB", req.DestToken)

	// the leading "swap" keyword is optional
	req, err = ParseSwapCommand("0.5 BNB to PAWTH")
	require.NoError(t, err)
	assert.Equal(t, "0.5", req.Amount)

	// address case is preserved
	req, err = ParseSwapCommand("1 BNB to 0x5aBD80b8108f90c8525a183547D6ecc004112C22")
	require.NoError(t, err)
	assert.Equal(t, "0x5aBD80b8108f90c8525a183547D6ecc004112C22", req.DestToken)

	// keyword matching is case-insensitive
	req, err = ParseSwapCommand("SWAP 2 bnb TO pawth")
	require.NoError(t, err)
	assert.Equal(t, "bnb", req.SourceToken)
	assert.Equal(t, "pawth", req.DestToken)
}

func TestParseSwapCommandInvalid(t *testing.T) {
	for _, command := range []string{
		"",
		"swap PAWTH to BNB",
		"swap 100 PAWTH",
		"swap 100 PAWTH BNB",
		"swap -5 PAWTH to BNB",
	} {
		_, err := ParseSwapCommand(command)
		assert.Error(t, err, "command %q", command)
	}
}

func TestValidateSwapRequest(t *testing.T) {
	assert.NoError(t, ValidateSwapRequest(&types.SwapRequest{
		Amount: "1", SourceToken: "BNB", DestToken: "PAWTH",
	}))

	assert.Error(t, ValidateSwapRequest(&types.SwapRequest{
		Amount: "1", SourceToken: "BNB", DestToken: "bnb",
	}), "same token on both sides")

	assert.Error(t, ValidateSwapRequest(&types.SwapRequest{
		SourceToken: "BNB", DestToken: "PAWTH",
	}))
}
