package session

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	h, err := NewHistory(path)
	require.NoError(t, err)
	assert.Empty(t, h.List())

	require.NoError(t, h.Append(Record{
		InputToken:  "BNB",
		OutputToken: "PAWTH",
		AmountIn:    "0.5",
		AmountOut:   "1234.5",
		TotalTax:    "13%",
		TxHash:      "0xabc",
		Status:      "submitted",
	}))

	// reopen and confirm persistence
	h2, err := NewHistory(path)
	require.NoError(t, err)
	records := h2.List()
	require.Len(t, records, 1)
	assert.Equal(t, "0xabc", records[0].TxHash)
	assert.False(t, records[0].Timestamp.IsZero())

	require.NoError(t, h2.UpdateStatus("0xabc", "success"))
	assert.Equal(t, "success", h2.List()[0].Status)

	assert.Error(t, h2.UpdateStatus("0xdef", "success"))
}
