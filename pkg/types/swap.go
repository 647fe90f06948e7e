package types

// SwapRequest represents a user's swap command
type SwapRequest struct {
	Amount        string `json:"amount"`
	SourceToken   string `json:"source_token"`
	DestToken     string `json:"dest_token"`
	Recipient     string `json:"recipient,omitempty"`
	CharityWallet string `json:"charity_wallet,omitempty"`
	CharityTax    string `json:"charity_tax,omitempty"`
	SlippageBips  int64  `json:"slippage_bips,omitempty"`
}

// SwapStatus represents the on-chain status of a submitted swap
type SwapStatus struct {
	TxHash      string `json:"tx_hash"`
	Status      string `json:"status"`
	BlockNumber uint64 `json:"block_number,omitempty"`
	GasUsed     uint64 `json:"gas_used,omitempty"`
	Pending     bool   `json:"pending"`
}
