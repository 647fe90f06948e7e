package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const DefaultHistoryFileName = ".pawswap-history.json"

// Record is one submitted swap, kept for the status command and audit.
type Record struct {
	Timestamp     time.Time `json:"timestamp"`
	InputToken    string    `json:"input_token"`
	OutputToken   string    `json:"output_token"`
	AmountIn      string    `json:"amount_in"`
	AmountOut     string    `json:"amount_out"`
	TotalTax      string    `json:"total_tax"`
	CustomTax     string    `json:"custom_tax,omitempty"`
	CharityWallet string    `json:"charity_wallet,omitempty"`
	TxHash        string    `json:"tx_hash"`
	Status        string    `json:"status"`
}

// History persists submitted swaps to a JSON file.
type History struct {
	filePath string
	mu       sync.RWMutex
	records  []Record
}

type historyFile struct {
	Swaps []Record `json:"swaps"`
}

// NewHistory opens (or lazily creates) the history file.
func NewHistory(filePath string) (*History, error) {
	if filePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		filePath = filepath.Join(home, DefaultHistoryFileName)
	}

	h := &History{filePath: filePath}
	if err := h.load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load swap history: %w", err)
		}
	}
	return h, nil
}

func (h *History) load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := os.ReadFile(h.filePath)
	if err != nil {
		return err
	}

	var file historyFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to unmarshal swap history: %w", err)
	}
	h.records = file.Swaps
	return nil
}

func (h *History) save() error {
	data, err := json.MarshalIndent(historyFile{Swaps: h.records}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal swap history: %w", err)
	}
	if err := os.WriteFile(h.filePath, data, 0600); err != nil {
		return fmt.Errorf("failed to write swap history: %w", err)
	}
	return nil
}

// Append records a submitted swap.
func (h *History) Append(r Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}
	h.records = append(h.records, r)
	return h.save()
}

// UpdateStatus sets the final status of a recorded swap by transaction hash.
func (h *History) UpdateStatus(txHash, status string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.records {
		if h.records[i].TxHash == txHash {
			h.records[i].Status = status
			return h.save()
		}
	}
	return fmt.Errorf("no recorded swap with hash %s", txHash)
}

// List returns all records, newest last.
func (h *History) List() []Record {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Record, len(h.records))
	copy(out, h.records)
	return out
}
