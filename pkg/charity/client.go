package charity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"
)

// Wallet is one charity that can receive the custom tax.
type Wallet struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Logo     string `json:"logo"`
	Mission  string `json:"mission"`
	Category string `json:"category"`
}

// Client queries the nonprofit directory API for charity wallets.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type nonprofitResponse struct {
	Nonprofits []struct {
		Name     string `json:"name"`
		IconURL  string `json:"icon_url"`
		Mission  string `json:"mission"`
		Category string `json:"category"`
		Crypto   struct {
			EthereumAddress string `json:"ethereum_address"`
		} `json:"crypto"`
		Socials struct {
			Twitter   string `json:"twitter"`
			Instagram string `json:"instagram"`
			Facebook  string `json:"facebook"`
		} `json:"socials"`
	} `json:"nonprofits"`
	Page json.Number `json:"page"`
}

// Search returns charities matching the term that can receive EVM transfers.
// Entries without an on-chain address are dropped.
func (c *Client) Search(ctx context.Context, term string) ([]Wallet, error) {
	endpoint := fmt.Sprintf("%s/api/v1/nonprofits?public_key=%s&search_term=%s",
		c.baseURL, url.QueryEscape(c.apiKey), url.QueryEscape(term))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch charity wallets: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("charity API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed nonprofitResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode charity API response: %w", err)
	}

	wallets := make([]Wallet, 0, len(parsed.Nonprofits))
	for _, n := range parsed.Nonprofits {
		if n.Crypto.EthereumAddress == "" {
			continue
		}
		symbol := n.Socials.Twitter
		if symbol == "" {
			symbol = n.Socials.Instagram
		}
		if symbol == "" {
			symbol = n.Socials.Facebook
		}
		if symbol == "" {
			symbol = initials(n.Name)
		}
		wallets = append(wallets, Wallet{
			Address:  n.Crypto.EthereumAddress,
			Symbol:   symbol,
			Name:     n.Name,
			Logo:     n.IconURL,
			Mission:  n.Mission,
			Category: n.Category,
		})
	}
	return wallets, nil
}

// initials abbreviates a charity name from its capital letters.
func initials(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsUpper(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
