package charity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchResponse = `{
  "nonprofits": [
    {
      "name": "Ocean Cleanup Fund",
      "icon_url": "https://example.org/ocean.png",
      "mission": "Removing plastic from the oceans.",
      "category": "environment",
      "crypto": {"ethereum_address": "0x9e84fe006aa1c290f4cbcd78be32131cbf52cb23"},
      "socials": {"twitter": "oceancleanup"}
    },
    {
      "name": "No Wallet Org",
      "crypto": {"ethereum_address": ""},
      "socials": {}
    },
    {
      "name": "Paws For Hope",
      "category": "animals",
      "crypto": {"ethereum_address": "0x1111111111111111111111111111111111111111"},
      "socials": {}
    }
  ],
  "page": 1
}`

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/nonprofits", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("public_key"))
		assert.Equal(t, "ocean", r.URL.Query().Get("search_term"))
		w.Write([]byte(searchResponse))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key")
	wallets, err := client.Search(context.Background(), "ocean")
	require.NoError(t, err)

	// the entry without an on-chain wallet is dropped
	require.Len(t, wallets, 2)

	assert.Equal(t, "Ocean Cleanup Fund", wallets[0].Name)
	assert.Equal(t, "0x9e84fe006aa1c290f4cbcd78be32131cbf52cb23", wallets[0].Address)
	assert.Equal(t, "oceancleanup", wallets[0].Symbol)

	// no socials: symbol falls back to the name's initials
	assert.Equal(t, "PFH", wallets[1].Symbol)
}

func TestSearchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "bad-key")
	wallets, err := client.Search(context.Background(), "ocean")
	assert.Nil(t, wallets)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestSearchBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key")
	_, err := client.Search(context.Background(), "")
	assert.Error(t, err)
}
