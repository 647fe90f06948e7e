package tokens

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// NativeSymbol is the chain's native coin as typed on the command line.
const NativeSymbol = "BNB"

// Token describes one tradeable asset. The native coin uses the zero
// address.
type Token struct {
	Symbol   string
	Name     string
	Address  common.Address
	Decimals uint8
	Native   bool
}

// Native is the chain's native coin.
var Native = Token{Symbol: NativeSymbol, Name: "Binance Coin", Decimals: 18, Native: true}

// DefaultList is the built-in token registry used to resolve symbols typed
// on the command line; any other token can be addressed directly by its
// contract address.
func DefaultList() []Token {
	return []Token{
		Native,
		{Symbol: "PAWTH", Name: "Pawthereum", Address: common.HexToAddress("0x5aBD80b8108f90c8525a183547D6ecc004112C22"), Decimals: 9},
		{Symbol: "WBNB", Name: "Wrapped BNB", Address: common.HexToAddress("0xae13d989dac2f0debff460ac112a837c89baa7cd"), Decimals: 18},
		{Symbol: "BUSD", Name: "Binance USD", Address: common.HexToAddress("0xe9e7CEA3DedcA5984780Bafc599bD69ADd087D56"), Decimals: 18},
		{Symbol: "USDT", Name: "Tether USD", Address: common.HexToAddress("0x55d398326f99059fF775485246999027B3197955"), Decimals: 18},
		{Symbol: "DAI", Name: "Dai Stablecoin", Address: common.HexToAddress("0x1AF3F329e8BE154074D8769D1FFa4eE058B1DBc3"), Decimals: 18},
		{Symbol: "ETH", Name: "Ethereum", Address: common.HexToAddress("0x2170Ed0880ac9A755fd29B2688956BD959F933F8"), Decimals: 18},
	}
}

// Resolve maps a typed symbol or a 0x contract address to a Token. Tokens
// referenced by raw address come back without metadata; the caller fills
// symbol and decimals from the chain.
func Resolve(s string) (Token, error) {
	s = strings.TrimSpace(s)
	if common.IsHexAddress(s) {
		addr := common.HexToAddress(s)
		return Token{Symbol: shortAddress(addr), Address: addr}, nil
	}
	upper := strings.ToUpper(s)
	for _, t := range DefaultList() {
		if t.Symbol == upper {
			return t, nil
		}
	}
	return Token{}, fmt.Errorf("unknown token %q (use a contract address or one of the built-in symbols)", s)
}

func shortAddress(addr common.Address) string {
	hex := addr.Hex()
	return hex[:6] + "…" + hex[len(hex)-4:]
}
