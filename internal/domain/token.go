package domain

import "github.com/shopspring/decimal"

// Token describes a known SPL token tradable through the service.
type Token struct {
	Mint     string `json:"mint"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Icon     string `json:"icon,omitempty"`
	Decimals int    `json:"decimals"`
}

// Well-known mint addresses.
const (
	SOLMint  = "So11111111111111111111111111111111111111112"
	USDCMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	ETHMint  = "7vfCXTUXx5WJV5JADk17DUJ4ksgau7utNKj4b963voxs"
	BONKMint = "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263"
	MSOLMint = "mSoLzYCxHdYgdzU16g5QSh3i5K3z3KZK7ytfqcJm7So"
)

// tokenRegistry is unexported to prevent external mutation.
var tokenRegistry = []Token{
	{Mint: SOLMint, Symbol: "SOL", Name: "Solana", Decimals: 9},
	{Mint: USDCMint, Symbol: "USDC", Name: "USD Coin", Decimals: 6},
	{Mint: ETHMint, Symbol: "ETH", Name: "Ethereum (Wormhole)", Decimals: 8},
	{Mint: BONKMint, Symbol: "BONK", Name: "Bonk", Decimals: 5},
	{Mint: MSOLMint, Symbol: "mSOL", Name: "Marinade staked SOL", Decimals: 9},
}

// referencePrices holds the fallback USD unit prices used when no live feed
// has stored anything yet.
var referencePrices = map[string]decimal.Decimal{
	SOLMint:  decimal.RequireFromString("100.5"),
	USDCMint: decimal.RequireFromString("1.0"),
	ETHMint:  decimal.RequireFromString("3502.5"),
	BONKMint: decimal.RequireFromString("0.00001234"),
	MSOLMint: decimal.RequireFromString("101.2"),
}

// TokenRegistry returns the set of known tokens.
func TokenRegistry() []Token {
	out := make([]Token, len(tokenRegistry))
	copy(out, tokenRegistry)
	return out
}

// TokenByMint looks up a known token by its mint address.
// Returns the token and true if found, zero value and false otherwise.
func TokenByMint(mint string) (Token, bool) {
	for _, t := range tokenRegistry {
		if t.Mint == mint {
			return t, true
		}
	}
	return Token{}, false
}

// ReferencePrice returns the fallback USD price for a known mint.
func ReferencePrice(mint string) (decimal.Decimal, bool) {
	p, ok := referencePrices[mint]
	return p, ok
}
