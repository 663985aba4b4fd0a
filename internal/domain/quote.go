package domain

import "github.com/shopspring/decimal"

// DefaultSlippageBps is applied when a trade request carries no explicit
// slippage tolerance. 50 bps = 0.5%.
const DefaultSlippageBps = 50

// MaxSlippageBps is the upper bound for slippage tolerance (100%).
const MaxSlippageBps = 10000

// DefaultFeeRate is the swap fee applied to the gross output amount.
var DefaultFeeRate = decimal.RequireFromString("0.005")

// PricingEntry is one token's quote-relevant data.
type PricingEntry struct {
	Mint   string          `json:"mint"`
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
}

// TradeRequest describes a hypothetical token-for-token trade.
type TradeRequest struct {
	SourceMint      string          `json:"sourceMint"`
	DestinationMint string          `json:"destinationMint"`
	InputAmount     decimal.Decimal `json:"inputAmount"`
	SlippageBps     int             `json:"slippageBps"`
}

// Quote is the computed result of a trade request. Rate is units of the
// destination token per one unit of the source token. SlippageBps is carried
// through for the caller; it does not reduce NetOutputAmount.
type Quote struct {
	SourceMint        string          `json:"sourceMint"`
	DestinationMint   string          `json:"destinationMint"`
	InputAmount       decimal.Decimal `json:"inputAmount"`
	Rate              decimal.Decimal `json:"rate"`
	GrossOutputAmount decimal.Decimal `json:"grossOutputAmount"`
	Fee               decimal.Decimal `json:"fee"`
	NetOutputAmount   decimal.Decimal `json:"netOutputAmount"`
	FeeRate           decimal.Decimal `json:"feeRate"`
	SlippageBps       int             `json:"slippageBps"`
	Source            string          `json:"source"` // "local" or "live"
}
