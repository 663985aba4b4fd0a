package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Holding is one token balance in a wallet, as delivered by a holdings
// provider. Balance stays a decimal string end to end; USDValue is always
// recomputed from Balance and Price before it is shown or summed.
type Holding struct {
	Mint      string          `json:"mint"`
	Symbol    string          `json:"symbol"`
	Name      string          `json:"name"`
	Icon      string          `json:"icon,omitempty"`
	Balance   string          `json:"balance"`
	Price     decimal.Decimal `json:"price"`
	USDValue  decimal.Decimal `json:"usdValue"`
	Change24h decimal.Decimal `json:"change24h"`
}

// PortfolioSummary aggregates a wallet's holdings into headline figures.
// DegenerateBase marks summaries where the previous-day base value was zero
// or undefined, in which case the change figures are reported as zero.
type PortfolioSummary struct {
	TotalValue       decimal.Decimal `json:"totalValue"`
	PreviousDayValue decimal.Decimal `json:"previousDayValue"`
	DailyChangeAbs   decimal.Decimal `json:"dailyChangeAbs"`
	DailyChangePct   decimal.Decimal `json:"dailyChangePct"`
	DegenerateBase   bool            `json:"degenerateBase,omitempty"`
}

// WalletPortfolio is a fully valued portfolio for one wallet.
type WalletPortfolio struct {
	Wallet      string           `json:"wallet"`
	Holdings    []Holding        `json:"holdings"`
	Summary     PortfolioSummary `json:"summary"`
	GeneratedAt time.Time        `json:"generatedAt"`
}
