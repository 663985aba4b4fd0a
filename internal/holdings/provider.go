package holdings

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/lazorvault/vaultd/internal/domain"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func mustRef(mint string) decimal.Decimal {
	p, _ := domain.ReferencePrice(mint)
	return p
}

// Provider supplies the holdings of a wallet. A fetch failure is an error,
// never an empty list: callers must not mistake "no data" for "no holdings".
type Provider interface {
	Fetch(ctx context.Context, wallet string) ([]domain.Holding, error)
}

// StaticProvider serves a fixed demo dataset for every wallet. It is used
// when no indexer endpoint is configured.
type StaticProvider struct{}

func (StaticProvider) Fetch(_ context.Context, _ string) ([]domain.Holding, error) {
	return demoHoldings(), nil
}

func demoHoldings() []domain.Holding {
	sol, _ := domain.TokenByMint(domain.SOLMint)
	usdc, _ := domain.TokenByMint(domain.USDCMint)
	eth, _ := domain.TokenByMint(domain.ETHMint)

	return []domain.Holding{
		{
			Mint:      sol.Mint,
			Symbol:    sol.Symbol,
			Name:      sol.Name,
			Balance:   "1.5",
			Price:     mustRef(sol.Mint),
			Change24h: dec("2.3"),
		},
		{
			Mint:      usdc.Mint,
			Symbol:    usdc.Symbol,
			Name:      usdc.Name,
			Balance:   "200.45",
			Price:     mustRef(usdc.Mint),
			Change24h: dec("0.01"),
		},
		{
			Mint:      eth.Mint,
			Symbol:    eth.Symbol,
			Name:      eth.Name,
			Balance:   "0.1",
			Price:     mustRef(eth.Mint),
			Change24h: dec("-1.2"),
		},
	}
}
