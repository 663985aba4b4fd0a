package portfolio

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/lazorvault/vaultd/internal/domain"
	"github.com/lazorvault/vaultd/internal/holdings"
	"github.com/lazorvault/vaultd/internal/valuation"
)

// Service turns raw wallet holdings into fully valued portfolios.
type Service struct {
	provider holdings.Provider
	now      func() time.Time
}

// NewService creates a new portfolio Service.
func NewService(provider holdings.Provider) *Service {
	return &Service{provider: provider, now: time.Now}
}

// GetPortfolio fetches a wallet's holdings, recomputes every USD value from
// balance and price, and summarizes the result. A provider failure is
// returned as an error, never as an empty portfolio.
func (s *Service) GetPortfolio(ctx context.Context, wallet string) (domain.WalletPortfolio, error) {
	raw, err := s.provider.Fetch(ctx, wallet)
	if err != nil {
		return domain.WalletPortfolio{}, fmt.Errorf("fetching holdings for %s: %w", wallet, err)
	}

	summary, err := valuation.Summarize(raw)
	if err != nil {
		return domain.WalletPortfolio{}, fmt.Errorf("summarizing portfolio for %s: %w", wallet, err)
	}

	valued := lo.Map(raw, func(h domain.Holding, _ int) domain.Holding {
		// Summarize validated the balance already; recompute the displayed
		// value from the same pair so it can never disagree with the total.
		h.USDValue = domain.SafeParse(h.Balance).Mul(h.Price)
		if h.Symbol == "" || h.Name == "" {
			if token, ok := domain.TokenByMint(h.Mint); ok {
				if h.Symbol == "" {
					h.Symbol = token.Symbol
				}
				if h.Name == "" {
					h.Name = token.Name
				}
			}
		}
		return h
	})

	return domain.WalletPortfolio{
		Wallet:      wallet,
		Holdings:    valued,
		Summary:     summary,
		GeneratedAt: s.now().UTC(),
	}, nil
}
