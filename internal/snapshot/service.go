package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lazorvault/vaultd/internal/domain"
)

// PortfolioService produces the live portfolio valuation to be stored.
type PortfolioService interface {
	GetPortfolio(ctx context.Context, wallet string) (domain.WalletPortfolio, error)
}

// Service manages snapshot generation and retrieval.
type Service struct {
	portfolio PortfolioService
	repo      Repository
}

// NewService creates a new snapshot Service.
func NewService(portfolio PortfolioService, repo Repository) *Service {
	return &Service{portfolio: portfolio, repo: repo}
}

// Generate values the wallet's portfolio and stores it under the given date.
// Re-generating for an existing date overwrites that day's snapshot.
func (s *Service) Generate(ctx context.Context, wallet string, date time.Time) (domain.WalletPortfolio, error) {
	walletID, err := s.repo.EnsureWallet(ctx, wallet, "")
	if err != nil {
		return domain.WalletPortfolio{}, fmt.Errorf("ensuring wallet: %w", err)
	}

	p, err := s.portfolio.GetPortfolio(ctx, wallet)
	if err != nil {
		return domain.WalletPortfolio{}, fmt.Errorf("valuing portfolio: %w", err)
	}

	data, err := json.Marshal(p)
	if err != nil {
		return domain.WalletPortfolio{}, fmt.Errorf("marshaling portfolio: %w", err)
	}

	if err := s.repo.Save(ctx, walletID, date, data); err != nil {
		return domain.WalletPortfolio{}, fmt.Errorf("saving snapshot: %w", err)
	}

	return p, nil
}

// GetLatest retrieves the most recent snapshot for the wallet.
func (s *Service) GetLatest(ctx context.Context, wallet string) (*Snapshot, error) {
	return s.repo.GetLatest(ctx, wallet)
}

// GetByDate retrieves a snapshot for a specific date.
func (s *Service) GetByDate(ctx context.Context, wallet string, date time.Time) (*Snapshot, error) {
	return s.repo.GetByDate(ctx, wallet, date)
}

// List retrieves recent snapshots.
func (s *Service) List(ctx context.Context, wallet string, limit int) ([]Snapshot, error) {
	return s.repo.List(ctx, wallet, limit)
}
