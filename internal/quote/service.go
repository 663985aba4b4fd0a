package quote

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lazorvault/vaultd/internal/domain"
)

// LiveQuoter fetches quotes from an external aggregator. Its result
// supersedes the local calculator when available.
type LiveQuoter interface {
	GetQuote(ctx context.Context, req domain.TradeRequest) (domain.Quote, error)
}

// PricingSource supplies the pricing table used by the local calculator.
type PricingSource interface {
	Table(ctx context.Context, mints ...string) (map[string]domain.PricingEntry, error)
}

// Service resolves trade requests into quotes. The live aggregator is the
// preferred path; the local calculator is the fallback/estimate path.
type Service struct {
	calc    *Calculator
	pricing PricingSource
	live    LiveQuoter // optional
}

// NewService creates a quote Service. The live quoter may be nil, in which
// case every quote is computed locally.
func NewService(calc *Calculator, pricing PricingSource, live LiveQuoter) *Service {
	return &Service{calc: calc, pricing: pricing, live: live}
}

// GetQuote returns a quote for the request. The request is validated before
// any path runs, so validation sentinels are final even when a permissive
// upstream would have answered. Live-path failures fall back to the local
// estimate.
func (s *Service) GetQuote(ctx context.Context, req domain.TradeRequest) (domain.Quote, error) {
	if err := ValidateRequest(req); err != nil {
		return domain.Quote{}, err
	}

	if s.live != nil {
		q, err := s.live.GetQuote(ctx, req)
		if err == nil {
			q.Source = "live"
			return q, nil
		}
		slog.Warn("live quote failed, falling back to local estimate",
			"source", req.SourceMint, "destination", req.DestinationMint, "error", err)
	}

	pricing, err := s.pricing.Table(ctx, req.SourceMint, req.DestinationMint)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("loading pricing table: %w", err)
	}

	return s.calc.Calculate(pricing, req)
}
