package external

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// Service fetches external USD prices and persists them for the pricing layer.
type Service struct {
	feed *PriceFeedClient
	repo QuoteRepository
}

// NewService creates a new external price service.
func NewService(feed *PriceFeedClient, repo QuoteRepository) *Service {
	return &Service{feed: feed, repo: repo}
}

// FetchAndStoreQuotes fetches all configured prices from the feed and stores
// them in the database.
func (s *Service) FetchAndStoreQuotes(ctx context.Context) error {
	prices, err := s.feed.FetchPrices(ctx)
	if err != nil {
		return fmt.Errorf("fetching external prices: %w", err)
	}

	for symbol, priceInUSD := range prices {
		if err := s.repo.SaveQuote(ctx, symbol, decimal.NewFromFloat(priceInUSD)); err != nil {
			return fmt.Errorf("storing quote for %s: %w", symbol, err)
		}
	}

	return nil
}
