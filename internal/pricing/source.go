package pricing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/lazorvault/vaultd/internal/domain"
)

// Source supplies pricing entries for a set of mints. Mints the source does
// not know are omitted from the result, not errors.
type Source interface {
	Entries(ctx context.Context, mints ...string) ([]domain.PricingEntry, error)
}

// RegistrySource serves the static token registry with its reference prices.
type RegistrySource struct{}

// Entries returns pricing entries for the requested mints that exist in the
// token registry.
func (RegistrySource) Entries(_ context.Context, mints ...string) ([]domain.PricingEntry, error) {
	entries := make([]domain.PricingEntry, 0, len(mints))
	for _, mint := range mints {
		token, ok := domain.TokenByMint(mint)
		if !ok {
			continue
		}
		price, ok := domain.ReferencePrice(mint)
		if !ok {
			continue
		}
		entries = append(entries, domain.PricingEntry{
			Mint:   token.Mint,
			Symbol: token.Symbol,
			Price:  price,
		})
	}
	return entries, nil
}

// PriceStore exposes the latest externally fetched USD prices by symbol.
type PriceStore interface {
	LatestPrices(ctx context.Context) (map[string]decimal.Decimal, error)
}

// StoredSource serves prices persisted by the external price feed, falling
// back to the registry reference price for symbols the feed has not covered.
type StoredSource struct {
	store PriceStore
}

// NewStoredSource creates a StoredSource over a price store.
func NewStoredSource(store PriceStore) *StoredSource {
	return &StoredSource{store: store}
}

func (s *StoredSource) Entries(ctx context.Context, mints ...string) ([]domain.PricingEntry, error) {
	stored, err := s.store.LatestPrices(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.PricingEntry, 0, len(mints))
	for _, mint := range mints {
		token, ok := domain.TokenByMint(mint)
		if !ok {
			continue
		}
		price, ok := stored[token.Symbol]
		if !ok {
			if price, ok = domain.ReferencePrice(mint); !ok {
				continue
			}
		}
		entries = append(entries, domain.PricingEntry{
			Mint:   token.Mint,
			Symbol: token.Symbol,
			Price:  price,
		})
	}
	return entries, nil
}
