package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/lazorvault/vaultd/internal/domain"
)

// Service resolves pricing tables with a short-lived cache in front of the
// configured source.
type Service struct {
	source Source
	cache  *entryCache
}

// NewService creates a pricing Service over the given source. A non-positive
// ttl selects the default of 30 seconds.
func NewService(source Source, ttl time.Duration) *Service {
	return &Service{
		source: source,
		cache:  newEntryCache(ttl),
	}
}

// Table returns a pricing table covering as many of the requested mints as
// the source knows. Cached entries are served without touching the source;
// only the cache misses are fetched.
func (s *Service) Table(ctx context.Context, mints ...string) (map[string]domain.PricingEntry, error) {
	table := make(map[string]domain.PricingEntry, len(mints))

	var missing []string
	for _, mint := range mints {
		if entry, ok := s.cache.get(mint); ok {
			table[mint] = entry
			continue
		}
		missing = append(missing, mint)
	}

	if len(missing) == 0 {
		return table, nil
	}

	entries, err := s.source.Entries(ctx, missing...)
	if err != nil {
		return nil, fmt.Errorf("fetching pricing entries: %w", err)
	}
	for _, entry := range entries {
		s.cache.set(entry.Mint, entry)
		table[entry.Mint] = entry
	}

	return table, nil
}
