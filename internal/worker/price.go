package worker

import (
	"context"
	"log/slog"
	"time"
)

// PriceFetcher defines the interface for fetching and storing external prices.
type PriceFetcher interface {
	FetchAndStoreQuotes(ctx context.Context) error
}

// PriceWorker periodically refreshes the stored USD prices.
type PriceWorker struct {
	fetcher  PriceFetcher
	interval time.Duration
}

// NewPriceWorker creates a new PriceWorker.
func NewPriceWorker(fetcher PriceFetcher, interval time.Duration) *PriceWorker {
	return &PriceWorker{
		fetcher:  fetcher,
		interval: interval,
	}
}

// Run starts the price worker loop. It blocks until the context is cancelled.
func (w *PriceWorker) Run(ctx context.Context) {
	slog.Info("PriceWorker: starting")

	// Fetch immediately on startup
	if err := w.fetcher.FetchAndStoreQuotes(ctx); err != nil {
		slog.Error("PriceWorker: initial fetch failed", "error", err)
	} else {
		slog.Info("PriceWorker: initial fetch completed")
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("PriceWorker: shutting down")
			return
		case <-ticker.C:
			if err := w.fetcher.FetchAndStoreQuotes(ctx); err != nil {
				slog.Error("PriceWorker: fetch failed", "error", err)
			} else {
				slog.Info("PriceWorker: fetch completed")
			}
		}
	}
}
