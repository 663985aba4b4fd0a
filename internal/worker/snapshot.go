package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/lazorvault/vaultd/internal/domain"
)

// SnapshotGenerator defines the interface for generating wallet snapshots.
type SnapshotGenerator interface {
	Generate(ctx context.Context, wallet string, date time.Time) (domain.WalletPortfolio, error)
}

// AfterSnapshotHook is called after each successful snapshot generation.
type AfterSnapshotHook interface {
	Export(ctx context.Context, p domain.WalletPortfolio) error
}

// SnapshotWorker periodically snapshots a set of tracked wallets.
type SnapshotWorker struct {
	generator SnapshotGenerator
	wallets   []string
	interval  time.Duration
	hook      AfterSnapshotHook // optional
}

// NewSnapshotWorker creates a new SnapshotWorker with an optional
// post-generation hook.
func NewSnapshotWorker(generator SnapshotGenerator, wallets []string, interval time.Duration, hook AfterSnapshotHook) *SnapshotWorker {
	return &SnapshotWorker{
		generator: generator,
		wallets:   wallets,
		interval:  interval,
		hook:      hook,
	}
}

// utcDate returns the current date normalized to midnight UTC.
func utcDate() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (w *SnapshotWorker) generateAll(ctx context.Context) {
	date := utcDate()
	for _, wallet := range w.wallets {
		p, err := w.generator.Generate(ctx, wallet, date)
		if err != nil {
			slog.Error("SnapshotWorker: generation failed", "wallet", wallet, "error", err)
			continue
		}
		slog.Info("SnapshotWorker: generation completed", "wallet", wallet)
		if w.hook == nil {
			continue
		}
		if err := w.hook.Export(ctx, p); err != nil {
			slog.Error("SnapshotWorker: export hook failed", "wallet", wallet, "error", err)
		} else {
			slog.Info("SnapshotWorker: export hook completed", "wallet", wallet)
		}
	}
}

// Run starts the snapshot worker loop. It blocks until the context is cancelled.
func (w *SnapshotWorker) Run(ctx context.Context) {
	slog.Info("SnapshotWorker: starting", "wallets", len(w.wallets))

	// Generate immediately on startup
	w.generateAll(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("SnapshotWorker: shutting down")
			return
		case <-ticker.C:
			w.generateAll(ctx)
		}
	}
}
