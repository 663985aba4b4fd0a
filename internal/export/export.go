// Package export writes wallet valuation history to spreadsheets:
// XLSX workbooks for offline reports and a Google Sheet for continuous
// monitoring of tracked wallets.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/lazorvault/vaultd/internal/domain"
	"github.com/lazorvault/vaultd/internal/snapshot"
)

// HistoryRow is one day of valuation history for a wallet.
type HistoryRow struct {
	Date           time.Time
	TotalValue     decimal.Decimal
	DailyChangeAbs decimal.Decimal
	DailyChangePct decimal.Decimal
	Holdings       int
}

// RowWriter appends a single history row to a monitoring destination.
type RowWriter interface {
	Append(ctx context.Context, wallet string, row HistoryRow) error
}

// Service builds valuation history rows from snapshots and delegates
// writing to a RowWriter.
type Service struct {
	snapshots snapshot.Repository
	writer    RowWriter
}

// NewService creates a new export Service. The writer may be nil when no
// monitoring destination is configured; Export then becomes a no-op.
func NewService(snapshots snapshot.Repository, writer RowWriter) *Service {
	return &Service{snapshots: snapshots, writer: writer}
}

// Export appends one history row for a freshly generated portfolio.
// Implements worker.AfterSnapshotHook.
func (s *Service) Export(ctx context.Context, p domain.WalletPortfolio) error {
	if s.writer == nil {
		return nil
	}
	return s.writer.Append(ctx, p.Wallet, rowFromPortfolio(p))
}

// History loads up to limit stored snapshots for the wallet and converts
// them to rows, oldest first. Snapshots with unreadable data are skipped.
func (s *Service) History(ctx context.Context, wallet string, limit int) ([]HistoryRow, error) {
	snaps, err := s.snapshots.List(ctx, wallet, limit)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots for %s: %w", wallet, err)
	}

	rows := lo.FilterMap(snaps, func(s snapshot.Snapshot, _ int) (HistoryRow, bool) {
		return rowFromSnapshot(s)
	})

	// List returns newest first; reports read oldest first.
	return lo.Reverse(rows), nil
}

func rowFromPortfolio(p domain.WalletPortfolio) HistoryRow {
	return HistoryRow{
		Date:           p.GeneratedAt,
		TotalValue:     p.Summary.TotalValue,
		DailyChangeAbs: p.Summary.DailyChangeAbs,
		DailyChangePct: p.Summary.DailyChangePct,
		Holdings:       len(p.Holdings),
	}
}

func rowFromSnapshot(s snapshot.Snapshot) (HistoryRow, bool) {
	var p domain.WalletPortfolio
	if err := json.Unmarshal(s.Data, &p); err != nil {
		return HistoryRow{}, false
	}
	row := rowFromPortfolio(p)
	row.Date = s.SnapshotDate
	return row, true
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
