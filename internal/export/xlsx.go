package export

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const historySheet = "HISTORY"

// WriteReport renders the wallet's valuation history to an XLSX workbook
// at path. Up to limit snapshots are included, oldest first.
func (s *Service) WriteReport(ctx context.Context, wallet, path string, limit int) error {
	rows, err := s.History(ctx, wallet, limit)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", historySheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9EAD3"}},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	header := []any{"Date", "Total Value (USD)", "Daily Change (USD)", "Daily Change (%)", "Holdings"}
	if err := f.SetSheetRow(historySheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := f.SetCellStyle(historySheet, "A1", "E1", headerStyle); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		values := []any{
			row.Date.UTC().Format("2006-01-02"),
			toFloat(row.TotalValue),
			toFloat(row.DailyChangeAbs),
			toFloat(row.DailyChangePct),
			row.Holdings,
		}
		if err := f.SetSheetRow(historySheet, cell, &values); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(historySheet, "A", "E", 18); err != nil {
		return fmt.Errorf("setting column widths: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}
