package export

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"
)

// SheetsWriter implements RowWriter using the Google Sheets API. Each
// tracked wallet gets its own sheet named after its address.
type SheetsWriter struct {
	spreadsheetID string
	svc           *sheets.Service
}

// NewSheetsWriter creates a SheetsWriter authenticated with a service account JSON.
func NewSheetsWriter(ctx context.Context, spreadsheetID, credentialsJSON string) (*SheetsWriter, error) {
	creds, err := google.CredentialsFromJSON(
		ctx,
		[]byte(credentialsJSON),
		sheets.SpreadsheetsScope,
	)
	if err != nil {
		return nil, fmt.Errorf("parsing google credentials: %w", err)
	}

	svc, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	return &SheetsWriter{spreadsheetID: spreadsheetID, svc: svc}, nil
}

var sheetHeader = []any{"Date", "Total Value (USD)", "Daily Change (USD)", "Daily Change (%)", "Holdings"}

// Append ensures the wallet's sheet exists, writes the header row if the
// sheet is empty, then appends one data row.
func (w *SheetsWriter) Append(ctx context.Context, wallet string, row HistoryRow) error {
	if err := w.ensureSheet(ctx, wallet); err != nil {
		return fmt.Errorf("ensuring sheet for %s: %w", wallet, err)
	}

	existing, err := w.svc.Spreadsheets.Values.Get(
		w.spreadsheetID, fmt.Sprintf("%s!A1:A1", wallet),
	).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("reading sheet header: %w", err)
	}

	if len(existing.Values) == 0 {
		_, err = w.svc.Spreadsheets.Values.Update(
			w.spreadsheetID,
			fmt.Sprintf("%s!A1", wallet),
			&sheets.ValueRange{Values: [][]any{sheetHeader}},
		).ValueInputOption("USER_ENTERED").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("writing sheet header: %w", err)
		}
	}

	dataRow := []any{
		row.Date.UTC().Format("2006-01-02"),
		toFloat(row.TotalValue),
		toFloat(row.DailyChangeAbs),
		toFloat(row.DailyChangePct),
		row.Holdings,
	}

	_, err = w.svc.Spreadsheets.Values.Append(
		w.spreadsheetID,
		fmt.Sprintf("%s!A:E", wallet),
		&sheets.ValueRange{Values: [][]any{dataRow}},
	).ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("appending history row: %w", err)
	}

	return nil
}

// ensureSheet creates the named sheet if it does not already exist.
func (w *SheetsWriter) ensureSheet(ctx context.Context, name string) error {
	spreadsheet, err := w.svc.Spreadsheets.Get(w.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("getting spreadsheet metadata: %w", err)
	}

	for _, s := range spreadsheet.Sheets {
		if s.Properties.Title == name {
			return nil
		}
	}

	_, err = w.svc.Spreadsheets.BatchUpdate(
		w.spreadsheetID,
		&sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{Title: name},
				},
			}},
		},
	).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}

	return nil
}
