// Package export pushes the monthly evolution report to a Google
// Spreadsheet so it can be shared outside the app. The feature is optional
// and only enabled when a spreadsheet id is configured.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"poupabem/internal/core"
)

type SheetsExporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// NewSheetsExporter creates an exporter authenticated with a service
// account. Credentials come from GOOGLE_SERVICE_ACCOUNT_JSON,
// GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_APPLICATION_CREDENTIALS.
func NewSheetsExporter(ctx context.Context, spreadsheetID, sheetName string) (*SheetsExporter, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &SheetsExporter{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case serviceAccountJSON != "":
		return gsheet.NewService(ctx,
			goption.WithCredentialsJSON([]byte(serviceAccountJSON)),
			goption.WithScopes(gsheet.SpreadsheetsScope))
	case serviceAccountFile != "":
		return gsheet.NewService(ctx,
			goption.WithCredentialsFile(serviceAccountFile),
			goption.WithScopes(gsheet.SpreadsheetsScope))
	}
	return nil, errors.New("no service account credentials configured")
}

// ExportEvolution replaces the sheet's contents with the report rows.
func (e *SheetsExporter) ExportEvolution(ctx context.Context, buckets []core.MonthBucket) error {
	clearRange := fmt.Sprintf("%s!A:C", e.sheetName)
	if _, err := e.svc.Spreadsheets.Values.Clear(e.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear sheet: %w", err)
	}

	values := &gsheet.ValueRange{Values: evolutionRows(buckets)}
	_, err := e.svc.Spreadsheets.Values.Update(e.spreadsheetID, fmt.Sprintf("%s!A1", e.sheetName), values).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("write sheet: %w", err)
	}

	slog.InfoContext(ctx, "Evolution report exported",
		"spreadsheet_id", e.spreadsheetID,
		"sheet", e.sheetName,
		"months", len(buckets))
	return nil
}

// evolutionRows renders the report as sheet rows: a header plus one row per
// month, amounts formatted as BRL strings.
func evolutionRows(buckets []core.MonthBucket) [][]any {
	rows := make([][]any, 0, len(buckets)+1)
	rows = append(rows, []any{"Mês", "Receitas", "Despesas"})
	for _, b := range buckets {
		rows = append(rows, []any{b.Month, b.IncomeTotal.FormatBRL(), b.ExpenseTotal.FormatBRL()})
	}
	return rows
}
