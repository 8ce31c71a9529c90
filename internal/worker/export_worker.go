package worker

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"poupabem/internal/core"
	"poupabem/internal/services"
)

// ExportStore enumerates the users whose reports get exported.
type ExportStore interface {
	ListUserIDs(ctx context.Context) ([]int64, error)
}

// EvolutionExporter writes a monthly evolution report to an external sink.
// *export.SheetsExporter satisfies it.
type EvolutionExporter interface {
	ExportEvolution(ctx context.Context, buckets []core.MonthBucket) error
}

// ExportWorker periodically pushes the combined monthly evolution of all
// users to the configured spreadsheet.
type ExportWorker struct {
	store    ExportStore
	reports  *services.ReportService
	exporter EvolutionExporter
	interval time.Duration
}

func NewExportWorker(store ExportStore, reports *services.ReportService, exporter EvolutionExporter, interval time.Duration) *ExportWorker {
	return &ExportWorker{store: store, reports: reports, exporter: exporter, interval: interval}
}

// RunExportLoop exports immediately and then on every tick until the context
// is cancelled.
func (w *ExportWorker) RunExportLoop(ctx context.Context) {
	w.export(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Export loop stopped", "reason", ctx.Err())
			return
		case <-ticker.C:
			w.export(ctx)
		}
	}
}

func (w *ExportWorker) export(ctx context.Context) {
	userIDs, err := w.store.ListUserIDs(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Export failed listing users", "error", err)
		return
	}

	var all [][]core.MonthBucket
	for _, id := range userIDs {
		buckets, err := w.reports.EvolutionReport(ctx, id, core.Date{}, core.Date{})
		if err != nil {
			slog.ErrorContext(ctx, "Export failed computing evolution", "error", err, "user_id", id)
			return
		}
		all = append(all, buckets)
	}

	merged := mergeEvolutions(all)
	if err := w.exporter.ExportEvolution(ctx, merged); err != nil {
		slog.ErrorContext(ctx, "Export failed writing spreadsheet", "error", err)
		return
	}
	slog.InfoContext(ctx, "Evolution export completed", "users", len(userIDs), "months", len(merged))
}

// mergeEvolutions sums per-user month buckets into a single series ordered
// by month.
func mergeEvolutions(all [][]core.MonthBucket) []core.MonthBucket {
	byMonth := make(map[string]core.MonthBucket)
	for _, buckets := range all {
		for _, b := range buckets {
			m := byMonth[b.Month]
			m.Month = b.Month
			m.IncomeTotal.Cents += b.IncomeTotal.Cents
			m.ExpenseTotal.Cents += b.ExpenseTotal.Cents
			byMonth[b.Month] = m
		}
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	merged := make([]core.MonthBucket, 0, len(months))
	for _, m := range months {
		merged = append(merged, byMonth[m])
	}
	return merged
}
