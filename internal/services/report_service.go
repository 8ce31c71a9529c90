package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"poupabem/internal/core"
)

// ReportStore is the storage surface the report service reads from.
type ReportStore interface {
	ListCategories(ctx context.Context, userID int64) ([]core.Category, error)
	ListTransactions(ctx context.Context, userID int64, kind core.TransactionKind) ([]core.Transaction, error)
	ListTransactionsByPeriod(ctx context.Context, userID int64, kind core.TransactionKind, start, end core.Date) ([]core.Transaction, error)
}

// ReportService computes the aggregation views: per-category budget
// utilization and the monthly income/expense evolution. Reports are
// recomputed from stored transactions on every call.
type ReportService struct {
	store ReportStore
}

func NewReportService(store ReportStore) *ReportService {
	return &ReportService{store: store}
}

// BudgetReport returns per-category spending for the calendar month
// containing ref, with budget utilization where a limit is set. Categories
// and expenses are fetched concurrently.
func (s *ReportService) BudgetReport(ctx context.Context, userID int64, ref core.Date) ([]core.CategorySpend, error) {
	first, last := core.MonthBounds(ref)

	var (
		categories []core.Category
		expenses   []core.Transaction
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = s.store.ListCategories(ctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = s.store.ListTransactionsByPeriod(ctx, userID, core.KindDespesa, first, last)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("budget report: %w", err)
	}

	return core.CategoryTotals(categories, expenses), nil
}

// EvolutionReport returns the month-by-month income and expense totals for
// the period. A zero start and end means the user's full history.
func (s *ReportService) EvolutionReport(ctx context.Context, userID int64, start, end core.Date) ([]core.MonthBucket, error) {
	var (
		expenses []core.Transaction
		incomes  []core.Transaction
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = s.listForPeriod(ctx, userID, core.KindDespesa, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		incomes, err = s.listForPeriod(ctx, userID, core.KindReceita, start, end)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("evolution report: %w", err)
	}

	return core.MonthlyEvolution(expenses, incomes), nil
}

func (s *ReportService) listForPeriod(ctx context.Context, userID int64, kind core.TransactionKind, start, end core.Date) ([]core.Transaction, error) {
	if start.IsZero() && end.IsZero() {
		return s.store.ListTransactions(ctx, userID, kind)
	}
	return s.store.ListTransactionsByPeriod(ctx, userID, kind, start, end)
}
