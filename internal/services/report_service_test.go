package services

import (
	"context"
	"errors"
	"testing"

	"poupabem/internal/core"
)

type fakeStore struct {
	categories   []core.Category
	transactions []core.Transaction
	goals        []core.Goal
	alerts       []core.Alert

	updatedAmounts map[int64]core.Money
	listErr        error
}

func (f *fakeStore) ListCategories(ctx context.Context, userID int64) ([]core.Category, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.categories, nil
}

func (f *fakeStore) ListTransactions(ctx context.Context, userID int64, kind core.TransactionKind) ([]core.Transaction, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []core.Transaction
	for _, t := range f.transactions {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) ListTransactionsByPeriod(ctx context.Context, userID int64, kind core.TransactionKind, start, end core.Date) ([]core.Transaction, error) {
	all, err := f.ListTransactions(ctx, userID, kind)
	if err != nil {
		return nil, err
	}
	return core.FilterPeriod(all, start, end), nil
}

func (f *fakeStore) ListGoals(ctx context.Context, userID int64) ([]core.Goal, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.goals, nil
}

func (f *fakeStore) UpdateGoalCurrentAmount(ctx context.Context, userID, id int64, amount core.Money) error {
	if f.updatedAmounts == nil {
		f.updatedAmounts = make(map[int64]core.Money)
	}
	f.updatedAmounts[id] = amount
	return nil
}

func (f *fakeStore) ListAlerts(ctx context.Context, userID int64) ([]core.Alert, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.alerts, nil
}

func (f *fakeStore) ListAlertsDueOn(ctx context.Context, date core.Date) ([]core.Alert, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []core.Alert
	for _, a := range f.alerts {
		if a.AlertDate.Equal(date) {
			out = append(out, a)
		}
	}
	return out, nil
}

func TestReportService_BudgetReport(t *testing.T) {
	ref := core.NewDate(2024, 6, 10)
	store := &fakeStore{
		categories: []core.Category{
			{ID: 1, Name: "Alimentação", Kind: core.KindDespesa, MonthlyBudgetLimit: core.Money{Cents: 50000}},
			{ID: 2, Name: "Salário", Kind: core.KindReceita},
		},
		transactions: []core.Transaction{
			{Kind: core.KindDespesa, CategoryID: 1, Amount: core.Money{Cents: 30000}, Date: core.NewDate(2024, 6, 5), Description: "mercado"},
			{Kind: core.KindDespesa, CategoryID: 1, Amount: core.Money{Cents: 25000}, Date: core.NewDate(2024, 6, 20), Description: "feira"},
			// Previous month stays out of the budget window.
			{Kind: core.KindDespesa, CategoryID: 1, Amount: core.Money{Cents: 99900}, Date: core.NewDate(2024, 5, 30), Description: "antigo"},
		},
	}
	svc := NewReportService(store)

	report, err := svc.BudgetReport(context.Background(), 1, ref)
	if err != nil {
		t.Fatalf("BudgetReport() error = %v", err)
	}
	if len(report) != 1 {
		t.Fatalf("BudgetReport() returned %d rows, want 1", len(report))
	}
	row := report[0]
	if row.SpentTotal.Cents != 55000 {
		t.Errorf("SpentTotal = %d, want 55000", row.SpentTotal.Cents)
	}
	if row.Class != core.BudgetOverLimit {
		t.Errorf("Class = %s, want %s", row.Class, core.BudgetOverLimit)
	}
	if row.UtilizationPercent != 100 {
		t.Errorf("UtilizationPercent = %v, want 100", row.UtilizationPercent)
	}
	if row.Exceeded.Cents != 5000 {
		t.Errorf("Exceeded = %d, want 5000", row.Exceeded.Cents)
	}
}

func TestReportService_BudgetReport_StoreError(t *testing.T) {
	wantErr := errors.New("db gone")
	svc := NewReportService(&fakeStore{listErr: wantErr})

	if _, err := svc.BudgetReport(context.Background(), 1, core.Today()); !errors.Is(err, wantErr) {
		t.Errorf("BudgetReport() error = %v, want wrapped %v", err, wantErr)
	}
}

func TestReportService_EvolutionReport(t *testing.T) {
	store := &fakeStore{
		transactions: []core.Transaction{
			{Kind: core.KindDespesa, Amount: core.Money{Cents: 10000}, Date: core.NewDate(2023, 12, 20)},
			{Kind: core.KindDespesa, Amount: core.Money{Cents: 20000}, Date: core.NewDate(2024, 1, 5)},
			{Kind: core.KindReceita, Amount: core.Money{Cents: 500000}, Date: core.NewDate(2024, 1, 1)},
			{Kind: core.KindReceita, Amount: core.Money{Cents: 500000}, Date: core.NewDate(2024, 2, 1)},
		},
	}
	svc := NewReportService(store)

	t.Run("full history", func(t *testing.T) {
		buckets, err := svc.EvolutionReport(context.Background(), 1, core.Date{}, core.Date{})
		if err != nil {
			t.Fatalf("EvolutionReport() error = %v", err)
		}
		if len(buckets) != 3 {
			t.Fatalf("EvolutionReport() returned %d buckets, want 3", len(buckets))
		}
		if buckets[0].Month != "2023-12" || buckets[2].Month != "2024-02" {
			t.Errorf("bucket order = %s..%s, want 2023-12..2024-02", buckets[0].Month, buckets[2].Month)
		}
		if buckets[0].IncomeTotal.Cents != 0 {
			t.Errorf("2023-12 income = %d, want 0", buckets[0].IncomeTotal.Cents)
		}
	})

	t.Run("bounded period", func(t *testing.T) {
		buckets, err := svc.EvolutionReport(context.Background(), 1,
			core.NewDate(2024, 1, 1), core.NewDate(2024, 1, 31))
		if err != nil {
			t.Fatalf("EvolutionReport() error = %v", err)
		}
		if len(buckets) != 1 || buckets[0].Month != "2024-01" {
			t.Fatalf("EvolutionReport() buckets = %+v, want single 2024-01", buckets)
		}
	})

	t.Run("inverted period is empty", func(t *testing.T) {
		buckets, err := svc.EvolutionReport(context.Background(), 1,
			core.NewDate(2024, 2, 1), core.NewDate(2024, 1, 1))
		if err != nil {
			t.Fatalf("EvolutionReport() error = %v", err)
		}
		if len(buckets) != 0 {
			t.Errorf("EvolutionReport() returned %d buckets, want 0", len(buckets))
		}
	})
}
