package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"poupabem/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedUser(t *testing.T, repo *SQLiteRepository, email string) int64 {
	t.Helper()
	id, err := repo.CreateUser(context.Background(), core.User{
		Name:         "Maria",
		Email:        email,
		PasswordHash: "$2a$10$fakehash",
	})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	return id
}

func TestSQLiteRepository_Users(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id := seedUser(t, repo, "maria@example.com")

	u, err := repo.GetUserByEmail(ctx, "maria@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() error = %v", err)
	}
	if u.ID != id || u.Name != "Maria" {
		t.Errorf("GetUserByEmail() = %+v, want id %d name Maria", u, id)
	}

	t.Run("duplicate email", func(t *testing.T) {
		_, err := repo.CreateUser(ctx, core.User{Name: "Outra", Email: "maria@example.com", PasswordHash: "x"})
		if !errors.Is(err, core.ErrDuplicateEmail) {
			t.Errorf("CreateUser() error = %v, want %v", err, core.ErrDuplicateEmail)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		if _, err := repo.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetUserByEmail() error = %v, want %v", err, ErrNotFound)
		}
	})

	t.Run("list ids", func(t *testing.T) {
		second := seedUser(t, repo, "joao@example.com")
		ids, err := repo.ListUserIDs(ctx)
		if err != nil {
			t.Fatalf("ListUserIDs() error = %v", err)
		}
		if len(ids) != 2 || ids[0] != id || ids[1] != second {
			t.Errorf("ListUserIDs() = %v, want [%d %d]", ids, id, second)
		}
	})
}

func TestSQLiteRepository_Categories(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	userID := seedUser(t, repo, "maria@example.com")

	id, err := repo.CreateCategory(ctx, core.Category{
		UserID:             userID,
		Name:               "Alimentação",
		Kind:               core.KindDespesa,
		MonthlyBudgetLimit: core.Money{Cents: 50000},
	})
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}

	c, err := repo.GetCategory(ctx, userID, id)
	if err != nil {
		t.Fatalf("GetCategory() error = %v", err)
	}
	if c.Name != "Alimentação" || c.MonthlyBudgetLimit.Cents != 50000 {
		t.Errorf("GetCategory() = %+v", c)
	}

	c.MonthlyBudgetLimit = core.Money{Cents: 60000}
	if err := repo.UpdateCategory(ctx, *c); err != nil {
		t.Fatalf("UpdateCategory() error = %v", err)
	}

	list, err := repo.ListCategories(ctx, userID)
	if err != nil {
		t.Fatalf("ListCategories() error = %v", err)
	}
	if len(list) != 1 || list[0].MonthlyBudgetLimit.Cents != 60000 {
		t.Errorf("ListCategories() = %+v, want one category with limit 60000", list)
	}

	t.Run("other user cannot see it", func(t *testing.T) {
		otherID := seedUser(t, repo, "joao@example.com")
		if _, err := repo.GetCategory(ctx, otherID, id); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetCategory() error = %v, want %v", err, ErrNotFound)
		}
	})

	if err := repo.DeleteCategory(ctx, userID, id); err != nil {
		t.Fatalf("DeleteCategory() error = %v", err)
	}
	if err := repo.DeleteCategory(ctx, userID, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteCategory() second call error = %v, want %v", err, ErrNotFound)
	}
}

func TestSQLiteRepository_TransactionsByPeriod(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	userID := seedUser(t, repo, "maria@example.com")

	dates := []core.Date{
		core.NewDate(2024, 5, 31),
		core.NewDate(2024, 6, 1),
		core.NewDate(2024, 6, 30),
		core.NewDate(2024, 7, 1),
	}
	for _, d := range dates {
		_, err := repo.CreateTransaction(ctx, core.Transaction{
			UserID:      userID,
			Kind:        core.KindDespesa,
			Amount:      core.Money{Cents: 1000},
			Date:        d,
			Description: "mercado",
		})
		if err != nil {
			t.Fatalf("CreateTransaction() error = %v", err)
		}
	}

	got, err := repo.ListTransactionsByPeriod(ctx, userID, core.KindDespesa,
		core.NewDate(2024, 6, 1), core.NewDate(2024, 6, 30))
	if err != nil {
		t.Fatalf("ListTransactionsByPeriod() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListTransactionsByPeriod() returned %d transactions, want 2", len(got))
	}
	if got[0].Date.String() != "2024-06-01" || got[1].Date.String() != "2024-06-30" {
		t.Errorf("ListTransactionsByPeriod() dates = %s, %s", got[0].Date, got[1].Date)
	}

	t.Run("uncategorized round-trips as zero", func(t *testing.T) {
		if got[0].CategoryID != 0 {
			t.Errorf("CategoryID = %d, want 0", got[0].CategoryID)
		}
	})

	t.Run("sum by kind", func(t *testing.T) {
		total, err := repo.SumTransactions(ctx, userID, core.KindDespesa)
		if err != nil {
			t.Fatalf("SumTransactions() error = %v", err)
		}
		if total.Cents != 4000 {
			t.Errorf("SumTransactions() = %d, want 4000", total.Cents)
		}
	})
}

func TestSQLiteRepository_Goals(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	userID := seedUser(t, repo, "maria@example.com")

	id, err := repo.CreateGoal(ctx, core.Goal{
		UserID:       userID,
		Title:        "Reserva de emergência",
		TargetAmount: core.Money{Cents: 1000000},
		StartDate:    core.NewDate(2024, 1, 1),
		EndDate:      core.NewDate(2024, 12, 31),
		Kind:         core.GoalGeral,
	})
	if err != nil {
		t.Fatalf("CreateGoal() error = %v", err)
	}

	if err := repo.UpdateGoalCurrentAmount(ctx, userID, id, core.Money{Cents: 250000}); err != nil {
		t.Fatalf("UpdateGoalCurrentAmount() error = %v", err)
	}

	g, err := repo.GetGoal(ctx, userID, id)
	if err != nil {
		t.Fatalf("GetGoal() error = %v", err)
	}
	if g.CurrentAmount.Cents != 250000 {
		t.Errorf("CurrentAmount = %d, want 250000", g.CurrentAmount.Cents)
	}
	if g.StartDate.String() != "2024-01-01" || g.EndDate.String() != "2024-12-31" {
		t.Errorf("goal window = %s..%s", g.StartDate, g.EndDate)
	}
	if g.CategoryID != 0 {
		t.Errorf("CategoryID = %d, want 0 for geral goal", g.CategoryID)
	}
}

func TestSQLiteRepository_AlertsDueOn(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	maria := seedUser(t, repo, "maria@example.com")
	joao := seedUser(t, repo, "joao@example.com")

	due := core.NewDate(2024, 6, 15)
	for _, userID := range []int64{maria, joao} {
		_, err := repo.CreateAlert(ctx, core.Alert{
			UserID:      userID,
			Title:       "Conta de luz",
			Description: "Vence hoje",
			AlertDate:   due,
		})
		if err != nil {
			t.Fatalf("CreateAlert() error = %v", err)
		}
	}
	_, err := repo.CreateAlert(ctx, core.Alert{
		UserID:      maria,
		Title:       "IPTU",
		Description: "Parcela 3",
		AlertDate:   core.NewDate(2024, 7, 10),
	})
	if err != nil {
		t.Fatalf("CreateAlert() error = %v", err)
	}

	got, err := repo.ListAlertsDueOn(ctx, due)
	if err != nil {
		t.Fatalf("ListAlertsDueOn() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("ListAlertsDueOn() returned %d alerts, want 2", len(got))
	}

	mine, err := repo.ListAlerts(ctx, maria)
	if err != nil {
		t.Fatalf("ListAlerts() error = %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("ListAlerts() returned %d alerts, want 2", len(mine))
	}
}
