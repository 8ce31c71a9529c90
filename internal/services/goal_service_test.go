package services

import (
	"context"
	"testing"

	"poupabem/internal/core"
)

func TestGoalService_RefreshProgress(t *testing.T) {
	window := func(g *core.Goal) {
		g.StartDate = core.NewDate(2024, 1, 1)
		g.EndDate = core.NewDate(2024, 12, 31)
	}
	categoryGoal := core.Goal{ID: 1, UserID: 1, Title: "Gastar pouco com transporte",
		TargetAmount: core.Money{Cents: 100000}, Kind: core.GoalCategoria, CategoryID: 3}
	window(&categoryGoal)
	incomeGoal := core.Goal{ID: 2, UserID: 1, Title: "Renda extra",
		TargetAmount: core.Money{Cents: 200000}, Kind: core.GoalReceita}
	window(&incomeGoal)
	manualGoal := core.Goal{ID: 3, UserID: 1, Title: "Reserva",
		CurrentAmount: core.Money{Cents: 77700}, TargetAmount: core.Money{Cents: 500000}, Kind: core.GoalGeral}
	window(&manualGoal)

	store := &fakeStore{
		goals: []core.Goal{categoryGoal, incomeGoal, manualGoal},
		transactions: []core.Transaction{
			{Kind: core.KindDespesa, CategoryID: 3, Amount: core.Money{Cents: 40000}, Date: core.NewDate(2024, 3, 1)},
			{Kind: core.KindDespesa, CategoryID: 9, Amount: core.Money{Cents: 99999}, Date: core.NewDate(2024, 3, 2)},
			{Kind: core.KindReceita, Amount: core.Money{Cents: 150000}, Date: core.NewDate(2024, 4, 1)},
			// Outside every goal window.
			{Kind: core.KindReceita, Amount: core.Money{Cents: 900000}, Date: core.NewDate(2023, 4, 1)},
		},
	}
	svc := NewGoalService(store)

	goals, err := svc.RefreshProgress(context.Background(), 1)
	if err != nil {
		t.Fatalf("RefreshProgress() error = %v", err)
	}
	if len(goals) != 3 {
		t.Fatalf("RefreshProgress() returned %d goals, want 3", len(goals))
	}

	if goals[0].CurrentAmount.Cents != 40000 {
		t.Errorf("category goal amount = %d, want 40000", goals[0].CurrentAmount.Cents)
	}
	if goals[1].CurrentAmount.Cents != 150000 {
		t.Errorf("income goal amount = %d, want 150000", goals[1].CurrentAmount.Cents)
	}
	if goals[2].CurrentAmount.Cents != 77700 {
		t.Errorf("manual goal amount = %d, want untouched 77700", goals[2].CurrentAmount.Cents)
	}

	if _, ok := store.updatedAmounts[3]; ok {
		t.Error("geral goal should not be persisted by RefreshProgress")
	}
	if got := store.updatedAmounts[1]; got.Cents != 40000 {
		t.Errorf("persisted amount for goal 1 = %d, want 40000", got.Cents)
	}
}

func TestGoalService_Overview(t *testing.T) {
	store := &fakeStore{
		goals: []core.Goal{
			{ID: 1, Title: "Teto de gastos", CurrentAmount: core.Money{Cents: 0},
				TargetAmount: core.Money{Cents: 100000}, Kind: core.GoalDespesa,
				StartDate: core.NewDate(2030, 1, 1), EndDate: core.NewDate(2030, 12, 31)},
			{ID: 2, Title: "Juntar dinheiro", CurrentAmount: core.Money{Cents: 50000},
				TargetAmount: core.Money{Cents: 100000}, Kind: core.GoalGeral,
				StartDate: core.NewDate(2030, 1, 1), EndDate: core.NewDate(2030, 12, 31)},
		},
	}
	svc := NewGoalService(store)

	achieved, inProgress, err := svc.Overview(context.Background(), 1)
	if err != nil {
		t.Fatalf("Overview() error = %v", err)
	}
	// A spending ceiling with nothing spent is already met.
	if len(achieved) != 1 || achieved[0].Goal.ID != 1 {
		t.Errorf("achieved = %+v, want goal 1 only", achieved)
	}
	if len(inProgress) != 1 || inProgress[0].Goal.ID != 2 {
		t.Errorf("inProgress = %+v, want goal 2 only", inProgress)
	}
	if inProgress[0].Progress.Percent != 50 {
		t.Errorf("geral goal percent = %v, want 50", inProgress[0].Progress.Percent)
	}
}
