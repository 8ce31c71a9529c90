package core

import (
	"testing"
	"time"
)

func TestTransactionValidate(t *testing.T) {
	today := NewDate(2024, 6, 15)
	good := Transaction{
		CategoryID:  1,
		Kind:        KindDespesa,
		Amount:      Money{Cents: 100},
		Date:        NewDate(2024, 6, 10),
		Description: "padaria",
	}
	if err := good.Validate(today); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Transaction)
		want   error
	}{
		{"future date", func(tx *Transaction) { tx.Date = NewDate(2024, 6, 16) }, ErrFutureDate},
		{"zero amount", func(tx *Transaction) { tx.Amount = Money{} }, ErrInvalidAmount},
		{"negative amount", func(tx *Transaction) { tx.Amount = Money{Cents: -1} }, ErrInvalidAmount},
		{"empty description", func(tx *Transaction) { tx.Description = "  " }, ErrEmptyDescription},
		{"bad kind", func(tx *Transaction) { tx.Kind = "outro" }, ErrInvalidKind},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := good
			tc.mutate(&tx)
			if err := tx.Validate(today); err != tc.want {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestTransactionDatedTodayIsValid(t *testing.T) {
	today := NewDate(2024, 6, 15)
	tx := Transaction{Kind: KindReceita, Amount: Money{Cents: 1}, Date: today, Description: "salário"}
	if err := tx.Validate(today); err != nil {
		t.Fatalf("transaction dated today must be accepted: %v", err)
	}
}

func TestCategoryValidate(t *testing.T) {
	good := Category{Name: "Mercado", Kind: KindDespesa, MonthlyBudgetLimit: Money{Cents: 10000}}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bads := []Category{
		{Name: "", Kind: KindDespesa},
		{Name: "X", Kind: "renda"},
		{Name: "X", Kind: KindDespesa, MonthlyBudgetLimit: Money{Cents: -5}},
	}
	for i, c := range bads {
		if err := c.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestGoalValidate(t *testing.T) {
	good := Goal{
		Title:        "Reserva",
		TargetAmount: Money{Cents: 100000},
		StartDate:    NewDate(2024, 1, 1),
		EndDate:      NewDate(2024, 12, 31),
		Kind:         GoalGeral,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	inverted := good
	inverted.StartDate, inverted.EndDate = inverted.EndDate, inverted.StartDate
	if err := inverted.Validate(); err != ErrInvalidPeriod {
		t.Fatalf("inverted period: got %v, want %v", err, ErrInvalidPeriod)
	}

	sameDay := good
	sameDay.EndDate = sameDay.StartDate
	if err := sameDay.Validate(); err != nil {
		t.Fatalf("single-day window must be valid: %v", err)
	}

	catGoal := good
	catGoal.Kind = GoalCategoria
	if err := catGoal.Validate(); err != ErrMissingCategory {
		t.Fatalf("category goal without category: got %v", err)
	}
	catGoal.CategoryID = 3
	if err := catGoal.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
}

func TestDateHelpers(t *testing.T) {
	d := DateOf(time.Date(2024, 6, 15, 23, 59, 58, 0, time.Local))
	if !d.Equal(NewDate(2024, 6, 15)) {
		t.Fatalf("DateOf should truncate time of day, got %v", d)
	}
	if got := d.MonthKey(); got != "2024-06" {
		t.Fatalf("MonthKey = %q", got)
	}
}
