package worker

import (
	"testing"

	"poupabem/internal/core"
)

func TestMergeEvolutions(t *testing.T) {
	merged := mergeEvolutions([][]core.MonthBucket{
		{
			{Month: "2024-02", IncomeTotal: core.Money{Cents: 100000}, ExpenseTotal: core.Money{Cents: 40000}},
			{Month: "2024-03", IncomeTotal: core.Money{Cents: 50000}},
		},
		{
			{Month: "2024-01", ExpenseTotal: core.Money{Cents: 2000}},
			{Month: "2024-02", IncomeTotal: core.Money{Cents: 30000}, ExpenseTotal: core.Money{Cents: 10000}},
		},
	})

	if len(merged) != 3 {
		t.Fatalf("len(merged) = %d, want 3", len(merged))
	}
	if merged[0].Month != "2024-01" || merged[1].Month != "2024-02" || merged[2].Month != "2024-03" {
		t.Errorf("months out of order: %v %v %v", merged[0].Month, merged[1].Month, merged[2].Month)
	}
	if merged[1].IncomeTotal.Cents != 130000 || merged[1].ExpenseTotal.Cents != 50000 {
		t.Errorf("2024-02 totals = %d/%d, want 130000/50000", merged[1].IncomeTotal.Cents, merged[1].ExpenseTotal.Cents)
	}
}

func TestMergeEvolutions_Empty(t *testing.T) {
	if merged := mergeEvolutions(nil); len(merged) != 0 {
		t.Errorf("merged = %v, want empty", merged)
	}
}
