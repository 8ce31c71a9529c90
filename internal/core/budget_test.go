package core

import "testing"

func expense(categoryID, cents int64) Transaction {
	return Transaction{
		CategoryID:  categoryID,
		Kind:        KindDespesa,
		Amount:      Money{Cents: cents},
		Date:        NewDate(2024, 6, 10),
		Description: "t",
	}
}

func TestCategoryTotals(t *testing.T) {
	cats := []Category{
		{ID: 1, Name: "Mercado", Kind: KindDespesa, MonthlyBudgetLimit: Money{Cents: 50000}},
		{ID: 2, Name: "Transporte", Kind: KindDespesa},
		{ID: 3, Name: "Salário", Kind: KindReceita},
	}
	exps := []Transaction{
		expense(1, 30000),
		expense(1, 25000),
		expense(9, 1200), // unknown category
	}

	out := CategoryTotals(cats, exps)
	if len(out) != 3 { // two expense categories plus uncategorized
		t.Fatalf("expected 3 rows, got %d", len(out))
	}

	mercado := out[0]
	if mercado.SpentTotal.Cents != 55000 {
		t.Fatalf("spent = %d, want 55000", mercado.SpentTotal.Cents)
	}
	if mercado.UtilizationPercent != 100 {
		t.Fatalf("utilization = %v, want capped 100", mercado.UtilizationPercent)
	}
	if mercado.RawPercent <= 100 {
		t.Fatalf("raw percent should keep the uncapped ratio, got %v", mercado.RawPercent)
	}
	if mercado.Class != BudgetOverLimit {
		t.Fatalf("class = %s, want over_limit", mercado.Class)
	}
	if mercado.Exceeded.Cents != 5000 {
		t.Fatalf("exceeded = %d, want 5000", mercado.Exceeded.Cents)
	}

	transporte := out[1]
	if transporte.SpentTotal.Cents != 0 {
		t.Fatalf("empty category should report zero, got %d", transporte.SpentTotal.Cents)
	}
	if transporte.HasLimit {
		t.Fatalf("category without limit should not classify")
	}

	uncat := out[2]
	if !uncat.Uncategorized || uncat.SpentTotal.Cents != 1200 {
		t.Fatalf("uncategorized bucket = %+v", uncat)
	}

	// Sum over known categories must equal the sum of attributable expenses.
	var knownSum int64
	for _, cs := range out {
		if !cs.Uncategorized {
			knownSum += cs.SpentTotal.Cents
		}
	}
	if knownSum != 55000 {
		t.Fatalf("known sum = %d, want 55000", knownSum)
	}
}

func TestBudgetClassificationThresholds(t *testing.T) {
	cat := Category{ID: 1, Name: "Lazer", Kind: KindDespesa, MonthlyBudgetLimit: Money{Cents: 10000}}

	cases := []struct {
		name  string
		spent int64
		class BudgetClass
	}{
		{"zero", 0, BudgetOK},
		{"just under 80%", 7999, BudgetOK},
		{"exactly 80%", 8000, BudgetNearLimit},
		{"just under limit", 9999, BudgetNearLimit},
		{"exactly at limit", 10000, BudgetOverLimit},
		{"over limit", 10001, BudgetOverLimit},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := CategoryTotals([]Category{cat}, []Transaction{expense(1, tc.spent)})
			if tc.spent == 0 {
				out = CategoryTotals([]Category{cat}, nil)
			}
			if out[0].Class != tc.class {
				t.Fatalf("spent %d: class = %s, want %s", tc.spent, out[0].Class, tc.class)
			}
		})
	}
}

func TestBudgetClassificationMonotonic(t *testing.T) {
	cat := Category{ID: 1, Name: "Contas", Kind: KindDespesa, MonthlyBudgetLimit: Money{Cents: 10000}}
	rank := map[BudgetClass]int{BudgetOK: 0, BudgetNearLimit: 1, BudgetOverLimit: 2}

	prev := -1
	for spent := int64(0); spent <= 12000; spent += 500 {
		var exps []Transaction
		if spent > 0 {
			exps = []Transaction{expense(1, spent)}
		}
		class := CategoryTotals([]Category{cat}, exps)[0].Class
		if rank[class] < prev {
			t.Fatalf("classification regressed at spent=%d: %s", spent, class)
		}
		prev = rank[class]
	}
}

func TestCategoryTotalsIgnoresIncomeCategories(t *testing.T) {
	cats := []Category{{ID: 3, Name: "Salário", Kind: KindReceita}}
	out := CategoryTotals(cats, []Transaction{expense(3, 100)})
	// An expense pointing at an income category counts as uncategorized.
	if len(out) != 1 || !out[0].Uncategorized {
		t.Fatalf("expected single uncategorized row, got %+v", out)
	}
}
