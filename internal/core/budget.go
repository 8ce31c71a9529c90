package core

const (
	BudgetOK        BudgetClass = "ok"
	BudgetNearLimit BudgetClass = "near_limit"
	BudgetOverLimit BudgetClass = "over_limit"
)

// nearLimitPercent is the utilization threshold at which a budget stops
// being "ok".
const nearLimitPercent = 80.0

// UncategorizedName labels the synthetic bucket that collects expenses whose
// category is not present in the supplied list.
const UncategorizedName = "Sem categoria"

type (
	BudgetClass string

	// CategorySpend is the per-category aggregation output: total spent in
	// the period plus budget utilization when a monthly limit is set.
	CategorySpend struct {
		CategoryID int64
		Name       string
		SpentTotal Money
		Limit      Money
		HasLimit   bool
		// UtilizationPercent is capped at 100 for display; RawPercent keeps
		// the uncapped ratio for exceeded-amount reporting.
		UtilizationPercent float64
		RawPercent         float64
		Exceeded           Money
		Class              BudgetClass
		// Uncategorized marks the synthetic bucket for expenses whose
		// category id was not found.
		Uncategorized bool
	}
)

// CategoryTotals computes, for every expense category, the total spent in
// the supplied expense list, plus budget utilization where a monthly limit
// is set. Expenses referencing an unknown category are collected into a
// synthetic uncategorized bucket appended last rather than dropped.
//
// The expense list is expected to be scoped to the relevant period already
// (the current calendar month for budget purposes). The computation is pure.
func CategoryTotals(categories []Category, expenses []Transaction) []CategorySpend {
	spent := make(map[int64]int64, len(categories))
	known := make(map[int64]bool, len(categories))
	for _, c := range categories {
		if c.Kind == KindDespesa {
			known[c.ID] = true
		}
	}

	var uncategorized int64
	hasUncategorized := false
	for _, t := range expenses {
		if !known[t.CategoryID] {
			uncategorized += t.Amount.Cents
			hasUncategorized = true
			continue
		}
		spent[t.CategoryID] += t.Amount.Cents
	}

	out := make([]CategorySpend, 0, len(categories)+1)
	for _, c := range categories {
		if c.Kind != KindDespesa {
			continue
		}
		out = append(out, classifySpend(c, Money{Cents: spent[c.ID]}))
	}
	if hasUncategorized {
		out = append(out, CategorySpend{
			Name:          UncategorizedName,
			SpentTotal:    Money{Cents: uncategorized},
			Uncategorized: true,
		})
	}
	return out
}

func classifySpend(c Category, total Money) CategorySpend {
	cs := CategorySpend{
		CategoryID: c.ID,
		Name:       c.Name,
		SpentTotal: total,
		Limit:      c.MonthlyBudgetLimit,
	}
	if c.MonthlyBudgetLimit.Cents <= 0 {
		return cs
	}
	cs.HasLimit = true
	cs.RawPercent = float64(total.Cents) / float64(c.MonthlyBudgetLimit.Cents) * 100
	cs.UtilizationPercent = cs.RawPercent
	if cs.UtilizationPercent > 100 {
		cs.UtilizationPercent = 100
	}
	switch {
	case total.Cents >= c.MonthlyBudgetLimit.Cents:
		cs.Class = BudgetOverLimit
		cs.Exceeded = Money{Cents: total.Cents - c.MonthlyBudgetLimit.Cents}
	case cs.RawPercent >= nearLimitPercent:
		cs.Class = BudgetNearLimit
	default:
		cs.Class = BudgetOK
	}
	return cs
}
