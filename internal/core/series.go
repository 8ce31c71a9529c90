package core

import "sort"

// MonthBucket is one point of the income/expense evolution chart.
type MonthBucket struct {
	Month        string
	IncomeTotal  Money
	ExpenseTotal Money
}

// MonthlyEvolution buckets the supplied transactions into calendar months
// keyed by the transaction date (never its creation timestamp) and returns
// one bucket per distinct month touched by either series, sorted ascending.
// A month present in only one series still appears, with the missing side
// at zero.
func MonthlyEvolution(expenses, incomes []Transaction) []MonthBucket {
	expenseByMonth := make(map[string]int64)
	incomeByMonth := make(map[string]int64)
	for _, t := range expenses {
		expenseByMonth[t.Date.MonthKey()] += t.Amount.Cents
	}
	for _, t := range incomes {
		incomeByMonth[t.Date.MonthKey()] += t.Amount.Cents
	}

	keys := make([]string, 0, len(expenseByMonth)+len(incomeByMonth))
	for k := range expenseByMonth {
		keys = append(keys, k)
	}
	for k := range incomeByMonth {
		if _, dup := expenseByMonth[k]; !dup {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out := make([]MonthBucket, len(keys))
	for i, k := range keys {
		out[i] = MonthBucket{
			Month:        k,
			IncomeTotal:  Money{Cents: incomeByMonth[k]},
			ExpenseTotal: Money{Cents: expenseByMonth[k]},
		}
	}
	return out
}
