package core

// GoalProgress is the derived state of a goal: a display percentage capped
// at 100 and the met flag whose direction depends on the goal kind.
type GoalProgress struct {
	Percent float64
	Met     bool
}

// EvaluateGoal computes progress and completion for a goal.
//
// Spending-limit kinds ("despesa", "categoria") succeed by staying at or
// under the target, so they start met at zero spend and break by
// overspending. Accumulation kinds ("geral", "receita") succeed by reaching
// the target. A zero target is degenerate: progress 0, unmet, regardless of
// the current amount.
func EvaluateGoal(g Goal) GoalProgress {
	if g.TargetAmount.Cents <= 0 {
		return GoalProgress{}
	}
	p := GoalProgress{
		Percent: float64(g.CurrentAmount.Cents) / float64(g.TargetAmount.Cents) * 100,
	}
	if p.Percent > 100 {
		p.Percent = 100
	}
	if g.Kind.SpendingLimit() {
		p.Met = g.CurrentAmount.Cents <= g.TargetAmount.Cents
	} else {
		p.Met = g.CurrentAmount.Cents >= g.TargetAmount.Cents
	}
	return p
}

// PartitionGoals splits goals into achieved and in-progress for display.
// There is no expired state: a goal past its end date is still reported by
// the met/unmet flag alone.
func PartitionGoals(goals []Goal) (achieved, inProgress []Goal) {
	for _, g := range goals {
		if EvaluateGoal(g).Met {
			achieved = append(achieved, g)
		} else {
			inProgress = append(inProgress, g)
		}
	}
	return achieved, inProgress
}

// GoalWindowTotal sums the transaction amounts attributable to the goal
// within its [StartDate, EndDate] window. Which transactions count depends
// on the kind: "categoria" counts expenses of the goal's category,
// "despesa" counts all expenses, "receita" and "geral" count incomes.
func GoalWindowTotal(g Goal, expenses, incomes []Transaction) Money {
	var pool []Transaction
	switch g.Kind {
	case GoalCategoria:
		for _, t := range expenses {
			if t.CategoryID == g.CategoryID {
				pool = append(pool, t)
			}
		}
	case GoalDespesa:
		pool = expenses
	default:
		pool = incomes
	}

	var total int64
	for _, t := range FilterPeriod(pool, g.StartDate, g.EndDate) {
		total += t.Amount.Cents
	}
	return Money{Cents: total}
}
