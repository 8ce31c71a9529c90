package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"poupabem/internal/core"
)

// GoalStore is the storage surface the goal service needs.
type GoalStore interface {
	ListGoals(ctx context.Context, userID int64) ([]core.Goal, error)
	ListTransactions(ctx context.Context, userID int64, kind core.TransactionKind) ([]core.Transaction, error)
	UpdateGoalCurrentAmount(ctx context.Context, userID, id int64, amount core.Money) error
}

// GoalStatus pairs a goal with its derived progress.
type GoalStatus struct {
	Goal     core.Goal
	Progress core.GoalProgress
}

// GoalService keeps goal progress in sync with the transaction history.
// Transaction-backed kinds ("categoria", "despesa", "receita") have their
// current amount recomputed from the goal window; "geral" goals are updated
// manually by the user and are left alone.
type GoalService struct {
	store GoalStore
}

func NewGoalService(store GoalStore) *GoalService {
	return &GoalService{store: store}
}

// RefreshProgress recomputes the current amount of every transaction-backed
// goal and persists changed values. It returns the goals with fresh amounts.
func (s *GoalService) RefreshProgress(ctx context.Context, userID int64) ([]core.Goal, error) {
	goals, err := s.store.ListGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	if len(goals) == 0 {
		return nil, nil
	}

	var (
		expenses []core.Transaction
		incomes  []core.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = s.store.ListTransactions(gctx, userID, core.KindDespesa)
		return err
	})
	g.Go(func() error {
		var err error
		incomes, err = s.store.ListTransactions(gctx, userID, core.KindReceita)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	for i := range goals {
		if goals[i].Kind == core.GoalGeral {
			continue
		}
		total := core.GoalWindowTotal(goals[i], expenses, incomes)
		if total == goals[i].CurrentAmount {
			continue
		}
		if err := s.store.UpdateGoalCurrentAmount(ctx, userID, goals[i].ID, total); err != nil {
			return nil, fmt.Errorf("update goal %d progress: %w", goals[i].ID, err)
		}
		goals[i].CurrentAmount = total
	}

	return goals, nil
}

// Overview refreshes progress and splits the goals into achieved and
// in-progress, each with its evaluated progress attached.
func (s *GoalService) Overview(ctx context.Context, userID int64) (achieved, inProgress []GoalStatus, err error) {
	goals, err := s.RefreshProgress(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	for _, g := range goals {
		status := GoalStatus{Goal: g, Progress: core.EvaluateGoal(g)}
		if status.Progress.Met {
			achieved = append(achieved, status)
		} else {
			inProgress = append(inProgress, status)
		}
	}
	return achieved, inProgress, nil
}
