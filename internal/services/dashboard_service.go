// Package services orchestrates store access around the pure core: fetch,
// aggregate, convert for display, and publish export events.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"pennywise/internal/core"
	"pennywise/internal/store"
)

// Overview bundles the monthly summary with the goal projection, all amounts
// already converted to the requested display currency.
type Overview struct {
	Summary  core.MonthlySummary
	Goal     *core.GoalProgress // nil when the user has no goal
	Currency core.Currency
}

// DashboardService computes per-request dashboard overviews. It holds no
// state beyond its collaborators; every call recomputes from the store.
type DashboardService struct {
	incomes  store.IncomeReader
	expenses store.ExpenseLister
	goals    store.GoalReader
	now      func() time.Time
}

func NewDashboardService(incomes store.IncomeReader, expenses store.ExpenseLister, goals store.GoalReader) *DashboardService {
	return &DashboardService{
		incomes:  incomes,
		expenses: expenses,
		goals:    goals,
		now:      time.Now,
	}
}

// Overview fetches the user's records for the target month and the month
// before it, aggregates them, projects the savings goal, and converts the
// result to the display currency.
func (s *DashboardService) Overview(ctx context.Context, userID uuid.UUID, month core.Month, display core.Currency) (*Overview, error) {
	var (
		income   *core.Income
		current  []core.Expense
		previous []core.Expense
		goal     *core.SavingsGoal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		income, err = s.incomes.IncomeByUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("fetch income: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		current, err = s.expenses.ListExpenses(gctx, userID, month)
		if err != nil {
			return fmt.Errorf("fetch current month expenses: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		previous, err = s.expenses.ListExpenses(gctx, userID, month.Prev())
		if err != nil {
			return fmt.Errorf("fetch previous month expenses: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		goal, err = s.goals.GoalByUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("fetch goal: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := core.Aggregate(income, current, previous, month)
	progress := core.ComputeGoalProgress(goal, summary.NetSavings, s.now())

	// Records are nominally in one working currency per user; conversion
	// happens only here, for display.
	working := workingCurrency(income, current, display)
	return &Overview{
		Summary:  convertSummary(summary, working, display),
		Goal:     convertProgress(progress, working, display),
		Currency: display,
	}, nil
}

// workingCurrency picks the currency the user's records are kept in: the
// income's currency when present, otherwise the first expense's, otherwise
// the display currency (nothing to convert anyway).
func workingCurrency(income *core.Income, expenses []core.Expense, display core.Currency) core.Currency {
	if income != nil {
		return income.Currency
	}
	if len(expenses) > 0 {
		return expenses[0].Currency
	}
	return display
}

func convertSummary(s core.MonthlySummary, from, to core.Currency) core.MonthlySummary {
	if from == to {
		return s
	}
	s.IncomeAmount = core.Convert(s.IncomeAmount, from, to)
	s.TotalExpenses = core.Convert(s.TotalExpenses, from, to)
	s.HighestAmount = core.Convert(s.HighestAmount, from, to)
	s.NetSavings = core.Convert(s.NetSavings, from, to)
	s.SavingsTrend = core.Convert(s.SavingsTrend, from, to)

	converted := make([]core.CategoryAmount, len(s.ByCategory))
	for i, ca := range s.ByCategory {
		converted[i] = core.CategoryAmount{
			Category: ca.Category,
			Amount:   core.Convert(ca.Amount, from, to),
		}
	}
	s.ByCategory = converted
	return s
}

func convertProgress(p *core.GoalProgress, from, to core.Currency) *core.GoalProgress {
	if p == nil || from == to {
		return p
	}
	out := *p
	out.SavedAmount = core.Convert(p.SavedAmount, from, to)
	out.TargetAmount = core.Convert(p.TargetAmount, from, to)
	out.MonthlySavingsNeeded = core.Convert(p.MonthlySavingsNeeded, from, to)
	return &out
}
