package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"pennywise/internal/core"
)

// ErrNotFound is returned when a record does not exist. The HTTP layer maps
// it to a 404.
var ErrNotFound = errors.New("record not found")

// Ports for record storage backends. The aggregation core never sees these;
// callers fetch through them and hand immutable snapshots to core.
type (
	IncomeReader interface {
		// IncomeByUser returns the user's active income, or nil when none
		// is recorded. Absence is not an error.
		IncomeByUser(ctx context.Context, userID uuid.UUID) (*core.Income, error)
	}

	IncomeWriter interface {
		// SetIncome creates or replaces the user's single income record.
		SetIncome(ctx context.Context, income core.Income) error
	}

	ExpenseLister interface {
		// ListExpenses returns the user's expenses whose date falls in the
		// given calendar month.
		ListExpenses(ctx context.Context, userID uuid.UUID, month core.Month) ([]core.Expense, error)
	}

	ExpenseWriter interface {
		// AddExpense stores a new expense and returns its assigned ID.
		AddExpense(ctx context.Context, e core.Expense) (uuid.UUID, error)
	}

	ExpenseDeleter interface {
		// DeleteExpense removes the expense and returns the removed record
		// so the caller knows which month was affected.
		DeleteExpense(ctx context.Context, userID, id uuid.UUID) (core.Expense, error)
	}

	GoalReader interface {
		// GoalByUser returns the user's savings goal, or nil when none is
		// set. Absence is not an error.
		GoalByUser(ctx context.Context, userID uuid.UUID) (*core.SavingsGoal, error)
	}

	GoalWriter interface {
		// SetGoal creates or replaces the user's single savings goal.
		SetGoal(ctx context.Context, goal core.SavingsGoal) error
		DeleteGoal(ctx context.Context, userID uuid.UUID) error
	}

	UserLister interface {
		// ListUsers returns every user with at least one record. Used by the
		// periodic export sweep.
		ListUsers(ctx context.Context) ([]uuid.UUID, error)
	}
)

// RecordStore is the full backend surface a deployment must provide.
type RecordStore interface {
	IncomeReader
	IncomeWriter
	ExpenseLister
	ExpenseWriter
	ExpenseDeleter
	GoalReader
	GoalWriter
	UserLister
}
