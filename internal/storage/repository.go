// Package storage implements the record store on SQLite. Amounts are stored
// as exact decimal strings; dates as YYYY-MM-DD text, so the month filter is
// a simple prefix match.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"pennywise/internal/core"
	"pennywise/internal/store"
)

const dateLayout = "2006-01-02"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// IncomeByUser implements store.IncomeReader. A missing row is nil, not an
// error.
func (r *SQLiteRepository) IncomeByUser(ctx context.Context, userID uuid.UUID) (*core.Income, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT amount, currency, updated_at FROM incomes WHERE user_id = ?`,
		userID.String())

	var amount, currency, updatedAt string
	if err := row.Scan(&amount, &currency, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("query income: %w", err)
	}

	amt, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parse income amount %q: %w", amount, err)
	}
	updated, err := time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse income updated_at %q: %w", updatedAt, err)
	}

	return &core.Income{
		UserID:    userID,
		Amount:    amt,
		Currency:  core.Currency(currency),
		UpdatedAt: updated,
	}, nil
}

// SetIncome implements store.IncomeWriter via upsert; the primary key on
// user_id enforces at most one income per user.
func (r *SQLiteRepository) SetIncome(ctx context.Context, income core.Income) error {
	if err := income.Validate(); err != nil {
		return err
	}
	updatedAt := income.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO incomes (user_id, amount, currency, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   amount = excluded.amount,
		   currency = excluded.currency,
		   updated_at = excluded.updated_at`,
		income.UserID.String(), income.Amount.String(), string(income.Currency),
		updatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert income: %w", err)
	}

	slog.InfoContext(ctx, "Income saved",
		"user_id", income.UserID,
		"amount", income.Amount,
		"currency", income.Currency)
	return nil
}

// ListExpenses implements store.ExpenseLister.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, userID uuid.UUID, month core.Month) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, amount, category, date, currency, note
		 FROM expenses
		 WHERE user_id = ? AND date LIKE ?
		 ORDER BY date, rowid`,
		userID.String(), month.String()+"-%")
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		var id, amount, category, date, currency, note string
		if err := rows.Scan(&id, &amount, &category, &date, &currency, &note); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e, err := buildExpense(userID, id, amount, category, date, currency, note)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return out, nil
}

func buildExpense(userID uuid.UUID, id, amount, category, date, currency, note string) (core.Expense, error) {
	expenseID, err := uuid.Parse(id)
	if err != nil {
		return core.Expense{}, fmt.Errorf("parse expense id %q: %w", id, err)
	}
	amt, err := decimal.NewFromString(amount)
	if err != nil {
		return core.Expense{}, fmt.Errorf("parse expense amount %q: %w", amount, err)
	}
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return core.Expense{}, fmt.Errorf("parse expense date %q: %w", date, err)
	}
	return core.Expense{
		ID:       expenseID,
		UserID:   userID,
		Amount:   amt,
		Category: core.Category(category),
		Date:     d,
		Currency: core.Currency(currency),
		Note:     note,
	}, nil
}

// AddExpense implements store.ExpenseWriter. The surrogate key is generated
// here rather than by the database.
func (r *SQLiteRepository) AddExpense(ctx context.Context, e core.Expense) (uuid.UUID, error) {
	if err := e.Validate(); err != nil {
		return uuid.Nil, err
	}
	id := uuid.New()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, user_id, amount, category, date, currency, note)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id.String(), e.UserID.String(), e.Amount.String(), string(e.Category),
		e.Date.Format(dateLayout), string(e.Currency), e.Note)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", id,
		"user_id", e.UserID,
		"amount", e.Amount,
		"category", e.Category,
		"date", e.Date.Format(dateLayout))
	return id, nil
}

// DeleteExpense implements store.ExpenseDeleter. The removed record is read
// back first so the caller learns which month it belonged to.
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, userID, id uuid.UUID) (core.Expense, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Expense{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT amount, category, date, currency, note
		 FROM expenses WHERE id = ? AND user_id = ?`,
		id.String(), userID.String())

	var amount, category, date, currency, note string
	if err := row.Scan(&amount, &category, &date, &currency, &note); err != nil {
		if err == sql.ErrNoRows {
			return core.Expense{}, store.ErrNotFound
		}
		return core.Expense{}, fmt.Errorf("query expense: %w", err)
	}
	removed, err := buildExpense(userID, id.String(), amount, category, date, currency, note)
	if err != nil {
		return core.Expense{}, err
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM expenses WHERE id = ? AND user_id = ?`,
		id.String(), userID.String()); err != nil {
		return core.Expense{}, fmt.Errorf("delete expense: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return core.Expense{}, fmt.Errorf("commit delete: %w", err)
	}

	slog.InfoContext(ctx, "Expense deleted", "id", id, "user_id", userID)
	return removed, nil
}

// GoalByUser implements store.GoalReader. A missing row is nil, not an
// error.
func (r *SQLiteRepository) GoalByUser(ctx context.Context, userID uuid.UUID) (*core.SavingsGoal, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT name, target_amount, deadline, currency FROM savings_goals WHERE user_id = ?`,
		userID.String())

	var name, target, deadline, currency string
	if err := row.Scan(&name, &target, &deadline, &currency); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("query goal: %w", err)
	}

	amt, err := decimal.NewFromString(target)
	if err != nil {
		return nil, fmt.Errorf("parse goal target %q: %w", target, err)
	}
	d, err := time.Parse(dateLayout, deadline)
	if err != nil {
		return nil, fmt.Errorf("parse goal deadline %q: %w", deadline, err)
	}

	return &core.SavingsGoal{
		UserID:       userID,
		Name:         name,
		TargetAmount: amt,
		Deadline:     d,
		Currency:     core.Currency(currency),
	}, nil
}

// SetGoal implements store.GoalWriter via upsert.
func (r *SQLiteRepository) SetGoal(ctx context.Context, goal core.SavingsGoal) error {
	if err := goal.Validate(); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO savings_goals (user_id, name, target_amount, deadline, currency)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   name = excluded.name,
		   target_amount = excluded.target_amount,
		   deadline = excluded.deadline,
		   currency = excluded.currency`,
		goal.UserID.String(), goal.Name, goal.TargetAmount.String(),
		goal.Deadline.Format(dateLayout), string(goal.Currency))
	if err != nil {
		return fmt.Errorf("upsert goal: %w", err)
	}

	slog.InfoContext(ctx, "Savings goal saved",
		"user_id", goal.UserID,
		"target", goal.TargetAmount,
		"deadline", goal.Deadline.Format(dateLayout))
	return nil
}

// ListUsers implements store.UserLister across all three tables.
func (r *SQLiteRepository) ListUsers(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id FROM incomes
		 UNION SELECT user_id FROM expenses
		 UNION SELECT user_id FROM savings_goals`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var out []uuid.UUID
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse user id %q: %w", raw, err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, userID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM savings_goals WHERE user_id = ?`, userID.String())
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

var _ store.RecordStore = (*SQLiteRepository)(nil)
