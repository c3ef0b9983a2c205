// Package worker recomputes monthly summaries from the record store and
// exports them to a spreadsheet, driven by AMQP export requests with a
// periodic sweep as backup.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"pennywise/internal/amqp"
	"pennywise/internal/core"
	"pennywise/internal/export"
	"pennywise/internal/store"
)

type Store interface {
	store.IncomeReader
	store.ExpenseLister
	store.UserLister
}

// ExportWorker turns export requests into appended summary rows. Summaries
// are always recomputed from the store at export time, so a burst of
// requests for the same month is merely redundant, never wrong.
type ExportWorker struct {
	store    Store
	appender export.SummaryAppender
}

func NewExportWorker(st Store, appender export.SummaryAppender) *ExportWorker {
	return &ExportWorker{
		store:    st,
		appender: appender,
	}
}

// HandleExportRequest processes a single export request from AMQP.
func (w *ExportWorker) HandleExportRequest(ctx context.Context, msg *amqp.ExportRequestMessage) error {
	slog.InfoContext(ctx, "Processing export request",
		"user_id", msg.UserID,
		"month", msg.Month,
		"reason", msg.Reason)

	userID, err := uuid.Parse(msg.UserID)
	if err != nil {
		return fmt.Errorf("parse user id %q: %w", msg.UserID, err)
	}
	month, err := core.ParseMonth(msg.Month)
	if err != nil {
		return fmt.Errorf("parse month %q: %w", msg.Month, err)
	}

	return w.exportMonth(ctx, userID, month)
}

// SweepCurrentMonth re-exports the current month for every known user. Run
// periodically to recover from lost AMQP messages or worker downtime.
func (w *ExportWorker) SweepCurrentMonth(ctx context.Context, month core.Month) error {
	users, err := w.store.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	if len(users) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Sweeping monthly summaries", "month", month, "users", len(users))

	errorCount := 0
	for _, userID := range users {
		if err := w.exportMonth(ctx, userID, month); err != nil {
			slog.ErrorContext(ctx, "Failed to export summary during sweep",
				"user_id", userID,
				"month", month,
				"error", err)
			errorCount++
		}
	}
	if errorCount > 0 {
		return fmt.Errorf("sweep finished with %d of %d exports failed", errorCount, len(users))
	}
	return nil
}

func (w *ExportWorker) exportMonth(ctx context.Context, userID uuid.UUID, month core.Month) error {
	income, err := w.store.IncomeByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("fetch income: %w", err)
	}
	current, err := w.store.ListExpenses(ctx, userID, month)
	if err != nil {
		return fmt.Errorf("fetch current month expenses: %w", err)
	}
	previous, err := w.store.ListExpenses(ctx, userID, month.Prev())
	if err != nil {
		return fmt.Errorf("fetch previous month expenses: %w", err)
	}

	summary := core.Aggregate(income, current, previous, month)

	ref, err := w.appender.AppendSummary(ctx, userID.String(), summary)
	if err != nil {
		return fmt.Errorf("append summary: %w", err)
	}

	slog.InfoContext(ctx, "Summary exported",
		"user_id", userID,
		"month", month,
		"ref", ref,
		"total_expenses", summary.TotalExpenses,
		"net_savings", summary.NetSavings)
	return nil
}
