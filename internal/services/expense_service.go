package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"pennywise/internal/amqp"
	"pennywise/internal/core"
	"pennywise/internal/store"
)

// ExportPublisher publishes requests to re-export a user's month. Satisfied
// by *amqp.Client; nil disables export events.
type ExportPublisher interface {
	PublishExportRequest(ctx context.Context, userID, month, reason string) error
}

// ExpenseService writes expenses to the store and notifies the export
// pipeline. Export failures never fail the request: the record is saved,
// the periodic sweep will catch up.
type ExpenseService struct {
	writer    store.ExpenseWriter
	deleter   store.ExpenseDeleter
	publisher ExportPublisher
}

func NewExpenseService(writer store.ExpenseWriter, deleter store.ExpenseDeleter, publisher ExportPublisher) *ExpenseService {
	return &ExpenseService{
		writer:    writer,
		deleter:   deleter,
		publisher: publisher,
	}
}

// CreateExpense saves the expense and publishes an export request for its
// month.
func (s *ExpenseService) CreateExpense(ctx context.Context, e core.Expense) (uuid.UUID, error) {
	id, err := s.writer.AddExpense(ctx, e)
	if err != nil {
		return uuid.Nil, fmt.Errorf("save expense: %w", err)
	}

	s.publish(ctx, e.UserID, core.MonthOf(e.Date), amqp.ReasonExpenseCreated)
	return id, nil
}

// DeleteExpense removes the expense and publishes an export request for the
// month it belonged to.
func (s *ExpenseService) DeleteExpense(ctx context.Context, userID, id uuid.UUID) error {
	removed, err := s.deleter.DeleteExpense(ctx, userID, id)
	if err != nil {
		if err == store.ErrNotFound {
			return err
		}
		return fmt.Errorf("delete expense: %w", err)
	}

	s.publish(ctx, userID, core.MonthOf(removed.Date), amqp.ReasonExpenseDeleted)
	return nil
}

func (s *ExpenseService) publish(ctx context.Context, userID uuid.UUID, month core.Month, reason string) {
	if s.publisher == nil {
		slog.DebugContext(ctx, "Export publisher not configured, skipping event", "reason", reason)
		return
	}
	if err := s.publisher.PublishExportRequest(ctx, userID.String(), month.String(), reason); err != nil {
		slog.ErrorContext(ctx, "Failed to publish export request",
			"user_id", userID,
			"month", month,
			"reason", reason,
			"error", err)
	}
}
