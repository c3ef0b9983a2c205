package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"pennywise/internal/amqp"
	"pennywise/internal/core"
	"pennywise/internal/store"
)

// ProfileService manages the per-user single records: monthly income and the
// savings goal. Writes fan out export requests for the current month.
type ProfileService struct {
	incomes   store.IncomeWriter
	goals     store.GoalWriter
	publisher ExportPublisher
	now       func() time.Time
}

func NewProfileService(incomes store.IncomeWriter, goals store.GoalWriter, publisher ExportPublisher) *ProfileService {
	return &ProfileService{
		incomes:   incomes,
		goals:     goals,
		publisher: publisher,
		now:       time.Now,
	}
}

// SetIncome replaces the user's monthly income.
func (s *ProfileService) SetIncome(ctx context.Context, income core.Income) error {
	income.UpdatedAt = s.now().UTC()
	if err := s.incomes.SetIncome(ctx, income); err != nil {
		return fmt.Errorf("save income: %w", err)
	}

	s.publish(ctx, income.UserID, amqp.ReasonIncomeUpdated)
	return nil
}

// SetGoal replaces the user's savings goal.
func (s *ProfileService) SetGoal(ctx context.Context, goal core.SavingsGoal) error {
	if err := s.goals.SetGoal(ctx, goal); err != nil {
		return fmt.Errorf("save goal: %w", err)
	}

	s.publish(ctx, goal.UserID, amqp.ReasonGoalUpdated)
	return nil
}

// DeleteGoal removes the user's savings goal.
func (s *ProfileService) DeleteGoal(ctx context.Context, userID uuid.UUID) error {
	if err := s.goals.DeleteGoal(ctx, userID); err != nil {
		if err == store.ErrNotFound {
			return err
		}
		return fmt.Errorf("delete goal: %w", err)
	}

	s.publish(ctx, userID, amqp.ReasonGoalUpdated)
	return nil
}

func (s *ProfileService) publish(ctx context.Context, userID uuid.UUID, reason string) {
	if s.publisher == nil {
		slog.DebugContext(ctx, "Export publisher not configured, skipping event", "reason", reason)
		return
	}
	month := core.MonthOf(s.now())
	if err := s.publisher.PublishExportRequest(ctx, userID.String(), month.String(), reason); err != nil {
		slog.ErrorContext(ctx, "Failed to publish export request",
			"user_id", userID,
			"month", month,
			"reason", reason,
			"error", err)
	}
}
