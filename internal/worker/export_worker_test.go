package worker

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pennywise/internal/amqp"
	"pennywise/internal/core"
	exportmem "pennywise/internal/export/memory"
	"pennywise/internal/store/memory"
)

func TestHandleExportRequestRecomputesSummary(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	appender := exportmem.New()
	w := NewExportWorker(s, appender)
	user := uuid.New()

	if err := s.SetIncome(ctx, core.Income{
		UserID:   user,
		Amount:   decimal.RequireFromString("3000"),
		Currency: core.EUR,
	}); err != nil {
		t.Fatalf("set income: %v", err)
	}
	if _, err := s.AddExpense(ctx, core.Expense{
		UserID:   user,
		Amount:   decimal.RequireFromString("1200"),
		Category: core.Rent,
		Date:     time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		Currency: core.EUR,
	}); err != nil {
		t.Fatalf("add expense: %v", err)
	}

	msg := &amqp.ExportRequestMessage{
		UserID: user.String(),
		Month:  "2026-06",
		Reason: amqp.ReasonExpenseCreated,
	}
	if err := w.HandleExportRequest(ctx, msg); err != nil {
		t.Fatalf("handle export request: %v", err)
	}

	rows := appender.Rows()
	if len(rows) != 1 {
		t.Fatalf("appended %d rows, want 1", len(rows))
	}
	got := rows[0]
	if got.UserID != user.String() {
		t.Errorf("user id = %s, want %s", got.UserID, user)
	}
	if !got.Summary.TotalExpenses.Equal(decimal.RequireFromString("1200")) {
		t.Errorf("total expenses = %s, want 1200", got.Summary.TotalExpenses)
	}
	if !got.Summary.NetSavings.Equal(decimal.RequireFromString("1800")) {
		t.Errorf("net savings = %s, want 1800", got.Summary.NetSavings)
	}
}

func TestHandleExportRequestRejectsBadPayload(t *testing.T) {
	w := NewExportWorker(memory.New(), exportmem.New())

	err := w.HandleExportRequest(context.Background(), &amqp.ExportRequestMessage{
		UserID: "not-a-uuid",
		Month:  "2026-06",
	})
	if err == nil {
		t.Fatal("expected error for malformed user id")
	}

	err = w.HandleExportRequest(context.Background(), &amqp.ExportRequestMessage{
		UserID: uuid.New().String(),
		Month:  "June 2026",
	})
	if err == nil {
		t.Fatal("expected error for malformed month")
	}
}

func TestSweepCurrentMonthCoversAllUsers(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	appender := exportmem.New()
	w := NewExportWorker(s, appender)

	month := core.Month{Year: 2026, Month: 7}
	for i := 0; i < 3; i++ {
		user := uuid.New()
		if _, err := s.AddExpense(ctx, core.Expense{
			UserID:   user,
			Amount:   decimal.RequireFromString("10"),
			Category: core.Other,
			Date:     time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC),
			Currency: core.USD,
		}); err != nil {
			t.Fatalf("add expense: %v", err)
		}
	}

	if err := w.SweepCurrentMonth(ctx, month); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if got := len(appender.Rows()); got != 3 {
		t.Fatalf("appended %d rows, want 3", got)
	}
}

func TestSweepNoUsersIsNoop(t *testing.T) {
	w := NewExportWorker(memory.New(), exportmem.New())
	if err := w.SweepCurrentMonth(context.Background(), core.Month{Year: 2026, Month: 1}); err != nil {
		t.Fatalf("sweep: %v", err)
	}
}
