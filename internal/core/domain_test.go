package core

import (
	"testing"
	"time"
)

func TestParseMonth(t *testing.T) {
	cases := []struct {
		in   string
		want Month
		ok   bool
	}{
		{"2026-03", Month{2026, 3}, true},
		{"2025-12", Month{2025, 12}, true},
		{"2026-13", Month{}, false},
		{"2026-3", Month{}, false},
		{"march", Month{}, false},
		{"", Month{}, false},
	}
	for _, tc := range cases {
		got, err := ParseMonth(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("ParseMonth(%q) = %v, %v; want %v", tc.in, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Fatalf("ParseMonth(%q) expected error", tc.in)
		}
	}
}

func TestMonthPrev(t *testing.T) {
	if got := (Month{2026, 3}).Prev(); got != (Month{2026, 2}) {
		t.Fatalf("prev of 2026-03 = %v", got)
	}
	if got := (Month{2026, 1}).Prev(); got != (Month{2025, 12}) {
		t.Fatalf("prev of 2026-01 = %v, want 2025-12", got)
	}
}

func TestMonthContains(t *testing.T) {
	m := Month{2026, 3}
	if !m.Contains(time.Date(2026, 3, 31, 23, 59, 0, 0, time.UTC)) {
		t.Fatal("last day of month should be contained")
	}
	if m.Contains(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("first day of next month should not be contained")
	}
	// Calendar match, not a 30-day window.
	if m.Contains(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("same month of a different year should not be contained")
	}
}

func TestMonthString(t *testing.T) {
	if got := (Month{2026, 3}).String(); got != "2026-03" {
		t.Fatalf("String() = %q, want 2026-03", got)
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		Amount:   dec("12.34"),
		Category: Food,
		Date:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Currency: USD,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Expense{
		{Amount: dec("0"), Category: Food, Date: good.Date, Currency: USD},
		{Amount: dec("-5"), Category: Food, Date: good.Date, Currency: USD},
		{Amount: dec("1"), Category: "Groceries", Date: good.Date, Currency: USD},
		{Amount: dec("1"), Category: Food, Currency: USD}, // zero date
		{Amount: dec("1"), Category: Food, Date: good.Date, Currency: "JPY"},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestIncomeValidate(t *testing.T) {
	if err := (Income{Amount: dec("0"), Currency: EUR}).Validate(); err != nil {
		t.Fatalf("zero income is valid, got %v", err)
	}
	if err := (Income{Amount: dec("-1"), Currency: EUR}).Validate(); err == nil {
		t.Fatal("negative income expected error")
	}
	if err := (Income{Amount: dec("100"), Currency: "XXX"}).Validate(); err == nil {
		t.Fatal("unknown currency expected error")
	}
}

func TestSavingsGoalValidate(t *testing.T) {
	deadline := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	if err := (SavingsGoal{TargetAmount: dec("100"), Deadline: deadline, Currency: USD}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (SavingsGoal{TargetAmount: dec("0"), Deadline: deadline, Currency: USD}).Validate(); err == nil {
		t.Fatal("zero target expected error")
	}
	if err := (SavingsGoal{TargetAmount: dec("100"), Currency: USD}).Validate(); err == nil {
		t.Fatal("zero deadline expected error")
	}
}
