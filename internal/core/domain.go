package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	Food          Category = "Food"
	Rent          Category = "Rent"
	Utilities     Category = "Utilities"
	Transport     Category = "Transport"
	Health        Category = "Health"
	Entertainment Category = "Entertainment"
	Shopping      Category = "Shopping"
	Education     Category = "Education"
	Other         Category = "Other"
)

type (
	// Category is the closed set of expense categories.
	Category string

	// Month identifies a calendar year+month bucket. Expenses belong to a
	// month when their date falls in that calendar month, not within a
	// 30-day window.
	Month struct {
		Year  int
		Month int // 1-12
	}

	// Income is a user's single active monthly income record.
	Income struct {
		UserID    uuid.UUID
		Amount    decimal.Decimal
		Currency  Currency
		UpdatedAt time.Time
	}

	// Expense is a single categorized expense.
	Expense struct {
		ID       uuid.UUID
		UserID   uuid.UUID
		Amount   decimal.Decimal
		Category Category
		Date     time.Time
		Currency Currency
		Note     string
	}

	// SavingsGoal is a user's zero-or-one savings target with a deadline.
	SavingsGoal struct {
		UserID       uuid.UUID
		Name         string
		TargetAmount decimal.Decimal
		Deadline     time.Time
		Currency     Currency
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidCurrency = errors.New("invalid currency")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidMonth    = errors.New("invalid month")
	ErrInvalidDeadline = errors.New("invalid deadline")
	ErrNoteTooLong     = errors.New("note too long (max 200 characters)")
)

// Categories returns all supported categories in a stable order.
func Categories() []Category {
	return []Category{Food, Rent, Utilities, Transport, Health, Entertainment, Shopping, Education, Other}
}

// ParseCategory validates a category name against the closed set.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.TrimSpace(s))
	if !c.IsValid() {
		return "", ErrInvalidCategory
	}
	return c, nil
}

func (c Category) IsValid() bool {
	switch c {
	case Food, Rent, Utilities, Transport, Health, Entertainment, Shopping, Education, Other:
		return true
	default:
		return false
	}
}

// ParseMonth parses a "YYYY-MM" month selector.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return Month{}, ErrInvalidMonth
	}
	return Month{Year: t.Year(), Month: int(t.Month())}, nil
}

// MonthOf returns the calendar month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: int(t.Month())}
}

func (m Month) Validate() error {
	if m.Year < 1 || m.Month < 1 || m.Month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// Prev returns the calendar month immediately preceding m.
func (m Month) Prev() Month {
	if m.Month == 1 {
		return Month{Year: m.Year - 1, Month: 12}
	}
	return Month{Year: m.Year, Month: m.Month - 1}
}

// Contains reports whether t falls inside the calendar month.
func (m Month) Contains(t time.Time) bool {
	return t.Year() == m.Year && int(t.Month()) == m.Month
}

// Label returns a human-readable label such as "January 2026".
func (m Month) Label() string {
	return time.Date(m.Year, time.Month(m.Month), 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
}

// String returns the wire form "YYYY-MM".
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, m.Month)
}

func (i Income) Validate() error {
	if i.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if !i.Currency.IsValid() {
		return ErrInvalidCurrency
	}
	return nil
}

func (e Expense) Validate() error {
	if !e.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !e.Category.IsValid() {
		return ErrInvalidCategory
	}
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	if !e.Currency.IsValid() {
		return ErrInvalidCurrency
	}
	if len(e.Note) > 200 {
		return ErrNoteTooLong
	}
	return nil
}

func (g SavingsGoal) Validate() error {
	if !g.TargetAmount.IsPositive() {
		return ErrInvalidAmount
	}
	if g.Deadline.IsZero() {
		return ErrInvalidDeadline
	}
	if !g.Currency.IsValid() {
		return ErrInvalidCurrency
	}
	if len(g.Name) > 200 {
		return ErrNoteTooLong
	}
	return nil
}
