// Package memory provides an in-memory record store, used as the default
// backend and as the test double for handler and service tests.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"pennywise/internal/core"
	"pennywise/internal/store"
)

type Store struct {
	mu       sync.Mutex
	incomes  map[uuid.UUID]core.Income
	expenses []core.Expense
	goals    map[uuid.UUID]core.SavingsGoal
}

func New() *Store {
	return &Store{
		incomes: make(map[uuid.UUID]core.Income),
		goals:   make(map[uuid.UUID]core.SavingsGoal),
	}
}

func (s *Store) IncomeByUser(_ context.Context, userID uuid.UUID) (*core.Income, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inc, ok := s.incomes[userID]
	if !ok {
		return nil, nil
	}
	return &inc, nil
}

func (s *Store) SetIncome(_ context.Context, income core.Income) error {
	if err := income.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.incomes[income.UserID] = income
	return nil
}

func (s *Store) ListExpenses(_ context.Context, userID uuid.UUID, month core.Month) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Expense
	for _, e := range s.expenses {
		if e.UserID == userID && month.Contains(e.Date) {
			out = append(out, e)
		}
	}
	return out, nil
}

// AddExpense stores the expense under a fresh surrogate key.
func (s *Store) AddExpense(_ context.Context, e core.Expense) (uuid.UUID, error) {
	if err := e.Validate(); err != nil {
		return uuid.Nil, err
	}
	e.ID = uuid.New()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = append(s.expenses, e)
	return e.ID, nil
}

func (s *Store) DeleteExpense(_ context.Context, userID, id uuid.UUID) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.expenses {
		if e.ID == id && e.UserID == userID {
			s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
			return e, nil
		}
	}
	return core.Expense{}, store.ErrNotFound
}

func (s *Store) GoalByUser(_ context.Context, userID uuid.UUID) (*core.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[userID]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

func (s *Store) SetGoal(_ context.Context, goal core.SavingsGoal) error {
	if err := goal.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals[goal.UserID] = goal
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[uuid.UUID]struct{})
	var out []uuid.UUID
	add := func(id uuid.UUID) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for id := range s.incomes {
		add(id)
	}
	for _, e := range s.expenses {
		add(e.UserID)
	}
	for id := range s.goals {
		add(id)
	}
	return out, nil
}

func (s *Store) DeleteGoal(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.goals[userID]; !ok {
		return store.ErrNotFound
	}
	delete(s.goals, userID)
	return nil
}

var _ store.RecordStore = (*Store)(nil)
