package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pennywise/internal/core"
)

type createExpenseRequest struct {
	Amount   string `json:"amount"`
	Category string `json:"category"`
	Date     string `json:"date"`
	Currency string `json:"currency"`
	Note     string `json:"note"`
}

type expenseDTO struct {
	ID       string          `json:"id"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
	Date     string          `json:"date"`
	Currency string          `json:"currency"`
	Note     string          `json:"note,omitempty"`
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req createExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	category, err := core.ParseCategory(req.Category)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	currency, err := core.ParseCurrency(req.Currency)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	expense := core.Expense{
		UserID:   userID,
		Amount:   amount,
		Category: category,
		Date:     date,
		Currency: currency,
		Note:     req.Note,
	}

	id, err := s.expenses.CreateExpense(r.Context(), expense)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	s.invalidateOverviews(userID)

	writeJSON(w, http.StatusCreated, expenseDTO{
		ID:       id.String(),
		Amount:   expense.Amount,
		Category: string(expense.Category),
		Date:     expense.Date.Format("2006-01-02"),
		Currency: string(expense.Currency),
		Note:     expense.Note,
	})
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	month, err := monthFromQuery(r, time.Now())
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	expenses, err := s.records.ListExpenses(r.Context(), userID, month)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	out := make([]expenseDTO, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, expenseDTO{
			ID:       e.ID.String(),
			Amount:   e.Amount,
			Category: string(e.Category),
			Date:     e.Date.Format("2006-01-02"),
			Currency: string(e.Currency),
			Note:     e.Note,
		})
	}
	writeJSON(w, http.StatusOK, struct {
		Month    string       `json:"month"`
		Expenses []expenseDTO `json:"expenses"`
	}{Month: month.String(), Expenses: out})
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	if err := s.expenses.DeleteExpense(r.Context(), userID, id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	s.invalidateOverviews(userID)

	w.WriteHeader(http.StatusNoContent)
}
