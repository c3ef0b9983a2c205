package http

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"pennywise/internal/core"
)

type setIncomeRequest struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type incomeDTO struct {
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	UpdatedAt string          `json:"updatedAt,omitempty"`
}

func (s *Server) handleSetIncome(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req setIncomeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	currency, err := core.ParseCurrency(req.Currency)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	income := core.Income{
		UserID:   userID,
		Amount:   amount,
		Currency: currency,
	}
	if err := s.profile.SetIncome(r.Context(), income); err != nil {
		writeDomainError(w, r, err)
		return
	}
	s.invalidateOverviews(userID)

	writeJSON(w, http.StatusOK, incomeDTO{
		Amount:   income.Amount,
		Currency: string(income.Currency),
	})
}

func (s *Server) handleGetIncome(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	income, err := s.records.IncomeByUser(r.Context(), userID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if income == nil {
		writeError(w, http.StatusNotFound, "no income recorded")
		return
	}

	writeJSON(w, http.StatusOK, incomeDTO{
		Amount:    income.Amount,
		Currency:  string(income.Currency),
		UpdatedAt: income.UpdatedAt.Format(time.RFC3339),
	})
}
