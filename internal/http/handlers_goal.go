package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"pennywise/internal/core"
)

type setGoalRequest struct {
	Name         string `json:"name"`
	TargetAmount string `json:"targetAmount"`
	Deadline     string `json:"deadline"`
	Currency     string `json:"currency"`
}

type goalDTO struct {
	Name         string          `json:"name"`
	TargetAmount decimal.Decimal `json:"targetAmount"`
	Deadline     string          `json:"deadline"`
	Currency     string          `json:"currency"`
}

func (s *Server) handleSetGoal(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req setGoalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	target, err := parseAmount(req.TargetAmount)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	deadline, err := parseDate(req.Deadline)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	currency, err := core.ParseCurrency(req.Currency)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	goal := core.SavingsGoal{
		UserID:       userID,
		Name:         req.Name,
		TargetAmount: target,
		Deadline:     deadline,
		Currency:     currency,
	}
	if err := s.profile.SetGoal(r.Context(), goal); err != nil {
		writeDomainError(w, r, err)
		return
	}
	s.invalidateOverviews(userID)

	writeJSON(w, http.StatusOK, goalDTO{
		Name:         goal.Name,
		TargetAmount: goal.TargetAmount,
		Deadline:     goal.Deadline.Format("2006-01-02"),
		Currency:     string(goal.Currency),
	})
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	goal, err := s.records.GoalByUser(r.Context(), userID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if goal == nil {
		writeError(w, http.StatusNotFound, "no savings goal set")
		return
	}

	writeJSON(w, http.StatusOK, goalDTO{
		Name:         goal.Name,
		TargetAmount: goal.TargetAmount,
		Deadline:     goal.Deadline.Format("2006-01-02"),
		Currency:     string(goal.Currency),
	})
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.profile.DeleteGoal(r.Context(), userID); err != nil {
		writeDomainError(w, r, err)
		return
	}
	s.invalidateOverviews(userID)

	w.WriteHeader(http.StatusNoContent)
}
