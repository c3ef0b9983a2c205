package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"pennywise/internal/services"
)

type categoryAmountDTO struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

type goalProgressDTO struct {
	Description          string          `json:"description"`
	SavedAmount          decimal.Decimal `json:"savedAmount"`
	TargetAmount         decimal.Decimal `json:"targetAmount"`
	PercentComplete      int             `json:"percentComplete"`
	DaysLeft             int             `json:"daysLeft"`
	MonthsLeft           int             `json:"monthsLeft"`
	MonthlySavingsNeeded decimal.Decimal `json:"monthlySavingsNeeded"`
	OnTrack              bool            `json:"onTrack"`
}

type dashboardResponse struct {
	Month                  string              `json:"month"`
	MonthLabel             string              `json:"monthLabel"`
	Currency               string              `json:"currency"`
	Income                 decimal.Decimal     `json:"income"`
	TotalExpenses          decimal.Decimal     `json:"totalExpenses"`
	PercentOfIncome        int                 `json:"percentOfIncome"`
	ByCategory             []categoryAmountDTO `json:"byCategory"`
	HighestCategory        string              `json:"highestCategory,omitempty"`
	HighestAmount          decimal.Decimal     `json:"highestAmount"`
	NetSavings             decimal.Decimal     `json:"netSavings"`
	SavingsPercentOfIncome int                 `json:"savingsPercentOfIncome"`
	SavingsTrend           decimal.Decimal     `json:"savingsTrend"`
	Goal                   *goalProgressDTO    `json:"goal"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
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
	display, err := currencyFromQuery(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	key := s.overviewKey(userID, month.String()+"|"+string(display))
	if cached, ok := s.overviewCache.Get(key); ok {
		slog.DebugContext(r.Context(), "Dashboard cache hit", "user_id", userID, "month", month)
		writeJSON(w, http.StatusOK, cached)
		return
	}

	overview, err := s.dashboards.Overview(r.Context(), userID, month, display)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	resp := buildDashboardResponse(overview)
	s.overviewCache.Set(key, resp)
	writeJSON(w, http.StatusOK, resp)
}

func buildDashboardResponse(o *services.Overview) dashboardResponse {
	sum := o.Summary
	resp := dashboardResponse{
		Month:                  sum.Month.String(),
		MonthLabel:             sum.MonthLabel,
		Currency:               string(o.Currency),
		Income:                 sum.IncomeAmount,
		TotalExpenses:          sum.TotalExpenses,
		PercentOfIncome:        sum.PercentOfIncome,
		ByCategory:             make([]categoryAmountDTO, 0, len(sum.ByCategory)),
		HighestCategory:        string(sum.HighestCategory),
		HighestAmount:          sum.HighestAmount,
		NetSavings:             sum.NetSavings,
		SavingsPercentOfIncome: sum.SavingsPercentOfIncome,
		SavingsTrend:           sum.SavingsTrend,
	}
	for _, ca := range sum.ByCategory {
		resp.ByCategory = append(resp.ByCategory, categoryAmountDTO{
			Category: string(ca.Category),
			Amount:   ca.Amount,
		})
	}
	if o.Goal != nil {
		resp.Goal = &goalProgressDTO{
			Description:          o.Goal.Description,
			SavedAmount:          o.Goal.SavedAmount,
			TargetAmount:         o.Goal.TargetAmount,
			PercentComplete:      o.Goal.PercentComplete,
			DaysLeft:             o.Goal.DaysLeft,
			MonthsLeft:           o.Goal.MonthsLeft,
			MonthlySavingsNeeded: o.Goal.MonthlySavingsNeeded,
			OnTrack:              o.Goal.OnTrack,
		}
	}
	return resp
}
