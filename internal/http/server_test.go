package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"pennywise/internal/services"
	"pennywise/internal/store/memory"
)

func newTestServer(t *testing.T) (*Server, *memory.Store) {
	t.Helper()
	st := memory.New()
	srv := NewServer("127.0.0.1:0",
		st,
		services.NewDashboardService(st, st, st),
		services.NewExpenseService(st, st, nil),
		services.NewProfileService(st, st, nil))
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv, st
}

func doRequest(t *testing.T, srv *Server, method, target, body string, user uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()
	var rd *strings.Reader
	if body == "" {
		rd = strings.NewReader("")
	} else {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if user != uuid.Nil {
		req.Header.Set(userIDHeader, user.String())
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doRequest(t, srv, http.MethodGet, path, "", uuid.Nil)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}
	}
}

func TestMissingUserHeader(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(t, srv, http.MethodGet, "/api/dashboard", "", uuid.Nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestExpenseFlow(t *testing.T) {
	srv, _ := newTestServer(t)
	user := uuid.New()

	rec := doRequest(t, srv, http.MethodPost, "/api/expenses",
		`{"amount":"42.50","category":"Food","date":"2026-03-05","currency":"USD","note":"groceries"}`, user)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body)
	}
	var created expenseDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.ID == "" || created.Category != "Food" {
		t.Fatalf("created = %+v", created)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/expenses?month=2026-03", "", user)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var listed struct {
		Month    string       `json:"month"`
		Expenses []expenseDTO `json:"expenses"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if listed.Month != "2026-03" || len(listed.Expenses) != 1 {
		t.Fatalf("listed = %+v", listed)
	}

	rec = doRequest(t, srv, http.MethodDelete, "/api/expenses/"+created.ID, "", user)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = doRequest(t, srv, http.MethodDelete, "/api/expenses/"+created.ID, "", user)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", rec.Code)
	}
}

func TestCreateExpenseValidation(t *testing.T) {
	srv, _ := newTestServer(t)
	user := uuid.New()

	cases := []struct {
		name string
		body string
		want int
	}{
		{"negative amount", `{"amount":"-5","category":"Food","date":"2026-03-05","currency":"USD"}`, http.StatusUnprocessableEntity},
		{"bad amount", `{"amount":"abc","category":"Food","date":"2026-03-05","currency":"USD"}`, http.StatusUnprocessableEntity},
		{"bad category", `{"amount":"5","category":"Yachts","date":"2026-03-05","currency":"USD"}`, http.StatusUnprocessableEntity},
		{"bad date", `{"amount":"5","category":"Food","date":"yesterday","currency":"USD"}`, http.StatusUnprocessableEntity},
		{"bad currency", `{"amount":"5","category":"Food","date":"2026-03-05","currency":"XYZ"}`, http.StatusUnprocessableEntity},
		{"unknown field", `{"amount":"5","category":"Food","date":"2026-03-05","currency":"USD","extra":1}`, http.StatusBadRequest},
		{"garbage body", `not json`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, srv, http.MethodPost, "/api/expenses", tc.body, user)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.want, rec.Body)
			}
		})
	}
}

func TestIncomeEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)
	user := uuid.New()

	rec := doRequest(t, srv, http.MethodGet, "/api/income", "", user)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get before set = %d, want 404", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodPut, "/api/income", `{"amount":"5000","currency":"EUR"}`, user)
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d, body = %s", rec.Code, rec.Body)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/income", "", user)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var got incomeDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode income: %v", err)
	}
	if got.Currency != "EUR" || got.Amount.String() != "5000" {
		t.Fatalf("income = %+v", got)
	}
}

func TestGoalEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)
	user := uuid.New()

	rec := doRequest(t, srv, http.MethodPut, "/api/goal",
		`{"name":"Vacation","targetAmount":"12000","deadline":"2026-09-01","currency":"USD"}`, user)
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d, body = %s", rec.Code, rec.Body)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/goal", "", user)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var got goalDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode goal: %v", err)
	}
	if got.Name != "Vacation" || got.Deadline != "2026-09-01" {
		t.Fatalf("goal = %+v", got)
	}

	rec = doRequest(t, srv, http.MethodDelete, "/api/goal", "", user)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = doRequest(t, srv, http.MethodGet, "/api/goal", "", user)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete = %d, want 404", rec.Code)
	}
}

func TestDashboardEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	user := uuid.New()

	doRequest(t, srv, http.MethodPut, "/api/income", `{"amount":"5000","currency":"USD"}`, user)
	doRequest(t, srv, http.MethodPost, "/api/expenses",
		`{"amount":"800","category":"Food","date":"2026-03-02","currency":"USD"}`, user)
	doRequest(t, srv, http.MethodPost, "/api/expenses",
		`{"amount":"1500","category":"Rent","date":"2026-03-03","currency":"USD"}`, user)

	rec := doRequest(t, srv, http.MethodGet, "/api/dashboard?month=2026-03", "", user)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d, body = %s", rec.Code, rec.Body)
	}
	var got dashboardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}
	if got.Month != "2026-03" || got.MonthLabel != "March 2026" {
		t.Fatalf("month = %s / %s", got.Month, got.MonthLabel)
	}
	if got.TotalExpenses.String() != "2300" {
		t.Errorf("total = %s, want 2300", got.TotalExpenses)
	}
	if got.PercentOfIncome != 46 {
		t.Errorf("percent of income = %d, want 46", got.PercentOfIncome)
	}
	if got.HighestCategory != "Rent" {
		t.Errorf("highest = %s, want Rent", got.HighestCategory)
	}
	if got.Goal != nil {
		t.Errorf("goal = %+v, want null", got.Goal)
	}
}

func TestDashboardCacheInvalidatedByWrites(t *testing.T) {
	srv, _ := newTestServer(t)
	user := uuid.New()

	doRequest(t, srv, http.MethodPut, "/api/income", `{"amount":"1000","currency":"USD"}`, user)

	rec := doRequest(t, srv, http.MethodGet, "/api/dashboard?month=2026-03", "", user)
	var before dashboardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &before); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}

	doRequest(t, srv, http.MethodPost, "/api/expenses",
		`{"amount":"100","category":"Food","date":"2026-03-10","currency":"USD"}`, user)

	rec = doRequest(t, srv, http.MethodGet, "/api/dashboard?month=2026-03", "", user)
	var after dashboardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &after); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}
	if after.TotalExpenses.Equal(before.TotalExpenses) {
		t.Fatalf("dashboard still cached: total = %s before and after write", after.TotalExpenses)
	}
}

func TestDashboardRejectsBadQuery(t *testing.T) {
	srv, _ := newTestServer(t)
	user := uuid.New()

	rec := doRequest(t, srv, http.MethodGet, "/api/dashboard?month=March", "", user)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad month status = %d, want 422", rec.Code)
	}
	rec = doRequest(t, srv, http.MethodGet, "/api/dashboard?currency=BTC", "", user)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad currency status = %d, want 422", rec.Code)
	}
}
