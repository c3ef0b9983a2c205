package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pennywise/internal/core"
)

const userIDHeader = "X-User-ID"

var errMissingUser = errors.New("missing or invalid " + userIDHeader + " header")

// userIDFrom reads the calling user from the X-User-ID header. Stands in
// for an authentication layer.
func userIDFrom(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(r.Header.Get(userIDHeader))
	if raw == "" {
		return uuid.Nil, errMissingUser
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errMissingUser
	}
	return id, nil
}

// monthFromQuery reads ?month=YYYY-MM, defaulting to the current month.
func monthFromQuery(r *http.Request, now time.Time) (core.Month, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("month"))
	if raw == "" {
		return core.MonthOf(now), nil
	}
	return core.ParseMonth(raw)
}

// currencyFromQuery reads ?currency=XXX, defaulting to USD.
func currencyFromQuery(r *http.Request) (core.Currency, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("currency"))
	if raw == "" {
		return core.USD, nil
	}
	return core.ParseCurrency(raw)
}

// decodeJSON decodes a request body into dst, rejecting unknown fields and
// oversized payloads.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	amt, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", core.ErrInvalidAmount, raw)
	}
	return amt, nil
}

func parseDate(raw string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", core.ErrInvalidDate, raw)
	}
	return d, nil
}
