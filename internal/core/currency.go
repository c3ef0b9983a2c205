package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is the closed set of display currencies. Conversion and
// formatting switch exhaustively over it; adding a currency means touching
// every switch below, which the compiler will point out.
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
)

// Currencies returns the supported set in a stable order.
func Currencies() []Currency {
	return []Currency{USD, EUR, GBP}
}

// ParseCurrency validates a currency code. Matching is case-insensitive.
func ParseCurrency(s string) (Currency, error) {
	switch Currency(strings.ToUpper(strings.TrimSpace(s))) {
	case USD:
		return USD, nil
	case EUR:
		return EUR, nil
	case GBP:
		return GBP, nil
	default:
		return "", ErrInvalidCurrency
	}
}

// IsValid reports whether the currency belongs to the supported set.
func (c Currency) IsValid() bool {
	switch c {
	case USD, EUR, GBP:
		return true
	default:
		return false
	}
}

// Symbol returns the display glyph for the currency.
func (c Currency) Symbol() string {
	switch c {
	case USD:
		return "$"
	case EUR:
		return "€"
	case GBP:
		return "£"
	default:
		return "¤"
	}
}

// Name returns the human-readable currency name.
func (c Currency) Name() string {
	switch c {
	case USD:
		return "US Dollar"
	case EUR:
		return "Euro"
	case GBP:
		return "British Pound"
	default:
		return string(c)
	}
}

// usdValue returns how many US dollars one unit of the currency is worth.
// All pairwise rates derive from these anchors, which keeps the table
// internally consistent: A→B→A round-trips within rounding tolerance.
func (c Currency) usdValue() decimal.Decimal {
	switch c {
	case USD:
		return decimal.NewFromInt(1)
	case EUR:
		return decimal.RequireFromString("1.09")
	case GBP:
		return decimal.RequireFromString("1.27")
	default:
		return decimal.NewFromInt(1)
	}
}

// Rate returns the positive multiplier converting one unit of from into to.
func Rate(from, to Currency) decimal.Decimal {
	if from == to {
		return decimal.NewFromInt(1)
	}
	return from.usdValue().Div(to.usdValue())
}

// Convert converts amount from one currency to another, rounded to two
// decimal places. Applied only at presentation time; stored amounts keep
// their recorded currency.
func Convert(amount decimal.Decimal, from, to Currency) decimal.Decimal {
	if from == to {
		return amount.Round(2)
	}
	return amount.Mul(Rate(from, to)).Round(2)
}

// Format renders an amount with the currency symbol, thousands separators
// and two fixed decimal places, e.g. "$1,234.50" or "-€12.00".
func Format(amount decimal.Decimal, c Currency) string {
	neg := amount.IsNegative()
	s := amount.Abs().StringFixed(2)

	intPart, fracPart, _ := strings.Cut(s, ".")
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(c.Symbol())
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(fracPart)
	return b.String()
}
