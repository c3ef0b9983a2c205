// Package core holds the dashboard aggregation and goal projection logic.
//
// Everything in this package is a pure function over immutable inputs: the
// caller fetches the records, core computes, nothing is cached or mutated.
package core

import "github.com/shopspring/decimal"

// CategoryAmount is an amount summed per category. Order in a summary is
// first-encounter order of the underlying expenses.
type CategoryAmount struct {
	Category Category
	Amount   decimal.Decimal
}

// MonthlySummary is the aggregated view of one calendar month. It is
// computed fresh on every call and never persisted.
type MonthlySummary struct {
	Month      Month
	MonthLabel string

	IncomeAmount  decimal.Decimal
	TotalExpenses decimal.Decimal
	// PercentOfIncome is TotalExpenses as a rounded percentage of income,
	// 0 when there is no income.
	PercentOfIncome int

	ByCategory      []CategoryAmount
	HighestCategory Category // empty when the month has no expenses
	HighestAmount   decimal.Decimal

	NetSavings             decimal.Decimal
	SavingsPercentOfIncome int
	// SavingsTrend is this month's net savings minus the previous month's.
	// Both figures use the current income record; historical income is not
	// tracked.
	SavingsTrend decimal.Decimal
}

// Aggregate computes the monthly summary for the target month. income may be
// nil; current and previous must already be filtered to the target month and
// the calendar month immediately preceding it. Missing data degenerates to
// zero values, never an error.
func Aggregate(income *Income, current, previous []Expense, month Month) MonthlySummary {
	incomeAmount := decimal.Zero
	if income != nil {
		incomeAmount = income.Amount
	}

	total := sumAmounts(current)
	previousTotal := sumAmounts(previous)

	net := incomeAmount.Sub(total)
	previousNet := incomeAmount.Sub(previousTotal)

	byCategory := groupByCategory(current)
	highestCategory, highestAmount := highest(byCategory)

	return MonthlySummary{
		Month:                  month,
		MonthLabel:             month.Label(),
		IncomeAmount:           incomeAmount,
		TotalExpenses:          total,
		PercentOfIncome:        percentOf(total, incomeAmount),
		ByCategory:             byCategory,
		HighestCategory:        highestCategory,
		HighestAmount:          highestAmount,
		NetSavings:             net,
		SavingsPercentOfIncome: percentOf(net, incomeAmount),
		SavingsTrend:           net.Sub(previousNet),
	}
}

func sumAmounts(expenses []Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// groupByCategory sums expense amounts per category, preserving the order in
// which categories first appear.
func groupByCategory(expenses []Expense) []CategoryAmount {
	index := make(map[Category]int, len(expenses))
	var out []CategoryAmount
	for _, e := range expenses {
		if i, ok := index[e.Category]; ok {
			out[i].Amount = out[i].Amount.Add(e.Amount)
			continue
		}
		index[e.Category] = len(out)
		out = append(out, CategoryAmount{Category: e.Category, Amount: e.Amount})
	}
	return out
}

// highest picks the category with the maximal summed amount. Ties keep the
// first-encountered category.
func highest(byCategory []CategoryAmount) (Category, decimal.Decimal) {
	var (
		cat    Category
		amount = decimal.Zero
	)
	for _, ca := range byCategory {
		if ca.Amount.GreaterThan(amount) {
			cat = ca.Category
			amount = ca.Amount
		}
	}
	return cat, amount
}

// percentOf returns part as a rounded percentage of whole, or 0 when whole
// is not positive.
func percentOf(part, whole decimal.Decimal) int {
	if !whole.IsPositive() {
		return 0
	}
	return int(part.Div(whole).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
}
