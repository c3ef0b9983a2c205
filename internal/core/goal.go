package core

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// GoalProgress is the pacing projection for a savings goal. Like
// MonthlySummary it is ephemeral, recomputed on every call.
type GoalProgress struct {
	Description  string
	SavedAmount  decimal.Decimal
	TargetAmount decimal.Decimal
	// PercentComplete is clamped to [0, 100] even when saved exceeds the
	// target or is negative.
	PercentComplete int
	// DaysLeft may be negative when the deadline has passed.
	DaysLeft   int
	MonthsLeft int // floored at 1
	// MonthlySavingsNeeded is the remaining amount spread over the months
	// left, rounded to two decimal places.
	MonthlySavingsNeeded decimal.Decimal
	OnTrack              bool
}

// ComputeGoalProgress projects progress toward a savings goal. Returns nil
// when the user has no goal. netSavings is the current month's net savings
// from the aggregator; it stands in for the cumulative saved amount, a
// simplification kept for compatibility with the recorded behavior.
func ComputeGoalProgress(goal *SavingsGoal, netSavings decimal.Decimal, now time.Time) *GoalProgress {
	if goal == nil {
		return nil
	}

	saved := netSavings

	percent := int(saved.Div(goal.TargetAmount).Mul(decimal.NewFromInt(100)).Floor().IntPart())
	if percent < 0 {
		percent = 0
	} else if percent > 100 {
		percent = 100
	}

	daysLeft := int(math.Floor(goal.Deadline.Sub(now).Hours() / 24))
	monthsLeft := int(math.Ceil(float64(daysLeft) / 30))
	if monthsLeft < 1 {
		monthsLeft = 1
	}

	needed := goal.TargetAmount.Sub(saved).Div(decimal.NewFromInt(int64(monthsLeft))).Round(2)

	name := goal.Name
	if name == "" {
		name = "Savings Goal"
	}

	return &GoalProgress{
		Description:          name + " by " + goal.Deadline.Format("02 Jan 2006"),
		SavedAmount:          saved,
		TargetAmount:         goal.TargetAmount,
		PercentComplete:      percent,
		DaysLeft:             daysLeft,
		MonthsLeft:           monthsLeft,
		MonthlySavingsNeeded: needed,
		OnTrack:              netSavings.GreaterThanOrEqual(needed),
	}
}
