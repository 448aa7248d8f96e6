package analytics

import (
	"math"
	"time"

	"github.com/theirongolddev/cbudget/internal/model"

	"github.com/shopspring/decimal"
)

const daysPerMonth = 30

// AnalyzeGoal computes pacing for g as of now.
//
// DaysLeft is the ceiling of the whole days until the deadline and goes to zero or
// below once the deadline passes. MonthlyTarget divides the target by the number of
// 30-day periods left, floored at one period so a past or imminent deadline still
// yields a finite amount.
func AnalyzeGoal(g model.Goal, now time.Time) model.GoalAnalysis {
	daysLeft := DaysUntil(g.Deadline, now)

	months := int64(math.Ceil(float64(daysLeft) / daysPerMonth))
	if months < 1 {
		months = 1
	}

	ga := model.GoalAnalysis{
		Goal:          g,
		DaysLeft:      daysLeft,
		MonthlyTarget: g.Target.Div(decimal.NewFromInt(months)),
		Remaining:     g.Target.Sub(g.Current),
		Overdue:       daysLeft <= 0,
	}
	// Goals are created with a positive target; a zero target from a hand-edited
	// blob reports no progress rather than dividing by zero.
	if !g.Target.IsZero() {
		ga.ProgressPercent = g.Current.Div(g.Target).Mul(hundred).InexactFloat64()
	}
	return ga
}

// DaysUntil returns ceil((deadline - now) / 24h).
func DaysUntil(deadline model.Date, now time.Time) int {
	return int(math.Ceil(deadline.Time().Sub(now).Hours() / 24))
}

// AnalyzeGoals analyzes every goal in snapshot order.
func AnalyzeGoals(goals []model.Goal, now time.Time) []model.GoalAnalysis {
	out := make([]model.GoalAnalysis, 0, len(goals))
	for _, g := range goals {
		out = append(out, AnalyzeGoal(g, now))
	}
	return out
}
