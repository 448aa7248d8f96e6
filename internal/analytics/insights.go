package analytics

import (
	"fmt"
	"iter"
	"time"

	"github.com/theirongolddev/cbudget/internal/model"

	"github.com/shopspring/decimal"
)

// Thresholds configures the insight and recommendation rules.
type Thresholds struct {
	HighUtilizationPercent float64         // rule 1: utilization above this warns
	ConcentrationShare     decimal.Decimal // rule 2: top category above this share of the budget
	WindowDays             int             // rule 3: trailing window length and divisor
	AchievableShare        decimal.Decimal // rule 4: monthly target at or below this share of the budget
	ChallengingShare       decimal.Decimal // goal flagged when its monthly target exceeds this share

	HighSpendPercent   float64
	LowSpendPercent    float64
	SavingsRateFloor   float64
	HighAverageExpense decimal.Decimal

	// Currency is the symbol prefixed to amounts in messages.
	Currency string
}

// DefaultThresholds returns the stock insight thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HighUtilizationPercent: 85,
		ConcentrationShare:     decimal.RequireFromString("0.4"),
		WindowDays:             30,
		AchievableShare:        decimal.RequireFromString("0.2"),
		ChallengingShare:       decimal.RequireFromString("0.3"),
		HighSpendPercent:       80,
		LowSpendPercent:        30,
		SavingsRateFloor:       20,
		HighAverageExpense:     decimal.NewFromInt(1000),
		Currency:               "$",
	}
}

// Input is everything the insight rules read. It is built once per analysis.
type Input struct {
	Snapshot    model.Snapshot
	Now         time.Time
	Utilization float64
	Categories  []model.CategoryAnalysis
	Goals       []model.GoalAnalysis
}

// NewInput analyzes s at now and bundles the results for the insight rules.
func NewInput(s model.Snapshot, now time.Time) Input {
	return Input{
		Snapshot:    s,
		Now:         now,
		Utilization: Utilization(s),
		Categories:  AnalyzeCategories(s),
		Goals:       AnalyzeGoals(s.Goals, now),
	}
}

type rule func(Input, Thresholds) (model.Insight, bool)

// rules run in this order; none suppresses another.
var rules = []rule{
	highUtilization,
	categoryConcentration,
	dailySpendingAlert,
	achievableGoals,
}

// Insights lazily evaluates the insight rules against in. The sequence may be empty.
func Insights(in Input, th Thresholds) iter.Seq[model.Insight] {
	return func(yield func(model.Insight) bool) {
		for _, r := range rules {
			ins, ok := r(in, th)
			if !ok {
				continue
			}
			if !yield(ins) {
				return
			}
		}
	}
}

func highUtilization(in Input, th Thresholds) (model.Insight, bool) {
	if in.Utilization <= th.HighUtilizationPercent {
		return model.Insight{}, false
	}
	return model.Insight{
		Kind:  model.InsightWarning,
		Title: "High Budget Utilization",
		Message: fmt.Sprintf("You've used %.1f%% of your monthly budget. "+
			"Consider reducing spending in high-cost categories.", in.Utilization),
	}, true
}

func categoryConcentration(in Input, th Thresholds) (model.Insight, bool) {
	ranking := CategoryRanking(in.Snapshot)
	if len(ranking) == 0 {
		return model.Insight{}, false
	}
	top := ranking[0]
	if !top.Amount.GreaterThan(in.Snapshot.TotalBudget.Mul(th.ConcentrationShare)) {
		return model.Insight{}, false
	}

	share := 0.0
	if !in.Snapshot.TotalSpent.IsZero() {
		share = top.Amount.Div(in.Snapshot.TotalSpent).Mul(hundred).InexactFloat64()
	}
	return model.Insight{
		Kind:  model.InsightInfo,
		Title: "Category Concentration",
		Message: fmt.Sprintf("%s accounts for %.1f%% of your spending. "+
			"Consider if this aligns with your priorities.", top.Name, share),
	}, true
}

func dailySpendingAlert(in Input, th Thresholds) (model.Insight, bool) {
	if th.WindowDays <= 0 {
		return model.Insight{}, false
	}
	avg := AverageDailySpending(in.Snapshot.RecentExpenses, in.Now, th.WindowDays)
	daily := in.Snapshot.TotalBudget.Div(decimal.NewFromInt(int64(th.WindowDays)))
	if !avg.GreaterThan(daily) {
		return model.Insight{}, false
	}
	return model.Insight{
		Kind:  model.InsightWarning,
		Title: "Daily Spending Alert",
		Message: fmt.Sprintf("Your average daily spending (%s%s) exceeds your daily budget target (%s%s).",
			th.Currency, avg.StringFixed(2), th.Currency, daily.StringFixed(2)),
	}, true
}

func achievableGoals(in Input, th Thresholds) (model.Insight, bool) {
	n := CountAchievable(in.Goals, in.Snapshot.TotalBudget, th.AchievableShare)
	if n == 0 {
		return model.Insight{}, false
	}
	return model.Insight{
		Kind:    model.InsightSuccess,
		Title:   "Achievable Goals",
		Message: fmt.Sprintf("You have %d goal(s) that are well within reach with consistent saving.", n),
	}, true
}

// CountAchievable counts goals that are not yet due and whose monthly target is
// at most share of the total budget.
func CountAchievable(goals []model.GoalAnalysis, totalBudget, share decimal.Decimal) int {
	limit := totalBudget.Mul(share)
	n := 0
	for _, g := range goals {
		if g.DaysLeft > 0 && g.MonthlyTarget.LessThanOrEqual(limit) {
			n++
		}
	}
	return n
}
