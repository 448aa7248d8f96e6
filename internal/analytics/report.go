package analytics

import (
	"slices"
	"time"

	"github.com/theirongolddev/cbudget/internal/model"
)

// Options selects the scoring rubric and insight thresholds for Analyze.
type Options struct {
	Rubric     Rubric
	Thresholds Thresholds
}

// DefaultOptions returns the stock rubric and thresholds.
func DefaultOptions() Options {
	return Options{
		Rubric:     DefaultRubric(),
		Thresholds: DefaultThresholds(),
	}
}

// Analyze runs every analyzer over s as of now and assembles the full report.
func Analyze(s model.Snapshot, now time.Time, opts Options) model.Report {
	in := NewInput(s, now)
	th := opts.Thresholds

	challengeLimit := s.TotalBudget.Mul(th.ChallengingShare)
	for i := range in.Goals {
		in.Goals[i].Challenging = in.Goals[i].MonthlyTarget.GreaterThan(challengeLimit)
	}

	score := Score(s, in.Categories, opts.Rubric)

	return model.Report{
		GeneratedAt:        now,
		TotalBudget:        s.TotalBudget,
		TotalSpent:         s.TotalSpent,
		Remaining:          s.TotalBudget.Sub(s.TotalSpent),
		UtilizationPercent: in.Utilization,
		Categories:         in.Categories,
		Goals:              in.Goals,
		HealthScore:        score,
		HealthLabel:        HealthLabel(score),
		Insights:           slices.Collect(Insights(in, th)),
		DailySpending:      DailySpending(s.RecentExpenses, now, th.WindowDays),
		AvgDailySpending:   AverageDailySpending(s.RecentExpenses, now, th.WindowDays),
		Ranking:            CategoryRanking(s),
		SavingsRatePercent: SavingsRate(s),
		Recommendations:    Recommendations(s, in.Categories, th),
	}
}
