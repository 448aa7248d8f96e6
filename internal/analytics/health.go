package analytics

import (
	"sort"

	"github.com/theirongolddev/cbudget/internal/model"
)

const (
	minScore = 0
	maxScore = 100
)

// Tier is one utilization penalty step: Penalty applies when utilization is
// strictly greater than Above percent.
type Tier struct {
	Above   float64
	Penalty int
}

// Rubric holds the health score penalties. It is a heuristic, so the values
// are configuration rather than constants.
type Rubric struct {
	Start               int
	Utilization         []Tier
	OverBudgetPenalty   int
	NoActiveGoalPenalty int
}

// DefaultRubric returns the stock scoring rubric.
func DefaultRubric() Rubric {
	return Rubric{
		Start: 100,
		Utilization: []Tier{
			{Above: 90, Penalty: 30},
			{Above: 80, Penalty: 15},
			{Above: 70, Penalty: 5},
		},
		OverBudgetPenalty:   10,
		NoActiveGoalPenalty: 10,
	}
}

// UtilizationPenalty returns the penalty of the highest tier that utilization exceeds.
func (r Rubric) UtilizationPenalty(utilization float64) int {
	tiers := append([]Tier(nil), r.Utilization...)
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].Above > tiers[j].Above })
	for _, t := range tiers {
		if utilization > t.Above {
			return t.Penalty
		}
	}
	return 0
}

// Utilization returns totalSpent as a percentage of totalBudget, or 0 when
// there is no budget.
func Utilization(s model.Snapshot) float64 {
	if s.TotalBudget.IsZero() {
		return 0
	}
	return s.TotalSpent.Div(s.TotalBudget).Mul(hundred).InexactFloat64()
}

// Score computes the financial health score of s, clamped to [0, 100].
func Score(s model.Snapshot, cats []model.CategoryAnalysis, r Rubric) int {
	score := r.Start
	score -= r.UtilizationPenalty(Utilization(s))
	score -= r.OverBudgetPenalty * CountStatus(cats, model.StatusOver)

	if ActiveGoals(s.Goals) == 0 {
		score -= r.NoActiveGoalPenalty
	}

	return max(minScore, min(maxScore, score))
}

// ActiveGoals counts goals that have not reached their target.
func ActiveGoals(goals []model.Goal) int {
	n := 0
	for _, g := range goals {
		if g.Active() {
			n++
		}
	}
	return n
}

// HealthLabel buckets a score into a display label.
func HealthLabel(score int) string {
	switch {
	case score >= 80:
		return "Excellent"
	case score >= 60:
		return "Good"
	case score >= 40:
		return "Fair"
	default:
		return "Needs Improvement"
	}
}
