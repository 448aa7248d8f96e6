// Package analytics derives category status, goal pacing, the health score and
// advisory insights from a budget snapshot. Every function is pure: callers pass
// the snapshot and the current time explicitly.
package analytics

import (
	"github.com/theirongolddev/cbudget/internal/model"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)

	// warningRatio is the share of a category limit above which spend is flagged.
	warningRatio = decimal.RequireFromString("0.8")
)

// AnalyzeCategory computes the spend ratio, remaining amount and status of one category.
// A zero limit yields a 0% ratio instead of an undefined value.
func AnalyzeCategory(name string, c model.BudgetCategory) model.CategoryAnalysis {
	ca := model.CategoryAnalysis{
		Name:      name,
		Limit:     c.Limit,
		Spent:     c.Spent,
		Remaining: c.Limit.Sub(c.Spent),
		Status:    Classify(c.Spent, c.Limit),
	}
	if !c.Limit.IsZero() {
		ca.SpendRatioPercent = c.Spent.Div(c.Limit).Mul(hundred).InexactFloat64()
	}
	return ca
}

// Classify returns the status for the given spend against limit. First match wins:
// over when spent exceeds the limit, warning above 80% of it, good otherwise.
func Classify(spent, limit decimal.Decimal) model.CategoryStatus {
	switch {
	case spent.GreaterThan(limit):
		return model.StatusOver
	case spent.GreaterThan(limit.Mul(warningRatio)):
		return model.StatusWarning
	default:
		return model.StatusGood
	}
}

// AnalyzeCategories analyzes every category of s, ordered by name.
func AnalyzeCategories(s model.Snapshot) []model.CategoryAnalysis {
	names := s.CategoryNames()
	out := make([]model.CategoryAnalysis, 0, len(names))
	for _, name := range names {
		out = append(out, AnalyzeCategory(name, s.Categories[name]))
	}
	return out
}

// CountStatus returns how many analyses carry the given status.
func CountStatus(cats []model.CategoryAnalysis, status model.CategoryStatus) int {
	n := 0
	for _, c := range cats {
		if c.Status == status {
			n++
		}
	}
	return n
}
