package analytics

import (
	"fmt"

	"github.com/theirongolddev/cbudget/internal/model"

	"github.com/shopspring/decimal"
)

// SavingsRate returns the unspent share of the total budget as a percentage,
// or 0 when there is no budget.
func SavingsRate(s model.Snapshot) float64 {
	if s.TotalBudget.IsZero() {
		return 0
	}
	return s.TotalBudget.Sub(s.TotalSpent).Div(s.TotalBudget).Mul(hundred).InexactFloat64()
}

// AverageExpense returns the mean amount of the given expenses.
func AverageExpense(expenses []model.Expense) decimal.Decimal {
	if len(expenses) == 0 {
		return decimal.Zero
	}
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total.Div(decimal.NewFromInt(int64(len(expenses))))
}

// Recommendations returns plain-language spending advice for s. Categories with
// no limit are never reported as under-used.
func Recommendations(s model.Snapshot, cats []model.CategoryAnalysis, th Thresholds) []string {
	var recs []string

	if !s.TotalBudget.IsZero() && SavingsRate(s) < th.SavingsRateFloor {
		recs = append(recs, "Consider reducing expenses in high-spending categories to improve your savings rate.")
	}

	for _, c := range cats {
		if c.SpendRatioPercent > th.HighSpendPercent {
			recs = append(recs, fmt.Sprintf("You're spending heavily on %s. Consider setting stricter limits.", c.Name))
		}
	}
	for _, c := range cats {
		if c.Limit.IsPositive() && c.SpendRatioPercent < th.LowSpendPercent {
			recs = append(recs, fmt.Sprintf("You have room to spend more on %s if needed.", c.Name))
		}
	}

	if AverageExpense(s.RecentExpenses).GreaterThan(th.HighAverageExpense) {
		recs = append(recs, "Your average expense is quite high. Try to find more budget-friendly alternatives.")
	}

	return recs
}
