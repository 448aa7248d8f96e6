package analytics

import (
	"sort"
	"time"

	"github.com/theirongolddev/cbudget/internal/model"

	"github.com/shopspring/decimal"
)

// WindowStart returns the instant days*24h before now.
func WindowStart(now time.Time, days int) time.Time {
	return now.Add(-time.Duration(days) * 24 * time.Hour)
}

// FilterWindow returns the expenses dated on or after the start of the trailing
// window. The window is relative to now, not aligned to calendar months.
func FilterWindow(expenses []model.Expense, now time.Time, days int) []model.Expense {
	start := WindowStart(now, days)

	var result []model.Expense
	for _, e := range expenses {
		if e.Date.Time().Before(start) {
			continue
		}
		result = append(result, e)
	}
	return result
}

// DailySpending sums expenses per day inside the trailing window, oldest day first.
// Only days with spending are returned.
func DailySpending(expenses []model.Expense, now time.Time, days int) []model.DailySpend {
	dayMap := make(map[model.Date]decimal.Decimal)
	for _, e := range FilterWindow(expenses, now, days) {
		dayMap[e.Date] = dayMap[e.Date].Add(e.Amount)
	}

	out := make([]model.DailySpend, 0, len(dayMap))
	for d, amt := range dayMap {
		out = append(out, model.DailySpend{Date: d, Amount: amt})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// AverageDailySpending divides spending inside the window by the full window
// length, so quiet days count as zero.
func AverageDailySpending(expenses []model.Expense, now time.Time, days int) decimal.Decimal {
	if days <= 0 {
		return decimal.Zero
	}
	total := decimal.Zero
	for _, e := range FilterWindow(expenses, now, days) {
		total = total.Add(e.Amount)
	}
	return total.Div(decimal.NewFromInt(int64(days)))
}

// CategoryRanking lists categories by spend, highest first. Ties break by name.
func CategoryRanking(s model.Snapshot) []model.CategorySpend {
	out := make([]model.CategorySpend, 0, len(s.Categories))
	for name, c := range s.Categories {
		out = append(out, model.CategorySpend{Name: name, Amount: c.Spent})
	}
	sortSpend(out)
	return out
}

// ExpenseTotalsByCategory groups expenses by category, highest total first.
func ExpenseTotalsByCategory(expenses []model.Expense) []model.CategorySpend {
	totals := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}

	out := make([]model.CategorySpend, 0, len(totals))
	for name, amt := range totals {
		out = append(out, model.CategorySpend{Name: name, Amount: amt})
	}
	sortSpend(out)
	return out
}

func sortSpend(s []model.CategorySpend) {
	sort.Slice(s, func(i, j int) bool {
		if !s[i].Amount.Equal(s[j].Amount) {
			return s[i].Amount.GreaterThan(s[j].Amount)
		}
		return s[i].Name < s[j].Name
	})
}
