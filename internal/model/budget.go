// Package model defines the budget records and the derived analytics types.
package model

import (
	"sort"

	"github.com/shopspring/decimal"
)

// MaxRecentExpenses caps the displayed expense list. Totals are not capped.
const MaxRecentExpenses = 10

// BudgetCategory is one spending bucket of the monthly budget.
// Spent may exceed Limit; that is how over-budget is detected.
type BudgetCategory struct {
	Limit decimal.Decimal `json:"budget"`
	Spent decimal.Decimal `json:"spent"`
	Color string          `json:"color"`
}

// Expense is a single logged purchase. Expenses are append-only.
type Expense struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Date        Date            `json:"date"`
	Notes       string          `json:"notes,omitempty"`
}

// GoalCategory classifies a savings goal.
type GoalCategory string

// Goal categories.
const (
	GoalSavings   GoalCategory = "savings"
	GoalPurchase  GoalCategory = "purchase"
	GoalEmergency GoalCategory = "emergency"
	GoalEducation GoalCategory = "education"
	GoalTravel    GoalCategory = "travel"
	GoalOther     GoalCategory = "other"
)

// GoalCategories lists every valid goal category in display order.
var GoalCategories = []GoalCategory{
	GoalSavings, GoalEmergency, GoalEducation, GoalTravel, GoalPurchase, GoalOther,
}

// Valid reports whether c is a known goal category.
func (c GoalCategory) Valid() bool {
	for _, gc := range GoalCategories {
		if c == gc {
			return true
		}
	}
	return false
}

// Label returns the human readable name of the category.
func (c GoalCategory) Label() string {
	switch c {
	case GoalSavings:
		return "General Savings"
	case GoalEmergency:
		return "Emergency Fund"
	case GoalEducation:
		return "Education"
	case GoalTravel:
		return "Travel"
	case GoalPurchase:
		return "Major Purchase"
	default:
		return "Other"
	}
}

// Goal is a savings target with a deadline.
type Goal struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Target      decimal.Decimal `json:"target"`
	Current     decimal.Decimal `json:"current"`
	Deadline    Date            `json:"deadline"`
	Description string          `json:"description,omitempty"`
	Category    GoalCategory    `json:"category"`
}

// Active reports whether the goal still needs contributions.
func (g Goal) Active() bool {
	return g.Current.LessThan(g.Target)
}

// Snapshot is the whole persisted budget state.
type Snapshot struct {
	TotalBudget    decimal.Decimal           `json:"totalBudget"`
	TotalSpent     decimal.Decimal           `json:"totalSpent"`
	Categories     map[string]BudgetCategory `json:"categories"`
	RecentExpenses []Expense                 `json:"recentExpenses"`
	Goals          []Goal                    `json:"goals"`
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Categories = make(map[string]BudgetCategory, len(s.Categories))
	for name, c := range s.Categories {
		out.Categories[name] = c
	}
	out.RecentExpenses = append([]Expense(nil), s.RecentExpenses...)
	out.Goals = append([]Goal(nil), s.Goals...)
	return out
}

// CategoryNames returns the category names in sorted order.
func (s Snapshot) CategoryNames() []string {
	names := make([]string, 0, len(s.Categories))
	for name := range s.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SumCategorySpent returns the total spend across all categories.
func (s Snapshot) SumCategorySpent() decimal.Decimal {
	total := decimal.Zero
	for _, c := range s.Categories {
		total = total.Add(c.Spent)
	}
	return total
}

// SumCategoryLimits returns the total allocated across all categories.
func (s Snapshot) SumCategoryLimits() decimal.Decimal {
	total := decimal.Zero
	for _, c := range s.Categories {
		total = total.Add(c.Limit)
	}
	return total
}

// GoalIndex returns the position of the goal with the given ID, or -1.
func (s Snapshot) GoalIndex(id string) int {
	for i, g := range s.Goals {
		if g.ID == id {
			return i
		}
	}
	return -1
}

// DefaultSnapshot returns the seed state used when nothing is stored yet.
func DefaultSnapshot() Snapshot {
	d := decimal.NewFromInt
	return Snapshot{
		TotalBudget: d(99600),
		TotalSpent:  d(56440),
		Categories: map[string]BudgetCategory{
			"Food & Dining":    {Limit: d(33200), Spent: d(23240), Color: "blue"},
			"Transportation":   {Limit: d(16600), Spent: d(12450), Color: "green"},
			"Entertainment":    {Limit: d(12450), Spent: d(9960), Color: "purple"},
			"Books & Supplies": {Limit: d(20750), Spent: d(6640), Color: "orange"},
			"Personal Care":    {Limit: d(8300), Spent: d(4150), Color: "pink"},
			"Other":            {Limit: d(8300), Spent: decimal.Zero, Color: "gray"},
		},
		RecentExpenses: []Expense{
			{ID: "1", Description: "Lunch at cafeteria", Amount: decimal.RequireFromString("1037.5"), Category: "Food & Dining", Date: NewDate(2024, 1, 15)},
			{ID: "2", Description: "Bus pass", Amount: d(3735), Category: "Transportation", Date: NewDate(2024, 1, 14)},
			{ID: "3", Description: "Movie ticket", Amount: d(1245), Category: "Entertainment", Date: NewDate(2024, 1, 13)},
			{ID: "4", Description: "Textbook", Amount: d(5395), Category: "Books & Supplies", Date: NewDate(2024, 1, 12)},
		},
		Goals: []Goal{
			{
				ID:          "1",
				Name:        "Emergency Fund",
				Target:      d(41500),
				Current:     d(12450),
				Deadline:    NewDate(2024, 6, 1),
				Category:    GoalEmergency,
				Description: "Build a safety net for unexpected expenses",
			},
			{
				ID:          "2",
				Name:        "Spring Break Trip",
				Target:      d(66400),
				Current:     d(16600),
				Deadline:    NewDate(2024, 3, 15),
				Category:    GoalTravel,
				Description: "Save for spring break vacation",
			},
		},
	}
}
