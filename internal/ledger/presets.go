package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/cbudget/internal/model"
)

// DefaultCategories is the category list offered by the budget editor.
var DefaultCategories = []string{
	"Food & Dining",
	"Transportation",
	"Entertainment",
	"Books & Supplies",
	"Personal Care",
	"Housing",
	"Healthcare",
	"Other",
}

var allocationShares = map[string]string{
	"Food & Dining":    "0.25",
	"Transportation":   "0.15",
	"Entertainment":    "0.1",
	"Books & Supplies": "0.2",
	"Personal Care":    "0.08",
	"Housing":          "0.15",
	"Healthcare":       "0.05",
	"Other":            "0.02",
}

// SuggestAllocation splits a monthly income across DefaultCategories, rounded
// to whole units.
func SuggestAllocation(income decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(allocationShares))
	for name, share := range allocationShares {
		out[name] = income.Mul(decimal.RequireFromString(share)).Round(0)
	}
	return out
}

// GoalTemplate is a canned goal offered for quick creation.
type GoalTemplate struct {
	Name        string
	Target      decimal.Decimal
	Category    model.GoalCategory
	Description string
}

// templateHorizon is how far out a template goal's deadline is set.
const templateHorizon = 90 * 24 * time.Hour

// Input turns the template into a goal input due 90 days after now.
func (t GoalTemplate) Input(now time.Time) GoalInput {
	return GoalInput{
		Name:        t.Name,
		Target:      t.Target,
		Current:     decimal.Zero,
		Deadline:    model.DateOf(now.Add(templateHorizon)),
		Description: t.Description,
		Category:    t.Category,
	}
}

// GoalTemplates are the built-in goal starters.
var GoalTemplates = []GoalTemplate{
	{Name: "Emergency Fund", Target: decimal.NewFromInt(500), Category: model.GoalEmergency, Description: "Build a safety net for unexpected expenses"},
	{Name: "Spring Break Trip", Target: decimal.NewFromInt(800), Category: model.GoalTravel, Description: "Save for spring break vacation"},
	{Name: "New Laptop", Target: decimal.NewFromInt(1200), Category: model.GoalPurchase, Description: "Save for a new laptop for studies"},
	{Name: "Textbooks", Target: decimal.NewFromInt(300), Category: model.GoalEducation, Description: "Budget for next semester's textbooks"},
	{Name: "Summer Course", Target: decimal.NewFromInt(600), Category: model.GoalEducation, Description: "Save for summer course tuition"},
}

// QuickExpense is a one-tap expense preset.
type QuickExpense struct {
	Name     string
	Amount   decimal.Decimal
	Category string
}

// Input converts the preset into an expense dated today.
func (q QuickExpense) Input() ExpenseInput {
	return ExpenseInput{Description: q.Name, Amount: q.Amount, Category: q.Category}
}

// QuickExpenses are common student purchases.
var QuickExpenses = []QuickExpense{
	{Name: "Coffee", Amount: decimal.NewFromInt(5), Category: "Food & Dining"},
	{Name: "Lunch", Amount: decimal.NewFromInt(12), Category: "Food & Dining"},
	{Name: "Bus Fare", Amount: decimal.NewFromInt(3), Category: "Transportation"},
	{Name: "Movie Ticket", Amount: decimal.NewFromInt(15), Category: "Entertainment"},
	{Name: "Textbook", Amount: decimal.NewFromInt(50), Category: "Books & Supplies"},
	{Name: "Snacks", Amount: decimal.NewFromInt(8), Category: "Food & Dining"},
}

// QuickAddAmounts are the one-tap goal contributions.
var QuickAddAmounts = []decimal.Decimal{
	decimal.NewFromInt(10),
	decimal.NewFromInt(25),
	decimal.NewFromInt(50),
	decimal.NewFromInt(100),
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
