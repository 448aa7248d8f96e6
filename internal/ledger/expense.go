package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/cbudget/internal/model"
)

// ExpenseInput is the user-supplied part of a new expense.
type ExpenseInput struct {
	Description string
	Amount      decimal.Decimal
	Category    string
	// Date defaults to today when zero.
	Date  model.Date
	Notes string
}

func validateExpense(in ExpenseInput) error {
	if strings.TrimSpace(in.Description) == "" {
		return invalid("description", "must not be empty")
	}
	if !in.Amount.IsPositive() {
		return invalid("amount", "must be greater than zero")
	}
	if strings.TrimSpace(in.Category) == "" {
		return invalid("category", "must not be empty")
	}
	return nil
}

// AddExpense records a new expense at the head of the recent list and adds
// its amount to the category spend. Only the newest MaxRecentExpenses are kept;
// totals include every expense ever added.
func (l *Ledger) AddExpense(ctx context.Context, in ExpenseInput) (model.Expense, error) {
	if err := validateExpense(in); err != nil {
		return model.Expense{}, err
	}

	e := model.Expense{
		ID:          l.newID(),
		Description: strings.TrimSpace(in.Description),
		Amount:      in.Amount,
		Category:    in.Category,
		Date:        in.Date,
		Notes:       strings.TrimSpace(in.Notes),
	}
	if e.Date.IsZero() {
		e.Date = l.today()
	}

	err := l.mutate(ctx, "add expense", func(s *model.Snapshot) error {
		cat, ok := s.Categories[e.Category]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownCategory, e.Category)
		}
		cat.Spent = cat.Spent.Add(e.Amount)
		s.Categories[e.Category] = cat

		s.RecentExpenses = append([]model.Expense{e}, s.RecentExpenses...)
		if len(s.RecentExpenses) > model.MaxRecentExpenses {
			s.RecentExpenses = s.RecentExpenses[:model.MaxRecentExpenses]
		}
		return nil
	})
	if err != nil && !isPersist(err) {
		return model.Expense{}, err
	}
	return e, err
}
