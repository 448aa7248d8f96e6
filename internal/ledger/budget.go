package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/cbudget/internal/model"
)

// palette is handed out to new categories in order.
var palette = []string{"blue", "green", "purple", "orange", "pink", "gray", "red", "yellow", "teal", "indigo"}

// BudgetInput replaces the monthly total and category limits in one step.
type BudgetInput struct {
	Total  decimal.Decimal
	Limits map[string]decimal.Decimal
	// Prune removes categories that are missing from Limits.
	Prune bool
}

// UpdateBudget sets the total budget and category limits. Existing categories
// keep their spend and color; new ones start with no spend.
func (l *Ledger) UpdateBudget(ctx context.Context, in BudgetInput) error {
	if in.Total.IsNegative() {
		return invalid("total", "must not be negative")
	}
	for name, limit := range in.Limits {
		if strings.TrimSpace(name) == "" {
			return invalid("category", "must not be empty")
		}
		if limit.IsNegative() {
			return invalid("limit", fmt.Sprintf("%s must not be negative", name))
		}
	}

	return l.mutate(ctx, "update budget", func(s *model.Snapshot) error {
		s.TotalBudget = in.Total
		for _, name := range sortedKeys(in.Limits) {
			cat, ok := s.Categories[name]
			if !ok {
				cat = model.BudgetCategory{Color: nextColor(s.Categories)}
			}
			cat.Limit = in.Limits[name]
			s.Categories[name] = cat
		}
		if in.Prune {
			for name := range s.Categories {
				if _, ok := in.Limits[name]; !ok {
					delete(s.Categories, name)
				}
			}
		}
		return nil
	})
}

// SetTotalBudget changes only the monthly total.
func (l *Ledger) SetTotalBudget(ctx context.Context, total decimal.Decimal) error {
	if total.IsNegative() {
		return invalid("total", "must not be negative")
	}
	return l.mutate(ctx, "set total budget", func(s *model.Snapshot) error {
		s.TotalBudget = total
		return nil
	})
}

// SetCategoryLimit changes the limit of an existing category.
func (l *Ledger) SetCategoryLimit(ctx context.Context, name string, limit decimal.Decimal) error {
	if limit.IsNegative() {
		return invalid("limit", "must not be negative")
	}
	return l.mutate(ctx, "set category limit", func(s *model.Snapshot) error {
		cat, ok := s.Categories[name]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownCategory, name)
		}
		cat.Limit = limit
		s.Categories[name] = cat
		return nil
	})
}

// AddCategory creates an empty category with the given limit.
func (l *Ledger) AddCategory(ctx context.Context, name string, limit decimal.Decimal) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid("name", "must not be empty")
	}
	if limit.IsNegative() {
		return invalid("limit", "must not be negative")
	}
	return l.mutate(ctx, "add category", func(s *model.Snapshot) error {
		if _, ok := s.Categories[name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateCategory, name)
		}
		s.Categories[name] = model.BudgetCategory{Limit: limit, Color: nextColor(s.Categories)}
		return nil
	})
}

// RemoveCategory deletes a category. Its spend leaves the total; recent
// expenses that reference it are kept as they are.
func (l *Ledger) RemoveCategory(ctx context.Context, name string) error {
	return l.mutate(ctx, "remove category", func(s *model.Snapshot) error {
		if _, ok := s.Categories[name]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownCategory, name)
		}
		delete(s.Categories, name)
		return nil
	})
}

func nextColor(cats map[string]model.BudgetCategory) string {
	used := make(map[string]bool, len(cats))
	for _, c := range cats {
		used[c.Color] = true
	}
	for _, color := range palette {
		if !used[color] {
			return color
		}
	}
	return "gray"
}

func isPersist(err error) bool {
	return errors.Is(err, ErrPersist)
}
