package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/cbudget/internal/model"
)

// GoalInput is the editable part of a goal.
type GoalInput struct {
	Name        string
	Target      decimal.Decimal
	Current     decimal.Decimal
	Deadline    model.Date
	Description string
	// Category defaults to savings when empty.
	Category model.GoalCategory
}

func (in GoalInput) validate(today model.Date, checkDeadline bool) error {
	if strings.TrimSpace(in.Name) == "" {
		return invalid("name", "must not be empty")
	}
	if !in.Target.IsPositive() {
		return invalid("target", "must be greater than zero")
	}
	if in.Current.IsNegative() {
		return invalid("current", "must not be negative")
	}
	if in.Deadline.IsZero() {
		return invalid("deadline", "is required")
	}
	if checkDeadline && in.Deadline.Before(today) {
		return invalid("deadline", "must not be in the past")
	}
	if in.Category != "" && !in.Category.Valid() {
		return invalid("category", fmt.Sprintf("unknown goal category %q", in.Category))
	}
	return nil
}

func (in GoalInput) apply(g *model.Goal) {
	g.Name = strings.TrimSpace(in.Name)
	g.Target = in.Target
	g.Current = in.Current
	g.Deadline = in.Deadline
	g.Description = strings.TrimSpace(in.Description)
	g.Category = in.Category
	if g.Category == "" {
		g.Category = model.GoalSavings
	}
}

// AddGoal appends a new goal.
func (l *Ledger) AddGoal(ctx context.Context, in GoalInput) (model.Goal, error) {
	if err := in.validate(l.today(), true); err != nil {
		return model.Goal{}, err
	}

	g := model.Goal{ID: l.newID()}
	in.apply(&g)

	err := l.mutate(ctx, "add goal", func(s *model.Snapshot) error {
		s.Goals = append(s.Goals, g)
		return nil
	})
	return g, err
}

// UpdateGoal replaces the editable fields of goal id. The deadline is only
// required to be in the future when it changes.
func (l *Ledger) UpdateGoal(ctx context.Context, id string, in GoalInput) (model.Goal, error) {
	var updated model.Goal
	err := l.mutate(ctx, "update goal", func(s *model.Snapshot) error {
		i := s.GoalIndex(id)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrGoalNotFound, id)
		}
		changed := !in.Deadline.Equal(s.Goals[i].Deadline)
		if err := in.validate(l.today(), changed); err != nil {
			return err
		}
		in.apply(&s.Goals[i])
		updated = s.Goals[i]
		return nil
	})
	return updated, err
}

// DeleteGoal removes goal id.
func (l *Ledger) DeleteGoal(ctx context.Context, id string) error {
	return l.mutate(ctx, "delete goal", func(s *model.Snapshot) error {
		i := s.GoalIndex(id)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrGoalNotFound, id)
		}
		s.Goals = append(s.Goals[:i], s.Goals[i+1:]...)
		return nil
	})
}

// QuickAdd contributes amount to goal id. The result never exceeds the target,
// so a goal edited above its target is pulled back down to it.
func (l *Ledger) QuickAdd(ctx context.Context, id string, amount decimal.Decimal) (model.Goal, error) {
	if !amount.IsPositive() {
		return model.Goal{}, invalid("amount", "must be greater than zero")
	}

	var updated model.Goal
	err := l.mutate(ctx, "fund goal", func(s *model.Snapshot) error {
		i := s.GoalIndex(id)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrGoalNotFound, id)
		}
		g := &s.Goals[i]
		g.Current = decimal.Min(g.Current.Add(amount), g.Target)
		updated = *g
		return nil
	})
	return updated, err
}
