package analytics

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/theirongolddev/cbudget/internal/model"
)

func insightFixture(t *testing.T) model.Snapshot {
	t.Helper()
	return model.Snapshot{
		TotalBudget: dec(t, "1000"),
		TotalSpent:  dec(t, "900"),
		Categories: map[string]model.BudgetCategory{
			"Food": {Limit: dec(t, "400"), Spent: dec(t, "600")},
			"Fun":  {Limit: dec(t, "400"), Spent: dec(t, "300")},
		},
		RecentExpenses: []model.Expense{
			{ID: "e1", Description: "Groceries", Amount: dec(t, "1200"), Category: "Food", Date: model.NewDate(2025, 3, 30)},
		},
		Goals: []model.Goal{
			{ID: "g1", Name: "Bike", Target: dec(t, "100"), Current: dec(t, "0"), Deadline: model.NewDate(2025, 4, 20)},
		},
	}
}

func TestInsights_AllRulesInOrder(t *testing.T) {
	now := mustTime(t, "2025-03-31T12:00:00Z")
	got := slices.Collect(Insights(NewInput(insightFixture(t), now), DefaultThresholds()))

	want := []model.Insight{
		{
			Kind:    model.InsightWarning,
			Title:   "High Budget Utilization",
			Message: "You've used 90.0% of your monthly budget. Consider reducing spending in high-cost categories.",
		},
		{
			Kind:    model.InsightInfo,
			Title:   "Category Concentration",
			Message: "Food accounts for 66.7% of your spending. Consider if this aligns with your priorities.",
		},
		{
			Kind:    model.InsightWarning,
			Title:   "Daily Spending Alert",
			Message: "Your average daily spending ($40.00) exceeds your daily budget target ($33.33).",
		},
		{
			Kind:    model.InsightSuccess,
			Title:   "Achievable Goals",
			Message: "You have 1 goal(s) that are well within reach with consistent saving.",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Insights mismatch (-want +got):\n%s", diff)
	}
}

func TestInsights_StopsWhenConsumerStops(t *testing.T) {
	now := mustTime(t, "2025-03-31T12:00:00Z")
	n := 0
	for range Insights(NewInput(insightFixture(t), now), DefaultThresholds()) {
		n++
		break
	}
	if n != 1 {
		t.Fatalf("consumed %d insights, want 1", n)
	}
}

func TestInsights_EmptySnapshot(t *testing.T) {
	now := mustTime(t, "2025-03-31T12:00:00Z")
	got := slices.Collect(Insights(NewInput(model.Snapshot{}, now), DefaultThresholds()))
	if len(got) != 0 {
		t.Fatalf("len(insights) = %d, want 0: %+v", len(got), got)
	}
}

func TestHighUtilization_ExclusiveBoundary(t *testing.T) {
	th := DefaultThresholds()
	s := model.Snapshot{TotalBudget: dec(t, "1000"), TotalSpent: dec(t, "850")}
	if _, ok := highUtilization(Input{Snapshot: s, Utilization: Utilization(s)}, th); ok {
		t.Errorf("rule fired at exactly 85%%")
	}

	s.TotalSpent = dec(t, "851")
	ins, ok := highUtilization(Input{Snapshot: s, Utilization: Utilization(s)}, th)
	if !ok {
		t.Fatalf("rule did not fire at 85.1%%")
	}
	want := "You've used 85.1% of your monthly budget. Consider reducing spending in high-cost categories."
	if ins.Message != want {
		t.Errorf("Message = %q, want %q", ins.Message, want)
	}
}

func TestCategoryConcentration(t *testing.T) {
	th := DefaultThresholds()
	s := model.Snapshot{
		TotalBudget: dec(t, "1000"),
		TotalSpent:  dec(t, "550"),
		Categories: map[string]model.BudgetCategory{
			"Rent": {Limit: dec(t, "500"), Spent: dec(t, "450")},
			"Food": {Limit: dec(t, "500"), Spent: dec(t, "100")},
		},
	}
	ins, ok := categoryConcentration(Input{Snapshot: s}, th)
	if !ok {
		t.Fatal("rule did not fire")
	}
	want := "Rent accounts for 81.8% of your spending. Consider if this aligns with your priorities."
	if ins.Message != want {
		t.Errorf("Message = %q, want %q", ins.Message, want)
	}

	s.Categories["Rent"] = model.BudgetCategory{Limit: dec(t, "500"), Spent: dec(t, "400")}
	if _, ok := categoryConcentration(Input{Snapshot: s}, th); ok {
		t.Error("rule fired with top category at exactly 40% of the budget")
	}
}

func TestDailySpendingAlert_UsesTrailingWindow(t *testing.T) {
	th := DefaultThresholds()
	now := mustTime(t, "2025-03-31T12:00:00Z")
	s := model.Snapshot{
		TotalBudget: dec(t, "900"),
		RecentExpenses: []model.Expense{
			{Amount: dec(t, "900"), Date: model.NewDate(2025, 3, 30)},
			{Amount: dec(t, "60"), Date: model.NewDate(2025, 3, 2)},
			// Midnight of the first falls before the window start at noon.
			{Amount: dec(t, "500"), Date: model.NewDate(2025, 3, 1)},
			{Amount: dec(t, "5000"), Date: model.NewDate(2025, 2, 1)},
		},
	}
	ins, ok := dailySpendingAlert(Input{Snapshot: s, Now: now}, th)
	if !ok {
		t.Fatal("rule did not fire")
	}
	want := "Your average daily spending ($32.00) exceeds your daily budget target ($30.00)."
	if ins.Message != want {
		t.Errorf("Message = %q, want %q", ins.Message, want)
	}

	th.Currency = "₹"
	ins, _ = dailySpendingAlert(Input{Snapshot: s, Now: now}, th)
	want = "Your average daily spending (₹32.00) exceeds your daily budget target (₹30.00)."
	if ins.Message != want {
		t.Errorf("Message = %q, want %q", ins.Message, want)
	}
}

func TestCountAchievable(t *testing.T) {
	now := mustTime(t, "2025-01-01T00:00:00Z")
	goals := AnalyzeGoals([]model.Goal{
		{ID: "near", Target: dec(t, "150"), Deadline: model.NewDate(2025, 1, 11)},
		{ID: "big", Target: dec(t, "1000"), Deadline: model.NewDate(2025, 3, 2)},
		{ID: "late", Target: dec(t, "100"), Deadline: model.NewDate(2024, 12, 1)},
	}, now)

	if got := CountAchievable(goals, dec(t, "1000"), dec(t, "0.2")); got != 1 {
		t.Fatalf("CountAchievable = %d, want 1", got)
	}
}

func TestDailySpending_GroupsAndSorts(t *testing.T) {
	now := mustTime(t, "2025-03-31T00:00:00Z")
	expenses := []model.Expense{
		{Amount: dec(t, "5"), Date: model.NewDate(2025, 3, 20)},
		{Amount: dec(t, "7"), Date: model.NewDate(2025, 3, 10)},
		{Amount: dec(t, "3"), Date: model.NewDate(2025, 3, 20)},
	}
	got := DailySpending(expenses, now, 30)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if !got[0].Date.Equal(model.NewDate(2025, 3, 10)) || !got[0].Amount.Equal(dec(t, "7")) {
		t.Errorf("got[0] = %+v, want 2025-03-10 7", got[0])
	}
	if !got[1].Amount.Equal(dec(t, "8")) {
		t.Errorf("got[1].Amount = %s, want 8", got[1].Amount)
	}
}

func TestCategoryRanking_TiesByName(t *testing.T) {
	s := model.Snapshot{Categories: map[string]model.BudgetCategory{
		"b": {Spent: dec(t, "10")},
		"a": {Spent: dec(t, "10")},
		"c": {Spent: dec(t, "20")},
	}}
	var names []string
	for _, cs := range CategoryRanking(s) {
		names = append(names, cs.Name)
	}
	if diff := cmp.Diff([]string{"c", "a", "b"}, names); diff != "" {
		t.Errorf("ranking mismatch (-want +got):\n%s", diff)
	}
}
