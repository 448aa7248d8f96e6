package analytics

import (
	"testing"

	"github.com/theirongolddev/cbudget/internal/model"
)

func TestAnalyzeCategory_ZeroLimitRatio(t *testing.T) {
	for _, spent := range []string{"0", "10", "9999.99"} {
		ca := AnalyzeCategory("Other", model.BudgetCategory{Limit: dec(t, "0"), Spent: dec(t, spent)})
		if ca.SpendRatioPercent != 0 {
			t.Errorf("spent=%s: SpendRatioPercent = %v, want 0", spent, ca.SpendRatioPercent)
		}
	}
}

func TestAnalyzeCategory_RatioAndRemaining(t *testing.T) {
	ca := AnalyzeCategory("Food", model.BudgetCategory{Limit: dec(t, "400"), Spent: dec(t, "500")})
	if ca.SpendRatioPercent != 125 {
		t.Errorf("SpendRatioPercent = %v, want 125", ca.SpendRatioPercent)
	}
	if !ca.Remaining.Equal(dec(t, "-100")) {
		t.Errorf("Remaining = %s, want -100", ca.Remaining)
	}
	if ca.Status != model.StatusOver {
		t.Errorf("Status = %s, want over", ca.Status)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		spent, limit string
		want         model.CategoryStatus
	}{
		{"0", "100", model.StatusGood},
		{"80", "100", model.StatusGood},
		{"80.01", "100", model.StatusWarning},
		{"100", "100", model.StatusWarning},
		{"100.01", "100", model.StatusOver},
		{"1", "0", model.StatusOver},
		{"0", "0", model.StatusGood},
	}
	for _, tt := range tests {
		got := Classify(dec(t, tt.spent), dec(t, tt.limit))
		if got != tt.want {
			t.Errorf("Classify(%s, %s) = %s, want %s", tt.spent, tt.limit, got, tt.want)
		}
	}
}

func TestAnalyzeCategories_SortedByName(t *testing.T) {
	s := model.Snapshot{Categories: map[string]model.BudgetCategory{
		"Transport": {Limit: dec(t, "10")},
		"Books":     {Limit: dec(t, "10")},
		"Food":      {Limit: dec(t, "10")},
	}}
	cats := AnalyzeCategories(s)
	want := []string{"Books", "Food", "Transport"}
	for i, c := range cats {
		if c.Name != want[i] {
			t.Fatalf("cats[%d].Name = %q, want %q", i, c.Name, want[i])
		}
	}
}
