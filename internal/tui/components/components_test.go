package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/theirongolddev/cbudget/internal/model"
	"github.com/theirongolddev/cbudget/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRow(t *testing.T) {
	got := LayoutRow(10, 3)
	want := []int{4, 3, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("LayoutRow(10, 3) = %v, want %v", got, want)
		}
	}
	if LayoutRow(10, 0) != nil {
		t.Fatal("LayoutRow(10, 0) should be nil")
	}
}

func TestCardRowPadsShorterCards(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := lipgloss.Height(shortCard)
	tallLines := lipgloss.Height(tallCard)
	if shortLines >= tallLines {
		t.Fatal("short card should be shorter than tall card")
	}

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")
	if len(lines) != tallLines {
		t.Fatalf("joined height = %d, want %d", len(lines), tallLines)
	}

	for i, line := range lines {
		if w := lipgloss.Width(line); w != 44 {
			t.Errorf("line %d width = %d, want 44", i, w)
		}
		if i >= shortLines && !strings.Contains(line, "\x1b[") {
			t.Errorf("line %d has no ANSI codes; padding would be unstyled", i)
		}
	}
}

func TestMetricCardRow_Width(t *testing.T) {
	row := MetricCardRow([]Metric{
		{Label: "Budget", Value: "$1,000.00"},
		{Label: "Spent", Value: "$400.00", Note: "40%"},
		{Label: "Health", Value: "85"},
	}, 61)

	for i, line := range strings.Split(row, "\n") {
		if w := lipgloss.Width(line); w != 61 {
			t.Errorf("line %d width = %d, want 61", i, w)
		}
	}
}

func TestTabVisualWidthMatchesRender(t *testing.T) {
	for active := range Tabs {
		want := 0
		for i, tab := range Tabs {
			want += TabVisualWidth(tab, i == active)
		}
		want += len(Tabs) - 1 // separators

		bar := RenderTabBar(active, 0)
		if got := lipgloss.Width(bar); got != want {
			t.Fatalf("active=%d: tab bar width = %d, want %d", active, got, want)
		}
	}
}

func TestTabIdxByKey(t *testing.T) {
	if got := TabIdxByKey('g'); got != 2 {
		t.Fatalf("TabIdxByKey('g') = %d, want 2", got)
	}
	if got := TabIdxByKey('z'); got != -1 {
		t.Fatalf("TabIdxByKey('z') = %d, want -1", got)
	}
}

func TestLimitBar_SaturatesOverBudget(t *testing.T) {
	bar := LimitBar("Food & Dining", 125, model.StatusOver, 12, 20)
	if !strings.Contains(bar, "125%") {
		t.Fatalf("LimitBar missing percentage: %q", bar)
	}
	if !strings.Contains(bar, "Food & Dini…") {
		t.Fatalf("LimitBar label not truncated to 12 cells: %q", bar)
	}
}

func TestProgressBar_Clamps(t *testing.T) {
	if got := lipgloss.Width(ProgressBar(1.7, 10)); got != 10+1+4 {
		t.Fatalf("ProgressBar width = %d, want 15", got)
	}
	if !strings.Contains(ProgressBar(-0.2, 10), "  0%") {
		t.Fatal("negative progress should render as 0%")
	}
}

func TestBarChart(t *testing.T) {
	chart := BarChart([]float64{10, 40, 20}, []string{"Mon", "Tue", "Wed"}, theme.Active.Accent, 40, 4)
	lines := strings.Split(chart, "\n")
	if len(lines) != 4+2 {
		t.Fatalf("BarChart lines = %d, want 6:\n%s", len(lines), chart)
	}
	if !strings.Contains(lines[0], "40") {
		t.Errorf("top axis label missing peak: %q", lines[0])
	}
	if !strings.Contains(lines[len(lines)-1], "Tue") {
		t.Errorf("x labels missing: %q", lines[len(lines)-1])
	}

	// Too narrow falls back to a sparkline.
	if got := lipgloss.Width(BarChart([]float64{1, 2, 3}, nil, theme.Active.Accent, 5, 4)); got != 3 {
		t.Errorf("narrow BarChart width = %d, want 3", got)
	}
}

func TestFormatAxis(t *testing.T) {
	tests := map[float64]string{
		0.5:     "0.50",
		42:      "42",
		1500:    "1.5k",
		2000:    "2k",
		3400000: "3.4M",
	}
	for in, want := range tests {
		if got := FormatAxis(in); got != want {
			t.Errorf("FormatAxis(%v) = %q, want %q", in, got, want)
		}
	}
}
