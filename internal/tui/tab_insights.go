package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/cbudget/internal/analytics"
	"github.com/theirongolddev/cbudget/internal/cli"
	"github.com/theirongolddev/cbudget/internal/tui/components"
	"github.com/theirongolddev/cbudget/internal/tui/theme"
)

func (a App) renderInsightsTab(cw int) string {
	t := theme.Active
	r := a.report
	inner := components.CardInnerWidth(cw)

	var b strings.Builder

	var ins []string
	for _, in := range r.Insights {
		ins = append(ins, renderInsight(in, inner))
	}
	if len(ins) == 0 {
		ins = append(ins, mutedText("Nothing to flag right now."))
	}
	b.WriteString(components.ContentCard("Insights", strings.Join(ins, "\n\n"), cw))
	b.WriteString("\n")

	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Savings rate", Value: cli.FormatPercent(r.SavingsRatePercent)},
		{Label: "Avg daily spend", Value: cli.FormatMoney(r.AvgDailySpending, a.cur), Note: fmt.Sprintf("last %d days", a.opts.Thresholds.WindowDays)},
		{Label: "Avg expense", Value: cli.FormatMoney(analytics.AverageExpense(a.snap.RecentExpenses), a.cur)},
	}, cw))
	b.WriteString("\n")

	if len(r.DailySpending) > 0 {
		values := make([]float64, len(r.DailySpending))
		labels := make([]string, len(r.DailySpending))
		for i, d := range r.DailySpending {
			values[i] = d.Amount.InexactFloat64()
			labels[i] = d.Date.Time().Format("Jan 2")
		}
		chart := components.BarChart(values, labels, t.Accent, inner, 6)
		b.WriteString(components.ContentCard("Daily spending", chart, cw))
		b.WriteString("\n")
	}

	if len(r.Recommendations) > 0 {
		bullet := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Render("•")
		body := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Width(max(inner-2, 10))
		recs := make([]string, 0, len(r.Recommendations))
		for _, rec := range r.Recommendations {
			recs = append(recs, bullet+" "+body.Render(rec))
		}
		b.WriteString(components.ContentCard("Recommendations", strings.Join(recs, "\n"), cw))
	}
	return b.String()
}
