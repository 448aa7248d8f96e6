package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/cbudget/internal/cli"
	"github.com/theirongolddev/cbudget/internal/model"
	"github.com/theirongolddev/cbudget/internal/tui/components"
	"github.com/theirongolddev/cbudget/internal/tui/theme"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	r := a.report

	remainingColor := t.TextPrimary
	if r.Remaining.IsNegative() {
		remainingColor = t.Red
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Budget", Value: cli.FormatMoney(r.TotalBudget, a.cur), Note: fmt.Sprintf("%d categories", len(r.Categories))},
		{Label: "Spent", Value: cli.FormatMoney(r.TotalSpent, a.cur), Note: cli.FormatPercent(r.UtilizationPercent) + " used"},
		{Label: "Remaining", Value: cli.FormatMoney(r.Remaining, a.cur), Color: remainingColor},
		{Label: "Health", Value: fmt.Sprintf("%d/100", r.HealthScore), Note: r.HealthLabel, Color: t.Health(r.HealthScore)},
	}, cw))
	b.WriteString("\n")

	catCard := components.ContentCard("Categories", a.categoryBars(cw/2), cw/2)
	goalCard := components.ContentCard("Goals", a.goalSummary(cw-cw/2), cw-cw/2)
	if a.isCompactLayout() {
		catCard = components.ContentCard("Categories", a.categoryBars(cw), cw)
		goalCard = components.ContentCard("Goals", a.goalSummary(cw), cw)
		b.WriteString(catCard)
		b.WriteString("\n")
		b.WriteString(goalCard)
	} else {
		b.WriteString(components.CardRow([]string{catCard, goalCard}))
	}
	b.WriteString("\n")

	if len(r.Insights) > 0 {
		b.WriteString(components.ContentCard("Top insight", renderInsight(r.Insights[0], components.CardInnerWidth(cw)), cw))
	}
	return b.String()
}

func (a App) categoryBars(outerW int) string {
	inner := components.CardInnerWidth(outerW)
	labelW := min(16, inner/3)
	barW := max(inner-labelW-7, 4)

	if len(a.report.Categories) == 0 {
		return mutedText("No categories yet.")
	}
	lines := make([]string, 0, len(a.report.Categories))
	for _, c := range a.report.Categories {
		lines = append(lines, components.LimitBar(c.Name, c.SpendRatioPercent, c.Status, labelW, barW))
	}
	return strings.Join(lines, "\n")
}

func (a App) goalSummary(outerW int) string {
	t := theme.Active
	inner := components.CardInnerWidth(outerW)

	if len(a.report.Goals) == 0 {
		return mutedText("No goals yet. Press n to add one.")
	}

	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	metaStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var lines []string
	for _, g := range a.report.Goals {
		lines = append(lines,
			nameStyle.Render(truncStr(g.Goal.Name, inner-14))+metaStyle.Render("  "+cli.FormatDaysLeft(g.DaysLeft)),
			components.ProgressBar(g.ProgressPercent/100, max(inner-6, 4)))
	}
	return strings.Join(lines, "\n")
}

func renderInsight(in model.Insight, width int) string {
	t := theme.Active

	color := t.Blue
	marker := "i"
	switch in.Kind {
	case model.InsightWarning:
		color, marker = t.Orange, "!"
	case model.InsightSuccess:
		color, marker = t.Green, "✓"
	}

	head := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	body := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Width(max(width-2, 10))

	return head.Render(marker+" "+in.Title) + "\n" + body.Render("  "+in.Message)
}

func mutedText(s string) string {
	t := theme.Active
	return lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render(s)
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
