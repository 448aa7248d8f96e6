package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/cbudget/internal/cli"
	"github.com/theirongolddev/cbudget/internal/tui/components"
	"github.com/theirongolddev/cbudget/internal/tui/theme"
)

func (a App) renderGoalsTab(cw int) string {
	t := theme.Active
	goals := a.report.Goals

	if len(goals) == 0 {
		return components.ContentCard("Goals", mutedText("No goals yet. Press n to create one."), cw)
	}

	listW := cw
	if !a.isCompactLayout() {
		listW = cw * 3 / 5
	}
	inner := components.CardInnerWidth(listW)

	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover).Bold(true)
	metaStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	for i, g := range goals {
		style := rowStyle
		prefix := "  "
		if i == a.cursor {
			style = selStyle
			prefix = "▸ "
		}
		b.WriteString(style.Render(prefix + truncStr(g.Goal.Name, inner-2)))
		b.WriteString("\n  ")
		b.WriteString(components.ProgressBar(g.ProgressPercent/100, max(inner-8, 4)))
		b.WriteString("\n")
		b.WriteString(metaStyle.Render(fmt.Sprintf("  %s of %s · %s",
			cli.FormatMoney(g.Goal.Current, a.cur), cli.FormatMoney(g.Goal.Target, a.cur), cli.FormatDaysLeft(g.DaysLeft))))
		if i < len(goals)-1 {
			b.WriteString("\n")
		}
	}
	list := components.ContentCard("Goals", b.String(), listW)

	if a.isCompactLayout() {
		return list + "\n" + components.ContentCard("Selected", a.goalDetail(), cw)
	}
	return components.CardRow([]string{list, components.ContentCard("Selected", a.goalDetail(), cw-listW)})
}

func (a App) goalDetail() string {
	t := theme.Active
	if a.cursor >= len(a.report.Goals) {
		return ""
	}
	g := a.report.Goals[a.cursor]

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	row := func(label, value string) string {
		return labelStyle.Render(fmt.Sprintf("%-12s", label)) + valueStyle.Render(value)
	}

	lines := []string{
		valueStyle.Bold(true).Render(g.Goal.Name),
		row("Category", g.Goal.Category.Label()),
		row("Deadline", g.Goal.Deadline.String()),
		row("Remaining", cli.FormatMoney(g.Remaining, a.cur)),
		row("Per month", cli.FormatMoney(g.MonthlyTarget, a.cur)),
	}
	if g.Goal.Description != "" {
		lines = append(lines, "", labelStyle.Render(g.Goal.Description))
	}
	switch {
	case !g.Goal.Active():
		lines = append(lines, "", lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface).Render("✓ Goal reached"))
	case g.Overdue:
		lines = append(lines, "", warnStyle.Render("! Past its deadline"))
	case g.Challenging:
		lines = append(lines, "", warnStyle.Render("! Monthly target is a large share of the budget"))
	}
	lines = append(lines, "", mutedText("f fund · 1-4 quick add "+quickAmounts(a.cur)+" · D delete"))
	return strings.Join(lines, "\n")
}
