package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/cbudget/internal/cli"
	"github.com/theirongolddev/cbudget/internal/tui/components"
	"github.com/theirongolddev/cbudget/internal/tui/theme"
)

func (a App) renderCategoriesTab(cw int) string {
	t := theme.Active
	inner := components.CardInnerWidth(cw)

	headStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	const colW = 12
	labelW := 18
	barW := max(inner-labelW-7-3*colW, 6)

	var b strings.Builder
	b.WriteString(headStyle.Render(fmt.Sprintf("%-*s %*s%*s%*s%*s",
		labelW, "Category", barW+6, "", colW, "Budget", colW, "Spent", colW, "Left")))
	b.WriteString("\n")

	for _, c := range a.report.Categories {
		color := t.Palette(a.snap.Categories[c.Name].Color)
		swatch := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render("● ")
		b.WriteString(swatch)
		b.WriteString(components.LimitBar(c.Name, c.SpendRatioPercent, c.Status, labelW-2, barW))
		b.WriteString(rowStyle.Render(fmt.Sprintf("%*s%*s",
			colW, cli.FormatMoney(c.Limit, a.cur),
			colW, cli.FormatMoney(c.Spent, a.cur))))
		left := lipgloss.NewStyle().Foreground(t.Status(c.Status)).Background(t.Surface)
		b.WriteString(left.Render(fmt.Sprintf("%*s", colW, cli.FormatMoney(c.Remaining, a.cur))))
		b.WriteString("\n")
	}

	allocated := a.snap.SumCategoryLimits()
	b.WriteString("\n")
	b.WriteString(mutedText(fmt.Sprintf("Allocated %s of %s",
		cli.FormatMoney(allocated, a.cur), cli.FormatMoney(a.snap.TotalBudget, a.cur))))

	out := components.ContentCard("Budget by category", b.String(), cw)

	if len(a.report.Ranking) > 0 && a.report.Ranking[0].Amount.IsPositive() {
		top := a.report.Ranking[0].Amount
		lines := make([]string, 0, len(a.report.Ranking))
		for _, cs := range a.report.Ranking {
			frac := cs.Amount.Div(top).InexactFloat64()
			color := t.Palette(a.snap.Categories[cs.Name].Color)
			lines = append(lines, components.HBar(cs.Name, cli.FormatMoney(cs.Amount, a.cur), frac, color, 18, max(inner-18-16, 6)))
		}
		out += "\n" + components.ContentCard("Where the money went", strings.Join(lines, "\n"), cw)
	}
	return out
}
