package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/cbudget/internal/analytics"
	"github.com/theirongolddev/cbudget/internal/cli"
	"github.com/theirongolddev/cbudget/internal/config"
	"github.com/theirongolddev/cbudget/internal/ledger"
	"github.com/theirongolddev/cbudget/internal/model"
	"github.com/theirongolddev/cbudget/internal/tui/components"
	"github.com/theirongolddev/cbudget/internal/tui/theme"
)

func (a App) renderExpensesTab(cw int) string {
	t := theme.Active
	inner := components.CardInnerWidth(cw)

	headStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover)

	const dateW, catW, amtW = 12, 18, 14
	descW := max(inner-dateW-catW-amtW-2, 10)

	var b strings.Builder
	if len(a.snap.RecentExpenses) == 0 {
		b.WriteString(mutedText("No expenses yet. Press a to log one."))
	} else {
		b.WriteString(headStyle.Render(fmt.Sprintf("  %-*s%-*s%-*s%*s", dateW, "Date", descW, "Description", catW, "Category", amtW, "Amount")))
		for i, e := range a.snap.RecentExpenses {
			style, prefix := rowStyle, "  "
			if i == a.cursor {
				style, prefix = selStyle, "▸ "
			}
			b.WriteString("\n")
			b.WriteString(style.Render(fmt.Sprintf("%s%-*s%-*s%-*s%*s", prefix,
				dateW, e.Date.String(),
				descW, truncStr(e.Description, descW-1),
				catW, truncStr(e.Category, catW-1),
				amtW, cli.FormatMoney(e.Amount, a.cur))))
		}
		if a.cursor < len(a.snap.RecentExpenses) {
			if notes := a.snap.RecentExpenses[a.cursor].Notes; notes != "" {
				b.WriteString("\n\n")
				b.WriteString(mutedText("Notes: " + notes))
			}
		}
	}
	out := components.ContentCard(fmt.Sprintf("Recent expenses (last %d)", model.MaxRecentExpenses), b.String(), cw)

	if totals := analytics.ExpenseTotalsByCategory(a.snap.RecentExpenses); len(totals) > 0 {
		values := make([]float64, len(totals))
		labels := make([]string, len(totals))
		for i, cs := range totals {
			values[i] = cs.Amount.InexactFloat64()
			labels[i] = cs.Name
		}
		chart := components.BarChart(values, labels, t.Accent, inner, 6)
		out += "\n" + components.ContentCard("Spending by category", chart, cw)
	}

	presets := make([]string, 0, len(ledger.QuickExpenses))
	for i, q := range ledger.QuickExpenses {
		presets = append(presets, fmt.Sprintf("%s %s %s", keyHint(fmt.Sprint(i+1)), q.Name, mutedText(cli.FormatMoney(q.Amount, a.cur))))
	}
	out += "\n" + components.ContentCard("Quick add", strings.Join(presets, mutedText("   ")), cw)
	return out
}

// quickExpenseKey maps the digit keys to the quick expense presets.
func quickExpenseKey(key string) (ledger.QuickExpense, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return ledger.QuickExpense{}, false
	}
	idx := int(key[0] - '1')
	if idx >= len(ledger.QuickExpenses) {
		return ledger.QuickExpense{}, false
	}
	return ledger.QuickExpenses[idx], true
}

func quickExpenseCmd(l *ledger.Ledger, q ledger.QuickExpense, cur config.Currency) tea.Cmd {
	return mutate(func(ctx context.Context) (string, error) {
		e, err := l.AddExpense(ctx, q.Input())
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Logged %s %s", cli.FormatMoney(e.Amount, cur), e.Description), nil
	})
}

func keyHint(k string) string {
	t := theme.Active
	return lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true).Render(k)
}
