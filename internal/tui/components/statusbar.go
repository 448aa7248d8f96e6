package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/cbudget/internal/tui/theme"
)

// StatusInfo is what the bottom status bar shows on its right side.
type StatusInfo struct {
	Flash       string
	FlashIsErr  bool
	Utilization float64
	Backend     string
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, info StatusInfo) string {
	t := theme.Active

	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	textStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	flashStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	if info.FlashIsErr {
		flashStyle = flashStyle.Foreground(t.Red)
	}

	left := textStyle.Render(" ") +
		keyStyle.Render("a") + textStyle.Render(" expense  ") +
		keyStyle.Render("n") + textStyle.Render(" goal  ") +
		keyStyle.Render("x") + textStyle.Render(" export  ") +
		keyStyle.Render("?") + textStyle.Render(" help  ") +
		keyStyle.Render("q") + textStyle.Render(" quit")

	right := CompactBar("budget", info.Utilization, 24)
	if info.Backend != "" {
		right = textStyle.Render(info.Backend+"  ") + right
	}
	right += textStyle.Render(" ")

	middle := ""
	if info.Flash != "" {
		middle = flashStyle.Render("  " + info.Flash)
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(middle) - lipgloss.Width(right)
	if gap < 0 {
		middle = ""
		gap = max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	}

	return left + middle + textStyle.Render(strings.Repeat(" ", gap)) + right
}
