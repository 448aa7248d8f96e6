package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/cbudget/internal/tui/theme"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	peak := slicesMax(values)
	if peak == 0 {
		peak = 1
	}

	var buf strings.Builder
	for _, v := range values {
		idx := int(v / peak * float64(len(sparkBlocks)-1))
		buf.WriteRune(sparkBlocks[min(max(idx, 0), len(sparkBlocks)-1)])
	}
	return lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(buf.String())
}

// BarChart renders one vertical bar per value, height rows tall, with a
// label under each bar. Labels longer than the bar slot are cut.
func BarChart(values []float64, labels []string, color lipgloss.Color, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	if height < 3 || width < 3*len(values) {
		return Sparkline(values, color)
	}
	t := theme.Active

	peak := slicesMax(values)
	if peak == 0 {
		peak = 1
	}

	axisLabel := FormatAxis(peak)
	axisW := len(axisLabel) + 1
	slot := min((width-axisW-1)/len(values), 8)
	barW := max(slot-1, 1)

	barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)

	// Each row is worth peak/height; partial rows use eighth blocks.
	var b strings.Builder
	for row := height; row >= 1; row-- {
		label := ""
		if row == height {
			label = axisLabel
		}
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s│", axisW, label)))

		for _, v := range values {
			level := v / peak * float64(height)
			var cell string
			switch {
			case level >= float64(row):
				cell = strings.Repeat("█", barW)
			case level > float64(row-1):
				eighths := int(math.Ceil((level - float64(row-1)) * 8))
				cell = strings.Repeat(string(sparkBlocks[min(max(eighths, 1), 8)-1]), barW)
			default:
				cell = strings.Repeat(" ", barW)
			}
			b.WriteString(barStyle.Render(cell))
			b.WriteString(blank.Render(strings.Repeat(" ", slot-barW)))
		}
		b.WriteString("\n")
	}

	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s└%s", axisW, "0", strings.Repeat("─", slot*len(values)))))

	if len(labels) == len(values) {
		b.WriteString("\n")
		b.WriteString(blank.Render(strings.Repeat(" ", axisW+1)))
		for _, l := range labels {
			b.WriteString(axisStyle.Render(fmt.Sprintf("%-*s", slot, truncate(l, slot))))
		}
	}
	return b.String()
}

// HBar renders a labeled horizontal bar whose length is frac of barWidth.
func HBar(label, value string, frac float64, color lipgloss.Color, labelW, barWidth int) string {
	t := theme.Active
	n := int(min(max(frac, 0), 1) * float64(barWidth))

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, truncate(label, labelW))) +
		blank.Render(" ") +
		barStyle.Render(strings.Repeat("█", n)) +
		blank.Render(strings.Repeat(" ", barWidth-n+1)) +
		valueStyle.Render(value)
}

// FormatAxis formats an axis value compactly: 1500 -> "1.5k", 2000000 -> "2M".
func FormatAxis(v float64) string {
	switch {
	case v >= 1e6:
		return trimZero(fmt.Sprintf("%.1f", v/1e6)) + "M"
	case v >= 1e3:
		return trimZero(fmt.Sprintf("%.1f", v/1e3)) + "k"
	case v >= 1:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}

func slicesMax(values []float64) float64 {
	peak := values[0]
	for _, v := range values[1:] {
		peak = max(peak, v)
	}
	return peak
}
