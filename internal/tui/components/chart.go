package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/billbuddy/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Bar is one labeled value in a horizontal bar chart.
type Bar struct {
	Label string
	Value float64
	Text  string // value as displayed, e.g. a formatted amount
}

// HorizontalBars renders one bar per row, scaled to the largest value.
func HorizontalBars(bars []Bar, width int) string {
	if len(bars) == 0 {
		return ""
	}
	t := theme.Active

	labelW, textW := 0, 0
	peak := 0.0
	for _, b := range bars {
		labelW = max(labelW, lipgloss.Width(b.Label))
		textW = max(textW, lipgloss.Width(b.Text))
		peak = max(peak, b.Value)
	}
	if peak <= 0 {
		peak = 1
	}
	barW := max(width-labelW-textW-4, 4)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	barStyle := lipgloss.NewStyle().Foreground(t.Accent)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)

	lines := make([]string, len(bars))
	for i, b := range bars {
		n := int(b.Value / peak * float64(barW))
		n = min(max(n, 0), barW)
		if n == 0 && b.Value > 0 {
			n = 1
		}
		lines[i] = labelStyle.Render(fmt.Sprintf("%-*s", labelW, b.Label)) + "  " +
			barStyle.Render(strings.Repeat("█", n)) +
			strings.Repeat(" ", barW-n) + "  " +
			textStyle.Render(fmt.Sprintf("%*s", textW, b.Text))
	}
	return strings.Join(lines, "\n")
}
