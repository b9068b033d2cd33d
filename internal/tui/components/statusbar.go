package components

import (
	"github.com/theirongolddev/billbuddy/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// StatusKind selects the status bar message color.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusOK
	StatusWarn
)

// RenderStatusBar renders the bottom bar: key hints or a message on the
// left, the funds balance on the right.
func RenderStatusBar(width int, msg string, kind StatusKind, funds string) string {
	t := theme.Active

	left := " [tab]switch  [ctrl+c]quit"
	leftStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	if msg != "" {
		left = " " + msg
		switch kind {
		case StatusOK:
			leftStyle = leftStyle.Foreground(t.Green)
		case StatusWarn:
			leftStyle = leftStyle.Foreground(t.Orange)
		}
	}
	right := "Funds " + funds + " "

	pad := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := leftStyle.Render(left) + lipgloss.NewStyle().Width(pad).Render("") +
		lipgloss.NewStyle().Foreground(t.Accent).Bold(true).Render(right)

	return lipgloss.NewStyle().Background(t.Surface).MaxWidth(width).Render(bar)
}
