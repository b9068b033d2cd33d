package components

import (
	"strings"

	"github.com/theirongolddev/billbuddy/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tabs names the TUI screens in display order.
var Tabs = []string{"Chat", "Bills", "Calendar", "Budget"}

const tabSeparator = "│"

// RenderTabBar renders the tab bar with the active tab highlighted.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active

	active := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.SurfaceHover).
		Bold(true).
		Padding(0, 1)
	inactive := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Padding(0, 1)
	sep := lipgloss.NewStyle().Foreground(t.TextDim).Render(tabSeparator)

	parts := make([]string, len(Tabs))
	for i, name := range Tabs {
		if i == activeIdx {
			parts[i] = active.Render(name)
		} else {
			parts[i] = inactive.Render(name)
		}
	}

	return lipgloss.NewStyle().Width(width).Render(strings.Join(parts, sep))
}

// TabAtX maps a column in the tab bar to a tab index, or -1.
func TabAtX(x int) int {
	pos := 0
	for i, name := range Tabs {
		w := lipgloss.Width(name) + 2
		if x >= pos && x < pos+w {
			return i
		}
		pos += w + lipgloss.Width(tabSeparator)
	}
	return -1
}
