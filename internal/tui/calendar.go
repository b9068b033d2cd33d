package tui

import (
	"github.com/theirongolddev/billbuddy/internal/cli"
	"github.com/theirongolddev/billbuddy/internal/model"
	"github.com/theirongolddev/billbuddy/internal/tui/components"

	tea "github.com/charmbracelet/bubbletea"
)

func (a App) updateCalendar(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		return a, tea.Quit
	case "h", "left":
		a.month = a.month.AddMonths(-1)
	case "l", "right":
		a.month = a.month.AddMonths(1)
	case "t":
		if m, err := model.ParseMonth(a.ledger.CurrentMonth()); err == nil {
			a.month = m
		}
	}
	return a, nil
}

func (a App) viewCalendar(cw int) string {
	body := cli.RenderCalendar(a.month, a.ledger.BillsDueIn(a.month.MonthKey())) +
		"\n  [h/l]month  [t]oday  ★ prioritized"
	return components.ContentCard("Calendar", body, min(cw, 72))
}
