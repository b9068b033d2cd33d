package tui

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/theirongolddev/billbuddy/internal/cli"
	"github.com/theirongolddev/billbuddy/internal/ledger"
	"github.com/theirongolddev/billbuddy/internal/model"
	"github.com/theirongolddev/billbuddy/internal/tui/components"
	"github.com/theirongolddev/billbuddy/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// sortedBills lists bills by due date, open bills before closed ones.
func (a App) sortedBills() []model.Bill {
	bills := a.ledger.Bills()
	slices.SortStableFunc(bills, func(x, y model.Bill) int {
		if cx, cy := x.Status.Closed(), y.Status.Closed(); cx != cy {
			if cx {
				return 1
			}
			return -1
		}
		return x.Due.Compare(y.Due)
	})
	return bills
}

func (a *App) clampCursor() {
	n := len(a.ledger.Bills())
	a.cursor = min(a.cursor, n-1)
	a.cursor = max(a.cursor, 0)
}

func (a App) selected() (model.Bill, bool) {
	bills := a.sortedBills()
	if a.cursor < 0 || a.cursor >= len(bills) {
		return model.Bill{}, false
	}
	return bills[a.cursor], true
}

func (a App) updateBills(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		return a, tea.Quit
	case "j", "down":
		a.cursor++
		a.clampCursor()
		return a, nil
	case "k", "up":
		a.cursor--
		a.clampCursor()
		return a, nil
	}

	b, ok := a.selected()
	if !ok {
		return a, nil
	}

	switch key {
	case "p":
		if _, err := a.ledger.PayInFull(b.ID); err != nil {
			a.setStatus(fmt.Sprintf("Cannot pay %s: %v", b.Name, err), components.StatusWarn)
			return a, nil
		}
	case "s":
		var err error
		if b.Scheduled {
			_, err = a.ledger.UnscheduleBill(b.ID)
		} else {
			_, err = a.ledger.ScheduleBill(b.ID)
		}
		if err != nil {
			a.setStatus(fmt.Sprintf("Cannot change %s: %v", b.Name, err), components.StatusWarn)
			return a, nil
		}
	case "n":
		if _, created := a.ledger.GenerateNextRecurrence(b.ID); !created {
			a.setStatus(fmt.Sprintf("No new bill generated for %s", b.Name), components.StatusInfo)
			return a, nil
		}
	case "c":
		a.pending = &confirmation{
			prompt: fmt.Sprintf("Cancel %s?", b.Name),
			apply: func(yes bool) (string, components.StatusKind) {
				res, err := a.ledger.CancelSubscription(b.ID, yes)
				switch {
				case errors.Is(err, ledger.ErrAlreadyPaid):
					return b.Name + " is already paid", components.StatusWarn
				case err != nil:
					return fmt.Sprintf("Cannot cancel %s: %v", b.Name, err), components.StatusWarn
				case res == ledger.CancelDeclined:
					return "Kept " + b.Name, components.StatusInfo
				}
				return "", components.StatusInfo
			},
		}
		return a, nil
	case "d":
		a.pending = &confirmation{
			prompt: fmt.Sprintf("Delete %s due %s?", b.Name, b.Due),
			apply: func(yes bool) (string, components.StatusKind) {
				switch a.ledger.DeleteBill(b.ID, yes) {
				case ledger.DeleteDeclined:
					return "Kept " + b.Name, components.StatusInfo
				case ledger.DeleteNotFound:
					return b.Name + " no longer exists", components.StatusWarn
				}
				return "", components.StatusInfo
			},
		}
		return a, nil
	default:
		return a, nil
	}

	a.absorbNotices()
	a.clampCursor()
	return a, nil
}

func (a App) viewBills(cw, height int) string {
	t := theme.Active
	bills := a.sortedBills()
	if len(bills) == 0 {
		return components.ContentCard("Bills", "No bills yet. Add one from the Chat tab.", cw)
	}

	rows := cli.BillRows(bills)
	headers := []string{"ID", "Name", "Category", "Due", "Amount", "Remaining", "Status", "P"}
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, r := range rows {
		for i, cell := range r {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}
	format := func(cells []string) string {
		parts := make([]string, len(cells))
		for i, c := range cells {
			if i == 4 || i == 5 {
				parts[i] = fmt.Sprintf("%*s", widths[i], c)
			} else {
				parts[i] = fmt.Sprintf("%-*s", widths[i], c)
			}
		}
		return strings.Join(parts, "  ")
	}

	head := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	sel := lipgloss.NewStyle().Background(t.SurfaceHover).Foreground(t.TextPrimary).Bold(true)

	var b strings.Builder
	b.WriteString(head.Render(format(headers)) + "\n")
	visible := max(height-8, 3)
	start := max(0, a.cursor-visible+1)
	for i := start; i < len(rows) && i < start+visible; i++ {
		line := format(rows[i])
		if i == a.cursor {
			b.WriteString(sel.Render(line))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(t.Status(bills[i].Status)).Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(t.TextDim).Render(
		"[j/k]move  [p]ay  [s]chedule  [n]ext month  [c]ancel  [d]elete"))

	return components.ContentCard(fmt.Sprintf("Bills (%d)", len(bills)), b.String(), cw)
}
