package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/theirongolddev/billbuddy/internal/cli"
	"github.com/theirongolddev/billbuddy/internal/model"
	"github.com/theirongolddev/billbuddy/internal/prioritize"
	"github.com/theirongolddev/billbuddy/internal/tui/components"
	"github.com/theirongolddev/billbuddy/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

func (a App) updateBudget(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		return a, tea.Quit
	case "w":
		a.ledger.SetWeighted(!a.ledger.Weighted())
		a.absorbNotices()
	case "r":
		budget := a.ledger.MonthlyBudget()
		if !budget.IsPositive() {
			a.setStatus("Set a monthly budget first: prioritize bills if monthly budget is <n>", components.StatusWarn)
			return a, nil
		}
		res := a.ledger.Prioritize(a.month.MonthKey(), budget)
		a.setStatus(fmt.Sprintf("Prioritized %d bills totaling %s",
			len(res.Selected()), cli.FormatAmount(res.Total)), components.StatusOK)
	}
	return a, nil
}

// categoryTotals sums the outstanding balance of open bills per category,
// largest first.
func categoryTotals(bills []model.Bill) []components.Bar {
	totals := make(map[string]decimal.Decimal)
	for _, b := range bills {
		if b.Status.Closed() {
			continue
		}
		cat := b.Category
		if cat == "" {
			cat = "Other"
		}
		totals[cat] = totals[cat].Add(b.AmountRemaining)
	}

	bars := make([]components.Bar, 0, len(totals))
	for cat, amt := range totals {
		bars = append(bars, components.Bar{
			Label: cat,
			Value: amt.InexactFloat64(),
			Text:  cli.FormatAmount(amt),
		})
	}
	slices.SortFunc(bars, func(x, y components.Bar) int {
		if x.Value != y.Value {
			if x.Value > y.Value {
				return -1
			}
			return 1
		}
		return strings.Compare(x.Label, y.Label)
	})
	return bars
}

func ratio(part, whole decimal.Decimal) float64 {
	if !whole.IsPositive() {
		return 0
	}
	return part.Div(whole).InexactFloat64()
}

func (a App) viewBudget(cw int) string {
	t := theme.Active
	month := a.month.MonthKey()
	st := a.ledger.Stats(month)

	metrics := components.MetricRow([]components.Metric{
		{Label: "Funds", Value: cli.FormatAmount(st.Funds)},
		{Label: "Monthly budget", Value: cli.FormatAmount(st.Budget), Note: month},
		{Label: "Outstanding", Value: cli.FormatAmount(st.Outstanding), Note: fmt.Sprintf("%d open", st.OpenBills)},
		{Label: "Prioritized", Value: cli.FormatAmount(st.Prioritized), Note: "headroom " + cli.FormatAmount(st.Headroom())},
	}, cw)

	barW := max(cw-30, 10)
	var usage strings.Builder
	usage.WriteString(components.BudgetBar("Prioritized", ratio(st.Prioritized, st.Budget), 12, barW) + "\n")
	usage.WriteString(components.BudgetBar("Outstanding", ratio(st.Outstanding, st.Budget), 12, barW) + "\n")
	usage.WriteString(lipgloss.NewStyle().Foreground(t.TextMuted).Render(
		fmt.Sprintf("Paid this month %s across %d bills", cli.FormatAmount(st.Paid), st.PaidBills)))

	byCategory := components.HorizontalBars(categoryTotals(a.ledger.BillsDueIn(month)), components.CardInnerWidth(cw))
	if byCategory == "" {
		byCategory = "Nothing outstanding."
	}

	strategy := prioritize.StrategyFor(a.ledger.Weighted())
	hint := lipgloss.NewStyle().Foreground(t.TextDim).Render(
		fmt.Sprintf("  strategy: %s   [w]toggle  [r]e-prioritize", strategy))

	return lipgloss.JoinVertical(lipgloss.Left,
		metrics,
		components.ContentCard("Budget use", usage.String(), cw),
		components.ContentCard("Outstanding by category", byCategory, cw),
		hint,
	)
}
