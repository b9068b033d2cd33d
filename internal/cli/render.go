package cli

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/billbuddy/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
	ColorBlue      = lipgloss.Color("#4385BE")
	ColorYellow    = lipgloss.Color("#D0A215")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	successStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	warnStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)
)

// StatusColor maps a bill status to its display color.
func StatusColor(s model.Status) lipgloss.Color {
	switch s {
	case model.StatusPaid:
		return ColorGreen
	case model.StatusPartial:
		return ColorYellow
	case model.StatusScheduled:
		return ColorBlue
	case model.StatusCanceled:
		return ColorTextDim
	default:
		return ColorOrange
	}
}

// RenderStatus renders a status word in its color.
func RenderStatus(s model.Status) string {
	return lipgloss.NewStyle().Foreground(StatusColor(s)).Render(string(s))
}

// RenderSuccess renders a one-line confirmation.
func RenderSuccess(msg string) string {
	return successStyle.Render("  ✓ " + msg)
}

// RenderWarn renders a one-line warning.
func RenderWarn(msg string) string {
	return warnStyle.Render("  ! " + msg)
}

// RenderInfo renders a one-line informational message.
func RenderInfo(msg string) string {
	return mutedStyle.Render("  " + msg)
}

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	// RightAlign marks columns rendered flush right, such as amounts.
	RightAlign []bool
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders a bordered table with headers and rows.
// A row holding the single cell "---" renders as a separator.
func RenderTable(t Table) string {
	cols := len(t.Headers)
	if cols == 0 && len(t.Rows) > 0 {
		cols = len(t.Rows[0])
	}
	if cols == 0 {
		return ""
	}

	widths := make([]int, cols)
	measure := func(row []string) {
		for i := 0; i < cols && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}
	measure(t.Headers)
	for _, row := range t.Rows {
		if !isSeparator(row) {
			measure(row)
		}
	}

	rule := func(left, mid, right string) string {
		parts := make([]string, cols)
		for i, w := range widths {
			parts[i] = strings.Repeat("─", w+2)
		}
		return dimStyle.Render(left+strings.Join(parts, mid)+right) + "\n"
	}
	line := func(row []string, style lipgloss.Style) string {
		var b strings.Builder
		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			pad := strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
			if i < len(t.RightAlign) && t.RightAlign[i] {
				cell = pad + cell
			} else {
				cell += pad
			}
			b.WriteString(style.Render(" " + cell + " "))
			b.WriteString(dimStyle.Render("│"))
		}
		b.WriteString("\n")
		return b.String()
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  " + headerStyle.Render(t.Title) + "\n")
	}
	b.WriteString(rule("╭", "┬", "╮"))
	if len(t.Headers) > 0 {
		b.WriteString(line(t.Headers, headerStyle))
		b.WriteString(rule("├", "┼", "┤"))
	}
	for _, row := range t.Rows {
		if isSeparator(row) {
			b.WriteString(rule("├", "┼", "┤"))
			continue
		}
		b.WriteString(line(row, valueStyle))
	}
	b.WriteString(rule("╰", "┴", "╯"))

	return b.String()
}

func isSeparator(row []string) bool {
	return len(row) == 1 && row[0] == "---"
}

// RenderBudgetBar renders how much of a budget is spoken for.
func RenderBudgetBar(used, budget decimal.Decimal, width int) string {
	if !budget.IsPositive() || width <= 0 {
		return ""
	}

	pct := used.Div(budget).InexactFloat64()
	pct = min(max(pct, 0), 1)
	filled := int(pct * float64(width))

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	style := successStyle
	if used.GreaterThan(budget) {
		style = warnStyle
	}
	return fmt.Sprintf("[%s] %s/%s",
		style.Render(bar),
		FormatAmount(used),
		FormatAmount(budget),
	)
}

// BillRows converts bills to table rows: id, name, category, due, amount,
// remaining, status, priority flag.
func BillRows(bills []model.Bill) [][]string {
	rows := make([][]string, 0, len(bills))
	for _, b := range bills {
		flag := ""
		if b.Prioritized {
			flag = "★"
		}
		category := b.Category
		if category == "" {
			category = "-"
		}
		rows = append(rows, []string{
			ShortID(b.ID),
			b.Name,
			category,
			FormatDue(b.Due),
			FormatAmount(b.Amount),
			FormatAmount(b.AmountRemaining),
			string(b.Status),
			flag,
		})
	}
	return rows
}

// BillTable builds the standard bill listing table.
func BillTable(title string, bills []model.Bill) Table {
	return Table{
		Title:      title,
		Headers:    []string{"ID", "Name", "Category", "Due", "Amount", "Remaining", "Status", "P"},
		Rows:       BillRows(bills),
		RightAlign: []bool{false, false, false, false, true, true, false, false},
	}
}
