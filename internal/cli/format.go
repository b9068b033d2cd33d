// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"strconv"
	"strings"

	"github.com/theirongolddev/billbuddy/internal/model"

	"github.com/shopspring/decimal"
)

// FormatAmount renders a money amount with two decimals and comma grouping.
// e.g., 1234.5 -> "1,234.50", -20 -> "-20.00"
func FormatAmount(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err == nil {
		whole = FormatNumber(n)
	}
	out := whole + "." + frac
	if d.IsNegative() && !d.Round(2).IsZero() {
		return "-" + out
	}
	return out
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	digits := strconv.FormatInt(n, 10)
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}

	var b strings.Builder
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return strconv.FormatFloat(f*100, 'f', 1, 64) + "%"
}

// FormatDue renders a due date, with "-" for an unset one.
func FormatDue(d model.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.String()
}

// FormatRecurrence is the short label for a recurring rule.
func FormatRecurrence(r model.RecurringRule) string {
	switch {
	case !r.Recurs():
		return "once"
	case r.AutoGenerate:
		return "monthly"
	default:
		return "monthly (manual)"
	}
}

// ShortID trims a bill id to its first eight characters for display.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
