package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/billbuddy/internal/model"

	"github.com/charmbracelet/lipgloss"
)

var weekdayLabels = []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}

// CalendarWeeks lays out a month as Sunday-first weeks. Days outside the
// month are 0.
func CalendarWeeks(year int, month time.Month) [][7]int {
	first := model.NewDate(year, month, 1)
	offset := int(first.Weekday())
	days := model.DaysIn(year, month)

	var weeks [][7]int
	var week [7]int
	col := offset
	for day := 1; day <= days; day++ {
		week[col] = day
		col++
		if col == 7 {
			weeks = append(weeks, week)
			week = [7]int{}
			col = 0
		}
	}
	if col > 0 {
		weeks = append(weeks, week)
	}
	return weeks
}

// RenderCalendar draws a month grid with the days that have bills due
// highlighted by the most urgent status on that day, followed by the bills.
func RenderCalendar(month model.Date, bills []model.Bill) string {
	byDay := make(map[int][]model.Bill)
	for _, b := range bills {
		if b.Due.MonthKey() == month.MonthKey() {
			byDay[b.Due.Day()] = append(byDay[b.Due.Day()], b)
		}
	}

	var b strings.Builder
	heading := month.Time().Format("January 2006")
	b.WriteString("  " + headerStyle.Render(heading) + "\n")

	b.WriteString(" ")
	for _, lbl := range weekdayLabels {
		b.WriteString(mutedStyle.Render(fmt.Sprintf(" %3s", lbl)))
	}
	b.WriteString("\n")

	for _, week := range CalendarWeeks(month.Year(), month.Month()) {
		b.WriteString(" ")
		for _, day := range week {
			if day == 0 {
				b.WriteString("    ")
				continue
			}
			cell := fmt.Sprintf(" %2d", day)
			due := byDay[day]
			if len(due) == 0 {
				b.WriteString(dimStyle.Render(cell + " "))
				continue
			}
			mark := " "
			if anyPrioritized(due) {
				mark = "★"
			}
			style := lipgloss.NewStyle().Bold(true).Foreground(StatusColor(dayStatus(due)))
			b.WriteString(style.Render(cell) + mark)
		}
		b.WriteString("\n")
	}

	if len(byDay) == 0 {
		b.WriteString("\n" + RenderInfo("No bills due this month.") + "\n")
		return b.String()
	}

	b.WriteString("\n")
	for _, day := range sortedDays(byDay) {
		for _, bill := range byDay[day] {
			fmt.Fprintf(&b, "  %s  %-20s %12s  %s\n",
				mutedStyle.Render(bill.Due.String()),
				bill.Name,
				FormatAmount(bill.AmountRemaining),
				RenderStatus(bill.Status),
			)
		}
	}
	return b.String()
}

// dayStatus picks the status that most needs attention among bills due on
// one day.
func dayStatus(bills []model.Bill) model.Status {
	rank := map[model.Status]int{
		model.StatusPending:   5,
		model.StatusPartial:   4,
		model.StatusScheduled: 3,
		model.StatusPaid:      2,
		model.StatusCanceled:  1,
	}
	best := model.StatusCanceled
	for _, b := range bills {
		if rank[b.Status] > rank[best] {
			best = b.Status
		}
	}
	return best
}

func anyPrioritized(bills []model.Bill) bool {
	for _, b := range bills {
		if b.Prioritized {
			return true
		}
	}
	return false
}

func sortedDays(byDay map[int][]model.Bill) []int {
	var days []int
	for day := 1; day <= 31; day++ {
		if _, ok := byDay[day]; ok {
			days = append(days, day)
		}
	}
	return days
}
