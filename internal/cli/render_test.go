package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/billbuddy/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/shopspring/decimal"
)

func init() {
	// Plain output so assertions can match text.
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := RenderTable(Table{
		Headers:    []string{"Name", "Amount"},
		Rows:       [][]string{{"Water", "450.00"}, {"---"}, {"Meralco", "2,500.00"}},
		RightAlign: []bool{false, true},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("lines = %d, want 7:\n%s", len(lines), out)
	}
	width := lipgloss.Width(lines[0])
	for i, line := range lines {
		if w := lipgloss.Width(line); w != width {
			t.Errorf("line %d width = %d, want %d: %q", i, w, width, line)
		}
	}
	if !strings.Contains(out, "│ Water   │   450.00 │") {
		t.Errorf("row not aligned:\n%s", out)
	}
}

func TestRenderTable_Empty(t *testing.T) {
	if got := RenderTable(Table{}); got != "" {
		t.Errorf("RenderTable(empty) = %q, want empty", got)
	}
}

func TestBillTable(t *testing.T) {
	bills := []model.Bill{{
		ID:              "0123456789",
		Name:            "Globe",
		Amount:          decimal.NewFromInt(1299),
		AmountRemaining: decimal.NewFromInt(1299),
		Due:             model.MustParseDate("2024-01-10"),
		Category:        "Telco",
		Status:          model.StatusPending,
		Prioritized:     true,
	}}

	tbl := BillTable("Bills", bills)
	if len(tbl.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(tbl.Rows))
	}
	want := []string{"01234567", "Globe", "Telco", "2024-01-10", "1,299.00", "1,299.00", "pending", "★"}
	for i, cell := range tbl.Rows[0] {
		if cell != want[i] {
			t.Errorf("cell %d = %q, want %q", i, cell, want[i])
		}
	}
}

func TestRenderBudgetBar(t *testing.T) {
	if got := RenderBudgetBar(decimal.NewFromInt(10), decimal.Zero, 10); got != "" {
		t.Errorf("zero budget bar = %q, want empty", got)
	}
	got := RenderBudgetBar(decimal.NewFromInt(500), decimal.NewFromInt(1000), 10)
	if !strings.Contains(got, "█████░░░░░") || !strings.Contains(got, "500.00/1,000.00") {
		t.Errorf("half bar = %q", got)
	}
	over := RenderBudgetBar(decimal.NewFromInt(3000), decimal.NewFromInt(1000), 4)
	if !strings.Contains(over, "████") {
		t.Errorf("over-budget bar = %q", over)
	}
}

func TestCalendarWeeks(t *testing.T) {
	// February 2024 starts on a Thursday and has 29 days.
	weeks := CalendarWeeks(2024, time.February)
	if len(weeks) != 5 {
		t.Fatalf("weeks = %d, want 5", len(weeks))
	}
	if weeks[0][4] != 1 || weeks[0][3] != 0 {
		t.Errorf("first week = %v, want day 1 on Thursday", weeks[0])
	}
	if weeks[4][4] != 29 || weeks[4][5] != 0 {
		t.Errorf("last week = %v, want day 29 on Thursday", weeks[4])
	}

	// September 2024 starts on a Sunday.
	sep := CalendarWeeks(2024, time.September)
	if sep[0][0] != 1 {
		t.Errorf("September first week = %v", sep[0])
	}
}

func TestRenderCalendar(t *testing.T) {
	month := model.MustParseDate("2024-01-01")
	bills := []model.Bill{
		{Name: "Meralco", Due: model.MustParseDate("2024-01-15"), AmountRemaining: decimal.NewFromInt(2500), Status: model.StatusPending},
		{Name: "Rent", Due: model.MustParseDate("2024-02-01"), AmountRemaining: decimal.NewFromInt(9000), Status: model.StatusPending},
	}

	out := RenderCalendar(month, bills)
	if !strings.Contains(out, "January 2024") {
		t.Errorf("missing heading:\n%s", out)
	}
	if !strings.Contains(out, "Meralco") || !strings.Contains(out, "2,500.00") {
		t.Errorf("missing due bill:\n%s", out)
	}
	if strings.Contains(out, "Rent") {
		t.Errorf("bill from another month listed:\n%s", out)
	}

	empty := RenderCalendar(model.MustParseDate("2024-03-01"), bills)
	if !strings.Contains(empty, "No bills due this month.") {
		t.Errorf("empty month:\n%s", empty)
	}
}

func TestDayStatusPrefersOpenBills(t *testing.T) {
	got := dayStatus([]model.Bill{{Status: model.StatusPaid}, {Status: model.StatusPartial}})
	if got != model.StatusPartial {
		t.Errorf("dayStatus = %v, want partial", got)
	}
}
