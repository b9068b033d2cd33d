package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/theirongolddev/billbuddy/internal/daemon"
	"github.com/theirongolddev/billbuddy/internal/ledger"
	"github.com/theirongolddev/billbuddy/internal/model"

	"github.com/shopspring/decimal"
)

func TestNewBillFromArgs(t *testing.T) {
	nb, err := newBillFromArgs("  Water ", "450.50", "2024-01-10")
	if err != nil {
		t.Fatalf("newBillFromArgs: %v", err)
	}
	if nb.Name != "Water" || !nb.Amount.Equal(decimal.RequireFromString("450.5")) || nb.Due.String() != "2024-01-10" {
		t.Errorf("got %+v", nb)
	}

	tests := []struct {
		name, amount, due string
	}{
		{"", "10", "2024-01-10"},
		{"Water", "ten", "2024-01-10"},
		{"Water", "0", "2024-01-10"},
		{"Water", "-5", "2024-01-10"},
		{"Water", "10", "2024-02-30"},
		{"Water", "10", "01/10/2024"},
	}
	for _, tt := range tests {
		if _, err := newBillFromArgs(tt.name, tt.amount, tt.due); err == nil {
			t.Errorf("newBillFromArgs(%q, %q, %q) succeeded, want error", tt.name, tt.amount, tt.due)
		}
	}

	_, err = newBillFromArgs("Water", "0", "2024-01-10")
	if !errors.Is(err, ledger.ErrInvalidAmount) {
		t.Errorf("zero amount err = %v, want ErrInvalidAmount", err)
	}
}

type changedFlags map[string]bool

func (c changedFlags) Changed(name string) bool { return c[name] }

func TestBuildPatch(t *testing.T) {
	defer func() {
		flagEditName, flagEditAmount, flagEditDue = "", "", ""
		flagEditCategory, flagEditRecur = "", ""
		flagEditScheduled = false
	}()

	flagEditAmount = "99.95"
	flagEditRecur = "manual"
	flagEditName = "ignored"
	p, err := buildPatch(changedFlags{"amount": true, "recur": true})
	if err != nil {
		t.Fatalf("buildPatch: %v", err)
	}
	if p.Name != nil || p.Due != nil || p.Category != nil || p.Scheduled != nil {
		t.Errorf("unchanged flags leaked into patch: %+v", p)
	}
	if p.Amount == nil || p.Amount.String() != "99.95" {
		t.Errorf("Amount = %v, want 99.95", p.Amount)
	}
	if p.RecurringRule == nil || p.RecurringRule.Interval != model.IntervalMonthly || p.RecurringRule.AutoGenerate {
		t.Errorf("RecurringRule = %+v, want monthly without auto-generate", p.RecurringRule)
	}

	flagEditRecur = "weekly"
	if _, err := buildPatch(changedFlags{"recur": true}); err == nil {
		t.Error("recur weekly accepted")
	}
	flagEditName = "   "
	if _, err := buildPatch(changedFlags{"name": true}); err == nil {
		t.Error("blank name accepted")
	}
	flagEditDue = "2024-13-01"
	if _, err := buildPatch(changedFlags{"due": true}); err == nil {
		t.Error("bad due date accepted")
	}
}

func TestResolveBill(t *testing.T) {
	ids := []string{"a1b2c3-1", "a1b2c3-2", "ffee-3"}
	next := 0
	l := ledger.New(ledger.WithIDGenerator(func() string {
		id := ids[next]
		next++
		return id
	}))
	jan := l.CreateBill(ledger.NewBill{Name: "Water", Amount: decimal.NewFromInt(300), Due: model.MustParseDate("2024-01-10")})
	feb := l.CreateBill(ledger.NewBill{Name: "Water", Amount: decimal.NewFromInt(300), Due: model.MustParseDate("2024-02-10")})
	rent := l.CreateBill(ledger.NewBill{Name: "Rent", Amount: decimal.NewFromInt(900), Due: model.MustParseDate("2024-01-01")})

	if err := l.AddFunds(decimal.NewFromInt(1000)); err != nil {
		t.Fatalf("AddFunds: %v", err)
	}
	if _, err := l.PayInFull(jan.ID); err != nil {
		t.Fatalf("PayInFull: %v", err)
	}

	tests := []struct {
		ref  string
		want string
	}{
		{"a1b2c3-1", jan.ID},
		{"ffee", rent.ID},
		{"water", feb.ID},
		{" Rent ", rent.ID},
	}
	for _, tt := range tests {
		got, err := resolveBill(l, tt.ref)
		if err != nil {
			t.Errorf("resolveBill(%q): %v", tt.ref, err)
			continue
		}
		if got.ID != tt.want {
			t.Errorf("resolveBill(%q) = %s, want %s", tt.ref, got.ID, tt.want)
		}
	}

	if _, err := resolveBill(l, "a1b2c3"); err == nil || !strings.Contains(err.Error(), "matches 2 bills") {
		t.Errorf("ambiguous prefix err = %v", err)
	}
	if _, err := resolveBill(l, "Internet"); !errors.Is(err, ledger.ErrNotFound) {
		t.Errorf("unknown bill err = %v, want ErrNotFound", err)
	}
}

func TestParseAmount(t *testing.T) {
	d, err := parseAmount(" 12.30 ")
	if err != nil || !d.Equal(decimal.RequireFromString("12.3")) {
		t.Fatalf("parseAmount = %v, %v", d, err)
	}
	if _, err := parseAmount("1,000"); err == nil {
		t.Error("parseAmount accepted a grouped number")
	}
}

func TestFormatDue(t *testing.T) {
	d := daemon.Due{Name: "Water", When: model.MustParseDate("2024-01-11"), Remaining: "100.00", Status: "pending", DaysLeft: 1}
	want := "  Water due tomorrow on 2024-01-11 (100.00 left, pending)"
	if got := formatDue(d); got != want {
		t.Errorf("formatDue = %q, want %q", got, want)
	}

	d.DaysLeft = 5
	if got := formatDue(d); !strings.Contains(got, "due in 5 days") {
		t.Errorf("formatDue = %q, want due in 5 days", got)
	}

	d.DaysLeft = -2
	if got := formatDue(d); !strings.Contains(got, "overdue since 2024-01-11") {
		t.Errorf("formatDue = %q, want overdue", got)
	}
}
