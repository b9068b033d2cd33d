package chat

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/billbuddy/internal/ledger"
	"github.com/theirongolddev/billbuddy/internal/model"

	"github.com/shopspring/decimal"
)

func newTestInterpreter(t *testing.T) (*Interpreter, *ledger.Ledger) {
	t.Helper()
	seq := 0
	l := ledger.New(
		ledger.WithClock(func() time.Time { return time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC) }),
		ledger.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("bill-%d", seq)
		}),
	)
	return New(l), l
}

func mustHandle(t *testing.T, in *Interpreter, line string, want Kind) Response {
	t.Helper()
	resp := in.Handle(line)
	if resp.Kind != want {
		t.Fatalf("Handle(%q).Kind = %v, want %v (text %q)", line, resp.Kind, want, resp.Text)
	}
	return resp
}

func TestAdd_WithOptions(t *testing.T) {
	in, l := newTestInterpreter(t)

	mustHandle(t, in, "add Meralco Electric 2500 due 2024-01-20 monthly scheduled category Utilities", KindSuccess)

	bills := l.Bills()
	if len(bills) != 1 {
		t.Fatalf("bills = %d, want 1", len(bills))
	}
	b := bills[0]
	if b.Name != "Meralco Electric" {
		t.Errorf("Name = %q", b.Name)
	}
	if !b.Amount.Equal(decimal.NewFromInt(2500)) {
		t.Errorf("Amount = %s, want 2500", b.Amount)
	}
	if b.Due.String() != "2024-01-20" {
		t.Errorf("Due = %s", b.Due)
	}
	if b.RecurringRule != model.Monthly {
		t.Errorf("RecurringRule = %+v, want monthly", b.RecurringRule)
	}
	if b.Status != model.StatusScheduled {
		t.Errorf("Status = %v, want scheduled", b.Status)
	}
	if b.Category != "Utilities" {
		t.Errorf("Category = %q", b.Category)
	}
}

func TestAdd_Rejections(t *testing.T) {
	tests := []string{
		"add Water 0 due 2024-01-10",
		"add Water 100 due 2024-13-40",
		"add Water 100 due 2024-01-10 weekly",
		"add Water 100 due 2024-01-10 category",
	}
	for _, line := range tests {
		in, l := newTestInterpreter(t)
		mustHandle(t, in, line, KindError)
		if n := len(l.Bills()); n != 0 {
			t.Errorf("%q created %d bills", line, n)
		}
	}
}

func TestUnknownInputShowsHelp(t *testing.T) {
	in, _ := newTestInterpreter(t)
	for _, line := range []string{"", "hello there", "pay", "prioritize bills"} {
		resp := mustHandle(t, in, line, KindHelp)
		if resp.Text != Help {
			t.Errorf("Handle(%q) text is not the help listing", line)
		}
	}
}

func TestFundsAndPayments(t *testing.T) {
	in, l := newTestInterpreter(t)
	mustHandle(t, in, "add Water 450 due 2024-01-10", KindSuccess)

	mustHandle(t, in, "pay water", KindError) // no funds yet
	mustHandle(t, in, "add funds 1000", KindSuccess)
	mustHandle(t, in, "ADD FUNDS 0", KindError)

	resp := mustHandle(t, in, "pay partial Water 200", KindSuccess)
	if !strings.Contains(resp.Text, "250.00 remaining") {
		t.Errorf("partial text = %q", resp.Text)
	}
	mustHandle(t, in, "pay partial Water 300", KindError) // exceeds remaining

	mustHandle(t, in, "pay Water", KindSuccess)
	if got := l.Funds(); !got.Equal(decimal.NewFromInt(550)) {
		t.Errorf("Funds = %s, want 550", got)
	}
	if b := l.Bills()[0]; b.Status != model.StatusPaid {
		t.Errorf("Status = %v, want paid", b.Status)
	}

	mustHandle(t, in, "pay Water", KindError) // no open bill left
	resp = mustHandle(t, in, "show funds", KindInfo)
	if resp.Text != "Funds: 550.00." {
		t.Errorf("show funds = %q", resp.Text)
	}
}

func TestSchedule(t *testing.T) {
	in, l := newTestInterpreter(t)
	mustHandle(t, in, "add Globe 1299 due 2024-01-12", KindSuccess)

	mustHandle(t, in, "schedule globe", KindSuccess)
	if b := l.Bills()[0]; b.Status != model.StatusScheduled {
		t.Errorf("Status = %v, want scheduled", b.Status)
	}
	mustHandle(t, in, "unschedule Globe", KindSuccess)
	if b := l.Bills()[0]; b.Status != model.StatusPending {
		t.Errorf("Status = %v, want pending", b.Status)
	}
	mustHandle(t, in, "schedule Netflix", KindError)
}

func TestDelete_NeedsConfirmation(t *testing.T) {
	in, l := newTestInterpreter(t)
	mustHandle(t, in, "add Netflix 549 due 2024-01-05", KindSuccess)

	resp := in.Handle("delete netflix")
	if resp.Confirm == nil {
		t.Fatal("delete did not ask for confirmation")
	}
	if len(l.Bills()) != 1 {
		t.Fatal("bill removed before confirmation")
	}

	declined := resp.Confirm.Resolve(false)
	if declined.Kind != KindInfo || len(l.Bills()) != 1 {
		t.Fatalf("declined delete: kind %v, bills %d", declined.Kind, len(l.Bills()))
	}

	resp = in.Handle("delete Netflix")
	done := resp.Confirm.Resolve(true)
	if done.Kind != KindSuccess {
		t.Fatalf("confirmed delete kind = %v (%q)", done.Kind, done.Text)
	}
	if len(l.Bills()) != 0 || len(l.Reminders()) != 0 {
		t.Errorf("bills %d reminders %d after delete", len(l.Bills()), len(l.Reminders()))
	}

	// The bill vanished between asking and answering.
	mustHandle(t, in, "add Netflix 549 due 2024-01-05", KindSuccess)
	resp = in.Handle("delete Netflix")
	l.DeleteBill(l.Bills()[0].ID, true)
	if gone := resp.Confirm.Resolve(true); gone.Kind != KindError {
		t.Errorf("stale delete kind = %v", gone.Kind)
	}
}

func TestCancel(t *testing.T) {
	in, l := newTestInterpreter(t)
	mustHandle(t, in, "add Spotify 149 due 2024-01-08 monthly", KindSuccess)

	resp := in.Handle("cancel Spotify")
	if resp.Confirm == nil {
		t.Fatal("cancel did not ask for confirmation")
	}
	if got := resp.Confirm.Resolve(true); got.Kind != KindSuccess {
		t.Fatalf("cancel kind = %v (%q)", got.Kind, got.Text)
	}
	b := l.Bills()[0]
	if b.Status != model.StatusCanceled || b.RecurringRule.Recurs() {
		t.Errorf("after cancel: status %v rule %+v", b.Status, b.RecurringRule)
	}

	// Canceled bills are closed, so there is nothing left to cancel or pay.
	mustHandle(t, in, "cancel Spotify", KindError)
	mustHandle(t, in, "pay Spotify", KindError)
}

func TestPrioritize(t *testing.T) {
	in, l := newTestInterpreter(t)
	mustHandle(t, in, "add Meralco 2500 due 2024-01-20", KindSuccess)
	mustHandle(t, in, "add Globe 1299 due 2024-01-12", KindSuccess)
	mustHandle(t, in, "add Water 300 due 2024-01-10", KindSuccess)
	mustHandle(t, in, "add Rent 9000 due 2024-02-01", KindSuccess)

	resp := mustHandle(t, in, "prioritize bills if monthly budget is 2000", KindSuccess)
	if !strings.Contains(resp.Text, "Water") || !strings.Contains(resp.Text, "Globe") {
		t.Errorf("prioritize text = %q", resp.Text)
	}
	if !strings.Contains(resp.Text, "Total 1,599.00 of 2,000.00.") {
		t.Errorf("prioritize total = %q", resp.Text)
	}
	if !l.MonthlyBudget().Equal(decimal.NewFromInt(2000)) {
		t.Errorf("MonthlyBudget = %s, want 2000", l.MonthlyBudget())
	}

	flagged := map[string]bool{}
	for _, b := range l.Bills() {
		flagged[b.Name] = b.Prioritized
	}
	want := map[string]bool{"Meralco": false, "Globe": true, "Water": true, "Rent": false}
	for name, w := range want {
		if flagged[name] != w {
			t.Errorf("%s prioritized = %v, want %v", name, flagged[name], w)
		}
	}
}

func TestPrioritize_EmptyMonth(t *testing.T) {
	in, _ := newTestInterpreter(t)
	resp := mustHandle(t, in, "prioritize bills if monthly budget is 500", KindInfo)
	if !strings.Contains(resp.Text, "2024-01") {
		t.Errorf("empty month text = %q", resp.Text)
	}
}

func TestUseStrategy(t *testing.T) {
	in, l := newTestInterpreter(t)
	mustHandle(t, in, "use weighted", KindSuccess)
	if !l.Weighted() {
		t.Error("Weighted = false after use weighted")
	}
	mustHandle(t, in, "use Simple", KindSuccess)
	if l.Weighted() {
		t.Error("Weighted = true after use simple")
	}
}

func TestShowBills(t *testing.T) {
	in, _ := newTestInterpreter(t)
	resp := mustHandle(t, in, "show bills", KindInfo)
	if resp.Text != "No bills yet." {
		t.Errorf("empty show bills = %q", resp.Text)
	}
	mustHandle(t, in, "add Water 300 due 2024-01-10", KindSuccess)
	resp = mustHandle(t, in, "show   bills", KindInfo)
	if resp.Text != "2024-01-10  Water  300.00/300.00  pending" {
		t.Errorf("show bills = %q", resp.Text)
	}
}
