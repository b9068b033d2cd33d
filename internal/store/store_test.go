package store

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/billbuddy/internal/ledger"
	"github.com/theirongolddev/billbuddy/internal/model"

	"github.com/shopspring/decimal"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "state.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLoad_EmptyStore(t *testing.T) {
	s := openTestStore(t)

	st, found, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Error("found = true on an empty store")
	}
	if st.Version != model.SchemaVersion {
		t.Errorf("Version = %d, want %d", st.Version, model.SchemaVersion)
	}
}

func TestLedgerStatePersists(t *testing.T) {
	s := openTestStore(t)

	l := ledger.New(ledger.WithSaver(s))
	b := l.CreateBill(ledger.NewBill{
		Name:      "Meralco",
		Amount:    decimal.RequireFromString("1500.50"),
		Due:       model.MustParseDate("2024-01-31"),
		Category:  "Utilities",
		Recurring: model.Monthly,
	})
	if err := l.AddFunds(decimal.NewFromInt(1000)); err != nil {
		t.Fatal(err)
	}
	if _, err := l.ProcessPartialPayment(b.ID, decimal.RequireFromString("0.50")); err != nil {
		t.Fatal(err)
	}
	l.SetWeighted(true)

	st, found, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("found = false after saving")
	}

	reopened := ledger.Open(st)
	got, ok := reopened.FindBillByID(b.ID)
	if !ok {
		t.Fatal("bill missing after reload")
	}
	if !got.AmountRemaining.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("AmountRemaining = %s, want 1500", got.AmountRemaining)
	}
	if got.Status != model.StatusPartial || got.Due.String() != "2024-01-31" {
		t.Errorf("bill = %+v", got)
	}
	if got.RecurringRule != model.Monthly {
		t.Errorf("RecurringRule = %+v, want monthly", got.RecurringRule)
	}
	if !reopened.Funds().Equal(decimal.RequireFromString("999.5")) {
		t.Errorf("Funds = %s, want 999.5", reopened.Funds())
	}
	if !reopened.Weighted() {
		t.Error("weighted flag lost")
	}
	if len(reopened.Reminders()) != 1 {
		t.Errorf("reminders = %d, want 1", len(reopened.Reminders()))
	}

	savedAt, err := s.SavedAt()
	if err != nil || savedAt.IsZero() {
		t.Errorf("SavedAt = %v, %v", savedAt, err)
	}
}

func TestDecode_UpgradesVersion1(t *testing.T) {
	v1 := `{
		"bills": [
			{"id": "a", "name": "Water", "amount": 600, "due": "2024-03-20", "scheduled": true, "createdAt": 1704067200000},
			{"id": "b", "name": "Globe", "amount": 999.5, "due": "2024-03-15", "scheduled": false}
		],
		"funds": 250,
		"monthlyBudget": 3000
	}`

	st, err := Decode([]byte(v1), 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if st.Version != model.SchemaVersion {
		t.Errorf("Version = %d, want %d", st.Version, model.SchemaVersion)
	}
	if len(st.Bills) != 2 {
		t.Fatalf("bills = %d, want 2", len(st.Bills))
	}

	water := st.Bills[0]
	if !water.AmountRemaining.Equal(decimal.NewFromInt(600)) {
		t.Errorf("water remaining = %s, want 600", water.AmountRemaining)
	}
	if water.Status != model.StatusScheduled {
		t.Errorf("water status = %s, want scheduled", water.Status)
	}
	if water.RecurringRule != model.NoRecurrence {
		t.Errorf("water rule = %+v, want none", water.RecurringRule)
	}
	if want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC); !water.CreatedAt.Equal(want) {
		t.Errorf("water createdAt = %v, want %v", water.CreatedAt, want)
	}

	globe := st.Bills[1]
	if globe.Status != model.StatusPending || !globe.AmountRemaining.Equal(decimal.RequireFromString("999.5")) {
		t.Errorf("globe = %+v", globe)
	}
	if !st.MonthlyBudget.Equal(decimal.NewFromInt(3000)) || !st.Funds.Equal(decimal.NewFromInt(250)) {
		t.Errorf("budget/funds = %s/%s", st.MonthlyBudget, st.Funds)
	}
	if st.UseWeightedPrioritization {
		t.Error("UseWeightedPrioritization defaulted to true")
	}
}

func TestDecode_KeepsCurrentVersionFields(t *testing.T) {
	v3 := `{"version": 3, "bills": [{"id": "a", "name": "Rent", "amount": "100", "amountRemaining": "40",
		"due": "2024-03-01", "status": "partial", "recurringRule": {"interval": "monthly", "autoGenerate": true}}]}`

	st, err := Decode([]byte(v3), 0)
	if err != nil {
		t.Fatal(err)
	}
	b := st.Bills[0]
	if b.Status != model.StatusPartial || !b.AmountRemaining.Equal(decimal.NewFromInt(40)) || b.RecurringRule != model.Monthly {
		t.Errorf("bill = %+v", b)
	}
}

func TestDecode_RejectsNewerVersion(t *testing.T) {
	if _, err := Decode([]byte(`{"version": 99, "bills": []}`), 0); err == nil {
		t.Fatal("expected error for a newer schema version")
	}
}

type fakeImporter struct {
	replaced *model.State
	merged   *model.State
}

func (f *fakeImporter) Replace(st model.State) { f.replaced = &st }

func (f *fakeImporter) Merge(st model.State) int {
	f.merged = &st
	return len(st.Bills)
}

func TestImport_MalformedPayloadTouchesNothing(t *testing.T) {
	for _, payload := range []string{
		`{}`,
		`{"bills": "nope"}`,
		`{"bills": {"id": "a"}}`,
		`null`,
		`not json`,
	} {
		f := &fakeImporter{}
		_, err := Import(f, strings.NewReader(payload), ImportReplace)
		if err == nil {
			t.Errorf("payload %q: expected error", payload)
		}
		if f.replaced != nil || f.merged != nil {
			t.Errorf("payload %q: importer was called", payload)
		}
	}

	_, err := Import(&fakeImporter{}, strings.NewReader(`{"bills": 1}`), ImportMerge)
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("err = %v, want ErrMalformed", err)
	}
}

func TestExportImport_ReplaceAndMerge(t *testing.T) {
	src := ledger.New()
	a := src.CreateBill(ledger.NewBill{Name: "A", Amount: decimal.NewFromInt(10), Due: model.MustParseDate("2024-01-01")})
	src.CreateBill(ledger.NewBill{Name: "B", Amount: decimal.NewFromInt(20), Due: model.MustParseDate("2024-01-02")})

	var buf bytes.Buffer
	if err := Export(&buf, src.State(), time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"exportedAt": "2024-01-03T00:00:00Z"`) {
		t.Errorf("export missing exportedAt stamp:\n%s", buf.String())
	}
	exported := buf.Bytes()

	// merge: the colliding id keeps the local version
	dst := ledger.New()
	local := dst.CreateBill(ledger.NewBill{Name: "Local", Amount: decimal.NewFromInt(5), Due: model.MustParseDate("2024-01-05")})
	dst.Merge(model.State{Bills: []model.Bill{{ID: a.ID, Name: "Local copy of A", Amount: decimal.NewFromInt(10), AmountRemaining: decimal.NewFromInt(10), Status: model.StatusPending}}})

	n, err := Import(dst, bytes.NewReader(exported), ImportMerge)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("merged %d bills, want 1 (B only)", n)
	}
	if got, _ := dst.FindBillByID(a.ID); got.Name != "Local copy of A" {
		t.Errorf("merge overwrote colliding bill: %q", got.Name)
	}
	if len(dst.Bills()) != 3 {
		t.Errorf("bills after merge = %d, want 3", len(dst.Bills()))
	}

	n, err = Import(dst, bytes.NewReader(exported), ImportReplace)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("replaced with %d bills, want 2", n)
	}
	if _, ok := dst.FindBillByID(local.ID); ok {
		t.Error("replace kept a pre-existing bill")
	}
	if len(dst.Bills()) != 2 || len(dst.Reminders()) != 2 {
		t.Errorf("after replace: %d bills, %d reminders; want 2 and 2", len(dst.Bills()), len(dst.Reminders()))
	}
}

func TestParseImportMode(t *testing.T) {
	if m, err := ParseImportMode("merge"); err != nil || m != ImportMerge {
		t.Errorf("ParseImportMode(merge) = %q, %v", m, err)
	}
	if _, err := ParseImportMode("append"); err == nil {
		t.Error("ParseImportMode(append) succeeded")
	}
}

func TestImport_NormalizesBills(t *testing.T) {
	const payload = `{
  "version": 3,
  "bills": [
    {"id": "a", "name": "Water", "amount": 100, "amountRemaining": 500, "due": "2024-01-10", "status": "bogus"},
    {"id": "b", "name": "Power", "amount": 80, "amountRemaining": -3, "due": "2024-01-12", "status": "pending",
     "recurringRule": {"interval": "weekly"}}
  ]
}`
	check := func(t *testing.T, l *ledger.Ledger) {
		t.Helper()
		for _, b := range l.Bills() {
			if b.AmountRemaining.IsNegative() || b.AmountRemaining.GreaterThan(b.Amount) {
				t.Errorf("%s: remaining %s outside [0, %s]", b.Name, b.AmountRemaining, b.Amount)
			}
			if !b.Status.Valid() {
				t.Errorf("%s: status %q", b.Name, b.Status)
			}
			if b.RecurringRule.Interval != model.IntervalNone {
				t.Errorf("%s: interval %q, want none", b.Name, b.RecurringRule.Interval)
			}
		}
		water, _ := l.FindBillByID("a")
		if !water.AmountRemaining.Equal(decimal.NewFromInt(100)) || water.Status != model.StatusPending {
			t.Errorf("Water = %s %s, want 100 pending", water.AmountRemaining, water.Status)
		}
		power, _ := l.FindBillByID("b")
		if !power.AmountRemaining.IsZero() || power.Status != model.StatusPaid {
			t.Errorf("Power = %s %s, want 0 paid", power.AmountRemaining, power.Status)
		}
	}

	t.Run("replace", func(t *testing.T) {
		l := ledger.New()
		if _, err := Import(l, strings.NewReader(payload), ImportReplace); err != nil {
			t.Fatal(err)
		}
		check(t, l)
	})
	t.Run("merge", func(t *testing.T) {
		l := ledger.New()
		if n, err := Import(l, strings.NewReader(payload), ImportMerge); err != nil || n != 2 {
			t.Fatalf("merge = %d, %v; want 2", n, err)
		}
		check(t, l)
	})
}
