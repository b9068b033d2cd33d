package daemon

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/theirongolddev/billbuddy/internal/model"

	"github.com/shopspring/decimal"
)

func bill(id, name, due string, status model.Status) model.Bill {
	return model.Bill{
		ID:              id,
		Name:            name,
		Amount:          decimal.NewFromInt(100),
		AmountRemaining: decimal.NewFromInt(100),
		Due:             model.MustParseDate(due),
		Status:          status,
	}
}

func stateOf(bills ...model.Bill) model.State {
	st := model.State{Version: model.SchemaVersion, Funds: decimal.NewFromInt(250)}
	for _, b := range bills {
		st.Bills = append(st.Bills, b)
		st.Reminders = append(st.Reminders, model.Reminder{BillID: b.ID, When: b.Due, Note: "Pay " + b.Name})
	}
	return st
}

func TestDueWithin(t *testing.T) {
	st := stateOf(
		bill("a", "Water", "2024-01-12", model.StatusPending),
		bill("b", "Power", "2024-01-09", model.StatusScheduled),
		bill("c", "Rent", "2024-01-20", model.StatusPending),
		bill("d", "Gym", "2024-01-11", model.StatusPaid),
		bill("e", "Old", "2024-01-11", model.StatusCanceled),
	)
	today := model.MustParseDate("2024-01-10")

	got := DueWithin(st, today, 3)
	if len(got) != 2 {
		t.Fatalf("DueWithin len = %d, want 2: %+v", len(got), got)
	}
	if got[0].Name != "Power" || got[0].DaysLeft != -1 || !got[0].Overdue() {
		t.Errorf("first = %+v, want overdue Power at -1", got[0])
	}
	if got[1].Name != "Water" || got[1].DaysLeft != 2 || got[1].Overdue() {
		t.Errorf("second = %+v, want Water in 2 days", got[1])
	}
	if got[1].Remaining != "100.00" || got[1].Note != "Pay Water" {
		t.Errorf("second remaining/note = %q/%q", got[1].Remaining, got[1].Note)
	}
}

func TestDueWithinZeroDaysIsTodayOnly(t *testing.T) {
	st := stateOf(
		bill("a", "Today", "2024-01-10", model.StatusPending),
		bill("b", "Tomorrow", "2024-01-11", model.StatusPending),
	)
	got := DueWithin(st, model.MustParseDate("2024-01-10"), 0)
	if len(got) != 1 || got[0].Name != "Today" || got[0].DaysLeft != 0 {
		t.Fatalf("DueWithin = %+v, want only Today", got)
	}
}

func TestPollOnceAnnouncesOnce(t *testing.T) {
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	st := stateOf(bill("a", "Water", "2024-01-12", model.StatusPending))

	var seen []Event
	s := New(Config{
		Load:    func() (model.State, error) { return st, nil },
		Days:    3,
		Now:     func() time.Time { return now },
		OnEvent: func(ev Event) { seen = append(seen, ev) },
	})

	s.PollOnce()
	s.PollOnce()
	if len(seen) != 1 {
		t.Fatalf("events after two polls = %d, want 1", len(seen))
	}
	if seen[0].Type != "due_soon" || seen[0].Due.BillID != "a" {
		t.Errorf("event = %+v, want due_soon for a", seen[0])
	}

	// Three days later the same bill is overdue: a second, distinct event.
	now = now.AddDate(0, 0, 3)
	s.PollOnce()
	if len(seen) != 2 || seen[1].Type != "overdue" {
		t.Fatalf("events = %+v, want an overdue event", seen)
	}

	snap := s.Snapshot()
	if snap.OpenBills != 1 || snap.Funds != "250.00" || len(snap.Due) != 1 {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestPollOnceRecordsLoadError(t *testing.T) {
	s := New(Config{
		Load: func() (model.State, error) { return model.State{}, errors.New("db locked") },
	})
	s.PollOnce()

	status := s.snapshotStatus()
	if status.LastError != "db locked" || status.PollCount != 1 {
		t.Fatalf("status = %+v, want last error recorded", status)
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{
		Load:         func() (model.State, error) { return model.State{}, nil },
		Interval:     10 * time.Second,
		EventsBuffer: 2,
	})

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestStatusEndpoint(t *testing.T) {
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	st := stateOf(bill("a", "Water", "2024-01-11", model.StatusPending))
	s := New(Config{
		Load: func() (model.State, error) { return st, nil },
		Days: 3,
		Now:  func() time.Time { return now },
	})
	s.PollOnce()

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/status", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status code = %d", rec.Code)
	}

	var got Status
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decoding status: %v", err)
	}
	if got.PollCount != 1 || got.EventCount != 1 || len(got.Summary.Due) != 1 {
		t.Errorf("status = %+v", got)
	}
	if got.Summary.Due[0].When.String() != "2024-01-11" {
		t.Errorf("due when = %s, want 2024-01-11", got.Summary.Due[0].When)
	}
}

func TestPollOnceReannouncesAfterBillReturns(t *testing.T) {
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	open := stateOf(bill("a", "Water", "2024-01-12", model.StatusPending))
	paid := stateOf(bill("a", "Water", "2024-01-12", model.StatusPaid))

	current := open
	var seen []Event
	s := New(Config{
		Load:    func() (model.State, error) { return current, nil },
		Days:    3,
		Now:     func() time.Time { return now },
		OnEvent: func(ev Event) { seen = append(seen, ev) },
	})

	s.PollOnce()
	current = paid
	s.PollOnce()
	if len(seen) != 1 {
		t.Fatalf("events after paying = %d, want 1", len(seen))
	}

	// An import restoring the open bill brings the reminder back.
	current = open
	s.PollOnce()
	if len(seen) != 2 || seen[1].Due.BillID != "a" {
		t.Fatalf("events = %+v, want the reminder announced again", seen)
	}
}
