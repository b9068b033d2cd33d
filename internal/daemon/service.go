// Package daemon provides the long-running reminder watcher service.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/theirongolddev/billbuddy/internal/model"
)

// Loader returns the current persisted state. It is called once per poll.
type Loader func() (model.State, error)

// Config controls the daemon runtime behavior.
type Config struct {
	Load         Loader
	Days         int
	Interval     time.Duration
	Addr         string
	EventsBuffer int
	// OnEvent, when set, receives every published event.
	OnEvent func(Event)
	Now     func() time.Time
	Logger  *slog.Logger
}

// Due is one open bill whose reminder falls inside the watch horizon.
type Due struct {
	BillID    string     `json:"bill_id"`
	Name      string     `json:"name"`
	Note      string     `json:"note"`
	When      model.Date `json:"when"`
	Remaining string     `json:"remaining"`
	Status    string     `json:"status"`
	DaysLeft  int        `json:"days_left"`
}

// Overdue reports whether the reminder date has already passed.
func (d Due) Overdue() bool { return d.DaysLeft < 0 }

func (d Due) eventType() string {
	if d.Overdue() {
		return "overdue"
	}
	return "due_soon"
}

// Snapshot is the compact reminder state served at /v1/status.
type Snapshot struct {
	At        time.Time `json:"at"`
	OpenBills int       `json:"open_bills"`
	Funds     string    `json:"funds"`
	Due       []Due     `json:"due"`
}

// Event is emitted the first time a bill enters the horizon or becomes overdue.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Due       Due       `json:"due"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	Days            int       `json:"days"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
}

// Service polls the state on an interval and publishes reminder events.
type Service struct {
	cfg Config

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	snapshot    Snapshot
	announced   map[string]bool
	nextEventID int64
	events      []Event
}

// New returns a new daemon service with the provided config.
func New(cfg Config) *Service {
	if cfg.Interval < time.Second {
		cfg.Interval = time.Minute
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Days < 0 {
		cfg.Days = 0
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Service{
		cfg:       cfg,
		startedAt: cfg.Now(),
		announced: make(map[string]bool),
	}
}

// Run polls until ctx is canceled. When Addr is set it also serves the
// HTTP status endpoints.
func (s *Service) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	var server *http.Server
	if s.cfg.Addr != "" {
		server = &http.Server{
			Addr:              s.cfg.Addr,
			Handler:           s.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
	}

	s.PollOnce()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if server == nil {
				return nil
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.PollOnce()
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

// PollOnce loads the state, refreshes the snapshot and publishes events for
// reminders not announced before.
func (s *Service) PollOnce() {
	now := s.cfg.Now()
	st, err := s.cfg.Load()
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = now
		s.pollCount++
		s.mu.Unlock()
		s.cfg.Logger.Warn("reminder poll failed", "err", err)
		return
	}

	due := DueWithin(st, model.DateOf(now), s.cfg.Days)
	snap := Snapshot{
		At:        now,
		OpenBills: countOpen(st.Bills),
		Funds:     st.Funds.StringFixed(2),
		Due:       due,
	}

	var fresh []Event
	s.mu.Lock()
	s.snapshot = snap
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	live := make(map[string]bool, len(due))
	for _, d := range due {
		key := d.BillID + "|" + d.eventType() + "|" + d.When.String()
		live[key] = true
		if s.announced[key] {
			continue
		}
		s.nextEventID++
		fresh = append(fresh, Event{
			ID:        s.nextEventID,
			Type:      d.eventType(),
			Timestamp: now,
			Due:       d,
		})
	}
	// Keys missing from this poll are dropped; a key that comes back later
	// is announced again.
	s.announced = live
	s.mu.Unlock()

	for _, ev := range fresh {
		s.publishEvent(ev)
	}
	s.cfg.Logger.Debug("reminder poll", "open", snap.OpenBills, "due", len(due), "new_events", len(fresh))
}

// DueWithin lists the open bills whose reminder date is on or before
// today+days, overdue ones included, earliest first.
func DueWithin(st model.State, today model.Date, days int) []Due {
	bills := make(map[string]model.Bill, len(st.Bills))
	for _, b := range st.Bills {
		bills[b.ID] = b
	}

	var out []Due
	for _, r := range st.Reminders {
		b, ok := bills[r.BillID]
		if !ok || b.Status.Closed() || r.When.IsZero() {
			continue
		}
		left := daysBetween(today, r.When)
		if left > days {
			continue
		}
		out = append(out, Due{
			BillID:    b.ID,
			Name:      b.Name,
			Note:      r.Note,
			When:      r.When,
			Remaining: b.AmountRemaining.StringFixed(2),
			Status:    string(b.Status),
			DaysLeft:  left,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].When.Equal(out[j].When) {
			return out[i].When.Before(out[j].When)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func daysBetween(from, to model.Date) int {
	return int(to.Time().Sub(from.Time()).Hours() / 24)
}

func countOpen(bills []model.Bill) int {
	n := 0
	for _, b := range bills {
		if !b.Status.Closed() {
			n++
		}
	}
	return n
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}
	s.mu.Unlock()

	if s.cfg.OnEvent != nil {
		s.cfg.OnEvent(ev)
	}
}

// Snapshot returns the most recent poll result.
func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		Days:            s.cfg.Days,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
	}
}

// Handler serves /healthz, /v1/status and /v1/events.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/events", s.handleEvents)
	return mux
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(events)
}
