// Package store persists ledger state in a SQLite key-value table and moves
// it in and out of JSON export files.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/billbuddy/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// StateKey is the fixed key the ledger state is stored under.
const StateKey = "billbuddy.state"

// Store is a SQLite-backed key-value store for ledger state.
type Store struct {
	db  *sql.DB
	key string
	now func() time.Time
}

// DataDir returns the XDG-compliant data directory.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "billbuddy")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "billbuddy")
}

// DefaultPath returns the full path to the state database.
func DefaultPath() string {
	return filepath.Join(DataDir(), "billbuddy.db")
}

// Open opens or creates the state database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, key: StateKey, now: time.Now}, nil
}

// Close closes the state database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load reads the saved state, upgrading older schema versions. It reports
// false when nothing has been saved yet.
func (s *Store) Load() (model.State, bool, error) {
	var (
		version int
		value   string
	)
	err := s.db.QueryRow("SELECT version, value FROM kv WHERE key = ?", s.key).Scan(&version, &value)
	if errors.Is(err, sql.ErrNoRows) {
		return model.State{Version: model.SchemaVersion}, false, nil
	}
	if err != nil {
		return model.State{}, false, fmt.Errorf("reading state: %w", err)
	}

	st, err := Decode([]byte(value), version)
	if err != nil {
		return model.State{}, false, err
	}
	return st, true, nil
}

// Save writes st under the state key, stamped with the current schema version.
func (s *Store) Save(st model.State) error {
	st.Version = model.SchemaVersion
	if st.LastSaved.IsZero() {
		st.LastSaved = s.now().UTC()
	}
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}

	_, err = s.db.Exec(`INSERT OR REPLACE INTO kv (key, version, value, saved_at)
		VALUES (?, ?, ?, ?)`,
		s.key, model.SchemaVersion, string(data), st.LastSaved.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("writing state: %w", err)
	}
	return nil
}

// SavedAt returns when the state was last written, or the zero time.
func (s *Store) SavedAt() (time.Time, error) {
	var raw string
	err := s.db.QueryRow("SELECT saved_at FROM kv WHERE key = ?", s.key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, raw)
}
