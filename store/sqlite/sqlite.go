/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements every persistence interface (payroll.EntryStore,
  payroll.RateStore, directory.Store) on a single SQLite database. The
  PostgreSQL store in store/postgres mirrors the same schema.

INTERFACES IMPLEMENTED:
  payroll.EntryStore: append-only punch log
  payroll.RateStore:  the single user_settings row
  directory.Store:    employees, construction sites, roles

APPEND-ONLY ENFORCEMENT:
  - No UPDATE statements on time_entries
  - No DELETE statements on time_entries
  - Rows leave only through ON DELETE CASCADE from employees

KEY TABLES:
  time_entries:       Immutable punch log
  user_settings:      Single row (id = 1) holding the hourly rate
  employees:          Workers, optionally linked to a role and a site
  construction_sites: Work locations
  roles:              Job titles

TIMESTAMPS:
  Stored as fixed-width UTC text (see timeLayout) so that lexical order in
  SQL equals chronological order and range queries can use the index.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. An in-memory database is pinned to
  one connection, otherwise each pooled connection would see its own
  empty database.

WAL MODE:
  File databases are opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time

USAGE:
  store, err := sqlite.New("./payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  calc := payroll.NewCalculator(store, store)

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - payroll/store.go: EntryStore, RateStore
  - directory/directory.go: directory.Store
  - payroll/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/directory"
	"github.com/warp/payroll-engine/payroll"
)

// timeLayout is fixed width: nanoseconds are always present.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// dateLayout is used for calendar dates (fire_date).
const dateLayout = "2006-01-02"

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex

	// now stamps created_at/updated_at.
	now func() time.Time
}

var (
	_ payroll.EntryStore = (*Store)(nil)
	_ payroll.RateStore  = (*Store)(nil)
	_ directory.Store    = (*Store)(nil)
)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	dsn := dbPath + "?_foreign_keys=on&_journal_mode=WAL"
	if dbPath == ":memory:" {
		dsn = dbPath + "?_foreign_keys=on"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS construction_sites (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		address TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS roles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS employees (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		role_id INTEGER REFERENCES roles(id),
		construction_site_id INTEGER REFERENCES construction_sites(id),
		hourly_rate TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'inactive')),
		fire_date TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Time entries (append-only punch log)
	CREATE TABLE IF NOT EXISTS time_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id INTEGER REFERENCES employees(id) ON DELETE CASCADE,
		punch_time TEXT NOT NULL,
		entry_type TEXT NOT NULL CHECK (entry_type IN ('in', 'out', 'sick', 'vacation')),
		created_at TEXT NOT NULL
	);

	-- Period and day range scans (hot path)
	CREATE INDEX IF NOT EXISTS idx_time_entries_punch_time
		ON time_entries(punch_time);
	CREATE INDEX IF NOT EXISTS idx_time_entries_employee
		ON time_entries(employee_id);

	-- Single settings row
	CREATE TABLE IF NOT EXISTS user_settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		hourly_rate TEXT NOT NULL DEFAULT '15.00',
		timezone TEXT NOT NULL DEFAULT 'UTC',
		updated_at TEXT NOT NULL
	);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO user_settings (id, hourly_rate, updated_at) VALUES (1, ?, ?)`,
		payroll.DefaultHourlyRate.StringFixed(payroll.RateDecimals), s.stamp(),
	)
	return err
}

func (s *Store) stamp() string {
	return formatTime(s.now())
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		// rows written by other tools may carry plain RFC3339
		return time.Parse(time.RFC3339Nano, s)
	}
	return t, nil
}

// =============================================================================
// ENTRY STORE (payroll.EntryStore interface)
// =============================================================================

// InsertEntry appends a punch. There is no update or delete counterpart.
func (s *Store) InsertEntry(ctx context.Context, punchTime time.Time, entryType payroll.EntryType) (payroll.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := payroll.TimeEntry{
		PunchTime: punchTime.UTC(),
		Type:      entryType,
		CreatedAt: s.now().UTC(),
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO time_entries (punch_time, entry_type, created_at) VALUES (?, ?, ?)`,
		formatTime(e.PunchTime), string(e.Type), formatTime(e.CreatedAt),
	)
	if err != nil {
		return payroll.TimeEntry{}, fmt.Errorf("failed to insert time entry: %w", err)
	}
	if e.ID, err = res.LastInsertId(); err != nil {
		return payroll.TimeEntry{}, fmt.Errorf("failed to read time entry id: %w", err)
	}
	return e, nil
}

// ListEntries returns entries with start <= punch_time <= end, oldest first.
func (s *Store) ListEntries(ctx context.Context, start, end time.Time) ([]payroll.TimeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, punch_time, entry_type, created_at
		FROM time_entries
		WHERE punch_time >= ? AND punch_time <= ?
		ORDER BY punch_time ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, formatTime(start), formatTime(end))
	if err != nil {
		return nil, fmt.Errorf("failed to query time entries: %w", err)
	}
	defer rows.Close()

	var entries []payroll.TimeEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanEntry(rows *sql.Rows) (payroll.TimeEntry, error) {
	var (
		e                  payroll.TimeEntry
		punchTime, created string
		entryType          string
	)
	if err := rows.Scan(&e.ID, &punchTime, &entryType, &created); err != nil {
		return e, fmt.Errorf("failed to scan time entry: %w", err)
	}

	var err error
	if e.PunchTime, err = parseTime(punchTime); err != nil {
		return e, fmt.Errorf("time entry %d: bad punch_time %q: %w", e.ID, punchTime, err)
	}
	if e.CreatedAt, err = parseTime(created); err != nil {
		return e, fmt.Errorf("time entry %d: bad created_at %q: %w", e.ID, created, err)
	}
	e.Type = payroll.EntryType(entryType)
	return e, nil
}

// =============================================================================
// RATE STORE (payroll.RateStore interface)
// =============================================================================

// CurrentRate returns the stored hourly rate, or the default if the
// settings row is missing.
func (s *Store) CurrentRate(ctx context.Context) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT hourly_rate FROM user_settings WHERE id = 1`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return payroll.DefaultHourlyRate, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read hourly rate: %w", err)
	}

	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("stored hourly rate %q: %w", raw, err)
	}
	return rate, nil
}

// UpdateRate replaces the hourly rate, recreating the settings row if needed.
func (s *Store) UpdateRate(ctx context.Context, rate decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO user_settings (id, hourly_rate, updated_at)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			hourly_rate = excluded.hourly_rate,
			updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, rate.StringFixed(payroll.RateDecimals), s.stamp()); err != nil {
		return fmt.Errorf("failed to update hourly rate: %w", err)
	}
	return nil
}
