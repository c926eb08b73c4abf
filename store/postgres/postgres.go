/*
Package postgres provides a PostgreSQL-backed implementation of the storage
interfaces on a pgx connection pool.

PURPOSE:
  Same contract and schema as store/sqlite, for deployments that already
  run PostgreSQL. Timestamps are TIMESTAMPTZ; the session time zone is
  pinned to UTC so returned punch times are UTC.

CONCURRENCY:
  pgxpool handles connection concurrency; multi-statement operations run
  in a transaction. No process-level lock.

SEE ALSO:
  - store/sqlite/sqlite.go: SQLite implementation of the same interfaces
  - payroll/store.go, directory/directory.go: interfaces
*/
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/directory"
	"github.com/warp/payroll-engine/payroll"
)

// Config configures the pool.
type Config struct {
	URL      string
	MaxConns int32
}

// Store implements all storage interfaces using PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

var (
	_ payroll.EntryStore = (*Store)(nil)
	_ payroll.RateStore  = (*Store)(nil)
	_ directory.Store    = (*Store)(nil)
)

var newPool = pgxpool.NewWithConfig

// PoolConfig parses cfg into a pgxpool config with the session time zone
// set to UTC.
func PoolConfig(cfg Config) (*pgxpool.Config, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid database url: %w", err)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if pcfg.ConnConfig.RuntimeParams == nil {
		pcfg.ConnConfig.RuntimeParams = map[string]string{}
	}
	pcfg.ConnConfig.RuntimeParams["timezone"] = "UTC"
	return pcfg, nil
}

// Open connects, pings and migrates.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	pcfg, err := PoolConfig(cfg)
	if err != nil {
		return nil, err
	}
	pool, err := newPool(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the pool.
func (s *Store) Close() error {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// schema mirrors the SQLite schema. Statements run in order inside one transaction.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS construction_sites (
		id SERIAL PRIMARY KEY,
		name VARCHAR(200) NOT NULL,
		address VARCHAR(500) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS roles (
		id SERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS employees (
		id SERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		last_name VARCHAR(100) NOT NULL,
		role_id INTEGER REFERENCES roles(id),
		construction_site_id INTEGER REFERENCES construction_sites(id),
		hourly_rate NUMERIC(10,2) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'inactive')),
		fire_date DATE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS time_entries (
		id SERIAL PRIMARY KEY,
		employee_id INTEGER REFERENCES employees(id) ON DELETE CASCADE,
		punch_time TIMESTAMPTZ NOT NULL,
		entry_type VARCHAR(10) NOT NULL CHECK (entry_type IN ('in', 'out', 'sick', 'vacation')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_time_entries_punch_time ON time_entries(punch_time)`,
	`CREATE INDEX IF NOT EXISTS idx_time_entries_employee ON time_entries(employee_id)`,
	`CREATE TABLE IF NOT EXISTS user_settings (
		id INTEGER PRIMARY KEY DEFAULT 1 CHECK (id = 1),
		hourly_rate NUMERIC(10,2) NOT NULL DEFAULT 15.00,
		timezone VARCHAR(50) NOT NULL DEFAULT 'UTC',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`INSERT INTO user_settings (id) VALUES (1) ON CONFLICT (id) DO NOTHING`,
}

func (s *Store) migrate(ctx context.Context) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		for _, stmt := range schema {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
}

// =============================================================================
// ENTRY STORE (payroll.EntryStore interface)
// =============================================================================

// InsertEntry appends a punch. There is no update or delete counterpart.
func (s *Store) InsertEntry(ctx context.Context, punchTime time.Time, entryType payroll.EntryType) (payroll.TimeEntry, error) {
	e := payroll.TimeEntry{PunchTime: punchTime.UTC(), Type: entryType}

	err := s.pool.QueryRow(ctx,
		`INSERT INTO time_entries (punch_time, entry_type) VALUES ($1, $2) RETURNING id, created_at`,
		e.PunchTime, string(e.Type),
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return payroll.TimeEntry{}, fmt.Errorf("failed to insert time entry: %w", err)
	}
	e.CreatedAt = e.CreatedAt.UTC()
	return e, nil
}

// ListEntries returns entries with start <= punch_time <= end, oldest first.
func (s *Store) ListEntries(ctx context.Context, start, end time.Time) ([]payroll.TimeEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, punch_time, entry_type, created_at
		FROM time_entries
		WHERE punch_time >= $1 AND punch_time <= $2
		ORDER BY punch_time ASC, id ASC`,
		start.UTC(), end.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query time entries: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (payroll.TimeEntry, error) {
		var e payroll.TimeEntry
		var entryType string
		if err := row.Scan(&e.ID, &e.PunchTime, &entryType, &e.CreatedAt); err != nil {
			return e, err
		}
		e.PunchTime = e.PunchTime.UTC()
		e.CreatedAt = e.CreatedAt.UTC()
		e.Type = payroll.EntryType(entryType)
		return e, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan time entries: %w", err)
	}
	return entries, nil
}

// =============================================================================
// RATE STORE (payroll.RateStore interface)
// =============================================================================

// CurrentRate returns the stored hourly rate, or the default if the
// settings row is missing.
func (s *Store) CurrentRate(ctx context.Context) (decimal.Decimal, error) {
	var raw string
	err := s.pool.QueryRow(ctx, `SELECT hourly_rate::text FROM user_settings WHERE id = 1`).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
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
	_, err := s.pool.Exec(ctx, `
		INSERT INTO user_settings (id, hourly_rate, updated_at) VALUES (1, $1::text::numeric, NOW())
		ON CONFLICT (id) DO UPDATE SET hourly_rate = EXCLUDED.hourly_rate, updated_at = NOW()`,
		rate.StringFixed(payroll.RateDecimals),
	)
	if err != nil {
		return fmt.Errorf("failed to update hourly rate: %w", err)
	}
	return nil
}
