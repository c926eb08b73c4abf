/*
store.go - Persistence interfaces the payroll engine consumes

PURPOSE:
  Defines what the engine needs from storage and nothing more. The engine
  owns no data; it reads punches and the current rate on every call.

KEY INTERFACES:
  EntryStore: append-only punch log (insert, range query)
  RateStore:  the single process-wide hourly rate

APPEND-ONLY CONTRACT:
  EntryStore has no Update or Delete. Entries disappear only when their
  owning employee row is deleted (database cascade, outside the engine).

ORDERING CONTRACT:
  ListEntries returns entries with start <= punch_time <= end, ascending by
  punch_time. The engine relies on nothing else.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - store/postgres/postgres.go: PostgreSQL (pgx)
  - payroll/store/memory.go: In-memory for testing

SEE ALSO:
  - calculator.go: The only consumer
*/
package payroll

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RateDecimals is the number of decimal places an hourly rate is kept at.
const RateDecimals = 2

// DefaultHourlyRate is used when no rate has ever been stored.
var DefaultHourlyRate = decimal.RequireFromString("15.00")

// EntryStore persists punch events.
// IMPORTANT: append-only. No Update, no Delete.
type EntryStore interface {
	// ListEntries returns entries in [start, end], ascending by punch time.
	ListEntries(ctx context.Context, start, end time.Time) ([]TimeEntry, error)

	// InsertEntry records a punch and returns it with its assigned ID.
	InsertEntry(ctx context.Context, punchTime time.Time, entryType EntryType) (TimeEntry, error)
}

// RateStore holds the single current hourly rate.
type RateStore interface {
	// CurrentRate returns the rate, or DefaultHourlyRate if none is stored.
	CurrentRate(ctx context.Context) (decimal.Decimal, error)

	// UpdateRate replaces the rate. It applies to every later calculation,
	// including recalculations of past periods.
	UpdateRate(ctx context.Context, rate decimal.Decimal) error
}
