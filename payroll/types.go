/*
Package payroll provides the payroll calculation engine.

PURPOSE:
  Turns a sequence of timestamped punch events into categorized hour
  buckets and a gross-pay figure for a semi-monthly pay period. Everything
  here is a pure computation over entries handed in by a store; the only
  I/O lives in calculator.go, which fetches entries and the current rate.

KEY CONCEPTS IN THIS FILE (types.go):
  - EntryType: in, out, sick, vacation
  - TimeEntry: an immutable punch event (append-only)
  - Calculation: the per-request payroll summary, never persisted
  - TodayStatus: clock-in state and hours for the current UTC day

DESIGN PRINCIPLES:
  1. Immutability: entries are never modified or deleted by the engine
  2. Precision: hours and money use decimal.Decimal, never float64
  3. Recompute: every calculation re-reads raw entries; nothing is cached

USAGE:
  calc := payroll.NewCalculator(entryStore, rateStore)
  summary, err := calc.CalculatePeriodPay(ctx, nil, nil) // current period

SEE ALSO:
  - hours.go: Daily Hours Calculator
  - period.go: semi-monthly period bounds
  - calendar.go: day classification and multipliers
  - aggregate.go: per-day grouping and bucket accumulation
  - today.go: today status
*/
package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ENTRY TYPE
// =============================================================================

// EntryType is the kind of punch recorded.
type EntryType string

const (
	EntryIn       EntryType = "in"
	EntryOut      EntryType = "out"
	EntrySick     EntryType = "sick"
	EntryVacation EntryType = "vacation"
)

// EntryTypes lists every accepted entry type.
var EntryTypes = []EntryType{EntryIn, EntryOut, EntrySick, EntryVacation}

// ParseEntryType validates a raw entry type string.
func ParseEntryType(s string) (EntryType, error) {
	switch t := EntryType(s); t {
	case EntryIn, EntryOut, EntrySick, EntryVacation:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidEntryType, s)
}

// IsPunch reports whether the type feeds the daily hours calculation.
func (t EntryType) IsPunch() bool { return t == EntryIn || t == EntryOut }

// IsLeave reports whether the type is a flat 8-hour leave block.
func (t EntryType) IsLeave() bool { return t == EntrySick || t == EntryVacation }

// Title returns the type with an upper-case first letter ("In", "Sick").
func (t EntryType) Title() string {
	if t == "" {
		return ""
	}
	b := []byte(t)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}

// =============================================================================
// TIME ENTRY - Immutable punch event
// =============================================================================

// TimeEntry is a single punch. Owned by the entry store; never mutated.
type TimeEntry struct {
	ID        int64
	PunchTime time.Time
	Type      EntryType
	CreatedAt time.Time
}

// =============================================================================
// CALCULATION - Payroll summary for one period
// =============================================================================

// Calculation is the payroll summary for a period. It is produced fresh per
// request and never persisted.
//
// INVARIANT: TotalHours == Regular + Overtime + Weekend + Holiday + Sick + Vacation.
type Calculation struct {
	RegularHours  decimal.Decimal
	OvertimeHours decimal.Decimal
	WeekendHours  decimal.Decimal
	HolidayHours  decimal.Decimal
	SickHours     decimal.Decimal
	VacationHours decimal.Decimal
	TotalHours    decimal.Decimal
	GrossPay      decimal.Decimal
	HourlyRate    decimal.Decimal
	PeriodStart   time.Time
	PeriodEnd     time.Time
}

// Period returns the bounds the calculation covers.
func (c Calculation) Period() Period {
	return Period{Start: c.PeriodStart, End: c.PeriodEnd}
}

// =============================================================================
// TODAY STATUS
// =============================================================================

// TodayStatus reports the current clock state for the UTC day.
type TodayStatus struct {
	TotalHours  decimal.Decimal
	IsClockedIn bool
	ClockInTime string // "15:04" when clocked in, empty otherwise
	EntryCount  int
}
