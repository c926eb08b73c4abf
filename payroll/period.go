package payroll

import "time"

// =============================================================================
// PERIOD - Semi-monthly pay period
// =============================================================================

// Period is an inclusive pair of instants [Start, End].
//
// Pay periods split every month in two fixed halves:
//   - days 1-15
//   - day 16 through the last day of the month (28-31)
//
// Start is 00:00:00 and End is 23:59:59 on the boundary days, both UTC.
type Period struct {
	Start time.Time
	End   time.Time
}

const firstHalfLastDay = 15

// PeriodFor returns the pay period containing ref's UTC calendar date.
func PeriodFor(ref time.Time) Period {
	ref = ref.UTC()
	year, month, day := ref.Date()

	if day <= firstHalfLastDay {
		return Period{
			Start: time.Date(year, month, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(year, month, firstHalfLastDay, 23, 59, 59, 0, time.UTC),
		}
	}
	return Period{
		Start: time.Date(year, month, firstHalfLastDay+1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, month, lastDayOfMonth(year, month), 23, 59, 59, 0, time.UTC),
	}
}

// lastDayOfMonth handles month lengths and leap years via time.Date normalization.
func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Validate rejects a period whose end precedes its start.
func (p Period) Validate() error {
	if p.Start.After(p.End) {
		return &InvalidPeriodError{Start: p.Start, End: p.End}
	}
	return nil
}

// Contains returns true if t is within [Start, End].
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// Days returns every calendar day the period touches.
func (p Period) Days() []Day {
	var days []Day
	for d := DayOf(p.Start); !d.Time().After(p.End); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

// Next returns the pay period following this one.
func (p Period) Next() Period {
	return PeriodFor(p.End.Add(time.Second))
}

// Previous returns the pay period before this one.
func (p Period) Previous() Period {
	return PeriodFor(p.Start.Add(-time.Second))
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.Format(time.RFC3339) + ", " + p.End.Format(time.RFC3339) + "]"
}

// =============================================================================
// DAY BOUNDS
// =============================================================================

// StartOfDay returns 00:00:00 UTC of t's UTC date.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the last representable instant of t's UTC date.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// MonthBounds returns [first instant, last instant] of a UTC calendar month.
func MonthBounds(year int, month time.Month) Period {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Period{Start: start, End: start.AddDate(0, 1, 0).Add(-time.Nanosecond)}
}
