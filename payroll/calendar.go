package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DAY - Calendar date key
// =============================================================================

// Day is a calendar date with no time or zone. Comparable, usable as a map key.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the calendar date of t in t's own location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Day: d}
}

// ParseDay parses a YYYY-MM-DD date.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD): %w", s, err)
	}
	return DayOf(t), nil
}

// Time returns 00:00:00 UTC on the day.
func (d Day) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Day) Weekday() time.Weekday { return d.Time().Weekday() }
func (d Day) AddDays(n int) Day      { return DayOf(d.Time().AddDate(0, 0, n)) }
func (d Day) Before(o Day) bool      { return d.Time().Before(o.Time()) }
func (d Day) String() string         { return d.Time().Format(time.DateOnly) }

// =============================================================================
// DAY CLASSIFIER
// =============================================================================

// DayKind is the pay category of a worked day.
type DayKind string

const (
	DayRegular DayKind = "regular"
	DayWeekend DayKind = "weekend" // Saturday
	DayHoliday DayKind = "holiday" // Sunday
)

// IsWeekend is true for Saturday only. Sunday is a holiday, not a weekend day.
func IsWeekend(d Day) bool { return d.Weekday() == time.Saturday }

// IsHoliday is true for Sunday.
func IsHoliday(d Day) bool { return d.Weekday() == time.Sunday }

// Classify returns the day's pay category. Holiday wins over weekend.
func Classify(d Day) DayKind {
	switch {
	case IsHoliday(d):
		return DayHoliday
	case IsWeekend(d):
		return DayWeekend
	default:
		return DayRegular
	}
}

// =============================================================================
// PAY RULES
// =============================================================================

var (
	// RegularDayHours is the daily cap on regular hours; the rest is overtime.
	RegularDayHours = decimal.NewFromInt(8)

	// LeaveDayHours is the flat credit for a sick or vacation day.
	LeaveDayHours = decimal.NewFromInt(8)
)

// Multipliers applied to the hourly rate per hour bucket.
var (
	RegularMultiplier  = decimal.NewFromInt(1)
	OvertimeMultiplier = decimal.RequireFromString("1.15")
	WeekendMultiplier  = decimal.RequireFromString("1.5")
	HolidayMultiplier  = decimal.RequireFromString("2.0")
	SickMultiplier     = decimal.NewFromInt(1)
	VacationMultiplier = decimal.NewFromInt(1)
)
