/*
aggregate.go - Payroll Aggregator

PURPOSE:
  Folds a period's entries into hour buckets and gross pay.

ALGORITHM:
  1. Group entries by calendar date (GroupByDay, a pure transformation)
  2. Per day, independently:
       a. any sick entry     -> +8 sick, rest of the day ignored
       b. any vacation entry -> +8 vacation, rest of the day ignored
       c. no in/out entries  -> day contributes nothing
       d. otherwise hours = DailyHours(in/out entries)
            Sunday   -> holiday
            Saturday -> weekend
            weekday  -> min(hours, 8) regular, max(hours-8, 0) overtime
  3. Total = sum of the six buckets
  4. Gross = sum of bucket * rate * multiplier

DETERMINISM:
  Days are processed in ascending date order. Given the same entries, rate
  and asOf the result is identical on every call.

SEE ALSO:
  - hours.go: DailyHours
  - calendar.go: Classify and the multiplier table
*/
package payroll

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// GROUPING
// =============================================================================

// GroupByDay buckets entries by the calendar date of their punch time,
// keeping input order inside each bucket.
func GroupByDay(entries []TimeEntry) map[Day][]TimeEntry {
	days := make(map[Day][]TimeEntry)
	for _, e := range entries {
		d := DayOf(e.PunchTime)
		days[d] = append(days[d], e)
	}
	return days
}

// SortedDays returns the keys of a grouping in ascending order.
func SortedDays(days map[Day][]TimeEntry) []Day {
	keys := make([]Day, 0, len(days))
	for d := range days {
		keys = append(keys, d)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })
	return keys
}

// =============================================================================
// PER-DAY BREAKDOWN
// =============================================================================

// DayBreakdown is one day's contribution to the period buckets.
type DayBreakdown struct {
	Day      Day
	Kind     DayKind
	Regular  decimal.Decimal
	Overtime decimal.Decimal
	Weekend  decimal.Decimal
	Holiday  decimal.Decimal
	Sick     decimal.Decimal
	Vacation decimal.Decimal
}

// Hours returns the day's total across all buckets.
func (b DayBreakdown) Hours() decimal.Decimal {
	return b.Regular.Add(b.Overtime).Add(b.Weekend).Add(b.Holiday).Add(b.Sick).Add(b.Vacation)
}

// BreakdownDay applies the per-day rules to a single date's entries.
// ok is false when the day contributes nothing (no leave, no punches).
func BreakdownDay(day Day, entries []TimeEntry, asOf time.Time) (b DayBreakdown, ok bool) {
	b = DayBreakdown{
		Day:      day,
		Kind:     Classify(day),
		Regular:  decimal.Zero,
		Overtime: decimal.Zero,
		Weekend:  decimal.Zero,
		Holiday:  decimal.Zero,
		Sick:     decimal.Zero,
		Vacation: decimal.Zero,
	}

	if hasType(entries, EntrySick) {
		b.Sick = LeaveDayHours
		return b, true
	}
	if hasType(entries, EntryVacation) {
		b.Vacation = LeaveDayHours
		return b, true
	}

	work := punches(entries)
	if len(work) == 0 {
		return b, false
	}

	hours := DailyHours(work, asOf)
	switch b.Kind {
	case DayHoliday:
		b.Holiday = hours
	case DayWeekend:
		b.Weekend = hours
	default:
		b.Regular = decimal.Min(hours, RegularDayHours)
		b.Overtime = decimal.Max(hours.Sub(RegularDayHours), decimal.Zero)
	}
	return b, true
}

// Breakdown returns the contributing days of an entry set in date order.
func Breakdown(entries []TimeEntry, asOf time.Time) []DayBreakdown {
	grouped := GroupByDay(entries)
	var out []DayBreakdown
	for _, day := range SortedDays(grouped) {
		if b, ok := BreakdownDay(day, grouped[day], asOf); ok {
			out = append(out, b)
		}
	}
	return out
}

func hasType(entries []TimeEntry, t EntryType) bool {
	for _, e := range entries {
		if e.Type == t {
			return true
		}
	}
	return false
}

// =============================================================================
// AGGREGATION
// =============================================================================

// Aggregate computes the payroll summary for entries already restricted to period.
// asOf closes a day that ends clocked in.
func Aggregate(entries []TimeEntry, rate decimal.Decimal, period Period, asOf time.Time) Calculation {
	c := Calculation{
		RegularHours:  decimal.Zero,
		OvertimeHours: decimal.Zero,
		WeekendHours:  decimal.Zero,
		HolidayHours:  decimal.Zero,
		SickHours:     decimal.Zero,
		VacationHours: decimal.Zero,
		HourlyRate:    rate,
		PeriodStart:   period.Start,
		PeriodEnd:     period.End,
	}

	for _, b := range Breakdown(entries, asOf) {
		c.RegularHours = c.RegularHours.Add(b.Regular)
		c.OvertimeHours = c.OvertimeHours.Add(b.Overtime)
		c.WeekendHours = c.WeekendHours.Add(b.Weekend)
		c.HolidayHours = c.HolidayHours.Add(b.Holiday)
		c.SickHours = c.SickHours.Add(b.Sick)
		c.VacationHours = c.VacationHours.Add(b.Vacation)
	}

	c.TotalHours = c.RegularHours.
		Add(c.OvertimeHours).
		Add(c.WeekendHours).
		Add(c.HolidayHours).
		Add(c.SickHours).
		Add(c.VacationHours)
	c.GrossPay = GrossPay(c, rate)
	return c
}

// GrossPay prices the hour buckets of c at rate.
func GrossPay(c Calculation, rate decimal.Decimal) decimal.Decimal {
	return c.RegularHours.Mul(rate).Mul(RegularMultiplier).
		Add(c.OvertimeHours.Mul(rate).Mul(OvertimeMultiplier)).
		Add(c.WeekendHours.Mul(rate).Mul(WeekendMultiplier)).
		Add(c.HolidayHours.Mul(rate).Mul(HolidayMultiplier)).
		Add(c.SickHours.Mul(rate).Mul(SickMultiplier)).
		Add(c.VacationHours.Mul(rate).Mul(VacationMultiplier))
}
