/*
calculator.go - Payroll service over the entry and rate stores

PURPOSE:
  The engine's boundary. Resolves defaults, validates input, performs the
  single store read per calculation and hands the data to the pure
  functions in aggregate.go and today.go.

REQUEST FLOW (CalculatePeriodPay):
  1. If either bound is omitted, both come from the current semi-monthly period
  2. start > end is rejected before any query
  3. Entries for [start, end] are read, then the current rate
  4. Any store failure aborts the calculation (no partial result)
  5. Aggregate() folds the entries into a Calculation

CONCURRENCY:
  Calculator holds no mutable state and is safe for concurrent use.
  Repeated requests for the same period each re-read the store.

SEE ALSO:
  - store.go: EntryStore, RateStore
  - aggregate.go: Aggregate
  - today.go: TodayFrom
*/
package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Calculator computes payroll from stored punches.
type Calculator struct {
	Entries EntryStore
	Rates   RateStore

	// Now supplies the current instant. Defaults to time.Now in UTC.
	Now func() time.Time
}

// NewCalculator creates a calculator reading from the given stores.
func NewCalculator(entries EntryStore, rates RateStore) *Calculator {
	return &Calculator{
		Entries: entries,
		Rates:   rates,
		Now:     func() time.Time { return time.Now().UTC() },
	}
}

func (c *Calculator) now() time.Time {
	if c.Now == nil {
		return time.Now().UTC()
	}
	return c.Now().UTC()
}

// =============================================================================
// PERIOD PAY
// =============================================================================

// ResolvePeriod returns [start, end], or the current pay period when either
// bound is omitted. A lone bound is ignored.
func (c *Calculator) ResolvePeriod(start, end *time.Time) (Period, error) {
	if start == nil || end == nil {
		return PeriodFor(c.now()), nil
	}
	p := Period{Start: *start, End: *end}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

// CalculatePeriodPay computes the payroll summary for [start, end].
// If either bound is nil the current semi-monthly period is used.
func (c *Calculator) CalculatePeriodPay(ctx context.Context, start, end *time.Time) (*Calculation, error) {
	period, err := c.ResolvePeriod(start, end)
	if err != nil {
		return nil, err
	}

	entries, err := c.Entries.ListEntries(ctx, period.Start, period.End)
	if err != nil {
		return nil, unavailable("list entries", err)
	}

	rate, err := c.Rates.CurrentRate(ctx)
	if err != nil {
		return nil, unavailable("current rate", err)
	}

	calc := Aggregate(entries, rate, period, c.now())
	return &calc, nil
}

// PeriodBreakdown returns the per-day detail behind CalculatePeriodPay.
func (c *Calculator) PeriodBreakdown(ctx context.Context, start, end *time.Time) (Period, []DayBreakdown, error) {
	period, err := c.ResolvePeriod(start, end)
	if err != nil {
		return Period{}, nil, err
	}

	entries, err := c.Entries.ListEntries(ctx, period.Start, period.End)
	if err != nil {
		return Period{}, nil, unavailable("list entries", err)
	}
	return period, Breakdown(entries, c.now()), nil
}

// =============================================================================
// TODAY
// =============================================================================

// TodayHours reports the clock state for the UTC day containing now.
// A nil now means the calculator's current instant.
func (c *Calculator) TodayHours(ctx context.Context, now *time.Time) (*TodayStatus, error) {
	at := c.now()
	if now != nil {
		at = now.UTC()
	}

	entries, err := c.Entries.ListEntries(ctx, StartOfDay(at), EndOfDay(at))
	if err != nil {
		return nil, unavailable("list entries", err)
	}

	status := TodayFrom(entries, at)
	return &status, nil
}

// =============================================================================
// PUNCH AND CALENDAR
// =============================================================================

// Punch records an entry at the given instant, or now when at is nil.
func (c *Calculator) Punch(ctx context.Context, entryType EntryType, at *time.Time) (TimeEntry, error) {
	if _, err := ParseEntryType(string(entryType)); err != nil {
		return TimeEntry{}, err
	}

	punchTime := c.now()
	if at != nil {
		punchTime = at.UTC()
	}

	entry, err := c.Entries.InsertEntry(ctx, punchTime, entryType)
	if err != nil {
		return TimeEntry{}, unavailable("insert entry", err)
	}
	return entry, nil
}

// Calendar returns a UTC month's entries grouped by day.
func (c *Calculator) Calendar(ctx context.Context, year int, month time.Month) (map[Day][]TimeEntry, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("%w: month %d out of range", ErrInvalidPeriod, month)
	}
	bounds := MonthBounds(year, month)

	entries, err := c.Entries.ListEntries(ctx, bounds.Start, bounds.End)
	if err != nil {
		return nil, unavailable("list entries", err)
	}
	return GroupByDay(entries), nil
}

// =============================================================================
// RATE
// =============================================================================

// CurrentRate returns the hourly rate used for calculations.
func (c *Calculator) CurrentRate(ctx context.Context) (decimal.Decimal, error) {
	rate, err := c.Rates.CurrentRate(ctx)
	if err != nil {
		return decimal.Zero, unavailable("current rate", err)
	}
	return rate, nil
}

// UpdateRate sets a new hourly rate, rounded to RateDecimals places.
// The rounded rate must be positive.
func (c *Calculator) UpdateRate(ctx context.Context, rate decimal.Decimal) error {
	rate = rate.Round(RateDecimals)
	if !rate.IsPositive() {
		return ErrInvalidRate
	}
	if err := c.Rates.UpdateRate(ctx, rate); err != nil {
		return unavailable("update rate", err)
	}
	return nil
}
