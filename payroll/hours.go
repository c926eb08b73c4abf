package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

var secondsPerHour = decimal.NewFromInt(3600)

// DailyHours reduces one day's punches, in chronological order, to worked hours.
//
// A second consecutive "in" replaces the first. An "out" with no open "in"
// contributes nothing. A day that ends clocked in counts up to asOf, and
// not at all when the open "in" is after asOf.
// Entries that are not in/out are skipped. The result is not capped.
func DailyHours(entries []TimeEntry, asOf time.Time) decimal.Decimal {
	total := decimal.Zero
	var open *time.Time

	for i := range entries {
		e := entries[i]
		switch e.Type {
		case EntryIn:
			t := e.PunchTime
			open = &t
		case EntryOut:
			if open == nil {
				continue
			}
			total = total.Add(seconds(e.PunchTime.Sub(*open)))
			open = nil
		}
	}

	if open != nil && asOf.After(*open) {
		total = total.Add(seconds(asOf.Sub(*open)))
	}

	return total.Div(secondsPerHour)
}

// seconds converts a duration to exact decimal seconds (nanosecond precision).
func seconds(d time.Duration) decimal.Decimal {
	return decimal.New(d.Nanoseconds(), -9)
}

// punches filters entries down to in/out, keeping order.
func punches(entries []TimeEntry) []TimeEntry {
	out := make([]TimeEntry, 0, len(entries))
	for _, e := range entries {
		if e.Type.IsPunch() {
			out = append(out, e)
		}
	}
	return out
}
