package payroll

import "time"

// ClockTimeLayout formats the clock-in time of day.
const ClockTimeLayout = "15:04"

// TodayFrom builds the today view from one UTC day's entries in punch order.
//
// The view is clocked in iff the last entry is an "in". Hours come from the
// in/out punches only; sick and vacation entries are counted in EntryCount
// but do not credit the flat 8 hours the period aggregator applies.
func TodayFrom(entries []TimeEntry, now time.Time) TodayStatus {
	status := TodayStatus{
		TotalHours: DailyHours(punches(entries), now),
		EntryCount: len(entries),
	}

	if n := len(entries); n > 0 {
		last := entries[n-1]
		if last.Type == EntryIn {
			status.IsClockedIn = true
			status.ClockInTime = last.PunchTime.Format(ClockTimeLayout)
		}
	}
	return status
}
