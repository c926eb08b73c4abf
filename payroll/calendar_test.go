package payroll_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-engine/payroll"
)

func TestClassify_SaturdayIsWeekendSundayIsHoliday(t *testing.T) {
	saturday := payroll.DayOf(monday.AddDate(0, 0, -2))
	sunday := payroll.DayOf(monday.AddDate(0, 0, -1))
	weekday := payroll.DayOf(monday)

	require.Equal(t, time.Saturday, saturday.Weekday())
	require.Equal(t, time.Sunday, sunday.Weekday())

	assert.True(t, payroll.IsWeekend(saturday))
	assert.False(t, payroll.IsHoliday(saturday))
	assert.Equal(t, payroll.DayWeekend, payroll.Classify(saturday))

	// Sunday is a holiday, not part of a combined weekend
	assert.True(t, payroll.IsHoliday(sunday))
	assert.False(t, payroll.IsWeekend(sunday))
	assert.Equal(t, payroll.DayHoliday, payroll.Classify(sunday))

	assert.False(t, payroll.IsWeekend(weekday))
	assert.False(t, payroll.IsHoliday(weekday))
	assert.Equal(t, payroll.DayRegular, payroll.Classify(weekday))
}

func TestDay_ParseAndString(t *testing.T) {
	d, err := payroll.ParseDay("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, payroll.Day{Year: 2024, Month: time.February, Day: 29}, d)
	assert.Equal(t, "2024-02-29", d.String())
	assert.Equal(t, "2024-03-01", d.AddDays(1).String())

	_, err = payroll.ParseDay("2025-02-29")
	assert.Error(t, err)
}

func TestParseEntryType(t *testing.T) {
	for _, et := range payroll.EntryTypes {
		got, err := payroll.ParseEntryType(string(et))
		require.NoError(t, err)
		assert.Equal(t, et, got)
	}

	_, err := payroll.ParseEntryType("lunch")
	assert.ErrorIs(t, err, payroll.ErrInvalidEntryType)
	assert.True(t, payroll.IsClientError(err))

	assert.Equal(t, "Vacation", payroll.EntryVacation.Title())
	assert.Equal(t, "In", payroll.EntryIn.Title())
}
