package calc

import (
	"testing"
	"time"

	"hr-system/pkg/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestLeaveDays(t *testing.T) {
	// 2026-03-01 - воскресенье, 2026-03-04 - праздник
	cal := NewCalendar([]time.Time{date("2026-03-04")}, []time.Weekday{time.Sunday})

	tests := []struct {
		name            string
		from, to        string
		duration        constants.DurationType
		countNonWorking bool
		expected        float64
		err             error
	}{
		{name: "single working day", from: "2026-03-02", to: "2026-03-02", duration: constants.DurationFullDay, expected: 1},
		{name: "week skips sunday and holiday", from: "2026-03-01", to: "2026-03-07", duration: constants.DurationFullDay, expected: 5},
		{name: "week counting non working days", from: "2026-03-01", to: "2026-03-07", duration: constants.DurationFullDay, countNonWorking: true, expected: 7},
		{name: "first half", from: "2026-03-02", to: "2026-03-02", duration: constants.DurationFirstHalf, expected: 0.5},
		{name: "second half", from: "2026-03-03", to: "2026-03-03", duration: constants.DurationSecondHalf, expected: 0.5},
		{name: "half day across dates", from: "2026-03-02", to: "2026-03-03", duration: constants.DurationFirstHalf, err: ErrHalfDaySpan},
		{name: "half day on holiday", from: "2026-03-04", to: "2026-03-04", duration: constants.DurationSecondHalf, err: ErrNoWorkingDays},
		{name: "half day on holiday counted", from: "2026-03-04", to: "2026-03-04", duration: constants.DurationSecondHalf, countNonWorking: true, expected: 0.5},
		{name: "only sunday", from: "2026-03-01", to: "2026-03-01", duration: constants.DurationFullDay, err: ErrNoWorkingDays},
		{name: "reversed range", from: "2026-03-05", to: "2026-03-02", duration: constants.DurationFullDay, err: ErrInvalidRange},
		{name: "too long", from: "2026-01-01", to: "2027-01-02", duration: constants.DurationFullDay, err: ErrRangeTooLong},
		{name: "unknown duration", from: "2026-03-02", to: "2026-03-02", duration: "QUARTER", err: ErrUnknownType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, err := LeaveDays(date(tt.from), date(tt.to), tt.duration, cal.IsNonWorking, tt.countNonWorking)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, days)
		})
	}
}

func TestLeaveDaysNilCalendar(t *testing.T) {
	days, err := LeaveDays(date("2026-03-01"), date("2026-03-03"), constants.DurationFullDay, nil, false)
	require.NoError(t, err)
	assert.Equal(t, 3.0, days)
}

func TestLeaveDaysIgnoresTimeOfDay(t *testing.T) {
	from := time.Date(2026, 3, 2, 23, 30, 0, 0, time.UTC)
	to := time.Date(2026, 3, 3, 0, 15, 0, 0, time.UTC)

	days, err := LeaveDays(from, to, constants.DurationFullDay, nil, true)
	require.NoError(t, err)
	assert.Equal(t, 2.0, days)
}

func TestHalfDaysClash(t *testing.T) {
	assert.False(t, HalfDaysClash(constants.DurationFirstHalf, constants.DurationSecondHalf))
	assert.False(t, HalfDaysClash(constants.DurationSecondHalf, constants.DurationFirstHalf))
	assert.True(t, HalfDaysClash(constants.DurationFirstHalf, constants.DurationFirstHalf))
	assert.True(t, HalfDaysClash(constants.DurationFullDay, constants.DurationSecondHalf))
	assert.True(t, HalfDaysClash(constants.DurationFullDay, constants.DurationFullDay))
}

func TestCompOffDays(t *testing.T) {
	full, err := CompOffDays(constants.CompOffFullDay)
	require.NoError(t, err)
	assert.Equal(t, 1.0, full)

	half, err := CompOffDays(constants.CompOffHalfDay)
	require.NoError(t, err)
	assert.Equal(t, 0.5, half)

	_, err = CompOffDays("NIGHT")
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestCalendar(t *testing.T) {
	cal := NewCalendar([]time.Time{time.Date(2026, 1, 26, 15, 0, 0, 0, time.UTC)}, []time.Weekday{time.Saturday, time.Sunday})

	assert.True(t, cal.IsHoliday(date("2026-01-26")))
	assert.False(t, cal.IsWeeklyOff(date("2026-01-26")))
	assert.True(t, cal.IsNonWorking(date("2026-01-24")))
	assert.True(t, cal.IsNonWorking(date("2026-01-25")))
	assert.False(t, cal.IsNonWorking(date("2026-01-27")))
}

func TestInclusiveDaysAndOverlap(t *testing.T) {
	assert.Equal(t, 1, InclusiveDays(date("2026-02-10"), date("2026-02-10")))
	assert.Equal(t, 29, InclusiveDays(date("2028-02-01"), date("2028-02-29")))
	assert.Equal(t, 0, InclusiveDays(date("2026-02-11"), date("2026-02-10")))

	assert.True(t, RangesOverlap(date("2026-02-01"), date("2026-02-05"), date("2026-02-05"), date("2026-02-09")))
	assert.False(t, RangesOverlap(date("2026-02-01"), date("2026-02-04"), date("2026-02-05"), date("2026-02-09")))
	assert.True(t, RangesOverlap(date("2026-02-01"), date("2026-02-28"), date("2026-02-10"), date("2026-02-11")))
}
