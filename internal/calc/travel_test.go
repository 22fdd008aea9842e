package calc

import (
	"testing"
	"time"

	"hr-system/pkg/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTravelClaimTotals(t *testing.T) {
	totals, err := TravelClaimTotals(date("2026-04-06"), date("2026-04-08"), 1200.50, 300, 500)
	require.NoError(t, err)
	assert.Equal(t, 3, totals.DADays)
	assert.Equal(t, 1500.0, totals.DAAmount)
	assert.Equal(t, 3000.5, totals.TotalAmount)

	_, err = TravelClaimTotals(date("2026-04-08"), date("2026-04-06"), 0, 0, 500)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = TravelClaimTotals(date("2026-04-06"), date("2026-04-06"), -1, 0, 500)
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestRosterPeriod(t *testing.T) {
	end, err := RosterPeriod(constants.PeriodWeek, date("2026-05-04"))
	require.NoError(t, err)
	assert.Equal(t, date("2026-05-10"), end)

	end, err = RosterPeriod(constants.PeriodMonth, date("2028-02-01"))
	require.NoError(t, err)
	assert.Equal(t, date("2028-02-29"), end)

	_, err = RosterPeriod(constants.PeriodMonth, date("2026-05-04"))
	assert.ErrorIs(t, err, ErrMonthStart)

	_, err = RosterPeriod("YEAR", date("2026-01-01"))
	assert.ErrorIs(t, err, ErrUnknownPeriodType)
}

func TestExpandDates(t *testing.T) {
	all := ExpandDates(date("2026-05-04"), date("2026-05-10"), nil)
	assert.Len(t, all, 7)

	// 2026-05-04 - понедельник
	mondays := ExpandDates(date("2026-05-04"), date("2026-05-31"), []time.Weekday{time.Monday})
	require.Len(t, mondays, 4)
	assert.Equal(t, date("2026-05-25"), mondays[3])
}

func TestCopyDate(t *testing.T) {
	moved, ok := CopyDate(constants.PeriodWeek, date("2026-05-04"), date("2026-05-11"), date("2026-05-17"), date("2026-05-06"))
	require.True(t, ok)
	assert.Equal(t, date("2026-05-13"), moved)

	moved, ok = CopyDate(constants.PeriodMonth, date("2026-01-01"), date("2026-02-01"), date("2026-02-28"), date("2026-01-15"))
	require.True(t, ok)
	assert.Equal(t, date("2026-02-15"), moved)

	_, ok = CopyDate(constants.PeriodMonth, date("2026-01-01"), date("2026-02-01"), date("2026-02-28"), date("2026-01-30"))
	assert.False(t, ok, "30 января нет в феврале")
}
