package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clock(t *testing.T, raw string) Clock {
	t.Helper()
	c, err := ParseClock(raw)
	require.NoError(t, err)
	return c
}

func TestParseClock(t *testing.T) {
	c, err := ParseClock("09:45")
	require.NoError(t, err)
	assert.Equal(t, Clock(585), c)
	assert.Equal(t, "09:45", c.String())

	for _, bad := range []string{"", "24:00", "9:5", "12:60", "noon"} {
		_, err := ParseClock(bad)
		assert.ErrorIs(t, err, ErrInvalidClock, bad)
	}
}

func TestPermissionHours(t *testing.T) {
	tests := []struct {
		from, to string
		expected float64
		err      error
	}{
		{from: "10:00", to: "12:00", expected: 2},
		{from: "10:00", to: "11:30", expected: 1.5},
		{from: "10:00", to: "10:20", expected: 0.33},
		{from: "16:10", to: "16:55", expected: 0.75},
		{from: "12:00", to: "12:00", err: ErrInvalidTimeRange},
		{from: "23:00", to: "01:00", err: ErrInvalidTimeRange},
	}
	for _, tt := range tests {
		t.Run(tt.from+"-"+tt.to, func(t *testing.T) {
			hours, err := PermissionHours(clock(t, tt.from), clock(t, tt.to))
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, hours)
		})
	}
}

func TestWorkedHours(t *testing.T) {
	assert.Equal(t, 8.0, WorkedHours(clock(t, "09:00"), clock(t, "18:00"), 60))
	assert.Equal(t, 8.5, WorkedHours(clock(t, "22:00"), clock(t, "06:30"), 0))
	assert.Equal(t, 0.0, WorkedHours(clock(t, "09:00"), clock(t, "09:20"), 30))
	assert.Equal(t, 0.0, WorkedHours(clock(t, "09:00"), clock(t, "09:00"), 0))
}

func TestClockRangesOverlap(t *testing.T) {
	assert.True(t, ClockRangesOverlap(clock(t, "10:00"), clock(t, "11:00"), clock(t, "10:30"), clock(t, "12:00")))
	assert.False(t, ClockRangesOverlap(clock(t, "10:00"), clock(t, "11:00"), clock(t, "11:00"), clock(t, "12:00")))
	assert.True(t, ClockRangesOverlap(clock(t, "09:00"), clock(t, "17:00"), clock(t, "12:00"), clock(t, "13:00")))
}

func TestIsOvernight(t *testing.T) {
	assert.True(t, IsOvernight(clock(t, "22:00"), clock(t, "06:00")))
	assert.False(t, IsOvernight(clock(t, "06:00"), clock(t, "14:00")))
}
