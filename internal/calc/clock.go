package calc

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrInvalidClock     = errors.New("время должно быть в формате ЧЧ:ММ")
	ErrInvalidTimeRange = errors.New("время окончания должно быть позже времени начала")
)

// Clock - время суток в минутах от полуночи.
type Clock int

const minutesPerDay = 24 * 60

func ParseClock(raw string) (Clock, error) {
	t, err := time.Parse("15:04", raw)
	if err != nil {
		return 0, ErrInvalidClock
	}
	return Clock(t.Hour()*60 + t.Minute()), nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// RoundHours округляет часы до сотых.
func RoundHours(h float64) float64 {
	return math.Round(h*100) / 100
}

// PermissionHours - длительность отлучки; переход через полночь не допускается.
func PermissionHours(from, to Clock) (float64, error) {
	if to <= from {
		return 0, ErrInvalidTimeRange
	}
	return RoundHours(float64(to-from) / 60), nil
}

// ClockRangesOverlap - полуинтервалы [aFrom, aTo) и [bFrom, bTo) пересекаются.
func ClockRangesOverlap(aFrom, aTo, bFrom, bTo Clock) bool {
	return aFrom < bTo && bFrom < aTo
}

// WorkedHours - отработанное время за вычетом перерыва. Выход раньше входа
// означает выход на следующие сутки.
func WorkedHours(in, out Clock, breakMinutes int) float64 {
	minutes := int(out - in)
	if minutes < 0 {
		minutes += minutesPerDay
	}
	minutes -= breakMinutes
	if minutes < 0 {
		minutes = 0
	}
	return RoundHours(float64(minutes) / 60)
}

// IsOvernight - смена заканчивается на следующие сутки.
func IsOvernight(start, end Clock) bool {
	return end < start
}
