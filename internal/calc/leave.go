package calc

import (
	"errors"
	"time"

	"hr-system/pkg/constants"
)

// MaxLeaveSpanDays - самый длинный допустимый отпуск одной записью.
const MaxLeaveSpanDays = 366

var (
	ErrInvalidRange  = errors.New("дата начала позже даты окончания")
	ErrHalfDaySpan   = errors.New("полдня можно взять только на одну дату")
	ErrNoWorkingDays = errors.New("в выбранном периоде нет рабочих дней")
	ErrRangeTooLong  = errors.New("период слишком длинный")
	ErrUnknownType   = errors.New("неизвестный тип продолжительности")
)

// LeaveDays считает дни отпуска. Для полудня результат 0.5; для полных дней
// нерабочие даты пропускаются, если countNonWorking == false.
func LeaveDays(from, to time.Time, duration constants.DurationType, isNonWorking func(time.Time) bool, countNonWorking bool) (float64, error) {
	from, to = DateOnly(from), DateOnly(to)
	if from.After(to) {
		return 0, ErrInvalidRange
	}
	if InclusiveDays(from, to) > MaxLeaveSpanDays {
		return 0, ErrRangeTooLong
	}
	if isNonWorking == nil {
		isNonWorking = func(time.Time) bool { return false }
	}

	switch duration {
	case constants.DurationFirstHalf, constants.DurationSecondHalf:
		if !from.Equal(to) {
			return 0, ErrHalfDaySpan
		}
		if !countNonWorking && isNonWorking(from) {
			return 0, ErrNoWorkingDays
		}
		return 0.5, nil
	case constants.DurationFullDay:
		days := 0
		EachDay(from, to, func(d time.Time) {
			if countNonWorking || !isNonWorking(d) {
				days++
			}
		})
		if days == 0 {
			return 0, ErrNoWorkingDays
		}
		return float64(days), nil
	}
	return 0, ErrUnknownType
}

// HalfDaysClash - пересекаются ли две записи отпуска на общей дате.
// Первая и вторая половина одного дня друг другу не мешают.
func HalfDaysClash(a, b constants.DurationType) bool {
	if a.IsHalfDay() && b.IsHalfDay() {
		return a == b
	}
	return true
}

// CompOffDays - сколько дней отгула даёт отработанный выходной.
func CompOffDays(duration constants.CompOffDuration) (float64, error) {
	switch duration {
	case constants.CompOffFullDay:
		return 1, nil
	case constants.CompOffHalfDay:
		return 0.5, nil
	}
	return 0, ErrUnknownType
}
