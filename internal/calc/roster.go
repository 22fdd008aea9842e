package calc

import (
	"errors"
	"time"

	"hr-system/pkg/constants"
)

var (
	ErrMonthStart        = errors.New("месячный график должен начинаться с первого числа")
	ErrUnknownPeriodType = errors.New("неизвестный тип периода")
)

// RosterPeriod возвращает последнюю дату периода графика.
func RosterPeriod(periodType constants.PeriodType, start time.Time) (time.Time, error) {
	start = DateOnly(start)
	switch periodType {
	case constants.PeriodWeek:
		return start.AddDate(0, 0, 6), nil
	case constants.PeriodMonth:
		if start.Day() != 1 {
			return time.Time{}, ErrMonthStart
		}
		return start.AddDate(0, 1, -1), nil
	}
	return time.Time{}, ErrUnknownPeriodType
}

// ExpandDates - все даты периода, попадающие в указанные дни недели.
// Пустой weekdays означает все дни.
func ExpandDates(from, to time.Time, weekdays []time.Weekday) []time.Time {
	allowed := make(map[time.Weekday]bool, len(weekdays))
	for _, d := range weekdays {
		allowed[d] = true
	}
	var dates []time.Time
	EachDay(from, to, func(d time.Time) {
		if len(allowed) == 0 || allowed[d.Weekday()] {
			dates = append(dates, d)
		}
	})
	return dates
}

// CopyDate переносит дату графика в новый период того же типа: неделя сдвигается
// на разницу начал, месяц сохраняет число. ok=false, если даты нет в новом периоде.
func CopyDate(periodType constants.PeriodType, oldStart, newStart, newEnd, d time.Time) (time.Time, bool) {
	var moved time.Time
	switch periodType {
	case constants.PeriodMonth:
		moved = DateOnly(newStart).AddDate(0, 0, DateOnly(d).Day()-1)
	default:
		moved = DateOnly(newStart).AddDate(0, 0, InclusiveDays(oldStart, d)-1)
	}
	if moved.Before(DateOnly(newStart)) || moved.After(DateOnly(newEnd)) {
		return time.Time{}, false
	}
	return moved, true
}
