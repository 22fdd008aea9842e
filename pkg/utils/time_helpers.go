package utils

import (
	"fmt"
	"math"
	"time"

	apperrors "hr-system/pkg/errors"
)

const DateLayout = "2006-01-02"

// ParseDate разбирает YYYY-MM-DD в полночь UTC.
func ParseDate(raw string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, apperrors.NewBadRequest("Неверный формат даты '%s', ожидается ГГГГ-ММ-ДД", raw)
	}
	return t, nil
}

// ParseOptionalDate возвращает nil для пустой строки.
func ParseOptionalDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateOnly отбрасывает время и зону.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func Today() time.Time {
	return DateOnly(time.Now())
}

func MonthBounds(t time.Time) (time.Time, time.Time) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}

func YearBounds(year int) (time.Time, time.Time) {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
}

// Round2 округляет до копеек / сотых часа.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatHours - "1.5" -> "1ч 30м".
func FormatHours(hours float64) string {
	total := int(math.Round(hours * 60))
	if total%60 == 0 {
		return fmt.Sprintf("%dч", total/60)
	}
	return fmt.Sprintf("%dч %dм", total/60, total%60)
}
