package calc

import "time"

// Calendar знает праздники компании и еженедельные выходные.
type Calendar struct {
	holidays  map[string]bool
	weeklyOff map[time.Weekday]bool
}

func NewCalendar(holidays []time.Time, weeklyOff []time.Weekday) Calendar {
	c := Calendar{
		holidays:  make(map[string]bool, len(holidays)),
		weeklyOff: make(map[time.Weekday]bool, len(weeklyOff)),
	}
	for _, h := range holidays {
		c.holidays[dayKey(h)] = true
	}
	for _, d := range weeklyOff {
		c.weeklyOff[d] = true
	}
	return c
}

func (c Calendar) IsHoliday(d time.Time) bool {
	return c.holidays[dayKey(d)]
}

func (c Calendar) IsWeeklyOff(d time.Time) bool {
	return c.weeklyOff[d.Weekday()]
}

// IsNonWorking - праздник или еженедельный выходной.
func (c Calendar) IsNonWorking(d time.Time) bool {
	return c.IsHoliday(d) || c.IsWeeklyOff(d)
}

func dayKey(d time.Time) string {
	return d.Format("2006-01-02")
}

// DateOnly отбрасывает время и зону.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// InclusiveDays - количество дат в [from, to]; 0, если from > to.
func InclusiveDays(from, to time.Time) int {
	from, to = DateOnly(from), DateOnly(to)
	if from.After(to) {
		return 0
	}
	return int(to.Sub(from).Hours()/24) + 1
}

// EachDay вызывает fn для каждой даты диапазона по порядку.
func EachDay(from, to time.Time, fn func(time.Time)) {
	for d := DateOnly(from); !d.After(DateOnly(to)); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}

// RangesOverlap - диапазоны дат пересекаются хотя бы одним днём.
func RangesOverlap(aFrom, aTo, bFrom, bTo time.Time) bool {
	return !DateOnly(aFrom).After(DateOnly(bTo)) && !DateOnly(bFrom).After(DateOnly(aTo))
}
