package calc

import (
	"errors"
	"math"
	"time"
)

var ErrNegativeAmount = errors.New("сумма не может быть отрицательной")

// TravelTotals - рассчитанные суммы заявки TADA.
type TravelTotals struct {
	DADays      int
	DAAmount    float64
	TotalAmount float64
}

// TravelClaimTotals: суточные = дни поездки (включительно) * ставка.
func TravelClaimTotals(from, to time.Time, travelAmount, otherAmount, dailyRate float64) (TravelTotals, error) {
	if DateOnly(from).After(DateOnly(to)) {
		return TravelTotals{}, ErrInvalidRange
	}
	if InclusiveDays(from, to) > MaxLeaveSpanDays {
		return TravelTotals{}, ErrRangeTooLong
	}
	if travelAmount < 0 || otherAmount < 0 || dailyRate < 0 {
		return TravelTotals{}, ErrNegativeAmount
	}
	days := InclusiveDays(from, to)
	da := roundAmount(float64(days) * dailyRate)
	return TravelTotals{
		DADays:      days,
		DAAmount:    da,
		TotalAmount: roundAmount(travelAmount + otherAmount + da),
	}, nil
}

func roundAmount(v float64) float64 {
	return math.Round(v*100) / 100
}
