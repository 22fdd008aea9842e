package validation

import (
	"regexp"
	"strings"
	"time"

	"hr-system/pkg/config"
	"hr-system/pkg/constants"

	"github.com/go-playground/validator/v10"
)

var (
	clockRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?[0-9 ()-]{7,20}$`)
)

// registerRules регистрирует теги, которые мы используем в struct tags
func registerRules(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"date_ymd":          isDateYMD,
		"clock_hhmm":        isClockHHMM,
		"duration_type":     isDurationType,
		"comp_off_duration": isCompOffDuration,
		"decision":          isDecision,
		"period_type":       isPeriodType,
		"weekday_list":      isWeekdayList,
		"custom_email":      isGoodEmailFormat,
		"phone":             isPhone,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

func isDateYMD(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

func isClockHHMM(fl validator.FieldLevel) bool {
	return clockRegex.MatchString(fl.Field().String())
}

func isDurationType(fl validator.FieldLevel) bool {
	switch constants.DurationType(fl.Field().String()) {
	case constants.DurationFullDay, constants.DurationFirstHalf, constants.DurationSecondHalf:
		return true
	}
	return false
}

func isCompOffDuration(fl validator.FieldLevel) bool {
	switch constants.CompOffDuration(fl.Field().String()) {
	case constants.CompOffFullDay, constants.CompOffHalfDay:
		return true
	}
	return false
}

func isDecision(fl validator.FieldLevel) bool {
	switch constants.Decision(fl.Field().String()) {
	case constants.DecisionApprove, constants.DecisionReject:
		return true
	}
	return false
}

func isPeriodType(fl validator.FieldLevel) bool {
	switch constants.PeriodType(fl.Field().String()) {
	case constants.PeriodWeek, constants.PeriodMonth:
		return true
	}
	return false
}

// isWeekdayList - срез имён дней недели ("MONDAY", ...).
func isWeekdayList(fl validator.FieldLevel) bool {
	days, ok := fl.Field().Interface().([]string)
	if !ok {
		return false
	}
	for _, d := range days {
		if _, ok := config.ParseWeekday(d); !ok {
			return false
		}
	}
	return true
}

func isGoodEmailFormat(fl validator.FieldLevel) bool {
	return emailRegex.MatchString(strings.TrimSpace(fl.Field().String()))
}

func isPhone(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}
