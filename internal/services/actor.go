package services

import (
	"context"
	"errors"

	"hr-system/internal/authz"
	"hr-system/internal/calc"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/utils"
)

// actorFromCtx собирает authz.Context из данных AuthMiddleware.
func actorFromCtx(ctx context.Context) (authz.Context, error) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return authz.Context{}, err
	}
	permissions, err := utils.GetPermissionsMapFromCtx(ctx)
	if err != nil {
		return authz.Context{}, err
	}
	return authz.Context{
		UserID:      userID,
		EmployeeID:  utils.GetEmployeeIDFromCtx(ctx),
		Permissions: permissions,
	}, nil
}

// calcError переводит ошибки расчётов в 400 с текстом для клиента.
func calcError(err error) error {
	for _, known := range []error{
		calc.ErrInvalidRange, calc.ErrHalfDaySpan, calc.ErrNoWorkingDays, calc.ErrRangeTooLong,
		calc.ErrUnknownType, calc.ErrInvalidClock, calc.ErrInvalidTimeRange, calc.ErrNegativeAmount,
		calc.ErrMonthStart, calc.ErrUnknownPeriodType,
	} {
		if errors.Is(err, known) {
			return apperrors.NewBadRequest("%s", known.Error())
		}
	}
	return err
}

// asConflict заменяет ErrConflict репозитория понятным сообщением.
func asConflict(err error, format string, args ...interface{}) error {
	if errors.Is(err, apperrors.ErrConflict) {
		return apperrors.NewConflict(format, args...)
	}
	return err
}

func notFoundAsBadRequest(err error, format string, args ...interface{}) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.NewBadRequest(format, args...)
	}
	return err
}
