package controllers

import (
	"net/http"
	"time"

	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// bind разбирает тело и прогоняет валидацию.
func bind(c echo.Context, payload interface{}, logger *zap.Logger) error {
	if err := c.Bind(payload); err != nil {
		logger.Debug("Ошибка привязки данных", zap.String("path", c.Path()), zap.Error(err))
		return apperrors.NewHttpError(http.StatusBadRequest, "Неверные данные", nil, nil)
	}
	return c.Validate(payload)
}

// dateRange - необязательные date_from / date_to из query.
func dateRange(c echo.Context) (*time.Time, *time.Time, error) {
	from, err := utils.ParseOptionalDate(c.QueryParam("date_from"))
	if err != nil {
		return nil, nil, err
	}
	to, err := utils.ParseOptionalDate(c.QueryParam("date_to"))
	if err != nil {
		return nil, nil, err
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, nil, apperrors.NewBadRequest("date_from позже date_to")
	}
	return from, to, nil
}
