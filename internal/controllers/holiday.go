package controllers

import (
	"net/http"

	"hr-system/internal/dto"
	"hr-system/internal/services"
	"hr-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type HolidayController struct {
	service services.HolidayServiceInterface
	logger  *zap.Logger
}

func NewHolidayController(service services.HolidayServiceInterface, logger *zap.Logger) *HolidayController {
	return &HolidayController{service: service, logger: logger}
}

func (c *HolidayController) GetHolidays(ctx echo.Context) error {
	from, to, err := dateRange(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	list, total, err := c.service.GetHolidays(ctx.Request().Context(), filter, from, to)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Список праздников получен", http.StatusOK, total)
}

func (c *HolidayController) FindHoliday(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	h, err := c.service.FindHoliday(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, h, "Праздник найден", http.StatusOK)
}

func (c *HolidayController) CreateHoliday(ctx echo.Context) error {
	var payload dto.CreateHolidayDTO
	if err := bind(ctx, &payload, c.logger); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	h, err := c.service.CreateHoliday(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, h, "Праздник создан", http.StatusCreated)
}

func (c *HolidayController) UpdateHoliday(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateHolidayDTO
	if err := bind(ctx, &payload, c.logger); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	h, err := c.service.UpdateHoliday(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, h, "Праздник обновлён", http.StatusOK)
}

func (c *HolidayController) DeleteHoliday(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.service.DeleteHoliday(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Праздник удалён", http.StatusOK)
}
