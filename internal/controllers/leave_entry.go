package controllers

import (
	"net/http"

	"hr-system/internal/dto"
	"hr-system/internal/services"
	"hr-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type LeaveEntryController struct {
	service services.LeaveEntryServiceInterface
	logger  *zap.Logger
}

func NewLeaveEntryController(service services.LeaveEntryServiceInterface, logger *zap.Logger) *LeaveEntryController {
	return &LeaveEntryController{service: service, logger: logger}
}

func (c *LeaveEntryController) GetLeaveEntries(ctx echo.Context) error {
	from, to, err := dateRange(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	list, total, err := c.service.GetLeaveEntries(ctx.Request().Context(), filter, from, to)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Список заявок на отпуск получен", http.StatusOK, total)
}

func (c *LeaveEntryController) FindLeaveEntry(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	entry, err := c.service.FindLeaveEntry(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, entry, "Заявка на отпуск найдена", http.StatusOK)
}

func (c *LeaveEntryController) CreateLeaveEntry(ctx echo.Context) error {
	var payload dto.CreateLeaveEntryDTO
	if err := bind(ctx, &payload, c.logger); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	entry, err := c.service.CreateLeaveEntry(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, entry, "Заявка на отпуск создана", http.StatusCreated)
}

func (c *LeaveEntryController) UpdateLeaveEntry(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateLeaveEntryDTO
	if err := bind(ctx, &payload, c.logger); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	entry, err := c.service.UpdateLeaveEntry(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, entry, "Заявка на отпуск обновлена", http.StatusOK)
}

func (c *LeaveEntryController) DeleteLeaveEntry(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.service.DeleteLeaveEntry(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Заявка на отпуск удалена", http.StatusOK)
}
