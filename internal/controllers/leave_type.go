package controllers

import (
	"net/http"

	"hr-system/internal/dto"
	"hr-system/internal/services"
	"hr-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// LeaveTypeController - типы отпусков и типы оплаты.
type LeaveTypeController struct {
	service services.LeaveTypeServiceInterface
	logger  *zap.Logger
}

func NewLeaveTypeController(service services.LeaveTypeServiceInterface, logger *zap.Logger) *LeaveTypeController {
	return &LeaveTypeController{service: service, logger: logger}
}

func (c *LeaveTypeController) GetLeaveTypes(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	list, total, err := c.service.GetLeaveTypes(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Список типов отпусков получен", http.StatusOK, total)
}

func (c *LeaveTypeController) FindLeaveType(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	lt, err := c.service.FindLeaveType(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, lt, "Тип отпуска найден", http.StatusOK)
}

func (c *LeaveTypeController) CreateLeaveType(ctx echo.Context) error {
	var payload dto.CreateLeaveTypeDTO
	if err := bind(ctx, &payload, c.logger); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	lt, err := c.service.CreateLeaveType(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, lt, "Тип отпуска создан", http.StatusCreated)
}

func (c *LeaveTypeController) UpdateLeaveType(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateLeaveTypeDTO
	if err := bind(ctx, &payload, c.logger); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	lt, err := c.service.UpdateLeaveType(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, lt, "Тип отпуска обновлён", http.StatusOK)
}

func (c *LeaveTypeController) DeleteLeaveType(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.service.DeleteLeaveType(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Тип отпуска удалён", http.StatusOK)
}

func (c *LeaveTypeController) GetSalaryTypes(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	list, total, err := c.service.GetSalaryTypes(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Список типов оплаты получен", http.StatusOK, total)
}

func (c *LeaveTypeController) FindSalaryType(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	st, err := c.service.FindSalaryType(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, st, "Тип оплаты найден", http.StatusOK)
}

func (c *LeaveTypeController) CreateSalaryType(ctx echo.Context) error {
	var payload dto.CreateSalaryTypeDTO
	if err := bind(ctx, &payload, c.logger); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	st, err := c.service.CreateSalaryType(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, st, "Тип оплаты создан", http.StatusCreated)
}

func (c *LeaveTypeController) UpdateSalaryType(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateSalaryTypeDTO
	if err := bind(ctx, &payload, c.logger); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	st, err := c.service.UpdateSalaryType(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, st, "Тип оплаты обновлён", http.StatusOK)
}

func (c *LeaveTypeController) DeleteSalaryType(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.service.DeleteSalaryType(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Тип оплаты удалён", http.StatusOK)
}
