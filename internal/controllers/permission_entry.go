package controllers

import (
	"net/http"

	"hr-system/internal/dto"
	"hr-system/internal/services"
	"hr-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type PermissionEntryController struct {
	service services.PermissionEntryServiceInterface
	logger  *zap.Logger
}

func NewPermissionEntryController(service services.PermissionEntryServiceInterface, logger *zap.Logger) *PermissionEntryController {
	return &PermissionEntryController{service: service, logger: logger}
}

func (c *PermissionEntryController) GetPermissionEntries(ctx echo.Context) error {
	from, to, err := dateRange(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	list, total, err := c.service.GetPermissionEntries(ctx.Request().Context(), filter, from, to)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Список отлучек получен", http.StatusOK, total)
}

func (c *PermissionEntryController) FindPermissionEntry(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	entry, err := c.service.FindPermissionEntry(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, entry, "Отлучка найдена", http.StatusOK)
}

func (c *PermissionEntryController) CreatePermissionEntry(ctx echo.Context) error {
	var payload dto.CreatePermissionEntryDTO
	if err := bind(ctx, &payload, c.logger); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	entry, err := c.service.CreatePermissionEntry(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, entry, "Отлучка создана", http.StatusCreated)
}

func (c *PermissionEntryController) UpdatePermissionEntry(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdatePermissionEntryDTO
	if err := bind(ctx, &payload, c.logger); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	entry, err := c.service.UpdatePermissionEntry(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, entry, "Отлучка обновлена", http.StatusOK)
}

func (c *PermissionEntryController) DeletePermissionEntry(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.service.DeletePermissionEntry(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Отлучка удалена", http.StatusOK)
}
