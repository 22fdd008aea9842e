package controllers

import (
	"net/http"

	"hr-system/internal/dto"
	"hr-system/internal/services"
	"hr-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type CompOffEntryController struct {
	service services.CompOffEntryServiceInterface
	logger  *zap.Logger
}

func NewCompOffEntryController(service services.CompOffEntryServiceInterface, logger *zap.Logger) *CompOffEntryController {
	return &CompOffEntryController{service: service, logger: logger}
}

func (c *CompOffEntryController) GetCompOffEntries(ctx echo.Context) error {
	from, to, err := dateRange(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	list, total, err := c.service.GetCompOffEntries(ctx.Request().Context(), filter, from, to)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Список заявок на отгул получен", http.StatusOK, total)
}

func (c *CompOffEntryController) FindCompOffEntry(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	entry, err := c.service.FindCompOffEntry(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, entry, "Заявка на отгул найдена", http.StatusOK)
}

func (c *CompOffEntryController) CreateCompOffEntry(ctx echo.Context) error {
	var payload dto.CreateCompOffEntryDTO
	if err := bind(ctx, &payload, c.logger); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	entry, err := c.service.CreateCompOffEntry(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, entry, "Заявка на отгул создана", http.StatusCreated)
}

func (c *CompOffEntryController) UpdateCompOffEntry(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateCompOffEntryDTO
	if err := bind(ctx, &payload, c.logger); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	entry, err := c.service.UpdateCompOffEntry(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, entry, "Заявка на отгул обновлена", http.StatusOK)
}

func (c *CompOffEntryController) DeleteCompOffEntry(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.service.DeleteCompOffEntry(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Заявка на отгул удалена", http.StatusOK)
}
