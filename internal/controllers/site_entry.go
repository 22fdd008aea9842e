package controllers

import (
	"net/http"

	"hr-system/internal/dto"
	"hr-system/internal/services"
	"hr-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type SiteEntryController struct {
	service services.SiteEntryServiceInterface
	logger  *zap.Logger
}

func NewSiteEntryController(service services.SiteEntryServiceInterface, logger *zap.Logger) *SiteEntryController {
	return &SiteEntryController{service: service, logger: logger}
}

func (c *SiteEntryController) GetSiteEntries(ctx echo.Context) error {
	from, to, err := dateRange(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	list, total, err := c.service.GetSiteEntries(ctx.Request().Context(), filter, from, to)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Список отметок на площадках получен", http.StatusOK, total)
}

func (c *SiteEntryController) FindSiteEntry(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	entry, err := c.service.FindSiteEntry(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, entry, "Отметка найдена", http.StatusOK)
}

func (c *SiteEntryController) CreateSiteEntry(ctx echo.Context) error {
	var payload dto.CreateSiteEntryDTO
	if err := bind(ctx, &payload, c.logger); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	entry, err := c.service.CreateSiteEntry(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, entry, "Отметка создана", http.StatusCreated)
}

func (c *SiteEntryController) UpdateSiteEntry(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateSiteEntryDTO
	if err := bind(ctx, &payload, c.logger); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	entry, err := c.service.UpdateSiteEntry(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, entry, "Отметка обновлена", http.StatusOK)
}

func (c *SiteEntryController) DeleteSiteEntry(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.service.DeleteSiteEntry(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Отметка удалена", http.StatusOK)
}
