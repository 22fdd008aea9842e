package controllers

import (
	"net/http"

	"hr-system/internal/dto"
	"hr-system/internal/services"
	"hr-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type TravelClaimController struct {
	service services.TravelClaimServiceInterface
	logger  *zap.Logger
}

func NewTravelClaimController(service services.TravelClaimServiceInterface, logger *zap.Logger) *TravelClaimController {
	return &TravelClaimController{service: service, logger: logger}
}

func (c *TravelClaimController) GetTravelClaims(ctx echo.Context) error {
	from, to, err := dateRange(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	list, total, err := c.service.GetTravelClaims(ctx.Request().Context(), filter, from, to)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Список командировочных заявок получен", http.StatusOK, total)
}

func (c *TravelClaimController) FindTravelClaim(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	entry, err := c.service.FindTravelClaim(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, entry, "Командировочная заявка найдена", http.StatusOK)
}

func (c *TravelClaimController) CreateTravelClaim(ctx echo.Context) error {
	var payload dto.CreateTravelClaimDTO
	if err := bind(ctx, &payload, c.logger); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	entry, err := c.service.CreateTravelClaim(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, entry, "Командировочная заявка создана", http.StatusCreated)
}

func (c *TravelClaimController) UpdateTravelClaim(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateTravelClaimDTO
	if err := bind(ctx, &payload, c.logger); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	entry, err := c.service.UpdateTravelClaim(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, entry, "Командировочная заявка обновлена", http.StatusOK)
}

func (c *TravelClaimController) DeleteTravelClaim(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.service.DeleteTravelClaim(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Командировочная заявка удалена", http.StatusOK)
}
