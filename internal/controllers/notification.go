package controllers

import (
	"net/http"

	"hr-system/internal/services"
	"hr-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type NotificationController struct {
	service services.NotificationServiceInterface
	logger  *zap.Logger
}

func NewNotificationController(service services.NotificationServiceInterface, logger *zap.Logger) *NotificationController {
	return &NotificationController{service: service, logger: logger}
}

func (c *NotificationController) GetMyNotifications(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	list, total, err := c.service.GetMyNotifications(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Уведомления", http.StatusOK, total)
}

func (c *NotificationController) MarkRead(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.service.MarkRead(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Уведомление прочитано", http.StatusOK)
}
