package controllers

import (
	"net/http"
	"strings"

	"hr-system/internal/dto"
	"hr-system/internal/services"
	"hr-system/pkg/constants"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ApprovalController struct {
	service services.ApprovalServiceInterface
	logger  *zap.Logger
}

func NewApprovalController(service services.ApprovalServiceInterface, logger *zap.Logger) *ApprovalController {
	return &ApprovalController{service: service, logger: logger}
}

func parseKind(raw string) (constants.EntryKind, error) {
	kind, ok := constants.ParseEntryKind(strings.ToUpper(raw))
	if !ok {
		return "", apperrors.NewBadRequest("Неизвестный вид заявки: %s", raw)
	}
	return kind, nil
}

// Inbox - ?kind=LEAVE,TRAVEL; без kind все виды.
func (c *ApprovalController) Inbox(ctx echo.Context) error {
	var kinds []constants.EntryKind
	if raw := ctx.QueryParam("kind"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			kind, err := parseKind(strings.TrimSpace(part))
			if err != nil {
				return utils.ErrorResponse(ctx, err, c.logger)
			}
			kinds = append(kinds, kind)
		}
	}
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	items, total, err := c.service.Inbox(ctx.Request().Context(), kinds, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, items, "Входящие на согласование", http.StatusOK, total)
}

func (c *ApprovalController) History(ctx echo.Context) error {
	kind, err := parseKind(ctx.Param("kind"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	entryID, err := utils.ParseIDParam(ctx, "entryId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	history, err := c.service.History(ctx.Request().Context(), kind, entryID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, history, "История согласования", http.StatusOK)
}

func (c *ApprovalController) Decide(ctx echo.Context) error {
	kind, err := parseKind(ctx.Param("kind"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	entryID, err := utils.ParseIDParam(ctx, "entryId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.DecisionDTO
	if err := bind(ctx, &payload, c.logger); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	result, err := c.service.Decide(ctx.Request().Context(), kind, entryID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Решение сохранено", http.StatusOK)
}

func (c *ApprovalController) BulkDecide(ctx echo.Context) error {
	kind, err := parseKind(ctx.Param("kind"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.BulkDecisionDTO
	if err := bind(ctx, &payload, c.logger); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	results, err := c.service.BulkDecide(ctx.Request().Context(), kind, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, results, "Решения обработаны", http.StatusOK)
}
