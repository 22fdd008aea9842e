package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"hr-system/internal/dto"
	"hr-system/internal/services"
	"hr-system/pkg/constants"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ReportController struct {
	service services.ReportServiceInterface
	logger  *zap.Logger
}

func NewReportController(service services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{service: service, logger: logger}
}

func parseUintQuery(ctx echo.Context, name string) (uint64, error) {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, apperrors.NewBadRequest("Неверное значение %s", name)
	}
	return v, nil
}

// reportFilter собирает общие фильтры отчётов из query.
func reportFilter(ctx echo.Context) (dto.ReportFilter, error) {
	var f dto.ReportFilter
	var err error
	if f.DateFrom, f.DateTo, err = dateRange(ctx); err != nil {
		return f, err
	}
	if f.CompanyID, err = parseUintQuery(ctx, "company_id"); err != nil {
		return f, err
	}
	if f.SiteID, err = parseUintQuery(ctx, "site_id"); err != nil {
		return f, err
	}
	if f.EmployeeIDs, err = utils.ParseUint64CSV(ctx.QueryParam("employee_ids")); err != nil {
		return f, apperrors.NewBadRequest("Неверный список employee_ids")
	}
	if raw := ctx.QueryParam("status"); raw != "" {
		status := constants.Status(strings.ToUpper(raw))
		switch status {
		case constants.StatusPending, constants.StatusApproved, constants.StatusRejected:
			f.Status = status
		default:
			return f, apperrors.NewBadRequest("Неизвестный статус %s", raw)
		}
	}
	if raw := ctx.QueryParam("year"); raw != "" {
		if f.Year, err = strconv.Atoi(raw); err != nil {
			return f, apperrors.NewBadRequest("Неверный год '%s'", raw)
		}
	}
	page := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	f.Limit, f.Offset, f.Paginate = page.Limit, page.Offset, page.WithPagination
	return f, nil
}

func (c *ReportController) respond(ctx echo.Context, rows interface{}, total uint64, err error, message string) error {
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, rows, message, http.StatusOK, total)
}

func (c *ReportController) Leave(ctx echo.Context) error {
	f, err := reportFilter(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	rows, total, err := c.service.LeaveReport(ctx.Request().Context(), f)
	return c.respond(ctx, rows, total, err, "Отчёт по отпускам")
}

func (c *ReportController) Permission(ctx echo.Context) error {
	f, err := reportFilter(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	rows, total, err := c.service.PermissionReport(ctx.Request().Context(), f)
	return c.respond(ctx, rows, total, err, "Отчёт по отлучкам")
}

func (c *ReportController) CompOff(ctx echo.Context) error {
	f, err := reportFilter(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	rows, total, err := c.service.CompOffReport(ctx.Request().Context(), f)
	return c.respond(ctx, rows, total, err, "Отчёт по отгулам")
}

func (c *ReportController) Travel(ctx echo.Context) error {
	f, err := reportFilter(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	rows, total, err := c.service.TravelReport(ctx.Request().Context(), f)
	return c.respond(ctx, rows, total, err, "Отчёт по командировочным")
}

func (c *ReportController) Roster(ctx echo.Context) error {
	f, err := reportFilter(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	rows, total, err := c.service.RosterReport(ctx.Request().Context(), f)
	return c.respond(ctx, rows, total, err, "Отчёт по графикам смен")
}

func (c *ReportController) LeaveBalance(ctx echo.Context) error {
	f, err := reportFilter(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	rows, total, err := c.service.LeaveBalanceReport(ctx.Request().Context(), f)
	return c.respond(ctx, rows, total, err, "Остатки отпусков")
}
