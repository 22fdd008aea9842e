package controllers

import (
	"net/http"
	"strconv"

	"hr-system/internal/dto"
	"hr-system/internal/services"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type EmployeeController struct {
	service  services.EmployeeServiceInterface
	balances services.BalanceServiceInterface
	logger   *zap.Logger
}

func NewEmployeeController(service services.EmployeeServiceInterface, balances services.BalanceServiceInterface, logger *zap.Logger) *EmployeeController {
	return &EmployeeController{service: service, balances: balances, logger: logger}
}

func (c *EmployeeController) GetEmployees(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	list, total, err := c.service.GetEmployees(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Список сотрудников получен", http.StatusOK, total)
}

func (c *EmployeeController) FindEmployee(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	e, err := c.service.FindEmployee(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, e, "Сотрудник найден", http.StatusOK)
}

func (c *EmployeeController) GetSubordinates(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	list, err := c.service.GetSubordinates(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Подчинённые сотрудника", http.StatusOK)
}

func (c *EmployeeController) CreateEmployee(ctx echo.Context) error {
	var payload dto.CreateEmployeeDTO
	if err := bind(ctx, &payload, c.logger); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	e, err := c.service.CreateEmployee(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, e, "Сотрудник создан", http.StatusCreated)
}

func (c *EmployeeController) UpdateEmployee(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateEmployeeDTO
	if err := bind(ctx, &payload, c.logger); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	e, err := c.service.UpdateEmployee(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, e, "Сотрудник обновлён", http.StatusOK)
}

func (c *EmployeeController) DeleteEmployee(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.service.DeleteEmployee(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Сотрудник удалён", http.StatusOK)
}

// LeaveBalance - ?year=2026, по умолчанию текущий год.
func (c *EmployeeController) LeaveBalance(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	year := utils.Today().Year()
	if raw := ctx.QueryParam("year"); raw != "" {
		if year, err = strconv.Atoi(raw); err != nil || year < 1900 || year > 2200 {
			return utils.ErrorResponse(ctx, apperrors.NewBadRequest("Неверный год '%s'", raw), c.logger)
		}
	}
	balance, err := c.balances.LeaveBalance(ctx.Request().Context(), id, year)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, balance, "Остатки отпусков", http.StatusOK)
}

// CompOffBalance - ?date=YYYY-MM-DD, по умолчанию сегодня.
func (c *EmployeeController) CompOffBalance(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	date := utils.Today()
	if raw := ctx.QueryParam("date"); raw != "" {
		if date, err = utils.ParseDate(raw); err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
	}
	balance, err := c.balances.CompOffBalance(ctx.Request().Context(), id, date)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, balance, "Остаток отгулов", http.StatusOK)
}
