package controllers

import (
	"net/http"

	"hr-system/internal/dto"
	"hr-system/internal/services"
	"hr-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type CompanyController struct {
	service services.CompanyServiceInterface
	logger  *zap.Logger
}

func NewCompanyController(service services.CompanyServiceInterface, logger *zap.Logger) *CompanyController {
	return &CompanyController{service: service, logger: logger}
}

func (c *CompanyController) GetCompanies(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	list, total, err := c.service.GetCompanies(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Список компаний получен", http.StatusOK, total)
}

func (c *CompanyController) FindCompany(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	company, err := c.service.FindCompany(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, company, "Компания найдена", http.StatusOK)
}

func (c *CompanyController) CreateCompany(ctx echo.Context) error {
	var payload dto.CreateCompanyDTO
	if err := bind(ctx, &payload, c.logger); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	company, err := c.service.CreateCompany(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, company, "Компания создана", http.StatusCreated)
}

func (c *CompanyController) UpdateCompany(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateCompanyDTO
	if err := bind(ctx, &payload, c.logger); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	company, err := c.service.UpdateCompany(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, company, "Компания обновлена", http.StatusOK)
}

func (c *CompanyController) DeleteCompany(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.service.DeleteCompany(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Компания удалена", http.StatusOK)
}

func (c *CompanyController) GetSites(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	list, total, err := c.service.GetSites(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Список площадок получен", http.StatusOK, total)
}

func (c *CompanyController) FindSite(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	site, err := c.service.FindSite(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, site, "Площадка найдена", http.StatusOK)
}

func (c *CompanyController) CreateSite(ctx echo.Context) error {
	var payload dto.CreateSiteDTO
	if err := bind(ctx, &payload, c.logger); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	site, err := c.service.CreateSite(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, site, "Площадка создана", http.StatusCreated)
}

func (c *CompanyController) UpdateSite(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateSiteDTO
	if err := bind(ctx, &payload, c.logger); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	site, err := c.service.UpdateSite(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, site, "Площадка обновлена", http.StatusOK)
}

func (c *CompanyController) DeleteSite(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.service.DeleteSite(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Площадка удалена", http.StatusOK)
}
