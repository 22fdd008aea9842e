package controllers

import (
	"net/http"

	"hr-system/internal/dto"
	"hr-system/internal/services"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AuthController struct {
	authService services.AuthServiceInterface
	logger      *zap.Logger
}

func NewAuthController(authService services.AuthServiceInterface, logger *zap.Logger) *AuthController {
	return &AuthController{authService: authService, logger: logger}
}

func (ctrl *AuthController) errorResponse(c echo.Context, err error) error {
	return utils.ErrorResponse(c, err, ctrl.logger)
}

func (ctrl *AuthController) Login(c echo.Context) error {
	var payload dto.LoginDTO

	if err := c.Bind(&payload); err != nil {
		ctrl.logger.Error("Login: ошибка привязки данных", zap.Error(err))
		return ctrl.errorResponse(c, apperrors.NewBadRequest("Неверный формат данных для входа"))
	}

	if err := c.Validate(&payload); err != nil {
		ctrl.logger.Warn("Login: ошибка валидации данных", zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	tokens, err := ctrl.authService.Login(c.Request().Context(), payload)
	if err != nil {
		ctrl.logger.Warn("Login: ошибка авторизации", zap.String("login", payload.Login), zap.Error(err))
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, tokens, "Авторизация прошла успешно", http.StatusOK)
}

func (ctrl *AuthController) RefreshToken(c echo.Context) error {
	var payload dto.RefreshTokenDTO
	if err := bind(c, &payload, ctrl.logger); err != nil {
		return ctrl.errorResponse(c, err)
	}
	tokens, err := ctrl.authService.Refresh(c.Request().Context(), payload)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, tokens, "Токены успешно обновлены", http.StatusOK)
}

func (ctrl *AuthController) Me(c echo.Context) error {
	profile, err := ctrl.authService.Me(c.Request().Context())
	if err != nil {
		ctrl.logger.Error("Ошибка получения профиля", zap.Error(err))
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, profile, "Профиль пользователя", http.StatusOK)
}
