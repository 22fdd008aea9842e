package routes

import (
	"hr-system/internal/controllers"
	"hr-system/internal/services"
	"hr-system/pkg/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runAuthRouter(api *echo.Group, authService services.AuthServiceInterface, logger *zap.Logger, authMW *middleware.AuthMiddleware) {
	authCtrl := controllers.NewAuthController(authService, logger)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", authCtrl.Login)
		authGroup.POST("/refresh", authCtrl.RefreshToken)
		authGroup.GET("/me", authCtrl.Me, authMW.Auth)
	}
}
