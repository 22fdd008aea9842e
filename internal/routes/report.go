package routes

import (
	"hr-system/internal/authz"
	"hr-system/internal/controllers"
	"hr-system/internal/services"
	"hr-system/pkg/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runReportRouter(secureGroup *echo.Group, reportService services.ReportServiceInterface, logger *zap.Logger, authMW *middleware.AuthMiddleware) {
	ctrl := controllers.NewReportController(reportService, logger)

	reports := secureGroup.Group("/reports", authMW.AuthorizeAny(authz.ReportsView))
	reports.GET("/leave", ctrl.Leave)
	reports.GET("/permission", ctrl.Permission)
	reports.GET("/comp-off", ctrl.CompOff)
	reports.GET("/travel", ctrl.Travel)
	reports.GET("/roster", ctrl.Roster)
	reports.GET("/leave-balance", ctrl.LeaveBalance)
}
