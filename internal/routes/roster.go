package routes

import (
	"hr-system/internal/authz"
	"hr-system/internal/controllers"
	"hr-system/internal/services"
	"hr-system/pkg/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runRosterRouter(secureGroup *echo.Group, rosterService services.RosterServiceInterface, logger *zap.Logger, authMW *middleware.AuthMiddleware) {
	ctrl := controllers.NewRosterController(rosterService, logger)
	view := authMW.AuthorizeAny(authz.RosterView, authz.RosterManage)
	manage := authMW.AuthorizeAny(authz.RosterManage)

	rosters := secureGroup.Group("/rosters")
	rosters.GET("", ctrl.GetRosters, view)
	rosters.GET("/:id", ctrl.FindRoster, view)
	rosters.POST("", ctrl.CreateRoster, manage)
	rosters.DELETE("/:id", ctrl.DeleteRoster, manage)
	rosters.POST("/:id/assignments", ctrl.Assign, manage)
	rosters.DELETE("/:id/assignments", ctrl.RemoveAssignments, manage)
	rosters.POST("/:id/copy", ctrl.CopyRoster, manage)
}
