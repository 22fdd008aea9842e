package routes

import (
	"hr-system/internal/authz"
	"hr-system/internal/controllers"
	"hr-system/internal/services"
	"hr-system/pkg/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runUserRouter(
	secureGroup *echo.Group,
	userService services.UserServiceInterface,
	roleService services.RoleServiceInterface,
	logger *zap.Logger,
	authMW *middleware.AuthMiddleware,
) {
	userCtrl := controllers.NewUserController(userService, logger)
	roleCtrl := controllers.NewRoleController(roleService, logger)
	manage := authMW.AuthorizeAny(authz.UsersManage)

	users := secureGroup.Group("/users", manage)
	users.GET("", userCtrl.GetUsers)
	users.POST("", userCtrl.CreateUser)
	users.PUT("/:id", userCtrl.UpdateUser)

	roles := secureGroup.Group("/roles", manage)
	roles.GET("", roleCtrl.GetRoles)
	roles.POST("", roleCtrl.CreateRole)
	roles.PUT("/:id/permissions", roleCtrl.UpdateRolePermissions)

	secureGroup.GET("/permissions", roleCtrl.GetPermissions, manage)
}
