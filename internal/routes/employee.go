package routes

import (
	"hr-system/internal/authz"
	"hr-system/internal/controllers"
	"hr-system/internal/services"
	"hr-system/pkg/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runEmployeeRouter(
	secureGroup *echo.Group,
	employeeService services.EmployeeServiceInterface,
	balanceService services.BalanceServiceInterface,
	logger *zap.Logger,
	authMW *middleware.AuthMiddleware,
) {
	ctrl := controllers.NewEmployeeController(employeeService, balanceService, logger)
	view := authMW.AuthorizeAny(authz.EmployeesView, authz.EmployeesManage)
	manage := authMW.AuthorizeAny(authz.EmployeesManage)

	registerCRUD(secureGroup, "/employees", crud{
		ctrl.GetEmployees, ctrl.FindEmployee, ctrl.CreateEmployee, ctrl.UpdateEmployee, ctrl.DeleteEmployee,
	}, view, manage)
	secureGroup.GET("/employees/:id/subordinates", ctrl.GetSubordinates, view)

	// Свои остатки видит сам сотрудник, чужие - руководитель и HR; проверка в сервисе.
	balances := authMW.AuthorizeAny(authz.EntriesCreate, authz.EntriesViewAll, authz.EmployeesView)
	secureGroup.GET("/employees/:id/leave-balance", ctrl.LeaveBalance, balances)
	secureGroup.GET("/employees/:id/comp-off-balance", ctrl.CompOffBalance, balances)
}
