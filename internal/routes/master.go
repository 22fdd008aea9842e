package routes

import (
	"hr-system/internal/authz"
	"hr-system/internal/controllers"
	"hr-system/internal/services"
	"hr-system/pkg/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// crud - типовой набор маршрутов справочника.
type crud struct {
	list, find, create, update, remove echo.HandlerFunc
}

func registerCRUD(g *echo.Group, path string, h crud, view, manage echo.MiddlewareFunc) {
	g.GET(path, h.list, view)
	g.GET(path+"/:id", h.find, view)
	g.POST(path, h.create, manage)
	g.PUT(path+"/:id", h.update, manage)
	g.DELETE(path+"/:id", h.remove, manage)
}

func runMasterRouter(
	secureGroup *echo.Group,
	companyService services.CompanyServiceInterface,
	shiftService services.ShiftServiceInterface,
	leaveTypeService services.LeaveTypeServiceInterface,
	holidayService services.HolidayServiceInterface,
	logger *zap.Logger,
	authMW *middleware.AuthMiddleware,
) {
	companyCtrl := controllers.NewCompanyController(companyService, logger)
	shiftCtrl := controllers.NewShiftController(shiftService, logger)
	leaveTypeCtrl := controllers.NewLeaveTypeController(leaveTypeService, logger)
	holidayCtrl := controllers.NewHolidayController(holidayService, logger)

	// Справочники нужны формам заявок, поэтому читать их может любой подающий заявки.
	view := authMW.AuthorizeAny(authz.MasterView, authz.MasterManage, authz.EntriesCreate, authz.RosterManage)
	manage := authMW.AuthorizeAny(authz.MasterManage)

	registerCRUD(secureGroup, "/companies", crud{
		companyCtrl.GetCompanies, companyCtrl.FindCompany, companyCtrl.CreateCompany, companyCtrl.UpdateCompany, companyCtrl.DeleteCompany,
	}, view, manage)
	registerCRUD(secureGroup, "/sites", crud{
		companyCtrl.GetSites, companyCtrl.FindSite, companyCtrl.CreateSite, companyCtrl.UpdateSite, companyCtrl.DeleteSite,
	}, view, manage)
	registerCRUD(secureGroup, "/shifts", crud{
		shiftCtrl.GetShifts, shiftCtrl.FindShift, shiftCtrl.CreateShift, shiftCtrl.UpdateShift, shiftCtrl.DeleteShift,
	}, view, manage)
	registerCRUD(secureGroup, "/leave-types", crud{
		leaveTypeCtrl.GetLeaveTypes, leaveTypeCtrl.FindLeaveType, leaveTypeCtrl.CreateLeaveType, leaveTypeCtrl.UpdateLeaveType, leaveTypeCtrl.DeleteLeaveType,
	}, view, manage)
	registerCRUD(secureGroup, "/salary-types", crud{
		leaveTypeCtrl.GetSalaryTypes, leaveTypeCtrl.FindSalaryType, leaveTypeCtrl.CreateSalaryType, leaveTypeCtrl.UpdateSalaryType, leaveTypeCtrl.DeleteSalaryType,
	}, view, manage)
	registerCRUD(secureGroup, "/holidays", crud{
		holidayCtrl.GetHolidays, holidayCtrl.FindHoliday, holidayCtrl.CreateHoliday, holidayCtrl.UpdateHoliday, holidayCtrl.DeleteHoliday,
	}, view, manage)
}
