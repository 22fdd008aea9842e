package routes

import (
	"hr-system/internal/authz"
	"hr-system/internal/controllers"
	"hr-system/internal/services"
	"hr-system/pkg/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type entryServices struct {
	leave      services.LeaveEntryServiceInterface
	compOff    services.CompOffEntryServiceInterface
	permission services.PermissionEntryServiceInterface
	site       services.SiteEntryServiceInterface
	travel     services.TravelClaimServiceInterface
}

func runEntryRouter(secureGroup *echo.Group, svc entryServices, logger *zap.Logger, authMW *middleware.AuthMiddleware) {
	leaveCtrl := controllers.NewLeaveEntryController(svc.leave, logger)
	compOffCtrl := controllers.NewCompOffEntryController(svc.compOff, logger)
	permissionCtrl := controllers.NewPermissionEntryController(svc.permission, logger)
	siteCtrl := controllers.NewSiteEntryController(svc.site, logger)
	travelCtrl := controllers.NewTravelClaimController(svc.travel, logger)

	// Видимость конкретных записей (свои / подчинённых / все) решает сервис.
	view := authMW.AuthorizeAny(authz.EntriesCreate, authz.EntriesManage, authz.EntriesViewAll)
	write := authMW.AuthorizeAny(authz.EntriesCreate, authz.EntriesManage)

	registerCRUD(secureGroup, "/leave-entries", crud{
		leaveCtrl.GetLeaveEntries, leaveCtrl.FindLeaveEntry, leaveCtrl.CreateLeaveEntry, leaveCtrl.UpdateLeaveEntry, leaveCtrl.DeleteLeaveEntry,
	}, view, write)
	registerCRUD(secureGroup, "/comp-off-entries", crud{
		compOffCtrl.GetCompOffEntries, compOffCtrl.FindCompOffEntry, compOffCtrl.CreateCompOffEntry, compOffCtrl.UpdateCompOffEntry, compOffCtrl.DeleteCompOffEntry,
	}, view, write)
	registerCRUD(secureGroup, "/permission-entries", crud{
		permissionCtrl.GetPermissionEntries, permissionCtrl.FindPermissionEntry, permissionCtrl.CreatePermissionEntry, permissionCtrl.UpdatePermissionEntry, permissionCtrl.DeletePermissionEntry,
	}, view, write)
	registerCRUD(secureGroup, "/site-entries", crud{
		siteCtrl.GetSiteEntries, siteCtrl.FindSiteEntry, siteCtrl.CreateSiteEntry, siteCtrl.UpdateSiteEntry, siteCtrl.DeleteSiteEntry,
	}, view, write)
	registerCRUD(secureGroup, "/travel-claims", crud{
		travelCtrl.GetTravelClaims, travelCtrl.FindTravelClaim, travelCtrl.CreateTravelClaim, travelCtrl.UpdateTravelClaim, travelCtrl.DeleteTravelClaim,
	}, view, write)
}
