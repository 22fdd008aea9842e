package routes

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"hr-system/config"
	"hr-system/internal/controllers"
	"hr-system/internal/listeners"
	"hr-system/internal/repositories"
	"hr-system/internal/services"
	pkgconfig "hr-system/pkg/config"
	"hr-system/pkg/eventbus"
	"hr-system/pkg/middleware"
	"hr-system/pkg/service"
)

type Loggers struct {
	Main     *zap.Logger
	Auth     *zap.Logger
	Entries  *zap.Logger
	Approval *zap.Logger
	Roster   *zap.Logger
}

func InitRouter(
	e *echo.Echo,
	dbConn *pgxpool.Pool,
	redisClient *redis.Client,
	jwtSvc service.JWTService,
	loggers *Loggers,
	cfg *pkgconfig.Config,
	workflow *config.Workflow,
	bus *eventbus.Bus,
) {
	loggers.Main.Info("InitRouter: Начало создания маршрутов")

	// --- 0. ОБЩИЕ КОМПОНЕНТЫ ---
	api := e.Group("/api")
	txManager := repositories.NewTxManager(dbConn, loggers.Main)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	// --- 1. РЕПОЗИТОРИИ ---
	userRepo := repositories.NewUserRepository(dbConn, loggers.Auth)
	roleRepo := repositories.NewRoleRepository(dbConn, loggers.Main)
	companyRepo := repositories.NewCompanyRepository(dbConn, loggers.Main)
	shiftRepo := repositories.NewShiftRepository(dbConn, loggers.Main)
	leaveTypeRepo := repositories.NewLeaveTypeRepository(dbConn, loggers.Main)
	holidayRepo := repositories.NewHolidayRepository(dbConn, loggers.Main)
	employeeRepo := repositories.NewEmployeeRepository(dbConn, loggers.Main)
	approvalRepo := repositories.NewApprovalRepository(dbConn, loggers.Approval)
	notificationRepo := repositories.NewNotificationRepository(dbConn, loggers.Approval)
	leaveRepo := repositories.NewLeaveEntryRepository(dbConn, loggers.Entries)
	compOffRepo := repositories.NewCompOffEntryRepository(dbConn, loggers.Entries)
	permissionEntryRepo := repositories.NewPermissionEntryRepository(dbConn, loggers.Entries)
	siteEntryRepo := repositories.NewSiteEntryRepository(dbConn, loggers.Entries)
	travelRepo := repositories.NewTravelClaimRepository(dbConn, loggers.Entries)
	rosterRepo := repositories.NewRosterRepository(dbConn, loggers.Roster)
	reportRepo := repositories.NewReportRepository(dbConn, loggers.Main)

	// --- 2. СЕРВИСЫ ---
	authPermissionService := services.NewAuthPermissionService(roleRepo, cacheRepo, loggers.Auth, cfg.Auth.PermissionsCacheTTL)
	authService := services.NewAuthService(userRepo, roleRepo, employeeRepo, cacheRepo, authPermissionService, jwtSvc, &cfg.Auth, loggers.Auth)
	userService := services.NewUserService(userRepo, roleRepo, employeeRepo, loggers.Main)
	roleService := services.NewRoleService(roleRepo, txManager, authPermissionService, loggers.Main)

	companyService := services.NewCompanyService(companyRepo, loggers.Main)
	shiftService := services.NewShiftService(shiftRepo, loggers.Main)
	leaveTypeService := services.NewLeaveTypeService(leaveTypeRepo, loggers.Main)
	holidayService := services.NewHolidayService(holidayRepo, companyRepo, loggers.Main)
	employeeService := services.NewEmployeeService(employeeRepo, companyRepo, shiftRepo, leaveTypeRepo, loggers.Main)
	balanceService := services.NewBalanceService(employeeRepo, leaveRepo, leaveTypeRepo, compOffRepo, cfg.Policy.CompOffValidityDays, loggers.Entries)

	support := services.NewEntrySupport(txManager, employeeRepo, holidayRepo, approvalRepo, workflow, cfg.Policy, loggers.Entries)
	leaveService := services.NewLeaveEntryService(leaveRepo, leaveTypeRepo, compOffRepo, support, loggers.Entries)
	compOffService := services.NewCompOffEntryService(compOffRepo, support, loggers.Entries)
	permissionEntryService := services.NewPermissionEntryService(permissionEntryRepo, support, loggers.Entries)
	siteEntryService := services.NewSiteEntryService(siteEntryRepo, companyRepo, shiftRepo, support, loggers.Entries)
	travelService := services.NewTravelClaimService(travelRepo, support, loggers.Entries)

	approvalService := services.NewApprovalService(txManager, approvalRepo, workflow, bus, loggers.Approval)
	notificationService := services.NewNotificationService(notificationRepo, loggers.Approval)
	rosterService := services.NewRosterService(txManager, rosterRepo, companyRepo, shiftRepo, employeeRepo, leaveRepo, loggers.Roster)
	reportService := services.NewReportService(reportRepo, loggers.Main)

	listeners.NewNotificationListener(notificationService, loggers.Approval).Register(bus)

	// --- 3. РОУТЕРЫ ---
	authMW := middleware.NewAuthMiddleware(jwtSvc, authPermissionService, loggers.Auth)
	secureGroup := api.Group("", authMW.Auth)

	health := controllers.NewHealthController(map[string]controllers.Pinger{
		"postgres": dbConn,
		"redis": controllers.PingerFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}),
	}, loggers.Main)
	api.GET("/health", health.Health)

	runAuthRouter(api, authService, loggers.Auth, authMW)
	runUserRouter(secureGroup, userService, roleService, loggers.Main, authMW)
	runMasterRouter(secureGroup, companyService, shiftService, leaveTypeService, holidayService, loggers.Main, authMW)
	runEmployeeRouter(secureGroup, employeeService, balanceService, loggers.Main, authMW)
	runEntryRouter(secureGroup, entryServices{
		leave:      leaveService,
		compOff:    compOffService,
		permission: permissionEntryService,
		site:       siteEntryService,
		travel:     travelService,
	}, loggers.Entries, authMW)
	runApprovalRouter(secureGroup, approvalService, notificationService, loggers.Approval)
	runRosterRouter(secureGroup, rosterService, loggers.Roster, authMW)
	runReportRouter(secureGroup, reportService, loggers.Main, authMW)

	loggers.Main.Info("INIT_ROUTER: Создание маршрутов завершено")
}
