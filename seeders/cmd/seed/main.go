package main

import (
	"context"
	"flag"
	"log"

	"hr-system/internal/repositories"
	"hr-system/internal/services"
	"hr-system/pkg/config"
	"hr-system/pkg/database/postgresql"
	applogger "hr-system/pkg/logger"
	"hr-system/seeders"

	"go.uber.org/zap"
)

func main() {
	log.Println("======================================================")
	log.Println("       🌱 СИСТЕМА СИДЕРОВ (Наполнение БД)           ")
	log.Println("======================================================")

	// --- Определяем флаги ---
	runMigrate := flag.Bool("migrate", false, "Применить миграции goose")
	runCore := flag.Bool("core", false, "Права, роли, типы отпусков и оплаты")
	runAdmin := flag.Bool("admin", false, "Создать Супер-Администратора из SUPERADMIN_LOGIN / SUPERADMIN_PASSWORD")
	employeesFile := flag.String("employees", "", "Загрузить сотрудников из xlsx")
	holidaysFile := flag.String("holidays", "", "Загрузить праздники из xlsx")
	runAll := flag.Bool("all", false, "Эквивалентно -migrate -core -admin")

	flag.Parse()

	// Если ни один флаг не указан - показываем справку
	if !*runMigrate && !*runCore && !*runAdmin && !*runAll && *employeesFile == "" && *holidaysFile == "" {
		log.Println("❌ Не выбран ни один сидер для запуска.")
		log.Println("")
		log.Println("Доступные флаги:")
		flag.PrintDefaults()
		log.Println("")
		log.Println("Примеры использования:")
		log.Println("  go run ./seeders/cmd/seed -all")
		log.Println("  go run ./seeders/cmd/seed -employees staff.xlsx")
		log.Println("======================================================")
		return
	}

	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log.Level, "")
	defer logger.Sync()

	ctx := context.Background()
	if *runAll || *runMigrate {
		if err := postgresql.Migrate(cfg.Postgres.DSN, logger); err != nil {
			log.Fatalf("❌ Ошибка миграций: %v", err)
		}
		log.Println("======================================================")
	}

	dbPool, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, cfg.Postgres.ConnectTimeout, logger)
	if err != nil {
		log.Fatalf("❌ Нет подключения к БД: %v", err)
	}
	defer dbPool.Close()

	// Запуск сидеров в правильном порядке
	if *runAll || *runCore {
		seeders.SeedCore(dbPool)
		log.Println("======================================================")
	}

	if *runAll || *runAdmin {
		if err := seeders.SeedSuperAdmin(dbPool, cfg); err != nil {
			log.Fatalf("❌ Ошибка создания SuperAdmin: %v", err)
		}
		log.Println("======================================================")
	}

	if *employeesFile != "" || *holidaysFile != "" {
		employeeRepo := repositories.NewEmployeeRepository(dbPool, logger)
		companyRepo := repositories.NewCompanyRepository(dbPool, logger)
		shiftRepo := repositories.NewShiftRepository(dbPool, logger)
		leaveTypeRepo := repositories.NewLeaveTypeRepository(dbPool, logger)
		holidayRepo := repositories.NewHolidayRepository(dbPool, logger)
		employeeService := services.NewEmployeeService(employeeRepo, companyRepo, shiftRepo, leaveTypeRepo, logger)
		importer := services.NewImportService(employeeService, employeeRepo, companyRepo, shiftRepo, leaveTypeRepo, holidayRepo, logger.Named("import"))

		if *employeesFile != "" {
			report, err := importer.ImportEmployees(ctx, *employeesFile)
			printReport("Сотрудники", report, err, logger)
		}
		if *holidaysFile != "" {
			report, err := importer.ImportHolidays(ctx, *holidaysFile)
			printReport("Праздники", report, err, logger)
		}
		log.Println("======================================================")
	}

	log.Println("✅ Все указанные операции сидирования успешно завершены.")
	log.Println("======================================================")
}

func printReport(title string, report *services.ImportReport, err error, logger *zap.Logger) {
	if err != nil {
		log.Fatalf("❌ %s: %v", title, err)
	}
	log.Printf("  - %s: создано %d, обновлено %d, ошибок %d (batch %s)", title, report.Created, report.Updated, len(report.Errors), report.BatchID)
	for _, rowErr := range report.Errors {
		logger.Warn("Строка не загружена", zap.String("file", title), zap.Int("row", rowErr.Row), zap.String("reason", rowErr.Message))
	}
}
