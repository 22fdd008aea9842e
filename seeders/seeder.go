package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedCore наполняет права, роли и базовые кадровые справочники.
func SeedCore(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("▶️  Запуск наполнения базовых справочников...")

	if err := seedPermissions(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения Прав (Permissions): %v", err)
	}
	if err := seedRoles(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения Ролей (Roles): %v", err)
	}
	if err := seedRolePermissions(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения Связей Ролей и Прав: %v", err)
	}
	if err := seedLeaveTypes(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения Типов Отпусков: %v", err)
	}
	if err := seedSalaryTypes(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения Типов Оплаты: %v", err)
	}
	log.Println("✅ Наполнение базовых справочников завершено!")
}
