package seeders

import (
	"context"
	"errors"
	"fmt"
	"log"

	"hr-system/pkg/config"
	"hr-system/pkg/utils"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedSuperAdmin создаёт пользователя с ролью Super Admin, если логин ещё свободен.
func SeedSuperAdmin(db *pgxpool.Pool, cfg *config.Config) error {
	ctx := context.Background()
	log.Println("  - Создание пользователя 'Super Admin'...")

	login := utils.NormalizeLogin(cfg.SuperAdmin.Login)
	if login == "" || cfg.SuperAdmin.Password == "" {
		return errors.New("не заданы SUPERADMIN_LOGIN / SUPERADMIN_PASSWORD")
	}

	var exists bool
	if err := db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE login = $1)", login).Scan(&exists); err != nil {
		return err
	}
	if exists {
		log.Println("    - Пользователь Super Admin уже существует. Пропускаем.")
		return nil
	}

	var roleID uint64
	if err := db.QueryRow(ctx, "SELECT id FROM roles WHERE name = 'Super Admin' LIMIT 1").Scan(&roleID); err != nil {
		return fmt.Errorf("не найдена роль 'Super Admin' (сначала запустите -core): %w", err)
	}

	hashedPassword, err := utils.HashPassword(cfg.SuperAdmin.Password)
	if err != nil {
		return err
	}

	_, err = db.Exec(ctx, `INSERT INTO users (login, password_hash, role_id) VALUES ($1, $2, $3)`, login, hashedPassword, roleID)
	return err
}
