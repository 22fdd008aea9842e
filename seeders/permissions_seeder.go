package seeders

import (
	"context"
	"log"
	"sort"

	"hr-system/internal/authz"

	"github.com/jackc/pgx/v5/pgxpool"
)

// КЛЮЧИК: true - обновить описание, если привилегия с таким NAME уже существует.
// false - пропустить, если привилегия уже существует.
const updateIfExists_Permissions = true

func seedPermissions(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблицы 'permissions'...")

	var query string
	if updateIfExists_Permissions {
		query = `INSERT INTO permissions (name, description) VALUES ($1, $2)
				 ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description;`
		log.Println("    - Стратегия: Обновление существующих прав (UPSERT)")
	} else {
		query = `INSERT INTO permissions (name, description) VALUES ($1, $2)
				 ON CONFLICT (name) DO NOTHING;`
		log.Println("    - Стратегия: Пропуск существующих прав (IGNORE)")
	}

	names := make([]string, 0, len(authz.All))
	for name := range authz.All {
		names = append(names, name)
	}
	sort.Strings(names)

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, name := range names {
		if _, err := tx.Exec(ctx, query, name, authz.All[name]); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
