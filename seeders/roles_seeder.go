package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

func seedRoles(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблицы 'roles'...")

	query := `INSERT INTO roles (name, description) VALUES ($1, $2) ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description;`
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	for _, r := range rolesData {
		if _, err := tx.Exec(ctx, query, r.Name, r.Description); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// seedRolePermissions дополняет связи; права, выданные вручную, не трогает.
func seedRolePermissions(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблицы 'role_permissions'...")

	query := `INSERT INTO role_permissions (role_id, permission_id)
			  SELECT r.id, p.id FROM roles r, permissions p WHERE r.name = $1 AND p.name = $2
			  ON CONFLICT DO NOTHING;`
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	for _, r := range rolesData {
		for _, perm := range r.Permissions {
			if _, err := tx.Exec(ctx, query, r.Name, perm); err != nil {
				return fmt.Errorf("роль '%s', право '%s': %w", r.Name, perm, err)
			}
		}
	}
	return tx.Commit(ctx)
}
