package repositories

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"hr-system/internal/dto"
	"hr-system/internal/entities"
	apperrors "hr-system/pkg/errors"
)

type RoleRepositoryInterface interface {
	List(ctx context.Context) ([]dto.RoleDTO, error)
	FindByID(ctx context.Context, id uint64) (*dto.RoleDTO, error)
	Create(ctx context.Context, tx pgx.Tx, name, description string) (uint64, error)
	ReplacePermissions(ctx context.Context, tx pgx.Tx, roleID uint64, names []string) error
	GetRolePermissionsNames(ctx context.Context, roleID uint64) ([]string, error)
	ListPermissions(ctx context.Context) ([]entities.Permission, error)
}

type RoleRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewRoleRepository(storage *pgxpool.Pool, logger *zap.Logger) RoleRepositoryInterface {
	return &RoleRepository{storage: storage, logger: logger}
}

const roleSelect = `
	SELECT r.id, r.name, COALESCE(r.description, ''),
	       COALESCE(array_agg(p.name ORDER BY p.name) FILTER (WHERE p.name IS NOT NULL), '{}')
	FROM roles r
	LEFT JOIN role_permissions rp ON rp.role_id = r.id
	LEFT JOIN permissions p ON p.id = rp.permission_id`

func scanRole(row pgx.Row) (*dto.RoleDTO, error) {
	var role dto.RoleDTO
	if err := row.Scan(&role.ID, &role.Name, &role.Description, &role.Permissions); err != nil {
		return nil, mapPgError(err, "роль")
	}
	return &role, nil
}

func (r *RoleRepository) List(ctx context.Context) ([]dto.RoleDTO, error) {
	rows, err := r.storage.Query(ctx, roleSelect+" GROUP BY r.id ORDER BY r.id")
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка ролей: %w", err)
	}
	defer rows.Close()

	roles := make([]dto.RoleDTO, 0)
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, *role)
	}
	return roles, rows.Err()
}

func (r *RoleRepository) FindByID(ctx context.Context, id uint64) (*dto.RoleDTO, error) {
	return scanRole(r.storage.QueryRow(ctx, roleSelect+" WHERE r.id = $1 GROUP BY r.id", id))
}

func (r *RoleRepository) Create(ctx context.Context, tx pgx.Tx, name, description string) (uint64, error) {
	var id uint64
	err := pick(r.storage, tx).QueryRow(ctx,
		"INSERT INTO roles (name, description, created_at, updated_at) VALUES ($1, NULLIF($2, ''), NOW(), NOW()) RETURNING id",
		name, description).Scan(&id)
	if err != nil {
		return 0, mapPgError(err, "роль")
	}
	return id, nil
}

// ReplacePermissions заменяет набор привилегий роли. Неизвестное имя - 400.
func (r *RoleRepository) ReplacePermissions(ctx context.Context, tx pgx.Tx, roleID uint64, names []string) error {
	q := pick(r.storage, tx)

	rows, err := q.Query(ctx, "SELECT id, name FROM permissions WHERE name = ANY($1)", names)
	if err != nil {
		return err
	}
	ids := make([]uint64, 0, len(names))
	found := make(map[string]bool, len(names))
	for rows.Next() {
		var (
			id   uint64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			rows.Close()
			return err
		}
		ids = append(ids, id)
		found[name] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	var unknown []string
	for _, n := range names {
		if !found[n] {
			unknown = append(unknown, n)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return apperrors.NewBadRequest("Неизвестные привилегии: %v", unknown)
	}

	tag, err := q.Exec(ctx, "UPDATE roles SET updated_at = NOW() WHERE id = $1", roleID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	if _, err := q.Exec(ctx, "DELETE FROM role_permissions WHERE role_id = $1", roleID); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	_, err = q.Exec(ctx,
		"INSERT INTO role_permissions (role_id, permission_id) SELECT $1, unnest($2::bigint[]) ON CONFLICT DO NOTHING",
		roleID, ids)
	return mapPgError(err, "привилегии роли")
}

func (r *RoleRepository) GetRolePermissionsNames(ctx context.Context, roleID uint64) ([]string, error) {
	rows, err := r.storage.Query(ctx, `
		SELECT p.name FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		WHERE rp.role_id = $1 ORDER BY p.name`, roleID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения привилегий роли: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *RoleRepository) ListPermissions(ctx context.Context) ([]entities.Permission, error) {
	rows, err := r.storage.Query(ctx, "SELECT id, name, description, created_at FROM permissions ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	perms := make([]entities.Permission, 0)
	for rows.Next() {
		var p entities.Permission
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}
