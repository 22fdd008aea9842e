package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"hr-system/internal/dto"
	"hr-system/internal/entities"
	db "hr-system/internal/infrastructure/bd"
	"hr-system/pkg/types"
	"hr-system/pkg/utils"
)

const userSelectFields = "u.id, u.login, u.password_hash, u.role_id, u.employee_id, u.is_active, u.last_login_at, u.created_at, u.updated_at"

var userFilterMap = map[string]string{
	"id":          "u.id",
	"login":       "u.login",
	"role_id":     "u.role_id",
	"employee_id": "u.employee_id",
	"is_active":   "u.is_active",
	"created_at":  "u.created_at",
}

type UserRepositoryInterface interface {
	FindByLogin(ctx context.Context, login string) (*entities.User, error)
	FindByID(ctx context.Context, id uint64) (*entities.User, error)
	List(ctx context.Context, filter types.Filter) ([]dto.UserDTO, uint64, error)
	Create(ctx context.Context, user *entities.User) (uint64, error)
	Update(ctx context.Context, user *entities.User) error
	TouchLastLogin(ctx context.Context, id uint64) error
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	err := row.Scan(&u.ID, &u.Login, &u.PasswordHash, &u.RoleID, &u.EmployeeID, &u.IsActive,
		&u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, mapPgError(err, "пользователь")
	}
	return &u, nil
}

func (r *UserRepository) findOne(ctx context.Context, where sq.Eq) (*entities.User, error) {
	query, args, err := psql.Select(userSelectFields).From("users u").Where(where).ToSql()
	if err != nil {
		return nil, err
	}
	return scanUser(r.storage.QueryRow(ctx, query, args...))
}

func (r *UserRepository) FindByLogin(ctx context.Context, login string) (*entities.User, error) {
	return r.findOne(ctx, sq.Eq{"lower(u.login)": utils.NormalizeLogin(login)})
}

func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*entities.User, error) {
	return r.findOne(ctx, sq.Eq{"u.id": id})
}

func (r *UserRepository) List(ctx context.Context, filter types.Filter) ([]dto.UserDTO, uint64, error) {
	from := "users u JOIN roles r ON r.id = u.role_id LEFT JOIN employees e ON e.id = u.employee_id"

	countBuilder := db.ApplyFilters(psql.Select("COUNT(u.id)").From(from), filter, userFilterMap)
	countBuilder = db.ApplySearch(countBuilder, filter.Search, "u.login", "e.full_name")
	total, err := countRows(ctx, r.storage, countBuilder)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета пользователей: %w", err)
	}
	if total == 0 {
		return []dto.UserDTO{}, 0, nil
	}

	builder := psql.Select("u.id", "u.login", "u.role_id", "r.name", "u.employee_id", "COALESCE(e.full_name, '')",
		"u.is_active", "u.last_login_at", "u.created_at").From(from)
	builder = db.ApplySearch(builder, filter.Search, "u.login", "e.full_name")
	builder = db.ApplyListParams(builder, filter, userFilterMap, "u.id DESC")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	r.logger.Debug("UserRepository.List", zap.String("query", query), zap.Any("args", args))

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения пользователей: %w", err)
	}
	defer rows.Close()

	users := make([]dto.UserDTO, 0, filter.Limit)
	for rows.Next() {
		var (
			u          dto.UserDTO
			employeeID *int64
		)
		if err := rows.Scan(&u.ID, &u.Login, &u.RoleID, &u.RoleName, &employeeID, &u.EmployeeName,
			&u.IsActive, &u.LastLoginAt, &u.CreatedAt); err != nil {
			return nil, 0, err
		}
		if employeeID != nil {
			id := uint64(*employeeID)
			u.EmployeeID = &id
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func (r *UserRepository) Create(ctx context.Context, user *entities.User) (uint64, error) {
	query := `
		INSERT INTO users (login, password_hash, role_id, employee_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id`
	var id uint64
	err := r.storage.QueryRow(ctx, query, utils.NormalizeLogin(user.Login), user.PasswordHash, user.RoleID,
		user.EmployeeID, user.IsActive).Scan(&id)
	if err != nil {
		return 0, mapPgError(err, "пользователь")
	}
	return id, nil
}

func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	builder := psql.Update("users").
		Set("password_hash", user.PasswordHash).
		Set("role_id", user.RoleID).
		Set("employee_id", user.EmployeeID).
		Set("is_active", user.IsActive).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": user.ID})
	return execAffected(ctx, r.storage, builder, "пользователь")
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id uint64) error {
	_, err := r.storage.Exec(ctx, "UPDATE users SET last_login_at = NOW() WHERE id = $1", id)
	return err
}
