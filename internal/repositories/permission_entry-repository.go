package repositories

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"hr-system/internal/dto"
	"hr-system/internal/entities"
	db "hr-system/internal/infrastructure/bd"
	"hr-system/pkg/constants"
)

const permissionEntryFrom = "permission_entries pe JOIN employees emp ON emp.id = pe.employee_id"

var permissionEntryColumns = []string{
	"pe.id", "pe.employee_id", "pe.permission_date", "to_char(pe.from_time, 'HH24:MI')", "to_char(pe.to_time, 'HH24:MI')",
	"pe.reason", "pe.hours::float8", "pe.status", "pe.created_by", "pe.created_at", "pe.updated_at",
	"emp.code", "emp.full_name", "COALESCE(emp.reporting_manager_id, 0)",
}

var permissionEntryFilterMap = map[string]string{
	"id":          "pe.id",
	"employee_id": "pe.employee_id",
	"status":      "pe.status",
	"date":        "pe.permission_date",
	"company_id":  "emp.company_id",
	"created_at":  "pe.created_at",
}

type PermissionEntryRepositoryInterface interface {
	List(ctx context.Context, params EntryListParams) ([]dto.PermissionEntryDTO, uint64, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*dto.PermissionEntryDTO, error)
	ListForDate(ctx context.Context, tx pgx.Tx, employeeID uint64, date time.Time, excludeID uint64) ([]entities.PermissionEntry, error)
	SumHours(ctx context.Context, tx pgx.Tx, employeeID uint64, from, to time.Time, excludeID uint64) (float64, error)
	Create(ctx context.Context, tx pgx.Tx, e *entities.PermissionEntry) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, e *entities.PermissionEntry) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
}

type PermissionEntryRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewPermissionEntryRepository(storage *pgxpool.Pool, logger *zap.Logger) PermissionEntryRepositoryInterface {
	return &PermissionEntryRepository{storage: storage, logger: logger}
}

func scanPermissionEntry(row pgx.Row) (*dto.PermissionEntryDTO, error) {
	var d dto.PermissionEntryDTO
	e := &d.PermissionEntry
	err := row.Scan(&e.ID, &e.EmployeeID, &e.Date, &e.FromTime, &e.ToTime, &e.Reason, &e.Hours,
		&e.Status, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
		&d.EmployeeCode, &d.EmployeeName, &d.ManagerID)
	if err != nil {
		return nil, mapPgError(err, "заявка на отлучку")
	}
	return &d, nil
}

func (r *PermissionEntryRepository) List(ctx context.Context, params EntryListParams) ([]dto.PermissionEntryDTO, uint64, error) {
	where := func(b sq.SelectBuilder) sq.SelectBuilder {
		b = applyEntryScope(b, params.Scope, "pe")
		b = applyDateRange(b, "pe.permission_date", "pe.permission_date", params.DateFrom, params.DateTo)
		return db.ApplySearch(b, params.Filter.Search, "emp.code", "emp.full_name", "pe.reason")
	}

	countBuilder := db.ApplyFilters(where(psql.Select("COUNT(pe.id)").From(permissionEntryFrom)), params.Filter, permissionEntryFilterMap)
	total, err := countRows(ctx, r.storage, countBuilder)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета заявок на отлучку: %w", err)
	}
	if total == 0 {
		return []dto.PermissionEntryDTO{}, 0, nil
	}

	builder := db.ApplyListParams(where(psql.Select(permissionEntryColumns...).From(permissionEntryFrom)), params.Filter, permissionEntryFilterMap, "pe.permission_date DESC, pe.from_time DESC")
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]dto.PermissionEntryDTO, 0, params.Filter.Limit)
	for rows.Next() {
		d, err := scanPermissionEntry(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *d)
	}
	return list, total, rows.Err()
}

func (r *PermissionEntryRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*dto.PermissionEntryDTO, error) {
	query, args, err := psql.Select(permissionEntryColumns...).From(permissionEntryFrom).Where(sq.Eq{"pe.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanPermissionEntry(pick(r.storage, tx).QueryRow(ctx, query, args...))
}

// ListForDate - неотклонённые отлучки сотрудника за дату.
func (r *PermissionEntryRepository) ListForDate(ctx context.Context, tx pgx.Tx, employeeID uint64, date time.Time, excludeID uint64) ([]entities.PermissionEntry, error) {
	rows, err := pick(r.storage, tx).Query(ctx, `
		SELECT id, to_char(from_time, 'HH24:MI'), to_char(to_time, 'HH24:MI'), hours::float8
		FROM permission_entries
		WHERE employee_id = $1 AND permission_date = $2 AND status <> $3 AND id <> $4
		ORDER BY from_time`,
		employeeID, date, constants.StatusRejected, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]entities.PermissionEntry, 0)
	for rows.Next() {
		e := entities.PermissionEntry{EmployeeID: employeeID, Date: date}
		if err := rows.Scan(&e.ID, &e.FromTime, &e.ToTime, &e.Hours); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// SumHours - неотклонённые часы за [from, to].
func (r *PermissionEntryRepository) SumHours(ctx context.Context, tx pgx.Tx, employeeID uint64, from, to time.Time, excludeID uint64) (float64, error) {
	var sum float64
	err := pick(r.storage, tx).QueryRow(ctx, `
		SELECT COALESCE(SUM(hours), 0)::float8 FROM permission_entries
		WHERE employee_id = $1 AND status <> $2 AND permission_date BETWEEN $3 AND $4 AND id <> $5`,
		employeeID, constants.StatusRejected, from, to, excludeID).Scan(&sum)
	return sum, err
}

func (r *PermissionEntryRepository) Create(ctx context.Context, tx pgx.Tx, e *entities.PermissionEntry) (uint64, error) {
	var id uint64
	err := pick(r.storage, tx).QueryRow(ctx, `
		INSERT INTO permission_entries (employee_id, permission_date, from_time, to_time, reason, hours, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3::time, $4::time, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id`,
		e.EmployeeID, e.Date, e.FromTime, e.ToTime, e.Reason, e.Hours, e.Status, e.CreatedBy).Scan(&id)
	if err != nil {
		return 0, mapPgError(err, "заявка на отлучку")
	}
	return id, nil
}

func (r *PermissionEntryRepository) Update(ctx context.Context, tx pgx.Tx, e *entities.PermissionEntry) error {
	builder := psql.Update("permission_entries").
		Set("permission_date", e.Date).
		Set("from_time", sq.Expr("?::time", e.FromTime)).
		Set("to_time", sq.Expr("?::time", e.ToTime)).
		Set("reason", e.Reason).
		Set("hours", e.Hours).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": e.ID, "status": constants.StatusPending})
	return execAffected(ctx, pick(r.storage, tx), builder, "заявка на отлучку")
}

func (r *PermissionEntryRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	return execAffected(ctx, pick(r.storage, tx), psql.Delete("permission_entries").Where(sq.Eq{"id": id}), "заявка на отлучку")
}
