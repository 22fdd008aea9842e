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

const compOffFrom = "comp_off_entries co JOIN employees emp ON emp.id = co.employee_id"

var compOffColumns = []string{
	"co.id", "co.employee_id", "co.worked_date", "co.duration", "co.reason", "co.days::float8",
	"co.status", "co.created_by", "co.created_at", "co.updated_at",
	"emp.code", "emp.full_name", "COALESCE(emp.reporting_manager_id, 0)",
}

var compOffFilterMap = map[string]string{
	"id":          "co.id",
	"employee_id": "co.employee_id",
	"status":      "co.status",
	"duration":    "co.duration",
	"worked_date": "co.worked_date",
	"company_id":  "emp.company_id",
	"created_at":  "co.created_at",
}

type CompOffEntryRepositoryInterface interface {
	List(ctx context.Context, params EntryListParams) ([]dto.CompOffEntryDTO, uint64, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*dto.CompOffEntryDTO, error)
	ExistsForDate(ctx context.Context, tx pgx.Tx, employeeID uint64, date time.Time, excludeID uint64) (bool, error)
	SumApprovedDays(ctx context.Context, tx pgx.Tx, employeeID uint64, from, to time.Time) (float64, error)
	Create(ctx context.Context, tx pgx.Tx, e *entities.CompOffEntry) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, e *entities.CompOffEntry) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
}

type CompOffEntryRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewCompOffEntryRepository(storage *pgxpool.Pool, logger *zap.Logger) CompOffEntryRepositoryInterface {
	return &CompOffEntryRepository{storage: storage, logger: logger}
}

func scanCompOff(row pgx.Row) (*dto.CompOffEntryDTO, error) {
	var d dto.CompOffEntryDTO
	e := &d.CompOffEntry
	err := row.Scan(&e.ID, &e.EmployeeID, &e.WorkedDate, &e.Duration, &e.Reason, &e.Days,
		&e.Status, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
		&d.EmployeeCode, &d.EmployeeName, &d.ManagerID)
	if err != nil {
		return nil, mapPgError(err, "заявка на отгул")
	}
	return &d, nil
}

func (r *CompOffEntryRepository) List(ctx context.Context, params EntryListParams) ([]dto.CompOffEntryDTO, uint64, error) {
	where := func(b sq.SelectBuilder) sq.SelectBuilder {
		b = applyEntryScope(b, params.Scope, "co")
		b = applyDateRange(b, "co.worked_date", "co.worked_date", params.DateFrom, params.DateTo)
		return db.ApplySearch(b, params.Filter.Search, "emp.code", "emp.full_name", "co.reason")
	}

	countBuilder := db.ApplyFilters(where(psql.Select("COUNT(co.id)").From(compOffFrom)), params.Filter, compOffFilterMap)
	total, err := countRows(ctx, r.storage, countBuilder)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета заявок на отгул: %w", err)
	}
	if total == 0 {
		return []dto.CompOffEntryDTO{}, 0, nil
	}

	builder := db.ApplyListParams(where(psql.Select(compOffColumns...).From(compOffFrom)), params.Filter, compOffFilterMap, "co.worked_date DESC, co.id DESC")
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]dto.CompOffEntryDTO, 0, params.Filter.Limit)
	for rows.Next() {
		d, err := scanCompOff(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *d)
	}
	return list, total, rows.Err()
}

func (r *CompOffEntryRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*dto.CompOffEntryDTO, error) {
	query, args, err := psql.Select(compOffColumns...).From(compOffFrom).Where(sq.Eq{"co.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanCompOff(pick(r.storage, tx).QueryRow(ctx, query, args...))
}

func (r *CompOffEntryRepository) ExistsForDate(ctx context.Context, tx pgx.Tx, employeeID uint64, date time.Time, excludeID uint64) (bool, error) {
	var exists bool
	err := pick(r.storage, tx).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM comp_off_entries
			WHERE employee_id = $1 AND worked_date = $2 AND status <> $3 AND id <> $4
		)`, employeeID, date, constants.StatusRejected, excludeID).Scan(&exists)
	return exists, err
}

// SumApprovedDays - заработанные одобренные дни с worked_date в [from, to].
func (r *CompOffEntryRepository) SumApprovedDays(ctx context.Context, tx pgx.Tx, employeeID uint64, from, to time.Time) (float64, error) {
	var sum float64
	err := pick(r.storage, tx).QueryRow(ctx, `
		SELECT COALESCE(SUM(days), 0)::float8 FROM comp_off_entries
		WHERE employee_id = $1 AND status = $2 AND worked_date BETWEEN $3 AND $4`,
		employeeID, constants.StatusApproved, from, to).Scan(&sum)
	return sum, err
}

func (r *CompOffEntryRepository) Create(ctx context.Context, tx pgx.Tx, e *entities.CompOffEntry) (uint64, error) {
	var id uint64
	err := pick(r.storage, tx).QueryRow(ctx, `
		INSERT INTO comp_off_entries (employee_id, worked_date, duration, reason, days, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id`,
		e.EmployeeID, e.WorkedDate, e.Duration, e.Reason, e.Days, e.Status, e.CreatedBy).Scan(&id)
	if err != nil {
		return 0, mapPgError(err, "заявка на отгул")
	}
	return id, nil
}

func (r *CompOffEntryRepository) Update(ctx context.Context, tx pgx.Tx, e *entities.CompOffEntry) error {
	builder := psql.Update("comp_off_entries").
		Set("worked_date", e.WorkedDate).
		Set("duration", e.Duration).
		Set("reason", e.Reason).
		Set("days", e.Days).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": e.ID, "status": constants.StatusPending})
	return execAffected(ctx, pick(r.storage, tx), builder, "заявка на отгул")
}

func (r *CompOffEntryRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	return execAffected(ctx, pick(r.storage, tx), psql.Delete("comp_off_entries").Where(sq.Eq{"id": id}), "заявка на отгул")
}
