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

const leaveEntryFrom = "leave_entries le JOIN employees emp ON emp.id = le.employee_id JOIN leave_types lt ON lt.id = le.leave_type_id"

var leaveEntryColumns = []string{
	"le.id", "le.employee_id", "le.leave_type_id", "le.from_date", "le.to_date", "le.duration_type", "le.reason",
	"le.days::float8", "le.status", "le.created_by", "le.created_at", "le.updated_at",
	"emp.code", "emp.full_name", "COALESCE(emp.reporting_manager_id, 0)", "lt.code", "lt.name",
}

var leaveEntryFilterMap = map[string]string{
	"id":            "le.id",
	"employee_id":   "le.employee_id",
	"leave_type_id": "le.leave_type_id",
	"status":        "le.status",
	"duration_type": "le.duration_type",
	"from_date":     "le.from_date",
	"to_date":       "le.to_date",
	"company_id":    "emp.company_id",
	"created_at":    "le.created_at",
}

// LeaveUsage - израсходовано и ожидает решения по типу отпуска.
type LeaveUsage struct {
	Approved float64
	Pending  float64
}

type LeaveEntryRepositoryInterface interface {
	List(ctx context.Context, params EntryListParams) ([]dto.LeaveEntryDTO, uint64, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*dto.LeaveEntryDTO, error)
	FindOverlapping(ctx context.Context, tx pgx.Tx, employeeID uint64, from, to time.Time, excludeID uint64) ([]entities.LeaveEntry, error)
	SumDaysByType(ctx context.Context, tx pgx.Tx, employeeID, leaveTypeID uint64, from, to time.Time, excludeID uint64) (float64, error)
	SumCompOffLeaveDays(ctx context.Context, tx pgx.Tx, employeeID uint64, from, to time.Time, excludeID uint64) (float64, error)
	UsageByType(ctx context.Context, employeeID uint64, from, to time.Time) (map[uint64]LeaveUsage, error)
	ApprovedFullDayInRange(ctx context.Context, tx pgx.Tx, employeeIDs []uint64, from, to time.Time) ([]entities.LeaveEntry, error)
	Create(ctx context.Context, tx pgx.Tx, e *entities.LeaveEntry) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, e *entities.LeaveEntry) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
}

type LeaveEntryRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewLeaveEntryRepository(storage *pgxpool.Pool, logger *zap.Logger) LeaveEntryRepositoryInterface {
	return &LeaveEntryRepository{storage: storage, logger: logger}
}

func scanLeaveEntry(row pgx.Row) (*dto.LeaveEntryDTO, error) {
	var d dto.LeaveEntryDTO
	e := &d.LeaveEntry
	err := row.Scan(&e.ID, &e.EmployeeID, &e.LeaveTypeID, &e.FromDate, &e.ToDate, &e.DurationType, &e.Reason,
		&e.Days, &e.Status, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
		&d.EmployeeCode, &d.EmployeeName, &d.ManagerID, &d.LeaveTypeCode, &d.LeaveTypeName)
	if err != nil {
		return nil, mapPgError(err, "заявка на отпуск")
	}
	return &d, nil
}

func (r *LeaveEntryRepository) List(ctx context.Context, params EntryListParams) ([]dto.LeaveEntryDTO, uint64, error) {
	where := func(b sq.SelectBuilder) sq.SelectBuilder {
		b = applyEntryScope(b, params.Scope, "le")
		b = applyDateRange(b, "le.from_date", "le.to_date", params.DateFrom, params.DateTo)
		return db.ApplySearch(b, params.Filter.Search, "emp.code", "emp.full_name", "le.reason")
	}

	countBuilder := db.ApplyFilters(where(psql.Select("COUNT(le.id)").From(leaveEntryFrom)), params.Filter, leaveEntryFilterMap)
	total, err := countRows(ctx, r.storage, countBuilder)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета заявок на отпуск: %w", err)
	}
	if total == 0 {
		return []dto.LeaveEntryDTO{}, 0, nil
	}

	builder := db.ApplyListParams(where(psql.Select(leaveEntryColumns...).From(leaveEntryFrom)), params.Filter, leaveEntryFilterMap, "le.from_date DESC, le.id DESC")
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]dto.LeaveEntryDTO, 0, params.Filter.Limit)
	for rows.Next() {
		d, err := scanLeaveEntry(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *d)
	}
	return list, total, rows.Err()
}

func (r *LeaveEntryRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*dto.LeaveEntryDTO, error) {
	query, args, err := psql.Select(leaveEntryColumns...).From(leaveEntryFrom).Where(sq.Eq{"le.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanLeaveEntry(pick(r.storage, tx).QueryRow(ctx, query, args...))
}

// FindOverlapping - неотклонённые отпуска сотрудника, пересекающие [from, to].
func (r *LeaveEntryRepository) FindOverlapping(ctx context.Context, tx pgx.Tx, employeeID uint64, from, to time.Time, excludeID uint64) ([]entities.LeaveEntry, error) {
	rows, err := pick(r.storage, tx).Query(ctx, `
		SELECT id, from_date, to_date, duration_type, status
		FROM leave_entries
		WHERE employee_id = $1 AND status <> $2 AND from_date <= $4 AND to_date >= $3 AND id <> $5`,
		employeeID, constants.StatusRejected, from, to, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]entities.LeaveEntry, 0)
	for rows.Next() {
		e := entities.LeaveEntry{EmployeeID: employeeID}
		if err := rows.Scan(&e.ID, &e.FromDate, &e.ToDate, &e.DurationType, &e.Status); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// SumDaysByType - неотклонённые дни типа с from_date в [from, to].
func (r *LeaveEntryRepository) SumDaysByType(ctx context.Context, tx pgx.Tx, employeeID, leaveTypeID uint64, from, to time.Time, excludeID uint64) (float64, error) {
	var sum float64
	err := pick(r.storage, tx).QueryRow(ctx, `
		SELECT COALESCE(SUM(days), 0)::float8
		FROM leave_entries
		WHERE employee_id = $1 AND leave_type_id = $2 AND status <> $3
		  AND from_date BETWEEN $4 AND $5 AND id <> $6`,
		employeeID, leaveTypeID, constants.StatusRejected, from, to, excludeID).Scan(&sum)
	return sum, err
}

// SumCompOffLeaveDays - неотклонённые отпуска comp-off типов с from_date в [from, to].
func (r *LeaveEntryRepository) SumCompOffLeaveDays(ctx context.Context, tx pgx.Tx, employeeID uint64, from, to time.Time, excludeID uint64) (float64, error) {
	var sum float64
	err := pick(r.storage, tx).QueryRow(ctx, `
		SELECT COALESCE(SUM(le.days), 0)::float8
		FROM leave_entries le JOIN leave_types lt ON lt.id = le.leave_type_id
		WHERE le.employee_id = $1 AND lt.is_comp_off AND le.status <> $2
		  AND le.from_date BETWEEN $3 AND $4 AND le.id <> $5`,
		employeeID, constants.StatusRejected, from, to, excludeID).Scan(&sum)
	return sum, err
}

func (r *LeaveEntryRepository) UsageByType(ctx context.Context, employeeID uint64, from, to time.Time) (map[uint64]LeaveUsage, error) {
	rows, err := r.storage.Query(ctx, `
		SELECT leave_type_id,
		       COALESCE(SUM(days) FILTER (WHERE status = $2), 0)::float8,
		       COALESCE(SUM(days) FILTER (WHERE status = $3), 0)::float8
		FROM leave_entries
		WHERE employee_id = $1 AND from_date BETWEEN $4 AND $5
		GROUP BY leave_type_id`,
		employeeID, constants.StatusApproved, constants.StatusPending, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	usage := make(map[uint64]LeaveUsage)
	for rows.Next() {
		var (
			typeID uint64
			u      LeaveUsage
		)
		if err := rows.Scan(&typeID, &u.Approved, &u.Pending); err != nil {
			return nil, err
		}
		usage[typeID] = u
	}
	return usage, rows.Err()
}

// ApprovedFullDayInRange - одобренные отпуска на полный день, пересекающие [from, to].
func (r *LeaveEntryRepository) ApprovedFullDayInRange(ctx context.Context, tx pgx.Tx, employeeIDs []uint64, from, to time.Time) ([]entities.LeaveEntry, error) {
	rows, err := pick(r.storage, tx).Query(ctx, `
		SELECT id, employee_id, from_date, to_date
		FROM leave_entries
		WHERE employee_id = ANY($1) AND status = $2 AND duration_type = $3
		  AND from_date <= $5 AND to_date >= $4`,
		employeeIDs, constants.StatusApproved, constants.DurationFullDay, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]entities.LeaveEntry, 0)
	for rows.Next() {
		var e entities.LeaveEntry
		if err := rows.Scan(&e.ID, &e.EmployeeID, &e.FromDate, &e.ToDate); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (r *LeaveEntryRepository) Create(ctx context.Context, tx pgx.Tx, e *entities.LeaveEntry) (uint64, error) {
	var id uint64
	err := pick(r.storage, tx).QueryRow(ctx, `
		INSERT INTO leave_entries (employee_id, leave_type_id, from_date, to_date, duration_type, reason, days, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id`,
		e.EmployeeID, e.LeaveTypeID, e.FromDate, e.ToDate, e.DurationType, e.Reason, e.Days, e.Status, e.CreatedBy).Scan(&id)
	if err != nil {
		return 0, mapPgError(err, "заявка на отпуск")
	}
	return id, nil
}

// Update меняет только заявку, ожидающую решения.
func (r *LeaveEntryRepository) Update(ctx context.Context, tx pgx.Tx, e *entities.LeaveEntry) error {
	builder := psql.Update("leave_entries").
		Set("leave_type_id", e.LeaveTypeID).
		Set("from_date", e.FromDate).
		Set("to_date", e.ToDate).
		Set("duration_type", e.DurationType).
		Set("reason", e.Reason).
		Set("days", e.Days).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": e.ID, "status": constants.StatusPending})
	return execAffected(ctx, pick(r.storage, tx), builder, "заявка на отпуск")
}

func (r *LeaveEntryRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	return execAffected(ctx, pick(r.storage, tx), psql.Delete("leave_entries").Where(sq.Eq{"id": id}), "заявка на отпуск")
}
