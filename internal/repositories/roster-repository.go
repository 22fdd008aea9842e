package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"hr-system/internal/dto"
	"hr-system/internal/entities"
	db "hr-system/internal/infrastructure/bd"
	"hr-system/pkg/types"
)

var rosterColumns = []string{
	"id", "company_id", "site_id", "name", "period_type", "period_start", "period_end", "created_by", "created_at", "updated_at",
}

var rosterFilterMap = map[string]string{
	"id":           "id",
	"company_id":   "company_id",
	"site_id":      "site_id",
	"period_type":  "period_type",
	"period_start": "period_start",
	"name":         "name",
	"created_at":   "created_at",
}

// AssignmentRow - назначение смены на одного сотрудника и дату.
type AssignmentRow struct {
	EmployeeID uint64
	ShiftID    uint64
	WorkDate   time.Time
}

type RosterRepositoryInterface interface {
	List(ctx context.Context, filter types.Filter) ([]entities.ShiftRoster, uint64, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.ShiftRoster, error)
	Create(ctx context.Context, tx pgx.Tx, roster *entities.ShiftRoster) (uint64, error)
	Delete(ctx context.Context, id uint64) error
	ListAssignments(ctx context.Context, tx pgx.Tx, rosterID uint64) ([]dto.RosterAssignmentDTO, error)
	FindAssignments(ctx context.Context, tx pgx.Tx, employeeIDs []uint64, dates []time.Time) ([]entities.ShiftAssignment, error)
	UpsertAssignment(ctx context.Context, tx pgx.Tx, rosterID uint64, row AssignmentRow) (bool, error)
	DeleteAssignments(ctx context.Context, tx pgx.Tx, rosterID uint64, employeeIDs []uint64, dates []time.Time) (int64, error)
}

type RosterRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewRosterRepository(storage *pgxpool.Pool, logger *zap.Logger) RosterRepositoryInterface {
	return &RosterRepository{storage: storage, logger: logger}
}

func scanRoster(row pgx.Row) (*entities.ShiftRoster, error) {
	var r entities.ShiftRoster
	err := row.Scan(&r.ID, &r.CompanyID, &r.SiteID, &r.Name, &r.PeriodType, &r.PeriodStart, &r.PeriodEnd, &r.CreatedBy, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, mapPgError(err, "график смен")
	}
	return &r, nil
}

func (r *RosterRepository) List(ctx context.Context, filter types.Filter) ([]entities.ShiftRoster, uint64, error) {
	countBuilder := db.ApplySearch(psql.Select("COUNT(id)").From("shift_rosters"), filter.Search, "name")
	total, err := countRows(ctx, r.storage, db.ApplyFilters(countBuilder, filter, rosterFilterMap))
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета графиков: %w", err)
	}
	if total == 0 {
		return []entities.ShiftRoster{}, 0, nil
	}

	builder := db.ApplySearch(psql.Select(rosterColumns...).From("shift_rosters"), filter.Search, "name")
	query, args, err := db.ApplyListParams(builder, filter, rosterFilterMap, "period_start DESC, id DESC").ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]entities.ShiftRoster, 0, filter.Limit)
	for rows.Next() {
		roster, err := scanRoster(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *roster)
	}
	return list, total, rows.Err()
}

func (r *RosterRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.ShiftRoster, error) {
	query, args, err := psql.Select(rosterColumns...).From("shift_rosters").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanRoster(pick(r.storage, tx).QueryRow(ctx, query, args...))
}

func (r *RosterRepository) Create(ctx context.Context, tx pgx.Tx, roster *entities.ShiftRoster) (uint64, error) {
	query, args, err := psql.Insert("shift_rosters").
		Columns("company_id", "site_id", "name", "period_type", "period_start", "period_end", "created_by").
		Values(roster.CompanyID, roster.SiteID, roster.Name, roster.PeriodType, roster.PeriodStart, roster.PeriodEnd, roster.CreatedBy).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}
	var id uint64
	if err := pick(r.storage, tx).QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, mapPgError(err, "график смен")
	}
	return id, nil
}

// Delete удаляет график вместе с назначениями (ON DELETE CASCADE).
func (r *RosterRepository) Delete(ctx context.Context, id uint64) error {
	return execAffected(ctx, r.storage, psql.Delete("shift_rosters").Where(sq.Eq{"id": id}), "график смен")
}

func (r *RosterRepository) ListAssignments(ctx context.Context, tx pgx.Tx, rosterID uint64) ([]dto.RosterAssignmentDTO, error) {
	rows, err := pick(r.storage, tx).Query(ctx, `
		SELECT sa.id, sa.employee_id, emp.code, emp.full_name, sa.shift_id, s.code, sa.work_date
		FROM shift_assignments sa
		JOIN employees emp ON emp.id = sa.employee_id
		JOIN shifts s ON s.id = sa.shift_id
		WHERE sa.roster_id = $1
		ORDER BY emp.code, sa.work_date`, rosterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]dto.RosterAssignmentDTO, 0)
	for rows.Next() {
		var a dto.RosterAssignmentDTO
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.EmployeeCode, &a.EmployeeName, &a.ShiftID, &a.ShiftCode, &a.WorkDate); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// FindAssignments - существующие назначения сотрудников на даты во всех графиках.
func (r *RosterRepository) FindAssignments(ctx context.Context, tx pgx.Tx, employeeIDs []uint64, dates []time.Time) ([]entities.ShiftAssignment, error) {
	if len(employeeIDs) == 0 || len(dates) == 0 {
		return []entities.ShiftAssignment{}, nil
	}
	query, args, err := psql.Select("id", "roster_id", "employee_id", "shift_id", "work_date", "created_at").
		From("shift_assignments").
		Where(sq.Eq{"employee_id": employeeIDs}).
		Where("work_date = ANY(?::date[])", dates).
		OrderBy("employee_id", "work_date").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := pick(r.storage, tx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]entities.ShiftAssignment, 0)
	for rows.Next() {
		var a entities.ShiftAssignment
		if err := rows.Scan(&a.ID, &a.RosterID, &a.EmployeeID, &a.ShiftID, &a.WorkDate, &a.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// UpsertAssignment ставит смену. Назначение в этом же графике заменяется,
// назначение в другом графике не трогается: тогда возвращается false.
func (r *RosterRepository) UpsertAssignment(ctx context.Context, tx pgx.Tx, rosterID uint64, row AssignmentRow) (bool, error) {
	var id uint64
	err := pick(r.storage, tx).QueryRow(ctx, `
		INSERT INTO shift_assignments (roster_id, employee_id, shift_id, work_date)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (employee_id, work_date) DO UPDATE
			SET shift_id = EXCLUDED.shift_id
			WHERE shift_assignments.roster_id = EXCLUDED.roster_id
		RETURNING id`, rosterID, row.EmployeeID, row.ShiftID, row.WorkDate).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, mapPgError(err, "назначение смены")
	}
	return true, nil
}

// DeleteAssignments - пустой dates удаляет все даты сотрудников в графике.
func (r *RosterRepository) DeleteAssignments(ctx context.Context, tx pgx.Tx, rosterID uint64, employeeIDs []uint64, dates []time.Time) (int64, error) {
	builder := psql.Delete("shift_assignments").Where(sq.Eq{"roster_id": rosterID, "employee_id": employeeIDs})
	if len(dates) > 0 {
		builder = builder.Where("work_date = ANY(?::date[])", dates)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}
	tag, err := pick(r.storage, tx).Exec(ctx, query, args...)
	if err != nil {
		return 0, mapPgError(err, "назначение смены")
	}
	return tag.RowsAffected(), nil
}
