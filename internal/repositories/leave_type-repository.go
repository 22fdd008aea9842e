package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"hr-system/internal/entities"
	db "hr-system/internal/infrastructure/bd"
	"hr-system/pkg/types"
)

const leaveTypeColumns = "lt.id, lt.code, lt.name, lt.annual_quota::float8, lt.is_paid, lt.allow_half_day, lt.count_non_working_days, lt.is_comp_off, lt.created_at, lt.updated_at"

var leaveTypeFilterMap = map[string]string{
	"id":          "lt.id",
	"code":        "lt.code",
	"name":        "lt.name",
	"is_paid":     "lt.is_paid",
	"is_comp_off": "lt.is_comp_off",
}

var salaryTypeFilterMap = map[string]string{
	"id":   "st.id",
	"code": "st.code",
	"name": "st.name",
}

type LeaveTypeRepositoryInterface interface {
	List(ctx context.Context, filter types.Filter) ([]entities.LeaveType, uint64, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.LeaveType, error)
	Create(ctx context.Context, lt *entities.LeaveType) (uint64, error)
	Update(ctx context.Context, lt *entities.LeaveType) error
	Delete(ctx context.Context, id uint64) error

	ListSalaryTypes(ctx context.Context, filter types.Filter) ([]entities.SalaryType, uint64, error)
	FindSalaryType(ctx context.Context, id uint64) (*entities.SalaryType, error)
	FindSalaryTypeByCode(ctx context.Context, code string) (*entities.SalaryType, error)
	CreateSalaryType(ctx context.Context, st *entities.SalaryType) (uint64, error)
	UpdateSalaryType(ctx context.Context, st *entities.SalaryType) error
	DeleteSalaryType(ctx context.Context, id uint64) error
}

type LeaveTypeRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewLeaveTypeRepository(storage *pgxpool.Pool, logger *zap.Logger) LeaveTypeRepositoryInterface {
	return &LeaveTypeRepository{storage: storage, logger: logger}
}

func scanLeaveType(row pgx.Row) (*entities.LeaveType, error) {
	var lt entities.LeaveType
	err := row.Scan(&lt.ID, &lt.Code, &lt.Name, &lt.AnnualQuota, &lt.IsPaid, &lt.AllowHalfDay,
		&lt.CountNonWorkingDays, &lt.IsCompOff, &lt.CreatedAt, &lt.UpdatedAt)
	if err != nil {
		return nil, mapPgError(err, "тип отпуска")
	}
	return &lt, nil
}

func (r *LeaveTypeRepository) List(ctx context.Context, filter types.Filter) ([]entities.LeaveType, uint64, error) {
	countBuilder := db.ApplyFilters(psql.Select("COUNT(lt.id)").From("leave_types lt"), filter, leaveTypeFilterMap)
	countBuilder = db.ApplySearch(countBuilder, filter.Search, "lt.code", "lt.name")
	total, err := countRows(ctx, r.storage, countBuilder)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета типов отпусков: %w", err)
	}
	if total == 0 {
		return []entities.LeaveType{}, 0, nil
	}

	builder := db.ApplySearch(psql.Select(leaveTypeColumns).From("leave_types lt"), filter.Search, "lt.code", "lt.name")
	builder = db.ApplyListParams(builder, filter, leaveTypeFilterMap, "lt.code ASC")
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]entities.LeaveType, 0, filter.Limit)
	for rows.Next() {
		lt, err := scanLeaveType(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *lt)
	}
	return list, total, rows.Err()
}

func (r *LeaveTypeRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.LeaveType, error) {
	query, args, err := psql.Select(leaveTypeColumns).From("leave_types lt").Where(sq.Eq{"lt.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanLeaveType(pick(r.storage, tx).QueryRow(ctx, query, args...))
}

func (r *LeaveTypeRepository) Create(ctx context.Context, lt *entities.LeaveType) (uint64, error) {
	var id uint64
	err := r.storage.QueryRow(ctx, `
		INSERT INTO leave_types (code, name, annual_quota, is_paid, allow_half_day, count_non_working_days, is_comp_off, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW()) RETURNING id`,
		lt.Code, lt.Name, lt.AnnualQuota, lt.IsPaid, lt.AllowHalfDay, lt.CountNonWorkingDays, lt.IsCompOff).Scan(&id)
	if err != nil {
		return 0, mapPgError(err, "тип отпуска")
	}
	return id, nil
}

func (r *LeaveTypeRepository) Update(ctx context.Context, lt *entities.LeaveType) error {
	builder := psql.Update("leave_types").
		Set("code", lt.Code).
		Set("name", lt.Name).
		Set("annual_quota", lt.AnnualQuota).
		Set("is_paid", lt.IsPaid).
		Set("allow_half_day", lt.AllowHalfDay).
		Set("count_non_working_days", lt.CountNonWorkingDays).
		Set("is_comp_off", lt.IsCompOff).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": lt.ID})
	return execAffected(ctx, r.storage, builder, "тип отпуска")
}

func (r *LeaveTypeRepository) Delete(ctx context.Context, id uint64) error {
	return execAffected(ctx, r.storage, psql.Delete("leave_types").Where(sq.Eq{"id": id}), "тип отпуска")
}

// -----------------------------------------------------------
// SALARY TYPES
// -----------------------------------------------------------

const salaryTypeColumns = "st.id, st.code, st.name, st.created_at, st.updated_at"

func scanSalaryType(row pgx.Row) (*entities.SalaryType, error) {
	var st entities.SalaryType
	if err := row.Scan(&st.ID, &st.Code, &st.Name, &st.CreatedAt, &st.UpdatedAt); err != nil {
		return nil, mapPgError(err, "тип оплаты")
	}
	return &st, nil
}

func (r *LeaveTypeRepository) ListSalaryTypes(ctx context.Context, filter types.Filter) ([]entities.SalaryType, uint64, error) {
	countBuilder := db.ApplyFilters(psql.Select("COUNT(st.id)").From("salary_types st"), filter, salaryTypeFilterMap)
	countBuilder = db.ApplySearch(countBuilder, filter.Search, "st.code", "st.name")
	total, err := countRows(ctx, r.storage, countBuilder)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета типов оплаты: %w", err)
	}
	if total == 0 {
		return []entities.SalaryType{}, 0, nil
	}

	builder := db.ApplySearch(psql.Select(salaryTypeColumns).From("salary_types st"), filter.Search, "st.code", "st.name")
	builder = db.ApplyListParams(builder, filter, salaryTypeFilterMap, "st.code ASC")
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]entities.SalaryType, 0, filter.Limit)
	for rows.Next() {
		st, err := scanSalaryType(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *st)
	}
	return list, total, rows.Err()
}

func (r *LeaveTypeRepository) findSalaryType(ctx context.Context, where sq.Eq) (*entities.SalaryType, error) {
	query, args, err := psql.Select(salaryTypeColumns).From("salary_types st").Where(where).ToSql()
	if err != nil {
		return nil, err
	}
	return scanSalaryType(r.storage.QueryRow(ctx, query, args...))
}

func (r *LeaveTypeRepository) FindSalaryType(ctx context.Context, id uint64) (*entities.SalaryType, error) {
	return r.findSalaryType(ctx, sq.Eq{"st.id": id})
}

func (r *LeaveTypeRepository) FindSalaryTypeByCode(ctx context.Context, code string) (*entities.SalaryType, error) {
	return r.findSalaryType(ctx, sq.Eq{"st.code": code})
}

func (r *LeaveTypeRepository) CreateSalaryType(ctx context.Context, st *entities.SalaryType) (uint64, error) {
	var id uint64
	err := r.storage.QueryRow(ctx,
		"INSERT INTO salary_types (code, name, created_at, updated_at) VALUES ($1, $2, NOW(), NOW()) RETURNING id",
		st.Code, st.Name).Scan(&id)
	if err != nil {
		return 0, mapPgError(err, "тип оплаты")
	}
	return id, nil
}

func (r *LeaveTypeRepository) UpdateSalaryType(ctx context.Context, st *entities.SalaryType) error {
	builder := psql.Update("salary_types").
		Set("code", st.Code).
		Set("name", st.Name).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": st.ID})
	return execAffected(ctx, r.storage, builder, "тип оплаты")
}

func (r *LeaveTypeRepository) DeleteSalaryType(ctx context.Context, id uint64) error {
	return execAffected(ctx, r.storage, psql.Delete("salary_types").Where(sq.Eq{"id": id}), "тип оплаты")
}
