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

const employeeColumns = "e.id, e.code, e.full_name, e.email, e.phone, e.company_id, e.site_id, e.shift_id, e.salary_type_id, e.reporting_manager_id, e.date_of_joining, e.is_active, e.created_at, e.updated_at"

var employeeFilterMap = map[string]string{
	"id":                   "e.id",
	"code":                 "e.code",
	"full_name":            "e.full_name",
	"company_id":           "e.company_id",
	"site_id":              "e.site_id",
	"shift_id":             "e.shift_id",
	"salary_type_id":       "e.salary_type_id",
	"reporting_manager_id": "e.reporting_manager_id",
	"is_active":            "e.is_active",
	"date_of_joining":      "e.date_of_joining",
}

type EmployeeRepositoryInterface interface {
	List(ctx context.Context, filter types.Filter) ([]entities.Employee, uint64, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Employee, error)
	FindByIDs(ctx context.Context, tx pgx.Tx, ids []uint64) ([]entities.Employee, error)
	FindByCode(ctx context.Context, tx pgx.Tx, code string) (*entities.Employee, error)
	LockByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Employee, error)
	Subordinates(ctx context.Context, managerID uint64) ([]entities.Employee, error)
	IsInManagerChain(ctx context.Context, startManagerID, employeeID uint64) (bool, error)
	Create(ctx context.Context, tx pgx.Tx, e *entities.Employee) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, e *entities.Employee) error
	Delete(ctx context.Context, id uint64) error
}

type EmployeeRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEmployeeRepository(storage *pgxpool.Pool, logger *zap.Logger) EmployeeRepositoryInterface {
	return &EmployeeRepository{storage: storage, logger: logger}
}

func scanEmployee(row pgx.Row) (*entities.Employee, error) {
	var e entities.Employee
	err := row.Scan(&e.ID, &e.Code, &e.FullName, &e.Email, &e.Phone, &e.CompanyID, &e.SiteID, &e.ShiftID,
		&e.SalaryTypeID, &e.ReportingManagerID, &e.DateOfJoining, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, mapPgError(err, "сотрудник")
	}
	return &e, nil
}

func (r *EmployeeRepository) queryList(ctx context.Context, q Querier, builder sq.SelectBuilder) ([]entities.Employee, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]entities.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *e)
	}
	return list, rows.Err()
}

func (r *EmployeeRepository) List(ctx context.Context, filter types.Filter) ([]entities.Employee, uint64, error) {
	countBuilder := db.ApplyFilters(psql.Select("COUNT(e.id)").From("employees e"), filter, employeeFilterMap)
	countBuilder = db.ApplySearch(countBuilder, filter.Search, "e.code", "e.full_name", "e.email")
	total, err := countRows(ctx, r.storage, countBuilder)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета сотрудников: %w", err)
	}
	if total == 0 {
		return []entities.Employee{}, 0, nil
	}

	builder := db.ApplySearch(psql.Select(employeeColumns).From("employees e"), filter.Search, "e.code", "e.full_name", "e.email")
	builder = db.ApplyListParams(builder, filter, employeeFilterMap, "e.full_name ASC")
	list, err := r.queryList(ctx, r.storage, builder)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *EmployeeRepository) findOne(ctx context.Context, q Querier, where sq.Eq) (*entities.Employee, error) {
	query, args, err := psql.Select(employeeColumns).From("employees e").Where(where).ToSql()
	if err != nil {
		return nil, err
	}
	return scanEmployee(q.QueryRow(ctx, query, args...))
}

func (r *EmployeeRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Employee, error) {
	return r.findOne(ctx, pick(r.storage, tx), sq.Eq{"e.id": id})
}

func (r *EmployeeRepository) FindByCode(ctx context.Context, tx pgx.Tx, code string) (*entities.Employee, error) {
	return r.findOne(ctx, pick(r.storage, tx), sq.Eq{"e.code": code})
}

// LockByID блокирует строку сотрудника до конца транзакции: заявки одного сотрудника
// проверяются на пересечения и лимиты последовательно.
func (r *EmployeeRepository) LockByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Employee, error) {
	query, args, err := psql.Select(employeeColumns).From("employees e").Where(sq.Eq{"e.id": id}).Suffix("FOR UPDATE").ToSql()
	if err != nil {
		return nil, err
	}
	return scanEmployee(tx.QueryRow(ctx, query, args...))
}

func (r *EmployeeRepository) FindByIDs(ctx context.Context, tx pgx.Tx, ids []uint64) ([]entities.Employee, error) {
	if len(ids) == 0 {
		return []entities.Employee{}, nil
	}
	builder := psql.Select(employeeColumns).From("employees e").Where(sq.Eq{"e.id": ids}).OrderBy("e.id")
	return r.queryList(ctx, pick(r.storage, tx), builder)
}

func (r *EmployeeRepository) Subordinates(ctx context.Context, managerID uint64) ([]entities.Employee, error) {
	builder := psql.Select(employeeColumns).From("employees e").
		Where(sq.Eq{"e.reporting_manager_id": managerID}).
		OrderBy("e.full_name")
	return r.queryList(ctx, r.storage, builder)
}

// IsInManagerChain - встречается ли employeeID среди руководителей, начиная с startManagerID.
// Используется, чтобы назначение руководителя не образовало цикл.
func (r *EmployeeRepository) IsInManagerChain(ctx context.Context, startManagerID, employeeID uint64) (bool, error) {
	var found bool
	err := r.storage.QueryRow(ctx, `
		WITH RECURSIVE chain(id, manager_id, depth) AS (
			SELECT id, reporting_manager_id, 1 FROM employees WHERE id = $1
			UNION ALL
			SELECT e.id, e.reporting_manager_id, c.depth + 1
			FROM employees e JOIN chain c ON e.id = c.manager_id
			WHERE c.depth < 100
		)
		SELECT EXISTS (SELECT 1 FROM chain WHERE id = $2)`,
		startManagerID, employeeID).Scan(&found)
	return found, err
}

func (r *EmployeeRepository) Create(ctx context.Context, tx pgx.Tx, e *entities.Employee) (uint64, error) {
	var id uint64
	err := pick(r.storage, tx).QueryRow(ctx, `
		INSERT INTO employees (code, full_name, email, phone, company_id, site_id, shift_id, salary_type_id,
		                       reporting_manager_id, date_of_joining, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING id`,
		e.Code, e.FullName, e.Email, e.Phone, e.CompanyID, e.SiteID, e.ShiftID, e.SalaryTypeID,
		e.ReportingManagerID, e.DateOfJoining, e.IsActive).Scan(&id)
	if err != nil {
		return 0, mapPgError(err, "сотрудник")
	}
	return id, nil
}

func (r *EmployeeRepository) Update(ctx context.Context, tx pgx.Tx, e *entities.Employee) error {
	builder := psql.Update("employees").
		Set("code", e.Code).
		Set("full_name", e.FullName).
		Set("email", e.Email).
		Set("phone", e.Phone).
		Set("company_id", e.CompanyID).
		Set("site_id", e.SiteID).
		Set("shift_id", e.ShiftID).
		Set("salary_type_id", e.SalaryTypeID).
		Set("reporting_manager_id", e.ReportingManagerID).
		Set("date_of_joining", e.DateOfJoining).
		Set("is_active", e.IsActive).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": e.ID})
	return execAffected(ctx, pick(r.storage, tx), builder, "сотрудник")
}

func (r *EmployeeRepository) Delete(ctx context.Context, id uint64) error {
	return execAffected(ctx, r.storage, psql.Delete("employees").Where(sq.Eq{"id": id}), "сотрудник")
}
