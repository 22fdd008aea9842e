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
)

const siteEntryFrom = "site_entries se JOIN employees emp ON emp.id = se.employee_id JOIN sites s ON s.id = se.site_id LEFT JOIN shifts sh ON sh.id = se.shift_id"

var siteEntryColumns = []string{
	"se.id", "se.employee_id", "se.site_id", "se.entry_date", "se.shift_id",
	"to_char(se.in_time, 'HH24:MI')", "to_char(se.out_time, 'HH24:MI')", "se.remarks", "se.hours::float8",
	"se.status", "se.created_by", "se.created_at", "se.updated_at",
	"emp.code", "emp.full_name", "COALESCE(emp.reporting_manager_id, 0)",
	"s.code", "s.name", "COALESCE(sh.code, '')",
}

var siteEntryFilterMap = map[string]string{
	"id":          "se.id",
	"employee_id": "se.employee_id",
	"site_id":     "se.site_id",
	"shift_id":    "se.shift_id",
	"date":        "se.entry_date",
	"company_id":  "emp.company_id",
	"created_at":  "se.created_at",
}

type SiteEntryRepositoryInterface interface {
	List(ctx context.Context, params EntryListParams) ([]dto.SiteEntryDTO, uint64, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*dto.SiteEntryDTO, error)
	LockByID(ctx context.Context, tx pgx.Tx, id uint64) (*dto.SiteEntryDTO, error)
	Create(ctx context.Context, tx pgx.Tx, e *entities.SiteEntry) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, e *entities.SiteEntry) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
}

type SiteEntryRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewSiteEntryRepository(storage *pgxpool.Pool, logger *zap.Logger) SiteEntryRepositoryInterface {
	return &SiteEntryRepository{storage: storage, logger: logger}
}

func scanSiteEntry(row pgx.Row) (*dto.SiteEntryDTO, error) {
	var d dto.SiteEntryDTO
	e := &d.SiteEntry
	err := row.Scan(&e.ID, &e.EmployeeID, &e.SiteID, &e.Date, &e.ShiftID,
		&e.InTime, &e.OutTime, &e.Remarks, &e.Hours,
		&e.Status, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
		&d.EmployeeCode, &d.EmployeeName, &d.ManagerID,
		&d.SiteCode, &d.SiteName, &d.ShiftCode)
	if err != nil {
		return nil, mapPgError(err, "выход на площадку")
	}
	return &d, nil
}

func (r *SiteEntryRepository) List(ctx context.Context, params EntryListParams) ([]dto.SiteEntryDTO, uint64, error) {
	where := func(b sq.SelectBuilder) sq.SelectBuilder {
		b = applyEntryScope(b, params.Scope, "se")
		b = applyDateRange(b, "se.entry_date", "se.entry_date", params.DateFrom, params.DateTo)
		return db.ApplySearch(b, params.Filter.Search, "emp.code", "emp.full_name", "s.name")
	}

	countBuilder := db.ApplyFilters(where(psql.Select("COUNT(se.id)").From(siteEntryFrom)), params.Filter, siteEntryFilterMap)
	total, err := countRows(ctx, r.storage, countBuilder)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета выходов на площадки: %w", err)
	}
	if total == 0 {
		return []dto.SiteEntryDTO{}, 0, nil
	}

	builder := db.ApplyListParams(where(psql.Select(siteEntryColumns...).From(siteEntryFrom)), params.Filter, siteEntryFilterMap, "se.entry_date DESC, se.id DESC")
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]dto.SiteEntryDTO, 0, params.Filter.Limit)
	for rows.Next() {
		d, err := scanSiteEntry(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *d)
	}
	return list, total, rows.Err()
}

func (r *SiteEntryRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*dto.SiteEntryDTO, error) {
	query, args, err := psql.Select(siteEntryColumns...).From(siteEntryFrom).Where(sq.Eq{"se.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanSiteEntry(pick(r.storage, tx).QueryRow(ctx, query, args...))
}

// LockByID читает отметку под FOR UPDATE: правки одной отметки идут по очереди.
func (r *SiteEntryRepository) LockByID(ctx context.Context, tx pgx.Tx, id uint64) (*dto.SiteEntryDTO, error) {
	query, args, err := psql.Select(siteEntryColumns...).From(siteEntryFrom).
		Where(sq.Eq{"se.id": id}).
		Suffix("FOR UPDATE OF se").
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanSiteEntry(tx.QueryRow(ctx, query, args...))
}

func (r *SiteEntryRepository) Create(ctx context.Context, tx pgx.Tx, e *entities.SiteEntry) (uint64, error) {
	var id uint64
	err := pick(r.storage, tx).QueryRow(ctx, `
		INSERT INTO site_entries (employee_id, site_id, entry_date, shift_id, in_time, out_time, remarks, hours, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::time, $6::time, $7, $8, $9, $10, NOW(), NOW())
		RETURNING id`,
		e.EmployeeID, e.SiteID, e.Date, e.ShiftID, e.InTime, e.OutTime, e.Remarks, e.Hours, e.Status, e.CreatedBy).Scan(&id)
	if err != nil {
		return 0, mapPgError(err, "выход на площадку")
	}
	return id, nil
}

func (r *SiteEntryRepository) Update(ctx context.Context, tx pgx.Tx, e *entities.SiteEntry) error {
	builder := psql.Update("site_entries").
		Set("site_id", e.SiteID).
		Set("entry_date", e.Date).
		Set("shift_id", e.ShiftID).
		Set("in_time", sq.Expr("?::time", e.InTime)).
		Set("out_time", sq.Expr("?::time", e.OutTime)).
		Set("remarks", e.Remarks).
		Set("hours", e.Hours).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": e.ID})
	return execAffected(ctx, pick(r.storage, tx), builder, "выход на площадку")
}

func (r *SiteEntryRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	return execAffected(ctx, pick(r.storage, tx), psql.Delete("site_entries").Where(sq.Eq{"id": id}), "выход на площадку")
}
