package repositories

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"hr-system/internal/entities"
	db "hr-system/internal/infrastructure/bd"
	"hr-system/pkg/types"
)

const holidayColumns = "h.id, h.company_id, h.holiday_date, h.name, h.created_at, h.updated_at"

var holidayFilterMap = map[string]string{
	"id":         "h.id",
	"company_id": "h.company_id",
	"date":       "h.holiday_date",
	"name":       "h.name",
}

type HolidayRepositoryInterface interface {
	List(ctx context.Context, filter types.Filter, from, to *time.Time) ([]entities.Holiday, uint64, error)
	FindByID(ctx context.Context, id uint64) (*entities.Holiday, error)
	DatesBetween(ctx context.Context, tx pgx.Tx, companyID uint64, from, to time.Time) ([]time.Time, error)
	Create(ctx context.Context, h *entities.Holiday) (uint64, error)
	Upsert(ctx context.Context, tx pgx.Tx, h *entities.Holiday) error
	Update(ctx context.Context, h *entities.Holiday) error
	Delete(ctx context.Context, id uint64) error
}

type HolidayRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewHolidayRepository(storage *pgxpool.Pool, logger *zap.Logger) HolidayRepositoryInterface {
	return &HolidayRepository{storage: storage, logger: logger}
}

func scanHoliday(row pgx.Row) (*entities.Holiday, error) {
	var h entities.Holiday
	if err := row.Scan(&h.ID, &h.CompanyID, &h.Date, &h.Name, &h.CreatedAt, &h.UpdatedAt); err != nil {
		return nil, mapPgError(err, "праздник")
	}
	return &h, nil
}

func holidayRange(b sq.SelectBuilder, from, to *time.Time) sq.SelectBuilder {
	if from != nil {
		b = b.Where(sq.GtOrEq{"h.holiday_date": *from})
	}
	if to != nil {
		b = b.Where(sq.LtOrEq{"h.holiday_date": *to})
	}
	return b
}

func (r *HolidayRepository) List(ctx context.Context, filter types.Filter, from, to *time.Time) ([]entities.Holiday, uint64, error) {
	countBuilder := db.ApplyFilters(psql.Select("COUNT(h.id)").From("holidays h"), filter, holidayFilterMap)
	countBuilder = holidayRange(db.ApplySearch(countBuilder, filter.Search, "h.name"), from, to)
	total, err := countRows(ctx, r.storage, countBuilder)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета праздников: %w", err)
	}
	if total == 0 {
		return []entities.Holiday{}, 0, nil
	}

	builder := holidayRange(db.ApplySearch(psql.Select(holidayColumns).From("holidays h"), filter.Search, "h.name"), from, to)
	builder = db.ApplyListParams(builder, filter, holidayFilterMap, "h.holiday_date ASC")
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]entities.Holiday, 0, filter.Limit)
	for rows.Next() {
		h, err := scanHoliday(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *h)
	}
	return list, total, rows.Err()
}

func (r *HolidayRepository) FindByID(ctx context.Context, id uint64) (*entities.Holiday, error) {
	query, args, err := psql.Select(holidayColumns).From("holidays h").Where(sq.Eq{"h.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanHoliday(r.storage.QueryRow(ctx, query, args...))
}

// DatesBetween - праздничные даты компании в диапазоне, для календаря рабочих дней.
func (r *HolidayRepository) DatesBetween(ctx context.Context, tx pgx.Tx, companyID uint64, from, to time.Time) ([]time.Time, error) {
	rows, err := pick(r.storage, tx).Query(ctx,
		"SELECT holiday_date FROM holidays WHERE company_id = $1 AND holiday_date BETWEEN $2 AND $3 ORDER BY holiday_date",
		companyID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dates := make([]time.Time, 0)
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

func (r *HolidayRepository) Create(ctx context.Context, h *entities.Holiday) (uint64, error) {
	var id uint64
	err := r.storage.QueryRow(ctx, `
		INSERT INTO holidays (company_id, holiday_date, name, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW()) RETURNING id`,
		h.CompanyID, h.Date, h.Name).Scan(&id)
	if err != nil {
		return 0, mapPgError(err, "праздник")
	}
	return id, nil
}

// Upsert используется импортом: одна дата компании - один праздник.
func (r *HolidayRepository) Upsert(ctx context.Context, tx pgx.Tx, h *entities.Holiday) error {
	_, err := pick(r.storage, tx).Exec(ctx, `
		INSERT INTO holidays (company_id, holiday_date, name, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (company_id, holiday_date) DO UPDATE SET name = EXCLUDED.name, updated_at = NOW()`,
		h.CompanyID, h.Date, h.Name)
	return mapPgError(err, "праздник")
}

func (r *HolidayRepository) Update(ctx context.Context, h *entities.Holiday) error {
	builder := psql.Update("holidays").
		Set("holiday_date", h.Date).
		Set("name", h.Name).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": h.ID})
	return execAffected(ctx, r.storage, builder, "праздник")
}

func (r *HolidayRepository) Delete(ctx context.Context, id uint64) error {
	return execAffected(ctx, r.storage, psql.Delete("holidays").Where(sq.Eq{"id": id}), "праздник")
}
