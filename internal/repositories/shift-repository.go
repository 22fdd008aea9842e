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

// TIME колонки читаются строкой HH:MM.
const shiftColumns = "sh.id, sh.code, sh.name, to_char(sh.start_time, 'HH24:MI'), to_char(sh.end_time, 'HH24:MI'), sh.break_minutes, sh.is_active, sh.created_at, sh.updated_at"

var shiftFilterMap = map[string]string{
	"id":         "sh.id",
	"code":       "sh.code",
	"name":       "sh.name",
	"is_active":  "sh.is_active",
	"start_time": "sh.start_time",
}

type ShiftRepositoryInterface interface {
	List(ctx context.Context, filter types.Filter) ([]entities.Shift, uint64, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Shift, error)
	FindByCode(ctx context.Context, code string) (*entities.Shift, error)
	Create(ctx context.Context, s *entities.Shift) (uint64, error)
	Update(ctx context.Context, s *entities.Shift) error
	Delete(ctx context.Context, id uint64) error
}

type ShiftRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewShiftRepository(storage *pgxpool.Pool, logger *zap.Logger) ShiftRepositoryInterface {
	return &ShiftRepository{storage: storage, logger: logger}
}

func scanShift(row pgx.Row) (*entities.Shift, error) {
	var s entities.Shift
	if err := row.Scan(&s.ID, &s.Code, &s.Name, &s.StartTime, &s.EndTime, &s.BreakMinutes, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, mapPgError(err, "смена")
	}
	return &s, nil
}

func (r *ShiftRepository) List(ctx context.Context, filter types.Filter) ([]entities.Shift, uint64, error) {
	countBuilder := db.ApplyFilters(psql.Select("COUNT(sh.id)").From("shifts sh"), filter, shiftFilterMap)
	countBuilder = db.ApplySearch(countBuilder, filter.Search, "sh.code", "sh.name")
	total, err := countRows(ctx, r.storage, countBuilder)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета смен: %w", err)
	}
	if total == 0 {
		return []entities.Shift{}, 0, nil
	}

	builder := db.ApplySearch(psql.Select(shiftColumns).From("shifts sh"), filter.Search, "sh.code", "sh.name")
	builder = db.ApplyListParams(builder, filter, shiftFilterMap, "sh.start_time ASC")
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]entities.Shift, 0, filter.Limit)
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *s)
	}
	return list, total, rows.Err()
}

func (r *ShiftRepository) findOne(ctx context.Context, q Querier, where sq.Eq) (*entities.Shift, error) {
	query, args, err := psql.Select(shiftColumns).From("shifts sh").Where(where).ToSql()
	if err != nil {
		return nil, err
	}
	return scanShift(q.QueryRow(ctx, query, args...))
}

func (r *ShiftRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Shift, error) {
	return r.findOne(ctx, pick(r.storage, tx), sq.Eq{"sh.id": id})
}

func (r *ShiftRepository) FindByCode(ctx context.Context, code string) (*entities.Shift, error) {
	return r.findOne(ctx, r.storage, sq.Eq{"sh.code": code})
}

func (r *ShiftRepository) Create(ctx context.Context, s *entities.Shift) (uint64, error) {
	var id uint64
	err := r.storage.QueryRow(ctx, `
		INSERT INTO shifts (code, name, start_time, end_time, break_minutes, is_active, created_at, updated_at)
		VALUES ($1, $2, $3::time, $4::time, $5, $6, NOW(), NOW()) RETURNING id`,
		s.Code, s.Name, s.StartTime, s.EndTime, s.BreakMinutes, s.IsActive).Scan(&id)
	if err != nil {
		return 0, mapPgError(err, "смена")
	}
	return id, nil
}

func (r *ShiftRepository) Update(ctx context.Context, s *entities.Shift) error {
	builder := psql.Update("shifts").
		Set("code", s.Code).
		Set("name", s.Name).
		Set("start_time", sq.Expr("?::time", s.StartTime)).
		Set("end_time", sq.Expr("?::time", s.EndTime)).
		Set("break_minutes", s.BreakMinutes).
		Set("is_active", s.IsActive).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": s.ID})
	return execAffected(ctx, r.storage, builder, "смена")
}

func (r *ShiftRepository) Delete(ctx context.Context, id uint64) error {
	return execAffected(ctx, r.storage, psql.Delete("shifts").Where(sq.Eq{"id": id}), "смена")
}
