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
	"hr-system/pkg/constants"
)

const travelClaimFrom = "travel_claims tc JOIN employees emp ON emp.id = tc.employee_id"

var travelClaimColumns = []string{
	"tc.id", "tc.employee_id", "tc.from_date", "tc.to_date", "tc.from_place", "tc.to_place", "tc.purpose",
	"tc.travel_amount::float8", "tc.other_amount::float8", "tc.da_days", "tc.da_amount::float8", "tc.total_amount::float8",
	"tc.status", "tc.created_by", "tc.created_at", "tc.updated_at",
	"emp.code", "emp.full_name", "COALESCE(emp.reporting_manager_id, 0)",
}

var travelClaimFilterMap = map[string]string{
	"id":           "tc.id",
	"employee_id":  "tc.employee_id",
	"status":       "tc.status",
	"from_date":    "tc.from_date",
	"total_amount": "tc.total_amount",
	"company_id":   "emp.company_id",
	"created_at":   "tc.created_at",
}

type TravelClaimRepositoryInterface interface {
	List(ctx context.Context, params EntryListParams) ([]dto.TravelClaimDTO, uint64, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*dto.TravelClaimDTO, error)
	Create(ctx context.Context, tx pgx.Tx, e *entities.TravelClaim) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, e *entities.TravelClaim) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
}

type TravelClaimRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewTravelClaimRepository(storage *pgxpool.Pool, logger *zap.Logger) TravelClaimRepositoryInterface {
	return &TravelClaimRepository{storage: storage, logger: logger}
}

func scanTravelClaim(row pgx.Row) (*dto.TravelClaimDTO, error) {
	var d dto.TravelClaimDTO
	e := &d.TravelClaim
	err := row.Scan(&e.ID, &e.EmployeeID, &e.FromDate, &e.ToDate, &e.FromPlace, &e.ToPlace, &e.Purpose,
		&e.TravelAmount, &e.OtherAmount, &e.DADays, &e.DAAmount, &e.TotalAmount,
		&e.Status, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
		&d.EmployeeCode, &d.EmployeeName, &d.ManagerID)
	if err != nil {
		return nil, mapPgError(err, "командировочные расходы")
	}
	return &d, nil
}

func (r *TravelClaimRepository) List(ctx context.Context, params EntryListParams) ([]dto.TravelClaimDTO, uint64, error) {
	where := func(b sq.SelectBuilder) sq.SelectBuilder {
		b = applyEntryScope(b, params.Scope, "tc")
		b = applyDateRange(b, "tc.from_date", "tc.to_date", params.DateFrom, params.DateTo)
		return db.ApplySearch(b, params.Filter.Search, "emp.code", "emp.full_name", "tc.from_place", "tc.to_place", "tc.purpose")
	}

	countBuilder := db.ApplyFilters(where(psql.Select("COUNT(tc.id)").From(travelClaimFrom)), params.Filter, travelClaimFilterMap)
	total, err := countRows(ctx, r.storage, countBuilder)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета командировочных: %w", err)
	}
	if total == 0 {
		return []dto.TravelClaimDTO{}, 0, nil
	}

	builder := db.ApplyListParams(where(psql.Select(travelClaimColumns...).From(travelClaimFrom)), params.Filter, travelClaimFilterMap, "tc.from_date DESC, tc.id DESC")
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]dto.TravelClaimDTO, 0, params.Filter.Limit)
	for rows.Next() {
		d, err := scanTravelClaim(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *d)
	}
	return list, total, rows.Err()
}

func (r *TravelClaimRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*dto.TravelClaimDTO, error) {
	query, args, err := psql.Select(travelClaimColumns...).From(travelClaimFrom).Where(sq.Eq{"tc.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanTravelClaim(pick(r.storage, tx).QueryRow(ctx, query, args...))
}

func (r *TravelClaimRepository) Create(ctx context.Context, tx pgx.Tx, e *entities.TravelClaim) (uint64, error) {
	var id uint64
	err := pick(r.storage, tx).QueryRow(ctx, `
		INSERT INTO travel_claims (employee_id, from_date, to_date, from_place, to_place, purpose,
		                           travel_amount, other_amount, da_days, da_amount, total_amount,
		                           status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		RETURNING id`,
		e.EmployeeID, e.FromDate, e.ToDate, e.FromPlace, e.ToPlace, e.Purpose,
		e.TravelAmount, e.OtherAmount, e.DADays, e.DAAmount, e.TotalAmount,
		e.Status, e.CreatedBy).Scan(&id)
	if err != nil {
		return 0, mapPgError(err, "командировочные расходы")
	}
	return id, nil
}

func (r *TravelClaimRepository) Update(ctx context.Context, tx pgx.Tx, e *entities.TravelClaim) error {
	builder := psql.Update("travel_claims").
		Set("from_date", e.FromDate).
		Set("to_date", e.ToDate).
		Set("from_place", e.FromPlace).
		Set("to_place", e.ToPlace).
		Set("purpose", e.Purpose).
		Set("travel_amount", e.TravelAmount).
		Set("other_amount", e.OtherAmount).
		Set("da_days", e.DADays).
		Set("da_amount", e.DAAmount).
		Set("total_amount", e.TotalAmount).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": e.ID, "status": constants.StatusPending})
	return execAffected(ctx, pick(r.storage, tx), builder, "командировочные расходы")
}

func (r *TravelClaimRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	return execAffected(ctx, pick(r.storage, tx), psql.Delete("travel_claims").Where(sq.Eq{"id": id}), "командировочные расходы")
}
