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

var companyFilterMap = map[string]string{
	"id":         "c.id",
	"code":       "c.code",
	"name":       "c.name",
	"is_active":  "c.is_active",
	"created_at": "c.created_at",
}

var siteFilterMap = map[string]string{
	"id":         "s.id",
	"company_id": "s.company_id",
	"code":       "s.code",
	"name":       "s.name",
	"is_active":  "s.is_active",
	"created_at": "s.created_at",
}

type CompanyRepositoryInterface interface {
	ListCompanies(ctx context.Context, filter types.Filter) ([]entities.Company, uint64, error)
	FindCompany(ctx context.Context, id uint64) (*entities.Company, error)
	FindCompanyByCode(ctx context.Context, code string) (*entities.Company, error)
	CreateCompany(ctx context.Context, c *entities.Company) (uint64, error)
	UpdateCompany(ctx context.Context, c *entities.Company) error
	DeleteCompany(ctx context.Context, id uint64) error

	ListSites(ctx context.Context, filter types.Filter) ([]entities.Site, uint64, error)
	FindSite(ctx context.Context, id uint64) (*entities.Site, error)
	FindSiteByCode(ctx context.Context, companyID uint64, code string) (*entities.Site, error)
	CreateSite(ctx context.Context, s *entities.Site) (uint64, error)
	UpdateSite(ctx context.Context, s *entities.Site) error
	DeleteSite(ctx context.Context, id uint64) error
}

type CompanyRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewCompanyRepository(storage *pgxpool.Pool, logger *zap.Logger) CompanyRepositoryInterface {
	return &CompanyRepository{storage: storage, logger: logger}
}

// -----------------------------------------------------------
// COMPANIES
// -----------------------------------------------------------

const companyColumns = "c.id, c.code, c.name, c.address, c.is_active, c.created_at, c.updated_at"

func scanCompany(row pgx.Row) (*entities.Company, error) {
	var c entities.Company
	if err := row.Scan(&c.ID, &c.Code, &c.Name, &c.Address, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, mapPgError(err, "компания")
	}
	return &c, nil
}

func (r *CompanyRepository) ListCompanies(ctx context.Context, filter types.Filter) ([]entities.Company, uint64, error) {
	countBuilder := db.ApplyFilters(psql.Select("COUNT(c.id)").From("companies c"), filter, companyFilterMap)
	countBuilder = db.ApplySearch(countBuilder, filter.Search, "c.code", "c.name")
	total, err := countRows(ctx, r.storage, countBuilder)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета компаний: %w", err)
	}
	if total == 0 {
		return []entities.Company{}, 0, nil
	}

	builder := db.ApplySearch(psql.Select(companyColumns).From("companies c"), filter.Search, "c.code", "c.name")
	builder = db.ApplyListParams(builder, filter, companyFilterMap, "c.name ASC")
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]entities.Company, 0, filter.Limit)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *c)
	}
	return list, total, rows.Err()
}

func (r *CompanyRepository) findCompany(ctx context.Context, where sq.Eq) (*entities.Company, error) {
	query, args, err := psql.Select(companyColumns).From("companies c").Where(where).ToSql()
	if err != nil {
		return nil, err
	}
	return scanCompany(r.storage.QueryRow(ctx, query, args...))
}

func (r *CompanyRepository) FindCompany(ctx context.Context, id uint64) (*entities.Company, error) {
	return r.findCompany(ctx, sq.Eq{"c.id": id})
}

func (r *CompanyRepository) FindCompanyByCode(ctx context.Context, code string) (*entities.Company, error) {
	return r.findCompany(ctx, sq.Eq{"c.code": code})
}

func (r *CompanyRepository) CreateCompany(ctx context.Context, c *entities.Company) (uint64, error) {
	var id uint64
	err := r.storage.QueryRow(ctx, `
		INSERT INTO companies (code, name, address, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW()) RETURNING id`,
		c.Code, c.Name, c.Address, c.IsActive).Scan(&id)
	if err != nil {
		return 0, mapPgError(err, "компания")
	}
	return id, nil
}

func (r *CompanyRepository) UpdateCompany(ctx context.Context, c *entities.Company) error {
	builder := psql.Update("companies").
		Set("code", c.Code).
		Set("name", c.Name).
		Set("address", c.Address).
		Set("is_active", c.IsActive).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": c.ID})
	return execAffected(ctx, r.storage, builder, "компания")
}

func (r *CompanyRepository) DeleteCompany(ctx context.Context, id uint64) error {
	return execAffected(ctx, r.storage, psql.Delete("companies").Where(sq.Eq{"id": id}), "компания")
}

// -----------------------------------------------------------
// SITES
// -----------------------------------------------------------

const siteColumns = "s.id, s.company_id, s.code, s.name, s.address, s.is_active, s.created_at, s.updated_at"

func scanSite(row pgx.Row) (*entities.Site, error) {
	var s entities.Site
	if err := row.Scan(&s.ID, &s.CompanyID, &s.Code, &s.Name, &s.Address, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, mapPgError(err, "площадка")
	}
	return &s, nil
}

func (r *CompanyRepository) ListSites(ctx context.Context, filter types.Filter) ([]entities.Site, uint64, error) {
	countBuilder := db.ApplyFilters(psql.Select("COUNT(s.id)").From("sites s"), filter, siteFilterMap)
	countBuilder = db.ApplySearch(countBuilder, filter.Search, "s.code", "s.name")
	total, err := countRows(ctx, r.storage, countBuilder)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета площадок: %w", err)
	}
	if total == 0 {
		return []entities.Site{}, 0, nil
	}

	builder := db.ApplySearch(psql.Select(siteColumns).From("sites s"), filter.Search, "s.code", "s.name")
	builder = db.ApplyListParams(builder, filter, siteFilterMap, "s.name ASC")
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]entities.Site, 0, filter.Limit)
	for rows.Next() {
		s, err := scanSite(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *s)
	}
	return list, total, rows.Err()
}

func (r *CompanyRepository) findSite(ctx context.Context, where sq.Eq) (*entities.Site, error) {
	query, args, err := psql.Select(siteColumns).From("sites s").Where(where).ToSql()
	if err != nil {
		return nil, err
	}
	return scanSite(r.storage.QueryRow(ctx, query, args...))
}

func (r *CompanyRepository) FindSite(ctx context.Context, id uint64) (*entities.Site, error) {
	return r.findSite(ctx, sq.Eq{"s.id": id})
}

func (r *CompanyRepository) FindSiteByCode(ctx context.Context, companyID uint64, code string) (*entities.Site, error) {
	return r.findSite(ctx, sq.Eq{"s.company_id": companyID, "s.code": code})
}

func (r *CompanyRepository) CreateSite(ctx context.Context, s *entities.Site) (uint64, error) {
	var id uint64
	err := r.storage.QueryRow(ctx, `
		INSERT INTO sites (company_id, code, name, address, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW()) RETURNING id`,
		s.CompanyID, s.Code, s.Name, s.Address, s.IsActive).Scan(&id)
	if err != nil {
		return 0, mapPgError(err, "площадка")
	}
	return id, nil
}

func (r *CompanyRepository) UpdateSite(ctx context.Context, s *entities.Site) error {
	builder := psql.Update("sites").
		Set("code", s.Code).
		Set("name", s.Name).
		Set("address", s.Address).
		Set("is_active", s.IsActive).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": s.ID})
	return execAffected(ctx, r.storage, builder, "площадка")
}

func (r *CompanyRepository) DeleteSite(ctx context.Context, id uint64) error {
	return execAffected(ctx, r.storage, psql.Delete("sites").Where(sq.Eq{"id": id}), "площадка")
}
