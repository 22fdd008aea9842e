package services

import (
	"context"
	"errors"

	"hr-system/internal/dto"
	"hr-system/internal/entities"
	"hr-system/internal/repositories"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/types"
	"hr-system/pkg/utils"

	"go.uber.org/zap"
)

type CompanyServiceInterface interface {
	GetCompanies(ctx context.Context, filter types.Filter) ([]entities.Company, uint64, error)
	FindCompany(ctx context.Context, id uint64) (*entities.Company, error)
	CreateCompany(ctx context.Context, payload dto.CreateCompanyDTO) (*entities.Company, error)
	UpdateCompany(ctx context.Context, id uint64, payload dto.UpdateCompanyDTO) (*entities.Company, error)
	DeleteCompany(ctx context.Context, id uint64) error

	GetSites(ctx context.Context, filter types.Filter) ([]entities.Site, uint64, error)
	FindSite(ctx context.Context, id uint64) (*entities.Site, error)
	CreateSite(ctx context.Context, payload dto.CreateSiteDTO) (*entities.Site, error)
	UpdateSite(ctx context.Context, id uint64, payload dto.UpdateSiteDTO) (*entities.Site, error)
	DeleteSite(ctx context.Context, id uint64) error
}

type CompanyService struct {
	repo   repositories.CompanyRepositoryInterface
	logger *zap.Logger
}

func NewCompanyService(repo repositories.CompanyRepositoryInterface, logger *zap.Logger) CompanyServiceInterface {
	return &CompanyService{repo: repo, logger: logger}
}

func (s *CompanyService) GetCompanies(ctx context.Context, filter types.Filter) ([]entities.Company, uint64, error) {
	return s.repo.ListCompanies(ctx, filter)
}

func (s *CompanyService) FindCompany(ctx context.Context, id uint64) (*entities.Company, error) {
	return s.repo.FindCompany(ctx, id)
}

func (s *CompanyService) CreateCompany(ctx context.Context, payload dto.CreateCompanyDTO) (*entities.Company, error) {
	c := &entities.Company{
		Code:     payload.Code,
		Name:     payload.Name,
		Address:  utils.NullStringFromPtr(payload.Address),
		IsActive: true,
	}
	id, err := s.repo.CreateCompany(ctx, c)
	if err != nil {
		return nil, asConflict(err, "Компания с кодом '%s' уже существует", payload.Code)
	}
	s.logger.Info("Создана компания", zap.Uint64("id", id), zap.String("code", c.Code))
	return s.repo.FindCompany(ctx, id)
}

func (s *CompanyService) UpdateCompany(ctx context.Context, id uint64, payload dto.UpdateCompanyDTO) (*entities.Company, error) {
	c, err := s.repo.FindCompany(ctx, id)
	if err != nil {
		return nil, err
	}
	if payload.Code != nil {
		c.Code = *payload.Code
	}
	if payload.Name != nil {
		c.Name = *payload.Name
	}
	if payload.Address != nil {
		c.Address = utils.NullStringFromPtr(payload.Address)
	}
	if payload.IsActive != nil {
		c.IsActive = *payload.IsActive
	}
	if err := s.repo.UpdateCompany(ctx, c); err != nil {
		return nil, asConflict(err, "Компания с кодом '%s' уже существует", c.Code)
	}
	return s.repo.FindCompany(ctx, id)
}

func (s *CompanyService) DeleteCompany(ctx context.Context, id uint64) error {
	if err := s.repo.DeleteCompany(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Компания удалена", zap.Uint64("id", id))
	return nil
}

func (s *CompanyService) GetSites(ctx context.Context, filter types.Filter) ([]entities.Site, uint64, error) {
	return s.repo.ListSites(ctx, filter)
}

func (s *CompanyService) FindSite(ctx context.Context, id uint64) (*entities.Site, error) {
	return s.repo.FindSite(ctx, id)
}

func (s *CompanyService) CreateSite(ctx context.Context, payload dto.CreateSiteDTO) (*entities.Site, error) {
	if _, err := s.repo.FindCompany(ctx, payload.CompanyID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewBadRequest("Компания %d не найдена", payload.CompanyID)
		}
		return nil, err
	}
	site := &entities.Site{
		CompanyID: payload.CompanyID,
		Code:      payload.Code,
		Name:      payload.Name,
		Address:   utils.NullStringFromPtr(payload.Address),
		IsActive:  true,
	}
	id, err := s.repo.CreateSite(ctx, site)
	if err != nil {
		return nil, asConflict(err, "Площадка с кодом '%s' уже есть в компании", payload.Code)
	}
	s.logger.Info("Создана площадка", zap.Uint64("id", id), zap.Uint64("companyID", site.CompanyID))
	return s.repo.FindSite(ctx, id)
}

func (s *CompanyService) UpdateSite(ctx context.Context, id uint64, payload dto.UpdateSiteDTO) (*entities.Site, error) {
	site, err := s.repo.FindSite(ctx, id)
	if err != nil {
		return nil, err
	}
	if payload.Code != nil {
		site.Code = *payload.Code
	}
	if payload.Name != nil {
		site.Name = *payload.Name
	}
	if payload.Address != nil {
		site.Address = utils.NullStringFromPtr(payload.Address)
	}
	if payload.IsActive != nil {
		site.IsActive = *payload.IsActive
	}
	if err := s.repo.UpdateSite(ctx, site); err != nil {
		return nil, asConflict(err, "Площадка с кодом '%s' уже есть в компании", site.Code)
	}
	return s.repo.FindSite(ctx, id)
}

func (s *CompanyService) DeleteSite(ctx context.Context, id uint64) error {
	return s.repo.DeleteSite(ctx, id)
}
