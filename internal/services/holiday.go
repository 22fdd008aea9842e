package services

import (
	"context"
	"errors"
	"time"

	"hr-system/internal/dto"
	"hr-system/internal/entities"
	"hr-system/internal/repositories"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/types"
	"hr-system/pkg/utils"

	"go.uber.org/zap"
)

type HolidayServiceInterface interface {
	GetHolidays(ctx context.Context, filter types.Filter, from, to *time.Time) ([]entities.Holiday, uint64, error)
	FindHoliday(ctx context.Context, id uint64) (*entities.Holiday, error)
	CreateHoliday(ctx context.Context, payload dto.CreateHolidayDTO) (*entities.Holiday, error)
	UpdateHoliday(ctx context.Context, id uint64, payload dto.UpdateHolidayDTO) (*entities.Holiday, error)
	DeleteHoliday(ctx context.Context, id uint64) error
}

type HolidayService struct {
	repo        repositories.HolidayRepositoryInterface
	companyRepo repositories.CompanyRepositoryInterface
	logger      *zap.Logger
}

func NewHolidayService(repo repositories.HolidayRepositoryInterface, companyRepo repositories.CompanyRepositoryInterface, logger *zap.Logger) HolidayServiceInterface {
	return &HolidayService{repo: repo, companyRepo: companyRepo, logger: logger}
}

func (s *HolidayService) GetHolidays(ctx context.Context, filter types.Filter, from, to *time.Time) ([]entities.Holiday, uint64, error) {
	return s.repo.List(ctx, filter, from, to)
}

func (s *HolidayService) FindHoliday(ctx context.Context, id uint64) (*entities.Holiday, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *HolidayService) CreateHoliday(ctx context.Context, payload dto.CreateHolidayDTO) (*entities.Holiday, error) {
	date, err := utils.ParseDate(payload.Date)
	if err != nil {
		return nil, err
	}
	if _, err := s.companyRepo.FindCompany(ctx, payload.CompanyID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewBadRequest("Компания %d не найдена", payload.CompanyID)
		}
		return nil, err
	}
	id, err := s.repo.Create(ctx, &entities.Holiday{CompanyID: payload.CompanyID, Date: date, Name: payload.Name})
	if err != nil {
		return nil, asConflict(err, "На %s у компании уже есть праздник", payload.Date)
	}
	s.logger.Info("Добавлен праздник", zap.Uint64("id", id), zap.String("date", payload.Date))
	return s.repo.FindByID(ctx, id)
}

func (s *HolidayService) UpdateHoliday(ctx context.Context, id uint64, payload dto.UpdateHolidayDTO) (*entities.Holiday, error) {
	h, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payload.Date != nil {
		if h.Date, err = utils.ParseDate(*payload.Date); err != nil {
			return nil, err
		}
	}
	if payload.Name != nil {
		h.Name = *payload.Name
	}
	if err := s.repo.Update(ctx, h); err != nil {
		return nil, asConflict(err, "На %s у компании уже есть праздник", utils.FormatDate(h.Date))
	}
	return s.repo.FindByID(ctx, id)
}

func (s *HolidayService) DeleteHoliday(ctx context.Context, id uint64) error {
	return s.repo.Delete(ctx, id)
}
