package services

import (
	"context"

	"hr-system/internal/dto"
	"hr-system/internal/entities"
	"hr-system/internal/repositories"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/types"

	"go.uber.org/zap"
)

type ShiftServiceInterface interface {
	GetShifts(ctx context.Context, filter types.Filter) ([]entities.Shift, uint64, error)
	FindShift(ctx context.Context, id uint64) (*entities.Shift, error)
	CreateShift(ctx context.Context, payload dto.CreateShiftDTO) (*entities.Shift, error)
	UpdateShift(ctx context.Context, id uint64, payload dto.UpdateShiftDTO) (*entities.Shift, error)
	DeleteShift(ctx context.Context, id uint64) error
}

type ShiftService struct {
	repo   repositories.ShiftRepositoryInterface
	logger *zap.Logger
}

func NewShiftService(repo repositories.ShiftRepositoryInterface, logger *zap.Logger) ShiftServiceInterface {
	return &ShiftService{repo: repo, logger: logger}
}

func (s *ShiftService) GetShifts(ctx context.Context, filter types.Filter) ([]entities.Shift, uint64, error) {
	return s.repo.List(ctx, filter)
}

func (s *ShiftService) FindShift(ctx context.Context, id uint64) (*entities.Shift, error) {
	return s.repo.FindByID(ctx, nil, id)
}

func (s *ShiftService) CreateShift(ctx context.Context, payload dto.CreateShiftDTO) (*entities.Shift, error) {
	shift := &entities.Shift{
		Code:         payload.Code,
		Name:         payload.Name,
		StartTime:    payload.StartTime,
		EndTime:      payload.EndTime,
		BreakMinutes: payload.BreakMinutes,
		IsActive:     true,
	}
	id, err := s.repo.Create(ctx, shift)
	if err != nil {
		return nil, asConflict(err, "Смена с кодом '%s' уже существует", payload.Code)
	}
	s.logger.Info("Создана смена", zap.Uint64("id", id), zap.String("code", shift.Code))
	return s.repo.FindByID(ctx, nil, id)
}

func (s *ShiftService) UpdateShift(ctx context.Context, id uint64, payload dto.UpdateShiftDTO) (*entities.Shift, error) {
	shift, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if payload.Code != nil {
		shift.Code = *payload.Code
	}
	if payload.Name != nil {
		shift.Name = *payload.Name
	}
	if payload.StartTime != nil {
		shift.StartTime = *payload.StartTime
	}
	if payload.EndTime != nil {
		shift.EndTime = *payload.EndTime
	}
	if payload.BreakMinutes != nil {
		shift.BreakMinutes = *payload.BreakMinutes
	}
	if payload.IsActive != nil {
		shift.IsActive = *payload.IsActive
	}
	if shift.StartTime == shift.EndTime {
		return nil, apperrors.NewBadRequest("Начало и конец смены совпадают")
	}
	if err := s.repo.Update(ctx, shift); err != nil {
		return nil, asConflict(err, "Смена с кодом '%s' уже существует", shift.Code)
	}
	return s.repo.FindByID(ctx, nil, id)
}

func (s *ShiftService) DeleteShift(ctx context.Context, id uint64) error {
	return s.repo.Delete(ctx, id)
}
