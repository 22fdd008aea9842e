package services

import (
	"context"

	"hr-system/internal/dto"
	"hr-system/internal/entities"
	"hr-system/internal/repositories"
	"hr-system/pkg/types"

	"go.uber.org/zap"
)

type LeaveTypeServiceInterface interface {
	GetLeaveTypes(ctx context.Context, filter types.Filter) ([]entities.LeaveType, uint64, error)
	FindLeaveType(ctx context.Context, id uint64) (*entities.LeaveType, error)
	CreateLeaveType(ctx context.Context, payload dto.CreateLeaveTypeDTO) (*entities.LeaveType, error)
	UpdateLeaveType(ctx context.Context, id uint64, payload dto.UpdateLeaveTypeDTO) (*entities.LeaveType, error)
	DeleteLeaveType(ctx context.Context, id uint64) error

	GetSalaryTypes(ctx context.Context, filter types.Filter) ([]entities.SalaryType, uint64, error)
	FindSalaryType(ctx context.Context, id uint64) (*entities.SalaryType, error)
	CreateSalaryType(ctx context.Context, payload dto.CreateSalaryTypeDTO) (*entities.SalaryType, error)
	UpdateSalaryType(ctx context.Context, id uint64, payload dto.UpdateSalaryTypeDTO) (*entities.SalaryType, error)
	DeleteSalaryType(ctx context.Context, id uint64) error
}

type LeaveTypeService struct {
	repo   repositories.LeaveTypeRepositoryInterface
	logger *zap.Logger
}

func NewLeaveTypeService(repo repositories.LeaveTypeRepositoryInterface, logger *zap.Logger) LeaveTypeServiceInterface {
	return &LeaveTypeService{repo: repo, logger: logger}
}

func (s *LeaveTypeService) GetLeaveTypes(ctx context.Context, filter types.Filter) ([]entities.LeaveType, uint64, error) {
	return s.repo.List(ctx, filter)
}

func (s *LeaveTypeService) FindLeaveType(ctx context.Context, id uint64) (*entities.LeaveType, error) {
	return s.repo.FindByID(ctx, nil, id)
}

func (s *LeaveTypeService) CreateLeaveType(ctx context.Context, payload dto.CreateLeaveTypeDTO) (*entities.LeaveType, error) {
	lt := &entities.LeaveType{
		Code:                payload.Code,
		Name:                payload.Name,
		AnnualQuota:         payload.AnnualQuota,
		IsPaid:              payload.IsPaid,
		AllowHalfDay:        payload.AllowHalfDay,
		CountNonWorkingDays: payload.CountNonWorkingDays,
		IsCompOff:           payload.IsCompOff,
	}
	if lt.IsCompOff {
		lt.AnnualQuota = 0
	}
	id, err := s.repo.Create(ctx, lt)
	if err != nil {
		return nil, asConflict(err, "Тип отпуска с кодом '%s' уже существует", payload.Code)
	}
	s.logger.Info("Создан тип отпуска", zap.Uint64("id", id), zap.String("code", lt.Code))
	return s.repo.FindByID(ctx, nil, id)
}

func (s *LeaveTypeService) UpdateLeaveType(ctx context.Context, id uint64, payload dto.UpdateLeaveTypeDTO) (*entities.LeaveType, error) {
	lt, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if payload.Code != nil {
		lt.Code = *payload.Code
	}
	if payload.Name != nil {
		lt.Name = *payload.Name
	}
	if payload.AnnualQuota != nil {
		lt.AnnualQuota = *payload.AnnualQuota
	}
	if payload.IsPaid != nil {
		lt.IsPaid = *payload.IsPaid
	}
	if payload.AllowHalfDay != nil {
		lt.AllowHalfDay = *payload.AllowHalfDay
	}
	if payload.CountNonWorkingDays != nil {
		lt.CountNonWorkingDays = *payload.CountNonWorkingDays
	}
	if payload.IsCompOff != nil {
		lt.IsCompOff = *payload.IsCompOff
	}
	if lt.IsCompOff {
		lt.AnnualQuota = 0
	}
	if err := s.repo.Update(ctx, lt); err != nil {
		return nil, asConflict(err, "Тип отпуска с кодом '%s' уже существует", lt.Code)
	}
	return s.repo.FindByID(ctx, nil, id)
}

func (s *LeaveTypeService) DeleteLeaveType(ctx context.Context, id uint64) error {
	return s.repo.Delete(ctx, id)
}

func (s *LeaveTypeService) GetSalaryTypes(ctx context.Context, filter types.Filter) ([]entities.SalaryType, uint64, error) {
	return s.repo.ListSalaryTypes(ctx, filter)
}

func (s *LeaveTypeService) FindSalaryType(ctx context.Context, id uint64) (*entities.SalaryType, error) {
	return s.repo.FindSalaryType(ctx, id)
}

func (s *LeaveTypeService) CreateSalaryType(ctx context.Context, payload dto.CreateSalaryTypeDTO) (*entities.SalaryType, error) {
	id, err := s.repo.CreateSalaryType(ctx, &entities.SalaryType{Code: payload.Code, Name: payload.Name})
	if err != nil {
		return nil, asConflict(err, "Тип оплаты с кодом '%s' уже существует", payload.Code)
	}
	return s.repo.FindSalaryType(ctx, id)
}

func (s *LeaveTypeService) UpdateSalaryType(ctx context.Context, id uint64, payload dto.UpdateSalaryTypeDTO) (*entities.SalaryType, error) {
	st, err := s.repo.FindSalaryType(ctx, id)
	if err != nil {
		return nil, err
	}
	if payload.Code != nil {
		st.Code = *payload.Code
	}
	if payload.Name != nil {
		st.Name = *payload.Name
	}
	if err := s.repo.UpdateSalaryType(ctx, st); err != nil {
		return nil, asConflict(err, "Тип оплаты с кодом '%s' уже существует", st.Code)
	}
	return s.repo.FindSalaryType(ctx, id)
}

func (s *LeaveTypeService) DeleteSalaryType(ctx context.Context, id uint64) error {
	return s.repo.DeleteSalaryType(ctx, id)
}
