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

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"
)

type EmployeeServiceInterface interface {
	GetEmployees(ctx context.Context, filter types.Filter) ([]entities.Employee, uint64, error)
	FindEmployee(ctx context.Context, id uint64) (*entities.Employee, error)
	GetSubordinates(ctx context.Context, managerID uint64) ([]entities.Employee, error)
	CreateEmployee(ctx context.Context, payload dto.CreateEmployeeDTO) (*entities.Employee, error)
	UpdateEmployee(ctx context.Context, id uint64, payload dto.UpdateEmployeeDTO) (*entities.Employee, error)
	DeleteEmployee(ctx context.Context, id uint64) error
	// UpsertByCode - для импорта: создаёт или обновляет сотрудника по табельному коду.
	UpsertByCode(ctx context.Context, e *entities.Employee) (created bool, err error)
}

type EmployeeService struct {
	repo          repositories.EmployeeRepositoryInterface
	companyRepo   repositories.CompanyRepositoryInterface
	shiftRepo     repositories.ShiftRepositoryInterface
	leaveTypeRepo repositories.LeaveTypeRepositoryInterface
	logger        *zap.Logger
}

func NewEmployeeService(
	repo repositories.EmployeeRepositoryInterface,
	companyRepo repositories.CompanyRepositoryInterface,
	shiftRepo repositories.ShiftRepositoryInterface,
	leaveTypeRepo repositories.LeaveTypeRepositoryInterface,
	logger *zap.Logger,
) EmployeeServiceInterface {
	return &EmployeeService{
		repo:          repo,
		companyRepo:   companyRepo,
		shiftRepo:     shiftRepo,
		leaveTypeRepo: leaveTypeRepo,
		logger:        logger,
	}
}

func (s *EmployeeService) GetEmployees(ctx context.Context, filter types.Filter) ([]entities.Employee, uint64, error) {
	return s.repo.List(ctx, filter)
}

func (s *EmployeeService) FindEmployee(ctx context.Context, id uint64) (*entities.Employee, error) {
	return s.repo.FindByID(ctx, nil, id)
}

func (s *EmployeeService) GetSubordinates(ctx context.Context, managerID uint64) ([]entities.Employee, error) {
	if _, err := s.repo.FindByID(ctx, nil, managerID); err != nil {
		return nil, err
	}
	return s.repo.Subordinates(ctx, managerID)
}

func (s *EmployeeService) CreateEmployee(ctx context.Context, payload dto.CreateEmployeeDTO) (*entities.Employee, error) {
	doj, err := utils.ParseDate(payload.DateOfJoining)
	if err != nil {
		return nil, err
	}
	e := &entities.Employee{
		Code:               payload.Code,
		FullName:           payload.FullName,
		Email:              utils.NullStringFromPtr(payload.Email),
		Phone:              utils.NullStringFromPtr(payload.Phone),
		CompanyID:          payload.CompanyID,
		SiteID:             utils.NullUint64(payload.SiteID),
		ShiftID:            utils.NullUint64(payload.ShiftID),
		SalaryTypeID:       utils.NullUint64(payload.SalaryTypeID),
		ReportingManagerID: utils.NullUint64(payload.ReportingManagerID),
		DateOfJoining:      doj,
		IsActive:           true,
	}
	if err := s.validateLinks(ctx, e); err != nil {
		return nil, err
	}
	id, err := s.repo.Create(ctx, nil, e)
	if err != nil {
		return nil, asConflict(err, "Сотрудник с кодом '%s' уже существует", payload.Code)
	}
	s.logger.Info("Создан сотрудник", zap.Uint64("id", id), zap.String("code", e.Code))
	return s.repo.FindByID(ctx, nil, id)
}

func (s *EmployeeService) UpdateEmployee(ctx context.Context, id uint64, payload dto.UpdateEmployeeDTO) (*entities.Employee, error) {
	e, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if payload.Code != nil {
		e.Code = *payload.Code
	}
	if payload.FullName != nil {
		e.FullName = *payload.FullName
	}
	if payload.Email != nil {
		e.Email = utils.NullStringFromPtr(payload.Email)
	}
	if payload.Phone != nil {
		e.Phone = utils.NullStringFromPtr(payload.Phone)
	}
	if payload.CompanyID != nil {
		e.CompanyID = *payload.CompanyID
	}
	applyRef(&e.SiteID, payload.SiteID)
	applyRef(&e.ShiftID, payload.ShiftID)
	applyRef(&e.SalaryTypeID, payload.SalaryTypeID)
	applyRef(&e.ReportingManagerID, payload.ReportingManagerID)
	if payload.DateOfJoining != nil {
		if e.DateOfJoining, err = utils.ParseDate(*payload.DateOfJoining); err != nil {
			return nil, err
		}
	}
	if payload.IsActive != nil {
		e.IsActive = *payload.IsActive
	}

	if err := s.validateLinks(ctx, e); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, nil, e); err != nil {
		return nil, asConflict(err, "Сотрудник с кодом '%s' уже существует", e.Code)
	}
	s.logger.Info("Сотрудник обновлён", zap.Uint64("id", id))
	return s.repo.FindByID(ctx, nil, id)
}

func (s *EmployeeService) DeleteEmployee(ctx context.Context, id uint64) error {
	return s.repo.Delete(ctx, id)
}

func (s *EmployeeService) UpsertByCode(ctx context.Context, e *entities.Employee) (bool, error) {
	existing, err := s.repo.FindByCode(ctx, nil, e.Code)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return false, err
	}
	if existing != nil {
		e.ID = existing.ID
		e.IsActive = existing.IsActive
	}
	if err := s.validateLinks(ctx, e); err != nil {
		return false, err
	}
	if existing != nil {
		return false, s.repo.Update(ctx, nil, e)
	}
	e.IsActive = true
	id, err := s.repo.Create(ctx, nil, e)
	if err != nil {
		return false, err
	}
	e.ID = id
	return true, nil
}

// applyRef: nil - без изменений, 0 - сброс ссылки.
func applyRef(dst *null.Int64, v *uint64) {
	if v != nil {
		*dst = utils.NullUint64(v)
	}
}

// validateLinks проверяет ссылки сотрудника на справочники и руководителя.
func (s *EmployeeService) validateLinks(ctx context.Context, e *entities.Employee) error {
	if _, err := s.companyRepo.FindCompany(ctx, e.CompanyID); err != nil {
		return notFoundAsBadRequest(err, "Компания %d не найдена", e.CompanyID)
	}
	if e.SiteID.Valid {
		site, err := s.companyRepo.FindSite(ctx, uint64(e.SiteID.Int64))
		if err != nil {
			return notFoundAsBadRequest(err, "Площадка %d не найдена", e.SiteID.Int64)
		}
		if site.CompanyID != e.CompanyID {
			return apperrors.NewBadRequest("Площадка %s принадлежит другой компании", site.Code)
		}
	}
	if e.ShiftID.Valid {
		if _, err := s.shiftRepo.FindByID(ctx, nil, uint64(e.ShiftID.Int64)); err != nil {
			return notFoundAsBadRequest(err, "Смена %d не найдена", e.ShiftID.Int64)
		}
	}
	if e.SalaryTypeID.Valid {
		if _, err := s.leaveTypeRepo.FindSalaryType(ctx, uint64(e.SalaryTypeID.Int64)); err != nil {
			return notFoundAsBadRequest(err, "Тип оплаты %d не найден", e.SalaryTypeID.Int64)
		}
	}
	return s.validateManager(ctx, e)
}

func (s *EmployeeService) validateManager(ctx context.Context, e *entities.Employee) error {
	managerID := e.ManagerID()
	if managerID == 0 {
		return nil
	}
	if e.ID != 0 && managerID == e.ID {
		return apperrors.NewBadRequest("Сотрудник не может быть руководителем сам себе")
	}
	if _, err := s.repo.FindByID(ctx, nil, managerID); err != nil {
		return notFoundAsBadRequest(err, "Руководитель %d не найден", managerID)
	}
	if e.ID == 0 {
		return nil
	}
	cycle, err := s.repo.IsInManagerChain(ctx, managerID, e.ID)
	if err != nil {
		return err
	}
	if cycle {
		return apperrors.NewBadRequest("Назначение руководителя образует цикл подчинения")
	}
	return nil
}
