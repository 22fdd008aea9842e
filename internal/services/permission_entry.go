package services

import (
	"context"
	"time"

	"hr-system/internal/authz"
	"hr-system/internal/calc"
	"hr-system/internal/dto"
	"hr-system/internal/entities"
	"hr-system/internal/repositories"
	"hr-system/pkg/constants"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/types"
	"hr-system/pkg/utils"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PermissionEntryServiceInterface interface {
	GetPermissionEntries(ctx context.Context, filter types.Filter, from, to *time.Time) ([]dto.PermissionEntryDTO, uint64, error)
	FindPermissionEntry(ctx context.Context, id uint64) (*dto.PermissionEntryDTO, error)
	CreatePermissionEntry(ctx context.Context, payload dto.CreatePermissionEntryDTO) (*dto.PermissionEntryDTO, error)
	UpdatePermissionEntry(ctx context.Context, id uint64, payload dto.UpdatePermissionEntryDTO) (*dto.PermissionEntryDTO, error)
	DeletePermissionEntry(ctx context.Context, id uint64) error
}

type PermissionEntryService struct {
	repo    repositories.PermissionEntryRepositoryInterface
	support *EntrySupport
	logger  *zap.Logger
}

func NewPermissionEntryService(repo repositories.PermissionEntryRepositoryInterface, support *EntrySupport, logger *zap.Logger) PermissionEntryServiceInterface {
	return &PermissionEntryService{repo: repo, support: support, logger: logger}
}

func (s *PermissionEntryService) GetPermissionEntries(ctx context.Context, filter types.Filter, from, to *time.Time) ([]dto.PermissionEntryDTO, uint64, error) {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, repositories.EntryListParams{Filter: filter, Scope: authz.ListScope(actor), DateFrom: from, DateTo: to})
}

func (s *PermissionEntryService) FindPermissionEntry(ctx context.Context, id uint64) (*dto.PermissionEntryDTO, error) {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	entry, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if err := canView(actor, entry.EmployeeID, entry.ManagerID, entry.CreatedBy); err != nil {
		return nil, err
	}
	if entry.Approvals, err = s.support.stages(ctx, constants.KindPermission, id); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *PermissionEntryService) CreatePermissionEntry(ctx context.Context, payload dto.CreatePermissionEntryDTO) (*dto.PermissionEntryDTO, error) {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	date, err := utils.ParseDate(payload.Date)
	if err != nil {
		return nil, err
	}

	var id uint64
	err = s.support.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		emp, err := s.support.lockEmployee(ctx, tx, actor, payload.EmployeeID)
		if err != nil {
			return err
		}
		entry := &entities.PermissionEntry{
			EmployeeID: emp.ID,
			Date:       date,
			FromTime:   payload.FromTime,
			ToTime:     payload.ToTime,
			Reason:     payload.Reason,
			Status:     constants.StatusPending,
			CreatedBy:  actor.UserID,
		}
		if err := s.applyRules(ctx, tx, emp, entry); err != nil {
			return err
		}
		if id, err = s.repo.Create(ctx, tx, entry); err != nil {
			return err
		}
		return s.support.createStages(ctx, tx, constants.KindPermission, id)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Создана заявка на отлучку", zap.Uint64("id", id), zap.Uint64("userID", actor.UserID))
	return s.FindPermissionEntry(ctx, id)
}

func (s *PermissionEntryService) UpdatePermissionEntry(ctx context.Context, id uint64, payload dto.UpdatePermissionEntryDTO) (*dto.PermissionEntryDTO, error) {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	err = s.support.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		header, err := s.support.lockForEdit(ctx, tx, actor, constants.KindPermission, id)
		if err != nil {
			return err
		}
		emp, err := s.support.lockOwner(ctx, tx, header.EmployeeID)
		if err != nil {
			return err
		}
		current, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		entry := current.PermissionEntry
		if payload.Date != nil {
			if entry.Date, err = utils.ParseDate(*payload.Date); err != nil {
				return err
			}
		}
		if payload.FromTime != nil {
			entry.FromTime = *payload.FromTime
		}
		if payload.ToTime != nil {
			entry.ToTime = *payload.ToTime
		}
		if payload.Reason != nil {
			entry.Reason = *payload.Reason
		}
		if err := s.applyRules(ctx, tx, emp, &entry); err != nil {
			return err
		}
		return s.repo.Update(ctx, tx, &entry)
	})
	if err != nil {
		return nil, err
	}
	return s.FindPermissionEntry(ctx, id)
}

func (s *PermissionEntryService) DeletePermissionEntry(ctx context.Context, id uint64) error {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return err
	}
	return s.support.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := s.support.lockForEdit(ctx, tx, actor, constants.KindPermission, id); err != nil {
			return err
		}
		return s.repo.Delete(ctx, tx, id)
	})
}

// applyRules считает часы и проверяет дневной и месячный лимиты. Заполняет entry.Hours.
func (s *PermissionEntryService) applyRules(ctx context.Context, tx pgx.Tx, emp *entities.Employee, entry *entities.PermissionEntry) error {
	if err := checkJoiningDate(emp, entry.Date); err != nil {
		return err
	}
	from, err := calc.ParseClock(entry.FromTime)
	if err != nil {
		return calcError(err)
	}
	to, err := calc.ParseClock(entry.ToTime)
	if err != nil {
		return calcError(err)
	}
	hours, err := calc.PermissionHours(from, to)
	if err != nil {
		return calcError(err)
	}
	entry.Hours = hours
	policy := s.support.policy

	sameDay, err := s.repo.ListForDate(ctx, tx, emp.ID, entry.Date, entry.ID)
	if err != nil {
		return err
	}
	dayTotal := hours
	for _, other := range sameDay {
		oFrom, errFrom := calc.ParseClock(other.FromTime)
		oTo, errTo := calc.ParseClock(other.ToTime)
		if errFrom == nil && errTo == nil && calc.ClockRangesOverlap(from, to, oFrom, oTo) {
			return apperrors.NewConflict("Пересекается с отлучкой #%d (%s - %s)", other.ID, other.FromTime, other.ToTime)
		}
		dayTotal += other.Hours
	}
	if dayTotal > policy.MaxPermissionHoursPerDay {
		return apperrors.NewBadRequest("Превышен дневной лимит отлучек: %s из %s",
			utils.FormatHours(dayTotal), utils.FormatHours(policy.MaxPermissionHoursPerDay))
	}

	monthFrom, monthTo := utils.MonthBounds(entry.Date)
	monthUsed, err := s.repo.SumHours(ctx, tx, emp.ID, monthFrom, monthTo, entry.ID)
	if err != nil {
		return err
	}
	if monthUsed+hours > policy.MaxPermissionHoursPerMonth {
		return apperrors.NewBadRequest("Превышен месячный лимит отлучек: использовано %s из %s",
			utils.FormatHours(monthUsed), utils.FormatHours(policy.MaxPermissionHoursPerMonth))
	}
	return nil
}
