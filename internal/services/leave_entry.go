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

type LeaveEntryServiceInterface interface {
	GetLeaveEntries(ctx context.Context, filter types.Filter, from, to *time.Time) ([]dto.LeaveEntryDTO, uint64, error)
	FindLeaveEntry(ctx context.Context, id uint64) (*dto.LeaveEntryDTO, error)
	CreateLeaveEntry(ctx context.Context, payload dto.CreateLeaveEntryDTO) (*dto.LeaveEntryDTO, error)
	UpdateLeaveEntry(ctx context.Context, id uint64, payload dto.UpdateLeaveEntryDTO) (*dto.LeaveEntryDTO, error)
	DeleteLeaveEntry(ctx context.Context, id uint64) error
}

type LeaveEntryService struct {
	repo          repositories.LeaveEntryRepositoryInterface
	leaveTypeRepo repositories.LeaveTypeRepositoryInterface
	support       *EntrySupport
	compOff       compOffLedger
	logger        *zap.Logger
}

func NewLeaveEntryService(
	repo repositories.LeaveEntryRepositoryInterface,
	leaveTypeRepo repositories.LeaveTypeRepositoryInterface,
	compOffRepo repositories.CompOffEntryRepositoryInterface,
	support *EntrySupport,
	logger *zap.Logger,
) LeaveEntryServiceInterface {
	return &LeaveEntryService{
		repo:          repo,
		leaveTypeRepo: leaveTypeRepo,
		support:       support,
		compOff:       compOffLedger{compOffRepo: compOffRepo, leaveRepo: repo, validityDays: support.policy.CompOffValidityDays},
		logger:        logger,
	}
}

func (s *LeaveEntryService) GetLeaveEntries(ctx context.Context, filter types.Filter, from, to *time.Time) ([]dto.LeaveEntryDTO, uint64, error) {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, repositories.EntryListParams{Filter: filter, Scope: authz.ListScope(actor), DateFrom: from, DateTo: to})
}

func (s *LeaveEntryService) FindLeaveEntry(ctx context.Context, id uint64) (*dto.LeaveEntryDTO, error) {
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
	if entry.Approvals, err = s.support.stages(ctx, constants.KindLeave, id); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *LeaveEntryService) CreateLeaveEntry(ctx context.Context, payload dto.CreateLeaveEntryDTO) (*dto.LeaveEntryDTO, error) {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	from, err := utils.ParseDate(payload.FromDate)
	if err != nil {
		return nil, err
	}
	to, err := utils.ParseDate(payload.ToDate)
	if err != nil {
		return nil, err
	}

	var id uint64
	err = s.support.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		emp, err := s.support.lockEmployee(ctx, tx, actor, payload.EmployeeID)
		if err != nil {
			return err
		}
		entry := &entities.LeaveEntry{
			EmployeeID:   emp.ID,
			LeaveTypeID:  payload.LeaveTypeID,
			FromDate:     from,
			ToDate:       to,
			DurationType: constants.DurationType(payload.DurationType),
			Reason:       payload.Reason,
			Status:       constants.StatusPending,
			CreatedBy:    actor.UserID,
		}
		if err := s.applyRules(ctx, tx, emp, entry); err != nil {
			return err
		}
		if id, err = s.repo.Create(ctx, tx, entry); err != nil {
			return err
		}
		return s.support.createStages(ctx, tx, constants.KindLeave, id)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Создана заявка на отпуск", zap.Uint64("id", id), zap.Uint64("userID", actor.UserID))
	return s.FindLeaveEntry(ctx, id)
}

func (s *LeaveEntryService) UpdateLeaveEntry(ctx context.Context, id uint64, payload dto.UpdateLeaveEntryDTO) (*dto.LeaveEntryDTO, error) {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	err = s.support.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		header, err := s.support.lockForEdit(ctx, tx, actor, constants.KindLeave, id)
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
		entry := current.LeaveEntry
		if payload.LeaveTypeID != nil {
			entry.LeaveTypeID = *payload.LeaveTypeID
		}
		if payload.FromDate != nil {
			if entry.FromDate, err = utils.ParseDate(*payload.FromDate); err != nil {
				return err
			}
		}
		if payload.ToDate != nil {
			if entry.ToDate, err = utils.ParseDate(*payload.ToDate); err != nil {
				return err
			}
		}
		if payload.DurationType != nil {
			entry.DurationType = constants.DurationType(*payload.DurationType)
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
	return s.FindLeaveEntry(ctx, id)
}

func (s *LeaveEntryService) DeleteLeaveEntry(ctx context.Context, id uint64) error {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return err
	}
	err = s.support.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := s.support.lockForEdit(ctx, tx, actor, constants.KindLeave, id); err != nil {
			return err
		}
		return s.repo.Delete(ctx, tx, id)
	})
	if err != nil {
		return err
	}
	s.logger.Info("Заявка на отпуск удалена", zap.Uint64("id", id), zap.Uint64("userID", actor.UserID))
	return nil
}

// applyRules считает дни и проверяет правила отпуска. Заполняет entry.Days.
func (s *LeaveEntryService) applyRules(ctx context.Context, tx pgx.Tx, emp *entities.Employee, entry *entities.LeaveEntry) error {
	lt, err := s.leaveTypeRepo.FindByID(ctx, tx, entry.LeaveTypeID)
	if err != nil {
		return notFoundAsBadRequest(err, "Тип отпуска %d не найден", entry.LeaveTypeID)
	}
	if entry.DurationType.IsHalfDay() && !lt.AllowHalfDay {
		return apperrors.NewBadRequest("Тип отпуска '%s' не допускает полдня", lt.Name)
	}
	if err := checkJoiningDate(emp, entry.FromDate); err != nil {
		return err
	}

	cal, err := s.support.calendar(ctx, tx, emp, entry.FromDate, entry.ToDate)
	if err != nil {
		return err
	}
	days, err := calc.LeaveDays(entry.FromDate, entry.ToDate, entry.DurationType, cal.IsNonWorking, lt.CountNonWorkingDays)
	if err != nil {
		return calcError(err)
	}
	entry.Days = days

	overlapping, err := s.repo.FindOverlapping(ctx, tx, emp.ID, entry.FromDate, entry.ToDate, entry.ID)
	if err != nil {
		return err
	}
	for _, other := range overlapping {
		if calc.HalfDaysClash(entry.DurationType, other.DurationType) {
			return apperrors.NewConflict("Пересекается с заявкой на отпуск #%d (%s - %s)",
				other.ID, utils.FormatDate(other.FromDate), utils.FormatDate(other.ToDate))
		}
	}

	if lt.HasQuota() {
		yearFrom, yearTo := utils.YearBounds(entry.FromDate.Year())
		used, err := s.repo.SumDaysByType(ctx, tx, emp.ID, lt.ID, yearFrom, yearTo, entry.ID)
		if err != nil {
			return err
		}
		if used+days > lt.AnnualQuota {
			return apperrors.NewBadRequest("Превышен годовой лимит '%s': использовано %.1f из %.1f, запрошено %.1f",
				lt.Name, used, lt.AnnualQuota, days).
				WithDetails(map[string]float64{"quota": lt.AnnualQuota, "used": used, "requested": days})
		}
	}

	if lt.IsCompOff {
		earned, used, err := s.compOff.balance(ctx, tx, emp.ID, entry.FromDate, entry.ID)
		if err != nil {
			return err
		}
		if available := earned - used; days > available {
			if available < 0 {
				available = 0
			}
			return apperrors.NewBadRequest("Недостаточно отгулов: доступно %.1f, запрошено %.1f", available, days)
		}
	}
	return nil
}
