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

type CompOffEntryServiceInterface interface {
	GetCompOffEntries(ctx context.Context, filter types.Filter, from, to *time.Time) ([]dto.CompOffEntryDTO, uint64, error)
	FindCompOffEntry(ctx context.Context, id uint64) (*dto.CompOffEntryDTO, error)
	CreateCompOffEntry(ctx context.Context, payload dto.CreateCompOffEntryDTO) (*dto.CompOffEntryDTO, error)
	UpdateCompOffEntry(ctx context.Context, id uint64, payload dto.UpdateCompOffEntryDTO) (*dto.CompOffEntryDTO, error)
	DeleteCompOffEntry(ctx context.Context, id uint64) error
}

type CompOffEntryService struct {
	repo    repositories.CompOffEntryRepositoryInterface
	support *EntrySupport
	now     func() time.Time
	logger  *zap.Logger
}

func NewCompOffEntryService(repo repositories.CompOffEntryRepositoryInterface, support *EntrySupport, logger *zap.Logger) CompOffEntryServiceInterface {
	return &CompOffEntryService{repo: repo, support: support, now: utils.Today, logger: logger}
}

func (s *CompOffEntryService) GetCompOffEntries(ctx context.Context, filter types.Filter, from, to *time.Time) ([]dto.CompOffEntryDTO, uint64, error) {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, repositories.EntryListParams{Filter: filter, Scope: authz.ListScope(actor), DateFrom: from, DateTo: to})
}

func (s *CompOffEntryService) FindCompOffEntry(ctx context.Context, id uint64) (*dto.CompOffEntryDTO, error) {
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
	if entry.Approvals, err = s.support.stages(ctx, constants.KindCompOff, id); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *CompOffEntryService) CreateCompOffEntry(ctx context.Context, payload dto.CreateCompOffEntryDTO) (*dto.CompOffEntryDTO, error) {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	worked, err := utils.ParseDate(payload.WorkedDate)
	if err != nil {
		return nil, err
	}

	var id uint64
	err = s.support.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		emp, err := s.support.lockEmployee(ctx, tx, actor, payload.EmployeeID)
		if err != nil {
			return err
		}
		entry := &entities.CompOffEntry{
			EmployeeID: emp.ID,
			WorkedDate: worked,
			Duration:   constants.CompOffDuration(payload.Duration),
			Reason:     payload.Reason,
			Status:     constants.StatusPending,
			CreatedBy:  actor.UserID,
		}
		if err := s.applyRules(ctx, tx, emp, entry); err != nil {
			return err
		}
		if id, err = s.repo.Create(ctx, tx, entry); err != nil {
			return asConflict(err, "На %s уже есть заявка на отгул", payload.WorkedDate)
		}
		return s.support.createStages(ctx, tx, constants.KindCompOff, id)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Создана заявка на отгул", zap.Uint64("id", id), zap.Uint64("userID", actor.UserID))
	return s.FindCompOffEntry(ctx, id)
}

func (s *CompOffEntryService) UpdateCompOffEntry(ctx context.Context, id uint64, payload dto.UpdateCompOffEntryDTO) (*dto.CompOffEntryDTO, error) {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	err = s.support.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		header, err := s.support.lockForEdit(ctx, tx, actor, constants.KindCompOff, id)
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
		entry := current.CompOffEntry
		if payload.WorkedDate != nil {
			if entry.WorkedDate, err = utils.ParseDate(*payload.WorkedDate); err != nil {
				return err
			}
		}
		if payload.Duration != nil {
			entry.Duration = constants.CompOffDuration(*payload.Duration)
		}
		if payload.Reason != nil {
			entry.Reason = *payload.Reason
		}
		if err := s.applyRules(ctx, tx, emp, &entry); err != nil {
			return err
		}
		return asConflict(s.repo.Update(ctx, tx, &entry), "На %s уже есть заявка на отгул", utils.FormatDate(entry.WorkedDate))
	})
	if err != nil {
		return nil, err
	}
	return s.FindCompOffEntry(ctx, id)
}

func (s *CompOffEntryService) DeleteCompOffEntry(ctx context.Context, id uint64) error {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return err
	}
	return s.support.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := s.support.lockForEdit(ctx, tx, actor, constants.KindCompOff, id); err != nil {
			return err
		}
		return s.repo.Delete(ctx, tx, id)
	})
}

// applyRules: дата в прошлом, нерабочий день, одна заявка на дату. Заполняет entry.Days.
func (s *CompOffEntryService) applyRules(ctx context.Context, tx pgx.Tx, emp *entities.Employee, entry *entities.CompOffEntry) error {
	if entry.WorkedDate.After(s.now()) {
		return apperrors.NewBadRequest("Отгул можно заявить только за уже отработанный день")
	}
	if err := checkJoiningDate(emp, entry.WorkedDate); err != nil {
		return err
	}
	cal, err := s.support.calendar(ctx, tx, emp, entry.WorkedDate, entry.WorkedDate)
	if err != nil {
		return err
	}
	if !cal.IsNonWorking(entry.WorkedDate) {
		return apperrors.NewBadRequest("%s - рабочий день, отгул за него не положен", utils.FormatDate(entry.WorkedDate))
	}
	exists, err := s.repo.ExistsForDate(ctx, tx, emp.ID, entry.WorkedDate, entry.ID)
	if err != nil {
		return err
	}
	if exists {
		return apperrors.NewConflict("На %s уже есть заявка на отгул", utils.FormatDate(entry.WorkedDate))
	}
	days, err := calc.CompOffDays(entry.Duration)
	if err != nil {
		return calcError(err)
	}
	entry.Days = days
	return nil
}
