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

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type SiteEntryServiceInterface interface {
	GetSiteEntries(ctx context.Context, filter types.Filter, from, to *time.Time) ([]dto.SiteEntryDTO, uint64, error)
	FindSiteEntry(ctx context.Context, id uint64) (*dto.SiteEntryDTO, error)
	CreateSiteEntry(ctx context.Context, payload dto.CreateSiteEntryDTO) (*dto.SiteEntryDTO, error)
	UpdateSiteEntry(ctx context.Context, id uint64, payload dto.UpdateSiteEntryDTO) (*dto.SiteEntryDTO, error)
	DeleteSiteEntry(ctx context.Context, id uint64) error
}

// SiteEntryService - отметки о работе на площадке. Согласования нет: запись сразу APPROVED.
type SiteEntryService struct {
	repo        repositories.SiteEntryRepositoryInterface
	companyRepo repositories.CompanyRepositoryInterface
	shiftRepo   repositories.ShiftRepositoryInterface
	support     *EntrySupport
	logger      *zap.Logger
}

func NewSiteEntryService(
	repo repositories.SiteEntryRepositoryInterface,
	companyRepo repositories.CompanyRepositoryInterface,
	shiftRepo repositories.ShiftRepositoryInterface,
	support *EntrySupport,
	logger *zap.Logger,
) SiteEntryServiceInterface {
	return &SiteEntryService{repo: repo, companyRepo: companyRepo, shiftRepo: shiftRepo, support: support, logger: logger}
}

func (s *SiteEntryService) GetSiteEntries(ctx context.Context, filter types.Filter, from, to *time.Time) ([]dto.SiteEntryDTO, uint64, error) {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, repositories.EntryListParams{Filter: filter, Scope: authz.ListScope(actor), DateFrom: from, DateTo: to})
}

func (s *SiteEntryService) FindSiteEntry(ctx context.Context, id uint64) (*dto.SiteEntryDTO, error) {
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
	return entry, nil
}

func (s *SiteEntryService) CreateSiteEntry(ctx context.Context, payload dto.CreateSiteEntryDTO) (*dto.SiteEntryDTO, error) {
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
		entry := &entities.SiteEntry{
			EmployeeID: emp.ID,
			SiteID:     payload.SiteID,
			Date:       date,
			ShiftID:    utils.NullUint64(payload.ShiftID),
			InTime:     payload.InTime,
			OutTime:    utils.NullStringFromPtr(payload.OutTime),
			Remarks:    utils.NullStringFromPtr(payload.Remarks),
			Status:     constants.StatusApproved,
			CreatedBy:  actor.UserID,
		}
		if err := s.applyRules(ctx, tx, emp, entry); err != nil {
			return err
		}
		id, err = s.repo.Create(ctx, tx, entry)
		return asConflict(err, "На %s уже есть отметка по этой площадке", payload.Date)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Создана отметка на площадке", zap.Uint64("id", id), zap.Uint64("siteID", payload.SiteID))
	return s.FindSiteEntry(ctx, id)
}

func (s *SiteEntryService) UpdateSiteEntry(ctx context.Context, id uint64, payload dto.UpdateSiteEntryDTO) (*dto.SiteEntryDTO, error) {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	err = s.support.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.lockForEdit(ctx, tx, actor, id)
		if err != nil {
			return err
		}
		emp, err := s.support.lockOwner(ctx, tx, current.EmployeeID)
		if err != nil {
			return err
		}
		entry := current.SiteEntry
		if payload.SiteID != nil {
			entry.SiteID = *payload.SiteID
		}
		if payload.Date != nil {
			if entry.Date, err = utils.ParseDate(*payload.Date); err != nil {
				return err
			}
		}
		if payload.ShiftID != nil {
			if *payload.ShiftID == 0 {
				entry.ShiftID = null.Int64{}
			} else {
				entry.ShiftID = null.Int64From(int64(*payload.ShiftID))
			}
		}
		if payload.InTime != nil {
			entry.InTime = *payload.InTime
		}
		if payload.OutTime != nil {
			entry.OutTime = null.NewString(*payload.OutTime, *payload.OutTime != "")
		}
		if payload.Remarks != nil {
			entry.Remarks = null.NewString(*payload.Remarks, *payload.Remarks != "")
		}
		if err := s.applyRules(ctx, tx, emp, &entry); err != nil {
			return err
		}
		return asConflict(s.repo.Update(ctx, tx, &entry), "На %s уже есть отметка по этой площадке", utils.FormatDate(entry.Date))
	})
	if err != nil {
		return nil, err
	}
	return s.FindSiteEntry(ctx, id)
}

func (s *SiteEntryService) DeleteSiteEntry(ctx context.Context, id uint64) error {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return err
	}
	return s.support.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := s.lockForEdit(ctx, tx, actor, id); err != nil {
			return err
		}
		return s.repo.Delete(ctx, tx, id)
	})
}

func (s *SiteEntryService) lockForEdit(ctx context.Context, tx pgx.Tx, actor authz.Context, id uint64) (*dto.SiteEntryDTO, error) {
	current, err := s.repo.LockByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	owner := authz.Owner{EmployeeID: current.EmployeeID, ManagerID: current.ManagerID, CreatedBy: current.CreatedBy}
	if !authz.CanEditEntry(actor, owner) {
		return nil, apperrors.ErrForbidden
	}
	return current, nil
}

// applyRules проверяет площадку и смену и считает отработанные часы.
func (s *SiteEntryService) applyRules(ctx context.Context, tx pgx.Tx, emp *entities.Employee, entry *entities.SiteEntry) error {
	if err := checkJoiningDate(emp, entry.Date); err != nil {
		return err
	}
	site, err := s.companyRepo.FindSite(ctx, entry.SiteID)
	if err != nil {
		return notFoundAsBadRequest(err, "Площадка %d не найдена", entry.SiteID)
	}
	if site.CompanyID != emp.CompanyID {
		return apperrors.NewBadRequest("Площадка %s не относится к компании сотрудника", site.Code)
	}
	if !site.IsActive {
		return apperrors.NewBadRequest("Площадка %s неактивна", site.Code)
	}

	breakMinutes := 0
	if entry.ShiftID.Valid {
		shift, err := s.shiftRepo.FindByID(ctx, tx, uint64(entry.ShiftID.Int64))
		if err != nil {
			return notFoundAsBadRequest(err, "Смена %d не найдена", entry.ShiftID.Int64)
		}
		breakMinutes = shift.BreakMinutes
	}

	in, err := calc.ParseClock(entry.InTime)
	if err != nil {
		return calcError(err)
	}
	entry.Hours = null.Float64{}
	if entry.OutTime.Valid {
		out, err := calc.ParseClock(entry.OutTime.String)
		if err != nil {
			return calcError(err)
		}
		entry.Hours = null.Float64From(calc.WorkedHours(in, out, breakMinutes))
	}
	return nil
}
