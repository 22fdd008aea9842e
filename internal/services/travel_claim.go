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
	"hr-system/pkg/types"
	"hr-system/pkg/utils"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type TravelClaimServiceInterface interface {
	GetTravelClaims(ctx context.Context, filter types.Filter, from, to *time.Time) ([]dto.TravelClaimDTO, uint64, error)
	FindTravelClaim(ctx context.Context, id uint64) (*dto.TravelClaimDTO, error)
	CreateTravelClaim(ctx context.Context, payload dto.CreateTravelClaimDTO) (*dto.TravelClaimDTO, error)
	UpdateTravelClaim(ctx context.Context, id uint64, payload dto.UpdateTravelClaimDTO) (*dto.TravelClaimDTO, error)
	DeleteTravelClaim(ctx context.Context, id uint64) error
}

type TravelClaimService struct {
	repo    repositories.TravelClaimRepositoryInterface
	support *EntrySupport
	logger  *zap.Logger
}

func NewTravelClaimService(repo repositories.TravelClaimRepositoryInterface, support *EntrySupport, logger *zap.Logger) TravelClaimServiceInterface {
	return &TravelClaimService{repo: repo, support: support, logger: logger}
}

func (s *TravelClaimService) GetTravelClaims(ctx context.Context, filter types.Filter, from, to *time.Time) ([]dto.TravelClaimDTO, uint64, error) {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, repositories.EntryListParams{Filter: filter, Scope: authz.ListScope(actor), DateFrom: from, DateTo: to})
}

func (s *TravelClaimService) FindTravelClaim(ctx context.Context, id uint64) (*dto.TravelClaimDTO, error) {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	claim, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if err := canView(actor, claim.EmployeeID, claim.ManagerID, claim.CreatedBy); err != nil {
		return nil, err
	}
	if claim.Approvals, err = s.support.stages(ctx, constants.KindTravel, id); err != nil {
		return nil, err
	}
	return claim, nil
}

func (s *TravelClaimService) CreateTravelClaim(ctx context.Context, payload dto.CreateTravelClaimDTO) (*dto.TravelClaimDTO, error) {
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
		claim := &entities.TravelClaim{
			EmployeeID:   emp.ID,
			FromDate:     from,
			ToDate:       to,
			FromPlace:    payload.FromPlace,
			ToPlace:      payload.ToPlace,
			Purpose:      payload.Purpose,
			TravelAmount: payload.TravelAmount,
			OtherAmount:  payload.OtherAmount,
			Status:       constants.StatusPending,
			CreatedBy:    actor.UserID,
		}
		if err := s.applyTotals(emp, claim); err != nil {
			return err
		}
		if id, err = s.repo.Create(ctx, tx, claim); err != nil {
			return err
		}
		return s.support.createStages(ctx, tx, constants.KindTravel, id)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Создана заявка на командировочные", zap.Uint64("id", id), zap.Uint64("userID", actor.UserID))
	return s.FindTravelClaim(ctx, id)
}

func (s *TravelClaimService) UpdateTravelClaim(ctx context.Context, id uint64, payload dto.UpdateTravelClaimDTO) (*dto.TravelClaimDTO, error) {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	err = s.support.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		header, err := s.support.lockForEdit(ctx, tx, actor, constants.KindTravel, id)
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
		claim := current.TravelClaim
		if payload.FromDate != nil {
			if claim.FromDate, err = utils.ParseDate(*payload.FromDate); err != nil {
				return err
			}
		}
		if payload.ToDate != nil {
			if claim.ToDate, err = utils.ParseDate(*payload.ToDate); err != nil {
				return err
			}
		}
		if payload.FromPlace != nil {
			claim.FromPlace = *payload.FromPlace
		}
		if payload.ToPlace != nil {
			claim.ToPlace = *payload.ToPlace
		}
		if payload.Purpose != nil {
			claim.Purpose = *payload.Purpose
		}
		if payload.TravelAmount != nil {
			claim.TravelAmount = *payload.TravelAmount
		}
		if payload.OtherAmount != nil {
			claim.OtherAmount = *payload.OtherAmount
		}
		if err := s.applyTotals(emp, &claim); err != nil {
			return err
		}
		return s.repo.Update(ctx, tx, &claim)
	})
	if err != nil {
		return nil, err
	}
	return s.FindTravelClaim(ctx, id)
}

func (s *TravelClaimService) DeleteTravelClaim(ctx context.Context, id uint64) error {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return err
	}
	return s.support.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := s.support.lockForEdit(ctx, tx, actor, constants.KindTravel, id); err != nil {
			return err
		}
		return s.repo.Delete(ctx, tx, id)
	})
}

// applyTotals пересчитывает суточные и итог; ставка берётся из политики на момент сохранения.
func (s *TravelClaimService) applyTotals(emp *entities.Employee, claim *entities.TravelClaim) error {
	if err := checkJoiningDate(emp, claim.FromDate); err != nil {
		return err
	}
	totals, err := calc.TravelClaimTotals(claim.FromDate, claim.ToDate, claim.TravelAmount, claim.OtherAmount, s.support.policy.DailyAllowanceRate)
	if err != nil {
		return calcError(err)
	}
	claim.DADays = totals.DADays
	claim.DAAmount = totals.DAAmount
	claim.TotalAmount = totals.TotalAmount
	return nil
}
