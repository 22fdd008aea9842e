package services

import (
	"context"
	"time"

	"hr-system/internal/dto"
	"hr-system/internal/repositories"
	"hr-system/pkg/types"
	"hr-system/pkg/utils"

	"go.uber.org/zap"
)

type BalanceServiceInterface interface {
	LeaveBalance(ctx context.Context, employeeID uint64, year int) (*dto.EmployeeLeaveBalanceDTO, error)
	CompOffBalance(ctx context.Context, employeeID uint64, date time.Time) (*dto.CompOffBalanceDTO, error)
}

type BalanceService struct {
	employeeRepo  repositories.EmployeeRepositoryInterface
	leaveRepo     repositories.LeaveEntryRepositoryInterface
	leaveTypeRepo repositories.LeaveTypeRepositoryInterface
	compOff       compOffLedger
	logger        *zap.Logger
}

func NewBalanceService(
	employeeRepo repositories.EmployeeRepositoryInterface,
	leaveRepo repositories.LeaveEntryRepositoryInterface,
	leaveTypeRepo repositories.LeaveTypeRepositoryInterface,
	compOffRepo repositories.CompOffEntryRepositoryInterface,
	validityDays int,
	logger *zap.Logger,
) BalanceServiceInterface {
	return &BalanceService{
		employeeRepo:  employeeRepo,
		leaveRepo:     leaveRepo,
		leaveTypeRepo: leaveTypeRepo,
		compOff:       compOffLedger{compOffRepo: compOffRepo, leaveRepo: leaveRepo, validityDays: validityDays},
		logger:        logger,
	}
}

func (s *BalanceService) checkAccess(ctx context.Context, employeeID uint64) error {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return err
	}
	emp, err := s.employeeRepo.FindByID(ctx, nil, employeeID)
	if err != nil {
		return err
	}
	return canView(actor, emp.ID, emp.ManagerID(), 0)
}

// LeaveBalance - по каждому типу отпуска за год: квота, одобрено, на согласовании, остаток.
func (s *BalanceService) LeaveBalance(ctx context.Context, employeeID uint64, year int) (*dto.EmployeeLeaveBalanceDTO, error) {
	if err := s.checkAccess(ctx, employeeID); err != nil {
		return nil, err
	}
	leaveTypes, _, err := s.leaveTypeRepo.List(ctx, types.Filter{})
	if err != nil {
		return nil, err
	}
	from, to := utils.YearBounds(year)
	usage, err := s.leaveRepo.UsageByType(ctx, employeeID, from, to)
	if err != nil {
		return nil, err
	}

	result := &dto.EmployeeLeaveBalanceDTO{EmployeeID: employeeID, Year: year, Balances: make([]dto.LeaveBalanceDTO, 0, len(leaveTypes))}
	for _, lt := range leaveTypes {
		if lt.IsCompOff {
			continue
		}
		u := usage[lt.ID]
		b := dto.LeaveBalanceDTO{
			LeaveTypeID: lt.ID,
			Code:        lt.Code,
			Name:        lt.Name,
			Used:        utils.Round2(u.Approved),
			Pending:     utils.Round2(u.Pending),
		}
		if lt.HasQuota() {
			quota := lt.AnnualQuota
			remaining := utils.Round2(quota - u.Approved - u.Pending)
			b.Quota = &quota
			b.Remaining = &remaining
		}
		result.Balances = append(result.Balances, b)
	}
	return result, nil
}

// CompOffBalance - остаток отгулов на дату. Отрицательный остаток показывается как 0.
func (s *BalanceService) CompOffBalance(ctx context.Context, employeeID uint64, date time.Time) (*dto.CompOffBalanceDTO, error) {
	if err := s.checkAccess(ctx, employeeID); err != nil {
		return nil, err
	}
	earned, used, err := s.compOff.balance(ctx, nil, employeeID, date, 0)
	if err != nil {
		return nil, err
	}
	balance := utils.Round2(earned - used)
	if balance < 0 {
		balance = 0
	}
	return &dto.CompOffBalanceDTO{
		EmployeeID:   employeeID,
		Date:         utils.FormatDate(date),
		ValidityDays: s.compOff.validityDays,
		Earned:       utils.Round2(earned),
		Used:         utils.Round2(used),
		Balance:      balance,
	}, nil
}
