package services

import (
	"context"
	"errors"
	"time"

	"hr-system/config"
	"hr-system/internal/authz"
	"hr-system/internal/calc"
	"hr-system/internal/entities"
	"hr-system/internal/repositories"
	pkgconfig "hr-system/pkg/config"
	"hr-system/pkg/constants"
	apperrors "hr-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// EntrySupport - общее для сервисов заявок: сотрудник, календарь, этапы согласования.
type EntrySupport struct {
	txManager    repositories.TxManagerInterface
	employeeRepo repositories.EmployeeRepositoryInterface
	holidayRepo  repositories.HolidayRepositoryInterface
	approvalRepo repositories.ApprovalRepositoryInterface
	workflow     *config.Workflow
	policy       pkgconfig.PolicyConfig
	logger       *zap.Logger
}

func NewEntrySupport(
	txManager repositories.TxManagerInterface,
	employeeRepo repositories.EmployeeRepositoryInterface,
	holidayRepo repositories.HolidayRepositoryInterface,
	approvalRepo repositories.ApprovalRepositoryInterface,
	workflow *config.Workflow,
	policy pkgconfig.PolicyConfig,
	logger *zap.Logger,
) *EntrySupport {
	return &EntrySupport{
		txManager:    txManager,
		employeeRepo: employeeRepo,
		holidayRepo:  holidayRepo,
		approvalRepo: approvalRepo,
		workflow:     workflow,
		policy:       policy,
		logger:       logger,
	}
}

// lockEmployee определяет, за кого подаётся заявка, проверяет право и блокирует
// строку сотрудника до конца транзакции: проверки правил по одному сотруднику идут по очереди.
func (s *EntrySupport) lockEmployee(ctx context.Context, tx pgx.Tx, actor authz.Context, requested *uint64) (*entities.Employee, error) {
	employeeID := actor.EmployeeID
	if requested != nil && *requested != 0 {
		employeeID = *requested
	}
	if employeeID == 0 {
		return nil, apperrors.ErrNoEmployeeProfile
	}
	if !authz.CanCreateEntryFor(actor, employeeID) {
		return nil, apperrors.NewForbidden("Нет права подавать заявки за сотрудника %d", employeeID)
	}
	return s.lockOwner(ctx, tx, employeeID)
}

// lockOwner блокирует сотрудника заявки. Заявки неактивного сотрудника не создаются и не меняются.
func (s *EntrySupport) lockOwner(ctx context.Context, tx pgx.Tx, employeeID uint64) (*entities.Employee, error) {
	emp, err := s.employeeRepo.LockByID(ctx, tx, employeeID)
	if err != nil {
		return nil, notFoundAsBadRequest(err, "Сотрудник %d не найден", employeeID)
	}
	if !emp.IsActive {
		return nil, apperrors.NewBadRequest("Сотрудник %s неактивен", emp.Code)
	}
	return emp, nil
}

// calendar - праздники компании сотрудника и еженедельные выходные за период.
func (s *EntrySupport) calendar(ctx context.Context, tx pgx.Tx, emp *entities.Employee, from, to time.Time) (calc.Calendar, error) {
	holidays, err := s.holidayRepo.DatesBetween(ctx, tx, emp.CompanyID, from, to)
	if err != nil {
		return calc.Calendar{}, err
	}
	return calc.NewCalendar(holidays, s.policy.WeeklyOff), nil
}

func checkJoiningDate(emp *entities.Employee, date time.Time) error {
	if calc.DateOnly(date).Before(calc.DateOnly(emp.DateOfJoining)) {
		return apperrors.NewBadRequest("Дата раньше даты приёма сотрудника на работу")
	}
	return nil
}

// createStages создаёт ожидающие этапы по маршруту вида.
func (s *EntrySupport) createStages(ctx context.Context, tx pgx.Tx, kind constants.EntryKind, entryID uint64) error {
	stages := s.workflow.Stages(kind)
	names := make([]string, 0, len(stages))
	for _, st := range stages {
		names = append(names, st.Name)
	}
	return s.approvalRepo.CreateStages(ctx, tx, kind, entryID, names)
}

// lockForEdit блокирует запись и проверяет, что её ещё можно менять.
func (s *EntrySupport) lockForEdit(ctx context.Context, tx pgx.Tx, actor authz.Context, kind constants.EntryKind, entryID uint64) (*entities.EntryHeader, error) {
	header, err := s.approvalRepo.LockEntry(ctx, tx, kind, entryID)
	if err != nil {
		return nil, err
	}
	owner := authz.Owner{EmployeeID: header.EmployeeID, ManagerID: header.ManagerID, CreatedBy: header.CreatedBy}
	if !authz.CanEditEntry(actor, owner) {
		return nil, apperrors.ErrForbidden
	}
	if header.Status != constants.StatusPending {
		return nil, apperrors.NewConflict("Заявка уже %s и не может быть изменена", statusTitle(header.Status))
	}
	decided, err := s.approvalRepo.HasDecidedStage(ctx, tx, kind, entryID)
	if err != nil {
		return nil, err
	}
	if decided {
		return nil, apperrors.NewConflict("По заявке уже есть решение согласующего")
	}
	return header, nil
}

func (s *EntrySupport) stages(ctx context.Context, kind constants.EntryKind, entryID uint64) ([]entities.Approval, error) {
	return s.approvalRepo.ListStages(ctx, nil, kind, entryID)
}

func canView(actor authz.Context, employeeID, managerID, createdBy uint64) error {
	if !authz.CanViewEntry(actor, authz.Owner{EmployeeID: employeeID, ManagerID: managerID, CreatedBy: createdBy}) {
		return apperrors.ErrForbidden
	}
	return nil
}

func statusTitle(status constants.Status) string {
	switch status {
	case constants.StatusApproved:
		return "одобрена"
	case constants.StatusRejected:
		return "отклонена"
	}
	return "на согласовании"
}

// compOffLedger считает остаток отгулов на дату.
type compOffLedger struct {
	compOffRepo  repositories.CompOffEntryRepositoryInterface
	leaveRepo    repositories.LeaveEntryRepositoryInterface
	validityDays int
}

// balance: заработано - одобренные отгулы за [at-validity, at]; израсходовано -
// неотклонённые отпуска comp-off типа с from_date в [at-validity, at+validity].
func (l compOffLedger) balance(ctx context.Context, tx pgx.Tx, employeeID uint64, at time.Time, excludeLeaveID uint64) (earned, used float64, err error) {
	at = calc.DateOnly(at)
	earned, err = l.compOffRepo.SumApprovedDays(ctx, tx, employeeID, at.AddDate(0, 0, -l.validityDays), at)
	if err != nil {
		return 0, 0, err
	}
	used, err = l.leaveRepo.SumCompOffLeaveDays(ctx, tx, employeeID, at.AddDate(0, 0, -l.validityDays), at.AddDate(0, 0, l.validityDays), excludeLeaveID)
	if err != nil {
		return 0, 0, err
	}
	return earned, used, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound)
}
