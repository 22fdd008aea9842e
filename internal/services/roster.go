package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"hr-system/internal/calc"
	"hr-system/internal/dto"
	"hr-system/internal/entities"
	"hr-system/internal/repositories"
	pkgconfig "hr-system/pkg/config"
	"hr-system/pkg/constants"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/types"
	"hr-system/pkg/utils"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type RosterServiceInterface interface {
	GetRosters(ctx context.Context, filter types.Filter) ([]entities.ShiftRoster, uint64, error)
	FindRoster(ctx context.Context, id uint64) (*dto.RosterDTO, error)
	CreateRoster(ctx context.Context, payload dto.CreateRosterDTO) (*dto.RosterDTO, error)
	DeleteRoster(ctx context.Context, id uint64) error
	Assign(ctx context.Context, rosterID uint64, payload dto.AssignShiftDTO) (*dto.AssignResultDTO, error)
	RemoveAssignments(ctx context.Context, rosterID uint64, payload dto.RemoveAssignmentsDTO) (int64, error)
	CopyRoster(ctx context.Context, rosterID uint64, payload dto.CopyRosterDTO) (*dto.RosterDTO, error)
}

type RosterService struct {
	txManager    repositories.TxManagerInterface
	repo         repositories.RosterRepositoryInterface
	companyRepo  repositories.CompanyRepositoryInterface
	shiftRepo    repositories.ShiftRepositoryInterface
	employeeRepo repositories.EmployeeRepositoryInterface
	leaveRepo    repositories.LeaveEntryRepositoryInterface
	logger       *zap.Logger
}

func NewRosterService(
	txManager repositories.TxManagerInterface,
	repo repositories.RosterRepositoryInterface,
	companyRepo repositories.CompanyRepositoryInterface,
	shiftRepo repositories.ShiftRepositoryInterface,
	employeeRepo repositories.EmployeeRepositoryInterface,
	leaveRepo repositories.LeaveEntryRepositoryInterface,
	logger *zap.Logger,
) RosterServiceInterface {
	return &RosterService{
		txManager:    txManager,
		repo:         repo,
		companyRepo:  companyRepo,
		shiftRepo:    shiftRepo,
		employeeRepo: employeeRepo,
		leaveRepo:    leaveRepo,
		logger:       logger,
	}
}

func (s *RosterService) GetRosters(ctx context.Context, filter types.Filter) ([]entities.ShiftRoster, uint64, error) {
	return s.repo.List(ctx, filter)
}

func (s *RosterService) FindRoster(ctx context.Context, id uint64) (*dto.RosterDTO, error) {
	roster, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	assignments, err := s.repo.ListAssignments(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	return &dto.RosterDTO{ShiftRoster: *roster, Assignments: assignments}, nil
}

func (s *RosterService) CreateRoster(ctx context.Context, payload dto.CreateRosterDTO) (*dto.RosterDTO, error) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	start, err := utils.ParseDate(payload.PeriodStart)
	if err != nil {
		return nil, err
	}
	roster, err := s.newRoster(ctx, payload.CompanyID, utils.NullUint64(payload.SiteID).Ptr(), payload.Name, constants.PeriodType(payload.PeriodType), start, userID)
	if err != nil {
		return nil, err
	}
	id, err := s.repo.Create(ctx, nil, roster)
	if err != nil {
		return nil, asConflict(err, "График '%s' за этот период уже существует", payload.Name)
	}
	s.logger.Info("Создан график смен", zap.Uint64("id", id), zap.String("period", string(roster.PeriodType)), zap.Uint64("userID", userID))
	return s.FindRoster(ctx, id)
}

func (s *RosterService) newRoster(ctx context.Context, companyID uint64, siteID *int64, name string, periodType constants.PeriodType, start time.Time, userID uint64) (*entities.ShiftRoster, error) {
	if _, err := s.companyRepo.FindCompany(ctx, companyID); err != nil {
		return nil, notFoundAsBadRequest(err, "Компания %d не найдена", companyID)
	}
	roster := &entities.ShiftRoster{
		CompanyID:   companyID,
		Name:        name,
		PeriodType:  periodType,
		PeriodStart: start,
		CreatedBy:   userID,
	}
	if siteID != nil {
		site, err := s.companyRepo.FindSite(ctx, uint64(*siteID))
		if err != nil {
			return nil, notFoundAsBadRequest(err, "Площадка %d не найдена", *siteID)
		}
		if site.CompanyID != companyID {
			return nil, apperrors.NewBadRequest("Площадка %s не относится к компании графика", site.Code)
		}
		roster.SiteID = utils.NullUint64(&site.ID)
	}
	end, err := calc.RosterPeriod(periodType, start)
	if err != nil {
		return nil, calcError(err)
	}
	roster.PeriodEnd = end
	return roster, nil
}

func (s *RosterService) DeleteRoster(ctx context.Context, id uint64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Удалён график смен", zap.Uint64("id", id))
	return nil
}

// assignmentDates - явные даты или дни недели в пределах периода; без того и другого весь период.
func assignmentDates(roster *entities.ShiftRoster, payload dto.AssignShiftDTO) ([]time.Time, error) {
	if len(payload.Dates) > 0 {
		dates := make([]time.Time, 0, len(payload.Dates))
		seen := make(map[time.Time]bool, len(payload.Dates))
		for _, raw := range payload.Dates {
			d, err := utils.ParseDate(raw)
			if err != nil {
				return nil, err
			}
			if !roster.Contains(d) {
				return nil, apperrors.NewBadRequest("Дата %s вне периода графика %s - %s",
					raw, utils.FormatDate(roster.PeriodStart), utils.FormatDate(roster.PeriodEnd))
			}
			if !seen[d] {
				seen[d] = true
				dates = append(dates, d)
			}
		}
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
		return dates, nil
	}

	weekdays := make([]time.Weekday, 0, len(payload.Weekdays))
	for _, raw := range payload.Weekdays {
		d, ok := pkgconfig.ParseWeekday(raw)
		if !ok {
			return nil, apperrors.NewBadRequest("Неизвестный день недели: %s", raw)
		}
		weekdays = append(weekdays, d)
	}
	dates := calc.ExpandDates(roster.PeriodStart, roster.PeriodEnd, weekdays)
	if len(dates) == 0 {
		return nil, apperrors.NewBadRequest("В периоде графика нет подходящих дат")
	}
	return dates, nil
}

func (s *RosterService) Assign(ctx context.Context, rosterID uint64, payload dto.AssignShiftDTO) (*dto.AssignResultDTO, error) {
	result := &dto.AssignResultDTO{}
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		roster, err := s.repo.FindByID(ctx, tx, rosterID)
		if err != nil {
			return err
		}
		dates, err := assignmentDates(roster, payload)
		if err != nil {
			return err
		}
		shift, err := s.shiftRepo.FindByID(ctx, tx, payload.ShiftID)
		if err != nil {
			return notFoundAsBadRequest(err, "Смена %d не найдена", payload.ShiftID)
		}
		if !shift.IsActive {
			return apperrors.NewBadRequest("Смена %s неактивна", shift.Code)
		}
		employeeIDs, err := s.checkEmployees(ctx, tx, roster, payload.EmployeeIDs)
		if err != nil {
			return err
		}

		conflicts, existing, err := s.findConflicts(ctx, tx, roster, employeeIDs, dates)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return apperrors.NewConflict("Смену нельзя назначить на %d дат(ы)", len(conflicts)).WithDetails(conflicts)
		}

		for _, empID := range employeeIDs {
			for _, d := range dates {
				ok, err := s.repo.UpsertAssignment(ctx, tx, rosterID, repositories.AssignmentRow{EmployeeID: empID, ShiftID: shift.ID, WorkDate: d})
				if err != nil {
					return err
				}
				if !ok {
					return apperrors.NewConflict("Сотрудник %d уже в другом графике на %s", empID, utils.FormatDate(d))
				}
				if existing[assignmentKey{empID, d}] {
					result.Replaced++
				} else {
					result.Assigned++
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Назначены смены",
		zap.Uint64("rosterID", rosterID),
		zap.Int("assigned", result.Assigned),
		zap.Int("replaced", result.Replaced),
	)
	return result, nil
}

type assignmentKey struct {
	employeeID uint64
	date       time.Time
}

// checkEmployees: все найдены, активны и из компании графика. Возвращает id без повторов.
func (s *RosterService) checkEmployees(ctx context.Context, tx pgx.Tx, roster *entities.ShiftRoster, ids []uint64) ([]uint64, error) {
	employees, err := s.employeeRepo.FindByIDs(ctx, tx, ids)
	if err != nil {
		return nil, err
	}
	found := make(map[uint64]entities.Employee, len(employees))
	for _, e := range employees {
		found[e.ID] = e
	}
	unique := make([]uint64, 0, len(ids))
	seen := make(map[uint64]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		e, ok := found[id]
		switch {
		case !ok:
			return nil, apperrors.NewBadRequest("Сотрудник %d не найден", id)
		case !e.IsActive:
			return nil, apperrors.NewBadRequest("Сотрудник %s неактивен", e.Code)
		case e.CompanyID != roster.CompanyID:
			return nil, apperrors.NewBadRequest("Сотрудник %s не относится к компании графика", e.Code)
		}
		unique = append(unique, id)
	}
	return unique, nil
}

// findConflicts ищет одобренные отпуска на полный день и назначения в других графиках.
// existing - ячейки, уже занятые в этом графике.
func (s *RosterService) findConflicts(ctx context.Context, tx pgx.Tx, roster *entities.ShiftRoster, employeeIDs []uint64, dates []time.Time) ([]dto.AssignmentConflictDTO, map[assignmentKey]bool, error) {
	conflicts := make([]dto.AssignmentConflictDTO, 0)
	existing := make(map[assignmentKey]bool)
	if len(dates) == 0 || len(employeeIDs) == 0 {
		return conflicts, existing, nil
	}

	leaves, err := s.leaveRepo.ApprovedFullDayInRange(ctx, tx, employeeIDs, dates[0], dates[len(dates)-1])
	if err != nil {
		return nil, nil, err
	}
	onLeave := make(map[assignmentKey]uint64)
	for _, l := range leaves {
		calc.EachDay(l.FromDate, l.ToDate, func(d time.Time) {
			onLeave[assignmentKey{l.EmployeeID, d}] = l.ID
		})
	}

	current, err := s.repo.FindAssignments(ctx, tx, employeeIDs, dates)
	if err != nil {
		return nil, nil, err
	}
	otherRoster := make(map[assignmentKey]uint64)
	for _, a := range current {
		key := assignmentKey{a.EmployeeID, calc.DateOnly(a.WorkDate)}
		if a.RosterID == roster.ID {
			existing[key] = true
		} else {
			otherRoster[key] = a.RosterID
		}
	}

	for _, empID := range employeeIDs {
		for _, d := range dates {
			key := assignmentKey{empID, d}
			if leaveID, ok := onLeave[key]; ok {
				conflicts = append(conflicts, dto.AssignmentConflictDTO{
					EmployeeID: empID, Date: utils.FormatDate(d), Reason: fmt.Sprintf("одобренный отпуск #%d", leaveID),
				})
			} else if otherID, ok := otherRoster[key]; ok {
				conflicts = append(conflicts, dto.AssignmentConflictDTO{
					EmployeeID: empID, Date: utils.FormatDate(d), Reason: fmt.Sprintf("назначен в графике #%d", otherID),
				})
			}
		}
	}
	return conflicts, existing, nil
}

func (s *RosterService) RemoveAssignments(ctx context.Context, rosterID uint64, payload dto.RemoveAssignmentsDTO) (int64, error) {
	dates := make([]time.Time, 0, len(payload.Dates))
	for _, raw := range payload.Dates {
		d, err := utils.ParseDate(raw)
		if err != nil {
			return 0, err
		}
		dates = append(dates, d)
	}
	var removed int64
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := s.repo.FindByID(ctx, tx, rosterID); err != nil {
			return err
		}
		var err error
		removed, err = s.repo.DeleteAssignments(ctx, tx, rosterID, payload.EmployeeIDs, dates)
		return err
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("Сняты назначения смен", zap.Uint64("rosterID", rosterID), zap.Int64("removed", removed))
	return removed, nil
}

// CopyRoster создаёт график того же типа с новым началом и переносит назначения.
// Ячейки вне нового периода, на одобренном отпуске, в другом графике
// или у уволенных сотрудников пропускаются.
func (s *RosterService) CopyRoster(ctx context.Context, rosterID uint64, payload dto.CopyRosterDTO) (*dto.RosterDTO, error) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	start, err := utils.ParseDate(payload.PeriodStart)
	if err != nil {
		return nil, err
	}

	var newID uint64
	copied, skipped := 0, 0
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		source, err := s.repo.FindByID(ctx, tx, rosterID)
		if err != nil {
			return err
		}
		name := source.Name
		if payload.Name != nil {
			name = *payload.Name
		}
		target, err := s.newRoster(ctx, source.CompanyID, source.SiteID.Ptr(), name, source.PeriodType, start, userID)
		if err != nil {
			return err
		}
		if newID, err = s.repo.Create(ctx, tx, target); err != nil {
			return asConflict(err, "График '%s' за этот период уже существует", name)
		}
		target.ID = newID

		assignments, err := s.repo.ListAssignments(ctx, tx, rosterID)
		if err != nil {
			return err
		}
		rows := make([]repositories.AssignmentRow, 0, len(assignments))
		employeeSet := make(map[uint64]bool)
		var dates []time.Time
		for _, a := range assignments {
			d, ok := calc.CopyDate(source.PeriodType, source.PeriodStart, target.PeriodStart, target.PeriodEnd, a.WorkDate)
			if !ok {
				skipped++
				continue
			}
			rows = append(rows, repositories.AssignmentRow{EmployeeID: a.EmployeeID, ShiftID: a.ShiftID, WorkDate: d})
			employeeSet[a.EmployeeID] = true
			dates = append(dates, d)
		}
		if len(rows) == 0 {
			return nil
		}
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

		employeeIDs := make([]uint64, 0, len(employeeSet))
		for id := range employeeSet {
			employeeIDs = append(employeeIDs, id)
		}
		employees, err := s.employeeRepo.FindByIDs(ctx, tx, employeeIDs)
		if err != nil {
			return err
		}
		active := make(map[uint64]bool, len(employees))
		for _, e := range employees {
			active[e.ID] = e.IsActive && e.CompanyID == target.CompanyID
		}
		conflicts, _, err := s.findConflicts(ctx, tx, target, employeeIDs, dates)
		if err != nil {
			return err
		}
		blocked := make(map[assignmentKey]bool, len(conflicts))
		for _, c := range conflicts {
			d, _ := utils.ParseDate(c.Date)
			blocked[assignmentKey{c.EmployeeID, d}] = true
		}

		for _, row := range rows {
			if !active[row.EmployeeID] || blocked[assignmentKey{row.EmployeeID, row.WorkDate}] {
				skipped++
				continue
			}
			ok, err := s.repo.UpsertAssignment(ctx, tx, newID, row)
			if err != nil {
				return err
			}
			if !ok {
				skipped++
				continue
			}
			copied++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Скопирован график смен",
		zap.Uint64("fromID", rosterID),
		zap.Uint64("toID", newID),
		zap.Int("copied", copied),
		zap.Int("skipped", skipped),
	)
	return s.FindRoster(ctx, newID)
}
