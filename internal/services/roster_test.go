package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"hr-system/internal/dto"
	"hr-system/internal/entities"
	"hr-system/internal/repositories"
	"hr-system/pkg/constants"
	apperrors "hr-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func day(d int) time.Time {
	return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC)
}

type fakeRosterRepo struct {
	repositories.RosterRepositoryInterface
	rosters     map[uint64]*entities.ShiftRoster
	assignments []entities.ShiftAssignment
	listed      map[uint64][]dto.RosterAssignmentDTO
	upserts     []repositories.AssignmentRow
}

func (r *fakeRosterRepo) Create(ctx context.Context, tx pgx.Tx, roster *entities.ShiftRoster) (uint64, error) {
	copied := *roster
	copied.ID = 50
	r.rosters[copied.ID] = &copied
	return copied.ID, nil
}

func (r *fakeRosterRepo) ListAssignments(ctx context.Context, tx pgx.Tx, rosterID uint64) ([]dto.RosterAssignmentDTO, error) {
	return r.listed[rosterID], nil
}

func (r *fakeRosterRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.ShiftRoster, error) {
	roster, ok := r.rosters[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return roster, nil
}

func (r *fakeRosterRepo) FindAssignments(ctx context.Context, tx pgx.Tx, employeeIDs []uint64, dates []time.Time) ([]entities.ShiftAssignment, error) {
	return r.assignments, nil
}

func (r *fakeRosterRepo) UpsertAssignment(ctx context.Context, tx pgx.Tx, rosterID uint64, row repositories.AssignmentRow) (bool, error) {
	r.upserts = append(r.upserts, row)
	return true, nil
}

type fakeShiftRepo struct {
	repositories.ShiftRepositoryInterface
	shifts map[uint64]*entities.Shift
}

func (r *fakeShiftRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Shift, error) {
	s, ok := r.shifts[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return s, nil
}

func (r *fakeEmployeeRepo) FindByIDs(ctx context.Context, tx pgx.Tx, ids []uint64) ([]entities.Employee, error) {
	var list []entities.Employee
	for _, id := range ids {
		if e, ok := r.byID[id]; ok {
			list = append(list, *e)
		}
	}
	return list, nil
}

type rosterFixture struct {
	svc    RosterServiceInterface
	repo   *fakeRosterRepo
	leaves *fakeLeaveRepo
}

func newRosterFixture() rosterFixture {
	repo := &fakeRosterRepo{rosters: map[uint64]*entities.ShiftRoster{
		1: {ID: 1, CompanyID: 1, Name: "Неделя 10", PeriodType: constants.PeriodWeek, PeriodStart: day(3), PeriodEnd: day(9)},
	}}
	shifts := &fakeShiftRepo{shifts: map[uint64]*entities.Shift{
		5: {ID: 5, Code: "DAY", IsActive: true},
		6: {ID: 6, Code: "OLD", IsActive: false},
	}}
	employees := &fakeEmployeeRepo{byID: map[uint64]*entities.Employee{
		1: {ID: 1, Code: "E1", CompanyID: 1, IsActive: true},
		2: {ID: 2, Code: "E2", CompanyID: 1, IsActive: true},
		3: {ID: 3, Code: "E3", CompanyID: 2, IsActive: true},
		4: {ID: 4, Code: "E4", CompanyID: 1, IsActive: false},
	}}
	leaves := &fakeLeaveRepo{}
	svc := NewRosterService(&fakeTx{}, repo, testCompanies(), shifts, employees, leaves, zap.NewNop())
	return rosterFixture{svc: svc, repo: repo, leaves: leaves}
}

func TestAssignByDates(t *testing.T) {
	f := newRosterFixture()
	f.repo.assignments = []entities.ShiftAssignment{{RosterID: 1, EmployeeID: 1, ShiftID: 5, WorkDate: day(4)}}

	res, err := f.svc.Assign(context.Background(), 1, dto.AssignShiftDTO{
		EmployeeIDs: []uint64{1, 1},
		ShiftID:     5,
		Dates:       []string{"2025-03-05", "2025-03-04"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Assigned)
	assert.Equal(t, 1, res.Replaced)
	require.Len(t, f.repo.upserts, 2)
	assert.Equal(t, day(4), f.repo.upserts[0].WorkDate, "даты отсортированы")
}

func TestAssignByWeekdays(t *testing.T) {
	f := newRosterFixture()

	res, err := f.svc.Assign(context.Background(), 1, dto.AssignShiftDTO{
		EmployeeIDs: []uint64{1, 2},
		ShiftID:     5,
		Weekdays:    []string{"monday", "FRIDAY"},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Assigned)
}

func TestAssignConflicts(t *testing.T) {
	f := newRosterFixture()
	f.leaves.approved = []entities.LeaveEntry{{ID: 77, EmployeeID: 2, FromDate: day(5), ToDate: day(6)}}
	f.repo.assignments = []entities.ShiftAssignment{{RosterID: 9, EmployeeID: 1, ShiftID: 5, WorkDate: day(4)}}

	_, err := f.svc.Assign(context.Background(), 1, dto.AssignShiftDTO{
		EmployeeIDs: []uint64{1, 2},
		ShiftID:     5,
		Dates:       []string{"2025-03-04", "2025-03-05"},
	})
	requireHTTPCode(t, err, http.StatusConflict)

	var httpErr *apperrors.HttpError
	require.True(t, errors.As(err, &httpErr))
	conflicts, ok := httpErr.Details.([]dto.AssignmentConflictDTO)
	require.True(t, ok)
	require.Len(t, conflicts, 2)
	assert.Equal(t, uint64(1), conflicts[0].EmployeeID)
	assert.Contains(t, conflicts[0].Reason, "#9")
	assert.Equal(t, uint64(2), conflicts[1].EmployeeID)
	assert.Contains(t, conflicts[1].Reason, "#77")
	assert.Empty(t, f.repo.upserts)
}

func TestAssignValidation(t *testing.T) {
	cases := []struct {
		name    string
		payload dto.AssignShiftDTO
	}{
		{"дата вне периода", dto.AssignShiftDTO{EmployeeIDs: []uint64{1}, ShiftID: 5, Dates: []string{"2025-03-10"}}},
		{"неактивная смена", dto.AssignShiftDTO{EmployeeIDs: []uint64{1}, ShiftID: 6, Dates: []string{"2025-03-04"}}},
		{"нет смены", dto.AssignShiftDTO{EmployeeIDs: []uint64{1}, ShiftID: 99, Dates: []string{"2025-03-04"}}},
		{"сотрудник другой компании", dto.AssignShiftDTO{EmployeeIDs: []uint64{3}, ShiftID: 5, Dates: []string{"2025-03-04"}}},
		{"нет сотрудника", dto.AssignShiftDTO{EmployeeIDs: []uint64{42}, ShiftID: 5, Dates: []string{"2025-03-04"}}},
		{"неизвестный день недели", dto.AssignShiftDTO{EmployeeIDs: []uint64{1}, ShiftID: 5, Weekdays: []string{"FUNDAY"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newRosterFixture()
			_, err := f.svc.Assign(context.Background(), 1, tc.payload)
			requireHTTPCode(t, err, http.StatusBadRequest)
		})
	}
}

func TestCopyRosterSkipsBlockedRows(t *testing.T) {
	f := newRosterFixture()
	f.repo.listed = map[uint64][]dto.RosterAssignmentDTO{1: {
		{EmployeeID: 1, ShiftID: 5, WorkDate: day(4)},
		{EmployeeID: 2, ShiftID: 5, WorkDate: day(5)},
		{EmployeeID: 1, ShiftID: 5, WorkDate: day(6)},
		{EmployeeID: 4, ShiftID: 5, WorkDate: day(4)},
		{EmployeeID: 3, ShiftID: 5, WorkDate: day(7)},
	}}
	f.leaves.approved = []entities.LeaveEntry{{ID: 77, EmployeeID: 2, FromDate: day(12), ToDate: day(12)}}
	f.repo.assignments = []entities.ShiftAssignment{{RosterID: 9, EmployeeID: 1, ShiftID: 5, WorkDate: day(13)}}

	got, err := f.svc.CopyRoster(actorCtx(100, 0), 1, dto.CopyRosterDTO{PeriodStart: "2025-03-10"})
	require.NoError(t, err)
	assert.Equal(t, uint64(50), got.ID)
	assert.Equal(t, day(10), got.PeriodStart)
	assert.Equal(t, day(16), got.PeriodEnd)
	assert.Equal(t, "Неделя 10", got.Name)

	require.Len(t, f.repo.upserts, 1, "отпуск, другой график, неактивный и чужой сотрудник пропущены")
	assert.Equal(t, repositories.AssignmentRow{EmployeeID: 1, ShiftID: 5, WorkDate: day(11)}, f.repo.upserts[0])
}

func TestCopyRosterMonthDropsMissingDays(t *testing.T) {
	f := newRosterFixture()
	f.repo.rosters[2] = &entities.ShiftRoster{
		ID: 2, CompanyID: 1, Name: "Март", PeriodType: constants.PeriodMonth, PeriodStart: day(1), PeriodEnd: day(31),
	}
	f.repo.listed = map[uint64][]dto.RosterAssignmentDTO{2: {
		{EmployeeID: 1, ShiftID: 5, WorkDate: day(15)},
		{EmployeeID: 1, ShiftID: 5, WorkDate: day(31)},
	}}
	name := "Апрель"

	got, err := f.svc.CopyRoster(actorCtx(100, 0), 2, dto.CopyRosterDTO{PeriodStart: "2025-04-01", Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Апрель", got.Name)
	assert.Equal(t, time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC), got.PeriodEnd)
	require.Len(t, f.repo.upserts, 1, "31 марта некуда перенести")
	assert.Equal(t, time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC), f.repo.upserts[0].WorkDate)
}

func TestCopyRosterMonthNeedsFirstDay(t *testing.T) {
	f := newRosterFixture()
	f.repo.rosters[2] = &entities.ShiftRoster{
		ID: 2, CompanyID: 1, Name: "Март", PeriodType: constants.PeriodMonth, PeriodStart: day(1), PeriodEnd: day(31),
	}

	_, err := f.svc.CopyRoster(actorCtx(100, 0), 2, dto.CopyRosterDTO{PeriodStart: "2025-04-02"})
	requireHTTPCode(t, err, http.StatusBadRequest)
	assert.Empty(t, f.repo.upserts)
}
