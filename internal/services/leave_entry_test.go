package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"hr-system/config"
	"hr-system/internal/dto"
	"hr-system/internal/entities"
	"hr-system/internal/repositories"
	"hr-system/pkg/constants"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/types"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeLeaveRepo struct {
	repositories.LeaveEntryRepositoryInterface
	approved    []entities.LeaveEntry
	overlapping []entities.LeaveEntry
	typeDays    map[uint64]float64 // id заявки -> дни того же типа за год
	compOffUsed float64
	usage       map[uint64]repositories.LeaveUsage
	byID        map[uint64]*dto.LeaveEntryDTO
	updated     *entities.LeaveEntry
}

func (r *fakeLeaveRepo) ApprovedFullDayInRange(ctx context.Context, tx pgx.Tx, employeeIDs []uint64, from, to time.Time) ([]entities.LeaveEntry, error) {
	return r.approved, nil
}

func (r *fakeLeaveRepo) FindOverlapping(ctx context.Context, tx pgx.Tx, employeeID uint64, from, to time.Time, excludeID uint64) ([]entities.LeaveEntry, error) {
	var list []entities.LeaveEntry
	for _, e := range r.overlapping {
		if e.ID != excludeID {
			list = append(list, e)
		}
	}
	return list, nil
}

func (r *fakeLeaveRepo) SumDaysByType(ctx context.Context, tx pgx.Tx, employeeID, leaveTypeID uint64, from, to time.Time, excludeID uint64) (float64, error) {
	total := 0.0
	for id, days := range r.typeDays {
		if id != excludeID {
			total += days
		}
	}
	return total, nil
}

func (r *fakeLeaveRepo) SumCompOffLeaveDays(ctx context.Context, tx pgx.Tx, employeeID uint64, from, to time.Time, excludeID uint64) (float64, error) {
	return r.compOffUsed, nil
}

func (r *fakeLeaveRepo) UsageByType(ctx context.Context, employeeID uint64, from, to time.Time) (map[uint64]repositories.LeaveUsage, error) {
	return r.usage, nil
}

func (r *fakeLeaveRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*dto.LeaveEntryDTO, error) {
	e, ok := r.byID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *e
	return &copied, nil
}

func (r *fakeLeaveRepo) Update(ctx context.Context, tx pgx.Tx, e *entities.LeaveEntry) error {
	copied := *e
	r.updated = &copied
	r.byID[e.ID].LeaveEntry = copied
	return nil
}

type fakeLeaveTypeRepo struct {
	repositories.LeaveTypeRepositoryInterface
	byID map[uint64]*entities.LeaveType
}

func (r *fakeLeaveTypeRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.LeaveType, error) {
	lt, ok := r.byID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return lt, nil
}

func (r *fakeLeaveTypeRepo) List(ctx context.Context, filter types.Filter) ([]entities.LeaveType, uint64, error) {
	list := make([]entities.LeaveType, 0, len(r.byID))
	for id := uint64(1); id <= uint64(len(r.byID)); id++ {
		list = append(list, *r.byID[id])
	}
	return list, uint64(len(list)), nil
}

type fakeHolidayRepo struct {
	repositories.HolidayRepositoryInterface
	dates []time.Time
}

func (r *fakeHolidayRepo) DatesBetween(ctx context.Context, tx pgx.Tx, companyID uint64, from, to time.Time) ([]time.Time, error) {
	var list []time.Time
	for _, d := range r.dates {
		if !d.Before(from) && !d.After(to) {
			list = append(list, d)
		}
	}
	return list, nil
}

func testLeaveTypes() *fakeLeaveTypeRepo {
	return &fakeLeaveTypeRepo{byID: map[uint64]*entities.LeaveType{
		1: {ID: 1, Code: "CL", Name: "Отпуск", AnnualQuota: 12, IsPaid: true, AllowHalfDay: true},
		2: {ID: 2, Code: "CO", Name: "Отгул", IsPaid: true, AllowHalfDay: true, IsCompOff: true},
		3: {ID: 3, Code: "LOP", Name: "За свой счёт"},
	}}
}

type leaveFixture struct {
	svc       *LeaveEntryService
	repo      *fakeLeaveRepo
	compOffs  *fakeCompOffRepo
	holidays  *fakeHolidayRepo
	employees *fakeEmployeeRepo
	approvals *fakeApprovalRepo
}

func newLeaveFixture() leaveFixture {
	repo := &fakeLeaveRepo{byID: make(map[uint64]*dto.LeaveEntryDTO)}
	compOffs := &fakeCompOffRepo{}
	holidays := &fakeHolidayRepo{}
	approvals := newFakeApprovalRepo()
	employees := &fakeEmployeeRepo{byID: map[uint64]*entities.Employee{employeeID: testEmployee()}}
	support := NewEntrySupport(&fakeTx{}, employees, holidays, approvals, config.DefaultWorkflow(), testPolicy, zap.NewNop())
	svc := NewLeaveEntryService(repo, testLeaveTypes(), compOffs, support, zap.NewNop()).(*LeaveEntryService)
	return leaveFixture{svc: svc, repo: repo, compOffs: compOffs, holidays: holidays, employees: employees, approvals: approvals}
}

func leaveOn(typeID uint64, from, to time.Time, duration constants.DurationType) *entities.LeaveEntry {
	return &entities.LeaveEntry{EmployeeID: employeeID, LeaveTypeID: typeID, FromDate: from, ToDate: to, DurationType: duration}
}

// pendingLeave - заявка #5 на 10-11 марта с двумя нерешёнными этапами.
func (f leaveFixture) pendingLeave() {
	f.repo.byID[5] = &dto.LeaveEntryDTO{LeaveEntry: entities.LeaveEntry{
		ID: 5, EmployeeID: employeeID, LeaveTypeID: 1, FromDate: day(10), ToDate: day(11),
		DurationType: constants.DurationFullDay, Days: 2, Status: constants.StatusPending, CreatedBy: 100,
	}}
	f.approvals.add(entities.EntryHeader{
		Kind: constants.KindLeave, ID: 5, EmployeeID: employeeID, Status: constants.StatusPending, CreatedBy: 100,
	}, "MANAGER", "HR")
}

func TestLeaveRulesDaysSkipNonWorking(t *testing.T) {
	f := newLeaveFixture()
	f.holidays.dates = []time.Time{day(4)}

	entry := leaveOn(1, day(3), day(9), constants.DurationFullDay)
	require.NoError(t, f.svc.applyRules(context.Background(), nil, testEmployee(), entry))
	assert.Equal(t, 5.0, entry.Days, "праздник 4 марта и воскресенье 9 марта не считаются")
}

func TestLeaveRulesHalfDayOverlap(t *testing.T) {
	cases := []struct {
		name     string
		existing constants.DurationType
		from, to time.Time
		duration constants.DurationType
		wantCode int
	}{
		{"вторая половина рядом с первой", constants.DurationFirstHalf, day(5), day(5), constants.DurationSecondHalf, 0},
		{"та же половина", constants.DurationFirstHalf, day(5), day(5), constants.DurationFirstHalf, http.StatusConflict},
		{"полный день поверх половины", constants.DurationFirstHalf, day(4), day(6), constants.DurationFullDay, http.StatusConflict},
		{"половина поверх полного дня", constants.DurationFullDay, day(5), day(5), constants.DurationSecondHalf, http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newLeaveFixture()
			f.repo.overlapping = []entities.LeaveEntry{{ID: 7, FromDate: day(5), ToDate: day(5), DurationType: tc.existing}}

			err := f.svc.applyRules(context.Background(), nil, testEmployee(), leaveOn(1, tc.from, tc.to, tc.duration))
			if tc.wantCode == 0 {
				require.NoError(t, err)
				return
			}
			requireHTTPCode(t, err, tc.wantCode)
			assert.Contains(t, err.Error(), "#7")
		})
	}
}

func TestLeaveRulesOverlapIgnoresItself(t *testing.T) {
	f := newLeaveFixture()
	f.repo.overlapping = []entities.LeaveEntry{{ID: 5, FromDate: day(10), ToDate: day(11), DurationType: constants.DurationFullDay}}

	entry := leaveOn(1, day(10), day(12), constants.DurationFullDay)
	entry.ID = 5
	assert.NoError(t, f.svc.applyRules(context.Background(), nil, testEmployee(), entry))
}

func TestLeaveRulesAnnualQuota(t *testing.T) {
	cases := []struct {
		name     string
		id       uint64
		from, to time.Time
		wantErr  bool
	}{
		{"новая заявка сверх лимита", 0, day(3), day(5), true},
		{"новая заявка ровно до лимита", 0, day(3), day(3), false},
		{"изменение своей заявки не считает её дважды", 3, day(3), day(7), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newLeaveFixture()
			f.repo.typeDays = map[uint64]float64{3: 10, 4: 1}

			entry := leaveOn(1, tc.from, tc.to, constants.DurationFullDay)
			entry.ID = tc.id
			err := f.svc.applyRules(context.Background(), nil, testEmployee(), entry)
			if !tc.wantErr {
				require.NoError(t, err)
				return
			}
			requireHTTPCode(t, err, http.StatusBadRequest)
			var httpErr *apperrors.HttpError
			require.True(t, errors.As(err, &httpErr))
			assert.Equal(t, map[string]float64{"quota": 12, "used": 11, "requested": 3}, httpErr.Details)
		})
	}
}

func TestLeaveRulesNoQuotaType(t *testing.T) {
	f := newLeaveFixture()
	f.repo.typeDays = map[uint64]float64{3: 400}

	assert.NoError(t, f.svc.applyRules(context.Background(), nil, testEmployee(), leaveOn(3, day(3), day(7), constants.DurationFullDay)))
}

func TestLeaveRulesCompOffBalance(t *testing.T) {
	f := newLeaveFixture()
	f.compOffs.approvedDays = 1
	f.repo.compOffUsed = 0.5

	err := f.svc.applyRules(context.Background(), nil, testEmployee(), leaveOn(2, day(10), day(10), constants.DurationFullDay))
	requireHTTPCode(t, err, http.StatusBadRequest)
	assert.Contains(t, err.Error(), "доступно 0.5")

	assert.NoError(t, f.svc.applyRules(context.Background(), nil, testEmployee(), leaveOn(2, day(10), day(10), constants.DurationFirstHalf)))
}

func TestLeaveRulesRejects(t *testing.T) {
	cases := []struct {
		name  string
		entry *entities.LeaveEntry
	}{
		{"до даты приёма", leaveOn(1, time.Date(2023, 12, 29, 0, 0, 0, 0, time.UTC), time.Date(2023, 12, 29, 0, 0, 0, 0, time.UTC), constants.DurationFullDay)},
		{"полдня для типа без полдня", leaveOn(3, day(10), day(10), constants.DurationFirstHalf)},
		{"полдня на несколько дат", leaveOn(1, day(10), day(11), constants.DurationSecondHalf)},
		{"конец раньше начала", leaveOn(1, day(11), day(10), constants.DurationFullDay)},
		{"неизвестный тип", leaveOn(99, day(10), day(10), constants.DurationFullDay)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newLeaveFixture()
			requireHTTPCode(t, f.svc.applyRules(context.Background(), nil, testEmployee(), tc.entry), http.StatusBadRequest)
		})
	}
}

func TestUpdateLeaveEntryInactiveEmployee(t *testing.T) {
	f := newLeaveFixture()
	f.employees.byID[employeeID].IsActive = false
	f.pendingLeave()
	to := "2025-03-12"

	_, err := f.svc.UpdateLeaveEntry(actorCtx(100, 0, "entries:manage"), 5, dto.UpdateLeaveEntryDTO{ToDate: &to})
	requireHTTPCode(t, err, http.StatusBadRequest)
	assert.Contains(t, err.Error(), "неактивен")
	assert.Nil(t, f.repo.updated)
}

func TestUpdateLeaveEntryRecalculates(t *testing.T) {
	f := newLeaveFixture()
	f.pendingLeave()
	to := "2025-03-12"

	got, err := f.svc.UpdateLeaveEntry(actorCtx(100, 0, "entries:manage"), 5, dto.UpdateLeaveEntryDTO{ToDate: &to})
	require.NoError(t, err)
	require.NotNil(t, f.repo.updated)
	assert.Equal(t, 3.0, f.repo.updated.Days)
	assert.Equal(t, day(12), got.ToDate)
	assert.Len(t, got.Approvals, 2)
}

func TestUpdateLeaveEntryAfterDecision(t *testing.T) {
	f := newLeaveFixture()
	f.pendingLeave()
	f.approvals.stages[entryKey{constants.KindLeave, 5}][0].Status = constants.StatusApproved
	to := "2025-03-12"

	_, err := f.svc.UpdateLeaveEntry(actorCtx(100, 0, "entries:manage"), 5, dto.UpdateLeaveEntryDTO{ToDate: &to})
	requireHTTPCode(t, err, http.StatusConflict)
	assert.Nil(t, f.repo.updated)
}
