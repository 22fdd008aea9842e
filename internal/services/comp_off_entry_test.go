package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"hr-system/config"
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

type fakeCompOffRepo struct {
	repositories.CompOffEntryRepositoryInterface
	approvedDays float64
	taken        []entities.CompOffEntry
	byID         map[uint64]*dto.CompOffEntryDTO
	created      *entities.CompOffEntry
	updated      *entities.CompOffEntry
}

func (r *fakeCompOffRepo) SumApprovedDays(ctx context.Context, tx pgx.Tx, employeeID uint64, from, to time.Time) (float64, error) {
	return r.approvedDays, nil
}

func (r *fakeCompOffRepo) ExistsForDate(ctx context.Context, tx pgx.Tx, employeeID uint64, date time.Time, excludeID uint64) (bool, error) {
	for _, e := range r.taken {
		if e.ID != excludeID && e.WorkedDate.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCompOffRepo) Create(ctx context.Context, tx pgx.Tx, e *entities.CompOffEntry) (uint64, error) {
	copied := *e
	copied.ID = 31
	r.created = &copied
	r.byID[copied.ID] = &dto.CompOffEntryDTO{CompOffEntry: copied}
	return copied.ID, nil
}

func (r *fakeCompOffRepo) Update(ctx context.Context, tx pgx.Tx, e *entities.CompOffEntry) error {
	copied := *e
	r.updated = &copied
	return nil
}

func (r *fakeCompOffRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*dto.CompOffEntryDTO, error) {
	e, ok := r.byID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *e
	return &copied, nil
}

type compOffFixture struct {
	svc       *CompOffEntryService
	repo      *fakeCompOffRepo
	holidays  *fakeHolidayRepo
	employees *fakeEmployeeRepo
	approvals *fakeApprovalRepo
}

func newCompOffFixture() compOffFixture {
	repo := &fakeCompOffRepo{byID: make(map[uint64]*dto.CompOffEntryDTO)}
	holidays := &fakeHolidayRepo{}
	approvals := newFakeApprovalRepo()
	employees := &fakeEmployeeRepo{byID: map[uint64]*entities.Employee{employeeID: testEmployee()}}
	support := NewEntrySupport(&fakeTx{}, employees, holidays, approvals, config.DefaultWorkflow(), testPolicy, zap.NewNop())
	svc := NewCompOffEntryService(repo, support, zap.NewNop()).(*CompOffEntryService)
	svc.now = func() time.Time { return day(20) }
	return compOffFixture{svc: svc, repo: repo, holidays: holidays, employees: employees, approvals: approvals}
}

func compOffOn(date time.Time, duration constants.CompOffDuration) *entities.CompOffEntry {
	return &entities.CompOffEntry{EmployeeID: employeeID, WorkedDate: date, Duration: duration}
}

func TestCompOffRulesDays(t *testing.T) {
	cases := []struct {
		name     string
		date     time.Time
		duration constants.CompOffDuration
		want     float64
	}{
		{"воскресенье, полный день", day(9), constants.CompOffFullDay, 1},
		{"воскресенье, полдня", day(9), constants.CompOffHalfDay, 0.5},
		{"праздник в будний день", day(12), constants.CompOffFullDay, 1},
		{"сегодня", day(16), constants.CompOffFullDay, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newCompOffFixture()
			f.holidays.dates = []time.Time{day(12)}

			entry := compOffOn(tc.date, tc.duration)
			require.NoError(t, f.svc.applyRules(context.Background(), nil, testEmployee(), entry))
			assert.Equal(t, tc.want, entry.Days)
		})
	}
}

func TestCompOffRulesRejects(t *testing.T) {
	cases := []struct {
		name     string
		date     time.Time
		duration constants.CompOffDuration
	}{
		{"дата в будущем", day(23), constants.CompOffFullDay},
		{"рабочий день", day(10), constants.CompOffFullDay},
		{"до даты приёма", time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), constants.CompOffFullDay},
		{"неизвестная длительность", day(9), constants.CompOffDuration("QUARTER")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newCompOffFixture()
			err := f.svc.applyRules(context.Background(), nil, testEmployee(), compOffOn(tc.date, tc.duration))
			requireHTTPCode(t, err, http.StatusBadRequest)
		})
	}
}

func TestCompOffRulesDuplicateDate(t *testing.T) {
	f := newCompOffFixture()
	f.repo.taken = []entities.CompOffEntry{{ID: 8, EmployeeID: employeeID, WorkedDate: day(9)}}

	requireHTTPCode(t, f.svc.applyRules(context.Background(), nil, testEmployee(), compOffOn(day(9), constants.CompOffFullDay)), http.StatusConflict)

	own := compOffOn(day(9), constants.CompOffHalfDay)
	own.ID = 8
	assert.NoError(t, f.svc.applyRules(context.Background(), nil, testEmployee(), own))
}

func TestCreateCompOffEntry(t *testing.T) {
	f := newCompOffFixture()

	got, err := f.svc.CreateCompOffEntry(actorCtx(100, employeeID, "entries:create"), dto.CreateCompOffEntryDTO{
		WorkedDate: "2025-03-16", Duration: string(constants.CompOffFullDay), Reason: "инвентаризация",
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(31), got.ID)
	assert.Equal(t, 1.0, f.repo.created.Days)
	assert.Equal(t, constants.StatusPending, f.repo.created.Status)
	assert.Equal(t, []string{"MANAGER", "HR"}, f.approvals.created[entryKey{constants.KindCompOff, 31}])
}

func TestCreateCompOffEntryFutureDate(t *testing.T) {
	f := newCompOffFixture()

	_, err := f.svc.CreateCompOffEntry(actorCtx(100, employeeID, "entries:create"), dto.CreateCompOffEntryDTO{
		WorkedDate: "2025-03-23", Duration: string(constants.CompOffFullDay), Reason: "выйду",
	})
	requireHTTPCode(t, err, http.StatusBadRequest)
	assert.Nil(t, f.repo.created)
	assert.Empty(t, f.approvals.created)
}

func TestUpdateCompOffEntryInactiveEmployee(t *testing.T) {
	f := newCompOffFixture()
	f.employees.byID[employeeID].IsActive = false
	f.repo.byID[6] = &dto.CompOffEntryDTO{CompOffEntry: entities.CompOffEntry{
		ID: 6, EmployeeID: employeeID, WorkedDate: day(9), Duration: constants.CompOffFullDay, Days: 1,
		Status: constants.StatusPending, CreatedBy: 100,
	}}
	f.approvals.add(entities.EntryHeader{
		Kind: constants.KindCompOff, ID: 6, EmployeeID: employeeID, Status: constants.StatusPending, CreatedBy: 100,
	}, "MANAGER", "HR")
	half := string(constants.CompOffHalfDay)

	_, err := f.svc.UpdateCompOffEntry(actorCtx(100, 0, "entries:manage"), 6, dto.UpdateCompOffEntryDTO{Duration: &half})
	requireHTTPCode(t, err, http.StatusBadRequest)
	assert.Nil(t, f.repo.updated)
}
