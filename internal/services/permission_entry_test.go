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
	pkgconfig "hr-system/pkg/config"
	"hr-system/pkg/constants"
	apperrors "hr-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePermissionRepo struct {
	repositories.PermissionEntryRepositoryInterface
	sameDay   []entities.PermissionEntry
	monthUsed float64
	created   *entities.PermissionEntry
}

func (r *fakePermissionRepo) ListForDate(ctx context.Context, tx pgx.Tx, employeeID uint64, date time.Time, excludeID uint64) ([]entities.PermissionEntry, error) {
	return r.sameDay, nil
}

func (r *fakePermissionRepo) SumHours(ctx context.Context, tx pgx.Tx, employeeID uint64, from, to time.Time, excludeID uint64) (float64, error) {
	return r.monthUsed, nil
}

func (r *fakePermissionRepo) Create(ctx context.Context, tx pgx.Tx, e *entities.PermissionEntry) (uint64, error) {
	copied := *e
	copied.ID = 42
	r.created = &copied
	return copied.ID, nil
}

func (r *fakePermissionRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*dto.PermissionEntryDTO, error) {
	if r.created == nil || r.created.ID != id {
		return nil, apperrors.ErrNotFound
	}
	return &dto.PermissionEntryDTO{PermissionEntry: *r.created}, nil
}

type fakeEmployeeRepo struct {
	repositories.EmployeeRepositoryInterface
	byID map[uint64]*entities.Employee
}

func (r *fakeEmployeeRepo) LockByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Employee, error) {
	return r.FindByID(ctx, tx, id)
}

func (r *fakeEmployeeRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Employee, error) {
	e, ok := r.byID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return e, nil
}

var testPolicy = pkgconfig.PolicyConfig{
	MaxPermissionHoursPerDay:   2,
	MaxPermissionHoursPerMonth: 4,
	CompOffValidityDays:        90,
	DailyAllowanceRate:         500,
	WeeklyOff:                  []time.Weekday{time.Sunday},
}

func testEmployee() *entities.Employee {
	return &entities.Employee{
		ID: employeeID, Code: "E10", CompanyID: 1, IsActive: true,
		DateOfJoining: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func newPermissionFixture() (*PermissionEntryService, *fakePermissionRepo, *fakeApprovalRepo) {
	repo := &fakePermissionRepo{}
	approvals := newFakeApprovalRepo()
	employees := &fakeEmployeeRepo{byID: map[uint64]*entities.Employee{employeeID: testEmployee()}}
	support := NewEntrySupport(&fakeTx{}, employees, nil, approvals, config.DefaultWorkflow(), testPolicy, zap.NewNop())
	svc := NewPermissionEntryService(repo, support, zap.NewNop()).(*PermissionEntryService)
	return svc, repo, approvals
}

func permissionOn(from, to string) *entities.PermissionEntry {
	return &entities.PermissionEntry{
		EmployeeID: employeeID,
		Date:       time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		FromTime:   from,
		ToTime:     to,
	}
}

func TestPermissionRulesHours(t *testing.T) {
	svc, _, _ := newPermissionFixture()

	entry := permissionOn("10:00", "11:30")
	require.NoError(t, svc.applyRules(context.Background(), nil, testEmployee(), entry))
	assert.Equal(t, 1.5, entry.Hours)
}

func TestPermissionRulesDailyCap(t *testing.T) {
	svc, repo, _ := newPermissionFixture()
	repo.sameDay = []entities.PermissionEntry{{ID: 1, FromTime: "09:00", ToTime: "10:00", Hours: 1}}

	err := svc.applyRules(context.Background(), nil, testEmployee(), permissionOn("15:00", "16:30"))
	requireHTTPCode(t, err, http.StatusBadRequest)
	assert.Contains(t, err.Error(), "дневной")
}

func TestPermissionRulesOverlap(t *testing.T) {
	svc, repo, _ := newPermissionFixture()
	repo.sameDay = []entities.PermissionEntry{{ID: 7, FromTime: "10:00", ToTime: "11:00", Hours: 1}}

	err := svc.applyRules(context.Background(), nil, testEmployee(), permissionOn("10:30", "11:00"))
	requireHTTPCode(t, err, http.StatusConflict)
}

func TestPermissionRulesMonthlyCap(t *testing.T) {
	svc, repo, _ := newPermissionFixture()
	repo.monthUsed = 3.5

	err := svc.applyRules(context.Background(), nil, testEmployee(), permissionOn("10:00", "11:00"))
	requireHTTPCode(t, err, http.StatusBadRequest)
	assert.Contains(t, err.Error(), "месячный")

	repo.monthUsed = 3
	assert.NoError(t, svc.applyRules(context.Background(), nil, testEmployee(), permissionOn("10:00", "11:00")))
}

func TestPermissionRulesBeforeJoining(t *testing.T) {
	svc, _, _ := newPermissionFixture()
	entry := permissionOn("10:00", "11:00")
	entry.Date = time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)

	requireHTTPCode(t, svc.applyRules(context.Background(), nil, testEmployee(), entry), http.StatusBadRequest)
}

func TestCreatePermissionEntryCreatesStages(t *testing.T) {
	svc, repo, approvals := newPermissionFixture()

	got, err := svc.CreatePermissionEntry(actorCtx(100, employeeID, "entries:create"), dto.CreatePermissionEntryDTO{
		Date: "2025-03-10", FromTime: "10:00", ToTime: "11:00", Reason: "банк",
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(42), got.ID)
	assert.Equal(t, constants.StatusPending, repo.created.Status)
	assert.Equal(t, uint64(100), repo.created.CreatedBy)
	assert.Equal(t, []string{"MANAGER"}, approvals.created[entryKey{constants.KindPermission, 42}])
}

func TestCreatePermissionEntryForOtherNeedsManage(t *testing.T) {
	svc, _, _ := newPermissionFixture()
	other := employeeID

	_, err := svc.CreatePermissionEntry(actorCtx(100, 55, "entries:create"), dto.CreatePermissionEntryDTO{
		EmployeeID: &other, Date: "2025-03-10", FromTime: "10:00", ToTime: "11:00", Reason: "банк",
	})
	requireHTTPCode(t, err, http.StatusForbidden)
}

func TestUpdatePermissionEntryInactiveEmployee(t *testing.T) {
	svc, repo, approvals := newPermissionFixture()
	svc.support.employeeRepo.(*fakeEmployeeRepo).byID[employeeID].IsActive = false
	repo.created = permissionOn("10:00", "11:00")
	repo.created.ID = 42
	repo.created.Status = constants.StatusPending
	approvals.add(entities.EntryHeader{
		Kind: constants.KindPermission, ID: 42, EmployeeID: employeeID, Status: constants.StatusPending, CreatedBy: 100,
	}, "MANAGER")
	to := "11:30"

	_, err := svc.UpdatePermissionEntry(actorCtx(100, 0, "entries:manage"), 42, dto.UpdatePermissionEntryDTO{ToTime: &to})
	requireHTTPCode(t, err, http.StatusBadRequest)
	assert.Contains(t, err.Error(), "неактивен")
	assert.Equal(t, "11:00", repo.created.ToTime)
}
