package services

import (
	"context"
	"net/http"
	"testing"

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

type fakeTravelRepo struct {
	repositories.TravelClaimRepositoryInterface
	byID    map[uint64]*dto.TravelClaimDTO
	created *entities.TravelClaim
	updated *entities.TravelClaim
}

func (r *fakeTravelRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*dto.TravelClaimDTO, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *fakeTravelRepo) Create(ctx context.Context, tx pgx.Tx, e *entities.TravelClaim) (uint64, error) {
	copied := *e
	copied.ID = 21
	r.created = &copied
	r.byID[copied.ID] = &dto.TravelClaimDTO{TravelClaim: copied}
	return copied.ID, nil
}

func (r *fakeTravelRepo) Update(ctx context.Context, tx pgx.Tx, e *entities.TravelClaim) error {
	copied := *e
	r.updated = &copied
	r.byID[e.ID].TravelClaim = copied
	return nil
}

type travelFixture struct {
	svc       TravelClaimServiceInterface
	repo      *fakeTravelRepo
	employees *fakeEmployeeRepo
	approvals *fakeApprovalRepo
}

func newTravelFixture() travelFixture {
	repo := &fakeTravelRepo{byID: make(map[uint64]*dto.TravelClaimDTO)}
	approvals := newFakeApprovalRepo()
	employees := &fakeEmployeeRepo{byID: map[uint64]*entities.Employee{employeeID: testEmployee()}}
	support := NewEntrySupport(&fakeTx{}, employees, &fakeHolidayRepo{}, approvals, config.DefaultWorkflow(), testPolicy, zap.NewNop())
	return travelFixture{svc: NewTravelClaimService(repo, support, zap.NewNop()), repo: repo, employees: employees, approvals: approvals}
}

func travelPayload(from, to string) dto.CreateTravelClaimDTO {
	return dto.CreateTravelClaimDTO{
		FromDate: from, ToDate: to, FromPlace: "Москва", ToPlace: "Казань", Purpose: "монтаж",
		TravelAmount: 1200.5, OtherAmount: 300,
	}
}

func TestCreateTravelClaimStoresTotals(t *testing.T) {
	f := newTravelFixture()

	got, err := f.svc.CreateTravelClaim(actorCtx(100, employeeID, "entries:create"), travelPayload("2025-03-10", "2025-03-12"))
	require.NoError(t, err)
	require.NotNil(t, f.repo.created)
	assert.Equal(t, 3, f.repo.created.DADays)
	assert.Equal(t, 1500.0, f.repo.created.DAAmount)
	assert.Equal(t, 3000.5, f.repo.created.TotalAmount)
	assert.Equal(t, 3000.5, got.TotalAmount)
	assert.NotEmpty(t, f.approvals.created[entryKey{constants.KindTravel, 21}])
}

func TestCreateTravelClaimRejects(t *testing.T) {
	cases := []struct {
		name     string
		from, to string
	}{
		{"конец раньше начала", "2025-03-12", "2025-03-10"},
		{"до даты приёма", "2023-12-30", "2024-01-02"},
		{"неверная дата", "2025-13-01", "2025-13-02"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newTravelFixture()
			_, err := f.svc.CreateTravelClaim(actorCtx(100, employeeID, "entries:create"), travelPayload(tc.from, tc.to))
			requireHTTPCode(t, err, http.StatusBadRequest)
			assert.Nil(t, f.repo.created)
		})
	}
}

func (f travelFixture) pendingClaim() {
	f.repo.byID[21] = &dto.TravelClaimDTO{TravelClaim: entities.TravelClaim{
		ID: 21, EmployeeID: employeeID, FromDate: day(10), ToDate: day(12),
		TravelAmount: 1200.5, OtherAmount: 300, DADays: 3, DAAmount: 1500, TotalAmount: 3000.5,
		Status: constants.StatusPending, CreatedBy: 100,
	}}
	f.approvals.add(entities.EntryHeader{
		Kind: constants.KindTravel, ID: 21, EmployeeID: employeeID, Status: constants.StatusPending, CreatedBy: 100,
	}, "MANAGER")
}

func TestUpdateTravelClaimRecalculatesTotals(t *testing.T) {
	f := newTravelFixture()
	f.pendingClaim()
	to := "2025-03-13"
	other := 0.0

	got, err := f.svc.UpdateTravelClaim(actorCtx(100, employeeID, "entries:create"), 21, dto.UpdateTravelClaimDTO{ToDate: &to, OtherAmount: &other})
	require.NoError(t, err)
	require.NotNil(t, f.repo.updated)
	assert.Equal(t, 4, f.repo.updated.DADays)
	assert.Equal(t, 2000.0, f.repo.updated.DAAmount)
	assert.Equal(t, 3200.5, f.repo.updated.TotalAmount)
	assert.Equal(t, 3200.5, got.TotalAmount)
}

func TestUpdateTravelClaimInactiveEmployee(t *testing.T) {
	f := newTravelFixture()
	f.employees.byID[employeeID].IsActive = false
	f.pendingClaim()
	to := "2025-03-13"

	_, err := f.svc.UpdateTravelClaim(actorCtx(100, 0, "entries:manage"), 21, dto.UpdateTravelClaimDTO{ToDate: &to})
	requireHTTPCode(t, err, http.StatusBadRequest)
	assert.Nil(t, f.repo.updated)
}
