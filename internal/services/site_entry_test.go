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

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCompanyRepo struct {
	repositories.CompanyRepositoryInterface
	companies map[uint64]*entities.Company
	sites     map[uint64]*entities.Site
}

func (r *fakeCompanyRepo) FindCompany(ctx context.Context, id uint64) (*entities.Company, error) {
	c, ok := r.companies[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return c, nil
}

func (r *fakeCompanyRepo) FindSite(ctx context.Context, id uint64) (*entities.Site, error) {
	s, ok := r.sites[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return s, nil
}

func testCompanies() *fakeCompanyRepo {
	return &fakeCompanyRepo{
		companies: map[uint64]*entities.Company{
			1: {ID: 1, Code: "C1", IsActive: true},
		},
		sites: map[uint64]*entities.Site{
			1: {ID: 1, CompanyID: 1, Code: "S1", IsActive: true},
			2: {ID: 2, CompanyID: 2, Code: "S2", IsActive: true},
			3: {ID: 3, CompanyID: 1, Code: "S3", IsActive: false},
		},
	}
}

type fakeSiteEntryRepo struct {
	repositories.SiteEntryRepositoryInterface
	byID    map[uint64]*dto.SiteEntryDTO
	locked  []uint64
	created *entities.SiteEntry
	updated *entities.SiteEntry
}

func (r *fakeSiteEntryRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*dto.SiteEntryDTO, error) {
	e, ok := r.byID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *e
	return &copied, nil
}

func (r *fakeSiteEntryRepo) LockByID(ctx context.Context, tx pgx.Tx, id uint64) (*dto.SiteEntryDTO, error) {
	r.locked = append(r.locked, id)
	return r.FindByID(ctx, tx, id)
}

func (r *fakeSiteEntryRepo) Create(ctx context.Context, tx pgx.Tx, e *entities.SiteEntry) (uint64, error) {
	copied := *e
	copied.ID = 12
	r.created = &copied
	r.byID[copied.ID] = &dto.SiteEntryDTO{SiteEntry: copied}
	return copied.ID, nil
}

func (r *fakeSiteEntryRepo) Update(ctx context.Context, tx pgx.Tx, e *entities.SiteEntry) error {
	copied := *e
	r.updated = &copied
	r.byID[e.ID].SiteEntry = copied
	return nil
}

type siteFixture struct {
	svc       *SiteEntryService
	repo      *fakeSiteEntryRepo
	employees *fakeEmployeeRepo
	approvals *fakeApprovalRepo
}

func newSiteFixture() siteFixture {
	repo := &fakeSiteEntryRepo{byID: make(map[uint64]*dto.SiteEntryDTO)}
	shifts := &fakeShiftRepo{shifts: map[uint64]*entities.Shift{
		5: {ID: 5, Code: "DAY", BreakMinutes: 60, IsActive: true},
		7: {ID: 7, Code: "NIGHT", BreakMinutes: 30, IsActive: true},
	}}
	approvals := newFakeApprovalRepo()
	employees := &fakeEmployeeRepo{byID: map[uint64]*entities.Employee{employeeID: testEmployee()}}
	support := NewEntrySupport(&fakeTx{}, employees, &fakeHolidayRepo{}, approvals, config.DefaultWorkflow(), testPolicy, zap.NewNop())
	svc := NewSiteEntryService(repo, testCompanies(), shifts, support, zap.NewNop()).(*SiteEntryService)
	return siteFixture{svc: svc, repo: repo, employees: employees, approvals: approvals}
}

func siteVisit(siteID uint64, shiftID int64, in, out string) *entities.SiteEntry {
	e := &entities.SiteEntry{EmployeeID: employeeID, SiteID: siteID, Date: day(10), InTime: in}
	if shiftID != 0 {
		e.ShiftID = null.Int64From(shiftID)
	}
	if out != "" {
		e.OutTime = null.StringFrom(out)
	}
	return e
}

func TestSiteRulesHours(t *testing.T) {
	cases := []struct {
		name  string
		entry *entities.SiteEntry
		want  null.Float64
	}{
		{"без смены", siteVisit(1, 0, "09:00", "18:00"), null.Float64From(9)},
		{"перерыв смены вычитается", siteVisit(1, 5, "09:00", "18:00"), null.Float64From(8)},
		{"ночная смена через полночь", siteVisit(1, 7, "22:00", "06:00"), null.Float64From(7.5)},
		{"без времени ухода", siteVisit(1, 5, "09:00", ""), null.Float64{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newSiteFixture()
			require.NoError(t, f.svc.applyRules(context.Background(), nil, testEmployee(), tc.entry))
			assert.Equal(t, tc.want, tc.entry.Hours)
		})
	}
}

func TestSiteRulesRejects(t *testing.T) {
	cases := []struct {
		name  string
		entry *entities.SiteEntry
	}{
		{"площадка другой компании", siteVisit(2, 0, "09:00", "18:00")},
		{"неактивная площадка", siteVisit(3, 0, "09:00", "18:00")},
		{"нет площадки", siteVisit(99, 0, "09:00", "18:00")},
		{"нет смены", siteVisit(1, 99, "09:00", "18:00")},
		{"неверное время", siteVisit(1, 0, "9 утра", "18:00")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newSiteFixture()
			requireHTTPCode(t, f.svc.applyRules(context.Background(), nil, testEmployee(), tc.entry), http.StatusBadRequest)
		})
	}
}

func TestSiteRulesBeforeJoining(t *testing.T) {
	f := newSiteFixture()
	entry := siteVisit(1, 0, "09:00", "18:00")
	entry.Date = time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)

	requireHTTPCode(t, f.svc.applyRules(context.Background(), nil, testEmployee(), entry), http.StatusBadRequest)
}

func TestCreateSiteEntryApprovedWithoutStages(t *testing.T) {
	f := newSiteFixture()
	out := "17:30"

	got, err := f.svc.CreateSiteEntry(actorCtx(100, employeeID, "entries:create"), dto.CreateSiteEntryDTO{
		SiteID: 1, Date: "2025-03-10", InTime: "09:00", OutTime: &out,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(12), got.ID)
	assert.Equal(t, constants.StatusApproved, f.repo.created.Status)
	assert.Equal(t, null.Float64From(8.5), f.repo.created.Hours)
	assert.Empty(t, f.approvals.created)
}

func (f siteFixture) existingVisit() {
	f.repo.byID[4] = &dto.SiteEntryDTO{SiteEntry: entities.SiteEntry{
		ID: 4, EmployeeID: employeeID, SiteID: 1, Date: day(10), InTime: "09:00",
		Status: constants.StatusApproved, CreatedBy: 100,
	}}
}

func TestUpdateSiteEntryLocksRow(t *testing.T) {
	f := newSiteFixture()
	f.existingVisit()
	out := "18:00"

	got, err := f.svc.UpdateSiteEntry(actorCtx(100, employeeID, "entries:create"), 4, dto.UpdateSiteEntryDTO{OutTime: &out})
	require.NoError(t, err)
	assert.Equal(t, []uint64{4}, f.repo.locked)
	assert.Equal(t, null.Float64From(9), got.Hours)
}

func TestUpdateSiteEntryInactiveEmployee(t *testing.T) {
	f := newSiteFixture()
	f.employees.byID[employeeID].IsActive = false
	f.existingVisit()
	out := "18:00"

	_, err := f.svc.UpdateSiteEntry(actorCtx(100, 0, "entries:manage"), 4, dto.UpdateSiteEntryDTO{OutTime: &out})
	requireHTTPCode(t, err, http.StatusBadRequest)
	assert.Nil(t, f.repo.updated)
}
