package services

import (
	"testing"

	"hr-system/internal/entities"
	"hr-system/internal/repositories"
	apperrors "hr-system/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newBalanceFixture() (BalanceServiceInterface, *fakeLeaveRepo, *fakeCompOffRepo) {
	leaves := &fakeLeaveRepo{}
	compOffs := &fakeCompOffRepo{}
	employees := &fakeEmployeeRepo{byID: map[uint64]*entities.Employee{employeeID: testEmployee()}}
	svc := NewBalanceService(employees, leaves, testLeaveTypes(), compOffs, testPolicy.CompOffValidityDays, zap.NewNop())
	return svc, leaves, compOffs
}

func TestLeaveBalance(t *testing.T) {
	svc, leaves, _ := newBalanceFixture()
	leaves.usage = map[uint64]repositories.LeaveUsage{
		1: {Approved: 4, Pending: 1.5},
		2: {Approved: 3},
		3: {Approved: 2},
	}

	got, err := svc.LeaveBalance(actorCtx(100, employeeID), employeeID, 2025)
	require.NoError(t, err)
	assert.Equal(t, 2025, got.Year)
	require.Len(t, got.Balances, 2, "отгулы считаются отдельно")

	cl := got.Balances[0]
	assert.Equal(t, "CL", cl.Code)
	require.NotNil(t, cl.Quota)
	require.NotNil(t, cl.Remaining)
	assert.Equal(t, 12.0, *cl.Quota)
	assert.Equal(t, 6.5, *cl.Remaining, "остаток = квота - одобрено - на согласовании")
	assert.Equal(t, 4.0, cl.Used)
	assert.Equal(t, 1.5, cl.Pending)

	lop := got.Balances[1]
	assert.Equal(t, "LOP", lop.Code)
	assert.Nil(t, lop.Quota)
	assert.Nil(t, lop.Remaining)
	assert.Equal(t, 2.0, lop.Used)
}

func TestCompOffBalance(t *testing.T) {
	cases := []struct {
		name         string
		earned, used float64
		want         float64
	}{
		{"есть остаток", 2, 0.5, 1.5},
		{"израсходовано больше заработанного", 1, 2.5, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, leaves, compOffs := newBalanceFixture()
			compOffs.approvedDays = tc.earned
			leaves.compOffUsed = tc.used

			got, err := svc.CompOffBalance(actorCtx(100, employeeID), employeeID, day(10))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Balance)
			assert.Equal(t, tc.earned, got.Earned)
			assert.Equal(t, tc.used, got.Used)
			assert.Equal(t, 90, got.ValidityDays)
			assert.Equal(t, "2025-03-10", got.Date)
		})
	}
}

func TestBalanceAccess(t *testing.T) {
	svc, _, _ := newBalanceFixture()

	_, err := svc.LeaveBalance(actorCtx(100, 55), employeeID, 2025)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = svc.CompOffBalance(actorCtx(100, 55, "entries:view:all"), employeeID, day(10))
	assert.NoError(t, err)

	_, err = svc.LeaveBalance(actorCtx(100, 55, "entries:view:all"), 404, 2025)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
