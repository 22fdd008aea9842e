package services

import (
	"net/http"
	"testing"

	"hr-system/config"
	"hr-system/internal/authz"
	"hr-system/internal/dto"
	"hr-system/internal/entities"
	"hr-system/internal/events"
	"hr-system/pkg/constants"
	"hr-system/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	employeeID = uint64(10)
	managerID  = uint64(20)
	hrUserID   = uint64(300)
)

func newApprovalFixture() (*ApprovalService, *fakeApprovalRepo, *recordingPublisher) {
	repo := newFakeApprovalRepo()
	pub := &recordingPublisher{}
	svc := NewApprovalService(&fakeTx{}, repo, config.DefaultWorkflow(), pub, zap.NewNop()).(*ApprovalService)
	repo.add(entities.EntryHeader{
		Kind: constants.KindLeave, ID: 1, EmployeeID: employeeID, ManagerID: managerID,
		Status: constants.StatusPending, CreatedBy: 100,
	}, "MANAGER", "HR")
	return svc, repo, pub
}

func TestDecideFullChain(t *testing.T) {
	svc, repo, pub := newApprovalFixture()

	res, err := svc.Decide(actorCtx(200, managerID), constants.KindLeave, 1, dto.DecisionDTO{Decision: "APPROVE"})
	require.NoError(t, err)
	assert.Equal(t, "MANAGER", res.StageName)
	assert.Equal(t, constants.StatusPending, res.EntryStatus)

	res, err = svc.Decide(actorCtx(hrUserID, 0, authz.ApprovalsHR), constants.KindLeave, 1, dto.DecisionDTO{Decision: "APPROVE"})
	require.NoError(t, err)
	assert.Equal(t, "HR", res.StageName)
	assert.Equal(t, constants.StatusApproved, res.EntryStatus)
	assert.Equal(t, constants.StatusApproved, repo.headers[entryKey{constants.KindLeave, 1}].Status)

	require.Len(t, pub.events, 2)
	last := pub.events[1].(events.ApprovalDecidedEvent)
	assert.Equal(t, employeeID, last.EmployeeID)
	assert.Equal(t, constants.StatusApproved, last.EntryStatus)
}

func TestDecideOutOfOrderForbidden(t *testing.T) {
	svc, _, pub := newApprovalFixture()

	// HR не может решать, пока не согласовал руководитель.
	_, err := svc.Decide(actorCtx(hrUserID, 0, authz.ApprovalsHR), constants.KindLeave, 1, dto.DecisionDTO{Decision: "APPROVE"})
	requireHTTPCode(t, err, http.StatusForbidden)
	assert.Empty(t, pub.events)
}

func TestDecideSelfApprovalForbidden(t *testing.T) {
	svc, _, _ := newApprovalFixture()

	_, err := svc.Decide(actorCtx(100, employeeID, authz.ApprovalsOverride), constants.KindLeave, 1, dto.DecisionDTO{Decision: "APPROVE"})
	requireHTTPCode(t, err, http.StatusForbidden)
}

func TestDecideRejectRequiresNote(t *testing.T) {
	for _, note := range []string{"", "   ", "\n\t"} {
		svc, repo, pub := newApprovalFixture()

		_, err := svc.Decide(actorCtx(200, managerID), constants.KindLeave, 1, dto.DecisionDTO{Decision: "REJECT", Note: note})
		requireHTTPCode(t, err, http.StatusBadRequest)
		assert.Equal(t, constants.StatusPending, repo.headers[entryKey{constants.KindLeave, 1}].Status, "причина %q", note)
		assert.Empty(t, pub.events)
	}
}

func TestDecideRejectFinalizes(t *testing.T) {
	svc, repo, _ := newApprovalFixture()

	res, err := svc.Decide(actorCtx(200, managerID), constants.KindLeave, 1, dto.DecisionDTO{Decision: "REJECT", Note: "  нет замены "})
	require.NoError(t, err)
	assert.Equal(t, constants.StatusRejected, res.EntryStatus)
	assert.Equal(t, constants.StatusRejected, repo.headers[entryKey{constants.KindLeave, 1}].Status)
	assert.Equal(t, "нет замены", repo.stages[entryKey{constants.KindLeave, 1}][0].Note.String)

	// повторное решение по закрытой заявке
	_, err = svc.Decide(actorCtx(hrUserID, 0, authz.ApprovalsHR), constants.KindLeave, 1, dto.DecisionDTO{Decision: "APPROVE"})
	requireHTTPCode(t, err, http.StatusConflict)
}

func TestDecideOverrideAnyStage(t *testing.T) {
	svc, _, _ := newApprovalFixture()

	res, err := svc.Decide(actorCtx(400, 0, authz.ApprovalsOverride), constants.KindLeave, 1, dto.DecisionDTO{Decision: "APPROVE"})
	require.NoError(t, err)
	assert.Equal(t, "MANAGER", res.StageName)
}

func TestBulkDecideReportsPerItem(t *testing.T) {
	svc, repo, _ := newApprovalFixture()
	repo.add(entities.EntryHeader{
		Kind: constants.KindLeave, ID: 2, EmployeeID: 11, ManagerID: 99, Status: constants.StatusPending,
	}, "MANAGER", "HR")

	results, err := svc.BulkDecide(actorCtx(200, managerID), constants.KindLeave, dto.BulkDecisionDTO{
		EntryIDs: []uint64{1, 2, 1, 3},
		Decision: "APPROVE",
	})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.True(t, results[0].OK)
	assert.False(t, results[1].OK, "чужой подчинённый")
	assert.False(t, results[2].OK, "нет такой заявки")
	assert.NotEmpty(t, results[2].Error)
}

func TestInboxQuery(t *testing.T) {
	svc, repo, _ := newApprovalFixture()

	_, _, err := svc.Inbox(actorCtx(hrUserID, managerID, authz.ApprovalsHR), nil, types.Filter{Limit: 10})
	require.NoError(t, err)

	q := repo.inbox
	assert.Equal(t, constants.ApprovableKinds, q.Kinds)
	assert.Equal(t, []string{"MANAGER"}, q.ManagerStages[constants.KindTravel])
	assert.Equal(t, []string{"HR"}, q.PermissionStages[constants.KindLeave])
	assert.Empty(t, q.PermissionStages[constants.KindTravel])
	assert.False(t, q.AnyStage)
}

func TestHistoryVisibility(t *testing.T) {
	svc, _, _ := newApprovalFixture()

	h, err := svc.History(actorCtx(100, employeeID), constants.KindLeave, 1)
	require.NoError(t, err)
	require.NotNil(t, h.CurrentStage)
	assert.Equal(t, 1, *h.CurrentStage)
	assert.Len(t, h.Stages, 2)

	_, err = svc.History(actorCtx(500, 77), constants.KindLeave, 1)
	require.Error(t, err)
}
