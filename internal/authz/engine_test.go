package authz

import (
	"testing"

	"hr-system/config"

	"github.com/stretchr/testify/assert"
)

func perms(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

var (
	managerStage = config.StageDef{Name: "MANAGER", Approver: config.ApproverReportingManager}
	hrStage      = config.StageDef{Name: "HR", Approver: config.ApproverPermission, Permission: ApprovalsHR}
	entryOwner   = Owner{EmployeeID: 10, ManagerID: 20, CreatedBy: 100}
)

func TestCanApproveStage(t *testing.T) {
	tests := []struct {
		name     string
		ctx      Context
		stage    config.StageDef
		expected bool
	}{
		{"manager on manager stage", Context{UserID: 200, EmployeeID: 20}, managerStage, true},
		{"stranger on manager stage", Context{UserID: 300, EmployeeID: 30}, managerStage, false},
		{"hr on manager stage", Context{UserID: 300, EmployeeID: 30, Permissions: perms(ApprovalsHR)}, managerStage, false},
		{"hr on hr stage", Context{UserID: 300, EmployeeID: 30, Permissions: perms(ApprovalsHR)}, hrStage, true},
		{"manager on hr stage", Context{UserID: 200, EmployeeID: 20}, hrStage, false},
		{"override on any stage", Context{UserID: 300, Permissions: perms(ApprovalsOverride)}, managerStage, true},
		{"superuser on hr stage", Context{UserID: 1, Permissions: perms(Superuser)}, hrStage, true},
		{"own entry with override", Context{UserID: 100, EmployeeID: 10, Permissions: perms(ApprovalsOverride)}, hrStage, false},
		{"own entry as superuser", Context{UserID: 100, EmployeeID: 10, Permissions: perms(Superuser)}, managerStage, false},
		{"unlinked user on manager stage", Context{UserID: 400}, managerStage, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CanApproveStage(tt.ctx, entryOwner, tt.stage))
		})
	}
}

func TestCanViewEntry(t *testing.T) {
	assert.True(t, CanViewEntry(Context{EmployeeID: 10}, entryOwner), "own")
	assert.True(t, CanViewEntry(Context{EmployeeID: 20}, entryOwner), "manager")
	assert.True(t, CanViewEntry(Context{UserID: 100}, entryOwner), "creator")
	assert.True(t, CanViewEntry(Context{UserID: 5, Permissions: perms(EntriesViewAll)}, entryOwner))
	assert.False(t, CanViewEntry(Context{UserID: 5, EmployeeID: 30}, entryOwner))
}

func TestCanEditEntry(t *testing.T) {
	assert.True(t, CanEditEntry(Context{EmployeeID: 10}, entryOwner))
	assert.True(t, CanEditEntry(Context{UserID: 100}, entryOwner))
	assert.False(t, CanEditEntry(Context{EmployeeID: 20}, entryOwner), "manager cannot edit")
	assert.False(t, CanEditEntry(Context{Permissions: perms(EntriesViewAll)}, entryOwner))
	assert.True(t, CanEditEntry(Context{Permissions: perms(EntriesManage)}, entryOwner))
}

func TestCanCreateEntryFor(t *testing.T) {
	assert.True(t, CanCreateEntryFor(Context{EmployeeID: 10, Permissions: perms(EntriesCreate)}, 10))
	assert.False(t, CanCreateEntryFor(Context{EmployeeID: 10}, 10), "no permission")
	assert.False(t, CanCreateEntryFor(Context{EmployeeID: 10, Permissions: perms(EntriesCreate)}, 11))
	assert.False(t, CanCreateEntryFor(Context{Permissions: perms(EntriesCreate)}, 0))
	assert.True(t, CanCreateEntryFor(Context{Permissions: perms(EntriesManage)}, 11))
}

func TestListScope(t *testing.T) {
	assert.True(t, ListScope(Context{Permissions: perms(EntriesViewAll)}).All)
	s := ListScope(Context{UserID: 7, EmployeeID: 3})
	assert.False(t, s.All)
	assert.Equal(t, uint64(3), s.EmployeeID)
	assert.Equal(t, uint64(3), s.ManagerID)
	assert.Equal(t, uint64(7), s.CreatedByID)
}
