package authz

import (
	"hr-system/config"
)

// Context - кто действует и над чем.
type Context struct {
	UserID      uint64
	EmployeeID  uint64 // 0, если пользователь не привязан к сотруднику
	Permissions map[string]bool
}

func (c Context) HasPermission(permission string) bool {
	if c.Permissions == nil {
		return false
	}
	return c.Permissions[Superuser] || c.Permissions[permission]
}

// Owner - владелец записи: сотрудник, его руководитель и автор.
type Owner struct {
	EmployeeID uint64
	ManagerID  uint64
	CreatedBy  uint64
}

func (c Context) isSelf(o Owner) bool {
	return c.EmployeeID != 0 && c.EmployeeID == o.EmployeeID
}

func (c Context) isManager(o Owner) bool {
	return c.EmployeeID != 0 && o.ManagerID != 0 && c.EmployeeID == o.ManagerID
}

// CanCreateEntryFor: за себя с entries:create, за других с entries:manage.
func CanCreateEntryFor(ctx Context, employeeID uint64) bool {
	if ctx.HasPermission(EntriesManage) {
		return true
	}
	return ctx.EmployeeID != 0 && ctx.EmployeeID == employeeID && ctx.HasPermission(EntriesCreate)
}

// CanViewEntry: свои, подчинённых напрямую или все с entries:view:all.
func CanViewEntry(ctx Context, o Owner) bool {
	if ctx.HasPermission(EntriesViewAll) || ctx.HasPermission(EntriesManage) {
		return true
	}
	return ctx.isSelf(o) || ctx.isManager(o) || (o.CreatedBy != 0 && o.CreatedBy == ctx.UserID)
}

// CanEditEntry проверяет только личность. Статус записи проверяет сервис.
func CanEditEntry(ctx Context, o Owner) bool {
	if ctx.HasPermission(EntriesManage) {
		return true
	}
	return ctx.isSelf(o) || (o.CreatedBy != 0 && o.CreatedBy == ctx.UserID)
}

// EntryScope - какие записи попадают в списки пользователя.
type EntryScope struct {
	All         bool
	EmployeeID  uint64 // свои
	ManagerID   uint64 // подчинённые
	CreatedByID uint64 // созданные им
}

func ListScope(ctx Context) EntryScope {
	if ctx.HasPermission(EntriesViewAll) || ctx.HasPermission(EntriesManage) {
		return EntryScope{All: true}
	}
	return EntryScope{EmployeeID: ctx.EmployeeID, ManagerID: ctx.EmployeeID, CreatedByID: ctx.UserID}
}

// CanApproveStage - может ли пользователь принять решение на этапе.
func CanApproveStage(ctx Context, o Owner, stage config.StageDef) bool {
	if ctx.isSelf(o) {
		return false
	}
	if ctx.HasPermission(ApprovalsOverride) {
		return true
	}
	switch stage.Approver {
	case config.ApproverReportingManager:
		return ctx.isManager(o)
	case config.ApproverPermission:
		return stage.Permission != "" && ctx.HasPermission(stage.Permission)
	}
	return false
}
