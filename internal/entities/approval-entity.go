package entities

import (
	"time"

	"hr-system/pkg/constants"

	"github.com/aarondl/null/v8"
)

// Approval - один этап согласования записи.
type Approval struct {
	ID         uint64           `json:"id"`
	EntryID    uint64           `json:"entry_id"`
	Stage      int              `json:"stage"`
	StageName  string           `json:"stage_name"`
	Status     constants.Status `json:"status"`
	ApproverID null.Int64       `json:"approver_id"`
	Note       null.String      `json:"note"`
	ActedAt    null.Time        `json:"acted_at"`
	CreatedAt  time.Time        `json:"created_at"`
}

// EntryHeader - общие поля любой согласуемой записи.
type EntryHeader struct {
	Kind       constants.EntryKind `json:"kind"`
	ID         uint64              `json:"id"`
	EmployeeID uint64              `json:"employee_id"`
	Status     constants.Status    `json:"status"`
	CreatedBy  uint64              `json:"created_by"`
	ManagerID  uint64              `json:"-"` // руководитель сотрудника на момент решения
}

type Notification struct {
	ID         uint64              `json:"id"`
	EmployeeID uint64              `json:"employee_id"`
	Title      string              `json:"title"`
	Message    string              `json:"message"`
	EntryKind  constants.EntryKind `json:"entry_kind"`
	EntryID    uint64              `json:"entry_id"`
	IsRead     bool                `json:"is_read"`
	CreatedAt  time.Time           `json:"created_at"`
}
