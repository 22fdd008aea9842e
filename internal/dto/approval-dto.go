package dto

import (
	"time"

	"hr-system/internal/entities"
	"hr-system/pkg/constants"
)

type DecisionDTO struct {
	Decision string `json:"decision" validate:"required,decision"`
	Note     string `json:"note" validate:"omitempty,max=500"`
}

type BulkDecisionDTO struct {
	EntryIDs []uint64 `json:"entry_ids" validate:"required,min=1,max=100,dive,gt=0"`
	Decision string   `json:"decision" validate:"required,decision"`
	Note     string   `json:"note" validate:"omitempty,max=500"`
}

type BulkDecisionResultDTO struct {
	EntryID uint64 `json:"entry_id"`
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
}

// InboxItemDTO - этап, по которому пользователь может принять решение сейчас.
type InboxItemDTO struct {
	Kind         constants.EntryKind `json:"kind"`
	EntryID      uint64              `json:"entry_id"`
	ApprovalID   uint64              `json:"approval_id"`
	Stage        int                 `json:"stage"`
	StageName    string              `json:"stage_name"`
	TotalStages  int                 `json:"total_stages"`
	EmployeeID   uint64              `json:"employee_id"`
	EmployeeCode string              `json:"employee_code"`
	EmployeeName string              `json:"employee_name"`
	CreatedAt    time.Time           `json:"created_at"`
}

type ApprovalHistoryDTO struct {
	Kind         constants.EntryKind `json:"kind"`
	EntryID      uint64              `json:"entry_id"`
	EntryStatus  constants.Status    `json:"entry_status"`
	CurrentStage *int                `json:"current_stage"`
	Stages       []entities.Approval `json:"stages"`
}

// DecisionResultDTO - состояние записи после решения.
type DecisionResultDTO struct {
	Kind        constants.EntryKind `json:"kind"`
	EntryID     uint64              `json:"entry_id"`
	Stage       int                 `json:"stage"`
	StageName   string              `json:"stage_name"`
	StageStatus constants.Status    `json:"stage_status"`
	EntryStatus constants.Status    `json:"entry_status"`
}
