package events

import (
	"hr-system/pkg/constants"
)

const ApprovalDecidedName = "approval.decided"

// ApprovalDecidedEvent - по этапу заявки принято решение.
type ApprovalDecidedEvent struct {
	Kind        constants.EntryKind
	EntryID     uint64
	EmployeeID  uint64
	Stage       int
	StageName   string
	StageStatus constants.Status
	EntryStatus constants.Status
	ActorUserID uint64
	Note        string
}

// Name - реализуем интерфейс eventbus.Event
func (e ApprovalDecidedEvent) Name() string {
	return ApprovalDecidedName
}
