package entities

import (
	"time"

	"hr-system/pkg/constants"

	"github.com/aarondl/null/v8"
)

type ShiftRoster struct {
	ID          uint64               `json:"id"`
	CompanyID   uint64               `json:"company_id"`
	SiteID      null.Int64           `json:"site_id"`
	Name        string               `json:"name"`
	PeriodType  constants.PeriodType `json:"period_type"`
	PeriodStart time.Time            `json:"period_start"`
	PeriodEnd   time.Time            `json:"period_end"`
	CreatedBy   uint64               `json:"created_by"`
	Timestamps
}

// Contains - дата попадает в период графика.
func (r *ShiftRoster) Contains(d time.Time) bool {
	return !d.Before(r.PeriodStart) && !d.After(r.PeriodEnd)
}

type ShiftAssignment struct {
	ID         uint64    `json:"id"`
	RosterID   uint64    `json:"roster_id"`
	EmployeeID uint64    `json:"employee_id"`
	ShiftID    uint64    `json:"shift_id"`
	WorkDate   time.Time `json:"work_date"`
	CreatedAt  time.Time `json:"created_at"`
}
