package dto

import (
	"time"

	"hr-system/internal/entities"
)

type CreateRosterDTO struct {
	CompanyID   uint64  `json:"company_id" validate:"required"`
	SiteID      *uint64 `json:"site_id" validate:"omitempty,gt=0"`
	Name        string  `json:"name" validate:"required,max=150"`
	PeriodType  string  `json:"period_type" validate:"required,period_type"`
	PeriodStart string  `json:"period_start" validate:"required,date_ymd"`
}

// AssignShiftDTO: либо явные даты, либо дни недели в пределах периода (либо весь период).
type AssignShiftDTO struct {
	EmployeeIDs []uint64 `json:"employee_ids" validate:"required,min=1,max=500,dive,gt=0"`
	ShiftID     uint64   `json:"shift_id" validate:"required"`
	Dates       []string `json:"dates" validate:"omitempty,max=31,dive,date_ymd"`
	Weekdays    []string `json:"weekdays" validate:"omitempty,weekday_list"`
}

type RemoveAssignmentsDTO struct {
	EmployeeIDs []uint64 `json:"employee_ids" validate:"required,min=1,dive,gt=0"`
	Dates       []string `json:"dates" validate:"omitempty,dive,date_ymd"`
}

type CopyRosterDTO struct {
	PeriodStart string  `json:"period_start" validate:"required,date_ymd"`
	Name        *string `json:"name" validate:"omitempty,min=1,max=150"`
}

type RosterAssignmentDTO struct {
	ID           uint64    `json:"id"`
	EmployeeID   uint64    `json:"employee_id"`
	EmployeeCode string    `json:"employee_code"`
	EmployeeName string    `json:"employee_name"`
	ShiftID      uint64    `json:"shift_id"`
	ShiftCode    string    `json:"shift_code"`
	WorkDate     time.Time `json:"work_date"`
}

type RosterDTO struct {
	entities.ShiftRoster
	Assignments []RosterAssignmentDTO `json:"assignments"`
}

type AssignResultDTO struct {
	Assigned int `json:"assigned"`
	Replaced int `json:"replaced"`
}

// AssignmentConflictDTO - почему сотруднику нельзя поставить смену на дату.
type AssignmentConflictDTO struct {
	EmployeeID uint64 `json:"employee_id"`
	Date       string `json:"date"`
	Reason     string `json:"reason"`
}
