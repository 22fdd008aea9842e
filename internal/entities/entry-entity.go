package entities

import (
	"time"

	"hr-system/pkg/constants"

	"github.com/aarondl/null/v8"
)

type LeaveEntry struct {
	ID           uint64                 `json:"id"`
	EmployeeID   uint64                 `json:"employee_id"`
	LeaveTypeID  uint64                 `json:"leave_type_id"`
	FromDate     time.Time              `json:"from_date"`
	ToDate       time.Time              `json:"to_date"`
	DurationType constants.DurationType `json:"duration_type"`
	Reason       string                 `json:"reason"`
	Days         float64                `json:"days"`
	Status       constants.Status       `json:"status"`
	CreatedBy    uint64                 `json:"created_by"`
	Timestamps
}

type CompOffEntry struct {
	ID         uint64                    `json:"id"`
	EmployeeID uint64                    `json:"employee_id"`
	WorkedDate time.Time                 `json:"worked_date"`
	Duration   constants.CompOffDuration `json:"duration"`
	Reason     string                    `json:"reason"`
	Days       float64                   `json:"days"`
	Status     constants.Status          `json:"status"`
	CreatedBy  uint64                    `json:"created_by"`
	Timestamps
}

// PermissionEntry - отлучка на несколько часов в течение рабочего дня.
type PermissionEntry struct {
	ID         uint64           `json:"id"`
	EmployeeID uint64           `json:"employee_id"`
	Date       time.Time        `json:"date"`
	FromTime   string           `json:"from_time"`
	ToTime     string           `json:"to_time"`
	Reason     string           `json:"reason"`
	Hours      float64          `json:"hours"`
	Status     constants.Status `json:"status"`
	CreatedBy  uint64           `json:"created_by"`
	Timestamps
}

type SiteEntry struct {
	ID         uint64           `json:"id"`
	EmployeeID uint64           `json:"employee_id"`
	SiteID     uint64           `json:"site_id"`
	Date       time.Time        `json:"date"`
	ShiftID    null.Int64       `json:"shift_id"`
	InTime     string           `json:"in_time"`
	OutTime    null.String      `json:"out_time"`
	Remarks    null.String      `json:"remarks"`
	Hours      null.Float64     `json:"hours"`
	Status     constants.Status `json:"status"`
	CreatedBy  uint64           `json:"created_by"`
	Timestamps
}

// TravelClaim - заявка на возмещение командировочных (TADA).
type TravelClaim struct {
	ID           uint64           `json:"id"`
	EmployeeID   uint64           `json:"employee_id"`
	FromDate     time.Time        `json:"from_date"`
	ToDate       time.Time        `json:"to_date"`
	FromPlace    string           `json:"from_place"`
	ToPlace      string           `json:"to_place"`
	Purpose      string           `json:"purpose"`
	TravelAmount float64          `json:"travel_amount"`
	OtherAmount  float64          `json:"other_amount"`
	DADays       int              `json:"da_days"`
	DAAmount     float64          `json:"da_amount"`
	TotalAmount  float64          `json:"total_amount"`
	Status       constants.Status `json:"status"`
	CreatedBy    uint64           `json:"created_by"`
	Timestamps
}
