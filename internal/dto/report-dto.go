package dto

import (
	"time"

	"hr-system/pkg/constants"
)

// ReportFilter - общие фильтры отчётов.
type ReportFilter struct {
	DateFrom    *time.Time
	DateTo      *time.Time
	CompanyID   uint64
	SiteID      uint64
	EmployeeIDs []uint64
	Status      constants.Status
	Year        int
	Limit       int
	Offset      int
	Paginate    bool
}

type ReportEmployee struct {
	EmployeeID   uint64 `json:"employee_id"`
	EmployeeCode string `json:"employee_code"`
	EmployeeName string `json:"employee_name"`
	CompanyName  string `json:"company_name"`
	SiteName     string `json:"site_name,omitempty"`
}

type ApprovalProgress struct {
	ApprovedStages int `json:"approved_stages"`
	TotalStages    int `json:"total_stages"`
}

type LeaveReportRow struct {
	ReportEmployee
	ApprovalProgress
	EntryID       uint64           `json:"entry_id"`
	LeaveTypeName string           `json:"leave_type_name"`
	FromDate      time.Time        `json:"from_date"`
	ToDate        time.Time        `json:"to_date"`
	DurationType  string           `json:"duration_type"`
	Days          float64          `json:"days"`
	Status        constants.Status `json:"status"`
}

type PermissionReportRow struct {
	ReportEmployee
	ApprovalProgress
	EntryID  uint64           `json:"entry_id"`
	Date     time.Time        `json:"date"`
	FromTime string           `json:"from_time"`
	ToTime   string           `json:"to_time"`
	Hours    float64          `json:"hours"`
	Status   constants.Status `json:"status"`
}

type CompOffReportRow struct {
	ReportEmployee
	ApprovalProgress
	EntryID    uint64           `json:"entry_id"`
	WorkedDate time.Time        `json:"worked_date"`
	Duration   string           `json:"duration"`
	Days       float64          `json:"days"`
	Status     constants.Status `json:"status"`
}

type TravelReportRow struct {
	ReportEmployee
	ApprovalProgress
	EntryID     uint64           `json:"entry_id"`
	FromDate    time.Time        `json:"from_date"`
	ToDate      time.Time        `json:"to_date"`
	FromPlace   string           `json:"from_place"`
	ToPlace     string           `json:"to_place"`
	DADays      int              `json:"da_days"`
	TotalAmount float64          `json:"total_amount"`
	Status      constants.Status `json:"status"`
}

type RosterReportRow struct {
	ReportEmployee
	RosterID   uint64    `json:"roster_id"`
	RosterName string    `json:"roster_name"`
	WorkDate   time.Time `json:"work_date"`
	ShiftCode  string    `json:"shift_code"`
	ShiftName  string    `json:"shift_name"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
}

type LeaveBalanceReportRow struct {
	ReportEmployee
	LeaveTypeCode string   `json:"leave_type_code"`
	LeaveTypeName string   `json:"leave_type_name"`
	Quota         *float64 `json:"quota"`
	Used          float64  `json:"used"`
	Pending       float64  `json:"pending"`
	Remaining     *float64 `json:"remaining"`
}
