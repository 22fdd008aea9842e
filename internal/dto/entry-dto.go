package dto

import "hr-system/internal/entities"

// EmployeeID во всех Create*DTO необязателен: по умолчанию заявка подаётся за себя.

type CreateLeaveEntryDTO struct {
	EmployeeID   *uint64 `json:"employee_id" validate:"omitempty,gt=0"`
	LeaveTypeID  uint64  `json:"leave_type_id" validate:"required"`
	FromDate     string  `json:"from_date" validate:"required,date_ymd"`
	ToDate       string  `json:"to_date" validate:"required,date_ymd"`
	DurationType string  `json:"duration_type" validate:"required,duration_type"`
	Reason       string  `json:"reason" validate:"required,max=500"`
}

type UpdateLeaveEntryDTO struct {
	LeaveTypeID  *uint64 `json:"leave_type_id" validate:"omitempty,gt=0"`
	FromDate     *string `json:"from_date" validate:"omitempty,date_ymd"`
	ToDate       *string `json:"to_date" validate:"omitempty,date_ymd"`
	DurationType *string `json:"duration_type" validate:"omitempty,duration_type"`
	Reason       *string `json:"reason" validate:"omitempty,min=1,max=500"`
}

type CreateCompOffEntryDTO struct {
	EmployeeID *uint64 `json:"employee_id" validate:"omitempty,gt=0"`
	WorkedDate string  `json:"worked_date" validate:"required,date_ymd"`
	Duration   string  `json:"duration" validate:"required,comp_off_duration"`
	Reason     string  `json:"reason" validate:"required,max=500"`
}

type UpdateCompOffEntryDTO struct {
	WorkedDate *string `json:"worked_date" validate:"omitempty,date_ymd"`
	Duration   *string `json:"duration" validate:"omitempty,comp_off_duration"`
	Reason     *string `json:"reason" validate:"omitempty,min=1,max=500"`
}

type CreatePermissionEntryDTO struct {
	EmployeeID *uint64 `json:"employee_id" validate:"omitempty,gt=0"`
	Date       string  `json:"date" validate:"required,date_ymd"`
	FromTime   string  `json:"from_time" validate:"required,clock_hhmm"`
	ToTime     string  `json:"to_time" validate:"required,clock_hhmm"`
	Reason     string  `json:"reason" validate:"required,max=500"`
}

type UpdatePermissionEntryDTO struct {
	Date     *string `json:"date" validate:"omitempty,date_ymd"`
	FromTime *string `json:"from_time" validate:"omitempty,clock_hhmm"`
	ToTime   *string `json:"to_time" validate:"omitempty,clock_hhmm"`
	Reason   *string `json:"reason" validate:"omitempty,min=1,max=500"`
}

type CreateSiteEntryDTO struct {
	EmployeeID *uint64 `json:"employee_id" validate:"omitempty,gt=0"`
	SiteID     uint64  `json:"site_id" validate:"required"`
	Date       string  `json:"date" validate:"required,date_ymd"`
	ShiftID    *uint64 `json:"shift_id" validate:"omitempty,gt=0"`
	InTime     string  `json:"in_time" validate:"required,clock_hhmm"`
	OutTime    *string `json:"out_time" validate:"omitempty,clock_hhmm"`
	Remarks    *string `json:"remarks" validate:"omitempty,max=500"`
}

// UpdateSiteEntryDTO: пустая строка в out_time/remarks очищает значение, shift_id=0 снимает смену.
type UpdateSiteEntryDTO struct {
	SiteID  *uint64 `json:"site_id" validate:"omitempty,gt=0"`
	Date    *string `json:"date" validate:"omitempty,date_ymd"`
	ShiftID *uint64 `json:"shift_id"`
	InTime  *string `json:"in_time" validate:"omitempty,clock_hhmm"`
	OutTime *string `json:"out_time" validate:"omitempty,clock_hhmm"`
	Remarks *string `json:"remarks" validate:"omitempty,max=500"`
}

type CreateTravelClaimDTO struct {
	EmployeeID   *uint64 `json:"employee_id" validate:"omitempty,gt=0"`
	FromDate     string  `json:"from_date" validate:"required,date_ymd"`
	ToDate       string  `json:"to_date" validate:"required,date_ymd"`
	FromPlace    string  `json:"from_place" validate:"required,max=150"`
	ToPlace      string  `json:"to_place" validate:"required,max=150"`
	Purpose      string  `json:"purpose" validate:"required,max=500"`
	TravelAmount float64 `json:"travel_amount" validate:"gte=0"`
	OtherAmount  float64 `json:"other_amount" validate:"gte=0"`
}

type UpdateTravelClaimDTO struct {
	FromDate     *string  `json:"from_date" validate:"omitempty,date_ymd"`
	ToDate       *string  `json:"to_date" validate:"omitempty,date_ymd"`
	FromPlace    *string  `json:"from_place" validate:"omitempty,min=1,max=150"`
	ToPlace      *string  `json:"to_place" validate:"omitempty,min=1,max=150"`
	Purpose      *string  `json:"purpose" validate:"omitempty,min=1,max=500"`
	TravelAmount *float64 `json:"travel_amount" validate:"omitempty,gte=0"`
	OtherAmount  *float64 `json:"other_amount" validate:"omitempty,gte=0"`
}

// EmployeeRef - сотрудник в строках списков.
type EmployeeRef struct {
	EmployeeCode string `json:"employee_code"`
	EmployeeName string `json:"employee_name"`
	ManagerID    uint64 `json:"-"`
}

type LeaveEntryDTO struct {
	entities.LeaveEntry
	EmployeeRef
	LeaveTypeCode string              `json:"leave_type_code"`
	LeaveTypeName string              `json:"leave_type_name"`
	Approvals     []entities.Approval `json:"approvals,omitempty"`
}

type CompOffEntryDTO struct {
	entities.CompOffEntry
	EmployeeRef
	Approvals []entities.Approval `json:"approvals,omitempty"`
}

type PermissionEntryDTO struct {
	entities.PermissionEntry
	EmployeeRef
	Approvals []entities.Approval `json:"approvals,omitempty"`
}

type SiteEntryDTO struct {
	entities.SiteEntry
	EmployeeRef
	SiteCode  string `json:"site_code"`
	SiteName  string `json:"site_name"`
	ShiftCode string `json:"shift_code,omitempty"`
}

type TravelClaimDTO struct {
	entities.TravelClaim
	EmployeeRef
	Approvals []entities.Approval `json:"approvals,omitempty"`
}

type LeaveBalanceDTO struct {
	LeaveTypeID uint64   `json:"leave_type_id"`
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	Quota       *float64 `json:"quota"` // nil - без лимита
	Used        float64  `json:"used"`
	Pending     float64  `json:"pending"`
	Remaining   *float64 `json:"remaining"`
}

type EmployeeLeaveBalanceDTO struct {
	EmployeeID uint64            `json:"employee_id"`
	Year       int               `json:"year"`
	Balances   []LeaveBalanceDTO `json:"balances"`
}

type CompOffBalanceDTO struct {
	EmployeeID   uint64  `json:"employee_id"`
	Date         string  `json:"date"`
	ValidityDays int     `json:"validity_days"`
	Earned       float64 `json:"earned"`
	Used         float64 `json:"used"`
	Balance      float64 `json:"balance"`
}
