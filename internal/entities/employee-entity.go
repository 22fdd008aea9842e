package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

type Employee struct {
	ID                 uint64      `json:"id"`
	Code               string      `json:"code"`
	FullName           string      `json:"full_name"`
	Email              null.String `json:"email"`
	Phone              null.String `json:"phone"`
	CompanyID          uint64      `json:"company_id"`
	SiteID             null.Int64  `json:"site_id"`
	ShiftID            null.Int64  `json:"shift_id"`
	SalaryTypeID       null.Int64  `json:"salary_type_id"`
	ReportingManagerID null.Int64  `json:"reporting_manager_id"`
	DateOfJoining      time.Time   `json:"date_of_joining"`
	IsActive           bool        `json:"is_active"`
	Timestamps
}

// ManagerID возвращает 0, если руководитель не назначен.
func (e *Employee) ManagerID() uint64 {
	if !e.ReportingManagerID.Valid {
		return 0
	}
	return uint64(e.ReportingManagerID.Int64)
}
