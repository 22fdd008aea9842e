package dto

type CreateEmployeeDTO struct {
	Code               string  `json:"code" validate:"required,max=30"`
	FullName           string  `json:"full_name" validate:"required,max=150"`
	Email              *string `json:"email" validate:"omitempty,custom_email"`
	Phone              *string `json:"phone" validate:"omitempty,phone"`
	CompanyID          uint64  `json:"company_id" validate:"required"`
	SiteID             *uint64 `json:"site_id" validate:"omitempty,gt=0"`
	ShiftID            *uint64 `json:"shift_id" validate:"omitempty,gt=0"`
	SalaryTypeID       *uint64 `json:"salary_type_id" validate:"omitempty,gt=0"`
	ReportingManagerID *uint64 `json:"reporting_manager_id" validate:"omitempty,gt=0"`
	DateOfJoining      string  `json:"date_of_joining" validate:"required,date_ymd"`
}

// UpdateEmployeeDTO - частичное обновление. Для сброса ссылки передаётся 0.
type UpdateEmployeeDTO struct {
	Code               *string `json:"code" validate:"omitempty,min=1,max=30"`
	FullName           *string `json:"full_name" validate:"omitempty,min=1,max=150"`
	Email              *string `json:"email" validate:"omitempty,custom_email"`
	Phone              *string `json:"phone" validate:"omitempty,phone"`
	CompanyID          *uint64 `json:"company_id" validate:"omitempty,gt=0"`
	SiteID             *uint64 `json:"site_id"`
	ShiftID            *uint64 `json:"shift_id"`
	SalaryTypeID       *uint64 `json:"salary_type_id"`
	ReportingManagerID *uint64 `json:"reporting_manager_id"`
	DateOfJoining      *string `json:"date_of_joining" validate:"omitempty,date_ymd"`
	IsActive           *bool   `json:"is_active"`
}
