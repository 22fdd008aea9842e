package dto

type CreateCompanyDTO struct {
	Code    string  `json:"code" validate:"required,max=20"`
	Name    string  `json:"name" validate:"required,max=150"`
	Address *string `json:"address" validate:"omitempty,max=255"`
}

type UpdateCompanyDTO struct {
	Code     *string `json:"code" validate:"omitempty,min=1,max=20"`
	Name     *string `json:"name" validate:"omitempty,min=1,max=150"`
	Address  *string `json:"address" validate:"omitempty,max=255"`
	IsActive *bool   `json:"is_active"`
}

type CreateSiteDTO struct {
	CompanyID uint64  `json:"company_id" validate:"required"`
	Code      string  `json:"code" validate:"required,max=20"`
	Name      string  `json:"name" validate:"required,max=150"`
	Address   *string `json:"address" validate:"omitempty,max=255"`
}

type UpdateSiteDTO struct {
	Code     *string `json:"code" validate:"omitempty,min=1,max=20"`
	Name     *string `json:"name" validate:"omitempty,min=1,max=150"`
	Address  *string `json:"address" validate:"omitempty,max=255"`
	IsActive *bool   `json:"is_active"`
}

type CreateShiftDTO struct {
	Code         string `json:"code" validate:"required,max=20"`
	Name         string `json:"name" validate:"required,max=100"`
	StartTime    string `json:"start_time" validate:"required,clock_hhmm"`
	EndTime      string `json:"end_time" validate:"required,clock_hhmm,nefield=StartTime"`
	BreakMinutes int    `json:"break_minutes" validate:"gte=0,lte=480"`
}

type UpdateShiftDTO struct {
	Code         *string `json:"code" validate:"omitempty,min=1,max=20"`
	Name         *string `json:"name" validate:"omitempty,min=1,max=100"`
	StartTime    *string `json:"start_time" validate:"omitempty,clock_hhmm"`
	EndTime      *string `json:"end_time" validate:"omitempty,clock_hhmm"`
	BreakMinutes *int    `json:"break_minutes" validate:"omitempty,gte=0,lte=480"`
	IsActive     *bool   `json:"is_active"`
}

type CreateLeaveTypeDTO struct {
	Code                string  `json:"code" validate:"required,max=20"`
	Name                string  `json:"name" validate:"required,max=100"`
	AnnualQuota         float64 `json:"annual_quota" validate:"gte=0,lte=366"`
	IsPaid              bool    `json:"is_paid"`
	AllowHalfDay        bool    `json:"allow_half_day"`
	CountNonWorkingDays bool    `json:"count_non_working_days"`
	IsCompOff           bool    `json:"is_comp_off"`
}

type UpdateLeaveTypeDTO struct {
	Code                *string  `json:"code" validate:"omitempty,min=1,max=20"`
	Name                *string  `json:"name" validate:"omitempty,min=1,max=100"`
	AnnualQuota         *float64 `json:"annual_quota" validate:"omitempty,gte=0,lte=366"`
	IsPaid              *bool    `json:"is_paid"`
	AllowHalfDay        *bool    `json:"allow_half_day"`
	CountNonWorkingDays *bool    `json:"count_non_working_days"`
	IsCompOff           *bool    `json:"is_comp_off"`
}

type CreateSalaryTypeDTO struct {
	Code string `json:"code" validate:"required,max=20"`
	Name string `json:"name" validate:"required,max=100"`
}

type UpdateSalaryTypeDTO struct {
	Code *string `json:"code" validate:"omitempty,min=1,max=20"`
	Name *string `json:"name" validate:"omitempty,min=1,max=100"`
}

type CreateHolidayDTO struct {
	CompanyID uint64 `json:"company_id" validate:"required"`
	Date      string `json:"date" validate:"required,date_ymd"`
	Name      string `json:"name" validate:"required,max=150"`
}

type UpdateHolidayDTO struct {
	Date *string `json:"date" validate:"omitempty,date_ymd"`
	Name *string `json:"name" validate:"omitempty,min=1,max=150"`
}
