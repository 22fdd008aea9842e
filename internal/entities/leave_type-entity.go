package entities

type LeaveType struct {
	ID                  uint64  `json:"id"`
	Code                string  `json:"code"`
	Name                string  `json:"name"`
	AnnualQuota         float64 `json:"annual_quota"`
	IsPaid              bool    `json:"is_paid"`
	AllowHalfDay        bool    `json:"allow_half_day"`
	CountNonWorkingDays bool    `json:"count_non_working_days"`
	IsCompOff           bool    `json:"is_comp_off"`
	Timestamps
}

// HasQuota - 0 означает отсутствие годового лимита.
func (lt *LeaveType) HasQuota() bool {
	return !lt.IsCompOff && lt.AnnualQuota > 0
}

type SalaryType struct {
	ID   uint64 `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
	Timestamps
}
