package entities

// Shift - рабочая смена. EndTime раньше StartTime означает ночную смену.
type Shift struct {
	ID           uint64 `json:"id"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	BreakMinutes int    `json:"break_minutes"`
	IsActive     bool   `json:"is_active"`
	Timestamps
}
