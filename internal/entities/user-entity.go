package entities

import "github.com/aarondl/null/v8"

type User struct {
	ID           uint64     `json:"id"`
	Login        string     `json:"login"`
	PasswordHash string     `json:"-"`
	RoleID       uint64     `json:"role_id"`
	EmployeeID   null.Int64 `json:"employee_id"`
	IsActive     bool       `json:"is_active"`
	LastLoginAt  null.Time  `json:"last_login_at"`
	Timestamps
}

// EmployeeUint возвращает 0, если учётная запись не привязана к сотруднику.
func (u *User) EmployeeUint() uint64 {
	if !u.EmployeeID.Valid {
		return 0
	}
	return uint64(u.EmployeeID.Int64)
}
