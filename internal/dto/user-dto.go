package dto

import "time"

type CreateUserDTO struct {
	Login      string  `json:"login" validate:"required,min=3,max=100"`
	Password   string  `json:"password" validate:"required,min=6,max=72"`
	RoleID     uint64  `json:"role_id" validate:"required"`
	EmployeeID *uint64 `json:"employee_id" validate:"omitempty,gt=0"`
}

type UpdateUserDTO struct {
	Password   *string `json:"password" validate:"omitempty,min=6,max=72"`
	RoleID     *uint64 `json:"role_id" validate:"omitempty,gt=0"`
	EmployeeID *uint64 `json:"employee_id"`
	IsActive   *bool   `json:"is_active"`
}

type UserDTO struct {
	ID           uint64     `json:"id"`
	Login        string     `json:"login"`
	RoleID       uint64     `json:"role_id"`
	RoleName     string     `json:"role_name"`
	EmployeeID   *uint64    `json:"employee_id"`
	EmployeeName string     `json:"employee_name,omitempty"`
	IsActive     bool       `json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at"`
}
