package dto

type CreateRoleDTO struct {
	Name        string   `json:"name" validate:"required,max=50"`
	Description string   `json:"description" validate:"omitempty,max=255"`
	Permissions []string `json:"permissions" validate:"omitempty,dive,required"`
}

type UpdateRolePermissionsDTO struct {
	Permissions []string `json:"permissions" validate:"required,dive,required"`
}

type RoleDTO struct {
	ID          uint64   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}
