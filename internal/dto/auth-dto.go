package dto

type LoginDTO struct {
	Login    string `json:"login" validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=6"`
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type AuthResponseDTO struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	ExpiresIn    int64          `json:"expires_in"`
	User         UserProfileDTO `json:"user"`
}

type UserProfileDTO struct {
	ID          uint64   `json:"id"`
	Login       string   `json:"login"`
	RoleID      uint64   `json:"role_id"`
	RoleName    string   `json:"role_name"`
	EmployeeID  *uint64  `json:"employee_id,omitempty"`
	FullName    string   `json:"full_name,omitempty"`
	Permissions []string `json:"permissions"`
}
