package user

import "time"

// UserResponse represents user data in API responses
type UserResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	EmployeeID  *string    `json:"employee_id,omitempty"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	Permissions []string   `json:"permissions"`
	CreatedAt   time.Time  `json:"created_at"`
}

func NewUserResponse(u User) UserResponse {
	var perms []string
	for resource, actions := range RolePermissions[u.Role] {
		for _, a := range actions {
			perms = append(perms, string(resource)+"."+string(a))
		}
	}
	return UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        string(u.Role),
		EmployeeID:  u.EmployeeID,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		Permissions: perms,
		CreatedAt:   u.CreatedAt,
	}
}
