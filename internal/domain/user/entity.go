package user

import "time"

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleHR         Role = "hr"
	RoleAccountant Role = "accountant"
	RoleManager    Role = "manager"
	RoleEmployee   Role = "employee"
)

var Roles = []string{string(RoleAdmin), string(RoleHR), string(RoleAccountant), string(RoleManager), string(RoleEmployee)}

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	EmployeeID   *string
	IsActive     bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin checks if user is an administrator
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
