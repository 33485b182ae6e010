package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrUserEmailExists         = errors.New("email already registered")
	ErrUserInactive            = errors.New("user account is inactive")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)
