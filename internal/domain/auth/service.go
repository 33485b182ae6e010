package auth

import (
	"context"

	"github.com/officehr/payroll-backend-go/internal/domain/user"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	// Me returns the user behind the access token in ctx.
	Me(ctx context.Context) (user.UserResponse, error)
	// EnsureAdmin creates the first admin account when no users exist.
	EnsureAdmin(ctx context.Context, email, password string) error
}
