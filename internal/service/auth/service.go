package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/officehr/payroll-backend-go/internal/domain/auth"
	"github.com/officehr/payroll-backend-go/internal/domain/user"
	"github.com/officehr/payroll-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	user.UserRepository
	jwt.Service
	now func() time.Time
}

func NewAuthService(userRepository user.UserRepository, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		UserRepository: userRepository,
		Service:        jwtService,
		now:            time.Now,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, loginReq auth.LoginRequest) (auth.TokenResponse, error) {
	if err := loginReq.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userData, err := a.UserRepository.GetByEmail(ctx, loginReq.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(loginReq.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if !userData.IsActive {
		return auth.TokenResponse{}, user.ErrUserInactive
	}

	token, expiresAt, err := a.Service.GenerateAccessToken(userData.ID, userData.Email, userData.EmployeeID, userData.Role)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	now := a.now()
	if err := a.UserRepository.UpdateLastLogin(ctx, userData.ID, now); err != nil {
		slog.Warn("failed to record last login", slog.String("user_id", userData.ID), slog.Any("error", err))
	} else {
		userData.LastLoginAt = &now
	}

	return auth.TokenResponse{
		AccessToken:          token,
		TokenType:            "Bearer",
		AccessTokenExpiresIn: expiresAt,
		User:                 user.NewUserResponse(userData),
	}, nil
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context) (user.UserResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return user.UserResponse{}, auth.ErrUnauthorized
	}

	userData, err := a.UserRepository.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.UserResponse{}, auth.ErrInvalidToken
		}
		return user.UserResponse{}, fmt.Errorf("failed to get user: %w", err)
	}
	if !userData.IsActive {
		return user.UserResponse{}, user.ErrUserInactive
	}
	return user.NewUserResponse(userData), nil
}

// EnsureAdmin implements auth.AuthService.
func (a *AuthServiceImpl) EnsureAdmin(ctx context.Context, email, password string) error {
	count, err := a.UserRepository.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}
	if email == "" || len(password) < 8 {
		return fmt.Errorf("no users exist and ADMIN_EMAIL/ADMIN_PASSWORD (min 8 chars) are not set")
	}

	hash, err := a.hashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin, err := a.UserRepository.Create(ctx, user.User{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: hash,
		Role:         user.RoleAdmin,
		IsActive:     true,
	})
	if err != nil {
		if errors.Is(err, user.ErrUserEmailExists) {
			return nil
		}
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	slog.Info("admin user created", slog.String("user_id", admin.ID), slog.String("email", admin.Email))
	return nil
}
