package auth

import (
	"github.com/officehr/payroll-backend-go/internal/domain/user"
	"github.com/officehr/payroll-backend-go/internal/pkg/validator"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=255"`
}

func (r *LoginRequest) Validate() error {
	return validator.ValidateStruct(r).OrNil()
}

type TokenResponse struct {
	AccessToken          string            `json:"access_token"`
	TokenType            string            `json:"token_type"`
	AccessTokenExpiresIn int64             `json:"access_token_expires_in"`
	User                 user.UserResponse `json:"user"`
}
