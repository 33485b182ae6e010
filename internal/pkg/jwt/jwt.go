package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/officehr/payroll-backend-go/internal/domain/user"
)

const tokenTypeAccess = "access"

var ErrMissingClaims = errors.New("token claims missing from context")

type Service interface {
	GenerateAccessToken(userID string, email string, employeeID *string, role user.Role) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
	now                       func() time.Time
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                       time.Now,
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(userID string, email string, employeeID *string, role user.Role) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = j.now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"user_id": userID,
		"email":   email,
		"role":    string(role),
		"type":    tokenTypeAccess,
		"exp":     expiresAt,
	}
	if employeeID != nil {
		claims["employee_id"] = *employeeID
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// Claims is the typed view of an access token.
type Claims struct {
	UserID     string
	Email      string
	EmployeeID *string
	Role       user.Role
	Type       string
}

func (c Claims) IsAccess() bool {
	return c.Type == tokenTypeAccess
}

// ClaimsFromContext reads the token verified by jwtauth.Verifier.
func ClaimsFromContext(ctx context.Context) (Claims, error) {
	_, raw, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Claims{}, err
	}
	if raw == nil {
		return Claims{}, ErrMissingClaims
	}

	var c Claims
	c.UserID, _ = raw["user_id"].(string)
	c.Email, _ = raw["email"].(string)
	c.Type, _ = raw["type"].(string)
	if role, ok := raw["role"].(string); ok {
		c.Role = user.Role(role)
	}
	if emp, ok := raw["employee_id"].(string); ok && emp != "" {
		c.EmployeeID = &emp
	}
	if c.UserID == "" {
		return Claims{}, ErrMissingClaims
	}
	return c, nil
}
