package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/officehr/payroll-backend-go/internal/domain/user"
	"github.com/officehr/payroll-backend-go/internal/pkg/jwt"
	"github.com/officehr/payroll-backend-go/internal/pkg/rbac"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func protected(t *testing.T, svc jwt.Service, mw ...func(http.Handler) http.Handler) http.Handler {
	t.Helper()
	h := okHandler()
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return jwtauth.Verifier(svc.JWTAuth())(AuthRequired(svc.JWTAuth())(h))
}

func bearer(t *testing.T, svc jwt.Service, role user.Role) string {
	t.Helper()
	token, _, err := svc.GenerateAccessToken("user-1", "someone@example.com", nil, role)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestAuthRequired(t *testing.T) {
	svc := jwt.NewJWTService("middleware-secret", "1h")
	h := protected(t, svc)

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token from another secret", func(t *testing.T) {
		other := jwt.NewJWTService("other-secret", "1h")
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", bearer(t, other, user.RoleAdmin))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", bearer(t, svc, user.RoleHR))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestRequirePermission(t *testing.T) {
	svc := jwt.NewJWTService("middleware-secret", "1h")
	authz, err := rbac.NewDefaultAuthorizer()
	require.NoError(t, err)

	h := protected(t, svc, RequirePermission(authz, user.ResourcePayroll, user.ActionCreate))

	tests := []struct {
		role user.Role
		want int
	}{
		{user.RoleAdmin, http.StatusNoContent},
		{user.RoleAccountant, http.StatusNoContent},
		{user.RoleEmployee, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req.Header.Set("Authorization", bearer(t, svc, tt.role))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
