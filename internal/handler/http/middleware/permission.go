package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/officehr/payroll-backend-go/internal/domain/user"
	"github.com/officehr/payroll-backend-go/internal/handler/http/response"
	"github.com/officehr/payroll-backend-go/internal/pkg/jwt"
	"github.com/officehr/payroll-backend-go/internal/pkg/rbac"
)

// RequirePermission checks the caller's role against the casbin policy for resource and action.
func RequirePermission(authz rbac.Authorizer, resource user.Resource, action user.Action) func(http.Handler) http.Handler {
	required := fmt.Sprintf("%s.%s", resource, action)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := jwt.ClaimsFromContext(r.Context())
			if err != nil {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s'", required))
				return
			}

			allowed, err := authz.Enforce(claims.Role, resource, action)
			if err != nil {
				slog.Error("permission check failed", slog.String("role", string(claims.Role)), slog.Any("error", err))
				response.InternalServerError(w, "Failed to check permissions")
				return
			}
			if !allowed {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but user role is '%s'", required, claims.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
