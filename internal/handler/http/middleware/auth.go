package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/officehr/payroll-backend-go/internal/domain/auth"
	"github.com/officehr/payroll-backend-go/internal/handler/http/response"
	"github.com/officehr/payroll-backend-go/internal/pkg/jwt"
)

// AuthRequired rejects requests whose verified token is missing, invalid or not an access token.
// It must run after jwtauth.Verifier.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}
			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			claims, err := jwt.ClaimsFromContext(r.Context())
			if err != nil || !claims.IsAccess() {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}
