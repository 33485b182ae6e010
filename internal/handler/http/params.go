package http

import (
	"net/http"
	"strconv"

	"github.com/officehr/payroll-backend-go/internal/pkg/jwt"
)

// queryString returns a pointer to a non-empty query value.
func queryString(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}

// queryInt returns def when the value is missing or not a number.
func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func queryIntPtr(r *http.Request, key string) *int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return &n
		}
	}
	return nil
}

// actorID returns the authenticated user id, or nil for unauthenticated calls.
func actorID(r *http.Request) *string {
	claims, err := jwt.ClaimsFromContext(r.Context())
	if err != nil {
		return nil
	}
	return &claims.UserID
}
