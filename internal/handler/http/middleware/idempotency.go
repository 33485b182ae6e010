package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/officehr/payroll-backend-go/internal/handler/http/response"
	"github.com/officehr/payroll-backend-go/internal/pkg/jwt"
	"github.com/redis/go-redis/v9"
)

const (
	IdempotencyHeader   = "Idempotency-Key"
	idempotencyPending  = "pending"
	idempotencyReplayed = "Idempotent-Replayed"
)

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// Idempotency replays the stored response for a repeated Idempotency-Key.
// Requests without the header pass through. Redis failures fail open.
func Idempotency(rdb redis.Cmdable, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyHeader)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			rkey := idempotencyKey(r, key)

			acquired, err := rdb.SetNX(ctx, rkey, idempotencyPending, ttl).Result()
			if err != nil {
				slog.Warn("idempotency store unavailable", slog.Any("error", err))
				next.ServeHTTP(w, r)
				return
			}

			if !acquired {
				stored, err := rdb.Get(ctx, rkey).Result()
				switch {
				case errors.Is(err, redis.Nil):
					next.ServeHTTP(w, r)
				case err != nil:
					slog.Warn("idempotency lookup failed", slog.Any("error", err))
					next.ServeHTTP(w, r)
				case stored == idempotencyPending:
					response.Conflict(w, "A request with this idempotency key is still being processed")
				default:
					replay(w, stored)
				}
				return
			}

			rec := &recordingWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			storeCtx := context.WithoutCancel(ctx)
			if rec.status >= http.StatusInternalServerError {
				if err := rdb.Del(storeCtx, rkey).Err(); err != nil {
					slog.Warn("failed to release idempotency key", slog.Any("error", err))
				}
				return
			}

			payload, err := json.Marshal(cachedResponse{
				Status:      rec.status,
				ContentType: rec.Header().Get("Content-Type"),
				Body:        rec.body.Bytes(),
			})
			if err != nil {
				slog.Error("failed to encode idempotent response", slog.Any("error", err))
				return
			}
			if err := rdb.Set(storeCtx, rkey, payload, ttl).Err(); err != nil {
				slog.Warn("failed to store idempotent response", slog.Any("error", err))
			}
		})
	}
}

// idempotencyKey scopes the client key to the caller and the route.
func idempotencyKey(r *http.Request, key string) string {
	subject := "anonymous"
	if claims, err := jwt.ClaimsFromContext(r.Context()); err == nil {
		subject = claims.UserID
	}
	return "idempotency:" + subject + ":" + r.Method + ":" + r.URL.Path + ":" + key
}

func replay(w http.ResponseWriter, stored string) {
	var cached cachedResponse
	if err := json.Unmarshal([]byte(stored), &cached); err != nil {
		slog.Error("corrupt idempotent response", slog.Any("error", err))
		response.InternalServerError(w, "Failed to replay response")
		return
	}
	if cached.ContentType != "" {
		w.Header().Set("Content-Type", cached.ContentType)
	}
	w.Header().Set(idempotencyReplayed, "true")
	w.WriteHeader(cached.Status)
	w.Write(cached.Body)
}

type recordingWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	body        bytes.Buffer
}

func (rw *recordingWriter) WriteHeader(status int) {
	if !rw.wroteHeader {
		rw.status = status
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(status)
}

func (rw *recordingWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	rw.body.Write(b)
	return rw.ResponseWriter.Write(b)
}
