package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTTL = 24 * time.Hour

func countingHandler(calls *int, status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(`{"success":true}`))
	})
}

func newKeyedRequest(key string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payroll/generate", strings.NewReader(`{}`))
	if key != "" {
		req.Header.Set(IdempotencyHeader, key)
	}
	return req
}

func TestIdempotency_NoHeaderPassesThrough(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	calls := 0
	h := Idempotency(rdb, testTTL)(countingHandler(&calls, http.StatusCreated))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, newKeyedRequest(""))

	assert.Equal(t, 1, calls)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_FirstRequestStoresResponse(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	key := "idempotency:anonymous:POST:/api/v1/payroll/generate:abc"

	stored, err := json.Marshal(cachedResponse{
		Status:      http.StatusCreated,
		ContentType: "application/json",
		Body:        []byte(`{"success":true}`),
	})
	require.NoError(t, err)

	mock.ExpectSetNX(key, idempotencyPending, testTTL).SetVal(true)
	mock.ExpectSet(key, stored, testTTL).SetVal("OK")

	calls := 0
	h := Idempotency(rdb, testTTL)(countingHandler(&calls, http.StatusCreated))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, newKeyedRequest("abc"))

	assert.Equal(t, 1, calls)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_RepeatReplaysStoredResponse(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	key := "idempotency:anonymous:POST:/api/v1/payroll/generate:abc"

	stored, err := json.Marshal(cachedResponse{
		Status:      http.StatusCreated,
		ContentType: "application/json",
		Body:        []byte(`{"success":true,"data":{"generated":[]}}`),
	})
	require.NoError(t, err)

	mock.ExpectSetNX(key, idempotencyPending, testTTL).SetVal(false)
	mock.ExpectGet(key).SetVal(string(stored))

	calls := 0
	h := Idempotency(rdb, testTTL)(countingHandler(&calls, http.StatusCreated))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, newKeyedRequest("abc"))

	assert.Zero(t, calls)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "true", rec.Header().Get(idempotencyReplayed))
	assert.JSONEq(t, `{"success":true,"data":{"generated":[]}}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_InFlightConflict(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	key := "idempotency:anonymous:POST:/api/v1/payroll/generate:abc"

	mock.ExpectSetNX(key, idempotencyPending, testTTL).SetVal(false)
	mock.ExpectGet(key).SetVal(idempotencyPending)

	calls := 0
	h := Idempotency(rdb, testTTL)(countingHandler(&calls, http.StatusCreated))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, newKeyedRequest("abc"))

	assert.Zero(t, calls)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_ServerErrorReleasesKey(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	key := "idempotency:anonymous:POST:/api/v1/payroll/generate:abc"

	mock.ExpectSetNX(key, idempotencyPending, testTTL).SetVal(true)
	mock.ExpectDel(key).SetVal(1)

	calls := 0
	h := Idempotency(rdb, testTTL)(countingHandler(&calls, http.StatusInternalServerError))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, newKeyedRequest("abc"))

	assert.Equal(t, 1, calls)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_StoreDownFailsOpen(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	key := "idempotency:anonymous:POST:/api/v1/payroll/generate:abc"

	mock.ExpectSetNX(key, idempotencyPending, testTTL).SetErr(errors.New("connection refused"))

	calls := 0
	h := Idempotency(rdb, testTTL)(countingHandler(&calls, http.StatusCreated))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, newKeyedRequest("abc"))

	assert.Equal(t, 1, calls)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
