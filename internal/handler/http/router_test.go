package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/officehr/payroll-backend-go/internal/domain/user"
	"github.com/officehr/payroll-backend-go/internal/pkg/document"
	"github.com/officehr/payroll-backend-go/internal/pkg/email"
	"github.com/officehr/payroll-backend-go/internal/pkg/jwt"
	"github.com/officehr/payroll-backend-go/internal/pkg/rbac"
	"github.com/officehr/payroll-backend-go/internal/pkg/sse"
	"github.com/officehr/payroll-backend-go/internal/pkg/storage"
	"github.com/officehr/payroll-backend-go/internal/repository/memory"
	attendanceservice "github.com/officehr/payroll-backend-go/internal/service/attendance"
	authservice "github.com/officehr/payroll-backend-go/internal/service/auth"
	employeeservice "github.com/officehr/payroll-backend-go/internal/service/employee"
	expenseservice "github.com/officehr/payroll-backend-go/internal/service/expense"
	"github.com/officehr/payroll-backend-go/internal/service/file"
	payrollservice "github.com/officehr/payroll-backend-go/internal/service/payroll"
	reportservice "github.com/officehr/payroll-backend-go/internal/service/report"
	settingsservice "github.com/officehr/payroll-backend-go/internal/service/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "admin-password"
)

type nopMailer struct{}

func (nopMailer) SendPayslip(ctx context.Context, msg email.PayslipMessage) error { return nil }

type testServer struct {
	handler http.Handler
	jwt     jwt.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.NewStore()
	local, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)
	files := file.NewFileService(local)

	employees := memory.NewEmployeeRepository(store)
	attendanceRepo := memory.NewAttendanceRepository(store)
	payrolls := memory.NewPayrollRepository(store)
	expenses := memory.NewExpenseRepository(store)
	users := memory.NewUserRepository(store)
	settingsSvc := settingsservice.NewSettingsService(memory.NewSettingsRepository(store))

	jwtService := jwt.NewJWTService("router-test-secret", "1h")
	authSvc := authservice.NewAuthService(users, jwtService)
	require.NoError(t, authSvc.EnsureAdmin(context.Background(), adminEmail, adminPassword))

	authz, err := rbac.NewDefaultAuthorizer()
	require.NoError(t, err)

	router := NewRouter(RouterDeps{
		FrontendURL: "http://localhost:3000",
		JWTService:  jwtService,
		Authorizer:  authz,
		Auth:        NewAuthHandler(authSvc),
		Employee:    NewEmployeeHandler(employeeservice.NewEmployeeService(employees, settingsSvc, files)),
		Attendance:  NewAttendanceHandler(attendanceservice.NewAttendanceService(attendanceRepo, employees, settingsSvc, time.UTC)),
		Payroll:     NewPayrollHandler(payrollservice.NewPayrollService(payrolls, employees, attendanceRepo, settingsSvc, files, nopMailer{})),
		Expense:     NewExpenseHandler(expenseservice.NewExpenseService(expenses, files, store)),
		Settings:    NewSettingsHandler(settingsSvc),
		Report:      NewReportHandler(reportservice.NewReportService(employees, attendanceRepo, payrolls, expenses, time.UTC)),
		Event:       NewEventHandler(sse.NewHub()),
	})
	return &testServer{handler: router, jwt: jwtService}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) tokenFor(t *testing.T, role user.Role) string {
	t.Helper()
	token, _, err := s.jwt.GenerateAccessToken("user-"+string(role), string(role)+"@example.com", nil, role)
	require.NoError(t, err)
	return token
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    *struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		TotalItems int64 `json:"total_items"`
		TotalPages int   `json:"total_pages"`
	} `json:"meta"`
	Error   *struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func login(t *testing.T, s *testServer) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": adminEmail, "password": adminPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var token struct {
		AccessToken string `json:"access_token"`
	}
	decode(t, rec, &token)
	require.NotEmpty(t, token.AccessToken)
	return token.AccessToken
}

func createEmployee(t *testing.T, s *testServer, token string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/employees", token, map[string]interface{}{
		"first_name":   "Meera",
		"last_name":    "Iyer",
		"email":        "meera@example.com",
		"phone":        "9876543210",
		"department":   "Finance",
		"role":         "Accountant",
		"joining_date": "2023-02-01",
		"salary": map[string]interface{}{
			"basic":      "40000",
			"allowances": map[string]string{"hra": "16000"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var emp struct {
		ID           string `json:"id"`
		EmployeeCode string `json:"employee_id"`
	}
	decode(t, rec, &emp)
	assert.Regexp(t, `^EMP\d{6}$`, emp.EmployeeCode)
	return emp.ID
}

func TestRouter_Authentication(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/employees", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": adminEmail, "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := login(t, s)
	rec = s.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var me struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	decode(t, rec, &me)
	assert.Equal(t, adminEmail, me.Email)
	assert.Equal(t, "admin", me.Role)
}

func TestRouter_ListsCarryPagingMeta(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s)
	createEmployee(t, s, token)

	rec := s.do(t, http.MethodGet, "/api/v1/employees?page=1&limit=5", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	env := decode(t, rec, nil)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 1, env.Meta.Page)
	assert.Equal(t, 5, env.Meta.Limit)
	assert.EqualValues(t, 1, env.Meta.TotalItems)
	assert.Equal(t, 1, env.Meta.TotalPages)

	for _, path := range []string{"/api/v1/payroll", "/api/v1/expenses"} {
		rec = s.do(t, http.MethodGet, path, token, nil)
		require.Equal(t, http.StatusOK, rec.Code, path)
		env = decode(t, rec, nil)
		require.NotNil(t, env.Meta, path)
		assert.Equal(t, 10, env.Meta.Limit, path)
	}
}

func TestRouter_EmployeeValidationAndConflict(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s)

	rec := s.do(t, http.MethodPost, "/api/v1/employees", token, map[string]string{"email": "not-an-email"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env := decode(t, rec, nil)
	assert.Contains(t, env.Error.Details, "first_name")

	id := createEmployee(t, s, token)

	rec = s.do(t, http.MethodPost, "/api/v1/employees", token, map[string]interface{}{
		"first_name": "Other", "last_name": "Person", "email": "MEERA@example.com", "phone": "9876543211",
		"salary": map[string]string{"basic": "1000"},
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/employees/"+id, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/employees/stats", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_PayrollLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s)
	createEmployee(t, s, token)

	rec := s.do(t, http.MethodPost, "/api/v1/payroll/generate", s.tokenFor(t, user.RoleEmployee), map[string]int{"month": 4, "year": 2024})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/payroll/generate", token, map[string]int{"month": 4, "year": 2024})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var generated struct {
		Generated []struct {
			ID     string `json:"id"`
			Period string `json:"period"`
		} `json:"generated"`
	}
	decode(t, rec, &generated)
	require.Len(t, generated.Generated, 1)
	id := generated.Generated[0].ID

	rec = s.do(t, http.MethodGet, "/api/v1/payroll/"+id, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/payroll/does-not-exist", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/payroll/monthly/4?year=2024", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/payroll/payslip/"+id, token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))

	rec = s.do(t, http.MethodPut, "/api/v1/payroll/status/"+id, token, map[string]string{"status": "Paid"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPut, "/api/v1/payroll/"+id, token, map[string]interface{}{"remarks": "late change"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/payroll/stats?month=4&year=2024", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_ReportExport(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s)
	createEmployee(t, s, token)

	rec := s.do(t, http.MethodGet, "/api/v1/reports/employees/export", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, document.FormatXLSX.ContentType(), rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))

	rec = s.do(t, http.MethodGet, "/api/v1/reports/employees/export?format=csv", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Meera")

	rec = s.do(t, http.MethodGet, "/api/v1/reports/employees/export?format=pdf", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))

	rec = s.do(t, http.MethodGet, "/api/v1/reports/employees/export?format=docx", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/reports/leaves/export", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/reports/employees/export", s.tokenFor(t, user.RoleManager), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_SettingsAndExpenses(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s)

	rec := s.do(t, http.MethodGet, "/api/v1/settings/expense-categories", s.tokenFor(t, user.RoleEmployee), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/v1/settings", s.tokenFor(t, user.RoleHR), map[string]interface{}{})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/expenses", token, map[string]interface{}{
		"title":          "Team lunch",
		"amount":         "2500",
		"type":           "Expense",
		"category":       "Food & Beverages",
		"date":           "2024-04-10",
		"payment_method": "Cash",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/expenses/stats?month=%d&year=%d", 4, 2024), token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
