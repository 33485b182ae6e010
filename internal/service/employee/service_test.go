package employee

import (
	"context"
	"strings"
	"testing"

	"github.com/officehr/payroll-backend-go/internal/domain/employee"
	"github.com/officehr/payroll-backend-go/internal/pkg/storage"
	"github.com/officehr/payroll-backend-go/internal/pkg/validator"
	"github.com/officehr/payroll-backend-go/internal/repository/memory"
	"github.com/officehr/payroll-backend-go/internal/service/file"
	settingsservice "github.com/officehr/payroll-backend-go/internal/service/settings"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEmployeeService(t *testing.T) (employee.EmployeeService, employee.EmployeeRepository) {
	t.Helper()
	store := memory.NewStore()
	repo := memory.NewEmployeeRepository(store)
	local, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)
	svc := NewEmployeeService(
		repo,
		settingsservice.NewSettingsService(memory.NewSettingsRepository(store)),
		file.NewFileService(local),
	)
	return svc, repo
}

func validCreateRequest(email string) employee.CreateEmployeeRequest {
	return employee.CreateEmployeeRequest{
		FirstName:  "Asha",
		LastName:   "Rao",
		Email:      email,
		Phone:      "+919876543210",
		Department: "IT",
		Role:       "Developer",
		Salary: employee.SalaryRequest{
			Basic: decimal.NewFromInt(30000),
			Allowances: employee.Allowances{
				HRA: decimal.NewFromInt(5000),
			},
		},
	}
}

func TestEmployeeService_CreateEmployee_Defaults(t *testing.T) {
	svc, _ := newTestEmployeeService(t)

	req := validCreateRequest("asha@example.com")
	req.Department = ""
	req.Role = ""
	resp, err := svc.CreateEmployee(context.Background(), req)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.EmployeeCode, "EMP"))
	assert.Len(t, resp.EmployeeCode, 9)
	assert.Equal(t, "Active", resp.Status)
	assert.Equal(t, "Other", resp.Department)
	assert.Equal(t, "Other", resp.Role)
	assert.Equal(t, "Asha Rao", resp.FullName)
	assert.Equal(t, 8.0, resp.WorkSchedule.WorkingHours)
	assert.Equal(t, "09:00", resp.WorkSchedule.StartTime)
	assert.NotEmpty(t, resp.JoiningDate)
	assert.True(t, decimal.NewFromInt(35000).Equal(resp.TotalSalary))
}

func TestEmployeeService_CreateEmployee_Statutory(t *testing.T) {
	svc, _ := newTestEmployeeService(t)

	req := validCreateRequest("stat@example.com")
	req.ApplyStatutoryDeductions = true
	resp, err := svc.CreateEmployee(context.Background(), req)

	require.NoError(t, err)
	assert.True(t, resp.Salary.Deductions.PF.IsPositive())
	assert.True(t, resp.Salary.Deductions.ESI.IsPositive())
}

func TestEmployeeService_CreateEmployee_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestEmployeeService(t)

	_, err := svc.CreateEmployee(ctx, validCreateRequest("dup@example.com"))
	require.NoError(t, err)

	_, err = svc.CreateEmployee(ctx, validCreateRequest("DUP@example.com"))
	assert.ErrorIs(t, err, employee.ErrEmailExists)
}

func TestEmployeeService_CreateEmployee_ExplicitCodeConflict(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestEmployeeService(t)

	req := validCreateRequest("a@example.com")
	req.EmployeeCode = "EMP000001"
	_, err := svc.CreateEmployee(ctx, req)
	require.NoError(t, err)

	req = validCreateRequest("b@example.com")
	req.EmployeeCode = "EMP000001"
	_, err = svc.CreateEmployee(ctx, req)
	assert.ErrorIs(t, err, employee.ErrEmployeeCodeExists)
}

func TestEmployeeService_CreateEmployee_Validation(t *testing.T) {
	svc, _ := newTestEmployeeService(t)

	req := validCreateRequest("not-an-email")
	req.Salary.Basic = decimal.NewFromInt(-1)
	_, err := svc.CreateEmployee(context.Background(), req)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "email")
	assert.Contains(t, verrs.ToMap(), "salary.basic")
}

func TestEmployeeService_UpdateEmployee(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestEmployeeService(t)
	created, err := svc.CreateEmployee(ctx, validCreateRequest("upd@example.com"))
	require.NoError(t, err)

	status := "Inactive"
	first := "Asha Kumari"
	updated, err := svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{
		ID: created.ID, Status: &status, FirstName: &first,
	})

	require.NoError(t, err)
	assert.Equal(t, "Inactive", updated.Status)
	assert.Equal(t, "Asha Kumari", updated.FirstName)
	assert.Equal(t, created.EmployeeCode, updated.EmployeeCode)
	assert.Equal(t, created.Email, updated.Email)

	_, err = svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: "missing", Status: &status})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestEmployeeService_ListEmployees(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestEmployeeService(t)
	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		_, err := svc.CreateEmployee(ctx, validCreateRequest(email))
		require.NoError(t, err)
	}

	resp, err := svc.ListEmployees(ctx, employee.EmployeeFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, resp.Employees, 2)
	assert.EqualValues(t, 3, resp.TotalCount)
	assert.Equal(t, 2, resp.TotalPages)
	assert.Equal(t, 1, resp.Page)

	_, err = svc.ListEmployees(ctx, employee.EmployeeFilter{Limit: 500})
	assert.Error(t, err)
}

func TestEmployeeService_GetStats(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestEmployeeService(t)
	_, err := svc.CreateEmployee(ctx, validCreateRequest("s1@x.com"))
	require.NoError(t, err)
	req := validCreateRequest("s2@x.com")
	req.Department = "HR"
	req.Status = "Terminated"
	_, err = svc.CreateEmployee(ctx, req)
	require.NoError(t, err)

	stats, err := svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Overview.TotalEmployees)
	assert.Equal(t, 1, stats.Overview.ActiveEmployees)
	assert.Equal(t, 1, stats.Overview.TerminatedEmployees)
	assert.Len(t, stats.ByDepartment, 2)
}

func TestEmployeeService_Documents(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestEmployeeService(t)
	created, err := svc.CreateEmployee(ctx, validCreateRequest("doc@x.com"))
	require.NoError(t, err)

	withDoc, err := svc.UploadDocument(ctx, employee.UploadDocumentRequest{
		EmployeeID: created.ID,
		Type:       "ID Proof",
		Filename:   "passport.pdf",
		File:       strings.NewReader("%PDF-1.4"),
	})
	require.NoError(t, err)
	require.Len(t, withDoc.Documents, 1)
	doc := withDoc.Documents[0]
	assert.Equal(t, "passport.pdf", doc.OriginalName)
	assert.True(t, strings.HasPrefix(doc.Filename, "documents/"+created.ID+"/"))

	_, err = svc.UploadDocument(ctx, employee.UploadDocumentRequest{
		EmployeeID: created.ID,
		Type:       "ID Proof",
		Filename:   "virus.exe",
		File:       strings.NewReader("MZ"),
	})
	assert.ErrorIs(t, err, employee.ErrInvalidDocument)

	require.NoError(t, svc.DeleteDocument(ctx, created.ID, doc.ID))
	assert.ErrorIs(t, svc.DeleteDocument(ctx, created.ID, doc.ID), employee.ErrDocumentNotFound)
}

func TestEmployeeService_DeleteEmployee(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestEmployeeService(t)
	created, err := svc.CreateEmployee(ctx, validCreateRequest("del@x.com"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteEmployee(ctx, created.ID))

	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	assert.ErrorIs(t, svc.DeleteEmployee(ctx, created.ID), employee.ErrEmployeeNotFound)
}
