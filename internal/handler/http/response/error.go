package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/officehr/payroll-backend-go/internal/domain/attendance"
	"github.com/officehr/payroll-backend-go/internal/domain/auth"
	"github.com/officehr/payroll-backend-go/internal/domain/employee"
	"github.com/officehr/payroll-backend-go/internal/domain/expense"
	"github.com/officehr/payroll-backend-go/internal/domain/payroll"
	"github.com/officehr/payroll-backend-go/internal/domain/report"
	"github.com/officehr/payroll-backend-go/internal/domain/settings"
	"github.com/officehr/payroll-backend-go/internal/domain/user"
	"github.com/officehr/payroll-backend-go/internal/pkg/email"
	"github.com/officehr/payroll-backend-go/internal/pkg/storage"
	"github.com/officehr/payroll-backend-go/internal/pkg/validator"
	"github.com/officehr/payroll-backend-go/internal/service/file"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrUnauthorized):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrUserInactive):
		Forbidden(w, "User account is inactive")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")

	// Employee
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrDocumentNotFound):
		NotFound(w, "Document not found")
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, "Employee ID already exists")
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "Employee with this email already exists")
	case errors.Is(err, employee.ErrInvalidDocument):
		ValidationError(w, map[string]string{"document": err.Error()})
	case errors.Is(err, employee.ErrEmployeeInactive):
		BadRequest(w, "Employee is not active", nil)

	// Attendance
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrAlreadyCheckedIn),
		errors.Is(err, attendance.ErrAlreadyCheckedOut),
		errors.Is(err, attendance.ErrNotCheckedIn),
		errors.Is(err, attendance.ErrCheckOutBeforeCheckIn),
		errors.Is(err, attendance.ErrEmployeeNotActive):
		BadRequest(w, unwrapMessage(err), nil)
	case errors.Is(err, attendance.ErrAttendanceAlreadyExists):
		Conflict(w, "Attendance record already exists for this date")

	// Payroll
	case errors.Is(err, payroll.ErrPayrollNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrPayrollAlreadyExists):
		Conflict(w, "Payroll already generated for this employee and period")
	case errors.Is(err, payroll.ErrPayrollNotEditable):
		Conflict(w, "Only pending payroll records can be modified")
	case errors.Is(err, payroll.ErrStatusChanged):
		Conflict(w, "Payroll record was modified by another request")
	case errors.Is(err, payroll.ErrInvalidStatusTransition):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, payroll.ErrInvalidPeriod):
		ValidationError(w, map[string]string{"period": err.Error()})
	case errors.Is(err, payroll.ErrEmployeeEmailMissing):
		ValidationError(w, map[string]string{"email": "Employee email not found"})
	case errors.Is(err, email.ErrNotConfigured):
		ServiceUnavailable(w, "Email delivery is not configured")
	case errors.Is(err, payroll.ErrEmailDeliveryFailed):
		BadGateway(w, "Failed to send payslip email")
	case errors.Is(err, payroll.ErrPayslipRenderFailed):
		InternalServerError(w, "Failed to generate payslip")

	// Expense
	case errors.Is(err, expense.ErrExpenseNotFound):
		NotFound(w, "Expense not found")
	case errors.Is(err, expense.ErrInvalidReceipt):
		ValidationError(w, map[string]string{"receipt": err.Error()})

	// Settings
	case errors.Is(err, settings.ErrInvalidWorkingHours), errors.Is(err, settings.ErrInvalidTaxSlabs):
		ValidationError(w, map[string]string{"settings": err.Error()})

	// Files
	case errors.Is(err, file.ErrUnsupportedFileType):
		ValidationError(w, map[string]string{"file": err.Error()})
	case errors.Is(err, storage.ErrFileNotFound):
		NotFound(w, "File not found")
	case errors.Is(err, storage.ErrInvalidPath):
		BadRequest(w, "Invalid file path", nil)

	// Reports
	case errors.Is(err, report.ErrReportGenerationFailed):
		slog.Error("report generation failed", slog.Any("error", err))
		InternalServerError(w, "Failed to generate report")

	default:
		slog.Error("unhandled error", slog.Any("error", err))
		InternalServerError(w, "An unexpected error occurred")
	}
}

// unwrapMessage returns the innermost message so sentinel text reaches the client
// without internal wrapping context.
func unwrapMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
