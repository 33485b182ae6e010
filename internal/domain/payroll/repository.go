package payroll

import (
	"context"
	"time"
)

type PayrollRepository interface {
	// Create returns ErrPayrollAlreadyExists when the (employee, month, year) slot is taken.
	Create(ctx context.Context, p Payroll) (Payroll, error)
	// ReplacePending overwrites the record in p's period only while it is still Pending.
	// It returns ErrPayrollNotEditable if the stored record has moved on, ErrPayrollNotFound if none exists.
	ReplacePending(ctx context.Context, p Payroll) (Payroll, error)
	GetByID(ctx context.Context, id string) (Payroll, error)
	GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (Payroll, error)
	// Update writes p only while the stored status still equals expected. It returns
	// ErrStatusChanged when another writer moved the record first.
	Update(ctx context.Context, p Payroll, expected Status) (Payroll, error)
	// MarkPayslipGenerated and MarkEmailSent touch only the payslip columns.
	MarkPayslipGenerated(ctx context.Context, id, path string) (Payroll, error)
	MarkEmailSent(ctx context.Context, id string, at time.Time) (Payroll, error)
	List(ctx context.Context, filter PayrollFilter) ([]Payroll, int64, error)

	// ListByPeriod returns records for the period. month == 0 means the whole year,
	// year == 0 means all time.
	ListByPeriod(ctx context.Context, month, year int) ([]Payroll, error)
	ListByEmployee(ctx context.Context, employeeID string, year int) ([]Payroll, error)
}
