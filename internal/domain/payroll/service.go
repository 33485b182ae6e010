package payroll

import "context"

type PayrollService interface {
	ListPayrolls(ctx context.Context, filter PayrollFilter) (ListPayrollResponse, error)
	GetStats(ctx context.Context, month, year int) (SummaryResponse, error)
	GeneratePayroll(ctx context.Context, req GeneratePayrollRequest) (GenerateResponse, error)
	GetMonthlyPayroll(ctx context.Context, month, year int) (MonthlyPayrollResponse, error)
	GetEmployeePayroll(ctx context.Context, employeeID string, year int) (EmployeePayrollResponse, error)
	GetPayroll(ctx context.Context, id string) (PayrollResponse, error)
	UpdatePayroll(ctx context.Context, req UpdatePayrollRequest) (PayrollResponse, error)
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (PayrollResponse, error)

	// GeneratePayslip renders the PDF, stores it and flags the record.
	GeneratePayslip(ctx context.Context, id string) (PayslipFile, error)
	// SendPayslip emails the PDF. The record is marked as sent only after delivery succeeds.
	SendPayslip(ctx context.Context, id string) (PayrollResponse, error)
}

type PayslipFile struct {
	Filename string
	Content  []byte
}
