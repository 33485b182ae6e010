package payroll

import "errors"

var (
	ErrPayrollNotFound         = errors.New("payroll record not found")
	ErrPayrollAlreadyExists    = errors.New("payroll already generated for this employee and period")
	ErrPayrollNotEditable      = errors.New("only pending payroll records can be modified")
	ErrInvalidStatusTransition = errors.New("invalid payroll status transition")
	ErrStatusChanged           = errors.New("payroll status changed by another request")
	ErrInvalidPeriod           = errors.New("invalid payroll period")
	ErrEmployeeEmailMissing    = errors.New("employee has no email address")
	ErrEmailDeliveryFailed     = errors.New("failed to send payslip email")
	ErrPayslipRenderFailed     = errors.New("failed to render payslip")
)
