package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/officehr/payroll-backend-go/internal/domain/attendance"
	"github.com/officehr/payroll-backend-go/internal/domain/employee"
	"github.com/officehr/payroll-backend-go/internal/domain/payroll"
	"github.com/officehr/payroll-backend-go/internal/domain/settings"
	"github.com/officehr/payroll-backend-go/internal/pkg/email"
	"github.com/officehr/payroll-backend-go/internal/pkg/payslip"
	"github.com/officehr/payroll-backend-go/internal/service/file"
)

type PayrollServiceImpl struct {
	payrollRepo     payroll.PayrollRepository
	employeeRepo    employee.EmployeeRepository
	attendanceRepo  attendance.AttendanceRepository
	settingsService settings.SettingsService
	fileService     file.FileService
	emailService    email.EmailService
	renderer        *payslip.Renderer
	now             func() time.Time
}

func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	settingsService settings.SettingsService,
	fileService file.FileService,
	emailService email.EmailService,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		payrollRepo:     payrollRepo,
		employeeRepo:    employeeRepo,
		attendanceRepo:  attendanceRepo,
		settingsService: settingsService,
		fileService:     fileService,
		emailService:    emailService,
		renderer:        payslip.NewRenderer(),
		now:             time.Now,
	}
}

// ========== QUERIES ==========

func (s *PayrollServiceImpl) ListPayrolls(ctx context.Context, filter payroll.PayrollFilter) (payroll.ListPayrollResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.ListPayrollResponse{}, err
	}

	records, total, err := s.payrollRepo.List(ctx, filter)
	if err != nil {
		return payroll.ListPayrollResponse{}, fmt.Errorf("failed to list payrolls: %w", err)
	}

	return payroll.ListPayrollResponse{
		Payrolls:   payroll.NewPayrollResponses(records),
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

// GetStats summarizes a period. Zero month and year widen the window to a whole
// year or all time.
func (s *PayrollServiceImpl) GetStats(ctx context.Context, month, year int) (payroll.SummaryResponse, error) {
	if month < 0 || month > 12 {
		return payroll.SummaryResponse{}, payroll.ErrInvalidPeriod
	}
	records, err := s.payrollRepo.ListByPeriod(ctx, month, year)
	if err != nil {
		return payroll.SummaryResponse{}, fmt.Errorf("failed to list payrolls: %w", err)
	}
	return payroll.NewSummaryResponse(payroll.Summarize(records)), nil
}

func (s *PayrollServiceImpl) GetMonthlyPayroll(ctx context.Context, month, year int) (payroll.MonthlyPayrollResponse, error) {
	q := payroll.PeriodQuery{Month: month, Year: year}
	if err := q.Validate(); err != nil {
		return payroll.MonthlyPayrollResponse{}, err
	}

	records, err := s.payrollRepo.ListByPeriod(ctx, month, year)
	if err != nil {
		return payroll.MonthlyPayrollResponse{}, fmt.Errorf("failed to list payrolls: %w", err)
	}

	return payroll.MonthlyPayrollResponse{
		Month:     month,
		Year:      year,
		MonthName: time.Month(month).String(),
		Payrolls:  payroll.NewPayrollResponses(records),
		Summary:   payroll.NewSummaryResponse(payroll.Summarize(records)),
	}, nil
}

func (s *PayrollServiceImpl) GetEmployeePayroll(ctx context.Context, employeeID string, year int) (payroll.EmployeePayrollResponse, error) {
	if year == 0 {
		year = s.now().Year()
	}
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return payroll.EmployeePayrollResponse{}, err
	}

	records, err := s.payrollRepo.ListByEmployee(ctx, employeeID, year)
	if err != nil {
		return payroll.EmployeePayrollResponse{}, fmt.Errorf("failed to list employee payrolls: %w", err)
	}

	ytd := payroll.YearToDate(year, records)
	return payroll.EmployeePayrollResponse{
		EmployeeID: employeeID,
		Year:       year,
		Payrolls:   payroll.NewPayrollResponses(records),
		YTD: payroll.YTDResponse{
			SummaryResponse:  payroll.NewSummaryResponse(ytd.Summary),
			Year:             ytd.Year,
			MonthsPaid:       ytd.MonthsPaid,
			AverageNetSalary: ytd.AverageNetSalary,
		},
	}, nil
}

func (s *PayrollServiceImpl) GetPayroll(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	p, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	return payroll.NewPayrollResponse(p), nil
}

// ========== MUTATIONS ==========

// UpdatePayroll adjusts the components of a Pending record and re-derives its totals.
func (s *PayrollServiceImpl) UpdatePayroll(ctx context.Context, req payroll.UpdatePayrollRequest) (payroll.PayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}

	p, err := s.payrollRepo.GetByID(ctx, req.ID)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	if !p.IsEditable() {
		return payroll.PayrollResponse{}, payroll.ErrPayrollNotEditable
	}

	if req.Allowances != nil {
		p.Allowances = *req.Allowances
	}
	if req.Deductions != nil {
		p.Deductions = *req.Deductions
	}
	if req.Bonuses != nil {
		p.Bonuses = *req.Bonuses
	}
	if req.OvertimePay != nil {
		p.OvertimePay = *req.OvertimePay
	}
	if req.Remarks != nil {
		p.Remarks = req.Remarks
	}
	p.Recalculate()

	updated, err := s.payrollRepo.Update(ctx, p, payroll.StatusPending)
	if errors.Is(err, payroll.ErrStatusChanged) {
		return payroll.PayrollResponse{}, payroll.ErrPayrollNotEditable
	}
	if err != nil {
		return payroll.PayrollResponse{}, fmt.Errorf("failed to update payroll: %w", err)
	}
	return payroll.NewPayrollResponse(updated), nil
}

func (s *PayrollServiceImpl) UpdateStatus(ctx context.Context, req payroll.UpdateStatusRequest) (payroll.PayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}

	p, err := s.payrollRepo.GetByID(ctx, req.ID)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	from := p.Status
	if err := p.ApplyStatus(req.ToChange(), s.now()); err != nil {
		return payroll.PayrollResponse{}, fmt.Errorf("%w: %s to %s", err, from, req.Status)
	}

	updated, err := s.payrollRepo.Update(ctx, p, from)
	if errors.Is(err, payroll.ErrStatusChanged) {
		return payroll.PayrollResponse{}, fmt.Errorf("%w: %s changed before %s was applied", payroll.ErrInvalidStatusTransition, from, req.Status)
	}
	if err != nil {
		return payroll.PayrollResponse{}, fmt.Errorf("failed to update payroll status: %w", err)
	}

	slog.Info("payroll status changed",
		slog.String("payroll_id", updated.ID),
		slog.String("employee_id", updated.EmployeeID),
		slog.String("from", string(from)),
		slog.String("to", string(updated.Status)),
	)
	return payroll.NewPayrollResponse(updated), nil
}
