package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/officehr/payroll-backend-go/internal/domain/payroll"
	"github.com/officehr/payroll-backend-go/internal/pkg/email"
	"github.com/officehr/payroll-backend-go/internal/pkg/payslip"
)

func (s *PayrollServiceImpl) render(ctx context.Context, p payroll.Payroll) ([]byte, error) {
	cfg, err := s.settingsService.Load(ctx)
	if err != nil {
		return nil, err
	}
	content, err := s.renderer.Render(p, cfg.Company, cfg.Customization.Currency)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", payroll.ErrPayslipRenderFailed, err)
	}
	return content, nil
}

// GeneratePayslip renders the record, keeps a copy in file storage and flags the record.
func (s *PayrollServiceImpl) GeneratePayslip(ctx context.Context, id string) (payroll.PayslipFile, error) {
	p, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.PayslipFile{}, err
	}

	content, err := s.render(ctx, p)
	if err != nil {
		return payroll.PayslipFile{}, err
	}
	filename := payslip.Filename(p)

	path, err := s.fileService.SavePayslip(ctx, p.Year, p.Month, filename, content)
	if err != nil {
		return payroll.PayslipFile{}, fmt.Errorf("failed to store payslip: %w", err)
	}

	if _, err := s.payrollRepo.MarkPayslipGenerated(ctx, p.ID, path); err != nil {
		return payroll.PayslipFile{}, fmt.Errorf("failed to flag payslip: %w", err)
	}

	return payroll.PayslipFile{Filename: filename, Content: content}, nil
}

// SendPayslip mails the rendered PDF. A delivery failure leaves the record untouched.
func (s *PayrollServiceImpl) SendPayslip(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	p, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	if p.EmployeeEmail == "" {
		return payroll.PayrollResponse{}, payroll.ErrEmployeeEmailMissing
	}

	cfg, err := s.settingsService.Load(ctx)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	content, err := s.render(ctx, p)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	err = s.emailService.SendPayslip(ctx, email.PayslipMessage{
		To:           p.EmployeeEmail,
		EmployeeName: p.EmployeeName,
		Period:       p.Period(),
		CompanyName:  cfg.Company.Name,
		NetSalary:    p.NetSalary.StringFixed(2),
		Currency:     cfg.Customization.Currency,
		Attachment: email.Attachment{
			Filename:    payslip.Filename(p),
			ContentType: payslip.ContentType,
			Content:     content,
		},
	})
	if err != nil {
		slog.Error("payslip email failed",
			slog.String("payroll_id", p.ID),
			slog.String("employee_id", p.EmployeeID),
			slog.Any("error", err),
		)
		if errors.Is(err, email.ErrNotConfigured) {
			return payroll.PayrollResponse{}, err
		}
		return payroll.PayrollResponse{}, fmt.Errorf("%w: %w", payroll.ErrEmailDeliveryFailed, err)
	}

	updated, err := s.payrollRepo.MarkEmailSent(ctx, p.ID, s.now())
	if err != nil {
		return payroll.PayrollResponse{}, fmt.Errorf("failed to mark payslip as sent: %w", err)
	}
	return payroll.NewPayrollResponse(updated), nil
}
