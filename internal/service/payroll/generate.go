package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/officehr/payroll-backend-go/internal/domain/attendance"
	"github.com/officehr/payroll-backend-go/internal/domain/employee"
	"github.com/officehr/payroll-backend-go/internal/domain/payroll"
	"github.com/officehr/payroll-backend-go/internal/domain/settings"
	"golang.org/x/sync/errgroup"
)

const generateWorkers = 4

type outcomeKind int

const (
	outcomeGenerated outcomeKind = iota
	outcomeConflict
	outcomeSkipped
	outcomeFailed
)

type outcome struct {
	kind   outcomeKind
	record payroll.Payroll
	issue  payroll.EmployeeIssue
}

// GeneratePayroll computes one record per employee for the period. Employees are
// processed independently; a failure for one never aborts the batch.
func (s *PayrollServiceImpl) GeneratePayroll(ctx context.Context, req payroll.GeneratePayrollRequest) (payroll.GenerateResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.GenerateResponse{}, err
	}

	// settings are re-read per run so edits apply to the next batch
	cfg, err := s.settingsService.Load(ctx)
	if err != nil {
		return payroll.GenerateResponse{}, err
	}

	resp := payroll.GenerateResponse{
		Month:     req.Month,
		Year:      req.Year,
		Generated: []payroll.PayrollResponse{},
		Conflicts: []payroll.EmployeeIssue{},
		Skipped:   []payroll.EmployeeIssue{},
		Failed:    []payroll.EmployeeIssue{},
	}

	employees, err := s.selectEmployees(ctx, req.EmployeeIDs, &resp)
	if err != nil {
		return payroll.GenerateResponse{}, err
	}

	start, end := attendance.MonthRange(req.Year, req.Month)
	records, err := s.attendanceRepo.ListByDateRange(ctx, start, end)
	if err != nil {
		return payroll.GenerateResponse{}, fmt.Errorf("failed to load attendance: %w", err)
	}
	byEmployee := make(map[string][]attendance.Attendance, len(employees))
	for _, r := range records {
		byEmployee[r.EmployeeID] = append(byEmployee[r.EmployeeID], r)
	}

	outcomes := make([]outcome, len(employees))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(generateWorkers)
	for i, emp := range employees {
		g.Go(func() error {
			outcomes[i] = s.generateOne(gctx, emp, req, cfg, byEmployee[emp.ID])
			return nil
		})
	}
	_ = g.Wait()

	var generated []payroll.Payroll
	for _, o := range outcomes {
		switch o.kind {
		case outcomeGenerated:
			generated = append(generated, o.record)
			resp.Generated = append(resp.Generated, payroll.NewPayrollResponse(o.record))
		case outcomeConflict:
			resp.Conflicts = append(resp.Conflicts, o.issue)
		case outcomeSkipped:
			resp.Skipped = append(resp.Skipped, o.issue)
		case outcomeFailed:
			resp.Failed = append(resp.Failed, o.issue)
		}
	}
	resp.Summary = payroll.NewSummaryResponse(payroll.Summarize(generated))

	slog.Info("payroll generated",
		slog.Int("month", req.Month),
		slog.Int("year", req.Year),
		slog.Int("generated", len(resp.Generated)),
		slog.Int("conflicts", len(resp.Conflicts)),
		slog.Int("skipped", len(resp.Skipped)),
		slog.Int("failed", len(resp.Failed)),
	)
	return resp, nil
}

// selectEmployees resolves the batch. Explicitly requested ids that are unknown or
// not Active are reported as skipped.
func (s *PayrollServiceImpl) selectEmployees(ctx context.Context, ids []string, resp *payroll.GenerateResponse) ([]employee.Employee, error) {
	if len(ids) == 0 {
		employees, err := s.employeeRepo.GetActive(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get active employees: %w", err)
		}
		return employees, nil
	}

	seen := make(map[string]struct{}, len(ids))
	employees := make([]employee.Employee, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		emp, err := s.employeeRepo.GetByID(ctx, id)
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			resp.Skipped = append(resp.Skipped, payroll.EmployeeIssue{EmployeeID: id, Reason: err.Error()})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get employee %s: %w", id, err)
		}
		if emp.Status != employee.StatusActive {
			resp.Skipped = append(resp.Skipped, issueFor(emp, employee.ErrEmployeeInactive.Error()))
			continue
		}
		employees = append(employees, emp)
	}
	return employees, nil
}

func issueFor(emp employee.Employee, reason string) payroll.EmployeeIssue {
	return payroll.EmployeeIssue{
		EmployeeID:   emp.ID,
		EmployeeCode: emp.EmployeeCode,
		EmployeeName: emp.FullName(),
		Reason:       reason,
	}
}

func bonusesFor(emp employee.Employee, req payroll.GeneratePayrollRequest, policy settings.BonusPolicy) payroll.Bonuses {
	if b, ok := req.BonusOverrides[emp.ID]; ok {
		return b
	}
	if req.Bonuses != nil {
		return *req.Bonuses
	}
	return payroll.Bonuses{Performance: policy.Performance, Festival: policy.Festival, Other: policy.Other}
}

func (s *PayrollServiceImpl) generateOne(ctx context.Context, emp employee.Employee, req payroll.GeneratePayrollRequest, cfg settings.Settings, records []attendance.Attendance) outcome {
	if payroll.JoinedAfter(emp, req.Month, req.Year) {
		return outcome{kind: outcomeSkipped, issue: issueFor(emp, "joined after the payroll period")}
	}
	if !emp.Salary.Basic.IsPositive() {
		return outcome{kind: outcomeSkipped, issue: issueFor(emp, "no basic salary configured")}
	}

	record := payroll.Compute(payroll.Inputs{
		Employee:   emp,
		Month:      req.Month,
		Year:       req.Year,
		Attendance: payroll.SummarizeForPeriod(records, emp, req.Month, req.Year, cfg.Attendance),
		Payroll:    cfg.Payroll,
		Calendar:   cfg.Attendance,
		Bonuses:    bonusesFor(emp, req, cfg.Payroll.Bonuses),
	})
	record.ProcessedBy = req.ProcessedBy

	created, err := s.payrollRepo.Create(ctx, record)
	if err == nil {
		return outcome{kind: outcomeGenerated, record: created}
	}
	if !errors.Is(err, payroll.ErrPayrollAlreadyExists) {
		return s.failed(emp, err)
	}
	if !req.Force {
		return outcome{kind: outcomeConflict, issue: issueFor(emp, err.Error())}
	}

	replaced, err := s.payrollRepo.ReplacePending(ctx, record)
	switch {
	case err == nil:
		return outcome{kind: outcomeGenerated, record: replaced}
	case errors.Is(err, payroll.ErrPayrollNotEditable):
		return outcome{kind: outcomeConflict, issue: issueFor(emp, err.Error())}
	default:
		return s.failed(emp, err)
	}
}

func (s *PayrollServiceImpl) failed(emp employee.Employee, err error) outcome {
	slog.Error("payroll generation failed",
		slog.String("employee_id", emp.ID),
		slog.String("employee_code", emp.EmployeeCode),
		slog.Any("error", err),
	)
	return outcome{kind: outcomeFailed, issue: issueFor(emp, err.Error())}
}
