package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/officehr/payroll-backend-go/internal/domain/attendance"
	"github.com/officehr/payroll-backend-go/internal/domain/employee"
	"github.com/officehr/payroll-backend-go/internal/domain/expense"
	"github.com/officehr/payroll-backend-go/internal/domain/payroll"
	"github.com/officehr/payroll-backend-go/internal/domain/report"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const recentLimit = 5

type ReportServiceImpl struct {
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	payrollRepo    payroll.PayrollRepository
	expenseRepo    expense.ExpenseRepository
	loc            *time.Location
	now            func() time.Time
	flight         singleflight.Group
}

func NewReportService(
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	payrollRepo payroll.PayrollRepository,
	expenseRepo expense.ExpenseRepository,
	loc *time.Location,
) report.ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportServiceImpl{
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		payrollRepo:    payrollRepo,
		expenseRepo:    expenseRepo,
		loc:            loc,
		now:            time.Now,
	}
}

// ========== DASHBOARD ==========

// GetDashboard collapses concurrent requests into one load. The shared load is
// detached from the first caller's cancellation so it can serve the others.
func (s *ReportServiceImpl) GetDashboard(ctx context.Context) (report.DashboardResponse, error) {
	ch := s.flight.DoChan("dashboard", func() (interface{}, error) {
		return s.loadDashboard(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return report.DashboardResponse{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return report.DashboardResponse{}, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, res.Err)
		}
		return res.Val.(report.DashboardResponse), nil
	}
}

func (s *ReportServiceImpl) loadDashboard(ctx context.Context) (report.DashboardResponse, error) {
	now := s.now()
	today := attendance.DateOf(now, s.loc)
	monthStart, monthEnd := attendance.MonthRange(today.Year(), int(today.Month()))

	var resp report.DashboardResponse
	g, gCtx := errgroup.WithContext(ctx)

	// 1. Employee stats
	g.Go(func() error {
		stats, err := s.employeeRepo.GetStats(gCtx)
		if err != nil {
			return fmt.Errorf("employee stats: %w", err)
		}
		resp.EmployeeStats = report.EmployeeStats{
			TotalEmployees:  stats.TotalEmployees,
			ActiveEmployees: stats.ActiveEmployees,
			TotalSalary:     stats.TotalSalary,
		}
		return nil
	})

	// 2. Today's attendance
	g.Go(func() error {
		records, err := s.attendanceRepo.ListByDateRange(gCtx, today, today)
		if err != nil {
			return fmt.Errorf("today's attendance: %w", err)
		}
		for _, r := range records {
			switch r.Status {
			case attendance.StatusPresent, attendance.StatusHalfDay:
				resp.TodayAttendance.PresentCount++
			case attendance.StatusAbsent:
				resp.TodayAttendance.AbsentCount++
			}
			if r.CheckIn.IsLate {
				resp.TodayAttendance.LateCount++
			}
		}
		return nil
	})

	// 3. Current month payroll
	g.Go(func() error {
		records, err := s.payrollRepo.ListByPeriod(gCtx, int(today.Month()), today.Year())
		if err != nil {
			return fmt.Errorf("current month payroll: %w", err)
		}
		sum := payroll.Summarize(records)
		resp.CurrentMonthPayroll = report.CurrentMonthPayroll{
			TotalPayroll:     sum.TotalNetSalary,
			PaidEmployees:    sum.PaidCount,
			PendingEmployees: sum.PendingCount,
		}
		return nil
	})

	// 4. Current month expenses and revenue
	g.Go(func() error {
		entries, err := s.expenseRepo.ListInRange(gCtx, monthStart, monthEnd)
		if err != nil {
			return fmt.Errorf("current month expenses: %w", err)
		}
		ov := expense.BuildStats(entries).Overview
		resp.CurrentMonthExpenses = report.CurrentMonthExpenses{Expenses: ov.TotalExpenses, Revenue: ov.TotalRevenue}
		return nil
	})

	// 5. Recent activity
	g.Go(func() error {
		employees, _, err := s.employeeRepo.List(gCtx, employee.EmployeeFilter{
			Page: 1, Limit: recentLimit, SortBy: "created_at", SortOrder: "desc",
		})
		if err != nil {
			return fmt.Errorf("recent employees: %w", err)
		}
		resp.RecentActivities.Employees = make([]report.RecentEmployee, 0, len(employees))
		for _, e := range employees {
			resp.RecentActivities.Employees = append(resp.RecentActivities.Employees, report.RecentEmployee{
				ID:           e.ID,
				EmployeeCode: e.EmployeeCode,
				FullName:     e.FullName(),
				Department:   string(e.Department),
				Status:       string(e.Status),
			})
		}
		return nil
	})
	g.Go(func() error {
		records, _, err := s.payrollRepo.List(gCtx, payroll.PayrollFilter{
			Page: 1, Limit: recentLimit, SortBy: "created_at", SortOrder: "desc",
		})
		if err != nil {
			return fmt.Errorf("recent payroll: %w", err)
		}
		resp.RecentActivities.Payroll = make([]report.RecentPayroll, 0, len(records))
		for _, p := range records {
			resp.RecentActivities.Payroll = append(resp.RecentActivities.Payroll, report.RecentPayroll{
				ID:           p.ID,
				EmployeeCode: p.EmployeeCode,
				EmployeeName: p.EmployeeName,
				Month:        p.Month,
				Year:         p.Year,
				NetSalary:    p.NetSalary,
				Status:       string(p.Status),
			})
		}
		return nil
	})
	g.Go(func() error {
		entries, _, err := s.expenseRepo.List(gCtx, expense.ExpenseFilter{
			Page: 1, Limit: recentLimit, SortBy: "created_at", SortOrder: "desc",
		})
		if err != nil {
			return fmt.Errorf("recent expenses: %w", err)
		}
		resp.RecentActivities.Expenses = make([]report.RecentExpense, 0, len(entries))
		for _, e := range entries {
			resp.RecentActivities.Expenses = append(resp.RecentActivities.Expenses, report.RecentExpense{
				ID:       e.ID,
				Title:    e.Title,
				Amount:   e.Amount,
				Type:     string(e.Type),
				Category: string(e.Category),
				Date:     e.Date.Format("2006-01-02"),
			})
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return report.DashboardResponse{}, err
	}
	resp.GeneratedAt = now
	return resp, nil
}

// ========== FINANCIAL ==========

// GetFinancialReport sums the ledger over the range and adds paid payroll as its own
// cost line. Net profit is revenue minus ledger expenses minus paid payroll.
func (s *ReportServiceImpl) GetFinancialReport(ctx context.Context, req report.DateRangeRequest) (report.FinancialReportResponse, error) {
	if err := req.Validate(); err != nil {
		return report.FinancialReportResponse{}, err
	}
	start, end := req.Bounds()

	var (
		entries  []expense.Expense
		payrolls []payroll.Payroll
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entries, err = s.expenseRepo.ListInRange(gCtx, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		payrolls, err = s.payrollRepo.ListByPeriod(gCtx, 0, 0)
		return err
	})
	if err := g.Wait(); err != nil {
		return report.FinancialReportResponse{}, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	resp := report.FinancialReportResponse{
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		TotalRevenue:     decimal.Zero,
		TotalExpenses:    decimal.Zero,
		PayrollExpenses:  decimal.Zero,
		RevenueBreakdown: map[string]decimal.Decimal{},
		ExpenseBreakdown: map[string]decimal.Decimal{},
	}
	for _, e := range entries {
		if e.Status == expense.StatusCancelled {
			continue
		}
		key := string(e.Category)
		switch e.Type {
		case expense.TypeRevenue:
			resp.TotalRevenue = resp.TotalRevenue.Add(e.Amount)
			resp.RevenueBreakdown[key] = resp.RevenueBreakdown[key].Add(e.Amount)
		case expense.TypeExpense:
			resp.TotalExpenses = resp.TotalExpenses.Add(e.Amount)
			resp.ExpenseBreakdown[key] = resp.ExpenseBreakdown[key].Add(e.Amount)
		}
	}
	for _, p := range payrolls {
		if p.Status == payroll.StatusPaid && inRange(payrollDate(p), start, end) {
			resp.PayrollExpenses = resp.PayrollExpenses.Add(p.NetSalary)
		}
	}
	resp.NetProfit = resp.TotalRevenue.Sub(resp.TotalExpenses).Sub(resp.PayrollExpenses)
	return resp, nil
}

// payrollDate is the payment date, or the first of the period for records paid
// without one.
func payrollDate(p payroll.Payroll) time.Time {
	if p.PaymentDate != nil {
		y, m, d := p.PaymentDate.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

func inRange(t, start, end time.Time) bool {
	if !start.IsZero() && t.Before(start) {
		return false
	}
	if !end.IsZero() && t.After(end) {
		return false
	}
	return true
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
