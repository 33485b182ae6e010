package report

import (
	"context"
	"fmt"
	"time"

	"github.com/officehr/payroll-backend-go/internal/domain/attendance"
	"github.com/officehr/payroll-backend-go/internal/domain/employee"
	"github.com/officehr/payroll-backend-go/internal/domain/expense"
	"github.com/officehr/payroll-backend-go/internal/domain/payroll"
	"github.com/officehr/payroll-backend-go/internal/domain/report"
	"github.com/officehr/payroll-backend-go/internal/pkg/document"
)

const exportPageSize = 100

var exportTitles = map[report.ExportKind]string{
	report.ExportEmployees:  "Employee Report",
	report.ExportPayroll:    "Payroll Report",
	report.ExportAttendance: "Attendance Report",
	report.ExportExpenses:   "Expense Report",
	report.ExportFinancial:  "Financial Report",
}

// Export renders one report kind in the requested format.
func (s *ReportServiceImpl) Export(ctx context.Context, req report.ExportRequest) (report.ExportFile, error) {
	if err := req.Validate(); err != nil {
		return report.ExportFile{}, err
	}

	now := s.now().In(s.loc)
	rep := document.Report{
		Title:       exportTitles[req.Kind],
		Subtitle:    s.subtitle(req),
		GeneratedAt: now,
	}

	var err error
	switch req.Kind {
	case report.ExportEmployees:
		rep.Sheets, err = one(s.employeeSheet(ctx, req))
	case report.ExportPayroll:
		rep.Sheets, err = one(s.payrollSheet(ctx, req))
	case report.ExportAttendance:
		rep.Sheets, err = one(s.attendanceSheet(ctx, req))
	case report.ExportExpenses:
		rep.Sheets, err = one(s.expenseSheet(ctx, req))
	case report.ExportFinancial:
		rep.Sheets, err = s.financialSheets(ctx, req)
	}
	if err != nil {
		return report.ExportFile{}, err
	}

	content, err := document.Render(req.Format, rep)
	if err != nil {
		return report.ExportFile{}, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	return report.ExportFile{
		Filename:    fmt.Sprintf("%s-report-%s.%s", req.Kind, now.Format("20060102"), req.Format),
		ContentType: req.Format.ContentType(),
		Content:     content,
	}, nil
}

func one(sheet document.Sheet, err error) ([]document.Sheet, error) {
	if err != nil {
		return nil, err
	}
	return []document.Sheet{sheet}, nil
}

func (s *ReportServiceImpl) subtitle(req report.ExportRequest) string {
	switch req.Kind {
	case report.ExportPayroll:
		if req.Month != nil && req.Year != nil {
			return fmt.Sprintf("Period: %s %d", time.Month(*req.Month), *req.Year)
		}
		return ""
	case report.ExportAttendance:
		start, end := s.rangeOrCurrentMonth(req)
		return "Period: " + document.Text(start) + " - " + document.Text(end)
	case report.ExportEmployees:
		return ""
	}
	start, end := req.Bounds()
	if start.IsZero() && end.IsZero() {
		return "All dates"
	}
	return "Period: " + document.Text(start) + " - " + document.Text(end)
}

func clock(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format("15:04")
}

// rangeOrCurrentMonth falls back to the current month when no dates are given.
func (s *ReportServiceImpl) rangeOrCurrentMonth(req report.ExportRequest) (time.Time, time.Time) {
	start, end := req.Bounds()
	if start.IsZero() && end.IsZero() {
		today := attendance.DateOf(s.now(), s.loc)
		return attendance.MonthRange(today.Year(), int(today.Month()))
	}
	return start, end
}

func (s *ReportServiceImpl) employeeSheet(ctx context.Context, req report.ExportRequest) (document.Sheet, error) {
	sheet := document.Sheet{
		Name: "Employees",
		Columns: []document.Column{
			{Header: "Employee ID", Width: 12},
			{Header: "First Name", Width: 16},
			{Header: "Last Name", Width: 16},
			{Header: "Email", Width: 28},
			{Header: "Phone", Width: 15},
			{Header: "Role", Width: 12},
			{Header: "Department", Width: 14},
			{Header: "Joining Date", Width: 13},
			{Header: "Status", Width: 10},
			{Header: "Basic Salary", Width: 14, Money: true},
			{Header: "Total Allowances", Width: 16, Money: true},
			{Header: "Total Deductions", Width: 16, Money: true},
			{Header: "Total Salary", Width: 14, Money: true},
		},
	}

	filter := employee.EmployeeFilter{
		Department: req.Department,
		Status:     req.Status,
		Limit:      exportPageSize,
		SortBy:     "employee_id",
		SortOrder:  "asc",
	}
	for page := 1; ; page++ {
		filter.Page = page
		employees, total, err := s.employeeRepo.List(ctx, filter)
		if err != nil {
			return sheet, fmt.Errorf("failed to list employees: %w", err)
		}
		for _, e := range employees {
			sheet.Rows = append(sheet.Rows, []interface{}{
				e.EmployeeCode, e.FirstName, e.LastName, e.Email, e.Phone, string(e.Role), string(e.Department),
				e.JoiningDate, string(e.Status),
				e.Salary.Basic, e.Salary.Allowances.Total(), e.Salary.Deductions.Total(), e.TotalSalary(),
			})
		}
		if int64(page*exportPageSize) >= total || len(employees) == 0 {
			return sheet, nil
		}
	}
}

var payrollColumns = []document.Column{
	{Header: "Employee ID", Width: 12},
	{Header: "Employee Name", Width: 22},
	{Header: "Department", Width: 14},
	{Header: "Month", Width: 11},
	{Header: "Year", Width: 7},
	{Header: "Basic Salary", Width: 14, Money: true},
	{Header: "Total Allowances", Width: 16, Money: true},
	{Header: "Total Bonuses", Width: 14, Money: true},
	{Header: "Overtime Pay", Width: 13, Money: true},
	{Header: "Gross Salary", Width: 14, Money: true},
	{Header: "Total Deductions", Width: 16, Money: true},
	{Header: "LOP", Width: 11, Money: true},
	{Header: "Net Salary", Width: 14, Money: true},
	{Header: "Status", Width: 10},
	{Header: "Payment Date", Width: 13},
	{Header: "Payment Method", Width: 15},
}

func payrollRow(p payroll.Payroll) []interface{} {
	var paid interface{}
	if p.PaymentDate != nil {
		paid = *p.PaymentDate
	}
	return []interface{}{
		p.EmployeeCode, p.EmployeeName, p.Department, time.Month(p.Month).String(), p.Year,
		p.BasicSalary, p.Allowances.Total(), p.Bonuses.Total(), p.OvertimePay,
		p.GrossSalary, p.Deductions.Total(), p.LopAmount, p.NetSalary,
		string(p.Status), paid, string(p.PaymentMethod),
	}
}

func (s *ReportServiceImpl) payrollSheet(ctx context.Context, req report.ExportRequest) (document.Sheet, error) {
	sheet := document.Sheet{Name: "Payroll", Columns: payrollColumns}

	month, year := 0, 0
	if req.Month != nil {
		month = *req.Month
	}
	if req.Year != nil {
		year = *req.Year
	}
	records, err := s.payrollRepo.ListByPeriod(ctx, month, year)
	if err != nil {
		return sheet, fmt.Errorf("failed to list payrolls: %w", err)
	}

	for _, p := range records {
		if req.Status != nil && string(p.Status) != *req.Status {
			continue
		}
		if req.Department != nil && p.Department != *req.Department {
			continue
		}
		sheet.Rows = append(sheet.Rows, payrollRow(p))
	}
	return sheet, nil
}

func (s *ReportServiceImpl) attendanceSheet(ctx context.Context, req report.ExportRequest) (document.Sheet, error) {
	sheet := document.Sheet{
		Name: "Attendance",
		Columns: []document.Column{
			{Header: "Date", Width: 12},
			{Header: "Employee ID", Width: 12},
			{Header: "Employee Name", Width: 22},
			{Header: "Department", Width: 14},
			{Header: "Check In", Width: 10},
			{Header: "Check Out", Width: 10},
			{Header: "Working Hours", Width: 14},
			{Header: "Overtime", Width: 10},
			{Header: "Status", Width: 10},
			{Header: "Late", Width: 7},
		},
	}

	start, end := s.rangeOrCurrentMonth(req)
	records, err := s.attendanceRepo.ListByDateRange(ctx, start, end)
	if err != nil {
		return sheet, fmt.Errorf("failed to list attendance: %w", err)
	}

	for _, r := range records {
		if req.Department != nil && r.Department != *req.Department {
			continue
		}
		if req.Status != nil && string(r.Status) != *req.Status {
			continue
		}
		sheet.Rows = append(sheet.Rows, []interface{}{
			r.Date, r.EmployeeCode, r.EmployeeName, r.Department,
			clock(r.CheckIn.Time, s.loc), clock(r.CheckOut.Time, s.loc),
			r.WorkingHours, r.Overtime, string(r.Status), r.CheckIn.IsLate,
		})
	}
	return sheet, nil
}

var expenseColumns = []document.Column{
	{Header: "Date", Width: 12},
	{Header: "Title", Width: 26},
	{Header: "Type", Width: 10},
	{Header: "Category", Width: 14},
	{Header: "Amount", Width: 14, Money: true},
	{Header: "Payment Method", Width: 15},
	{Header: "Status", Width: 10},
	{Header: "Vendor", Width: 20},
}

func expenseRow(e expense.Expense) []interface{} {
	return []interface{}{
		e.Date, e.Title, string(e.Type), string(e.Category), e.Amount,
		string(e.PaymentMethod), string(e.Status), e.Vendor.Name,
	}
}

func (s *ReportServiceImpl) expenseSheet(ctx context.Context, req report.ExportRequest) (document.Sheet, error) {
	sheet := document.Sheet{Name: "Expenses", Columns: expenseColumns}

	start, end := req.Bounds()
	entries, err := s.expenseRepo.ListInRange(ctx, start, end)
	if err != nil {
		return sheet, fmt.Errorf("failed to list expenses: %w", err)
	}

	for _, e := range entries {
		if req.Status != nil && string(e.Status) != *req.Status {
			continue
		}
		sheet.Rows = append(sheet.Rows, expenseRow(e))
	}
	return sheet, nil
}

// financialSheets writes the summary followed by the entries and paid payroll
// records behind it.
func (s *ReportServiceImpl) financialSheets(ctx context.Context, req report.ExportRequest) ([]document.Sheet, error) {
	fin, err := s.GetFinancialReport(ctx, req.DateRangeRequest)
	if err != nil {
		return nil, err
	}

	summary := document.Sheet{
		Name: "Summary",
		Columns: []document.Column{
			{Header: "Section", Width: 12},
			{Header: "Item", Width: 22},
			{Header: "Amount", Width: 16, Money: true},
		},
		Rows: [][]interface{}{
			{"Summary", "Total Revenue", fin.TotalRevenue},
			{"Summary", "Total Expenses", fin.TotalExpenses},
			{"Summary", "Payroll Expenses", fin.PayrollExpenses},
			{"Summary", "Net Profit", fin.NetProfit},
		},
	}
	for _, k := range sortedKeys(fin.RevenueBreakdown) {
		summary.Rows = append(summary.Rows, []interface{}{"Revenue", k, fin.RevenueBreakdown[k]})
	}
	for _, k := range sortedKeys(fin.ExpenseBreakdown) {
		summary.Rows = append(summary.Rows, []interface{}{"Expense", k, fin.ExpenseBreakdown[k]})
	}

	start, end := req.Bounds()
	entries, err := s.expenseRepo.ListInRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}
	expenses := document.Sheet{Name: "Expenses", Columns: expenseColumns}
	for _, e := range entries {
		if e.Status != expense.StatusCancelled {
			expenses.Rows = append(expenses.Rows, expenseRow(e))
		}
	}

	records, err := s.payrollRepo.ListByPeriod(ctx, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}
	paid := document.Sheet{Name: "Payroll", Columns: payrollColumns}
	for _, p := range records {
		if p.Status == payroll.StatusPaid && inRange(payrollDate(p), start, end) {
			paid.Rows = append(paid.Rows, payrollRow(p))
		}
	}

	return []document.Sheet{summary, expenses, paid}, nil
}
