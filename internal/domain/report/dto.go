package report

import (
	"time"

	"github.com/officehr/payroll-backend-go/internal/pkg/document"
	"github.com/officehr/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// DASHBOARD
// ========================================

type DashboardResponse struct {
	EmployeeStats        EmployeeStats        `json:"employee_stats"`
	TodayAttendance      TodayAttendance      `json:"today_attendance"`
	CurrentMonthPayroll  CurrentMonthPayroll  `json:"current_month_payroll"`
	CurrentMonthExpenses CurrentMonthExpenses `json:"current_month_expenses"`
	RecentActivities     RecentActivities     `json:"recent_activities"`
	GeneratedAt          time.Time            `json:"generated_at"`
}

type EmployeeStats struct {
	TotalEmployees  int             `json:"total_employees"`
	ActiveEmployees int             `json:"active_employees"`
	TotalSalary     decimal.Decimal `json:"total_salary"`
}

type TodayAttendance struct {
	PresentCount int `json:"present_count"`
	AbsentCount  int `json:"absent_count"`
	LateCount    int `json:"late_count"`
}

type CurrentMonthPayroll struct {
	TotalPayroll     decimal.Decimal `json:"total_payroll"`
	PaidEmployees    int             `json:"paid_employees"`
	PendingEmployees int             `json:"pending_employees"`
}

type CurrentMonthExpenses struct {
	Expenses decimal.Decimal `json:"expenses"`
	Revenue  decimal.Decimal `json:"revenue"`
}

type RecentActivities struct {
	Employees []RecentEmployee `json:"employees"`
	Payroll   []RecentPayroll  `json:"payroll"`
	Expenses  []RecentExpense  `json:"expenses"`
}

type RecentEmployee struct {
	ID           string `json:"id"`
	EmployeeCode string `json:"employee_id"`
	FullName     string `json:"full_name"`
	Department   string `json:"department"`
	Status       string `json:"status"`
}

type RecentPayroll struct {
	ID           string          `json:"id"`
	EmployeeCode string          `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	Month        int             `json:"month"`
	Year         int             `json:"year"`
	NetSalary    decimal.Decimal `json:"net_salary"`
	Status       string          `json:"status"`
}

type RecentExpense struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Amount   decimal.Decimal `json:"amount"`
	Type     string          `json:"type"`
	Category string          `json:"category"`
	Date     string          `json:"date"`
}

// ========================================
// FINANCIAL REPORT
// ========================================

type DateRangeRequest struct {
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
}

func (r *DateRangeRequest) Validate() error {
	var errs validator.ValidationErrors
	var start, end time.Time
	var okStart, okEnd bool

	if r.StartDate != nil {
		if start, okStart = validator.IsValidDate(*r.StartDate); !okStart {
			errs.Add("start_date", "must be in YYYY-MM-DD format")
		}
	}
	if r.EndDate != nil {
		if end, okEnd = validator.IsValidDate(*r.EndDate); !okEnd {
			errs.Add("end_date", "must be in YYYY-MM-DD format")
		}
	}
	if okStart && okEnd && end.Before(start) {
		errs.Add("end_date", "must not be before start_date")
	}
	return errs.OrNil()
}

// Bounds returns the parsed range; missing ends are zero.
func (r *DateRangeRequest) Bounds() (time.Time, time.Time) {
	var start, end time.Time
	if r.StartDate != nil {
		start, _ = validator.IsValidDate(*r.StartDate)
	}
	if r.EndDate != nil {
		end, _ = validator.IsValidDate(*r.EndDate)
	}
	return start, end
}

type FinancialReportResponse struct {
	StartDate        *string                    `json:"start_date,omitempty"`
	EndDate          *string                    `json:"end_date,omitempty"`
	TotalRevenue     decimal.Decimal            `json:"total_revenue"`
	TotalExpenses    decimal.Decimal            `json:"total_expenses"`
	NetProfit        decimal.Decimal            `json:"net_profit"`
	PayrollExpenses  decimal.Decimal            `json:"payroll_expenses"`
	RevenueBreakdown map[string]decimal.Decimal `json:"revenue_breakdown"`
	ExpenseBreakdown map[string]decimal.Decimal `json:"expense_breakdown"`
}

// ========================================
// EXPORTS
// ========================================

type ExportKind string

const (
	ExportEmployees  ExportKind = "employees"
	ExportPayroll    ExportKind = "payroll"
	ExportAttendance ExportKind = "attendance"
	ExportExpenses   ExportKind = "expenses"
	ExportFinancial  ExportKind = "financial"
)

var ExportKinds = []string{"employees", "payroll", "attendance", "expenses", "financial"}

type ExportRequest struct {
	Kind ExportKind
	DateRangeRequest
	Month      *int
	Year       *int
	Department *string
	Status     *string
	// Format defaults to xlsx.
	Format document.Format
}

func (r *ExportRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsInSlice(string(r.Kind), ExportKinds) {
		errs.Add("report", "must be one of: employees, payroll, attendance, expenses, financial")
	}
	if err := r.DateRangeRequest.Validate(); err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}
	if r.Month != nil && (*r.Month < 1 || *r.Month > 12) {
		errs.Add("month", "must be between 1 and 12")
	}
	if r.Format == "" {
		r.Format = document.FormatXLSX
	}
	if !validator.IsInSlice(string(r.Format), document.Formats) {
		errs.Add("format", "must be one of: xlsx, csv, pdf")
	}
	return errs.OrNil()
}

type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}
