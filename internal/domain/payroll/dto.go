package payroll

import (
	"time"

	"github.com/officehr/payroll-backend-go/internal/domain/employee"
	"github.com/officehr/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const (
	MinYear = 2020
	MaxYear = 2030
)

func validatePeriod(month, year int, errs *validator.ValidationErrors) {
	if month < 1 || month > 12 {
		errs.Add("month", "must be between 1 and 12")
	}
	if year < MinYear || year > MaxYear {
		errs.Add("year", "must be between 2020 and 2030")
	}
}

// ========== GENERATE ==========

type GeneratePayrollRequest struct {
	Month       int      `json:"month"`
	Year        int      `json:"year"`
	EmployeeIDs []string `json:"employee_ids,omitempty"` // empty = all active employees
	// Force regenerates records that are still Pending. Paid and Cancelled records are never touched.
	Force bool `json:"force,omitempty"`
	// Bonuses replaces the configured flat bonuses for this run.
	Bonuses *Bonuses `json:"bonuses,omitempty"`
	// BonusOverrides sets bonuses per employee id and wins over Bonuses.
	BonusOverrides map[string]Bonuses `json:"bonus_overrides,omitempty"`
	ProcessedBy    *string            `json:"-"`
}

func (r *GeneratePayrollRequest) Validate() error {
	var errs validator.ValidationErrors
	validatePeriod(r.Month, r.Year, &errs)
	if r.Bonuses != nil && r.Bonuses.IsNegative() {
		errs.Add("bonuses", "must be non-negative")
	}
	for id, b := range r.BonusOverrides {
		if b.IsNegative() {
			errs.Add("bonus_overrides."+id, "must be non-negative")
		}
	}
	return errs.OrNil()
}

type EmployeeIssue struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeCode string `json:"employee_code,omitempty"`
	EmployeeName string `json:"employee_name,omitempty"`
	Reason       string `json:"reason"`
}

// GenerateResponse reports the outcome for every employee in the batch.
type GenerateResponse struct {
	Month     int               `json:"month"`
	Year      int               `json:"year"`
	Generated []PayrollResponse `json:"generated"`
	Conflicts []EmployeeIssue   `json:"conflicts"`
	Skipped   []EmployeeIssue   `json:"skipped"`
	Failed    []EmployeeIssue   `json:"failed"`
	Summary   SummaryResponse   `json:"summary"`
}

// ========== UPDATE ==========

type UpdatePayrollRequest struct {
	ID          string               `json:"-"`
	Allowances  *employee.Allowances `json:"allowances,omitempty"`
	Deductions  *Deductions          `json:"deductions,omitempty"`
	Bonuses     *Bonuses             `json:"bonuses,omitempty"`
	OvertimePay *decimal.Decimal     `json:"overtime_pay,omitempty"`
	Remarks     *string              `json:"remarks,omitempty" validate:"omitempty,max=500"`
}

func (r *UpdatePayrollRequest) Validate() error {
	errs := validator.ValidateStruct(r)
	if r.Allowances != nil && r.Allowances.IsNegative() {
		errs.Add("allowances", "must be non-negative")
	}
	if r.Deductions != nil && r.Deductions.IsNegative() {
		errs.Add("deductions", "must be non-negative")
	}
	if r.Bonuses != nil && r.Bonuses.IsNegative() {
		errs.Add("bonuses", "must be non-negative")
	}
	if r.OvertimePay != nil && r.OvertimePay.IsNegative() {
		errs.Add("overtime_pay", "must be non-negative")
	}
	return errs.OrNil()
}

type UpdateStatusRequest struct {
	ID            string  `json:"-"`
	Status        string  `json:"status" validate:"required,oneof=Pending Paid Cancelled"`
	PaymentDate   *string `json:"payment_date,omitempty"`
	PaymentMethod *string `json:"payment_method,omitempty" validate:"omitempty,oneof='Bank Transfer' 'Cash' 'Check'"`
	TransactionID *string `json:"transaction_id,omitempty" validate:"omitempty,max=100"`
	Remarks       *string `json:"remarks,omitempty" validate:"omitempty,max=500"`
	ProcessedBy   *string `json:"-"`
}

func (r *UpdateStatusRequest) Validate() error {
	errs := validator.ValidateStruct(r)
	if r.PaymentDate != nil {
		if _, ok := parsePaymentDate(*r.PaymentDate); !ok {
			errs.Add("payment_date", "must be YYYY-MM-DD or RFC3339")
		}
	}
	return errs.OrNil()
}

// ToChange converts the validated request into a StatusChange.
func (r *UpdateStatusRequest) ToChange() StatusChange {
	change := StatusChange{
		Status:        Status(r.Status),
		TransactionID: r.TransactionID,
		Remarks:       r.Remarks,
		ProcessedBy:   r.ProcessedBy,
	}
	if r.PaymentDate != nil {
		if t, ok := parsePaymentDate(*r.PaymentDate); ok {
			change.PaymentDate = &t
		}
	}
	if r.PaymentMethod != nil {
		m := PaymentMethod(*r.PaymentMethod)
		change.PaymentMethod = &m
	}
	return change
}

func parsePaymentDate(s string) (time.Time, bool) {
	if t, ok := validator.IsValidDate(s); ok {
		return t, true
	}
	return validator.IsValidDateTime(s)
}

// ========== LIST ==========

type PayrollFilter struct {
	Search     *string `json:"search,omitempty"`
	Month      *int    `json:"month,omitempty"`
	Year       *int    `json:"year,omitempty"`
	Status     *string `json:"status,omitempty"`
	Department *string `json:"department,omitempty"`
	EmployeeID *string `json:"employee_id,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortBy    string `json:"sort_by"` // created_at, net_salary, gross_salary, period
	SortOrder string `json:"sort_order"`
}

var payrollSortColumns = []string{"created_at", "net_salary", "gross_salary", "period"}

func (f *PayrollFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if f.Limit == 0 {
		f.Limit = 10
	}
	if f.Limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}
	if f.Month != nil && (*f.Month < 1 || *f.Month > 12) {
		errs.Add("month", "must be between 1 and 12")
	}
	if f.Status != nil && !validator.IsInSlice(*f.Status, Statuses) {
		errs.Add("status", "status must be one of: Pending, Paid, Cancelled")
	}
	if f.SortBy == "" {
		f.SortBy = "period"
	}
	if !validator.IsInSlice(f.SortBy, payrollSortColumns) {
		errs.Add("sort_by", "unsupported sort column")
	}
	if f.SortOrder == "" {
		f.SortOrder = "desc"
	}
	if f.SortOrder != "asc" && f.SortOrder != "desc" {
		errs.Add("sort_order", "must be asc or desc")
	}

	return errs.OrNil()
}

type PeriodQuery struct {
	Month int
	Year  int
}

func (q *PeriodQuery) Validate() error {
	var errs validator.ValidationErrors
	validatePeriod(q.Month, q.Year, &errs)
	return errs.OrNil()
}

// ========== RESPONSES ==========

type PayrollResponse struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeCode string `json:"employee_code"`
	EmployeeName string `json:"employee_name"`
	Department   string `json:"department,omitempty"`
	Designation  string `json:"designation,omitempty"`
	Month        int    `json:"month"`
	Year         int    `json:"year"`
	Period       string `json:"period"`

	BasicSalary     decimal.Decimal     `json:"basic_salary"`
	Allowances      employee.Allowances `json:"allowances"`
	TotalAllowances decimal.Decimal     `json:"total_allowances"`
	Deductions      Deductions          `json:"deductions"`
	TotalDeductions decimal.Decimal     `json:"total_deductions"`
	Bonuses         Bonuses             `json:"bonuses"`
	TotalBonuses    decimal.Decimal     `json:"total_bonuses"`
	Attendance      AttendanceSnapshot  `json:"attendance"`
	OvertimePay     decimal.Decimal     `json:"overtime_pay"`
	LopAmount       decimal.Decimal     `json:"lop_amount"`
	GrossSalary     decimal.Decimal     `json:"gross_salary"`
	NetSalary       decimal.Decimal     `json:"net_salary"`

	Status           string     `json:"status"`
	PaymentDate      *time.Time `json:"payment_date,omitempty"`
	PaymentMethod    string     `json:"payment_method"`
	TransactionID    *string    `json:"transaction_id,omitempty"`
	Remarks          *string    `json:"remarks,omitempty"`
	PayslipGenerated bool       `json:"payslip_generated"`
	EmailSent        bool       `json:"email_sent"`
	EmailSentAt      *time.Time `json:"email_sent_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func NewPayrollResponse(p Payroll) PayrollResponse {
	return PayrollResponse{
		ID:               p.ID,
		EmployeeID:       p.EmployeeID,
		EmployeeCode:     p.EmployeeCode,
		EmployeeName:     p.EmployeeName,
		Department:       p.Department,
		Designation:      p.Designation,
		Month:            p.Month,
		Year:             p.Year,
		Period:           p.Period(),
		BasicSalary:      p.BasicSalary,
		Allowances:       p.Allowances,
		TotalAllowances:  p.Allowances.Total(),
		Deductions:       p.Deductions,
		TotalDeductions:  p.Deductions.Total(),
		Bonuses:          p.Bonuses,
		TotalBonuses:     p.Bonuses.Total(),
		Attendance:       p.Attendance,
		OvertimePay:      p.OvertimePay,
		LopAmount:        p.LopAmount,
		GrossSalary:      p.GrossSalary,
		NetSalary:        p.NetSalary,
		Status:           string(p.Status),
		PaymentDate:      p.PaymentDate,
		PaymentMethod:    string(p.PaymentMethod),
		TransactionID:    p.TransactionID,
		Remarks:          p.Remarks,
		PayslipGenerated: p.PayslipGenerated,
		EmailSent:        p.EmailSent,
		EmailSentAt:      p.EmailSentAt,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func NewPayrollResponses(records []Payroll) []PayrollResponse {
	out := make([]PayrollResponse, 0, len(records))
	for _, r := range records {
		out = append(out, NewPayrollResponse(r))
	}
	return out
}

type ListPayrollResponse struct {
	Payrolls   []PayrollResponse `json:"payrolls"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

type SummaryResponse struct {
	TotalEmployees   int             `json:"total_employees"`
	TotalBasicSalary decimal.Decimal `json:"total_basic_salary"`
	TotalGrossSalary decimal.Decimal `json:"total_gross_salary"`
	TotalNetSalary   decimal.Decimal `json:"total_net_salary"`
	TotalAllowances  decimal.Decimal `json:"total_allowances"`
	TotalDeductions  decimal.Decimal `json:"total_deductions"`
	TotalBonuses     decimal.Decimal `json:"total_bonuses"`
	TotalOvertimePay decimal.Decimal `json:"total_overtime_pay"`
	TotalLopAmount   decimal.Decimal `json:"total_lop_amount"`
	PaidCount        int             `json:"paid_count"`
	PendingCount     int             `json:"pending_count"`
	CancelledCount   int             `json:"cancelled_count"`
}

func NewSummaryResponse(s Summary) SummaryResponse {
	return SummaryResponse{
		TotalEmployees:   s.TotalEmployees,
		TotalBasicSalary: s.TotalBasicSalary,
		TotalGrossSalary: s.TotalGrossSalary,
		TotalNetSalary:   s.TotalNetSalary,
		TotalAllowances:  s.TotalAllowances,
		TotalDeductions:  s.TotalDeductions,
		TotalBonuses:     s.TotalBonuses,
		TotalOvertimePay: s.TotalOvertimePay,
		TotalLopAmount:   s.TotalLopAmount,
		PaidCount:        s.PaidCount,
		PendingCount:     s.PendingCount,
		CancelledCount:   s.CancelledCount,
	}
}

type MonthlyPayrollResponse struct {
	Month     int               `json:"month"`
	Year      int               `json:"year"`
	MonthName string            `json:"month_name"`
	Payrolls  []PayrollResponse `json:"payrolls"`
	Summary   SummaryResponse   `json:"summary"`
}

type YTDResponse struct {
	SummaryResponse
	Year             int             `json:"year"`
	MonthsPaid       int             `json:"months_paid"`
	AverageNetSalary decimal.Decimal `json:"average_net_salary"`
}

type EmployeePayrollResponse struct {
	EmployeeID string            `json:"employee_id"`
	Year       int               `json:"year"`
	Payrolls   []PayrollResponse `json:"payrolls"`
	YTD        YTDResponse       `json:"ytd"`
}
