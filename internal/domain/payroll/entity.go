package payroll

import (
	"fmt"
	"time"

	"github.com/officehr/payroll-backend-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusPaid      Status = "Paid"
	StatusCancelled Status = "Cancelled"
)

var Statuses = []string{string(StatusPending), string(StatusPaid), string(StatusCancelled)}

type PaymentMethod string

const (
	PaymentBankTransfer PaymentMethod = "Bank Transfer"
	PaymentCash         PaymentMethod = "Cash"
	PaymentCheck        PaymentMethod = "Check"
)

var PaymentMethods = []string{string(PaymentBankTransfer), string(PaymentCash), string(PaymentCheck)}

// Payroll is one employee's pay record for a calendar month.
// (EmployeeID, Month, Year) is unique and never changes after creation.
type Payroll struct {
	ID          string
	EmployeeID  string
	Month       int
	Year        int
	BasicSalary decimal.Decimal
	Allowances  employee.Allowances
	Deductions  Deductions
	Bonuses     Bonuses
	Attendance  AttendanceSnapshot
	OvertimePay decimal.Decimal
	LopAmount   decimal.Decimal
	GrossSalary decimal.Decimal
	NetSalary   decimal.Decimal

	Status        Status
	PaymentDate   *time.Time
	PaymentMethod PaymentMethod
	TransactionID *string
	Remarks       *string
	ProcessedBy   *string

	PayslipGenerated bool
	PayslipPath      *string
	EmailSent        bool
	EmailSentAt      *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined from employees
	EmployeeCode  string
	EmployeeName  string
	EmployeeEmail string
	Department    string
	Designation   string
}

// Deductions on a payroll record. LOP is computed per period; the rest are copied
// from the employee's standing salary structure.
type Deductions struct {
	PF    decimal.Decimal `json:"pf"`
	ESI   decimal.Decimal `json:"esi"`
	Tax   decimal.Decimal `json:"tax"`
	LOP   decimal.Decimal `json:"lop"`
	Other decimal.Decimal `json:"other"`
}

// Total includes LOP.
func (d Deductions) Total() decimal.Decimal {
	return decimal.Sum(d.PF, d.ESI, d.Tax, d.LOP, d.Other)
}

// Standing is every deduction except LOP.
func (d Deductions) Standing() decimal.Decimal {
	return decimal.Sum(d.PF, d.ESI, d.Tax, d.Other)
}

func (d Deductions) IsNegative() bool {
	return d.PF.IsNegative() || d.ESI.IsNegative() || d.Tax.IsNegative() || d.LOP.IsNegative() || d.Other.IsNegative()
}

type Bonuses struct {
	Performance decimal.Decimal `json:"performance"`
	Festival    decimal.Decimal `json:"festival"`
	Other       decimal.Decimal `json:"other"`
}

func (b Bonuses) Total() decimal.Decimal {
	return decimal.Sum(b.Performance, b.Festival, b.Other)
}

func (b Bonuses) IsNegative() bool {
	return b.Performance.IsNegative() || b.Festival.IsNegative() || b.Other.IsNegative()
}

// AttendanceSnapshot freezes the attendance figures the record was computed from.
type AttendanceSnapshot struct {
	TotalDays    int     `json:"total_days"` // expected working days for the employee
	PresentDays  int     `json:"present_days"`
	AbsentDays   int     `json:"absent_days"`
	HalfDays     int     `json:"half_days"`
	LeaveDays    int     `json:"leave_days"`
	HolidayDays  int     `json:"holiday_days"`
	LateDays     int     `json:"late_days"`
	WorkingHours float64 `json:"working_hours"`
	Overtime     float64 `json:"overtime"`
}

// Recalculate re-derives LOP, gross and net from the stored components.
// Every mutation of a record goes through it before being persisted.
func (p *Payroll) Recalculate() {
	p.LopAmount = p.Deductions.LOP
	p.GrossSalary = ComputeGrossSalary(p.BasicSalary, p.Allowances, p.Bonuses, p.OvertimePay)
	p.NetSalary = ComputeNetSalary(p.GrossSalary, p.Deductions)
}

// Period returns the label used on payslips, e.g. "March 2024".
func (p Payroll) Period() string {
	return fmt.Sprintf("%s %d", time.Month(p.Month).String(), p.Year)
}

func (p Payroll) IsEditable() bool {
	return p.Status == StatusPending
}
