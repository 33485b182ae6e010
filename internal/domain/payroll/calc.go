package payroll

import (
	"time"

	"github.com/officehr/payroll-backend-go/internal/domain/attendance"
	"github.com/officehr/payroll-backend-go/internal/domain/employee"
	"github.com/officehr/payroll-backend-go/internal/domain/settings"
	"github.com/shopspring/decimal"
)

// ComputeGrossSalary = basic + allowances + bonuses + overtime pay.
func ComputeGrossSalary(basic decimal.Decimal, allowances employee.Allowances, bonuses Bonuses, overtimePay decimal.Decimal) decimal.Decimal {
	return basic.Add(allowances.Total()).Add(bonuses.Total()).Add(overtimePay)
}

// ComputeNetSalary = gross - all deductions, LOP included.
func ComputeNetSalary(gross decimal.Decimal, deductions Deductions) decimal.Decimal {
	return gross.Sub(deductions.Total())
}

// Inputs is everything needed to compute one employee's payroll for a period.
type Inputs struct {
	Employee   employee.Employee
	Month      int
	Year       int
	Attendance attendance.MonthlySummary
	Payroll    settings.PayrollConfig
	Calendar   settings.AttendanceConfig
	Bonuses    Bonuses
}

// Compute builds a Pending payroll record. It is a pure function of its inputs.
//
// Working days come from the calendar (weekly offs and holidays excluded). Working days
// with no Present, Half Day, Leave or Holiday record count as absent. LOP is charged at
// basic / monthWorkingDays per absent day and half that per half day, capped at basic.
// Overtime is paid at basic / (monthWorkingDays * standard hours) * overtime rate per hour.
func Compute(in Inputs) Payroll {
	monthDays := in.Calendar.WorkingDaysIn(in.Year, time.Month(in.Month))
	expected := employeeWorkingDays(in)

	a := in.Attendance
	covered := a.PresentDays + a.HalfDays + a.LeaveDays + a.HolidayDays
	absent := expected - covered
	if absent < 0 {
		absent = 0
	}

	basic := in.Employee.Salary.Basic
	lop := decimal.Zero
	overtimePay := decimal.Zero
	if monthDays > 0 {
		dailyRate := basic.Div(decimal.NewFromInt(int64(monthDays)))
		lostDays := decimal.NewFromInt(int64(absent)).Add(decimal.NewFromInt(int64(a.HalfDays)).Mul(decimal.NewFromFloat(0.5)))
		lop = decimal.Min(dailyRate.Mul(lostDays), basic).Round(2)

		if in.Payroll.DefaultWorkingHours > 0 {
			hourly := dailyRate.Div(decimal.NewFromFloat(in.Payroll.DefaultWorkingHours))
			overtimePay = hourly.Mul(decimal.NewFromFloat(a.TotalOvertime)).Mul(in.Payroll.OvertimeRate).Round(2)
		}
	}

	standing := in.Employee.Salary.Deductions
	p := Payroll{
		EmployeeID:  in.Employee.ID,
		Month:       in.Month,
		Year:        in.Year,
		BasicSalary: basic,
		Allowances:  in.Employee.Salary.Allowances,
		Deductions: Deductions{
			PF:    standing.PF,
			ESI:   standing.ESI,
			Tax:   standing.Tax,
			LOP:   lop,
			Other: standing.Other,
		},
		Bonuses: in.Bonuses,
		Attendance: AttendanceSnapshot{
			TotalDays:    expected,
			PresentDays:  a.PresentDays,
			AbsentDays:   absent,
			HalfDays:     a.HalfDays,
			LeaveDays:    a.LeaveDays,
			HolidayDays:  a.HolidayDays,
			LateDays:     a.LateDays,
			WorkingHours: a.TotalWorkingHours,
			Overtime:     a.TotalOvertime,
		},
		OvertimePay:   overtimePay,
		Status:        StatusPending,
		PaymentMethod: PaymentBankTransfer,

		EmployeeCode:  in.Employee.EmployeeCode,
		EmployeeName:  in.Employee.FullName(),
		EmployeeEmail: in.Employee.Email,
		Department:    string(in.Employee.Department),
		Designation:   string(in.Employee.Role),
	}
	p.Recalculate()
	return p
}

// SummarizeForPeriod summarizes an employee's records for payroll. Status counts only
// include records dated on a working day of the period on or after the joining date,
// so work on a weekly off or holiday never offsets a missed working day. Hours,
// overtime and late marks include every record.
func SummarizeForPeriod(records []attendance.Attendance, emp employee.Employee, month, year int, cal settings.AttendanceConfig) attendance.MonthlySummary {
	joined := truncateDay(emp.JoiningDate)
	counted := make([]attendance.Attendance, 0, len(records))
	for _, r := range records {
		day := truncateDay(r.Date)
		if day.Year() != year || int(day.Month()) != month || day.Before(joined) || !cal.IsWorkingDay(day) {
			continue
		}
		counted = append(counted, r)
	}

	all := attendance.Summarize(records)
	s := attendance.Summarize(counted)
	s.LateDays = all.LateDays
	s.TotalWorkingHours = all.TotalWorkingHours
	s.TotalOvertime = all.TotalOvertime
	return s
}

func truncateDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// employeeWorkingDays counts working days in the period on or after the joining date.
func employeeWorkingDays(in Inputs) int {
	start := time.Date(in.Year, time.Month(in.Month), 1, 0, 0, 0, 0, time.UTC)
	joined := truncateDay(in.Employee.JoiningDate)

	days := 0
	for d := start; d.Month() == time.Month(in.Month); d = d.AddDate(0, 0, 1) {
		if d.Before(joined) {
			continue
		}
		if in.Calendar.IsWorkingDay(d) {
			days++
		}
	}
	return days
}

// JoinedAfter reports whether the employee joined after the last day of the period.
func JoinedAfter(e employee.Employee, month, year int) bool {
	end := time.Date(year, time.Month(month)+1, 1, 0, 0, 0, 0, time.UTC)
	return !e.JoiningDate.IsZero() && !e.JoiningDate.Before(end)
}
