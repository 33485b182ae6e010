package payroll

import (
	"testing"
	"time"

	"github.com/officehr/payroll-backend-go/internal/domain/attendance"
	"github.com/officehr/payroll-backend-go/internal/domain/employee"
	"github.com/officehr/payroll-backend-go/internal/domain/settings"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func sampleRecord() Payroll {
	p := Payroll{
		BasicSalary: d("50000"),
		Allowances: employee.Allowances{
			HRA: d("20000"), DA: d("5000"), TA: d("3000"), Medical: d("2000"), Other: d("1000"),
		},
		Deductions: Deductions{
			PF: d("6000"), ESI: d("1000"), Tax: d("5000"), LOP: decimal.Zero, Other: d("500"),
		},
		Bonuses:     Bonuses{Performance: d("5000"), Festival: d("2000"), Other: decimal.Zero},
		OvertimePay: d("4000"),
		Status:      StatusPending,
	}
	p.Recalculate()
	return p
}

func TestRecalculate_ReferenceExample(t *testing.T) {
	p := sampleRecord()

	assert.True(t, p.Allowances.Total().Equal(d("31000")))
	assert.True(t, p.Deductions.Total().Equal(d("12500")))
	assert.True(t, p.Bonuses.Total().Equal(d("7000")))
	assert.True(t, p.GrossSalary.Equal(d("92000")), "gross = %s", p.GrossSalary)
	assert.True(t, p.NetSalary.Equal(d("79500")), "net = %s", p.NetSalary)
	assert.True(t, p.LopAmount.IsZero())
}

func TestRecalculate_LopFollowsDeductions(t *testing.T) {
	p := sampleRecord()
	p.Deductions.LOP = d("2500")

	p.Recalculate()

	assert.True(t, p.LopAmount.Equal(d("2500")))
	assert.True(t, p.GrossSalary.Equal(d("92000")))
	// net = gross - (standing deductions + lop)
	want := p.GrossSalary.Sub(p.Deductions.Standing().Add(p.LopAmount))
	assert.True(t, p.NetSalary.Equal(want))
	assert.True(t, p.NetSalary.Equal(d("77000")))
}

func testCalendar() settings.AttendanceConfig {
	return settings.AttendanceConfig{WeeklyOffs: []string{"Sunday"}}
}

func testPayrollConfig() settings.PayrollConfig {
	return settings.PayrollConfig{
		DefaultWorkingHours: 8,
		OvertimeRate:        d("1.5"),
	}
}

func testEmployee() employee.Employee {
	return employee.Employee{
		ID:           "emp-1",
		EmployeeCode: "EMP000001",
		FirstName:    "Asha",
		LastName:     "Rao",
		Email:        "asha@example.com",
		Department:   "IT",
		Role:         employee.RoleDeveloper,
		JoiningDate:  time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC),
		Status:       employee.StatusActive,
		Salary: employee.Salary{
			Basic:      d("26000"),
			Allowances: employee.Allowances{HRA: d("4000")},
			Deductions: employee.Deductions{PF: d("3120"), Tax: d("500")},
		},
	}
}

func TestCompute_FullAttendance(t *testing.T) {
	// April 2024 has 30 days and 4 Sundays: 26 working days.
	p := Compute(Inputs{
		Employee:   testEmployee(),
		Month:      4,
		Year:       2024,
		Attendance: attendance.MonthlySummary{PresentDays: 26, TotalWorkingHours: 208},
		Payroll:    testPayrollConfig(),
		Calendar:   testCalendar(),
	})

	assert.Equal(t, 26, p.Attendance.TotalDays)
	assert.Equal(t, 0, p.Attendance.AbsentDays)
	assert.True(t, p.LopAmount.IsZero())
	assert.True(t, p.OvertimePay.IsZero())
	assert.True(t, p.GrossSalary.Equal(d("30000")))
	assert.True(t, p.NetSalary.Equal(d("26380")))
	assert.Equal(t, StatusPending, p.Status)
	assert.Equal(t, PaymentBankTransfer, p.PaymentMethod)
	assert.Equal(t, "Asha Rao", p.EmployeeName)
}

func TestCompute_MissingDaysCountAsAbsent(t *testing.T) {
	// 26 working days, 20 present, 2 half days, 1 leave: 3 unaccounted days.
	p := Compute(Inputs{
		Employee:   testEmployee(),
		Month:      4,
		Year:       2024,
		Attendance: attendance.MonthlySummary{PresentDays: 20, HalfDays: 2, LeaveDays: 1},
		Payroll:    testPayrollConfig(),
		Calendar:   testCalendar(),
	})

	assert.Equal(t, 3, p.Attendance.AbsentDays)
	// 26000/26 = 1000 a day; 3 absent + 2 * 0.5 half days = 4 days
	assert.True(t, p.LopAmount.Equal(d("4000")), "lop = %s", p.LopAmount)
	assert.True(t, p.Deductions.LOP.Equal(p.LopAmount))
	assert.True(t, p.NetSalary.Equal(d("22380")), "net = %s", p.NetSalary)
}

func TestCompute_OvertimePay(t *testing.T) {
	p := Compute(Inputs{
		Employee:   testEmployee(),
		Month:      4,
		Year:       2024,
		Attendance: attendance.MonthlySummary{PresentDays: 26, TotalOvertime: 10},
		Payroll:    testPayrollConfig(),
		Calendar:   testCalendar(),
	})

	// hourly = 1000 / 8 = 125; 10h * 125 * 1.5
	assert.True(t, p.OvertimePay.Equal(d("1875")), "overtime pay = %s", p.OvertimePay)
	assert.True(t, p.GrossSalary.Equal(d("31875")))
}

func TestCompute_LopCappedAtBasic(t *testing.T) {
	p := Compute(Inputs{
		Employee: testEmployee(),
		Month:    4,
		Year:     2024,
		Payroll:  testPayrollConfig(),
		Calendar: testCalendar(),
	})

	assert.Equal(t, 26, p.Attendance.AbsentDays)
	assert.True(t, p.LopAmount.Equal(d("26000")))
}

func TestCompute_JoinedMidMonth(t *testing.T) {
	e := testEmployee()
	e.JoiningDate = time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC) // Monday

	p := Compute(Inputs{
		Employee:   e,
		Month:      4,
		Year:       2024,
		Attendance: attendance.MonthlySummary{PresentDays: 14},
		Payroll:    testPayrollConfig(),
		Calendar:   testCalendar(),
	})

	// Apr 15..30 has 16 days with 2 Sundays
	assert.Equal(t, 14, p.Attendance.TotalDays)
	assert.Equal(t, 0, p.Attendance.AbsentDays)
	assert.True(t, p.LopAmount.IsZero())
}

func TestCompute_HolidaysReduceExpectedDays(t *testing.T) {
	cal := testCalendar()
	cal.Holidays = []settings.Holiday{{Date: "2024-04-10", Name: "Festival"}}

	p := Compute(Inputs{
		Employee:   testEmployee(),
		Month:      4,
		Year:       2024,
		Attendance: attendance.MonthlySummary{PresentDays: 25},
		Payroll:    testPayrollConfig(),
		Calendar:   cal,
	})

	assert.Equal(t, 25, p.Attendance.TotalDays)
	assert.True(t, p.LopAmount.IsZero())
}

func TestJoinedAfter(t *testing.T) {
	e := testEmployee()
	e.JoiningDate = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, JoinedAfter(e, 4, 2024))
	assert.False(t, JoinedAfter(e, 5, 2024))
}

func presentOn(day time.Time, hours float64) attendance.Attendance {
	return attendance.Attendance{Date: day, Status: attendance.StatusPresent, WorkingHours: hours}
}

func TestSummarizeForPeriod_WeeklyOffWorkDoesNotOffsetAbsence(t *testing.T) {
	// April 2024 Sundays: 7, 14, 21, 28.
	var records []attendance.Attendance
	for _, day := range []int{7, 14, 21, 28} {
		records = append(records, presentOn(time.Date(2024, 4, day, 0, 0, 0, 0, time.UTC), 8))
	}

	sum := SummarizeForPeriod(records, testEmployee(), 4, 2024, testCalendar())
	assert.Equal(t, 0, sum.PresentDays)
	assert.InDelta(t, 32, sum.TotalWorkingHours, 0.001)

	p := Compute(Inputs{
		Employee:   testEmployee(),
		Month:      4,
		Year:       2024,
		Attendance: sum,
		Payroll:    testPayrollConfig(),
		Calendar:   testCalendar(),
	})
	assert.Equal(t, 26, p.Attendance.TotalDays)
	assert.Equal(t, 26, p.Attendance.AbsentDays)
	assert.True(t, p.LopAmount.Equal(d("26000")), "lop = %s", p.LopAmount)
}

func TestSummarizeForPeriod_IgnoresHolidaysAndDaysBeforeJoining(t *testing.T) {
	cal := testCalendar()
	cal.Holidays = []settings.Holiday{{Date: "2024-04-10", Name: "Festival"}}
	e := testEmployee()
	e.JoiningDate = time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)

	records := []attendance.Attendance{
		presentOn(time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC), 8),
		presentOn(time.Date(2024, 4, 12, 0, 0, 0, 0, time.UTC), 8),
		presentOn(time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC), 8),
		{Date: time.Date(2024, 4, 16, 0, 0, 0, 0, time.UTC), Status: attendance.StatusHalfDay, WorkingHours: 4},
	}

	sum := SummarizeForPeriod(records, e, 4, 2024, cal)
	assert.Equal(t, 1, sum.PresentDays)
	assert.Equal(t, 1, sum.HalfDays)

	p := Compute(Inputs{Employee: e, Month: 4, Year: 2024, Attendance: sum, Payroll: testPayrollConfig(), Calendar: cal})
	// Apr 15..30 has 14 working days: 1 present, 1 half day, 12 absent.
	assert.Equal(t, 14, p.Attendance.TotalDays)
	assert.Equal(t, 12, p.Attendance.AbsentDays)
}
