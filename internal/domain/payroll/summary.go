package payroll

import "github.com/shopspring/decimal"

// Summary is a pure roll-up over a set of payroll records.
// TotalDeductions includes LOP; TotalLopAmount repeats the LOP share on its own.
type Summary struct {
	TotalEmployees   int
	TotalBasicSalary decimal.Decimal
	TotalGrossSalary decimal.Decimal
	TotalNetSalary   decimal.Decimal
	TotalAllowances  decimal.Decimal
	TotalDeductions  decimal.Decimal
	TotalBonuses     decimal.Decimal
	TotalOvertimePay decimal.Decimal
	TotalLopAmount   decimal.Decimal
	PaidCount        int
	PendingCount     int
	CancelledCount   int
}

func Summarize(records []Payroll) Summary {
	s := Summary{
		TotalBasicSalary: decimal.Zero,
		TotalGrossSalary: decimal.Zero,
		TotalNetSalary:   decimal.Zero,
		TotalAllowances:  decimal.Zero,
		TotalDeductions:  decimal.Zero,
		TotalBonuses:     decimal.Zero,
		TotalOvertimePay: decimal.Zero,
		TotalLopAmount:   decimal.Zero,
	}
	employees := make(map[string]struct{}, len(records))

	for _, r := range records {
		employees[r.EmployeeID] = struct{}{}
		s.TotalBasicSalary = s.TotalBasicSalary.Add(r.BasicSalary)
		s.TotalGrossSalary = s.TotalGrossSalary.Add(r.GrossSalary)
		s.TotalNetSalary = s.TotalNetSalary.Add(r.NetSalary)
		s.TotalAllowances = s.TotalAllowances.Add(r.Allowances.Total())
		s.TotalDeductions = s.TotalDeductions.Add(r.Deductions.Total())
		s.TotalBonuses = s.TotalBonuses.Add(r.Bonuses.Total())
		s.TotalOvertimePay = s.TotalOvertimePay.Add(r.OvertimePay)
		s.TotalLopAmount = s.TotalLopAmount.Add(r.LopAmount)

		switch r.Status {
		case StatusPaid:
			s.PaidCount++
		case StatusPending:
			s.PendingCount++
		case StatusCancelled:
			s.CancelledCount++
		}
	}
	s.TotalEmployees = len(employees)
	return s
}

// YTD is an employee's year-to-date roll-up. Cancelled records are excluded.
type YTD struct {
	Summary
	Year             int
	MonthsPaid       int
	AverageNetSalary decimal.Decimal
}

func YearToDate(year int, records []Payroll) YTD {
	active := make([]Payroll, 0, len(records))
	for _, r := range records {
		if r.Year == year && r.Status != StatusCancelled {
			active = append(active, r)
		}
	}

	s := Summarize(active)
	avg := decimal.Zero
	if len(active) > 0 {
		avg = s.TotalNetSalary.Div(decimal.NewFromInt(int64(len(active)))).Round(2)
	}
	return YTD{Summary: s, Year: year, MonthsPaid: s.PaidCount, AverageNetSalary: avg}
}
