// Package payslip renders payroll records as single-page PDF documents.
package payslip

import (
	"fmt"
	"strconv"
	"time"

	"github.com/officehr/payroll-backend-go/internal/domain/payroll"
	"github.com/officehr/payroll-backend-go/internal/domain/settings"
	"github.com/officehr/payroll-backend-go/internal/pkg/document"
	"github.com/shopspring/decimal"
)

const ContentType = "application/pdf"

// Filename is payslip-{employeeId}-{month}-{year}.pdf.
func Filename(p payroll.Payroll) string {
	code := p.EmployeeCode
	if code == "" {
		code = p.EmployeeID
	}
	return fmt.Sprintf("payslip-%s-%d-%d.pdf", code, p.Month, p.Year)
}

type Renderer struct {
	now      func() time.Time
	compress bool
}

func NewRenderer() *Renderer {
	return &Renderer{now: time.Now, compress: true}
}

type line struct {
	label  string
	amount decimal.Decimal
}

// Render lays out identity, itemised earnings and deductions, attendance, totals
// and payment metadata on one A4 page.
func (r *Renderer) Render(p payroll.Payroll, company settings.CompanyProfile, currency string) ([]byte, error) {
	if p.ID == "" && p.EmployeeID == "" {
		return nil, fmt.Errorf("empty payroll record")
	}
	money := func(d decimal.Decimal) string {
		return currency + " " + d.StringFixed(2)
	}

	generatedAt := r.now()
	pg := document.NewPDF(document.PDFOptions{Compress: r.compress, CreatedAt: generatedAt})
	pg.SetTitle("Payslip "+p.Period(), true)
	pg.SetAutoPageBreak(false, 0)
	pg.AddPage()

	const left, mid, right = 15.0, 108.0, 195.0
	y := 15.0

	// ========== HEADER ==========
	pg.Shade(left-3, y-3, right-left+6, 28, 235)
	pg.Font("B", 16)
	pg.TextAt(left, y, 7, company.Name)
	pg.Font("", 9)
	pg.TextAt(left, y+8, 5, company.Address)
	pg.TextAt(left, y+13, 5, joinNonEmpty(" | ", company.Phone, company.Email, company.Website))
	pg.Font("B", 14)
	pg.TextRight(right, y, 7, "PAYSLIP")
	pg.Font("", 10)
	pg.TextRight(right, y+8, 5, "Pay Period: "+p.Period())
	y += 34

	// ========== EMPLOYEE ==========
	pg.Font("B", 11)
	pg.TextAt(left, y, 6, "Employee Details")
	pg.TextAt(mid, y, 6, "Payment Details")
	y += 7
	pg.Rule(y)
	y += 2

	paymentDate := "-"
	if p.PaymentDate != nil {
		paymentDate = p.PaymentDate.Format("02 Jan 2006")
	}
	transactionID := "-"
	if p.TransactionID != nil {
		transactionID = *p.TransactionID
	}
	identity := [][2]string{
		{"Employee ID", p.EmployeeCode},
		{"Name", p.EmployeeName},
		{"Department", p.Department},
		{"Designation", p.Designation},
	}
	payment := [][2]string{
		{"Status", string(p.Status)},
		{"Payment Date", paymentDate},
		{"Payment Method", string(p.PaymentMethod)},
		{"Transaction ID", transactionID},
	}
	for i := range identity {
		pg.Font("", 10)
		pg.TextAt(left, y, 6, identity[i][0]+":")
		pg.TextAt(mid, y, 6, payment[i][0]+":")
		pg.Font("B", 10)
		pg.TextAt(left+30, y, 6, identity[i][1])
		pg.TextAt(mid+32, y, 6, payment[i][1])
		y += 6
	}
	y += 6

	// ========== EARNINGS / DEDUCTIONS ==========
	earnings := []line{
		{"Basic Salary", p.BasicSalary},
		{"House Rent Allowance", p.Allowances.HRA},
		{"Dearness Allowance", p.Allowances.DA},
		{"Transport Allowance", p.Allowances.TA},
		{"Medical Allowance", p.Allowances.Medical},
		{"Other Allowance", p.Allowances.Other},
		{"Performance Bonus", p.Bonuses.Performance},
		{"Festival Bonus", p.Bonuses.Festival},
		{"Other Bonus", p.Bonuses.Other},
		{"Overtime Pay", p.OvertimePay},
	}
	deductions := []line{
		{"Provident Fund", p.Deductions.PF},
		{"Employee State Insurance", p.Deductions.ESI},
		{"Income Tax", p.Deductions.Tax},
		{"Loss of Pay", p.Deductions.LOP},
		{"Other Deductions", p.Deductions.Other},
	}

	pg.Shade(left-2, y-1, right-left+4, 8, 217)
	pg.Font("B", 11)
	pg.TextAt(left, y, 6, "Earnings")
	pg.TextRight(mid-6, y, 6, "Amount")
	pg.TextAt(mid, y, 6, "Deductions")
	pg.TextRight(right, y, 6, "Amount")
	y += 9

	pg.Font("", 10)
	for i, e := range earnings {
		pg.TextAt(left, y, 6, e.label)
		pg.TextRight(mid-6, y, 6, money(e.amount))
		if i < len(deductions) {
			pg.TextAt(mid, y, 6, deductions[i].label)
			pg.TextRight(right, y, 6, money(deductions[i].amount))
		}
		y += 6
	}
	y += 1
	pg.Rule(y)
	y += 2
	pg.Font("B", 10)
	pg.TextAt(left, y, 6, "Gross Salary")
	pg.TextRight(mid-6, y, 6, money(p.GrossSalary))
	pg.TextAt(mid, y, 6, "Total Deductions")
	pg.TextRight(right, y, 6, money(p.Deductions.Total()))
	y += 14

	// ========== ATTENDANCE ==========
	pg.Font("B", 11)
	pg.TextAt(left, y, 6, "Attendance Summary")
	y += 7
	pg.Rule(y)
	y += 2
	a := p.Attendance
	stats := [][2]string{
		{"Working Days", strconv.Itoa(a.TotalDays)},
		{"Present Days", strconv.Itoa(a.PresentDays)},
		{"Absent Days", strconv.Itoa(a.AbsentDays)},
		{"Half Days", strconv.Itoa(a.HalfDays)},
		{"Leave Days", strconv.Itoa(a.LeaveDays)},
		{"Holidays", strconv.Itoa(a.HolidayDays)},
		{"Late Days", strconv.Itoa(a.LateDays)},
		{"Working Hours", strconv.FormatFloat(a.WorkingHours, 'f', 2, 64)},
		{"Overtime Hours", strconv.FormatFloat(a.Overtime, 'f', 2, 64)},
	}
	colX := []float64{left, left + 60, left + 120}
	for i, s := range stats {
		x := colX[i%3]
		pg.Font("", 10)
		pg.TextAt(x, y, 6, s[0]+":")
		pg.Font("B", 10)
		pg.TextAt(x+30, y, 6, s[1])
		if i%3 == 2 {
			y += 6
		}
	}
	y += 10

	// ========== NET ==========
	pg.Shade(left-2, y-2, right-left+4, 11, 217)
	pg.Font("B", 13)
	pg.TextAt(left, y, 7, "Net Salary")
	pg.TextRight(right, y, 7, money(p.NetSalary))
	y += 16

	if p.Remarks != nil && *p.Remarks != "" {
		pg.Font("", 9)
		pg.SetXY(left, y)
		pg.Box(right-left, 5, "Remarks: "+*p.Remarks, "L", false, "")
	}

	pg.Font("", 8)
	pg.TextAt(left, 275, 4, "This is a computer-generated payslip and does not require a signature.")
	pg.TextAt(left, 280, 4, "Generated on "+generatedAt.Format("02 Jan 2006 15:04 MST"))

	if err := pg.Error(); err != nil {
		return nil, err
	}
	return pg.Bytes()
}

func joinNonEmpty(sep string, parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += sep
		}
		out += p
	}
	return out
}
