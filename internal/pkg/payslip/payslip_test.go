package payslip

import (
	"bytes"
	"testing"
	"time"

	"github.com/officehr/payroll-backend-go/internal/domain/employee"
	"github.com/officehr/payroll-backend-go/internal/domain/payroll"
	"github.com/officehr/payroll-backend-go/internal/domain/settings"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePayroll() payroll.Payroll {
	txn := "TXN-ABC"
	paid := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	p := payroll.Payroll{
		ID:           "p-1",
		EmployeeID:   "e-1",
		EmployeeCode: "EMP000123",
		EmployeeName: "Asha (Lead) Rao",
		Department:   "IT",
		Designation:  "Developer",
		Month:        3,
		Year:         2024,
		BasicSalary:  decimal.NewFromInt(50000),
		Allowances:   employee.Allowances{HRA: decimal.NewFromInt(20000), DA: decimal.NewFromInt(5000), TA: decimal.NewFromInt(3000), Medical: decimal.NewFromInt(2000), Other: decimal.NewFromInt(1000)},
		Deductions:   payroll.Deductions{PF: decimal.NewFromInt(6000), ESI: decimal.NewFromInt(1500), Tax: decimal.NewFromInt(5000)},
		Bonuses:      payroll.Bonuses{Performance: decimal.NewFromInt(5000), Festival: decimal.NewFromInt(2000)},
		OvertimePay:  decimal.NewFromInt(4000),
		Attendance:   payroll.AttendanceSnapshot{TotalDays: 26, PresentDays: 24, AbsentDays: 1, HalfDays: 1, WorkingHours: 198.5},
		Status:       payroll.StatusPaid,
		PaymentDate:  &paid,
	}
	p.PaymentMethod = payroll.PaymentBankTransfer
	p.TransactionID = &txn
	p.Recalculate()
	return p
}

func testRenderer() *Renderer {
	return &Renderer{now: func() time.Time { return time.Date(2024, 4, 2, 10, 0, 0, 0, time.UTC) }}
}

func TestRender_ProducesPDF(t *testing.T) {
	out, err := testRenderer().Render(samplePayroll(), settings.CompanyProfile{Name: "Acme Pvt Ltd", Email: "hr@acme.test"}, "INR")
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.True(t, bytes.HasSuffix(bytes.TrimSpace(out), []byte("%%EOF")))

	body := string(out)
	for _, want := range []string{
		"(Acme Pvt Ltd)",
		"(Pay Period: March 2024)",
		"(EMP000123)",
		`(Asha \(Lead\) Rao)`,
		"(INR 92000.00)",
		"(INR 79500.00)",
		"(TXN-ABC)",
		"(Overtime Pay)",
		"(Loss of Pay)",
	} {
		assert.Contains(t, body, want)
	}
}

func TestRender_KeepsLatinAccents(t *testing.T) {
	p := samplePayroll()
	p.EmployeeName = "Jos\u00e9 M\u00fcller"

	out, err := testRenderer().Render(p, settings.CompanyProfile{Name: "Soci\u00e9t\u00e9 G\u00e9n\u00e9rale"}, "EUR")
	require.NoError(t, err)

	// cp1252 bytes for the accented letters
	assert.True(t, bytes.Contains(out, []byte("(Jos\xe9 M\xfcller)")))
	assert.True(t, bytes.Contains(out, []byte("(Soci\xe9t\xe9 G\xe9n\xe9rale)")))
	assert.False(t, bytes.Contains(out, []byte("Jos? M?ller")))
}

func TestRender_Compressed(t *testing.T) {
	out, err := NewRenderer().Render(samplePayroll(), settings.CompanyProfile{Name: "Acme Pvt Ltd"}, "INR")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.NotContains(t, string(out), "(Acme Pvt Ltd)")
}

func TestRender_RejectsEmptyRecord(t *testing.T) {
	_, err := testRenderer().Render(payroll.Payroll{}, settings.CompanyProfile{}, "INR")
	assert.Error(t, err)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "payslip-EMP000123-3-2024.pdf", Filename(samplePayroll()))
	assert.Equal(t, "payslip-e-9-12-2025.pdf", Filename(payroll.Payroll{EmployeeID: "e-9", Month: 12, Year: 2025}))
}
