package payroll

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/officehr/payroll-backend-go/internal/domain/attendance"
	"github.com/officehr/payroll-backend-go/internal/domain/employee"
	"github.com/officehr/payroll-backend-go/internal/domain/payroll"
	"github.com/officehr/payroll-backend-go/internal/pkg/email"
	"github.com/officehr/payroll-backend-go/internal/pkg/storage"
	"github.com/officehr/payroll-backend-go/internal/repository/memory"
	"github.com/officehr/payroll-backend-go/internal/service/file"
	settingsservice "github.com/officehr/payroll-backend-go/internal/service/settings"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	mu   sync.Mutex
	err  error
	sent []email.PayslipMessage
}

func (m *fakeMailer) SendPayslip(ctx context.Context, msg email.PayslipMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type fixture struct {
	svc        *PayrollServiceImpl
	employees  employee.EmployeeRepository
	attendance attendance.AttendanceRepository
	payrolls   payroll.PayrollRepository
	mailer     *fakeMailer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	local, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	f := &fixture{
		employees:  memory.NewEmployeeRepository(store),
		attendance: memory.NewAttendanceRepository(store),
		payrolls:   memory.NewPayrollRepository(store),
		mailer:     &fakeMailer{},
	}
	svc := NewPayrollService(
		f.payrolls,
		f.employees,
		f.attendance,
		settingsservice.NewSettingsService(memory.NewSettingsRepository(store)),
		file.NewFileService(local),
		f.mailer,
	)
	f.svc = svc.(*PayrollServiceImpl)
	f.svc.now = func() time.Time { return time.Date(2024, 5, 3, 10, 0, 0, 0, time.UTC) }
	return f
}

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func (f *fixture) addEmployee(t *testing.T, code string, status employee.Status) employee.Employee {
	t.Helper()
	e, err := f.employees.Create(context.Background(), employee.Employee{
		EmployeeCode: code,
		FirstName:    "Emp",
		LastName:     code,
		Email:        code + "@example.com",
		Department:   "Finance",
		Role:         employee.RoleAccountant,
		Status:       status,
		JoiningDate:  time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		Salary: employee.Salary{
			Basic:      d(50000),
			Allowances: employee.Allowances{HRA: d(20000), DA: d(5000), TA: d(3000), Medical: d(2000), Other: d(1000)},
			Deductions: employee.Deductions{PF: d(6000), ESI: d(1500), Tax: d(4000), Other: d(1000)},
		},
	})
	require.NoError(t, err)
	return e
}

// attendAllApril records a full present day on every working day of April 2024.
func (f *fixture) attendAllApril(t *testing.T, employeeID string) {
	t.Helper()
	for day := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC); day.Month() == time.April; day = day.AddDate(0, 0, 1) {
		if day.Weekday() == time.Sunday {
			continue
		}
		_, err := f.attendance.Create(context.Background(), attendance.Attendance{
			EmployeeID:   employeeID,
			Date:         day,
			Status:       attendance.StatusPresent,
			WorkingHours: 8,
		})
		require.NoError(t, err)
	}
}

func aprilRequest() payroll.GeneratePayrollRequest {
	return payroll.GeneratePayrollRequest{
		Month:   4,
		Year:    2024,
		Bonuses: &payroll.Bonuses{Performance: d(5000), Festival: d(2000)},
	}
}

func TestPayrollService_Generate_FullAttendance(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	emp := f.addEmployee(t, "EMP100001", employee.StatusActive)
	f.attendAllApril(t, emp.ID)

	resp, err := f.svc.GeneratePayroll(ctx, aprilRequest())
	require.NoError(t, err)
	require.Len(t, resp.Generated, 1)
	assert.Empty(t, resp.Conflicts)

	rec := resp.Generated[0]
	assert.True(t, d(88000).Equal(rec.GrossSalary), rec.GrossSalary.String())
	assert.True(t, d(75500).Equal(rec.NetSalary), rec.NetSalary.String())
	assert.True(t, rec.LopAmount.IsZero())
	assert.Equal(t, 26, rec.Attendance.TotalDays)
	assert.Equal(t, 0, rec.Attendance.AbsentDays)
	assert.Equal(t, "Pending", rec.Status)
	assert.Equal(t, "Bank Transfer", rec.PaymentMethod)
	assert.Equal(t, "EMP100001", rec.EmployeeCode)
	assert.Equal(t, "Accountant", rec.Designation)
	assert.Equal(t, 1, resp.Summary.PendingCount)
}

func TestPayrollService_Generate_MissingAttendanceIsAbsent(t *testing.T) {
	f := newFixture(t)
	f.addEmployee(t, "EMP100002", employee.StatusActive)

	resp, err := f.svc.GeneratePayroll(context.Background(), payroll.GeneratePayrollRequest{Month: 4, Year: 2024})
	require.NoError(t, err)
	require.Len(t, resp.Generated, 1)

	rec := resp.Generated[0]
	assert.Equal(t, 26, rec.Attendance.AbsentDays)
	assert.True(t, d(50000).Equal(rec.LopAmount), rec.LopAmount.String())
	assert.True(t, rec.NetSalary.Equal(rec.GrossSalary.Sub(rec.TotalDeductions)))
}

func TestPayrollService_Generate_IdempotentReject(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	emp := f.addEmployee(t, "EMP100003", employee.StatusActive)

	_, err := f.svc.GeneratePayroll(ctx, aprilRequest())
	require.NoError(t, err)

	again, err := f.svc.GeneratePayroll(ctx, aprilRequest())
	require.NoError(t, err)
	assert.Empty(t, again.Generated)
	require.Len(t, again.Conflicts, 1)
	assert.Equal(t, emp.ID, again.Conflicts[0].EmployeeID)

	records, err := f.payrolls.ListByPeriod(ctx, 4, 2024)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestPayrollService_Generate_ForceOnlyTouchesPending(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	emp := f.addEmployee(t, "EMP100004", employee.StatusActive)

	first, err := f.svc.GeneratePayroll(ctx, aprilRequest())
	require.NoError(t, err)
	original := first.Generated[0]

	f.attendAllApril(t, emp.ID)
	req := aprilRequest()
	req.Force = true
	forced, err := f.svc.GeneratePayroll(ctx, req)
	require.NoError(t, err)
	require.Len(t, forced.Generated, 1)
	assert.Equal(t, original.ID, forced.Generated[0].ID)
	assert.True(t, forced.Generated[0].LopAmount.IsZero())

	_, err = f.svc.UpdateStatus(ctx, payroll.UpdateStatusRequest{ID: original.ID, Status: "Paid"})
	require.NoError(t, err)

	paid, err := f.svc.GeneratePayroll(ctx, req)
	require.NoError(t, err)
	assert.Empty(t, paid.Generated)
	require.Len(t, paid.Conflicts, 1)
	assert.Equal(t, payroll.ErrPayrollNotEditable.Error(), paid.Conflicts[0].Reason)
}

func TestPayrollService_Generate_Concurrent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addEmployee(t, "EMP100005", employee.StatusActive)

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.GeneratePayroll(ctx, aprilRequest())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	records, err := f.payrolls.ListByPeriod(ctx, 4, 2024)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestPayrollService_Generate_SkipsAndValidates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	active := f.addEmployee(t, "EMP100006", employee.StatusActive)
	gone := f.addEmployee(t, "EMP100007", employee.StatusTerminated)

	req := aprilRequest()
	req.EmployeeIDs = []string{active.ID, gone.ID, "missing", active.ID}
	resp, err := f.svc.GeneratePayroll(ctx, req)
	require.NoError(t, err)
	assert.Len(t, resp.Generated, 1)
	assert.Len(t, resp.Skipped, 2)

	_, err = f.svc.GeneratePayroll(ctx, payroll.GeneratePayrollRequest{Month: 13, Year: 2019})
	assert.Error(t, err)
}

func TestPayrollService_BonusOverrideWins(t *testing.T) {
	f := newFixture(t)
	emp := f.addEmployee(t, "EMP100008", employee.StatusActive)
	f.attendAllApril(t, emp.ID)

	req := aprilRequest()
	req.BonusOverrides = map[string]payroll.Bonuses{emp.ID: {Other: d(100)}}
	resp, err := f.svc.GeneratePayroll(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, resp.Generated, 1)
	assert.True(t, d(100).Equal(resp.Generated[0].TotalBonuses))
}

func TestPayrollService_StatusMachine(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addEmployee(t, "EMP100009", employee.StatusActive)
	resp, err := f.svc.GeneratePayroll(ctx, aprilRequest())
	require.NoError(t, err)
	id := resp.Generated[0].ID

	paid, err := f.svc.UpdateStatus(ctx, payroll.UpdateStatusRequest{ID: id, Status: "Paid"})
	require.NoError(t, err)
	assert.Equal(t, "Paid", paid.Status)
	require.NotNil(t, paid.PaymentDate)
	require.NotNil(t, paid.TransactionID)
	assert.Regexp(t, `^TXN-[0-9A-F]{16}$`, *paid.TransactionID)

	_, err = f.svc.UpdateStatus(ctx, payroll.UpdateStatusRequest{ID: id, Status: "Pending"})
	assert.ErrorIs(t, err, payroll.ErrInvalidStatusTransition)

	_, err = f.svc.UpdatePayroll(ctx, payroll.UpdatePayrollRequest{ID: id, Bonuses: &payroll.Bonuses{}})
	assert.ErrorIs(t, err, payroll.ErrPayrollNotEditable)

	cancelled, err := f.svc.UpdateStatus(ctx, payroll.UpdateStatusRequest{ID: id, Status: "Cancelled"})
	require.NoError(t, err)
	assert.Equal(t, "Cancelled", cancelled.Status)

	_, err = f.svc.UpdateStatus(ctx, payroll.UpdateStatusRequest{ID: id, Status: "Paid"})
	assert.ErrorIs(t, err, payroll.ErrInvalidStatusTransition)

	method := "Wire"
	_, err = f.svc.UpdateStatus(ctx, payroll.UpdateStatusRequest{ID: id, Status: "Paid", PaymentMethod: &method})
	assert.Error(t, err)
}

// interleavedRepo runs afterRead once, right after the first GetByID, so another writer
// lands between a service's read and its write.
type interleavedRepo struct {
	payroll.PayrollRepository
	once      sync.Once
	afterRead func()
}

func (r *interleavedRepo) GetByID(ctx context.Context, id string) (payroll.Payroll, error) {
	p, err := r.PayrollRepository.GetByID(ctx, id)
	r.once.Do(r.afterRead)
	return p, err
}

func TestPayrollService_StatusWriteLosesToConcurrentCancel(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addEmployee(t, "EMP100011", employee.StatusActive)
	resp, err := f.svc.GeneratePayroll(ctx, aprilRequest())
	require.NoError(t, err)
	id := resp.Generated[0].ID

	inner := f.payrolls
	f.svc.payrollRepo = &interleavedRepo{
		PayrollRepository: inner,
		afterRead: func() {
			p, err := inner.GetByID(ctx, id)
			require.NoError(t, err)
			p.Status = payroll.StatusCancelled
			_, err = inner.Update(ctx, p, payroll.StatusPending)
			require.NoError(t, err)
		},
	}

	_, err = f.svc.UpdateStatus(ctx, payroll.UpdateStatusRequest{ID: id, Status: "Paid"})
	assert.ErrorIs(t, err, payroll.ErrInvalidStatusTransition)

	stored, err := inner.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, payroll.StatusCancelled, stored.Status)
	assert.Nil(t, stored.TransactionID)
}

func TestPayrollService_EditLosesToConcurrentPayment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addEmployee(t, "EMP100012", employee.StatusActive)
	resp, err := f.svc.GeneratePayroll(ctx, aprilRequest())
	require.NoError(t, err)
	id := resp.Generated[0].ID

	inner := f.payrolls
	f.svc.payrollRepo = &interleavedRepo{
		PayrollRepository: inner,
		afterRead: func() {
			p, err := inner.GetByID(ctx, id)
			require.NoError(t, err)
			p.Status = payroll.StatusPaid
			_, err = inner.Update(ctx, p, payroll.StatusPending)
			require.NoError(t, err)
		},
	}

	_, err = f.svc.UpdatePayroll(ctx, payroll.UpdatePayrollRequest{ID: id, Bonuses: &payroll.Bonuses{Other: d(100)}})
	assert.ErrorIs(t, err, payroll.ErrPayrollNotEditable)

	stored, err := inner.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, payroll.StatusPaid, stored.Status)
}

func TestPayrollService_PayslipFlagsKeepStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addEmployee(t, "EMP100013", employee.StatusActive)
	resp, err := f.svc.GeneratePayroll(ctx, aprilRequest())
	require.NoError(t, err)
	id := resp.Generated[0].ID

	inner := f.payrolls
	f.svc.payrollRepo = &interleavedRepo{
		PayrollRepository: inner,
		afterRead: func() {
			p, err := inner.GetByID(ctx, id)
			require.NoError(t, err)
			p.Status = payroll.StatusPaid
			_, err = inner.Update(ctx, p, payroll.StatusPending)
			require.NoError(t, err)
		},
	}

	sent, err := f.svc.SendPayslip(ctx, id)
	require.NoError(t, err)
	assert.True(t, sent.EmailSent)
	assert.Equal(t, "Paid", sent.Status)
}

func TestPayrollService_UpdatePayrollRecalculates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	emp := f.addEmployee(t, "EMP100010", employee.StatusActive)
	f.attendAllApril(t, emp.ID)
	resp, err := f.svc.GeneratePayroll(ctx, aprilRequest())
	require.NoError(t, err)

	bonuses := payroll.Bonuses{Performance: d(5000), Festival: d(2000)}
	overtime := d(4000)
	updated, err := f.svc.UpdatePayroll(ctx, payroll.UpdatePayrollRequest{
		ID: resp.Generated[0].ID, Bonuses: &bonuses, OvertimePay: &overtime,
	})
	require.NoError(t, err)
	assert.True(t, d(92000).Equal(updated.GrossSalary), updated.GrossSalary.String())
	assert.True(t, d(79500).Equal(updated.NetSalary), updated.NetSalary.String())
}

func TestPayrollService_StatsAndHistory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	emp := f.addEmployee(t, "EMP100011", employee.StatusActive)
	f.attendAllApril(t, emp.ID)
	_, err := f.svc.GeneratePayroll(ctx, aprilRequest())
	require.NoError(t, err)
	_, err = f.svc.GeneratePayroll(ctx, payroll.GeneratePayrollRequest{Month: 3, Year: 2024})
	require.NoError(t, err)

	all, err := f.svc.GetStats(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, all.TotalEmployees)
	assert.Equal(t, 2, all.PendingCount)

	monthly, err := f.svc.GetMonthlyPayroll(ctx, 4, 2024)
	require.NoError(t, err)
	assert.Equal(t, "April", monthly.MonthName)
	assert.Len(t, monthly.Payrolls, 1)

	history, err := f.svc.GetEmployeePayroll(ctx, emp.ID, 2024)
	require.NoError(t, err)
	assert.Len(t, history.Payrolls, 2)
	assert.Equal(t, 0, history.YTD.MonthsPaid)

	list, err := f.svc.ListPayrolls(ctx, payroll.PayrollFilter{Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, list.TotalCount)
	assert.Equal(t, 2, list.TotalPages)
}

func TestPayrollService_GeneratePayslip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addEmployee(t, "EMP100012", employee.StatusActive)
	resp, err := f.svc.GeneratePayroll(ctx, aprilRequest())
	require.NoError(t, err)
	id := resp.Generated[0].ID

	slip, err := f.svc.GeneratePayslip(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "payslip-EMP100012-4-2024.pdf", slip.Filename)
	assert.True(t, bytes.HasPrefix(slip.Content, []byte("%PDF-")))

	stored, err := f.payrolls.GetByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, stored.PayslipGenerated)
	require.NotNil(t, stored.PayslipPath)
	assert.Equal(t, "payslips/2024/04/payslip-EMP100012-4-2024.pdf", *stored.PayslipPath)
}

func TestPayrollService_SendPayslip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addEmployee(t, "EMP100013", employee.StatusActive)
	resp, err := f.svc.GeneratePayroll(ctx, aprilRequest())
	require.NoError(t, err)
	id := resp.Generated[0].ID

	f.mailer.err = errors.New("connection refused")
	_, err = f.svc.SendPayslip(ctx, id)
	assert.ErrorIs(t, err, payroll.ErrEmailDeliveryFailed)
	unchanged, err := f.payrolls.GetByID(ctx, id)
	require.NoError(t, err)
	assert.False(t, unchanged.EmailSent)
	assert.Nil(t, unchanged.EmailSentAt)

	f.mailer.err = nil
	sent, err := f.svc.SendPayslip(ctx, id)
	require.NoError(t, err)
	assert.True(t, sent.EmailSent)
	assert.NotNil(t, sent.EmailSentAt)
	require.Len(t, f.mailer.sent, 1)
	msg := f.mailer.sent[0]
	assert.Equal(t, "EMP100013@example.com", msg.To)
	assert.Equal(t, "April 2024", msg.Period)
	assert.Equal(t, "application/pdf", msg.Attachment.ContentType)
}
