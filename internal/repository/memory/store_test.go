package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/officehr/payroll-backend-go/internal/domain/attendance"
	"github.com/officehr/payroll-backend-go/internal/domain/employee"
	"github.com/officehr/payroll-backend-go/internal/domain/payroll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayrollRepository_ConcurrentCreateKeepsOnePerPeriod(t *testing.T) {
	ctx := context.Background()
	repo := NewPayrollRepository(NewStore())

	var wg sync.WaitGroup
	results := make(chan error, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(ctx, payroll.Payroll{EmployeeID: "emp-1", Month: 3, Year: 2024, Status: payroll.StatusPending})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	created, conflicts := 0, 0
	for err := range results {
		if err == nil {
			created++
		} else {
			assert.ErrorIs(t, err, payroll.ErrPayrollAlreadyExists)
			conflicts++
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, 49, conflicts)

	records, err := repo.ListByPeriod(ctx, 3, 2024)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestPayrollRepository_ReplacePending(t *testing.T) {
	ctx := context.Background()
	repo := NewPayrollRepository(NewStore())

	_, err := repo.ReplacePending(ctx, payroll.Payroll{EmployeeID: "emp-1", Month: 1, Year: 2024})
	assert.ErrorIs(t, err, payroll.ErrPayrollNotFound)

	created, err := repo.Create(ctx, payroll.Payroll{EmployeeID: "emp-1", Month: 1, Year: 2024, Status: payroll.StatusPending})
	require.NoError(t, err)

	replaced, err := repo.ReplacePending(ctx, payroll.Payroll{EmployeeID: "emp-1", Month: 1, Year: 2024, Status: payroll.StatusPending})
	require.NoError(t, err)
	assert.Equal(t, created.ID, replaced.ID)

	replaced.Status = payroll.StatusPaid
	_, err = repo.Update(ctx, replaced, payroll.StatusPending)
	require.NoError(t, err)

	_, err = repo.ReplacePending(ctx, payroll.Payroll{EmployeeID: "emp-1", Month: 1, Year: 2024})
	assert.ErrorIs(t, err, payroll.ErrPayrollNotEditable)
}

func TestPayrollRepository_UpdateGuardsOnStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewPayrollRepository(NewStore())

	created, err := repo.Create(ctx, payroll.Payroll{EmployeeID: "emp-1", Month: 2, Year: 2024, Status: payroll.StatusPending})
	require.NoError(t, err)

	cancel := created
	cancel.Status = payroll.StatusCancelled
	_, err = repo.Update(ctx, cancel, payroll.StatusPending)
	require.NoError(t, err)

	pay := created
	pay.Status = payroll.StatusPaid
	_, err = repo.Update(ctx, pay, payroll.StatusPending)
	assert.ErrorIs(t, err, payroll.ErrStatusChanged)

	flagged, err := repo.MarkPayslipGenerated(ctx, created.ID, "payslips/2024/02/p.pdf")
	require.NoError(t, err)
	assert.True(t, flagged.PayslipGenerated)
	assert.Equal(t, payroll.StatusCancelled, flagged.Status)

	_, err = repo.Update(ctx, pay, payroll.StatusPending)
	assert.ErrorIs(t, err, payroll.ErrStatusChanged)
	_, err = repo.MarkEmailSent(ctx, "missing", time.Now())
	assert.ErrorIs(t, err, payroll.ErrPayrollNotFound)
}

func TestAttendanceRepository_UniquePerDay(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	employees := NewEmployeeRepository(store)
	repo := NewAttendanceRepository(store)

	emp, err := employees.Create(ctx, employee.Employee{EmployeeCode: "EMP000001", FirstName: "Ravi", LastName: "Kumar", Email: "ravi@example.com"})
	require.NoError(t, err)

	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	first, err := repo.Create(ctx, attendance.Attendance{EmployeeID: emp.ID, Date: day, Status: attendance.StatusPresent})
	require.NoError(t, err)
	assert.Equal(t, "Ravi Kumar", first.EmployeeName)

	_, err = repo.Create(ctx, attendance.Attendance{EmployeeID: emp.ID, Date: day})
	assert.ErrorIs(t, err, attendance.ErrAttendanceAlreadyExists)

	_, err = repo.Create(ctx, attendance.Attendance{EmployeeID: emp.ID, Date: day.AddDate(0, 0, 1)})
	require.NoError(t, err)

	records, err := repo.ListByEmployee(ctx, emp.ID, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, records[0].Date.Before(records[1].Date))
}

func TestEmployeeRepository_Uniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewEmployeeRepository(NewStore())

	_, err := repo.Create(ctx, employee.Employee{EmployeeCode: "EMP000001", Email: "a@example.com"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, employee.Employee{EmployeeCode: "EMP000001", Email: "b@example.com"})
	assert.ErrorIs(t, err, employee.ErrEmployeeCodeExists)

	_, err = repo.Create(ctx, employee.Employee{EmployeeCode: "EMP000002", Email: "A@example.com"})
	assert.ErrorIs(t, err, employee.ErrEmailExists)
}

func TestEmployeeRepository_ListFiltersAndPages(t *testing.T) {
	ctx := context.Background()
	repo := NewEmployeeRepository(NewStore())
	for i, name := range []string{"Charlie", "alice", "Bob", "Dana"} {
		dept := employee.Department("IT")
		if i%2 == 1 {
			dept = "HR"
		}
		_, err := repo.Create(ctx, employee.Employee{
			EmployeeCode: "EMP00000" + string(rune('1'+i)),
			FirstName:    name,
			Email:        name + "@example.com",
			Department:   dept,
			Status:       employee.StatusActive,
		})
		require.NoError(t, err)
	}

	it := "IT"
	page, total, err := repo.List(ctx, employee.EmployeeFilter{Department: &it, Page: 1, Limit: 10, SortBy: "first_name", SortOrder: "asc"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, page, 2)

	search := "ALI"
	page, total, err = repo.List(ctx, employee.EmployeeFilter{Search: &search, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "alice", page[0].FirstName)

	page, total, err = repo.List(ctx, employee.EmployeeFilter{Page: 2, Limit: 3, SortBy: "employee_id", SortOrder: "desc"})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	require.Len(t, page, 1)
	assert.Equal(t, "EMP000001", page[0].EmployeeCode)
}

func TestStore_WithinTransactionNests(t *testing.T) {
	store := NewStore()
	calls := 0
	err := store.WithinTransaction(context.Background(), func(ctx context.Context) error {
		return store.WithinTransaction(ctx, func(ctx context.Context) error {
			calls++
			return nil
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
