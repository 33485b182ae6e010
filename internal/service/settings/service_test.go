package settings

import (
	"context"
	"testing"

	"github.com/officehr/payroll-backend-go/internal/domain/settings"
	"github.com/officehr/payroll-backend-go/internal/pkg/validator"
	"github.com/officehr/payroll-backend-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsService_GetCreatesDefaults(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewSettingsRepository(memory.NewStore())
	svc := NewSettingsService(repo)

	first, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, 8.0, first.Payroll.DefaultWorkingHours)
	assert.True(t, decimal.RequireFromString("1.5").Equal(first.Payroll.OvertimeRate))
	assert.Equal(t, "09:00", first.Attendance.WorkStartTime)
	assert.Equal(t, "INR", first.Customization.Currency)
	assert.Len(t, first.Payroll.TaxSlabs, 4)

	second, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestSettingsService_UpdateReplacesPresentSections(t *testing.T) {
	ctx := context.Background()
	svc := NewSettingsService(memory.NewSettingsRepository(memory.NewStore()))

	current, err := svc.Get(ctx)
	require.NoError(t, err)

	p := current.Payroll
	p.DefaultWorkingHours = 9
	p.Bonuses.Festival = decimal.NewFromInt(1500)
	updated, err := svc.Update(ctx, settings.UpdateSettingsRequest{Payroll: &p})
	require.NoError(t, err)

	assert.Equal(t, 9.0, updated.Payroll.DefaultWorkingHours)
	assert.True(t, decimal.NewFromInt(1500).Equal(updated.Payroll.Bonuses.Festival))
	assert.Equal(t, current.Company, updated.Company)
	assert.Equal(t, current.ID, updated.ID)

	loaded, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 9.0, loaded.Payroll.DefaultWorkingHours)
}

func TestSettingsService_UpdateValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewSettingsService(memory.NewSettingsRepository(memory.NewStore()))

	current, err := svc.Get(ctx)
	require.NoError(t, err)

	att := current.Attendance
	att.WorkStartTime = "18:00"
	att.WorkEndTime = "09:00"
	att.WeeklyOffs = []string{"Funday"}
	_, err = svc.Update(ctx, settings.UpdateSettingsRequest{Attendance: &att})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "attendance.work_end_time")
	assert.Contains(t, fields, "attendance.weekly_offs")
}

func TestSettingsService_Enums(t *testing.T) {
	svc := NewSettingsService(memory.NewSettingsRepository(memory.NewStore()))

	cats := svc.GetExpenseCategories(context.Background())
	assert.Contains(t, cats.Categories, "Rent")
	assert.Contains(t, cats.PaymentMethods, "Online Payment")

	cfg := svc.GetEmployeeConfig(context.Background())
	assert.Equal(t, []string{"Active", "Inactive", "Terminated"}, cfg.Statuses)

	payroll, err := svc.GetPayrollConfig(context.Background())
	require.NoError(t, err)
	assert.Len(t, payroll.Deductions, 5)
}
