package settings

import "context"

type SettingsService interface {
	// Get returns the settings, creating the defaults on first read.
	Get(ctx context.Context) (SettingsResponse, error)
	Update(ctx context.Context, req UpdateSettingsRequest) (SettingsResponse, error)
	GetPayrollConfig(ctx context.Context) (PayrollConfigResponse, error)
	GetExpenseCategories(ctx context.Context) ExpenseCategoriesResponse
	GetEmployeeConfig(ctx context.Context) EmployeeConfigResponse

	// Load returns the settings entity for other services. It is read from the
	// repository on every call so admin edits apply to the next run.
	Load(ctx context.Context) (Settings, error)
}
