package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/officehr/payroll-backend-go/internal/domain/employee"
	"github.com/officehr/payroll-backend-go/internal/domain/expense"
	"github.com/officehr/payroll-backend-go/internal/domain/settings"
	"github.com/officehr/payroll-backend-go/internal/fixtures"
)

type SettingsServiceImpl struct {
	settingsRepo settings.SettingsRepository
}

func NewSettingsService(settingsRepo settings.SettingsRepository) settings.SettingsService {
	return &SettingsServiceImpl{settingsRepo: settingsRepo}
}

func (s *SettingsServiceImpl) Load(ctx context.Context) (settings.Settings, error) {
	cfg, err := s.settingsRepo.Get(ctx)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, settings.ErrSettingsNotFound) {
		return settings.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}

	created, err := s.settingsRepo.Upsert(ctx, fixtures.DefaultSettings())
	if err != nil {
		return settings.Settings{}, fmt.Errorf("failed to create default settings: %w", err)
	}
	slog.Info("default settings created", slog.String("settings_id", created.ID))
	return created, nil
}

func (s *SettingsServiceImpl) Get(ctx context.Context) (settings.SettingsResponse, error) {
	cfg, err := s.Load(ctx)
	if err != nil {
		return settings.SettingsResponse{}, err
	}
	return settings.NewSettingsResponse(cfg), nil
}

func (s *SettingsServiceImpl) Update(ctx context.Context, req settings.UpdateSettingsRequest) (settings.SettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return settings.SettingsResponse{}, err
	}

	cfg, err := s.Load(ctx)
	if err != nil {
		return settings.SettingsResponse{}, err
	}

	if req.Company != nil {
		cfg.Company = *req.Company
	}
	if req.Payroll != nil {
		cfg.Payroll = *req.Payroll
	}
	if req.Attendance != nil {
		cfg.Attendance = *req.Attendance
		if cfg.Attendance.Holidays == nil {
			cfg.Attendance.Holidays = []settings.Holiday{}
		}
	}
	if req.Notifications != nil {
		cfg.Notifications = *req.Notifications
	}
	if req.Customization != nil {
		cfg.Customization = *req.Customization
	}

	updated, err := s.settingsRepo.Upsert(ctx, cfg)
	if err != nil {
		return settings.SettingsResponse{}, fmt.Errorf("failed to update settings: %w", err)
	}
	return settings.NewSettingsResponse(updated), nil
}

func (s *SettingsServiceImpl) GetPayrollConfig(ctx context.Context) (settings.PayrollConfigResponse, error) {
	cfg, err := s.Load(ctx)
	if err != nil {
		return settings.PayrollConfigResponse{}, err
	}
	return settings.PayrollConfigResponse{
		Parameters: cfg.Payroll,
		Allowances: settings.AllowanceComponents,
		Deductions: settings.DeductionComponents,
		Bonuses:    settings.BonusComponents,
	}, nil
}

func (s *SettingsServiceImpl) GetExpenseCategories(ctx context.Context) settings.ExpenseCategoriesResponse {
	return settings.ExpenseCategoriesResponse{
		Categories:     expense.Categories,
		PaymentMethods: expense.PaymentMethods,
	}
}

func (s *SettingsServiceImpl) GetEmployeeConfig(ctx context.Context) settings.EmployeeConfigResponse {
	return settings.EmployeeConfigResponse{
		Roles:       employee.Roles,
		Departments: employee.Departments,
		Statuses:    employee.Statuses,
	}
}
