package fixtures

import (
	"github.com/officehr/payroll-backend-go/internal/domain/settings"
	"github.com/shopspring/decimal"
)

// ==========================================
// HELPER FUNCTIONS
// ==========================================

func decimalPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// ==========================================
// DEFAULT SETTINGS
// ==========================================

// DefaultSettings returns the configuration created on first read of the settings document.
func DefaultSettings() settings.Settings {
	return settings.Settings{
		Company: settings.CompanyProfile{
			Name:    "Payroll Management System",
			Address: "123 Business Street, City, State 12345",
			Phone:   "+1 (555) 123-4567",
			Email:   "info@company.com",
			Website: "www.company.com",
		},
		Payroll: settings.PayrollConfig{
			DefaultWorkingHours: 8,
			OvertimeRate:        decimal.RequireFromString("1.5"),
			PFPercentage:        decimal.NewFromInt(12),
			ESIPercentage:       decimal.RequireFromString("1.75"),
			TaxSlabs:            DefaultTaxSlabs(),
			Bonuses: settings.BonusPolicy{
				Performance: decimal.Zero,
				Festival:    decimal.Zero,
				Other:       decimal.Zero,
			},
		},
		Attendance: settings.AttendanceConfig{
			WorkStartTime:         "09:00",
			WorkEndTime:           "18:00",
			LateThresholdMinutes:  15,
			HalfDayThresholdHours: 4,
			WeeklyOffs:            []string{"Sunday"},
			Holidays:              []settings.Holiday{},
		},
		Notifications: settings.NotificationConfig{
			PayslipEmail:       true,
			AttendanceReminder: true,
			ExpenseApproval:    true,
			PayrollGeneration:  true,
		},
		Customization: settings.Customization{
			Currency:   "INR",
			DateFormat: "DD/MM/YYYY",
			TimeFormat: "24",
			Theme:      "light",
		},
	}
}

// DefaultTaxSlabs are annual income slabs with rates in percent.
func DefaultTaxSlabs() settings.TaxSlabs {
	return settings.TaxSlabs{
		{Min: decimal.Zero, Max: decimalPtr(250000), Rate: decimal.Zero},
		{Min: decimal.NewFromInt(250001), Max: decimalPtr(500000), Rate: decimal.NewFromInt(5)},
		{Min: decimal.NewFromInt(500001), Max: decimalPtr(1000000), Rate: decimal.NewFromInt(20)},
		{Min: decimal.NewFromInt(1000001), Max: nil, Rate: decimal.NewFromInt(30)},
	}
}
