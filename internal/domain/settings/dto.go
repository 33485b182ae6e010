package settings

import (
	"time"

	"github.com/officehr/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type SettingsResponse struct {
	ID            string             `json:"id"`
	Company       CompanyProfile     `json:"company"`
	Payroll       PayrollConfig      `json:"payroll"`
	Attendance    AttendanceConfig   `json:"attendance"`
	Notifications NotificationConfig `json:"notifications"`
	Customization Customization      `json:"customization"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

func NewSettingsResponse(s Settings) SettingsResponse {
	return SettingsResponse{
		ID:            s.ID,
		Company:       s.Company,
		Payroll:       s.Payroll,
		Attendance:    s.Attendance,
		Notifications: s.Notifications,
		Customization: s.Customization,
		UpdatedAt:     s.UpdatedAt,
	}
}

// UpdateSettingsRequest replaces every section that is present in the body.
type UpdateSettingsRequest struct {
	Company       *CompanyProfile     `json:"company,omitempty"`
	Payroll       *PayrollConfig      `json:"payroll,omitempty"`
	Attendance    *AttendanceConfig   `json:"attendance,omitempty"`
	Notifications *NotificationConfig `json:"notifications,omitempty"`
	Customization *Customization      `json:"customization,omitempty"`
}

func (r *UpdateSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	if c := r.Company; c != nil {
		if validator.IsEmpty(c.Name) {
			errs.Add("company.name", "is required")
		}
		if c.Email != "" && !validator.IsValidEmail(c.Email) {
			errs.Add("company.email", "must be a valid email")
		}
	}

	if p := r.Payroll; p != nil {
		if p.DefaultWorkingHours < 1 || p.DefaultWorkingHours > 24 {
			errs.Add("payroll.default_working_hours", ErrInvalidWorkingHours.Error())
		}
		if p.OvertimeRate.LessThan(decimal.NewFromInt(1)) {
			errs.Add("payroll.overtime_rate", "must be at least 1")
		}
		if !isPercentage(p.PFPercentage) {
			errs.Add("payroll.pf_percentage", "must be between 0 and 100")
		}
		if !isPercentage(p.ESIPercentage) {
			errs.Add("payroll.esi_percentage", "must be between 0 and 100")
		}
		if err := validateTaxSlabs(p.TaxSlabs); err != nil {
			errs.Add("payroll.tax_slabs", err.Error())
		}
		if p.Bonuses.Performance.IsNegative() || p.Bonuses.Festival.IsNegative() || p.Bonuses.Other.IsNegative() {
			errs.Add("payroll.bonuses", "must be non-negative")
		}
	}

	if a := r.Attendance; a != nil {
		if !validator.IsValidClock(a.WorkStartTime) {
			errs.Add("attendance.work_start_time", "must be HH:MM")
		}
		if !validator.IsValidClock(a.WorkEndTime) {
			errs.Add("attendance.work_end_time", "must be HH:MM")
		}
		if validator.IsValidClock(a.WorkStartTime) && validator.IsValidClock(a.WorkEndTime) && a.WorkEndTime <= a.WorkStartTime {
			errs.Add("attendance.work_end_time", "must be after work_start_time")
		}
		if a.LateThresholdMinutes < 0 || a.LateThresholdMinutes > 240 {
			errs.Add("attendance.late_threshold", "must be between 0 and 240 minutes")
		}
		if a.HalfDayThresholdHours <= 0 || a.HalfDayThresholdHours > 24 {
			errs.Add("attendance.half_day_threshold", "must be between 0 and 24 hours")
		}
		for _, day := range a.WeeklyOffs {
			if !validator.IsInSlice(day, Weekdays) {
				errs.Add("attendance.weekly_offs", "contains an unknown weekday: "+day)
				break
			}
		}
		if len(a.WeeklyOffs) >= len(Weekdays) {
			errs.Add("attendance.weekly_offs", "at least one working day is required")
		}
		for _, h := range a.Holidays {
			if _, ok := validator.IsValidDate(h.Date); !ok {
				errs.Add("attendance.holidays", "dates must be YYYY-MM-DD")
				break
			}
		}
	}

	if c := r.Customization; c != nil {
		if !validator.IsInSlice(c.Currency, Currencies) {
			errs.Add("customization.currency", "unsupported currency")
		}
		if !validator.IsInSlice(c.DateFormat, DateFormats) {
			errs.Add("customization.date_format", "unsupported date format")
		}
		if !validator.IsInSlice(c.TimeFormat, TimeFormats) {
			errs.Add("customization.time_format", "must be 12 or 24")
		}
		if c.Theme != "" && !validator.IsInSlice(c.Theme, Themes) {
			errs.Add("customization.theme", "must be light, dark or auto")
		}
	}

	return errs.OrNil()
}

func isPercentage(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(decimal.NewFromInt(100))
}

// validateTaxSlabs requires slabs ordered by Min, each starting where the previous ended,
// with only the last one open-ended.
func validateTaxSlabs(slabs TaxSlabs) error {
	if len(slabs) == 0 {
		return nil
	}
	for i, slab := range slabs {
		if !isPercentage(slab.Rate) {
			return ErrInvalidTaxSlabs
		}
		if slab.Max == nil && i != len(slabs)-1 {
			return ErrInvalidTaxSlabs
		}
		if slab.Max != nil && slab.Max.LessThan(slab.Min) {
			return ErrInvalidTaxSlabs
		}
		if i > 0 {
			prev := slabs[i-1]
			if prev.Max == nil || slab.Min.LessThanOrEqual(*prev.Max) {
				return ErrInvalidTaxSlabs
			}
		}
	}
	return nil
}

type ComponentInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type PayrollConfigResponse struct {
	Parameters PayrollConfig   `json:"parameters"`
	Allowances []ComponentInfo `json:"allowances"`
	Deductions []ComponentInfo `json:"deductions"`
	Bonuses    []ComponentInfo `json:"bonuses"`
}

var (
	AllowanceComponents = []ComponentInfo{
		{Name: "HRA", Description: "House Rent Allowance"},
		{Name: "DA", Description: "Dearness Allowance"},
		{Name: "TA", Description: "Transport Allowance"},
		{Name: "Medical", Description: "Medical Allowance"},
		{Name: "Other", Description: "Other Allowances"},
	}
	DeductionComponents = []ComponentInfo{
		{Name: "PF", Description: "Provident Fund"},
		{Name: "ESI", Description: "Employee State Insurance"},
		{Name: "Tax", Description: "Income Tax"},
		{Name: "LOP", Description: "Loss of Pay"},
		{Name: "Other", Description: "Other Deductions"},
	}
	BonusComponents = []ComponentInfo{
		{Name: "Performance", Description: "Performance Bonus"},
		{Name: "Festival", Description: "Festival Bonus"},
		{Name: "Other", Description: "Other Bonuses"},
	}
)

type ExpenseCategoriesResponse struct {
	Categories     []string `json:"categories"`
	PaymentMethods []string `json:"payment_methods"`
}

type EmployeeConfigResponse struct {
	Roles       []string `json:"roles"`
	Departments []string `json:"departments"`
	Statuses    []string `json:"statuses"`
}
