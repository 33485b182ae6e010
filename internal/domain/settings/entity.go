package settings

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Settings is the single configuration document of a deployment.
// Sub-documents carry json tags because they are persisted as JSONB and served as-is.
type Settings struct {
	ID            string
	Company       CompanyProfile
	Payroll       PayrollConfig
	Attendance    AttendanceConfig
	Notifications NotificationConfig
	Customization Customization
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type CompanyProfile struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Website string `json:"website"`
	Logo    string `json:"logo"`
}

type PayrollConfig struct {
	DefaultWorkingHours float64         `json:"default_working_hours"`
	OvertimeRate        decimal.Decimal `json:"overtime_rate"`
	PFPercentage        decimal.Decimal `json:"pf_percentage"`
	ESIPercentage       decimal.Decimal `json:"esi_percentage"`
	TaxSlabs            TaxSlabs        `json:"tax_slabs"`
	Bonuses             BonusPolicy     `json:"bonuses"`
}

// BonusPolicy holds the flat monthly bonus amounts applied to every generated payroll
// unless overridden for an employee.
type BonusPolicy struct {
	Performance decimal.Decimal `json:"performance"`
	Festival    decimal.Decimal `json:"festival"`
	Other       decimal.Decimal `json:"other"`
}

type TaxSlab struct {
	Min  decimal.Decimal  `json:"min"`
	Max  *decimal.Decimal `json:"max"` // nil = no upper bound
	Rate decimal.Decimal  `json:"rate"`
}

type TaxSlabs []TaxSlab

// AnnualTax applies the slabs progressively: each slab taxes only the part of income
// between the previous slab's upper bound and its own.
func (s TaxSlabs) AnnualTax(income decimal.Decimal) decimal.Decimal {
	slabs := make(TaxSlabs, len(s))
	copy(slabs, s)
	sort.Slice(slabs, func(i, j int) bool { return slabs[i].Min.LessThan(slabs[j].Min) })

	tax := decimal.Zero
	lower := decimal.Zero
	for _, slab := range slabs {
		if !income.GreaterThan(lower) {
			break
		}
		upper := income
		if slab.Max != nil && slab.Max.LessThan(income) {
			upper = *slab.Max
		}
		tax = tax.Add(upper.Sub(lower).Mul(slab.Rate).Div(decimal.NewFromInt(100)))
		if slab.Max == nil {
			break
		}
		lower = *slab.Max
	}
	return tax.Round(2)
}

type AttendanceConfig struct {
	WorkStartTime         string    `json:"work_start_time"`
	WorkEndTime           string    `json:"work_end_time"`
	LateThresholdMinutes  int       `json:"late_threshold"`
	HalfDayThresholdHours float64   `json:"half_day_threshold"`
	WeeklyOffs            []string  `json:"weekly_offs"`
	Holidays              []Holiday `json:"holidays"`
}

type Holiday struct {
	Date string `json:"date"` // YYYY-MM-DD
	Name string `json:"name"`
}

// IsWorkingDay reports whether day is neither a weekly off nor a listed holiday.
func (c AttendanceConfig) IsWorkingDay(day time.Time) bool {
	weekday := day.Weekday().String()
	for _, off := range c.WeeklyOffs {
		if off == weekday {
			return false
		}
	}
	date := day.Format("2006-01-02")
	for _, h := range c.Holidays {
		if h.Date == date {
			return false
		}
	}
	return true
}

// WorkingDaysIn counts the working days of the given calendar month.
func (c AttendanceConfig) WorkingDaysIn(year int, month time.Month) int {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	days := 0
	for d := start; d.Month() == month; d = d.AddDate(0, 0, 1) {
		if c.IsWorkingDay(d) {
			days++
		}
	}
	return days
}

// WorkStartOffset parses WorkStartTime as a duration since midnight.
func (c AttendanceConfig) WorkStartOffset() (time.Duration, error) {
	t, err := time.Parse("15:04", c.WorkStartTime)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

type NotificationConfig struct {
	PayslipEmail       bool `json:"payslip_email"`
	AttendanceReminder bool `json:"attendance_reminder"`
	ExpenseApproval    bool `json:"expense_approval"`
	PayrollGeneration  bool `json:"payroll_generation"`
}

type Customization struct {
	Currency   string `json:"currency"`
	DateFormat string `json:"date_format"`
	TimeFormat string `json:"time_format"`
	Theme      string `json:"theme"`
}

var (
	Currencies  = []string{"INR", "USD", "EUR", "GBP", "AED", "SGD", "JPY"}
	DateFormats = []string{"DD/MM/YYYY", "MM/DD/YYYY", "YYYY-MM-DD"}
	TimeFormats = []string{"12", "24"}
	Themes      = []string{"light", "dark", "auto"}
	Weekdays    = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
)

// Statutory holds the deductions derived from the payroll percentages and tax slabs.
type Statutory struct {
	PF  decimal.Decimal
	ESI decimal.Decimal
	Tax decimal.Decimal
}

// StatutoryDeductions computes monthly PF on basic, ESI on basic plus allowances, and
// one twelfth of the annual slab tax on twelve months of basic plus allowances.
func (c PayrollConfig) StatutoryDeductions(basic, allowances decimal.Decimal) Statutory {
	hundred := decimal.NewFromInt(100)
	monthly := basic.Add(allowances)
	return Statutory{
		PF:  basic.Mul(c.PFPercentage).Div(hundred).Round(2),
		ESI: monthly.Mul(c.ESIPercentage).Div(hundred).Round(2),
		Tax: c.TaxSlabs.AnnualTax(monthly.Mul(decimal.NewFromInt(12))).Div(decimal.NewFromInt(12)).Round(2),
	}
}
