package attendance

import (
	"time"
)

type Status string

const (
	StatusPresent Status = "Present"
	StatusAbsent  Status = "Absent"
	StatusHalfDay Status = "Half Day"
	StatusLeave   Status = "Leave"
	StatusHoliday Status = "Holiday"
)

var Statuses = []string{"Present", "Absent", "Half Day", "Leave", "Holiday"}

const DefaultLocation = "Office"

type Attendance struct {
	ID           string
	EmployeeID   string
	Date         time.Time // calendar date at 00:00 UTC
	CheckIn      CheckIn
	CheckOut     CheckOut
	WorkingHours float64
	Overtime     float64
	IsHalfDay    bool
	Status       Status
	Remarks      *string
	ApprovedBy   *string
	ApprovedAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Joined from employees for list views
	EmployeeCode string
	EmployeeName string
	Department   string
}

type CheckIn struct {
	Time     *time.Time
	Location string
	IsLate   bool
}

type CheckOut struct {
	Time     *time.Time
	Location string
}

// DateOf returns the calendar date of t as seen in loc, normalised to midnight UTC.
func DateOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MonthRange returns the first and last calendar dates of a month.
func MonthRange(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

// MonthlySummary aggregates one employee's records for a month.
type MonthlySummary struct {
	TotalDays         int
	PresentDays       int
	AbsentDays        int
	HalfDays          int
	LeaveDays         int
	HolidayDays       int
	LateDays          int
	TotalWorkingHours float64
	TotalOvertime     float64
}

// Summarize counts records by status and sums hours. Days without a record are not
// counted here; the payroll engine decides how to treat them.
func Summarize(records []Attendance) MonthlySummary {
	var s MonthlySummary
	for _, r := range records {
		s.TotalDays++
		switch r.Status {
		case StatusPresent:
			s.PresentDays++
		case StatusAbsent:
			s.AbsentDays++
		case StatusHalfDay:
			s.HalfDays++
		case StatusLeave:
			s.LeaveDays++
		case StatusHoliday:
			s.HolidayDays++
		}
		if r.CheckIn.IsLate {
			s.LateDays++
		}
		s.TotalWorkingHours += r.WorkingHours
		s.TotalOvertime += r.Overtime
	}
	return s
}
