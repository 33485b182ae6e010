package attendance

import (
	"math"
	"time"

	"github.com/officehr/payroll-backend-go/internal/pkg/validator"
)

// ========== CHECK IN / CHECK OUT ==========

type CheckInRequest struct {
	EmployeeID string  `json:"employee_id" validate:"required"`
	Location   string  `json:"location,omitempty" validate:"max=100"`
	Remarks    *string `json:"remarks,omitempty" validate:"omitempty,max=500"`
	// Time backdates the punch (RFC3339). Defaults to now.
	Time *string `json:"time,omitempty"`
}

func (r *CheckInRequest) Validate() error {
	errs := validator.ValidateStruct(r)
	if r.Time != nil {
		if _, ok := validator.IsValidDateTime(*r.Time); !ok {
			errs.Add("time", "must be an RFC3339 timestamp")
		}
	}
	return errs.OrNil()
}

type CheckOutRequest struct {
	EmployeeID string  `json:"employee_id" validate:"required"`
	Location   string  `json:"location,omitempty" validate:"max=100"`
	Remarks    *string `json:"remarks,omitempty" validate:"omitempty,max=500"`
	Time       *string `json:"time,omitempty"`
}

func (r *CheckOutRequest) Validate() error {
	errs := validator.ValidateStruct(r)
	if r.Time != nil {
		if _, ok := validator.IsValidDateTime(*r.Time); !ok {
			errs.Add("time", "must be an RFC3339 timestamp")
		}
	}
	return errs.OrNil()
}

// ========== UPDATE ==========

type UpdateAttendanceRequest struct {
	ID            string  `json:"-"`
	CheckInTime   *string `json:"check_in_time,omitempty"`
	CheckOutTime  *string `json:"check_out_time,omitempty"`
	Status        *string `json:"status,omitempty" validate:"omitempty,oneof='Present' 'Absent' 'Half Day' 'Leave' 'Holiday'"`
	Remarks       *string `json:"remarks,omitempty" validate:"omitempty,max=500"`
	ApprovedBy    *string `json:"-"`
	CheckInPlace  *string `json:"check_in_location,omitempty" validate:"omitempty,max=100"`
	CheckOutPlace *string `json:"check_out_location,omitempty" validate:"omitempty,max=100"`
}

func (r *UpdateAttendanceRequest) Validate() error {
	errs := validator.ValidateStruct(r)

	var in, out time.Time
	var okIn, okOut bool
	if r.CheckInTime != nil {
		if in, okIn = validator.IsValidDateTime(*r.CheckInTime); !okIn {
			errs.Add("check_in_time", "must be an RFC3339 timestamp")
		}
	}
	if r.CheckOutTime != nil {
		if out, okOut = validator.IsValidDateTime(*r.CheckOutTime); !okOut {
			errs.Add("check_out_time", "must be an RFC3339 timestamp")
		}
	}
	if okIn && okOut && out.Before(in) {
		errs.Add("check_out_time", "must not be before check_in_time")
	}

	return errs.OrNil()
}

// ========== QUERIES ==========

type MonthQuery struct {
	Month int `json:"month" validate:"gte=1,lte=12"`
	Year  int `json:"year" validate:"gte=2000,lte=2100"`
}

func (q *MonthQuery) Validate() error {
	return validator.ValidateStruct(q).OrNil()
}

// ========== RESPONSES ==========

type PunchResponse struct {
	Time     *time.Time `json:"time"`
	Location string     `json:"location,omitempty"`
	IsLate   bool       `json:"is_late,omitempty"`
}

type AttendanceResponse struct {
	ID           string        `json:"id"`
	EmployeeID   string        `json:"employee_id"`
	EmployeeCode string        `json:"employee_code,omitempty"`
	EmployeeName string        `json:"employee_name,omitempty"`
	Department   string        `json:"department,omitempty"`
	Date         string        `json:"date"`
	CheckIn      PunchResponse `json:"check_in"`
	CheckOut     PunchResponse `json:"check_out"`
	WorkingHours float64       `json:"working_hours"`
	Overtime     float64       `json:"overtime"`
	IsHalfDay    bool          `json:"is_half_day"`
	Status       string        `json:"status"`
	Remarks      *string       `json:"remarks,omitempty"`
	ApprovedBy   *string       `json:"approved_by,omitempty"`
	ApprovedAt   *time.Time    `json:"approved_at,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func NewAttendanceResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:           a.ID,
		EmployeeID:   a.EmployeeID,
		EmployeeCode: a.EmployeeCode,
		EmployeeName: a.EmployeeName,
		Department:   a.Department,
		Date:         a.Date.Format("2006-01-02"),
		CheckIn:      PunchResponse{Time: a.CheckIn.Time, Location: a.CheckIn.Location, IsLate: a.CheckIn.IsLate},
		CheckOut:     PunchResponse{Time: a.CheckOut.Time, Location: a.CheckOut.Location},
		WorkingHours: round2(a.WorkingHours),
		Overtime:     round2(a.Overtime),
		IsHalfDay:    a.IsHalfDay,
		Status:       string(a.Status),
		Remarks:      a.Remarks,
		ApprovedBy:   a.ApprovedBy,
		ApprovedAt:   a.ApprovedAt,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func NewAttendanceResponses(records []Attendance) []AttendanceResponse {
	out := make([]AttendanceResponse, 0, len(records))
	for _, r := range records {
		out = append(out, NewAttendanceResponse(r))
	}
	return out
}

type SummaryResponse struct {
	TotalDays         int     `json:"total_days"`
	PresentDays       int     `json:"present_days"`
	AbsentDays        int     `json:"absent_days"`
	HalfDays          int     `json:"half_days"`
	LeaveDays         int     `json:"leave_days"`
	HolidayDays       int     `json:"holiday_days"`
	LateDays          int     `json:"late_days"`
	TotalWorkingHours float64 `json:"total_working_hours"`
	TotalOvertime     float64 `json:"total_overtime"`
}

func NewSummaryResponse(s MonthlySummary) SummaryResponse {
	return SummaryResponse{
		TotalDays:         s.TotalDays,
		PresentDays:       s.PresentDays,
		AbsentDays:        s.AbsentDays,
		HalfDays:          s.HalfDays,
		LeaveDays:         s.LeaveDays,
		HolidayDays:       s.HolidayDays,
		LateDays:          s.LateDays,
		TotalWorkingHours: round2(s.TotalWorkingHours),
		TotalOvertime:     round2(s.TotalOvertime),
	}
}

type TodayAttendanceResponse struct {
	Date         string               `json:"date"`
	TotalRecords int                  `json:"total_records"`
	PresentCount int                  `json:"present_count"`
	AbsentCount  int                  `json:"absent_count"`
	LateCount    int                  `json:"late_count"`
	Attendance   []AttendanceResponse `json:"attendance"`
}

type EmployeeMonthlyReport struct {
	EmployeeID   string          `json:"employee_id"`
	EmployeeCode string          `json:"employee_code"`
	EmployeeName string          `json:"employee_name"`
	Department   string          `json:"department"`
	Summary      SummaryResponse `json:"summary"`
}

type MonthlyReportResponse struct {
	Month       int                     `json:"month"`
	Year        int                     `json:"year"`
	WorkingDays int                     `json:"working_days"`
	Employees   []EmployeeMonthlyReport `json:"employees"`
}

type EmployeeAttendanceResponse struct {
	EmployeeID string               `json:"employee_id"`
	Month      int                  `json:"month"`
	Year       int                  `json:"year"`
	Summary    SummaryResponse      `json:"summary"`
	Records    []AttendanceResponse `json:"records"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
