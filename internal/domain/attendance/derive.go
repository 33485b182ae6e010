package attendance

import (
	"fmt"
	"time"

	"github.com/officehr/payroll-backend-go/internal/domain/settings"
)

// Rules are the thresholds used to derive working hours, overtime, half days and lateness.
type Rules struct {
	StandardHours    float64
	HalfDayThreshold float64
	WorkStart        time.Duration // offset from local midnight
	LateThreshold    time.Duration
	Location         *time.Location
}

// RulesFromSettings builds Rules from the settings document. Standard hours always come
// from the payroll section so overtime and payroll agree on one value.
func RulesFromSettings(s settings.Settings, loc *time.Location) (Rules, error) {
	start, err := s.Attendance.WorkStartOffset()
	if err != nil {
		return Rules{}, fmt.Errorf("parse work start time %q: %w", s.Attendance.WorkStartTime, err)
	}
	if loc == nil {
		loc = time.UTC
	}
	return Rules{
		StandardHours:    s.Payroll.DefaultWorkingHours,
		HalfDayThreshold: s.Attendance.HalfDayThresholdHours,
		WorkStart:        start,
		LateThreshold:    time.Duration(s.Attendance.LateThresholdMinutes) * time.Minute,
		Location:         loc,
	}, nil
}

type Derived struct {
	WorkingHours float64
	Overtime     float64
	IsHalfDay    bool
}

// Derive computes the hour-based fields for a completed day.
func Derive(checkIn, checkOut time.Time, r Rules) (Derived, error) {
	if checkOut.Before(checkIn) {
		return Derived{}, ErrCheckOutBeforeCheckIn
	}
	hours := checkOut.Sub(checkIn).Hours()
	overtime := hours - r.StandardHours
	if overtime < 0 {
		overtime = 0
	}
	return Derived{
		WorkingHours: hours,
		Overtime:     overtime,
		IsHalfDay:    hours < r.HalfDayThreshold,
	}, nil
}

// IsLate compares only the local time of day against work start plus the grace period.
func (r Rules) IsLate(checkIn time.Time) bool {
	loc := r.Location
	if loc == nil {
		loc = time.UTC
	}
	local := checkIn.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return local.Sub(midnight) > r.WorkStart+r.LateThreshold
}

// Recalculate refreshes the derived fields when both punches are present.
// Present and Half Day are switched to match the hours; other statuses are left alone.
func (a *Attendance) Recalculate(r Rules) error {
	if a.CheckIn.Time != nil {
		a.CheckIn.IsLate = r.IsLate(*a.CheckIn.Time)
	}
	if a.CheckIn.Time == nil || a.CheckOut.Time == nil {
		return nil
	}

	d, err := Derive(*a.CheckIn.Time, *a.CheckOut.Time, r)
	if err != nil {
		return err
	}
	a.WorkingHours = d.WorkingHours
	a.Overtime = d.Overtime
	a.IsHalfDay = d.IsHalfDay

	switch {
	case a.Status == StatusPresent && d.IsHalfDay:
		a.Status = StatusHalfDay
	case a.Status == StatusHalfDay && !d.IsHalfDay:
		a.Status = StatusPresent
	}
	return nil
}
