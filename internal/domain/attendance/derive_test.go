package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRules() Rules {
	return Rules{
		StandardHours:    8,
		HalfDayThreshold: 4,
		WorkStart:        9 * time.Hour,
		LateThreshold:    15 * time.Minute,
		Location:         time.UTC,
	}
}

func at(hour, min int) time.Time {
	return time.Date(2024, 3, 12, hour, min, 0, 0, time.UTC)
}

func TestDerive(t *testing.T) {
	tests := []struct {
		name      string
		in, out   time.Time
		hours     float64
		overtime  float64
		isHalfDay bool
	}{
		{"standard day", at(9, 0), at(17, 0), 8, 0, false},
		{"overtime", at(9, 0), at(19, 30), 10.5, 2.5, false},
		{"half day", at(9, 0), at(12, 0), 3, 0, true},
		{"exactly at half day threshold", at(9, 0), at(13, 0), 4, 0, false},
		{"zero length", at(9, 0), at(9, 0), 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Derive(tt.in, tt.out, testRules())

			require.NoError(t, err)
			assert.InDelta(t, tt.hours, d.WorkingHours, 1e-9)
			assert.InDelta(t, tt.overtime, d.Overtime, 1e-9)
			assert.Equal(t, tt.isHalfDay, d.IsHalfDay)
		})
	}
}

func TestDerive_CheckOutBeforeCheckIn(t *testing.T) {
	_, err := Derive(at(17, 0), at(9, 0), testRules())
	assert.ErrorIs(t, err, ErrCheckOutBeforeCheckIn)
}

func TestRules_IsLate(t *testing.T) {
	r := testRules()

	assert.False(t, r.IsLate(at(9, 0)))
	assert.False(t, r.IsLate(at(9, 15)), "grace period is inclusive")
	assert.True(t, r.IsLate(at(9, 16)))
	assert.True(t, r.IsLate(time.Date(2024, 3, 12, 9, 15, 1, 0, time.UTC)))
	assert.False(t, r.IsLate(at(7, 30)))
}

func TestRules_IsLate_UsesLocation(t *testing.T) {
	r := testRules()
	r.Location = time.FixedZone("IST", 5*3600+1800)

	// 03:40 UTC is 09:10 IST
	assert.False(t, r.IsLate(time.Date(2024, 3, 12, 3, 40, 0, 0, time.UTC)))
	// 04:00 UTC is 09:30 IST
	assert.True(t, r.IsLate(time.Date(2024, 3, 12, 4, 0, 0, 0, time.UTC)))
}

func TestAttendance_Recalculate(t *testing.T) {
	in, out := at(9, 30), at(12, 0)
	a := Attendance{
		Status:   StatusPresent,
		CheckIn:  CheckIn{Time: &in},
		CheckOut: CheckOut{Time: &out},
	}

	require.NoError(t, a.Recalculate(testRules()))

	assert.True(t, a.CheckIn.IsLate)
	assert.True(t, a.IsHalfDay)
	assert.Equal(t, StatusHalfDay, a.Status)
	assert.InDelta(t, 2.5, a.WorkingHours, 1e-9)

	longer := at(18, 30)
	a.CheckOut.Time = &longer
	require.NoError(t, a.Recalculate(testRules()))

	assert.False(t, a.IsHalfDay)
	assert.Equal(t, StatusPresent, a.Status)
	assert.InDelta(t, 1, a.Overtime, 1e-9)
}

func TestAttendance_Recalculate_KeepsManualStatus(t *testing.T) {
	in, out := at(9, 0), at(10, 0)
	a := Attendance{Status: StatusLeave, CheckIn: CheckIn{Time: &in}, CheckOut: CheckOut{Time: &out}}

	require.NoError(t, a.Recalculate(testRules()))

	assert.Equal(t, StatusLeave, a.Status)
	assert.True(t, a.IsHalfDay)
}

func TestAttendance_Recalculate_OpenDay(t *testing.T) {
	in := at(10, 0)
	a := Attendance{Status: StatusPresent, CheckIn: CheckIn{Time: &in}}

	require.NoError(t, a.Recalculate(testRules()))

	assert.True(t, a.CheckIn.IsLate)
	assert.Zero(t, a.WorkingHours)
}

func TestSummarize(t *testing.T) {
	records := []Attendance{
		{Status: StatusPresent, WorkingHours: 9, Overtime: 1, CheckIn: CheckIn{IsLate: true}},
		{Status: StatusPresent, WorkingHours: 8},
		{Status: StatusHalfDay, WorkingHours: 3.5},
		{Status: StatusAbsent},
		{Status: StatusLeave},
		{Status: StatusHoliday},
	}

	s := Summarize(records)

	assert.Equal(t, MonthlySummary{
		TotalDays:         6,
		PresentDays:       2,
		AbsentDays:        1,
		HalfDays:          1,
		LeaveDays:         1,
		HolidayDays:       1,
		LateDays:          1,
		TotalWorkingHours: 20.5,
		TotalOvertime:     1,
	}, s)
}

func TestDateOf(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	// 20:00 UTC on the 11th is already the 12th in IST
	got := DateOf(time.Date(2024, 3, 11, 20, 0, 0, 0, time.UTC), ist)
	assert.Equal(t, time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC), got)

	start, end := MonthRange(2024, 2)
	assert.Equal(t, 1, start.Day())
	assert.Equal(t, 29, end.Day())
}
