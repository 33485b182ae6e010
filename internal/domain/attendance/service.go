package attendance

import (
	"context"
	"time"
)

type AttendanceService interface {
	CheckIn(ctx context.Context, req CheckInRequest) (AttendanceResponse, error)
	CheckOut(ctx context.Context, req CheckOutRequest) (AttendanceResponse, error)
	GetToday(ctx context.Context) (TodayAttendanceResponse, error)
	GetMonthlyReport(ctx context.Context, month, year int) (MonthlyReportResponse, error)
	GetEmployeeAttendance(ctx context.Context, employeeID string, month, year int) (EmployeeAttendanceResponse, error)
	UpdateAttendance(ctx context.Context, req UpdateAttendanceRequest) (AttendanceResponse, error)
	DeleteAttendance(ctx context.Context, id string) error

	// MarkAbsent creates Absent records for active employees without a record on date.
	// It returns the number of records created.
	MarkAbsent(ctx context.Context, date time.Time) (int, error)
}
