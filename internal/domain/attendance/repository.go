package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	// Create returns ErrAttendanceAlreadyExists when (employee, date) is taken.
	Create(ctx context.Context, a Attendance) (Attendance, error)
	GetByID(ctx context.Context, id string) (Attendance, error)
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (Attendance, error)
	Update(ctx context.Context, a Attendance) (Attendance, error)
	Delete(ctx context.Context, id string) error

	// ListByEmployee returns records with start <= date <= end ordered by date.
	ListByEmployee(ctx context.Context, employeeID string, start, end time.Time) ([]Attendance, error)
	// ListByDateRange returns all employees' records with joined employee fields.
	ListByDateRange(ctx context.Context, start, end time.Time) ([]Attendance, error)
}
