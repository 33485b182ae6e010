package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/officehr/payroll-backend-go/internal/domain/attendance"
	"github.com/officehr/payroll-backend-go/internal/pkg/database"
)

const attendanceColumns = `
	a.id, a.employee_id, a.date,
	a.check_in_time, a.check_in_location, a.is_late,
	a.check_out_time, a.check_out_location,
	a.working_hours, a.overtime, a.is_half_day, a.status,
	a.remarks, a.approved_by, a.approved_at, a.created_at, a.updated_at,
	COALESCE(e.employee_code, ''), COALESCE(e.first_name || ' ' || e.last_name, ''), COALESCE(e.department, '')`

const attendanceFrom = ` FROM attendance a LEFT JOIN employees e ON e.id = a.employee_id `

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := row.Scan(
		&att.ID, &att.EmployeeID, &att.Date,
		&att.CheckIn.Time, &att.CheckIn.Location, &att.CheckIn.IsLate,
		&att.CheckOut.Time, &att.CheckOut.Location,
		&att.WorkingHours, &att.Overtime, &att.IsHalfDay, &att.Status,
		&att.Remarks, &att.ApprovedBy, &att.ApprovedAt, &att.CreatedAt, &att.UpdatedAt,
		&att.EmployeeCode, &att.EmployeeName, &att.Department,
	)
	return att, err
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepository) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance (
			employee_id, date, check_in_time, check_in_location, is_late,
			check_out_time, check_out_location, working_hours, overtime, is_half_day,
			status, remarks, approved_by, approved_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`
	var id string
	err := q.QueryRow(ctx, query,
		a.EmployeeID, a.Date, a.CheckIn.Time, a.CheckIn.Location, a.CheckIn.IsLate,
		a.CheckOut.Time, a.CheckOut.Location, a.WorkingHours, a.Overtime, a.IsHalfDay,
		a.Status, a.Remarks, a.ApprovedBy, a.ApprovedAt,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err, "attendance_employee_date_key") {
			return attendance.Attendance{}, attendance.ErrAttendanceAlreadyExists
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	att, err := scanAttendance(q.QueryRow(ctx, `SELECT `+attendanceColumns+attendanceFrom+`WHERE a.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return att, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + attendanceFrom + `WHERE a.employee_id = $1 AND a.date = $2`
	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}
	return att, nil
}

// Update never rewrites employee_id or date; they identify the record.
func (r *attendanceRepository) Update(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance SET
			check_in_time = $2, check_in_location = $3, is_late = $4,
			check_out_time = $5, check_out_location = $6,
			working_hours = $7, overtime = $8, is_half_day = $9, status = $10,
			remarks = $11, approved_by = $12, approved_at = $13, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query,
		a.ID, a.CheckIn.Time, a.CheckIn.Location, a.CheckIn.IsLate,
		a.CheckOut.Time, a.CheckOut.Location,
		a.WorkingHours, a.Overtime, a.IsHalfDay, a.Status,
		a.Remarks, a.ApprovedBy, a.ApprovedAt,
	)
	if err != nil {
		if isInvalidID(err) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return r.GetByID(ctx, a.ID)
}

func (r *attendanceRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendance WHERE id = $1`, id)
	if err != nil {
		if isInvalidID(err) {
			return attendance.ErrAttendanceNotFound
		}
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

func (r *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + attendanceFrom + `
		WHERE a.employee_id = $1
		  AND ($2::date IS NULL OR a.date >= $2)
		  AND ($3::date IS NULL OR a.date <= $3)
		ORDER BY a.date`
	rows, err := q.Query(ctx, query, employeeID, dateBound(start), dateBound(end))
	if err != nil {
		if isInvalidID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list attendance by employee: %w", err)
	}
	defer rows.Close()
	return collectAttendance(rows)
}

func (r *attendanceRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + attendanceFrom + `
		WHERE ($1::date IS NULL OR a.date >= $1)
		  AND ($2::date IS NULL OR a.date <= $2)
		ORDER BY a.date, e.employee_code`
	rows, err := q.Query(ctx, query, dateBound(start), dateBound(end))
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance by date range: %w", err)
	}
	defer rows.Close()
	return collectAttendance(rows)
}

// dateBound maps a zero time to NULL so the bound is open.
func dateBound(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func collectAttendance(rows pgx.Rows) ([]attendance.Attendance, error) {
	var records []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendance: %w", err)
	}
	return records, nil
}
