package memory

import (
	"context"
	"sort"
	"time"

	"github.com/officehr/payroll-backend-go/internal/domain/attendance"
)

type attendanceRepository struct {
	s *Store
}

func NewAttendanceRepository(s *Store) attendance.AttendanceRepository {
	return &attendanceRepository{s: s}
}

func (r *attendanceRepository) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.attendance {
		if existing.EmployeeID == a.EmployeeID && existing.Date.Equal(a.Date) {
			return attendance.Attendance{}, attendance.ErrAttendanceAlreadyExists
		}
	}
	now := r.s.now()
	a.ID = newID()
	a.CreatedAt = now
	a.UpdatedAt = now
	r.s.attendance[a.ID] = a
	return r.join(a), nil
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.attendance[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return r.join(a), nil
}

func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, a := range r.s.attendance {
		if a.EmployeeID == employeeID && a.Date.Equal(date) {
			return r.join(a), nil
		}
	}
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (r *attendanceRepository) Update(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.attendance[a.ID]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	// employee and date identify the record and are never rewritten
	a.EmployeeID = existing.EmployeeID
	a.Date = existing.Date
	a.CreatedAt = existing.CreatedAt
	a.UpdatedAt = r.s.now()
	r.s.attendance[a.ID] = a
	return r.join(a), nil
}

func (r *attendanceRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.attendance[id]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	delete(r.s.attendance, id)
	return nil
}

func (r *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Attendance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []attendance.Attendance
	for _, a := range r.s.attendance {
		if a.EmployeeID == employeeID && inRange(a.Date, start, end) {
			out = append(out, r.join(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *attendanceRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]attendance.Attendance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []attendance.Attendance
	for _, a := range r.s.attendance {
		if inRange(a.Date, start, end) {
			out = append(out, r.join(a))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].EmployeeCode < out[j].EmployeeCode
	})
	return out, nil
}

// join fills the employee columns; callers hold s.mu.
func (r *attendanceRepository) join(a attendance.Attendance) attendance.Attendance {
	if e, ok := r.s.employees[a.EmployeeID]; ok {
		a.EmployeeCode = e.EmployeeCode
		a.EmployeeName = e.FullName()
		a.Department = string(e.Department)
	}
	return a
}

// inRange is inclusive; a zero bound is open.
func inRange(t, start, end time.Time) bool {
	if !start.IsZero() && t.Before(start) {
		return false
	}
	if !end.IsZero() && t.After(end) {
		return false
	}
	return true
}
